package imaging

import (
	"errors"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// ErrOutOfBounds is returned when a crop region does not lie entirely inside
// the source image or has no area.
var ErrOutOfBounds = errors.New("bounds are outside of the dimensions of the source image")

// Region builds the crop rectangle for an origin and a size.
// The rectangle is (x, y) inclusive to (x+width, y+height) exclusive.
//
// Unlike image.Rect the result is not canonicalized, so a negative size stays
// an empty rectangle and is rejected by Crop.
func Region(x, y, width, height int) image.Rectangle {
	return image.Rectangle{
		Min: image.Pt(x, y),
		Max: image.Pt(x+width, y+height),
	}
}

// Crop extracts a rectangular region from an image.
//
// The region is expressed relative to the image's top-left pixel. It must have
// a positive width and height and fit entirely inside the image; a region that
// only partially overlaps is rejected rather than clipped.
//
// Returns:
//   - image.Image: A new image of exactly region.Dx() x region.Dy() pixels.
//   - error: Wraps ErrOutOfBounds for invalid regions.
func Crop(img image.Image, region image.Rectangle) (image.Image, error) {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	if region.Dx() <= 0 || region.Dy() <= 0 ||
		region.Min.X < 0 || region.Min.Y < 0 ||
		region.Max.X > width || region.Max.Y > height {
		return nil, fmt.Errorf("%w: region (%d,%d)-(%d,%d), image %dx%d",
			ErrOutOfBounds, region.Min.X, region.Min.Y, region.Max.X, region.Max.Y, width, height)
	}

	// imaging.Crop works in absolute coordinates.
	return imaging.Crop(img, region.Add(bounds.Min)), nil
}
