package imaging

import (
	"errors"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// ErrInvalidDimensions is returned when a resize would produce an image with
// a zero or negative width or height.
var ErrInvalidDimensions = errors.New("invalid resize dimensions")

// ResolveDimensions computes the output size of a resize.
//
// Each axis is resolved independently: a positive target wins, otherwise the
// source size is scaled by percentage and floored. Mixing one explicit axis
// with one percentage axis is therefore allowed and does not preserve the
// aspect ratio.
//
// Parameters:
//   - srcWidth, srcHeight: Source dimensions in pixels.
//   - percentage: Scale factor in percent applied to axes without a target.
//   - targetWidth, targetHeight: Explicit output size; 0 means "not given".
//
// The result is not validated; see Resize.
func ResolveDimensions(srcWidth, srcHeight, percentage, targetWidth, targetHeight int) (int, int) {
	width := targetWidth
	if width == 0 {
		width = srcWidth * percentage / 100
	}
	height := targetHeight
	if height == 0 {
		height = srcHeight * percentage / 100
	}
	return width, height
}

// Resize resamples img to exactly width x height using a bilinear filter.
//
// Unlike imaging.Resize, a zero on one axis is not treated as "keep aspect
// ratio": any non-positive dimension is rejected with ErrInvalidDimensions so
// callers always get deterministic output dimensions.
func Resize(img image.Image, width, height int) (image.Image, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	return imaging.Resize(img, width, height, imaging.Linear), nil
}
