package imaging

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder
)

// ErrDecode is returned (wrapped) when a source file exists but cannot be
// decoded as an image.
var ErrDecode = errors.New("failed to decode image")

// Open decodes the image at path into memory.
//
// The decoded pixel buffer is owned by the caller. No orientation correction
// is applied: pixels are returned exactly as stored, and the EXIF
// Orientation tag (if any) travels with the metadata instead.
//
// Parameters:
//   - path: Path to the source image. Supported formats are JPEG, PNG, GIF,
//     BMP, TIFF and WebP.
//
// Returns:
//   - image.Image: The decoded image.
//   - error: Wraps ErrDecode if the file content is not a supported image,
//     or the underlying I/O error if the file cannot be opened.
func Open(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, err := imaging.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return img, nil
}

// ImageInfo contains the header-level facts about an image file.
type ImageInfo struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// Format is the format name reported by the registered decoder
	// ("jpeg", "png", "gif", "bmp", "tiff", "webp").
	Format string `json:"format"`
}

// Probe reads the image dimensions without decoding pixel data.
//
// Only the format header is parsed, so probing is cheap even for very large
// images. The returned dimensions are the stored ones; they are not swapped
// for rotated EXIF orientations.
//
// # Errors
//
//   - Returns the I/O error if the file cannot be opened
//   - Returns an error wrapping ErrDecode if no registered decoder recognizes
//     the header
func Probe(path string) (*ImageInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	return &ImageInfo{
		Width:  cfg.Width,
		Height: cfg.Height,
		Format: format,
	}, nil
}
