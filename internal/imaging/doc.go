// Package imaging provides the pixel-level steps of the image operations:
// decoding, bounds-only probing, resizing, cropping, 16-bit color reduction
// and JPEG encoding.
//
// Every function works on standard Go image.Image values and is stateless, so
// concurrent calls on different images need no synchronization. Decoded
// images are never cached; each operation owns its buffer for the duration of
// the call.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based with the origin at the
// top-left corner. For regions, (x1,y1) is inclusive and (x2,y2) is exclusive.
//
// # Pipeline
//
// A compress operation is Open, ResolveDimensions, Resize, ReduceToRGB565 and
// EncodeJPEG. A crop is Open, Crop and EncodeJPEG at MaxQuality. A properties
// lookup is Probe only.
//
// # Error Handling
//
// Functions return wrapped sentinel errors so callers can classify failures
// with errors.Is:
//   - ErrDecode: the file exists but is not a supported image
//   - ErrInvalidDimensions: a resize target is zero or negative
//   - ErrOutOfBounds: a crop region leaves the source image
package imaging
