package metadata

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"
)

// ExifReader reads EXIF metadata in pure Go. It needs no external tooling and
// is used for orientation lookups and as the fallback reader when exiftool is
// not installed.
type ExifReader struct{}

// NewExifReader creates a new ExifReader.
func NewExifReader() *ExifReader {
	return &ExifReader{}
}

func (r *ExifReader) decode(path string) (*exif.Exif, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoMetadata, err)
	}
	return x, nil
}

// ReadAttributes implements Reader.
//
// ASCII values are returned without their NUL terminator; numeric values use
// the goexif textual form (rationals as "n/d").
func (r *ExifReader) ReadAttributes(path string) (Set, error) {
	x, err := r.decode(path)
	if err != nil {
		return nil, err
	}

	var set Set
	for _, name := range Allowlist {
		tag, err := x.Get(exif.FieldName(name))
		if err != nil {
			continue
		}
		if v := tagValue(tag); v != "" {
			set = append(set, Attribute{Name: name, Value: v})
		}
	}
	return set, nil
}

// Orientation returns the Orientation tag of the file at path.
func (r *ExifReader) Orientation(path string) (Orientation, error) {
	x, err := r.decode(path)
	if err != nil {
		return OrientationUndefined, err
	}

	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return OrientationUndefined, err
	}
	v, err := tag.Int(0)
	if err != nil {
		return OrientationUndefined, err
	}
	return ParseOrientation(v), nil
}

func tagValue(tag *tiff.Tag) string {
	if tag.Format() == tiff.StringVal {
		s, err := tag.StringVal()
		if err != nil {
			return ""
		}
		return strings.TrimRight(s, "\x00 ")
	}
	return strings.Trim(tag.String(), `"`)
}

// OrientationSource is implemented by readers that can look up the
// orientation tag directly.
type OrientationSource interface {
	Orientation(path string) (Orientation, error)
}

// ReadOrientation returns the orientation of the image at path. Any failure
// to read metadata yields OrientationUndefined; it is never an error.
func ReadOrientation(src OrientationSource, path string) Orientation {
	o, err := src.Orientation(path)
	if err != nil {
		log.Debug().Err(err).Str("file", path).Msg("orientation unavailable, using undefined")
		return OrientationUndefined
	}
	return o
}
