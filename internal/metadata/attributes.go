package metadata

import "errors"

// Attribute names preserved across an image operation.
const (
	AttrFNumber             = "FNumber"
	AttrExposureTime        = "ExposureTime"
	AttrISOSpeedRatings     = "ISOSpeedRatings"
	AttrGPSAltitude         = "GPSAltitude"
	AttrGPSAltitudeRef      = "GPSAltitudeRef"
	AttrFocalLength         = "FocalLength"
	AttrGPSDateStamp        = "GPSDateStamp"
	AttrWhiteBalance        = "WhiteBalance"
	AttrGPSProcessingMethod = "GPSProcessingMethod"
	AttrGPSTimeStamp        = "GPSTimeStamp"
	AttrDateTime            = "DateTime"
	AttrFlash               = "Flash"
	AttrGPSLatitude         = "GPSLatitude"
	AttrGPSLatitudeRef      = "GPSLatitudeRef"
	AttrGPSLongitude        = "GPSLongitude"
	AttrGPSLongitudeRef     = "GPSLongitudeRef"
	AttrMake                = "Make"
	AttrModel               = "Model"
	AttrOrientation         = "Orientation"
)

// Allowlist is the fixed, ordered set of attributes copied from a source
// image to its derived output.
var Allowlist = []string{
	AttrFNumber,
	AttrExposureTime,
	AttrISOSpeedRatings,
	AttrGPSAltitude,
	AttrGPSAltitudeRef,
	AttrFocalLength,
	AttrGPSDateStamp,
	AttrWhiteBalance,
	AttrGPSProcessingMethod,
	AttrGPSTimeStamp,
	AttrDateTime,
	AttrFlash,
	AttrGPSLatitude,
	AttrGPSLatitudeRef,
	AttrGPSLongitude,
	AttrGPSLongitudeRef,
	AttrMake,
	AttrModel,
	AttrOrientation,
}

var (
	// ErrNoMetadata is returned by readers when a file carries no readable
	// metadata block.
	ErrNoMetadata = errors.New("no metadata found")

	// ErrWriteUnsupported is returned by stores that cannot write metadata.
	ErrWriteUnsupported = errors.New("metadata writing is not supported")
)

// Attribute is a single named metadata value in its string form.
type Attribute struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Set is an ordered list of attributes.
type Set []Attribute

// Get returns the value for name and whether it is present.
func (s Set) Get(name string) (string, bool) {
	for _, a := range s {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// Names returns the attribute names in order.
func (s Set) Names() []string {
	names := make([]string, 0, len(s))
	for _, a := range s {
		names = append(names, a.Name)
	}
	return names
}

// Reader reads the allowlisted attributes of a file.
type Reader interface {
	// ReadAttributes returns the allowlisted attributes that have a
	// non-empty value, in Allowlist order.
	ReadAttributes(path string) (Set, error)
}

// Writer writes attributes into an existing file.
type Writer interface {
	// WriteAttributes sets every attribute of set on the file at path.
	// Attributes not in set are left untouched.
	WriteAttributes(path string, set Set) error
}

// Store reads and writes metadata.
type Store interface {
	Reader
	Writer
}

// ReadOnlyStore adapts a Reader into a Store whose writes always fail with
// ErrWriteUnsupported.
type ReadOnlyStore struct {
	Reader
}

// WriteAttributes implements Writer.
func (ReadOnlyStore) WriteAttributes(string, Set) error {
	return ErrWriteUnsupported
}
