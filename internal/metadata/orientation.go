package metadata

// Orientation is the EXIF Orientation tag value.
type Orientation int

// Orientation values as defined by the EXIF specification.
const (
	OrientationUndefined      Orientation = 0
	OrientationNormal         Orientation = 1
	OrientationFlipHorizontal Orientation = 2
	OrientationRotate180      Orientation = 3
	OrientationFlipVertical   Orientation = 4
	OrientationTranspose      Orientation = 5
	OrientationRotate90       Orientation = 6
	OrientationTransverse     Orientation = 7
	OrientationRotate270      Orientation = 8
)

var orientationNames = map[Orientation]string{
	OrientationUndefined:      "undefined",
	OrientationNormal:         "normal",
	OrientationFlipHorizontal: "flip-horizontal",
	OrientationRotate180:      "rotate-180",
	OrientationFlipVertical:   "flip-vertical",
	OrientationTranspose:      "transpose",
	OrientationRotate90:       "rotate-90",
	OrientationTransverse:     "transverse",
	OrientationRotate270:      "rotate-270",
}

// ParseOrientation converts a raw tag value. Values outside 1-8 map to
// OrientationUndefined.
func ParseOrientation(v int) Orientation {
	o := Orientation(v)
	if _, ok := orientationNames[o]; !ok {
		return OrientationUndefined
	}
	return o
}

func (o Orientation) String() string {
	if name, ok := orientationNames[o]; ok {
		return name
	}
	return orientationNames[OrientationUndefined]
}
