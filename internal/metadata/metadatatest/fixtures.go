// Package metadatatest builds image fixtures carrying EXIF metadata for tests.
package metadatatest

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"sort"
	"testing"
)

// TIFF tag IDs used by the fixtures.
const (
	TagMake        uint16 = 0x010F
	TagModel       uint16 = 0x0110
	TagOrientation uint16 = 0x0112
	TagDateTime    uint16 = 0x0132
)

// Tag is an IFD0 entry. Value must be a string (ASCII) or uint16 (SHORT).
type Tag struct {
	ID    uint16
	Value any
}

// Orientation returns an Orientation tag entry.
func Orientation(v uint16) Tag {
	return Tag{ID: TagOrientation, Value: v}
}

// Make returns a Make tag entry.
func Make(v string) Tag {
	return Tag{ID: TagMake, Value: v}
}

// Model returns a Model tag entry.
func Model(v string) Tag {
	return Tag{ID: TagModel, Value: v}
}

// DateTime returns a DateTime tag entry ("2006:01:02 15:04:05").
func DateTime(v string) Tag {
	return Tag{ID: TagDateTime, Value: v}
}

// RequireExiftoolEnv names the environment variable that turns a missing
// exiftool binary into a test failure instead of a skip. CI sets it.
const RequireExiftoolEnv = "IMAGE_BRIDGE_REQUIRE_EXIFTOOL"

// NoExiftool ends a test that could not start exiftool. It fails the test
// when RequireExiftoolEnv is set and skips it otherwise.
func NoExiftool(t testing.TB, err error) {
	t.Helper()
	if os.Getenv(RequireExiftoolEnv) != "" {
		t.Fatalf("exiftool required but unavailable: %v", err)
	}
	t.Skipf("exiftool not available: %v", err)
}

// Image returns an opaque test image with a simple gradient.
func Image(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{uint8(x), uint8(y), 128, 255})
		}
	}
	return img
}

// WriteJPEG encodes a width x height JPEG to path, inserting an EXIF APP1
// segment with tags right after the SOI marker when tags are given.
func WriteJPEG(t testing.TB, path string, width, height int, tags ...Tag) string {
	t.Helper()

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, Image(width, height), &jpeg.Options{Quality: 90}); err != nil {
		t.Fatalf("failed to encode jpeg: %v", err)
	}

	data := buf.Bytes()
	if len(tags) > 0 {
		data = InsertAPP1(data, EXIF(tags...))
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	return path
}

// InsertAPP1 splices an APP1 segment carrying payload into a JPEG stream,
// directly after the SOI marker.
func InsertAPP1(jpegData, payload []byte) []byte {
	segment := make([]byte, 4, 4+len(payload))
	segment[0], segment[1] = 0xFF, 0xE1
	binary.BigEndian.PutUint16(segment[2:], uint16(len(payload)+2))
	segment = append(segment, payload...)

	out := make([]byte, 0, len(jpegData)+len(segment))
	out = append(out, jpegData[:2]...)
	out = append(out, segment...)
	out = append(out, jpegData[2:]...)
	return out
}

// EXIF builds an APP1 payload ("Exif\0\0" followed by a little-endian TIFF
// structure) holding a single IFD0 with tags.
func EXIF(tags ...Tag) []byte {
	sorted := append([]Tag(nil), tags...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	le := binary.LittleEndian
	ifdOffset := 8
	dataOffset := ifdOffset + 2 + 12*len(sorted) + 4

	ifd := make([]byte, 2, 2+12*len(sorted)+4)
	le.PutUint16(ifd, uint16(len(sorted)))
	var extra []byte

	for _, tag := range sorted {
		entry := make([]byte, 12)
		le.PutUint16(entry[0:], tag.ID)

		switch v := tag.Value.(type) {
		case uint16:
			le.PutUint16(entry[2:], 3) // SHORT
			le.PutUint32(entry[4:], 1)
			le.PutUint16(entry[8:], v)
		case string:
			value := append([]byte(v), 0)
			le.PutUint16(entry[2:], 2) // ASCII
			le.PutUint32(entry[4:], uint32(len(value)))
			if len(value) <= 4 {
				copy(entry[8:], value)
			} else {
				le.PutUint32(entry[8:], uint32(dataOffset+len(extra)))
				extra = append(extra, value...)
				if len(extra)%2 == 1 {
					extra = append(extra, 0)
				}
			}
		default:
			panic("metadatatest: unsupported tag value type")
		}
		ifd = append(ifd, entry...)
	}
	ifd = append(ifd, 0, 0, 0, 0) // no next IFD

	out := []byte("Exif\x00\x00")
	out = append(out, 'I', 'I', 42, 0)
	out = le.AppendUint32(out, uint32(ifdOffset))
	out = append(out, ifd...)
	out = append(out, extra...)
	return out
}
