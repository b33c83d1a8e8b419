package cachefile

import (
	"path/filepath"
	"strings"
)

// Stem returns the final element of path with its extension removed.
//
//	Stem("/photos/IMG_0042.JPG") == "IMG_0042"
//	Stem("/photos/archive.tar.gz") == "archive.tar"
//	Stem("/photos/.hidden") == ".hidden"
//
// A path with no usable name yields "image".
func Stem(path string) string {
	base := filepath.Base(path)
	if base == "." || base == string(filepath.Separator) {
		return "image"
	}

	ext := filepath.Ext(base)
	if ext == base {
		// dotfile, keep the whole name
		return base
	}
	return strings.TrimSuffix(base, ext)
}
