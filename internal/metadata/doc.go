// Package metadata reads, writes and propagates camera (EXIF) metadata.
//
// Two backends are provided:
//   - ExifReader: pure Go (goexif), read-only. Used for orientation lookups
//     and as a fallback when exiftool is not installed.
//   - ExiftoolStore: drives a long-running exiftool process (go-exiftool) and
//     can both read and write.
//
// A Copier moves the fixed Allowlist of attributes from a source image to an
// output image. Copying is best-effort: failures are logged and reported in a
// Report value but never fail the operation that produced the output.
package metadata
