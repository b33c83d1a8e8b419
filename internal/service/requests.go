package service

import "github.com/ironsheep/image-bridge/internal/metadata"

// CompressRequest describes a resize-and-recompress operation.
type CompressRequest struct {
	// Path is the source image.
	Path string

	// Percentage scales any axis without an explicit target.
	Percentage int

	// TargetWidth and TargetHeight override the percentage per axis when
	// non-zero.
	TargetWidth  int
	TargetHeight int

	// Quality is the JPEG quality, 0-100.
	Quality int
}

// CropRequest describes a rectangular crop. The rectangle is
// (OriginX, OriginY) to (OriginX+Width, OriginY+Height), exclusive.
type CropRequest struct {
	Path    string
	OriginX int
	OriginY int
	Width   int
	Height  int
}

// Properties is the result of a properties read.
type Properties struct {
	Width       int                  `json:"width"`
	Height      int                  `json:"height"`
	Orientation metadata.Orientation `json:"orientation"`
}
