package imaging

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// MaxQuality is the highest JPEG quality accepted by EncodeJPEG.
const MaxQuality = 100

// EncodeJPEG encodes img as a baseline JPEG at the given quality and returns
// the encoded bytes.
//
// Quality must be within [0, MaxQuality]. A quality of 0 is accepted and
// encodes at the lowest quality the encoder supports.
func EncodeJPEG(img image.Image, quality int) ([]byte, error) {
	if quality < 0 || quality > MaxQuality {
		return nil, fmt.Errorf("jpeg quality %d outside [0,%d]", quality, MaxQuality)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("failed to encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}
