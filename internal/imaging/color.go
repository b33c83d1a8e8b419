package imaging

import (
	"image"

	"github.com/anthonynsimon/bild/clone"
	"github.com/anthonynsimon/bild/parallel"
)

// ReduceToRGB565 returns a copy of img quantized to 16-bit RGB (5 bits red,
// 6 bits green, 5 bits blue) with the alpha channel removed.
//
// The result is still stored as 8 bits per channel so it can be handed to any
// encoder, but every pixel holds a value representable in RGB565. Each
// quantized channel is expanded back to 8 bits by bit replication, so pure
// black and pure white survive unchanged.
//
// # Alpha Handling
//
// Translucent pixels are composited over black: the premultiplied color
// values are kept and alpha is forced to fully opaque.
//
// # Color Fidelity
//
// Quantization introduces banding in smooth gradients. The maximum per-channel
// error is 7 levels for red and blue and 3 levels for green.
func ReduceToRGB565(img image.Image) *image.RGBA {
	dst := clone.AsRGBA(img)
	width, height := dst.Rect.Dx(), dst.Rect.Dy()

	parallel.Line(height, func(start, end int) {
		for y := start; y < end; y++ {
			row := dst.Pix[y*dst.Stride : y*dst.Stride+width*4]
			for i := 0; i < len(row); i += 4 {
				row[i+0] = expand5(row[i+0] >> 3)
				row[i+1] = expand6(row[i+1] >> 2)
				row[i+2] = expand5(row[i+2] >> 3)
				row[i+3] = 0xff
			}
		}
	})

	return dst
}

func expand5(v uint8) uint8 {
	return v<<3 | v>>2
}

func expand6(v uint8) uint8 {
	return v<<2 | v>>4
}
