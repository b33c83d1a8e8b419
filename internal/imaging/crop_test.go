package imaging

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

func TestRegion(t *testing.T) {
	r := Region(10, 20, 30, 40)

	want := image.Rect(10, 20, 40, 60)
	if r != want {
		t.Errorf("Region: got %v, want %v", r, want)
	}

	// A negative size is kept as-is rather than flipped into a valid rectangle.
	neg := Region(50, 50, -10, 20)
	if neg.Dx() != -10 || neg.Min != image.Pt(50, 50) {
		t.Errorf("Region with negative width: got %v", neg)
	}
}

func TestCrop(t *testing.T) {
	img := createPatternImage(100, 100)

	cropped, err := Crop(img, Region(0, 0, 50, 50))
	if err != nil {
		t.Fatalf("Crop failed: %v", err)
	}

	if cropped.Bounds().Dx() != 50 || cropped.Bounds().Dy() != 50 {
		t.Errorf("dimensions: got %dx%d, want 50x50", cropped.Bounds().Dx(), cropped.Bounds().Dy())
	}
}

func TestCrop_OutOfBounds(t *testing.T) {
	img := createInMemoryImage(100, 100, color.RGBA{255, 0, 0, 255})

	tests := []struct {
		name                string
		x, y, width, height int
	}{
		{"x negative", -1, 0, 50, 50},
		{"y negative", 0, -1, 50, 50},
		{"width too large", 0, 0, 101, 50},
		{"height too large", 0, 0, 50, 101},
		{"origin shifts past right edge", 60, 0, 50, 50},
		{"origin shifts past bottom edge", 0, 60, 50, 50},
		{"origin outside image", 100, 100, 1, 1},
		{"all out of bounds", 10, 10, 2000, 2000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Crop(img, Region(tt.x, tt.y, tt.width, tt.height))
			if !errors.Is(err, ErrOutOfBounds) {
				t.Errorf("error: got %v, want ErrOutOfBounds", err)
			}
		})
	}
}

func TestCrop_InvalidRegion(t *testing.T) {
	img := createInMemoryImage(100, 100, color.RGBA{255, 0, 0, 255})

	tests := []struct {
		name                string
		x, y, width, height int
	}{
		{"zero width", 10, 10, 0, 10},
		{"zero height", 10, 10, 10, 0},
		{"negative width", 50, 0, -10, 50},
		{"negative height", 0, 50, 50, -10},
		{"zero area", 50, 50, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Crop(img, Region(tt.x, tt.y, tt.width, tt.height))
			if !errors.Is(err, ErrOutOfBounds) {
				t.Errorf("error: got %v, want ErrOutOfBounds", err)
			}
		})
	}
}

func TestCrop_FullImage(t *testing.T) {
	img := createInMemoryImage(100, 100, color.RGBA{255, 0, 0, 255})

	cropped, err := Crop(img, Region(0, 0, 100, 100))
	if err != nil {
		t.Fatalf("Crop full image failed: %v", err)
	}

	if cropped.Bounds().Dx() != 100 || cropped.Bounds().Dy() != 100 {
		t.Errorf("dimensions: got %dx%d, want 100x100", cropped.Bounds().Dx(), cropped.Bounds().Dy())
	}
}

func TestCrop_VerifyContent(t *testing.T) {
	img := createPatternImage(100, 100)

	tests := []struct {
		name   string
		region image.Rectangle
		want   color.RGBA
	}{
		{"top-left is red", Region(0, 0, 50, 50), color.RGBA{255, 0, 0, 255}},
		{"top-right is green", Region(50, 0, 50, 50), color.RGBA{0, 255, 0, 255}},
		{"bottom-left is blue", Region(0, 50, 50, 50), color.RGBA{0, 0, 255, 255}},
		{"bottom-right is white", Region(50, 50, 50, 50), color.RGBA{255, 255, 255, 255}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cropped, err := Crop(img, tt.region)
			if err != nil {
				t.Fatalf("Crop failed: %v", err)
			}

			r, g, b, _ := cropped.At(25, 25).RGBA()
			r8, g8, b8 := uint8(r>>8), uint8(g>>8), uint8(b>>8)
			if r8 != tt.want.R || g8 != tt.want.G || b8 != tt.want.B {
				t.Errorf("color: got (%d,%d,%d), want (%d,%d,%d)", r8, g8, b8, tt.want.R, tt.want.G, tt.want.B)
			}
		})
	}
}

func TestCrop_OffsetSourceBounds(t *testing.T) {
	full := createPatternImage(100, 100)
	// Bottom-right quadrant, whose bounds start at (50,50).
	sub := full.SubImage(image.Rect(50, 50, 100, 100))

	cropped, err := Crop(sub, Region(0, 0, 10, 10))
	if err != nil {
		t.Fatalf("Crop failed: %v", err)
	}

	r, g, b, _ := cropped.At(5, 5).RGBA()
	if uint8(r>>8) != 255 || uint8(g>>8) != 255 || uint8(b>>8) != 255 {
		t.Errorf("color: got (%d,%d,%d), want white", r>>8, g>>8, b>>8)
	}

	if _, err := Crop(sub, Region(0, 0, 51, 10)); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("error: got %v, want ErrOutOfBounds for region wider than sub-image", err)
	}
}
