package media

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func testPNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode test image: %v", err)
	}
	return buf.Bytes()
}

func TestProcess(t *testing.T) {
	tests := []struct {
		name       string
		width      int
		height     int
		wantWidth  int
		wantHeight int
	}{
		{name: "landscape downscaled", width: 400, height: 200, wantWidth: 100, wantHeight: 50},
		{name: "portrait downscaled", width: 150, height: 300, wantWidth: 50, wantHeight: 100},
		{name: "small image not upscaled", width: 60, height: 40, wantWidth: 60, wantHeight: 40},
	}

	p := NewProcessor(100, 85, 32)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := p.Process(testPNG(t, tt.width, tt.height))
			if err != nil {
				t.Fatalf("Process() error = %v", err)
			}
			if result.Width != tt.wantWidth || result.Height != tt.wantHeight {
				t.Errorf("resized to %dx%d, want %dx%d", result.Width, result.Height, tt.wantWidth, tt.wantHeight)
			}

			cfg, format, err := image.DecodeConfig(bytes.NewReader(result.Image))
			if err != nil {
				t.Fatalf("failed to decode output: %v", err)
			}
			if format != "jpeg" {
				t.Errorf("output format = %s, want jpeg", format)
			}
			if cfg.Width != tt.wantWidth || cfg.Height != tt.wantHeight {
				t.Errorf("encoded size %dx%d, want %dx%d", cfg.Width, cfg.Height, tt.wantWidth, tt.wantHeight)
			}

			thumb, _, err := image.DecodeConfig(bytes.NewReader(result.Thumbnail))
			if err != nil {
				t.Fatalf("failed to decode thumbnail: %v", err)
			}
			if thumb.Width != 32 || thumb.Height != 32 {
				t.Errorf("thumbnail %dx%d, want 32x32", thumb.Width, thumb.Height)
			}
		})
	}
}

func TestProcessRejectsGarbage(t *testing.T) {
	p := NewProcessor(100, 85, 32)
	_, err := p.Process([]byte("definitely not an image"))
	if !errors.Is(err, ErrUnsupportedImage) {
		t.Errorf("Process() error = %v, want ErrUnsupportedImage", err)
	}
}
