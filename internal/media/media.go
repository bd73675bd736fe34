// Package media resizes uploaded images and renders thumbnails.
package media

import (
	"bytes"
	"errors"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

// ErrUnsupportedImage is returned when the bytes cannot be decoded as an image
var ErrUnsupportedImage = errors.New("unsupported image format")

// Processor re-encodes images to bounded JPEGs
type Processor struct {
	MaxDimension     int
	Quality          int
	ThumbnailSize    int
	ThumbnailQuality int
}

// NewProcessor creates a processor with the given bounds
func NewProcessor(maxDimension, quality, thumbnailSize int) *Processor {
	return &Processor{
		MaxDimension:     maxDimension,
		Quality:          quality,
		ThumbnailSize:    thumbnailSize,
		ThumbnailQuality: 80,
	}
}

// Result holds the encoded image and its thumbnail
type Result struct {
	Image     []byte
	Thumbnail []byte
	Width     int
	Height    int
}

// Process decodes data, fits it within MaxDimension without upscaling and
// renders a center-cropped square thumbnail. Both are encoded as JPEG.
func (p *Processor) Process(data []byte) (*Result, error) {
	src, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}

	// Fit leaves images that are already within bounds at their size
	resized := imaging.Fit(src, p.MaxDimension, p.MaxDimension, imaging.Lanczos)
	body, err := encodeJPEG(resized, p.Quality)
	if err != nil {
		return nil, err
	}

	thumb := imaging.Fill(src, p.ThumbnailSize, p.ThumbnailSize, imaging.Center, imaging.Lanczos)
	thumbBody, err := encodeJPEG(thumb, p.ThumbnailQuality)
	if err != nil {
		return nil, err
	}

	bounds := resized.Bounds()
	return &Result{
		Image:     body,
		Thumbnail: thumbBody,
		Width:     bounds.Dx(),
		Height:    bounds.Dy(),
	}, nil
}

func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}
