// TCGVault - Card Catalog Synchronization and Price Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tcgvault

// Package images turns downloaded card scans into bounded JPEG files for
// the local image cache.
package images

import (
	"bytes"
	"fmt"
	"image"

	// Decoders for the formats card scans are published in.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	"github.com/tomtom215/tcgvault/internal/config"
)

// Transcoder decodes an image, fits it within the configured bounds and
// re-encodes it as JPEG. Images already within bounds are never upscaled.
type Transcoder struct {
	maxWidth  int
	maxHeight int
	quality   int
}

// NewTranscoder creates a transcoder from the image cache configuration.
func NewTranscoder(cfg *config.ImagesConfig) *Transcoder {
	return &Transcoder{
		maxWidth:  cfg.MaxWidth,
		maxHeight: cfg.MaxHeight,
		quality:   cfg.Quality,
	}
}

// Transcode returns the JPEG encoding of src.
func (t *Transcoder) Transcode(src []byte) ([]byte, error) {
	if len(src) == 0 {
		return nil, fmt.Errorf("empty image")
	}

	img, format, err := image.Decode(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	// imaging.Fit returns a clone when the image is already within bounds.
	fitted := imaging.Fit(img, t.maxWidth, t.maxHeight, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, flatten(fitted), imaging.JPEG, imaging.JPEGQuality(t.quality)); err != nil {
		return nil, fmt.Errorf("failed to encode %s as jpeg: %w", format, err)
	}
	return buf.Bytes(), nil
}

// flatten composites transparent pixels onto white; JPEG has no alpha and
// transparent card corners would otherwise turn black.
func flatten(img image.Image) image.Image {
	bg := imaging.New(img.Bounds().Dx(), img.Bounds().Dy(), image.White.C)
	return imaging.Overlay(bg, img, image.Pt(0, 0), 1.0)
}
