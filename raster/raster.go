// Copyright 2018 Zanicar. All rights reserved.
// Utilizes a BSD-3 license. Refer to the included LICENSE file for details.

// Package raster decodes source images into an upright RGBA pixel buffer
// and re-encodes PNG output, applying any EXIF orientation tag present in
// the source so every codec downstream always sees pixel (0,0) as the
// visual top-left corner.
package raster

import (
	"bytes"
	"image"
	"image/png"
	"os"

	_ "image/jpeg"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"github.com/rs/zerolog/log"

	"github.com/zanicar/stegstr"
)

// PNGSignature is the 8-byte header every PNG file begins with.
var PNGSignature = []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a}

// Raster is an upright, decoded raster image. Pix is row-major, 4 bytes
// (R,G,B,A) per pixel.
type Raster struct {
	Width, Height int
	Pix           []byte
}

// Load decodes path into an upright RGBA Raster, applying any JPEG EXIF
// orientation tag found along the way.
func Load(path string) (*Raster, error) {
	const op = "raster.Load"
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, stegstr.NewError(op, stegstr.KindIO, err)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, stegstr.NewError(op, stegstr.KindUnsupportedImage, err)
	}
	log.Debug().Str("format", format).Msg("decoded source image")

	orientation := 1
	if format == "jpeg" {
		orientation = jpegOrientation(data)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	rgba := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			rgba.Set(x, y, img.At(bounds.Min.X+x, bounds.Min.Y+y))
		}
	}

	upright := applyOrientation(rgba, orientation)
	return &Raster{
		Width:  upright.Bounds().Dx(),
		Height: upright.Bounds().Dy(),
		Pix:    upright.Pix,
	}, nil
}

// EncodePNG re-encodes r as a standard PNG.
func EncodePNG(r *Raster) ([]byte, error) {
	const op = "raster.EncodePNG"
	img := &image.RGBA{
		Pix:    r.Pix,
		Stride: 4 * r.Width,
		Rect:   image.Rect(0, 0, r.Width, r.Height),
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, stegstr.NewError(op, stegstr.KindIO, err)
	}
	return buf.Bytes(), nil
}

// At returns the RGBA bytes of pixel (x,y).
func (r *Raster) At(x, y int) []byte {
	i := (y*r.Width + x) * 4
	return r.Pix[i : i+4 : i+4]
}

// ToRGB returns a copy of the raster's pixels with the alpha channel
// dropped, 3 bytes per pixel. The codecs in this module (DOT included)
// work on the RGBA buffer through At and do not call it.
func (r *Raster) ToRGB() []byte {
	out := make([]byte, r.Width*r.Height*3)
	for i, px := 0, 0; px < r.Width*r.Height; px++ {
		out[i] = r.Pix[px*4]
		out[i+1] = r.Pix[px*4+1]
		out[i+2] = r.Pix[px*4+2]
		i += 3
	}
	return out
}

// FromRGB rebuilds an RGBA raster from 3-byte-per-pixel RGB data of the
// same dimensions, filling alpha fully opaque.
func FromRGB(width, height int, rgb []byte) *Raster {
	pix := make([]byte, width*height*4)
	for px := 0; px < width*height; px++ {
		pix[px*4] = rgb[px*3]
		pix[px*4+1] = rgb[px*3+1]
		pix[px*4+2] = rgb[px*3+2]
		pix[px*4+3] = 0xff
	}
	return &Raster{Width: width, Height: height, Pix: pix}
}
