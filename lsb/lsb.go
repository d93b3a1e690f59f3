// Copyright 2018 Zanicar. All rights reserved.
// Utilizes a BSD-3 license. Refer to the included LICENSE file for details.

// Package lsb implements the least-significant-bit steganography codec:
// one payload bit per R, G, B channel, row-major pixel order, alpha
// untouched. Decode performs a sliding-window magic search so payloads
// embedded starting at pixel 0 are still found after a transport shifts
// the bit alignment.
package lsb

import (
	"github.com/rs/zerolog/log"

	"github.com/zanicar/stegstr"
	"github.com/zanicar/stegstr/frame"
	"github.com/zanicar/stegstr/raster"
)

const op = "lsb"

// bitsPerPixel is the number of payload bits carried by one pixel (R, G, B).
const bitsPerPixel = 3

// Codec implements stegstr.Codec for the LSB steganography method.
type Codec struct{}

// New returns a ready-to-use LSB Codec.
func New() *Codec { return &Codec{} }

var _ stegstr.Codec = (*Codec)(nil)

// Encode embeds payload into the cover image at path and returns PNG bytes.
func (Codec) Encode(path string, payload []byte) ([]byte, error) {
	r, err := raster.Load(path)
	if err != nil {
		return nil, err
	}

	framed := frame.Wrap(payload)
	bitsNeeded := len(framed) * 8
	capacityBits := r.Width * r.Height * bitsPerPixel
	log.Debug().Int("bits_needed", bitsNeeded).Int("capacity_bits", capacityBits).Msg("lsb encode capacity check")
	if bitsNeeded > capacityBits {
		return nil, stegstr.NewError(op+".Encode", stegstr.KindTooLarge, nil)
	}

	bitIdx := 0
	for y := 0; y < r.Height && bitIdx < bitsNeeded; y++ {
		for x := 0; x < r.Width && bitIdx < bitsNeeded; x++ {
			px := r.At(x, y)
			for ch := 0; ch < 3 && bitIdx < bitsNeeded; ch++ {
				var bit byte
				if frame.BitAt(framed, bitIdx) {
					bit = 1
				}
				px[ch] = (px[ch] &^ 1) | bit
				bitIdx++
			}
		}
	}

	return raster.EncodePNG(r)
}

// Decode recovers the framed payload embedded in the image at path.
func (Codec) Decode(path string) ([]byte, error) {
	r, err := raster.Load(path)
	if err != nil {
		return nil, err
	}

	bits := collectBits(r)
	body, found := frame.Search(bits)
	if !found {
		return nil, stegstr.NewError(op+".Decode", stegstr.KindNotFound, nil)
	}
	return body, nil
}

func collectBits(r *raster.Raster) []bool {
	bits := make([]bool, 0, r.Width*r.Height*bitsPerPixel)
	for y := 0; y < r.Height; y++ {
		for x := 0; x < r.Width; x++ {
			px := r.At(x, y)
			for ch := 0; ch < 3; ch++ {
				bits = append(bits, px[ch]&1 != 0)
			}
		}
	}
	return bits
}
