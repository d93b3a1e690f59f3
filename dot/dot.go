// Copyright 2018 Zanicar. All rights reserved.
// Utilizes a BSD-3 license. Refer to the included LICENSE file for details.

// Package dot implements the dot-offset spatial steganography codec: each
// 2x2 cell carries one 2-bit symbol as the position of its single black
// pixel, repeated three times across a seeded pseudo-random permutation of
// cells, for robustness against rasterisation and re-rendering rather than
// low-order-bit tampering.
package dot

import (
	"encoding/binary"

	"github.com/rs/zerolog/log"

	"github.com/zanicar/stegstr"
	"github.com/zanicar/stegstr/frame"
	"github.com/zanicar/stegstr/raster"
)

const op = "dot"

const (
	step        = 6
	cellOffset  = 2
	repeat      = 3
	shuffleSeed = uint32(42)
)

// cellOffsets maps a 2-bit symbol to its cell-local pixel coordinate.
var cellOffsets = [4][2]int{{0, 0}, {0, 1}, {1, 0}, {1, 1}}

// Codec implements stegstr.Codec and stegstr.CapacityCodec for the DOT
// steganography method.
type Codec struct{}

// New returns a ready-to-use DOT Codec.
func New() *Codec { return &Codec{} }

var (
	_ stegstr.Codec         = (*Codec)(nil)
	_ stegstr.CapacityCodec = (*Codec)(nil)
)

// cellPositions returns the anchors of every 2x2 cell in a w x h image, in
// scan order (before permutation).
func cellPositions(w, h int) [][2]int {
	var out [][2]int
	if w < cellOffset+2 || h < cellOffset+2 {
		return out
	}
	maxX, maxY := w-2, h-2
	for y := cellOffset; y <= maxY; y += step {
		for x := cellOffset; x <= maxX; x += step {
			out = append(out, [2]int{x, y})
		}
	}
	return out
}

// shufflePositions applies the seed-42 LCG-driven Fisher-Yates shuffle.
// The recurrence and descending-index loop are the interoperability
// contract: any other PRNG or ascending shuffle will not decode images
// this package has encoded, and vice versa.
func shufflePositions(positions [][2]int) [][2]int {
	if len(positions) <= 1 {
		return positions
	}
	seed := shuffleSeed
	for i := len(positions) - 1; i > 0; i-- {
		seed = seed*1664525 + 1013904223
		j := int(seed) % (i + 1)
		positions[i], positions[j] = positions[j], positions[i]
	}
	return positions
}

// MaxPayloadBytes reports the largest payload this codec can embed in the
// image at path, saturating at zero.
func (Codec) MaxPayloadBytes(path string) (int, error) {
	r, err := raster.Load(path)
	if err != nil {
		return 0, err
	}
	return maxPayloadBytesFor(r.Width, r.Height), nil
}

func maxPayloadBytesFor(w, h int) int {
	n := len(cellPositions(w, h))
	capacityBits := (n * 2) / repeat
	capacityBytes := capacityBits / 8
	overhead := 2 + len(frame.Magic) + 4
	if capacityBytes < overhead {
		return 0
	}
	return capacityBytes - overhead
}

// Encode embeds payload into the cover image at path and returns PNG bytes.
func (Codec) Encode(path string, payload []byte) ([]byte, error) {
	r, err := raster.Load(path)
	if err != nil {
		return nil, err
	}

	framed := frame.Wrap(payload)
	if len(framed) > 0xFFFF {
		return nil, stegstr.NewError(op+".Encode", stegstr.KindTooLarge, nil)
	}
	codeword := make([]byte, 2+len(framed))
	binary.BigEndian.PutUint16(codeword, uint16(len(framed)))
	copy(codeword[2:], framed)

	totalBits := len(codeword) * 8
	symbolCount := (totalBits + 1) / 2 // pad with a zero bit if odd

	positions := shufflePositions(cellPositions(r.Width, r.Height))
	log.Debug().Int("cells", len(positions)).Int("symbols", symbolCount).Msg("dot encode capacity check")
	if symbolCount*repeat > len(positions) {
		return nil, stegstr.NewError(op+".Encode", stegstr.KindTooLarge, nil)
	}

	for si := 0; si < symbolCount; si++ {
		b1 := bitOrZero(codeword, si*2)
		b0 := bitOrZero(codeword, si*2+1)
		idx := 2*b1 + b0
		off := cellOffsets[idx]
		for rep := 0; rep < repeat; rep++ {
			x, y := positions[si*repeat+rep][0], positions[si*repeat+rep][1]
			for _, o := range cellOffsets {
				px := r.At(x+o[0], y+o[1])
				px[0], px[1], px[2] = 255, 255, 255
			}
			px := r.At(x+off[0], y+off[1])
			px[0], px[1], px[2] = 0, 0, 0
		}
	}

	return raster.EncodePNG(r)
}

func bitOrZero(data []byte, i int) int {
	if i/8 >= len(data) {
		return 0
	}
	if frame.BitAt(data, i) {
		return 1
	}
	return 0
}

// Decode recovers the framed payload embedded in the image at path.
func (Codec) Decode(path string) ([]byte, error) {
	const decodeOp = op + ".Decode"
	r, err := raster.Load(path)
	if err != nil {
		return nil, err
	}

	positions := shufflePositions(cellPositions(r.Width, r.Height))
	if len(positions) == 0 {
		return nil, stegstr.NewError(decodeOp, stegstr.KindTooSmall, nil)
	}

	symbols := make([]int, len(positions))
	for i, p := range positions {
		symbols[i] = darkestOffset(r, p[0], p[1])
	}

	groups := len(symbols) / repeat
	bits := make([]bool, 0, groups*2)
	for g := 0; g < groups; g++ {
		var counts [4]int
		for rep := 0; rep < repeat; rep++ {
			counts[symbols[g*repeat+rep]]++
		}
		best, bestCount := 0, -1
		for idx, c := range counts {
			if c > bestCount {
				bestCount, best = c, idx
			}
		}
		bits = append(bits, best&2 != 0, best&1 != 0)
	}

	if len(bits) < 16 {
		return nil, stegstr.NewError(decodeOp, stegstr.KindNotFound, nil)
	}
	headerBytes := packBits(bits[:16])
	codewordLen := int(binary.BigEndian.Uint16(headerBytes))
	totalBits := (2 + codewordLen) * 8
	if len(bits) < totalBits {
		return nil, stegstr.NewError(decodeOp, stegstr.KindNotFound, nil)
	}

	raw := packBits(bits[:totalBits])
	body, err := frame.Unwrap(raw[2 : 2+codewordLen])
	if err != nil {
		return nil, stegstr.NewError(decodeOp, stegstr.KindNotFound, err)
	}
	return body, nil
}

func darkestOffset(r *raster.Raster, x, y int) int {
	best, bestSum := 0, -1
	for i, o := range cellOffsets {
		px := r.At(x+o[0], y+o[1])
		sum := int(px[0]) + int(px[1]) + int(px[2])
		if bestSum == -1 || sum < bestSum {
			bestSum, best = sum, i
		}
	}
	return best
}

func packBits(bits []bool) []byte {
	out := make([]byte, (len(bits)+7)/8)
	for i, b := range bits {
		if b {
			out[i/8] |= 1 << (7 - (i % 8))
		}
	}
	return out
}
