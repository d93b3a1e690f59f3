// Copyright 2018 Zanicar. All rights reserved.
// Utilizes a BSD-3 license. Refer to the included LICENSE file for details.

package dwt

import "github.com/zanicar/stegstr/raster"

// subbands holds the single-level Haar decomposition of one channel over
// a tile's grid of 2x2 blocks. bw/bh is the block-grid size (tile width/2,
// tile height/2); LL/LH/HL/HH are row-major over that grid.
type subbands struct {
	bw, bh         int
	LL, LH, HL, HH []int32
}

func newSubbands(bw, bh int) *subbands {
	n := bw * bh
	return &subbands{
		bw: bw, bh: bh,
		LL: make([]int32, n),
		LH: make([]int32, n),
		HL: make([]int32, n),
		HH: make([]int32, n),
	}
}

// forwardTransform computes the Haar decomposition of channel ch over the
// tw x th tile anchored at (x0,y0). tw and th must be even.
func forwardTransform(r *raster.Raster, x0, y0, tw, th, ch int) *subbands {
	bw, bh := tw/2, th/2
	s := newSubbands(bw, bh)
	for bj := 0; bj < bh; bj++ {
		for bi := 0; bi < bw; bi++ {
			a := int32(r.At(x0+2*bi, y0+2*bj)[ch])
			b := int32(r.At(x0+2*bi+1, y0+2*bj)[ch])
			c := int32(r.At(x0+2*bi, y0+2*bj+1)[ch])
			d := int32(r.At(x0+2*bi+1, y0+2*bj+1)[ch])

			idx := bj*bw + bi
			s.LL[idx] = (a + b + c + d) / 4
			s.LH[idx] = (b + d - a - c) / 4
			s.HL[idx] = (c + d - a - b) / 4
			s.HH[idx] = (b + c - a - d) / 4
		}
	}
	return s
}

// inverseWriteBack reconstructs channel ch over the tile from s and writes
// the (lossy, clamped) pixel values back into r.
func (s *subbands) inverseWriteBack(r *raster.Raster, x0, y0, ch int) {
	for bj := 0; bj < s.bh; bj++ {
		for bi := 0; bi < s.bw; bi++ {
			idx := bj*s.bw + bi
			ll, lh, hl, hh := s.LL[idx], s.LH[idx], s.HL[idx], s.HH[idx]

			a := clamp8(ll - lh - hl - hh)
			b := clamp8(ll + lh - hl + hh)
			c := clamp8(ll - lh + hl + hh)
			d := clamp8(ll + lh + hl - hh)

			r.At(x0+2*bi, y0+2*bj)[ch] = a
			r.At(x0+2*bi+1, y0+2*bj)[ch] = b
			r.At(x0+2*bi, y0+2*bj+1)[ch] = c
			r.At(x0+2*bi+1, y0+2*bj+1)[ch] = d
		}
	}
}

func clamp8(v int32) byte {
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	default:
		return byte(v)
	}
}
