// Copyright 2018 Zanicar. All rights reserved.
// Utilizes a BSD-3 license. Refer to the included LICENSE file for details.

package raster

import (
	"encoding/binary"
	"image"
)

// jpegOrientation scans the JPEG APP1 Exif segment (if any) for the
// standard orientation tag (0x0112) and returns its value, or 1 (no
// transform) if absent or malformed. This module has no other use for
// EXIF metadata, so a minimal hand-rolled scan replaces pulling in a full
// EXIF library for one tag.
func jpegOrientation(data []byte) int {
	i := 2 // skip SOI marker 0xFFD8
	for i+4 <= len(data) {
		if data[i] != 0xFF {
			i++
			continue
		}
		marker := data[i+1]
		if marker == 0xD8 || marker == 0x01 || (marker >= 0xD0 && marker <= 0xD7) {
			i += 2
			continue
		}
		if marker == 0xDA { // start of scan: no more metadata segments follow
			break
		}
		if i+4 > len(data) {
			break
		}
		segLen := int(binary.BigEndian.Uint16(data[i+2 : i+4]))
		segStart := i + 4
		segEnd := i + 2 + segLen
		if segEnd > len(data) || segLen < 2 {
			break
		}
		if marker == 0xE1 && segEnd-segStart >= 6 && string(data[segStart:segStart+6]) == "Exif\x00\x00" {
			if o := parseExifOrientation(data[segStart+6 : segEnd]); o != 0 {
				return o
			}
		}
		i = segEnd
	}
	return 1
}

// parseExifOrientation parses a TIFF-header-prefixed Exif IFD0 block and
// returns the orientation tag's value, or 0 if not found.
func parseExifOrientation(tiff []byte) int {
	if len(tiff) < 8 {
		return 0
	}
	var bo binary.ByteOrder
	switch string(tiff[0:2]) {
	case "II":
		bo = binary.LittleEndian
	case "MM":
		bo = binary.BigEndian
	default:
		return 0
	}
	ifdOffset := bo.Uint32(tiff[4:8])
	if int(ifdOffset)+2 > len(tiff) {
		return 0
	}
	entryCount := int(bo.Uint16(tiff[ifdOffset : ifdOffset+2]))
	base := int(ifdOffset) + 2
	const entrySize = 12
	for e := 0; e < entryCount; e++ {
		off := base + e*entrySize
		if off+entrySize > len(tiff) {
			break
		}
		tag := bo.Uint16(tiff[off : off+2])
		if tag == 0x0112 {
			valType := bo.Uint16(tiff[off+2 : off+4])
			if valType == 3 { // SHORT
				return int(bo.Uint16(tiff[off+8 : off+10]))
			}
			return int(bo.Uint32(tiff[off+8 : off+12]))
		}
	}
	return 0
}

// applyOrientation returns an upright image per the EXIF orientation
// convention (values 1-8); unknown values are treated as 1 (identity).
func applyOrientation(src *image.RGBA, orientation int) *image.RGBA {
	switch orientation {
	case 2:
		return flipH(src)
	case 3:
		return rotate180(src)
	case 4:
		return flipV(src)
	case 5:
		return flipH(rotate90(src))
	case 6:
		return rotate90(src)
	case 7:
		return flipH(rotate270(src))
	case 8:
		return rotate270(src)
	default:
		return src
	}
}

func flipH(src *image.RGBA) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			dst.Set(b.Max.X-1-(x-b.Min.X), y, src.At(x, y))
		}
	}
	return dst
}

func flipV(src *image.RGBA) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			dst.Set(x, b.Max.Y-1-(y-b.Min.Y), src.At(x, y))
		}
	}
	return dst
}

func rotate180(src *image.RGBA) *image.RGBA {
	return flipV(flipH(src))
}

// rotate90 rotates 90 degrees clockwise.
func rotate90(src *image.RGBA) *image.RGBA {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewRGBA(image.Rect(0, 0, h, w))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dst.Set(h-1-y, x, src.At(b.Min.X+x, b.Min.Y+y))
		}
	}
	return dst
}

// rotate270 rotates 90 degrees counter-clockwise (270 clockwise).
func rotate270(src *image.RGBA) *image.RGBA {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewRGBA(image.Rect(0, 0, h, w))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dst.Set(y, w-1-x, src.At(b.Min.X+x, b.Min.Y+y))
		}
	}
	return dst
}
