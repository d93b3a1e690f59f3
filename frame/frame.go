// Copyright 2018 Zanicar. All rights reserved.
// Utilizes a BSD-3 license. Refer to the included LICENSE file for details.

// Package frame implements the MAGIC‖LEN‖BODY framing shared by every
// steganographic codec in this module.
package frame

import (
	"encoding/binary"

	"github.com/zanicar/stegstr"
)

// Magic is the 7-byte ASCII marker every frame begins with. It must never
// change: existing steganograms depend on it.
const Magic = "STEGSTR"

const (
	magicLen  = len(Magic)
	lengthLen = 4
	headerLen = magicLen + lengthLen
)

// Wrap prepends Magic and a big-endian uint32 length to body.
func Wrap(body []byte) []byte {
	out := make([]byte, headerLen+len(body))
	copy(out, Magic)
	binary.BigEndian.PutUint32(out[magicLen:], uint32(len(body)))
	copy(out[headerLen:], body)
	return out
}

// Unwrap validates and strips the frame header, returning exactly BODY.
func Unwrap(raw []byte) ([]byte, error) {
	const op = "frame.Unwrap"
	if len(raw) < headerLen {
		return nil, stegstr.NewError(op, stegstr.KindTooSmall, nil)
	}
	if string(raw[:magicLen]) != Magic {
		return nil, stegstr.NewError(op, stegstr.KindBadMagic, nil)
	}
	bodyLen := binary.BigEndian.Uint32(raw[magicLen:headerLen])
	if uint64(headerLen)+uint64(bodyLen) > uint64(len(raw)) {
		return nil, stegstr.NewError(op, stegstr.KindLenMismatch, nil)
	}
	return raw[headerLen : headerLen+int(bodyLen)], nil
}

// bitsToBytes packs MSB-first bits into bytes, matching the bit order Wrap
// and Unwrap use. Search uses it to turn the bitstream that the bit-level
// codecs (lsb, dwt) gather from channel bits back into bytes.
func bitsToBytes(bits []bool) []byte {
	out := make([]byte, (len(bits)+7)/8)
	for i, b := range bits {
		if b {
			out[i/8] |= 1 << (7 - (i % 8))
		}
	}
	return out
}

// BitAt returns the (7 - i%8)-th bit of byte i/8 of data, i.e. the i-th bit
// of data read MSB-first — the bit order every codec in this module uses
// to turn a framed byte string into a bitstream.
func BitAt(data []byte, i int) bool {
	byteIdx := i / 8
	shift := 7 - (i % 8)
	return (data[byteIdx]>>shift)&1 != 0
}

// Search slides a 7-byte window over bits looking for Magic, and at every
// match validates the declared length and unwraps the frame. It returns
// the first self-consistent frame found, or false if none exists. This is
// the sliding-magic recovery both the LSB and DWT codecs rely on, since a
// transport may shift where bit position 0 of the embedded stream lands.
func Search(bits []bool) ([]byte, bool) {
	total := len(bits)
	if total < headerLen*8 {
		return nil, false
	}
	for start := 0; start+magicLen*8 <= total; start++ {
		candidate := bitsToBytes(bits[start : start+magicLen*8])
		if string(candidate) != Magic {
			continue
		}
		if start+headerLen*8 > total {
			continue
		}
		lenBytes := bitsToBytes(bits[start+magicLen*8 : start+headerLen*8])
		bodyLen := int(binary.BigEndian.Uint32(lenBytes))
		bodyEnd := start + headerLen*8 + bodyLen*8
		if bodyEnd > total {
			continue
		}
		raw := bitsToBytes(bits[start:bodyEnd])
		body, err := Unwrap(raw)
		if err != nil {
			continue
		}
		return body, true
	}
	return nil, false
}
