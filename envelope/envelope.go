// Copyright 2018 Zanicar. All rights reserved.
// Utilizes a BSD-3 license. Refer to the included LICENSE file for details.

// Package envelope implements the application-layer AES-256-GCM envelope
// wrapped around a payload before it is embedded by a codec: a fixed,
// SHA-256-derived key shared by every build of this tool, framed as
// magic, version, IV, and ciphertext so a decoder can tell an enveloped
// payload from a plain one without attempting decryption first.
package envelope

import (
	"crypto/aes"
	"crypto/cipher"
	crand "crypto/rand"
	"crypto/sha256"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"github.com/zanicar/stegstr"
)

const op = "envelope"

// Magic identifies an enveloped payload.
const Magic = "STEGSTR1"

// Version is the only envelope format this package produces or accepts.
const Version = byte(1)

const (
	ivLen  = 12
	tagLen = 16
)

// appKeySalt is the fixed input to the envelope's key derivation. It is
// not a secret: the envelope authenticates that a payload round-tripped
// through this tool, not that it is private to any one holder.
const appKeySalt = "stegstr-decrypt-v1"

func appKey() []byte {
	sum := sha256.Sum256([]byte(appKeySalt))
	return sum[:]
}

// Encrypt wraps plaintext in the envelope, returning
// magic || version || iv || ciphertext(+tag).
func Encrypt(plaintext []byte) ([]byte, error) {
	block, err := aes.NewCipher(appKey())
	if err != nil {
		return nil, stegstr.NewError(op+".Encrypt", stegstr.KindBadKey, err)
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, stegstr.NewError(op+".Encrypt", stegstr.KindBadKey, err)
	}

	iv := make([]byte, ivLen)
	if _, err := crand.Read(iv); err != nil {
		return nil, stegstr.NewError(op+".Encrypt", stegstr.KindIO, err)
	}

	out := make([]byte, 0, len(Magic)+1+ivLen+len(plaintext)+tagLen)
	out = append(out, Magic...)
	out = append(out, Version)
	out = append(out, iv...)
	out = aesgcm.Seal(out, iv, plaintext, nil)

	log.Debug().Int("plaintext_bytes", len(plaintext)).Int("envelope_bytes", len(out)).Msg("envelope encrypt")
	return out, nil
}

// Decrypt unwraps an enveloped payload produced by Encrypt, returning the
// inner plaintext. The plaintext must be valid UTF-8; Decrypt fails with
// KindNotUtf8 otherwise.
func Decrypt(encrypted []byte) ([]byte, error) {
	const decOp = op + ".Decrypt"
	minLen := len(Magic) + 1 + ivLen + tagLen
	if len(encrypted) < minLen {
		return nil, stegstr.NewError(decOp, stegstr.KindTooSmall, nil)
	}
	if string(encrypted[:len(Magic)]) != Magic {
		return nil, stegstr.NewError(decOp, stegstr.KindBadMagic, nil)
	}
	if encrypted[len(Magic)] != Version {
		return nil, stegstr.NewError(decOp, stegstr.KindBadVersion, nil)
	}

	ivStart := len(Magic) + 1
	iv := encrypted[ivStart : ivStart+ivLen]
	ciphertext := encrypted[ivStart+ivLen:]

	block, err := aes.NewCipher(appKey())
	if err != nil {
		return nil, stegstr.NewError(decOp, stegstr.KindBadKey, err)
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, stegstr.NewError(decOp, stegstr.KindBadKey, err)
	}

	plaintext, err := aesgcm.Open(nil, iv, ciphertext, nil)
	if err != nil {
		return nil, stegstr.NewError(decOp, stegstr.KindAuthFail, err)
	}
	if !utf8.Valid(plaintext) {
		return nil, stegstr.NewError(decOp, stegstr.KindNotUtf8, nil)
	}

	log.Debug().Int("envelope_bytes", len(encrypted)).Int("plaintext_bytes", len(plaintext)).Msg("envelope decrypt")
	return plaintext, nil
}

// IsEncryptedPayload reports whether data begins with the envelope magic.
func IsEncryptedPayload(data []byte) bool {
	return len(data) >= len(Magic) && string(data[:len(Magic)]) == Magic
}
