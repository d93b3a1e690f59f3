// Copyright 2018 Zanicar. All rights reserved.
// Utilizes a BSD-3 license. Refer to the included LICENSE file for details.

// Package event constructs and verifies signed kind-1 text-note events:
// content normalisation, the canonical pre-image that becomes the event
// id, BIP-340 Schnorr signing with no auxiliary randomness, and the
// bundle envelope the CLI and embed path exchange.
package event

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"github.com/rs/zerolog/log"

	"github.com/zanicar/stegstr"
)

const op = "event"

// Kind is the NIP-01 note kind this package constructs.
const Kind = 1

// Suffix is appended to every event's content unless already present.
const Suffix = " Sent by Stegstr."

// MaxContentBytes bounds the normalised content length.
const MaxContentBytes = 5000

// Event is a signed kind-1 note.
type Event struct {
	ID        string     `json:"id"`
	Pubkey    string     `json:"pubkey"`
	CreatedAt uint64     `json:"created_at"`
	Kind      int        `json:"kind"`
	Tags      [][]string `json:"tags"`
	Content   string     `json:"content"`
	Sig       string     `json:"sig"`
}

// Bundle is the transport envelope for one or more events.
type Bundle struct {
	Version int     `json:"version"`
	Events  []Event `json:"events"`
}

// NormalizeContent appends Suffix if content does not already end with
// it, then truncates the result to MaxContentBytes. A second call on an
// already-normalised, untruncated string is a no-op.
func NormalizeContent(content string) string {
	s := content
	if !strings.HasSuffix(s, Suffix) {
		s += Suffix
	}
	if len(s) > MaxContentBytes {
		s = s[:MaxContentBytes]
	}
	return s
}

// ParseSecretKeyHex parses a 64-hex-char secp256k1 secret key.
func ParseSecretKeyHex(s string) (*btcec.PrivateKey, error) {
	const parseOp = op + ".ParseSecretKeyHex"
	s = strings.TrimSpace(s)
	raw, err := hex.DecodeString(s)
	if err != nil || len(raw) != 32 {
		return nil, stegstr.NewError(parseOp, stegstr.KindBadKey, err)
	}
	priv, _ := btcec.PrivKeyFromBytes(raw)
	return priv, nil
}

// New normalises content, signs it with secretKey (generating a fresh
// key if secretKey is nil), and returns the resulting Event.
func New(content string, secretKey *btcec.PrivateKey) (*Event, error) {
	const newOp = op + ".New"
	if secretKey == nil {
		var err error
		secretKey, err = btcec.NewPrivateKey()
		if err != nil {
			return nil, stegstr.NewError(newOp, stegstr.KindIO, err)
		}
	}

	normalized := NormalizeContent(content)
	createdAt := uint64(time.Now().Unix())

	pubkeyHex := hex.EncodeToString(schnorr.SerializePubKey(secretKey.PubKey()))
	preimage := preImage(pubkeyHex, createdAt, normalized)
	idBytes := sha256.Sum256([]byte(preimage))

	var auxNonce [32]byte // no auxiliary randomness
	sig, err := schnorr.Sign(secretKey, idBytes[:], schnorr.CustomNonce(auxNonce))
	if err != nil {
		return nil, stegstr.NewError(newOp, stegstr.KindBadKey, err)
	}

	ev := &Event{
		ID:        hex.EncodeToString(idBytes[:]),
		Pubkey:    pubkeyHex,
		CreatedAt: createdAt,
		Kind:      Kind,
		Tags:      [][]string{},
		Content:   normalized,
		Sig:       hex.EncodeToString(sig.Serialize()),
	}
	log.Debug().Str("id", ev.ID).Str("pubkey", ev.Pubkey).Msg("event created")
	return ev, nil
}

// Verify recomputes ev's id from its fields and checks both the id match
// and the Schnorr signature against ev.Pubkey.
func Verify(ev *Event) (bool, error) {
	const verifyOp = op + ".Verify"

	preimage := preImage(ev.Pubkey, ev.CreatedAt, ev.Content)
	idBytes := sha256.Sum256([]byte(preimage))
	if hex.EncodeToString(idBytes[:]) != ev.ID {
		return false, nil
	}

	pubkeyBytes, err := hex.DecodeString(ev.Pubkey)
	if err != nil || len(pubkeyBytes) != 32 {
		return false, stegstr.NewError(verifyOp, stegstr.KindBadKey, err)
	}
	pubkey, err := schnorr.ParsePubKey(pubkeyBytes)
	if err != nil {
		return false, stegstr.NewError(verifyOp, stegstr.KindBadKey, err)
	}

	sigBytes, err := hex.DecodeString(ev.Sig)
	if err != nil || len(sigBytes) != 64 {
		return false, stegstr.NewError(verifyOp, stegstr.KindAuthFail, err)
	}
	sig, err := schnorr.ParseSignature(sigBytes)
	if err != nil {
		return false, stegstr.NewError(verifyOp, stegstr.KindAuthFail, err)
	}

	return sig.Verify(idBytes[:], pubkey), nil
}

// BuildBundle wraps one or more events in the version-1 transport bundle.
func BuildBundle(events ...Event) Bundle {
	return Bundle{Version: 1, Events: events}
}

// JSON renders b as compact or pretty-printed JSON, without HTML-escaping
// the content field.
func (b Bundle) JSON(pretty bool) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(b); err != nil {
		return nil, stegstr.NewError(op+".Bundle.JSON", stegstr.KindIO, err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
