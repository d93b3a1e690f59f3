// Copyright 2018 Zanicar. All rights reserved.
// Utilizes a BSD-3 license. Refer to the included LICENSE file for details.

package main

import (
	"fmt"

	"github.com/zanicar/stegstr"
	"github.com/zanicar/stegstr/dot"
	"github.com/zanicar/stegstr/dwt"
	"github.com/zanicar/stegstr/lsb"
)

// codecsInOrder is the order decode/detect try each codec in, matching
// the original single-codec CLI generalised to this core's codec family.
func codecsInOrder() []stegstr.Codec {
	return []stegstr.Codec{lsb.New(), dwt.New(), dot.New()}
}

func codecByName(name string) (stegstr.Codec, error) {
	switch name {
	case "", "lsb":
		return lsb.New(), nil
	case "dwt":
		return dwt.New(), nil
	case "dot":
		return dot.New(), nil
	default:
		return nil, fmt.Errorf("unknown codec %q (want lsb, dwt, or dot)", name)
	}
}

// decodeAny tries each codec in turn and returns the first successfully
// recovered payload.
func decodeAny(path string) ([]byte, error) {
	var lastErr error
	for _, c := range codecsInOrder() {
		payload, err := c.Decode(path)
		if err == nil {
			return payload, nil
		}
		lastErr = err
	}
	return nil, lastErr
}
