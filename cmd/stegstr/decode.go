// Copyright 2018 Zanicar. All rights reserved.
// Utilizes a BSD-3 license. Refer to the included LICENSE file for details.

package main

import (
	"encoding/base64"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/zanicar/stegstr"
	"github.com/zanicar/stegstr/envelope"
)

func newDecodeCmd() *cobra.Command {
	var decrypt bool
	cmd := &cobra.Command{
		Use:   "decode <image.png>",
		Short: "Extract the payload embedded in an image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output, err := runDecode(args[0], decrypt)
			if err != nil {
				return err
			}
			fmt.Print(output)
			return nil
		},
	}
	cmd.Flags().BoolVar(&decrypt, "decrypt", false, "decrypt the Stegstr app-layer envelope before printing")
	return cmd
}

func runDecode(path string, decrypt bool) (string, error) {
	payload, err := decodeAny(path)
	if err != nil {
		return "", err
	}

	if decrypt {
		if !envelope.IsEncryptedPayload(payload) {
			return "", stegstr.NewError("decode", stegstr.KindBadMagic, fmt.Errorf("payload is not Stegstr app-encrypted (use without --decrypt for raw)"))
		}
		plain, err := envelope.Decrypt(payload)
		if err != nil {
			return "", err
		}
		return string(plain), nil
	}

	if s, ok := asJSONText(payload); ok {
		return s, nil
	}
	return "base64:" + base64.StdEncoding.EncodeToString(payload), nil
}

// asJSONText reports whether payload is valid UTF-8 text that, once
// leading whitespace is trimmed, begins with '{'.
func asJSONText(payload []byte) (string, bool) {
	if !utf8.Valid(payload) {
		return "", false
	}
	s := string(payload)
	if strings.HasPrefix(strings.TrimLeft(s, " \t\r\n"), "{") {
		return s, true
	}
	return "", false
}
