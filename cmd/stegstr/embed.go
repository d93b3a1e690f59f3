// Copyright 2018 Zanicar. All rights reserved.
// Utilizes a BSD-3 license. Refer to the included LICENSE file for details.

package main

import (
	"encoding/base64"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/zanicar/stegstr"
	"github.com/zanicar/stegstr/envelope"
)

func newEmbedCmd() *cobra.Command {
	var (
		output        string
		payloadArg    string
		payloadBase64 string
		encryptFlag   bool
		codecName     string
	)

	cmd := &cobra.Command{
		Use:   "embed <cover.png>",
		Short: "Embed a payload into a cover image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				return fmt.Errorf("embed requires -o/--output <out.png>")
			}
			payload, err := resolveEmbedPayload(payloadArg, payloadBase64)
			if err != nil {
				return err
			}
			if encryptFlag {
				if !utf8.Valid(payload) {
					return stegstr.NewError("embed", stegstr.KindNotUtf8, nil)
				}
				payload, err = envelope.Encrypt(payload)
				if err != nil {
					return err
				}
			}
			codec, err := codecByName(codecName)
			if err != nil {
				return err
			}
			pngBytes, err := codec.Encode(args[0], payload)
			if err != nil {
				return err
			}
			if err := os.WriteFile(output, pngBytes, 0o644); err != nil {
				return stegstr.NewError("embed", stegstr.KindIO, err)
			}
			fmt.Fprintf(os.Stderr, "Wrote %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output PNG path")
	cmd.Flags().StringVar(&payloadArg, "payload", "", "payload as a UTF-8 string, or @path to read it from a file")
	cmd.Flags().StringVar(&payloadBase64, "payload-base64", "", "payload as standard-alphabet base64")
	cmd.Flags().BoolVar(&encryptFlag, "encrypt", false, "encrypt the payload with the app envelope before embedding")
	cmd.Flags().StringVar(&codecName, "codec", "lsb", "codec to embed with: lsb, dwt, or dot")
	return cmd
}

func resolveEmbedPayload(payloadArg, payloadBase64 string) ([]byte, error) {
	if payloadBase64 != "" {
		decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(payloadBase64))
		if err != nil {
			return nil, stegstr.NewError("embed", stegstr.KindBadMagic, err)
		}
		return decoded, nil
	}
	if payloadArg != "" {
		if strings.HasPrefix(payloadArg, "@") {
			data, err := os.ReadFile(strings.TrimPrefix(payloadArg, "@"))
			if err != nil {
				return nil, stegstr.NewError("embed", stegstr.KindIO, err)
			}
			return data, nil
		}
		return []byte(payloadArg), nil
	}
	return nil, fmt.Errorf("embed requires --payload <string|@file> or --payload-base64 <b64>")
}
