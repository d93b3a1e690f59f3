// Copyright 2018 Zanicar. All rights reserved.
// Utilizes a BSD-3 license. Refer to the included LICENSE file for details.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zanicar/stegstr"
	"github.com/zanicar/stegstr/envelope"
)

func newDetectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "detect <image.png>",
		Short: "Decode and decrypt an enveloped image payload, printing the plaintext",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output, err := runDetect(args[0])
			if err != nil {
				return err
			}
			fmt.Print(output)
			return nil
		},
	}
}

func runDetect(path string) (string, error) {
	payload, err := decodeAny(path)
	if err != nil {
		return "", err
	}
	if !envelope.IsEncryptedPayload(payload) {
		return "", stegstr.NewError("detect", stegstr.KindBadMagic, nil)
	}
	plain, err := envelope.Decrypt(payload)
	if err != nil {
		return "", err
	}
	return string(plain), nil
}
