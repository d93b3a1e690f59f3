// Copyright 2018 Zanicar. All rights reserved.
// Utilizes a BSD-3 license. Refer to the included LICENSE file for details.

package main

import (
	"fmt"
	"os"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/spf13/cobra"

	"github.com/zanicar/stegstr"
	"github.com/zanicar/stegstr/event"
)

func newPostCmd() *cobra.Command {
	var (
		privkeyHex string
		outputPath string
	)

	cmd := &cobra.Command{
		Use:   "post <content>",
		Short: "Create a signed kind-1 note and print its bundle JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var secretKey *btcec.PrivateKey
			if privkeyHex != "" {
				sk, err := event.ParseSecretKeyHex(privkeyHex)
				if err != nil {
					return err
				}
				secretKey = sk
			}

			ev, err := event.New(args[0], secretKey)
			if err != nil {
				return err
			}

			bundle := event.BuildBundle(*ev)
			out, err := bundle.JSON(true)
			if err != nil {
				return err
			}

			if outputPath != "" {
				if err := os.WriteFile(outputPath, out, 0o644); err != nil {
					return stegstr.NewError("post", stegstr.KindIO, err)
				}
				fmt.Fprintf(os.Stderr, "Wrote %s\n", outputPath)
				return nil
			}
			fmt.Println(string(out))
			return nil
		},
	}

	cmd.Flags().StringVar(&privkeyHex, "privkey-hex", "", "64-char hex secret key; a fresh one is generated and discarded if omitted")
	cmd.Flags().StringVar(&outputPath, "output", "", "write the bundle JSON to this file instead of stdout")
	return cmd
}
