// Copyright 2018 Zanicar. All rights reserved.
// Utilizes a BSD-3 license. Refer to the included LICENSE file for details.

// Command stegstr is the headless CLI for scripts and agents: decode,
// detect, embed, and post, against the lsb, dwt, and dot codecs.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var verbose bool

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	log.Logger = zerolog.New(io.Discard)

	root := &cobra.Command{
		Use:           "stegstr",
		Short:         "Stegstr headless image-steganography CLI",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "write diagnostic logs to stderr")

	root.AddCommand(newDecodeCmd())
	root.AddCommand(newDetectCmd())
	root.AddCommand(newEmbedCmd())
	root.AddCommand(newPostCmd())
	root.AddCommand(newEnvCmd())
	return root
}
