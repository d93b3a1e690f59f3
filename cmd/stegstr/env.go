// Copyright 2018 Zanicar. All rights reserved.
// Utilizes a BSD-3 license. Refer to the included LICENSE file for details.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newEnvCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "env",
		Short: "Print the active STEGSTR_TEST_PROFILE, if any",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if profile := os.Getenv("STEGSTR_TEST_PROFILE"); profile != "" {
				fmt.Println(profile)
			}
			return nil
		},
	}
}
