// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ava-labs/oswaps/consts"
)

var rootCmd = &cobra.Command{
	Use:   consts.Name,
	Short: "Multilateral weighted token exchange",
	Long:  `Runs and interacts with an oswaps pool: a single liquidity pool exchanging any pair of its registered tokens.`,
}

func init() {
	cobra.EnablePrefixMatching = true
	rootCmd.CompletionOptions.HiddenDefaultCmd = true
	rootCmd.DisableAutoGenTag = true
	rootCmd.SilenceErrors = true
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
