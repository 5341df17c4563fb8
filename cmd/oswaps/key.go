// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"github.com/spf13/cobra"

	"github.com/ava-labs/oswaps/auth"
	"github.com/ava-labs/oswaps/crypto/ed25519"
	"github.com/ava-labs/oswaps/utils"
)

var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "Manage keys",
}

var keyGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a new ED25519 key",
	RunE: func(*cobra.Command, []string) error {
		priv, err := ed25519.GeneratePrivateKey()
		if err != nil {
			return err
		}
		utils.Outf("{{yellow}}private key:{{/}} %s\n", priv.ToHex())
		utils.Outf("{{yellow}}address:{{/}} %s\n", auth.NewED25519Address(priv.PublicKey()))
		return nil
	},
}

var keyAddressCmd = &cobra.Command{
	Use:   "address [private key]",
	Short: "Print the address of a hex encoded private key",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		priv, err := ed25519.HexToKey(args[0])
		if err != nil {
			return err
		}
		utils.Outf("{{yellow}}address:{{/}} %s\n", auth.NewED25519Address(priv.PublicKey()))
		return nil
	},
}

func init() {
	keyCmd.AddCommand(keyGenerateCmd, keyAddressCmd)
	rootCmd.AddCommand(keyCmd)
}
