// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"github.com/spf13/cobra"

	"github.com/ava-labs/oswaps/rpc"
	"github.com/ava-labs/oswaps/utils"
)

const defaultEndpoint = "http://127.0.0.1:9650"

var endpoint string

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check that a pool is reachable",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ok, err := rpc.NewJSONRPCClient(endpoint).Ping(cmd.Context())
		if err != nil {
			return err
		}
		utils.Outf("{{green}}ping succeeded:{{/}} %t\n", ok)
		return nil
	},
}

var assetsCmd = &cobra.Command{
	Use:   "assets",
	Short: "List the registered assets",
	RunE: func(cmd *cobra.Command, _ []string) error {
		assets, err := rpc.NewJSONRPCClient(endpoint).Assets(cmd.Context())
		if err != nil {
			return err
		}
		for _, asset := range assets {
			utils.Outf(
				"{{cyan}}%d{{/}} %s %s %s weight=%.4f active=%t shares=%s\n",
				asset.TokenID,
				asset.Identity.Chain,
				asset.Identity.Contract,
				asset.Identity.Symbol,
				asset.Weight,
				asset.Active,
				asset.ShareSymbol(),
			)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&endpoint, "endpoint", defaultEndpoint, "pool API endpoint")
	rootCmd.AddCommand(pingCmd, assetsCmd)
}
