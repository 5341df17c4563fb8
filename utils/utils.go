// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package utils

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/hashing"
	"github.com/ava-labs/avalanchego/utils/perms"
	"github.com/onsi/ginkgo/v2/formatter"
)

// ToID is the sha256 of [b], used for request ids and address derivation.
func ToID(b []byte) ids.ID {
	return ids.ID(hashing.ComputeHash256Array(b))
}

// InitSubDirectory creates [root]/[name] if needed and returns its path.
func InitSubDirectory(root, name string) (string, error) {
	dir := filepath.Join(root, name)
	if err := os.MkdirAll(dir, perms.ReadWriteExecute); err != nil {
		return "", fmt.Errorf("unable to create %s: %w", dir, err)
	}
	return dir, nil
}

// Outf prints a ginkgo formatter template to stdout, e.g.
//
//	Outf("{{green}}served{{/}} {{cyan}}%s{{/}}\n", addr)
func Outf(format string, args ...any) {
	fmt.Fprint(formatter.ColorableStdOut, formatter.F(format, args...))
}
