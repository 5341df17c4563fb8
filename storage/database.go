// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"fmt"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/database/corruptabledb"
	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ava-labs/oswaps/pebble"
	"github.com/ava-labs/oswaps/utils"
)

const (
	PebbleDatabase = "pebble"
	MemDatabase    = "memdb"

	stateNamespace = "statedb"
)

type DatabaseConfig struct {
	Type   string        `yaml:"type"`
	Pebble pebble.Config `yaml:"pebble"`
}

func NewDefaultDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		Type:   PebbleDatabase,
		Pebble: pebble.NewDefaultConfig(),
	}
}

// New opens the pool state database under [dataDir]. The returned gatherer
// exposes backend metrics (empty for the in-memory backend).
func New(cfg DatabaseConfig, dataDir string) (database.Database, prometheus.Gatherer, error) {
	switch cfg.Type {
	case MemDatabase:
		return memdb.New(), prometheus.NewRegistry(), nil
	case PebbleDatabase:
		path, err := utils.InitSubDirectory(dataDir, stateNamespace)
		if err != nil {
			return nil, nil, err
		}
		db, registry, err := pebble.New(path, cfg.Pebble)
		if err != nil {
			return nil, nil, err
		}
		return corruptabledb.New(db), registry, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownDatabase, cfg.Type)
	}
}
