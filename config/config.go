// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ava-labs/avalanchego/utils/logging"
	"gopkg.in/yaml.v2"

	"github.com/ava-labs/oswaps/codec"
	"github.com/ava-labs/oswaps/consts"
	"github.com/ava-labs/oswaps/engine"
	"github.com/ava-labs/oswaps/liquidity"
	"github.com/ava-labs/oswaps/storage"
	"github.com/ava-labs/oswaps/trace"
)

const (
	defaultListenAddress   = "127.0.0.1:9650"
	defaultDataDir         = ".oswaps"
	defaultLogLevel        = "info"
	defaultShutdownTimeout = 10 * time.Second
	defaultReapInterval    = 5 * time.Second
	defaultRequestValidity = time.Minute

	// Issuance policies accepted in [Config.Issuance].
	FlatIssuance         = "flat"
	ProportionalIssuance = "proportional"
)

type Config struct {
	ListenAddress   string        `yaml:"listenAddress"`
	AllowedOrigins  []string      `yaml:"allowedOrigins"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`

	DataDir  string                 `yaml:"dataDir"`
	Database storage.DatabaseConfig `yaml:"database"`

	LogLevel string `yaml:"logLevel"`
	LogDir   string `yaml:"logDir"`

	// Bootstrap is the principal allowed to configure a fresh pool.
	Bootstrap string `yaml:"bootstrap"`
	// RequestValidity bounds how far in the future a signed request may
	// expire.
	RequestValidity time.Duration `yaml:"requestValidity"`
	ReapInterval    time.Duration `yaml:"reapInterval"`
	Issuance        string        `yaml:"issuance"`

	Trace trace.Config `yaml:"trace"`

	bootstrap codec.Address
	logLevel  logging.Level
}

// New parses a YAML config. Missing fields keep their defaults.
func New(b []byte) (*Config, error) {
	c := &Config{}
	c.setDefault()
	if len(b) > 0 {
		if err := yaml.Unmarshal(b, c); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
	}
	if err := c.parse(); err != nil {
		return nil, err
	}
	return c, nil
}

// Load reads the config at [path]. An empty path yields the defaults.
func Load(path string) (*Config, error) {
	if len(path) == 0 {
		return New(nil)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return New(b)
}

func (c *Config) setDefault() {
	c.ListenAddress = defaultListenAddress
	c.AllowedOrigins = []string{"*"}
	c.ShutdownTimeout = defaultShutdownTimeout
	c.DataDir = defaultDataDir
	c.Database = storage.NewDefaultDatabaseConfig()
	c.LogLevel = defaultLogLevel
	c.RequestValidity = defaultRequestValidity
	c.ReapInterval = defaultReapInterval
	c.Issuance = FlatIssuance
	c.Trace = trace.Config{
		SampleRate: 1,
		Endpoint:   trace.DefaultEndpoint,
		AppName:    consts.Name,
	}
}

func (c *Config) parse() error {
	if len(c.Bootstrap) == 0 {
		return fmt.Errorf("%w: bootstrap is required", ErrInvalidConfig)
	}
	addr, err := codec.ParseAddress(c.Bootstrap)
	if err != nil {
		return fmt.Errorf("%w: bootstrap %q: %w", ErrInvalidConfig, c.Bootstrap, err)
	}
	c.bootstrap = addr

	level, err := logging.ToLevel(c.LogLevel)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	c.logLevel = level

	if c.RequestValidity < time.Millisecond {
		return fmt.Errorf("%w: requestValidity %s", ErrInvalidConfig, c.RequestValidity)
	}
	if c.ReapInterval <= 0 {
		return fmt.Errorf("%w: reapInterval %s", ErrInvalidConfig, c.ReapInterval)
	}
	if _, err := c.issuance(); err != nil {
		return err
	}
	return nil
}

func (c *Config) issuance() (liquidity.IssuancePolicy, error) {
	switch c.Issuance {
	case FlatIssuance:
		return liquidity.FlatIssuance{}, nil
	case ProportionalIssuance:
		return liquidity.ProportionalIssuance{}, nil
	default:
		return nil, fmt.Errorf("%w: issuance %q", ErrInvalidConfig, c.Issuance)
	}
}

func (c *Config) GetLogLevel() logging.Level { return c.logLevel }

// EngineConfig derives the engine settings.
func (c *Config) EngineConfig() engine.Config {
	policy, _ := c.issuance()
	return engine.Config{
		Bootstrap:       c.bootstrap,
		RequestValidity: c.RequestValidity.Milliseconds(),
		Issuance:        policy,
	}
}
