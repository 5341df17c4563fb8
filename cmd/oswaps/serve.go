// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"context"
	"net"
	"os/signal"
	"syscall"

	"github.com/ava-labs/avalanchego/utils/timer/mockable"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ava-labs/oswaps/config"
	"github.com/ava-labs/oswaps/consts"
	"github.com/ava-labs/oswaps/engine"
	"github.com/ava-labs/oswaps/rpc"
	"github.com/ava-labs/oswaps/server"
	"github.com/ava-labs/oswaps/storage"
	"github.com/ava-labs/oswaps/trace"
	"github.com/ava-labs/oswaps/utils"
)

const metricsEndpoint = "/metrics"

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the pool and its JSON-RPC API",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()
		return serve(ctx, configPath)
	},
}

func init() {
	serveCmd.Flags().StringVar(&configPath, "config", "", "path to the YAML config")
	rootCmd.AddCommand(serveCmd)
}

func serve(ctx context.Context, path string) error {
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	log, logCloser := newLogger(consts.Name, cfg.GetLogLevel(), cfg.LogDir)
	defer func() {
		log.Stop()
		_ = logCloser.Close()
	}()

	db, dbGatherer, err := storage.New(cfg.Database, cfg.DataDir)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("unable to close database", zap.Error(err))
		}
	}()

	tracer, err := trace.New(&cfg.Trace)
	if err != nil {
		return err
	}
	defer func() {
		if err := tracer.Close(); err != nil {
			log.Warn("unable to close tracer", zap.Error(err))
		}
	}()

	registry := prometheus.NewRegistry()
	e, err := engine.New(cfg.EngineConfig(), db, log, registry, &mockable.Clock{}, tracer)
	if err != nil {
		return err
	}

	handler, err := rpc.NewJSONRPCHandler(rpc.Name, rpc.NewJSONRPCServer(e))
	if err != nil {
		return err
	}
	listener, err := net.Listen("tcp", cfg.ListenAddress)
	if err != nil {
		return err
	}
	srv := server.New(log, listener, server.NewDefaultHTTPConfig(), cfg.AllowedOrigins, cfg.ShutdownTimeout)
	if err := srv.AddRoute(handler, rpc.JSONRPCEndpoint, ""); err != nil {
		return err
	}
	gatherer := prometheus.Gatherers{registry, dbGatherer}
	if err := srv.AddRoute(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}), metricsEndpoint, ""); err != nil {
		return err
	}

	utils.Outf("{{green}}serving %s on{{/}} {{cyan}}%s{{/}}\n", consts.Name, listener.Addr())
	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.Dispatch)
	g.Go(func() error {
		return e.Run(gctx, cfg.ReapInterval)
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		return srv.Shutdown()
	})
	return g.Wait()
}
