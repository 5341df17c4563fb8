// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package engine

import (
	"github.com/ava-labs/avalanchego/utils/metric"
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "oswaps"

type metrics struct {
	preparedDeposits   prometheus.Counter
	preparedExchanges  prometheus.Counter
	fulfilledDeposits  prometheus.Counter
	fulfilledExchanges prometheus.Counter
	internalTransfers  prometheus.Counter
	withdrawals        prometheus.Counter
	expired            prometheus.Counter
	failed             prometheus.Counter
	replayed           prometheus.Counter

	execute metric.Averager
}

func newCounter(name, help string) prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      name,
		Help:      help,
	})
}

func newMetrics(r prometheus.Registerer) (*metrics, error) {
	execute, err := metric.NewAverager(
		"oswaps_execute",
		"time spent executing actions",
		r,
	)
	if err != nil {
		return nil, err
	}
	m := &metrics{
		preparedDeposits:   newCounter("prepared_deposits", "number of deposits prepared"),
		preparedExchanges:  newCounter("prepared_exchanges", "number of exchanges prepared"),
		fulfilledDeposits:  newCounter("fulfilled_deposits", "number of deposits settled by a transfer"),
		fulfilledExchanges: newCounter("fulfilled_exchanges", "number of exchanges settled by a transfer"),
		internalTransfers:  newCounter("internal_transfers", "number of transfers tagged as internal"),
		withdrawals:        newCounter("withdrawals", "number of liquidity withdrawals"),
		expired:            newCounter("expired", "number of pending requests evicted after expiry"),
		failed:             newCounter("failed", "number of actions rolled back"),
		replayed:           newCounter("replayed", "number of signed requests rejected as duplicates"),
		execute:            execute,
	}
	errs := wrappers.Errs{}
	errs.Add(
		r.Register(m.preparedDeposits),
		r.Register(m.preparedExchanges),
		r.Register(m.fulfilledDeposits),
		r.Register(m.fulfilledExchanges),
		r.Register(m.internalTransfers),
		r.Register(m.withdrawals),
		r.Register(m.expired),
		r.Register(m.failed),
		r.Register(m.replayed),
	)
	return m, errs.Err
}
