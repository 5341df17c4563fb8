// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package trace

import (
	"context"
	"testing"

	"github.com/ava-labs/avalanchego/trace"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	require := require.New(t)

	noop, err := New(&Config{AppName: "oswaps"})
	require.NoError(err)
	require.Equal(trace.Noop, noop)
	_, span := noop.Start(context.Background(), "noop")
	span.End()
	require.NoError(noop.Close())

	tr, err := New(&Config{Enabled: true, SampleRate: 1, AppName: "oswaps", Version: "test"})
	require.NoError(err)
	require.IsType(&tracer{}, tr)
	_, span = tr.Start(context.Background(), "sampled")
	require.True(span.SpanContext().IsSampled())
	span.End()
}
