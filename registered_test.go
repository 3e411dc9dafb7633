package logfx_test

import (
	"testing"

	"github.com/likvido/logfx"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestRegisteredLogger_Logger(t *testing.T) {
	t.Parallel()

	logger := zap.NewNop()
	registered := logfx.NewRegisteredLogger(logger)

	require.Same(t, logger, registered.Logger())
}

func TestRegisteredLogger_ForwardingIsDistinct(t *testing.T) {
	t.Parallel()

	core, _ := observer.New(zapcore.InfoLevel)
	registered := logfx.NewRegisteredLogger(zap.New(core))

	forwarding := registered.Forwarding()
	require.NotSame(t, registered.Logger(), forwarding)
}

func TestRegisteredLogger_ForwardingSharesPipeline(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.InfoLevel)
	registered := logfx.NewRegisteredLogger(zap.New(core))

	registered.Logger().Info("from canonical")
	registered.Forwarding().Info("from forwarding")

	require.Equal(t, 2, logs.Len(), "both references should emit through the same sinks")
	require.Empty(t, logs.All()[1].ContextMap(), "forwarding must not add fields")
}
