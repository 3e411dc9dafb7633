package logfx_test

import (
	"log/slog"
	"testing"

	"github.com/likvido/logfx"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// syncRecorder is a write syncer that remembers whether it was flushed.
type syncRecorder struct {
	synced bool
}

func (s *syncRecorder) Write(p []byte) (int, error) {
	return len(p), nil
}

func (s *syncRecorder) Sync() error {
	s.synced = true

	return nil
}

// stashGlobals restores zap's process globals after a test that mutates them.
// Tests calling it must not run in parallel.
func stashGlobals(t *testing.T) {
	t.Helper()

	previous := zap.L()
	t.Cleanup(func() { zap.ReplaceGlobals(previous) })
}

func newRecordedLogger(level zapcore.LevelEnabler) (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(level)

	return zap.New(core), logs
}

func TestFactory_NewLoggerEmitsThroughHandle(t *testing.T) {
	t.Parallel()

	logger, logs := newRecordedLogger(zapcore.InfoLevel)
	factory := logfx.NewFactory(logger, false, nil)

	appLogger := factory.NewLogger("app")
	appLogger.Info("hello", slog.String("user", "ada"))

	require.Equal(t, 1, logs.Len())

	entry := logs.All()[0]
	require.Equal(t, "hello", entry.Message)
	require.Equal(t, "app", entry.LoggerName)
	require.Equal(t, "ada", entry.ContextMap()["user"])
}

func TestFactory_NewLoggerUnnamed(t *testing.T) {
	t.Parallel()

	logger, logs := newRecordedLogger(zapcore.InfoLevel)
	factory := logfx.NewFactory(logger, false, nil)

	factory.NewLogger("").Info("anonymous")

	require.Equal(t, 1, logs.Len())
	require.Empty(t, logs.All()[0].LoggerName)
}

func TestFactory_NilLoggerFollowsGlobal(t *testing.T) {
	stashGlobals(t)

	first, firstLogs := newRecordedLogger(zapcore.InfoLevel)
	zap.ReplaceGlobals(first)

	factory := logfx.NewFactory(nil, false, nil)
	appLogger := factory.NewLogger("")

	appLogger.Info("one")
	require.Equal(t, 1, firstLogs.Len())

	second, secondLogs := newRecordedLogger(zapcore.InfoLevel)
	zap.ReplaceGlobals(second)

	appLogger.Info("two")
	require.Equal(t, 1, firstLogs.Len(), "old slot occupant should not receive events after replacement")
	require.Equal(t, 1, secondLogs.Len(), "existing loggers should follow the slot")
}

func TestFactory_ProvidersReceiveEvents(t *testing.T) {
	t.Parallel()

	logger, handleLogs := newRecordedLogger(zapcore.InfoLevel)

	providerCore, providerLogs := observer.New(zapcore.InfoLevel)
	providers := logfx.NewProviderCollection()
	providers.Add(providerCore)

	factory := logfx.NewFactory(logger, false, providers)
	factory.NewLogger("").Info("forwarded")

	require.Equal(t, 1, handleLogs.Len())
	require.Equal(t, 1, providerLogs.Len())
}

func TestFactory_AddProvider(t *testing.T) {
	t.Parallel()

	providers := logfx.NewProviderCollection()
	factory := logfx.NewFactory(zap.NewNop(), false, providers)

	core, _ := observer.New(zapcore.InfoLevel)
	factory.AddProvider(core)

	require.Equal(t, 1, providers.Len())
	require.Same(t, providers, factory.Providers())
}

func TestFactory_AddProviderWithoutCollection(t *testing.T) {
	t.Parallel()

	factory := logfx.NewFactory(zap.NewNop(), false, nil)

	core, _ := observer.New(zapcore.InfoLevel)
	factory.AddProvider(core)

	require.Nil(t, factory.Providers())
}

func TestFactory_CloseFlushesOwnedHandle(t *testing.T) {
	t.Parallel()

	recorder := &syncRecorder{}
	logger := zap.New(zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		recorder,
		zapcore.InfoLevel,
	))

	factory := logfx.NewFactory(logger, true, nil)
	require.NoError(t, factory.Close())
	require.True(t, recorder.synced)

	recorder.synced = false
	require.NoError(t, factory.Close())
	require.False(t, recorder.synced, "second close should be a no-op")
}

func TestFactory_CloseWithoutOwnershipLeavesHandle(t *testing.T) {
	t.Parallel()

	recorder := &syncRecorder{}
	logger := zap.New(zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		recorder,
		zapcore.InfoLevel,
	))

	factory := logfx.NewFactory(logger, false, nil)
	require.NoError(t, factory.Close())
	require.False(t, recorder.synced)
}

func TestFactory_CloseOwnedGlobalResetsSlot(t *testing.T) {
	stashGlobals(t)

	global, logs := newRecordedLogger(zapcore.InfoLevel)
	zap.ReplaceGlobals(global)

	factory := logfx.NewFactory(nil, true, nil)
	require.NoError(t, factory.Close())

	require.False(t, zap.L().Core().Enabled(zapcore.InfoLevel), "slot should hold a no-op logger")

	zap.L().Info("dropped")
	require.Equal(t, 0, logs.Len(), "emits through the slot after close are silently dropped")
}

func TestFactory_CloseSyncsProviders(t *testing.T) {
	t.Parallel()

	providers := logfx.NewProviderCollection()
	providers.Add(failingSyncCore{Core: zapcore.NewNopCore()})

	factory := logfx.NewFactory(zap.NewNop(), false, providers)

	err := factory.Close()
	require.ErrorIs(t, err, errSyncFailed)
}
