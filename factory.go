package logfx

import (
	"log/slog"
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"
	"go.uber.org/zap/zapcore"
)

// Factory converts the log/slog abstraction into zap events. It is the
// service application code resolves to create named loggers, and it is the
// single owner of pipeline disposal: Close flushes exactly one of the handle
// or zap's global slot, depending on how the factory was constructed.
type Factory struct {
	logger       *zap.Logger
	ownsLogger   bool
	providers    *ProviderCollection
	teeProviders bool

	mu     sync.Mutex
	closed bool
}

// NewFactory creates a factory over the given handle. A nil logger makes the
// factory read zap's global slot, so loggers it creates follow later global
// replacements. When providers is non-nil, the factory's loggers write to the
// collection alongside the handle, and AddProvider routes sinks into it.
//
// ownsLogger decides what Close disposes: the handle when one was given, or
// the global slot (flush, then reset to a no-op logger) when the handle is
// nil. A factory that does not own its logger only flushes the providers.
func NewFactory(logger *zap.Logger, ownsLogger bool, providers *ProviderCollection) *Factory {
	return &Factory{
		logger:       logger,
		ownsLogger:   ownsLogger,
		providers:    providers,
		teeProviders: providers != nil,
	}
}

// newPipelineFactory is the Module-internal constructor: the built pipeline
// already tees into the collection, so the factory must not attach it a
// second time. Factories built here always own their logger.
func newPipelineFactory(logger *zap.Logger, providers *ProviderCollection) *Factory {
	return &Factory{
		logger:     logger,
		ownsLogger: true,
		providers:  providers,
	}
}

// NewLogger creates a slog logger emitting through the factory's pipeline.
// An empty name leaves the logger unnamed.
func (f *Factory) NewLogger(name string) *slog.Logger {
	var opts []zapslog.HandlerOption
	if name != "" {
		opts = append(opts, zapslog.WithName(name))
	}

	return slog.New(zapslog.NewHandler(f.rootCore(), opts...))
}

// AddProvider routes a secondary sink into the factory's provider
// collection. Without a collection the sink is ignored.
func (f *Factory) AddProvider(core zapcore.Core) {
	if f.providers == nil || core == nil {
		return
	}

	f.providers.Add(core)
}

// Providers returns the factory's provider collection, if any. Callers that
// registered with FromLogger and WithProviders use it to inspect the routed
// sinks or to attach more after resolution.
func (f *Factory) Providers() *ProviderCollection {
	return f.providers
}

// Close disposes the factory's single owned resource and flushes the
// provider collection. Closing twice is a no-op.
func (f *Factory) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return nil
	}

	f.closed = true

	var err error

	if f.ownsLogger {
		if f.logger == nil {
			err = multierr.Append(err, resetGlobal().Sync())
		} else {
			err = multierr.Append(err, f.logger.Sync())
		}
	}

	if f.providers != nil {
		err = multierr.Append(err, f.providers.Sync())
	}

	return err
}

func (f *Factory) rootCore() zapcore.Core {
	var core zapcore.Core
	if f.logger != nil {
		core = f.logger.Core()
	} else {
		core = globalSlotCore{}
	}

	if f.teeProviders && f.providers != nil {
		core = zapcore.NewTee(core, f.providers)
	}

	return core
}

// Global slot access is confined to the three accessors below. Everything
// else in the package goes through them, never through zap's functions
// directly.

// currentGlobal reads the process-wide logger.
func currentGlobal() *zap.Logger {
	return zap.L()
}

// replaceGlobal assigns the process-wide logger (and its sugared twin).
func replaceGlobal(logger *zap.Logger) {
	zap.ReplaceGlobals(logger)
}

// resetGlobal swaps a no-op logger into the slot and returns the previous
// occupant so the caller can flush it.
func resetGlobal() *zap.Logger {
	previous := currentGlobal()
	zap.ReplaceGlobals(zap.NewNop())

	return previous
}

// globalSlotCore delegates to the slot's core at call time, so loggers
// created from a nil-handle factory observe global replacements instead of
// freezing the core that happened to be installed at creation.
type globalSlotCore struct {
	fields []zapcore.Field
}

func (c globalSlotCore) Enabled(level zapcore.Level) bool {
	return currentGlobal().Core().Enabled(level)
}

func (c globalSlotCore) With(fields []zapcore.Field) zapcore.Core {
	if len(fields) == 0 {
		return c
	}

	combined := make([]zapcore.Field, 0, len(c.fields)+len(fields))
	combined = append(combined, c.fields...)
	combined = append(combined, fields...)

	return globalSlotCore{fields: combined}
}

func (c globalSlotCore) Check(entry zapcore.Entry, checked *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(entry.Level) {
		return checked.AddCore(entry, c)
	}

	return checked
}

func (c globalSlotCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	combined := make([]zapcore.Field, 0, len(c.fields)+len(fields))
	combined = append(combined, c.fields...)
	combined = append(combined, fields...)

	return currentGlobal().Core().Write(entry, combined)
}

func (c globalSlotCore) Sync() error {
	return currentGlobal().Core().Sync()
}
