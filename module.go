package logfx

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// moduleName is the Fx module name used by all three entry points.
const moduleName = "logfx"

// ProvidersGroup is the Fx value-group name for secondary log sinks. Cores
// registered in this group (see AsProvider and SupplyProvider) are collected
// when the factory is first resolved.
const ProvidersGroup = "logfx.providers"

// ErrNilConstructor is returned when Module is given a nil builder constructor.
var ErrNilConstructor = errors.New("builder constructor must not be nil")

// ErrNilConfigure is returned when Configure is given a nil callback.
var ErrNilConfigure = errors.New("configure callback must not be nil")

// ErrNilBuilder is returned when a builder constructor produces a nil Builder.
var ErrNilBuilder = errors.New("builder constructor returned nil")

// ErrNilProvider is returned when a nil provider core or constructor is registered.
var ErrNilProvider = errors.New("provider must not be nil")

// Module registers a zap-backed logging factory built lazily from the given
// Fx constructor. The constructor's parameters are resolved from the
// container and it must return a *Builder (optionally with an error), so
// logger configuration can draw on application config or any other
// registered service.
//
// Nothing is built at registration time. The first resolution of any of the
// registered services runs the constructor, finalizes the builder into the
// canonical handle, and registers teardown for exactly one owner of that
// handle. The module provides:
//
//   - *RegisteredLogger: the canonical handle, shielded from disposal
//   - *zap.Logger: a forwarding logger for application injection
//   - *Factory: the slog-to-zap factory; an OnStop hook calls Close
//   - *slog.Logger: an unnamed logger from the factory
//
// A ProviderCollection takes part only when WriteToProviders is given; the
// module never resolves one from the surrounding application.
//
//nolint:ireturn // fx.Option is the standard return type for Fx modules
func Module(constructor any, opts ...Option) fx.Option {
	if constructor == nil {
		return fx.Error(ErrNilConstructor)
	}

	var options Options

	for _, apply := range opts {
		apply(&options)
	}

	moduleOpts := []fx.Option{
		fx.Provide(fx.Private, constructor),
	}

	if options.WriteToProviders {
		moduleOpts = append(moduleOpts,
			fx.Provide(fx.Private, NewProviderCollection),
			fx.Provide(newCollectedRegisteredLogger),
			fx.Provide(newCollectedModuleFactory(options)),
		)
	} else {
		moduleOpts = append(moduleOpts,
			fx.Provide(newRegisteredLogger),
			fx.Provide(newModuleFactory(options)),
		)
	}

	moduleOpts = append(moduleOpts,
		fx.Provide(forwardingLogger),
		fx.Provide(applicationLogger),
	)

	return fx.Module(moduleName, moduleOpts...)
}

// Configure registers the factory from a configuration callback that needs
// no resolved services. It wraps the callback into a dependency-free
// constructor and delegates to Module.
//
//nolint:ireturn // fx.Option is the standard return type for Fx modules
func Configure(configure func(*Builder), opts ...Option) fx.Option {
	if configure == nil {
		return fx.Error(ErrNilConfigure)
	}

	constructor := func() *Builder {
		builder := NewBuilder()
		configure(builder)

		return builder
	}

	return Module(constructor, opts...)
}

// FromLogger registers a *Factory over an already-built logger. A nil logger
// makes the factory follow zap's global slot. No builder runs and nothing
// beyond the factory is provided; construction, and disposal unless
// CloseOnStop is given, stay with the caller.
//
//nolint:ireturn // fx.Option is the standard return type for Fx modules
func FromLogger(logger *zap.Logger, opts ...Option) fx.Option {
	var options Options

	for _, apply := range opts {
		apply(&options)
	}

	return fx.Module(moduleName,
		fx.Provide(newStandaloneFactory(logger, options)),
	)
}

// AsProvider annotates a constructor's result into the ProvidersGroup value
// group. The constructor must produce a type implementing zapcore.Core.
//
//nolint:ireturn // fx.Option is the standard return type for Fx modules
func AsProvider(constructor any) fx.Option {
	if constructor == nil {
		return fx.Error(fmt.Errorf("%w: constructor", ErrNilProvider))
	}

	return fx.Provide(
		fx.Annotate(
			constructor,
			fx.As(new(zapcore.Core)),
			fx.ResultTags(`group:"logfx.providers"`),
		),
	)
}

// SupplyProvider registers an existing core in the ProvidersGroup value group.
//
//nolint:ireturn // fx.Option is the standard return type for Fx modules
func SupplyProvider(core zapcore.Core) fx.Option {
	if core == nil {
		return fx.Error(fmt.Errorf("%w: core", ErrNilProvider))
	}

	return fx.Supply(
		fx.Annotate(
			core,
			fx.As(new(zapcore.Core)),
			fx.ResultTags(`group:"logfx.providers"`),
		),
	)
}

// WithFxLogger routes Fx's own lifecycle events through the registered
// factory. It works with all three entry points, since each of them provides
// the *Factory.
//
//nolint:ireturn // fx.Option is the standard return type for Fx modules
func WithFxLogger() fx.Option {
	return fx.WithLogger(func(factory *Factory) fxevent.Logger {
		return &fxevent.SlogLogger{Logger: factory.NewLogger("fx")}
	})
}

func newRegisteredLogger(builder *Builder) (*RegisteredLogger, error) {
	return buildRegisteredLogger(builder, nil)
}

func newCollectedRegisteredLogger(builder *Builder, collection *ProviderCollection) (*RegisteredLogger, error) {
	return buildRegisteredLogger(builder, collection)
}

func buildRegisteredLogger(builder *Builder, collection *ProviderCollection) (*RegisteredLogger, error) {
	if builder == nil {
		return nil, ErrNilBuilder
	}

	if collection != nil {
		builder.WriteToCore(collection)
	}

	logger, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}

	return NewRegisteredLogger(logger), nil
}

func forwardingLogger(registered *RegisteredLogger) *zap.Logger {
	return registered.Forwarding()
}

func applicationLogger(factory *Factory) *slog.Logger {
	return factory.NewLogger("")
}

type factoryParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Registered *RegisteredLogger
}

func newModuleFactory(options Options) func(factoryParams) *Factory {
	return func(params factoryParams) *Factory {
		return installFactory(params.Lifecycle, params.Registered, options, nil, nil)
	}
}

type collectedFactoryParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Registered *RegisteredLogger
	Collection *ProviderCollection
	Sinks      []zapcore.Core `group:"logfx.providers"`
}

func newCollectedModuleFactory(options Options) func(collectedFactoryParams) *Factory {
	return func(params collectedFactoryParams) *Factory {
		return installFactory(params.Lifecycle, params.Registered, options, params.Collection, params.Sinks)
	}
}

func installFactory(
	lifecycle fx.Lifecycle,
	registered *RegisteredLogger,
	options Options,
	collection *ProviderCollection,
	sinks []zapcore.Core,
) *Factory {
	handle := registered.Logger()

	var factory *Factory

	if options.PreserveGlobal {
		factory = newPipelineFactory(handle, collection)
	} else {
		replaceGlobal(handle)
		factory = newPipelineFactory(nil, collection)
	}

	for _, sink := range sinks {
		factory.AddProvider(sink)
	}

	lifecycle.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return factory.Close()
		},
	})

	return factory
}

type standaloneParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Sinks     []zapcore.Core `group:"logfx.providers"`
}

func newStandaloneFactory(logger *zap.Logger, options Options) func(standaloneParams) *Factory {
	return func(params standaloneParams) *Factory {
		factory := NewFactory(logger, options.CloseOnStop, options.Providers)

		for _, sink := range params.Sinks {
			factory.AddProvider(sink)
		}

		if options.CloseOnStop {
			params.Lifecycle.Append(fx.Hook{
				OnStop: func(context.Context) error {
					return factory.Close()
				},
			})
		}

		return factory
	}
}
