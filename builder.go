package logfx

import (
	"fmt"
	"os"
	"sort"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Builder accumulates logger configuration and finalizes it into a
// *zap.Logger. Methods chain; the first recorded error wins and is returned
// by Build. The zero value is not usable, call NewBuilder.
//
// Unconfigured aspects fall back to a JSON encoder at info level writing to
// stderr.
type Builder struct {
	level   zapcore.LevelEnabler
	encoder zapcore.Encoder
	syncers []zapcore.WriteSyncer
	cores   []zapcore.Core
	fields  []zap.Field
	zapOpts []zap.Option
	err     error
}

// NewBuilder creates an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Level sets the minimum level for the built pipeline.
func (b *Builder) Level(level zapcore.LevelEnabler) *Builder {
	b.level = level

	return b
}

// JSON selects zap's production JSON encoder.
func (b *Builder) JSON() *Builder {
	b.encoder = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())

	return b
}

// Console selects zap's development console encoder.
func (b *Builder) Console() *Builder {
	b.encoder = zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())

	return b
}

// Encoder sets a custom encoder.
func (b *Builder) Encoder(encoder zapcore.Encoder) *Builder {
	b.encoder = encoder

	return b
}

// WriteTo adds output destinations. All destinations added here share the
// builder's encoder and level.
func (b *Builder) WriteTo(syncers ...zapcore.WriteSyncer) *Builder {
	b.syncers = append(b.syncers, syncers...)

	return b
}

// WriteToCore adds fully-formed cores to the pipeline, bypassing the
// builder's encoder and level. This is how pre-built sinks such as a
// ProviderCollection are attached.
func (b *Builder) WriteToCore(cores ...zapcore.Core) *Builder {
	b.cores = append(b.cores, cores...)

	return b
}

// Enrich attaches fields to every event emitted by the built logger.
func (b *Builder) Enrich(fields ...zap.Field) *Builder {
	b.fields = append(b.fields, fields...)

	return b
}

// ZapOptions passes options through to zap.New.
func (b *Builder) ZapOptions(opts ...zap.Option) *Builder {
	b.zapOpts = append(b.zapOpts, opts...)

	return b
}

// Apply maps a Config onto the builder. Defaults are applied and the config
// is validated first; a validation or path-opening failure is recorded and
// surfaces from Build.
func (b *Builder) Apply(config Config) *Builder {
	if b.err != nil {
		return b
	}

	config.SetDefaults()

	err := config.Validate()
	if err != nil {
		b.err = fmt.Errorf("invalid config: %w", err)

		return b
	}

	level, err := zapcore.ParseLevel(config.Level)
	if err != nil {
		b.err = fmt.Errorf("parsing level %q: %w", config.Level, err)

		return b
	}

	b.Level(level)

	switch config.Encoding {
	case EncodingConsole:
		b.Console()
	default:
		b.JSON()
	}

	if len(config.OutputPaths) > 0 {
		syncer, _, err := zap.Open(config.OutputPaths...)
		if err != nil {
			b.err = fmt.Errorf("opening output paths: %w", err)

			return b
		}

		b.WriteTo(syncer)
	}

	if len(config.ErrorOutputPaths) > 0 {
		syncer, _, err := zap.Open(config.ErrorOutputPaths...)
		if err != nil {
			b.err = fmt.Errorf("opening error output paths: %w", err)

			return b
		}

		b.ZapOptions(zap.ErrorOutput(syncer))
	}

	keys := make([]string, 0, len(config.Fields))
	for key := range config.Fields {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	for _, key := range keys {
		b.Enrich(zap.String(key, config.Fields[key]))
	}

	return b
}

// Build finalizes the configuration into a logger handle.
func (b *Builder) Build() (*zap.Logger, error) {
	if b.err != nil {
		return nil, b.err
	}

	level := b.level
	if level == nil {
		level = zapcore.InfoLevel
	}

	encoder := b.encoder
	if encoder == nil {
		encoder = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	}

	syncers := b.syncers
	if len(syncers) == 0 && len(b.cores) == 0 {
		syncers = []zapcore.WriteSyncer{zapcore.Lock(os.Stderr)}
	}

	cores := make([]zapcore.Core, 0, len(b.cores)+1)
	cores = append(cores, b.cores...)

	if len(syncers) > 0 {
		cores = append(cores, zapcore.NewCore(encoder, zapcore.NewMultiWriteSyncer(syncers...), level))
	}

	core := cores[0]
	if len(cores) > 1 {
		core = zapcore.NewTee(cores...)
	}

	logger := zap.New(core, b.zapOpts...)
	if len(b.fields) > 0 {
		logger = logger.With(b.fields...)
	}

	return logger, nil
}
