package logfx_test

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/likvido/logfx"

	"go.uber.org/fx"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// Example_registerAndUse shows the whole flow: register the logging module,
// let application code inject the generic *slog.Logger, and observe the event
// in the configured sink. PreserveGlobal keeps zap's process globals out of
// the example so it composes with any host application.
func Example_registerAndUse() {
	core, recorded := observer.New(zapcore.InfoLevel)

	app := fx.New(
		fx.NopLogger,
		logfx.Configure(
			func(builder *logfx.Builder) {
				builder.WriteToCore(core)
			},
			logfx.PreserveGlobal(),
		),
		fx.Invoke(func(logger *slog.Logger) {
			logger.Info("user created", slog.String("user", "ada"))
		}),
	)

	err := app.Start(context.Background())
	if err != nil {
		fmt.Printf("Error starting app: %v\n", err)

		return
	}

	defer func() { _ = app.Stop(context.Background()) }()

	entry := recorded.All()[0]
	fmt.Println(entry.Message, entry.ContextMap()["user"])
	// Output:
	// user created ada
}

// Example_loadConfig loads declarative logger settings from a YAML file, the
// shape a composition root would hand to Builder.Apply.
func Example_loadConfig() {
	config, err := logfx.LoadConfig("testdata/logging.yaml")
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)

		return
	}

	fmt.Println(config.Level, config.Encoding, config.Fields["service"])
	// Output:
	// debug console billing
}
