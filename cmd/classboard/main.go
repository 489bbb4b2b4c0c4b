package main

import (
	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

func main() {
	// Missing .env is fine; flags and the process environment still apply.
	_ = godotenv.Load()

	var cfg Config
	kong.Parse(&cfg,
		kong.Name("classboard"),
		kong.Description("Serves customizable classroom boards."),
		kong.UsageOnError(),
	)

	fx.New(
		fx.Supply(&cfg),
		fx.WithLogger(func(logger *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: logger.Named("fx")}
		}),
		Module,
	).Run()
}

// Module wires the board service, its stores and the HTTP server.
var Module = fx.Options(
	fx.Provide(
		newLogger,
		newPreferenceStore,
		newRegistry,
		newBroadcastHook,
		newService,
		newController,
		newExecutor,
		newServer,
	),
	fx.Invoke(
		registerRoutes,
		bootstrapClassrooms,
		startServer,
		startEventsServer,
	),
)
