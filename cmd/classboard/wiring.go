package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	router "github.com/goliatone/go-router"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/goliatone/go-classboard/components/dashboard"
	"github.com/goliatone/go-classboard/components/dashboard/commands"
	"github.com/goliatone/go-classboard/components/dashboard/gorouter"
	"github.com/goliatone/go-classboard/components/dashboard/httpapi"
	"github.com/goliatone/go-classboard/components/dashboard/queries"
	"github.com/goliatone/go-classboard/pkg/activity"
	"github.com/goliatone/go-classboard/pkg/activity/usersink"
	"github.com/goliatone/go-classboard/pkg/analytics"
	"github.com/goliatone/go-classboard/pkg/goadmin"
	"github.com/goliatone/go-classboard/pkg/stores/gormstore"
	"github.com/goliatone/go-classboard/pkg/stores/mongostore"
)

func newLogger(cfg *Config) (*zap.Logger, error) {
	if cfg.Environment == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func newPreferenceStore(lc fx.Lifecycle, cfg *Config, logger *zap.Logger) (dashboard.PreferenceStore, error) {
	switch cfg.Store {
	case storePostgres:
		db, err := gormstore.Open(cfg.DatabaseDSN, true)
		if err != nil {
			return nil, err
		}
		store := gormstore.New(db)
		if cfg.AutoMigrate {
			if err := store.Migrate(context.Background()); err != nil {
				return nil, err
			}
		}
		lc.Append(fx.Hook{
			OnStop: func(context.Context) error {
				sqlDB, err := db.DB()
				if err != nil {
					return err
				}
				return sqlDB.Close()
			},
		})
		logger.Info("preference store ready", zap.String("store", storePostgres))
		return store, nil
	case storeMongo:
		client, err := mongostore.Connect(context.Background(), cfg.MongoURI)
		if err != nil {
			return nil, err
		}
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				return client.Disconnect(ctx)
			},
		})
		logger.Info("preference store ready",
			zap.String("store", storeMongo),
			zap.String("database", cfg.MongoDatabase),
		)
		return mongostore.New(client.Database(cfg.MongoDatabase), cfg.MongoCollection), nil
	case storeMemory, "":
		logger.Warn("using in-memory preference store; layouts are lost on restart")
		return dashboard.NewInMemoryPreferenceStore(), nil
	default:
		return nil, fmt.Errorf("classboard: unknown store %q", cfg.Store)
	}
}

func newRegistry(cfg *Config, logger *zap.Logger) (*dashboard.Registry, error) {
	registry := dashboard.NewRegistry()
	for _, path := range cfg.Manifests {
		doc, err := registry.LoadManifestFile(path)
		if err != nil {
			return nil, err
		}
		logger.Info("widget manifest loaded", zap.String("path", path), zap.Int("widgets", len(doc.Widgets)))
	}

	var chartOpts []dashboard.EChartsProviderOption
	if cfg.ChartTheme != "" {
		chartOpts = append(chartOpts, dashboard.WithChartTheme(cfg.ChartTheme))
	}
	repo, err := participationRepository(cfg)
	if err != nil {
		return nil, err
	}
	provider := dashboard.NewParticipationChartProvider(repo, dashboard.NewEChartsProvider("bar", chartOpts...))
	if err := registry.RegisterProvider(dashboard.WidgetParticipation, provider); err != nil {
		return nil, err
	}
	return registry, nil
}

func participationRepository(cfg *Config) (dashboard.ParticipationRepository, error) {
	if cfg.AnalyticsURL == "" {
		return dashboard.DemoParticipationRepository{}, nil
	}
	client, err := analytics.NewHTTPClient(analytics.HTTPConfig{
		BaseURL: cfg.AnalyticsURL,
		APIKey:  cfg.AnalyticsAPIKey,
	})
	if err != nil {
		return nil, err
	}
	return analytics.NewParticipationRepository(client), nil
}

func newBroadcastHook() *dashboard.BroadcastHook {
	return dashboard.NewBroadcastHook()
}

func newService(
	cfg *Config,
	logger *zap.Logger,
	store dashboard.PreferenceStore,
	registry *dashboard.Registry,
	broadcast *dashboard.BroadcastHook,
) *dashboard.Service {
	return dashboard.NewService(dashboard.Options{
		PreferenceStore: store,
		Providers:       registry,
		RefreshHook:     dashboard.RefreshHooks{broadcast},
		Authorizer:      dashboard.NewRoleAuthorizer(cfg.EditorRoles...),
		Telemetry:       dashboard.NewZapTelemetry(logger),
		Logger:          logger,
		ActivityHooks: activity.Hooks{
			usersink.Hook{Sink: newLogSink(logger)},
		},
		ActivityConfig: activity.Config{
			Enabled: cfg.ActivityEnabled,
			Channel: cfg.ActivityChannel,
		},
	})
}

func newController(service *dashboard.Service) (*dashboard.Controller, error) {
	renderer, err := dashboard.NewTemplateRenderer()
	if err != nil {
		return nil, fmt.Errorf("classboard: template renderer: %w", err)
	}
	return dashboard.NewController(dashboard.ControllerOptions{
		Service:  service,
		Renderer: renderer,
	}), nil
}

func newExecutor(service *dashboard.Service, logger *zap.Logger) *httpapi.CommandExecutor {
	telemetry := dashboard.NewZapTelemetry(logger)
	return &httpapi.CommandExecutor{
		SaveCommand:    commands.NewSavePreferencesCommand(service, telemetry),
		ResetCommand:   commands.NewResetPreferencesCommand(service, telemetry),
		RefreshCommand: commands.NewRefreshBoardCommand(service, telemetry),
	}
}

func newServer() router.Server[*fiber.App] {
	return router.NewFiberAdapter()
}

func registerRoutes(
	server router.Server[*fiber.App],
	controller *dashboard.Controller,
	executor *httpapi.CommandExecutor,
	broadcast *dashboard.BroadcastHook,
	service *dashboard.Service,
) error {
	r := server.Router()
	if err := gorouter.Register(gorouter.Config[*fiber.App]{
		Router:         r,
		Controller:     controller,
		API:            executor,
		Broadcast:      broadcast,
		ViewerResolver: headerViewer,
	}); err != nil {
		return err
	}

	definitions := queries.NewDefinitionsQuery(service)
	r.Get("/widgets", router.WrapHandler(func(ctx router.Context) error {
		defs, err := definitions.Query(ctx.Context(), queries.DefinitionsInput{Locale: headerViewer(ctx).Locale})
		if err != nil {
			return ctx.JSON(httpapi.StatusFor(err), map[string]string{"error": err.Error()})
		}
		return ctx.JSON(http.StatusOK, map[string]any{"widgets": defs})
	}))
	return nil
}

// headerViewer trusts identity headers set by the upstream auth proxy.
func headerViewer(ctx router.Context) dashboard.ViewerContext {
	viewer := dashboard.ViewerContext{UserID: strings.TrimSpace(ctx.Header("X-User-ID"))}
	for _, role := range strings.Split(ctx.Header("X-User-Roles"), ",") {
		if role = strings.TrimSpace(role); role != "" {
			viewer.Roles = append(viewer.Roles, role)
		}
	}
	if lang := ctx.Header("Accept-Language"); lang != "" {
		tag, _, _ := strings.Cut(lang, ",")
		tag, _, _ = strings.Cut(tag, ";")
		viewer.Locale = strings.ToLower(strings.TrimSpace(tag))
	}
	return viewer
}

func bootstrapClassrooms(lc fx.Lifecycle, cfg *Config, service *dashboard.Service, logger *zap.Logger) error {
	admin, err := goadmin.New(goadmin.Config{
		EnableBoards: true,
		Service:      service,
		MenuBuilder:  menuLogger{logger: logger.Named("menu")},
		Classrooms:   cfg.Classrooms,
	})
	if err != nil {
		return err
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := admin.Bootstrap(ctx); err != nil {
				// Seeding is best effort; boards fall back to defaults.
				logger.Warn("classroom bootstrap incomplete", zap.Error(err))
			}
			return nil
		},
	})
	return nil
}

func startServer(lc fx.Lifecycle, cfg *Config, server router.Server[*fiber.App], logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				logger.Info("classboard listening", zap.String("addr", cfg.Addr))
				if err := server.Serve(cfg.Addr); err != nil && !errors.Is(err, context.Canceled) {
					logger.Error("server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			ctx, cancel := context.WithTimeout(ctx, cfg.ShutdownTimeout)
			defer cancel()
			return server.Shutdown(ctx)
		},
	})
}

// startEventsServer serves the layout event stream on its own listener.
func startEventsServer(lc fx.Lifecycle, cfg *Config, broadcast *dashboard.BroadcastHook, logger *zap.Logger) {
	if cfg.EventsAddr == "" {
		return
	}
	base, stopStreams := context.WithCancel(context.Background())
	srv := newEventsServer(cfg.EventsAddr, broadcast, base)
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				logger.Info("classboard events listening", zap.String("addr", cfg.EventsAddr))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("events server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			// Open streams never finish on their own.
			stopStreams()
			ctx, cancel := context.WithTimeout(ctx, cfg.ShutdownTimeout)
			defer cancel()
			return srv.Shutdown(ctx)
		},
	})
}

func newEventsServer(addr string, broadcast *dashboard.BroadcastHook, base context.Context) *http.Server {
	handlers := &httpapi.Handlers{Events: broadcast}
	return &http.Server{
		Addr:              addr,
		Handler:           handlers.EventsMux(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return base },
	}
}
