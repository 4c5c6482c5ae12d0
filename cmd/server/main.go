package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"github.com/matthewbaird/fleetfilter/internal/config"
	"github.com/matthewbaird/fleetfilter/internal/filter/lookup"
	"github.com/matthewbaird/fleetfilter/internal/filter/schema"
	"github.com/matthewbaird/fleetfilter/internal/filter/session"
	"github.com/matthewbaird/fleetfilter/internal/filter/translate"
	"github.com/matthewbaird/fleetfilter/internal/filter/views"
	"github.com/matthewbaird/fleetfilter/internal/handler"
	"github.com/matthewbaird/fleetfilter/internal/logging"
	"github.com/matthewbaird/fleetfilter/internal/metrics"
	"github.com/matthewbaird/fleetfilter/internal/server"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(os.Getenv("FLEETFILTER_CONFIG_PATH"))
	if err != nil {
		boot := logging.New(os.Stderr, "info", "console")
		boot.Fatal().Err(err).Msg("loading config")
	}
	log := logging.New(os.Stdout, cfg.Log.Level, cfg.Log.Format)

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}

func run(ctx context.Context, cfg config.Config, log zerolog.Logger) error {
	m := metrics.New(nil)

	catalog, err := schema.LoadBuiltin()
	if err != nil {
		return err
	}

	source, closeSource, err := openSource(ctx, cfg.Lookup)
	if err != nil {
		return err
	}
	defer closeSource()
	log.Info().Str("source", cfg.Lookup.Source).Msg("lookup source ready")

	loader := lookup.NewLoader(source,
		lookup.WithLogger(log),
		lookup.WithErrorHook(func(k lookup.Kind, _ error) { m.IncrementLookupFailures(string(k)) }),
	)
	translator := translate.New(
		translate.WithLogger(log),
		translate.WithUnknownHook(m.IncrementUnknownFields),
		translate.WithStrict(cfg.Filters.StrictFields),
	)

	health := map[string]server.HealthFunc{}
	var store views.Store = views.NewMemoryStore()
	if cfg.Views.Backend == "redis" {
		rs, err := views.DialRedis(ctx, cfg.Redis.Addr)
		if err != nil {
			return err
		}
		defer rs.Close()
		store = rs
		health["redis"] = rs.Health
	}

	sessions := session.NewManager(cfg.Session.MaxAge, cfg.Session.IdleTimeout)
	sessions.OnCount(m.SetOpenSessions)
	go sessions.Run(ctx, time.Minute)

	filters := handler.NewFilterHandler(handler.Deps{
		Catalog:    catalog,
		Translator: translator,
		Loader:     loader,
		Views:      store,
		Sessions:   sessions,
		Metrics:    m,
		Debounce:   cfg.Filters.SearchDebounce,
		Origins:    cfg.Server.AllowedOrigins,
		Logger:     log,
	})

	return server.Run(ctx, server.Config{
		Port:           cfg.Server.Port,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Filters:        filters,
		Health:         health,
		Logger:         log,
	})
}

func openSource(ctx context.Context, cfg config.LookupConfig) (lookup.Source, func(), error) {
	switch cfg.Source {
	case "http":
		var opts []lookup.HTTPOption
		if cfg.Token != "" {
			opts = append(opts, lookup.WithToken(cfg.Token))
		}
		return lookup.NewHTTPSource(cfg.BaseURL, cfg.RetryMax, opts...), func() {}, nil
	case "sql":
		src, err := lookup.OpenSQLSource(ctx, cfg.Driver, cfg.DSN)
		if err != nil {
			return nil, nil, err
		}
		return src, func() { src.Close() }, nil
	default:
		return lookup.DemoSource(), func() {}, nil
	}
}
