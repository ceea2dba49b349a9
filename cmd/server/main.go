package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"aurum/internal/audit"
	auditkafka "aurum/internal/audit/publisher"
	"aurum/internal/identity"
	"aurum/internal/jwtauth"
	"aurum/internal/kyc"
	"aurum/internal/lot"
	lotmetrics "aurum/internal/lot/metrics"
	"aurum/internal/masters"
	"aurum/internal/platform/config"
	"aurum/internal/platform/httpserver"
	"aurum/internal/platform/logger"
	"aurum/internal/platform/metrics"
	"aurum/internal/platform/postgres"
	"aurum/internal/platform/ratelimit"
	"aurum/internal/platform/redisclient"
	"aurum/internal/sales"
	"aurum/internal/seed"
	"aurum/internal/settings"
	"aurum/internal/statesync"
	httpapi "aurum/internal/transport/http"
)

// main wires dependencies and keeps the server lifecycle small. Business
// logic lives in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

type stores struct {
	identity identity.Store
	masters  masters.Store
	kyc      kyc.Store
	lots     lot.Store
	sales    sales.Store
	settings settings.Store
	audit    audit.Store
}

// buildStores picks Postgres-backed stores when DATABASE_URL is set and
// in-memory stores otherwise. The memory stores carry full semantics, so a
// bare `go run ./cmd/server` serves the whole API without any backend.
func buildStores(ctx context.Context, cfg config.Server, log *slog.Logger) (stores, *sql.DB, error) {
	if cfg.DatabaseURL == "" {
		log.Info("no DATABASE_URL set, using in-memory stores")
		return stores{
			identity: identity.NewInMemoryStore(),
			masters:  masters.NewInMemoryStore(),
			kyc:      kyc.NewInMemoryStore(),
			lots:     lot.NewInMemoryStore(),
			sales:    sales.NewInMemoryStore(),
			settings: settings.NewInMemoryStore(),
			audit:    audit.NewInMemoryStore(),
		}, nil, nil
	}

	db, err := postgres.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return stores{}, nil, err
	}
	if err := postgres.EnsureSchema(ctx, db); err != nil {
		db.Close()
		return stores{}, nil, err
	}
	log.Info("connected to postgres")
	return stores{
		identity: identity.NewPostgresStore(db),
		masters:  masters.NewPostgresStore(db),
		kyc:      kyc.NewPostgresStore(db),
		lots:     lot.NewPostgresStore(db),
		sales:    sales.NewPostgresStore(db),
		settings: settings.NewPostgresStore(db),
		audit:    audit.NewPostgresStore(db),
	}, db, nil
}

func run(ctx context.Context, cfg config.Server, log *slog.Logger) error {
	st, db, err := buildStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	var limitStore ratelimit.Store = ratelimit.NewMemoryStore()
	if cfg.RedisAddr != "" {
		rc, err := redisclient.New(ctx, cfg.RedisAddr)
		if err != nil {
			log.Warn("redis unavailable, settings cache disabled", "error", err)
		} else {
			defer rc.Close()
			st.settings = settings.NewCachedStore(st.settings, rc.Client, log)
			limitStore = ratelimit.NewRedisStore(rc.Client)
			log.Info("settings cache enabled", "addr", cfg.RedisAddr)
		}
	}
	loginLimiter := ratelimit.NewLimiter(limitStore, cfg.LoginRateLimit, time.Minute, log)

	var auditOpts []audit.Option
	if len(cfg.KafkaBrokers) > 0 {
		pub, err := auditkafka.NewKafka(ctx, cfg.KafkaBrokers, cfg.AuditTopic, log)
		if err != nil {
			log.Warn("kafka unavailable, audit events stay local", "error", err)
		} else {
			defer pub.Close()
			auditOpts = append(auditOpts, audit.WithPublisher(pub))
			log.Info("audit publisher enabled", "topic", cfg.AuditTopic)
		}
	}
	recorder := audit.NewRecorder(st.audit, log, auditOpts...)

	tokens := jwtauth.NewService(cfg.JWTSigningKey, cfg.JWTIssuer, cfg.TokenTTL)

	masterSvc := masters.NewService(st.masters, recorder, log)
	kycSvc := kyc.NewService(st.kyc, recorder, log, kyc.WithCustomerRegistry(masterSvc))
	lotSvc := lot.NewService(st.lots, recorder, log, lot.WithMetrics(lotmetrics.New()))
	salesSvc := sales.NewService(st.sales, lotSvc, recorder, log)
	settingsSvc := settings.NewService(st.settings, recorder, log)
	identitySvc := identity.NewService(st.identity, tokens, recorder, log)
	syncSvc := statesync.NewService(masterSvc, lotSvc, salesSvc, settingsSvc, log)

	if cfg.SeedDemoData {
		if err := seed.Run(ctx, seed.Stores{
			Identity: st.identity,
			Masters:  st.masters,
			Lots:     st.lots,
			Settings: st.settings,
		}, log); err != nil {
			return err
		}
	}

	router := httpapi.NewRouter(httpapi.Deps{
		Logger:     log,
		Metrics:    metrics.New(),
		Validator:  tokens,
		LoginLimit: loginLimiter.Middleware,
		Public: []httpapi.Registrar{
			identity.NewHandler(identitySvc, log),
		},
		Authed: []httpapi.Registrar{
			masters.NewHandler(masterSvc, log),
			kyc.NewHandler(kycSvc, log),
			lot.NewHandler(lotSvc, log),
			sales.NewHandler(salesSvc, log),
			settings.NewHandler(settingsSvc, log),
			statesync.NewHandler(syncSvc, log),
			audit.NewHandler(recorder, log),
		},
	})

	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return recorder.Run(gctx)
	})

	g.Go(func() error {
		log.Info("server listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
