package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"crowdfund/internal/adapter/repo"
	"crowdfund/internal/auth"
	"crowdfund/internal/domain"
	"crowdfund/internal/http/handlers"
	httpapi "crowdfund/internal/http/httpapi"
	"crowdfund/internal/infra"
	"crowdfund/internal/infra/geoip"
	"crowdfund/internal/middleware"
)

// store bundles the repositories of the selected driver with its teardown.
type store struct {
	campaigns domain.CampaignRepository
	donations domain.DonationRepository
	pinger    domain.Pinger
	close     func()
}

func main() {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logger := infra.NewLogger(cfg.Environment(), cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("failed to open store")
	}
	defer st.close()

	resolver, err := geoip.Open(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip disabled")
	}
	defer resolver.Close()
	var lookup middleware.CountryLookup
	if resolver != nil {
		lookup = resolver.CountryCode
	}

	locales, err := middleware.NewLocales(cfg.DefaultLocale, cfg.SupportedLocales)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid locale configuration")
	}

	tokens, err := auth.NewTokens(cfg.PrivateKey, cfg.TokenTTL, nil)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init token issuer")
	}

	app := &handlers.App{
		Campaigns: st.campaigns,
		Donations: st.donations,
		Store:     st.pinger,
		Tokens:    tokens,
		Cookies:   auth.Cookies{Production: cfg.IsProduction(), MaxAge: tokens.TTL()},
		Logger:    logger,
	}
	router := httpapi.NewRouter(app, httpapi.Options{
		Verifier:        tokens,
		Logger:          logger,
		AllowedOrigins:  cfg.CORSAllowedOrigins,
		Locales:         locales,
		CountryLookup:   lookup,
		LoginRatePerMin: cfg.LoginRatePerMin,

		TrustProxyHeaders: cfg.TrustProxyHeaders,
	})
	server := infra.NewHTTPServer(cfg, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info().Str("addr", server.Addr()).Str("env", cfg.Environment()).Msg("API listening")
		return server.Start()
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error().Err(err).Msg("server stopped with error")
		return
	}
	logger.Info().Msg("server stopped")
}

func openStore(ctx context.Context, cfg *infra.Config, logger zerolog.Logger) (*store, error) {
	switch cfg.StoreDriver {
	case infra.StorePostgres:
		pool, err := infra.NewDBPool(ctx, cfg)
		if err != nil {
			return nil, err
		}
		runner := infra.NewSQLRunner(pool, logger)
		if err := repo.EnsureSchema(ctx, runner); err != nil {
			pool.Close()
			return nil, err
		}
		return &store{
			campaigns: repo.NewPGCampaigns(runner),
			donations: repo.NewPGDonations(runner),
			pinger:    runner,
			close:     pool.Close,
		}, nil
	default:
		client, err := infra.NewMongoClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		db := client.Database(cfg.MongoDatabase)
		return &store{
			campaigns: repo.NewMongoCampaigns(db),
			donations: repo.NewMongoDonations(db),
			pinger:    repo.MongoPinger{Client: client},
			close: func() {
				if err := client.Disconnect(context.Background()); err != nil {
					logger.Warn().Err(err).Msg("mongo disconnect failed")
				}
			},
		}, nil
	}
}
