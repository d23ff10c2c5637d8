package main

import (
	"database/sql"
	"net/http"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"travelapi/internal/adapters/chapa"
	server "travelapi/internal/adapters/http_server"
	"travelapi/internal/adapters/observability"
	redisad "travelapi/internal/adapters/redis"
	"travelapi/internal/app"
	"travelapi/internal/shared"
	mysqlrepo "travelapi/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

	// db
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("database connection ok")

	// deps
	repo := mysqlrepo.New(db)
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	gateway, err := chapa.New(cfg.ChapaBase, cfg.ChapaKey, 5)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize payment gateway client")
	}

	h := &server.Handlers{
		Listings: app.NewListingService(repo, cache, cfg.CacheTTL),
		Bookings: app.NewBookingService(repo),
		Reviews:  app.NewReviewService(repo, repo, cache, cfg.CacheTTL),
		Payments: app.NewPaymentService(repo, repo, repo, gateway, cfg.Currency),
	}

	// http
	srv := server.New(cfg.RateRPS, cfg.RateBurst)
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(h)

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
