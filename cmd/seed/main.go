package main

import (
	"context"
	"database/sql"
	"flag"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"travelapi/internal/adapters/observability"
	"travelapi/internal/seed"
	"travelapi/internal/shared"
	mysqlrepo "travelapi/internal/storage/mysql"
)

func main() {
	var p seed.Params
	flag.IntVar(&p.Users, "users", 10, "number of users to create")
	flag.IntVar(&p.Listings, "listings", 20, "number of listings to create")
	flag.IntVar(&p.Bookings, "bookings", 40, "number of bookings to create")
	flag.IntVar(&p.Reviews, "reviews", 30, "number of reviews to create")
	flag.BoolVar(&p.Clear, "clear", false, "delete existing data before seeding")
	flag.Int64Var(&p.Seed, "seed", 0, "PRNG seed for reproducible data (0 = random)")
	flag.Parse()

	ctx := context.Background()
	cfg := shared.Load()
	p.Workers = cfg.SeedWorkers

	log.Logger = observability.NewLogger(cfg.AppEnv)

	log.Info().
		Int("users", p.Users).
		Int("listings", p.Listings).
		Int("bookings", p.Bookings).
		Int("reviews", p.Reviews).
		Bool("clear", p.Clear).
		Msg("seeder starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	if err := seed.Run(ctx, mysqlrepo.New(db), p); err != nil {
		log.Fatal().Err(err).Msg("seeding failed")
	}
}
