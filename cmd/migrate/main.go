package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ucu-wifi/guest-portal-go/internal/database"
	"github.com/ucu-wifi/guest-portal-go/internal/migrations"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	dsn := flag.String("dsn", os.Getenv("DATABASE_URL"), "PostgreSQL connection string")
	timeout := flag.Duration("timeout", time.Minute, "overall timeout")
	flag.Parse()

	if *dsn == "" {
		log.Fatal().Msg("missing DSN: provide via -dsn or DATABASE_URL")
	}
	if flag.NArg() == 0 {
		log.Fatal().Msg("usage: migrate [up|down|status]")
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	db, err := database.Connect(*dsn)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	runner := migrations.NewRunner(db.DB)

	switch cmd := flag.Arg(0); cmd {
	case "up":
		ran, err := runner.Up(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("migrate up failed")
		}
		log.Info().Int("applied", len(ran)).Msg("Schema up to date")
	case "down":
		version, err := runner.Down(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("migrate down failed")
		}
		log.Info().Str("version", version).Msg("Migration reverted")
	case "status":
		versions, err := runner.Status(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("migrate status failed")
		}
		for _, v := range versions {
			fmt.Println(v)
		}
	default:
		log.Fatal().Str("command", cmd).Msg("unknown command")
	}
}
