package main

import (
	"context"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/rubberband/internal/httpserver"
	"github.com/robalobadob/rubberband/internal/results"
	"github.com/robalobadob/rubberband/internal/store"
)

func main() {
	_ = godotenv.Load()
	if lvl, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info")); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	dbPath := getEnv("DB_PATH", "./data/rubberband.db")
	db, err := openDB(dbPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", dbPath).Msg("failed to open database")
	}
	defer db.Close()
	if err := migrate(db); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	cfg := httpserver.ConfigFromEnv()
	srv := httpserver.New(cfg, store.NewMemoryStore(), results.NewStore(db))
	go srv.RunJanitor(context.Background(), time.Minute)

	port := getEnv("PORT", "5175")
	log.Info().Str("port", port).Int("gridSize", cfg.GridSize).
		Dur("idleTTL", cfg.IdleTTL).Int("maxGames", cfg.MaxGames).Msg("starting rubberband server")
	if err := srv.Start(":" + port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
