// main.go
//
// Entry point for the arcade game server.
// Responsibilities:
//   - Load .env and configure the global zerolog level.
//   - Open SQLite (DB_DRIVER, DB_PATH) and apply the embedded migrations.
//   - Load the typing word list and connect to NATS when NATS_URL is set.
//   - Evict idle game sessions every minute (SESSION_TTL, default 30m).
//   - Serve HTTP on PORT until SIGINT/SIGTERM.

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/arcade/assets"
	"github.com/robalobadob/arcade/internal/database"
	"github.com/robalobadob/arcade/internal/events"
	"github.com/robalobadob/arcade/internal/httpserver"
	"github.com/robalobadob/arcade/internal/store"
	"github.com/robalobadob/arcade/internal/words"
)

func main() {
	_ = godotenv.Load()
	if lvl, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info")); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(getEnv("DB_DRIVER", database.DriverCGO), getEnv("DB_PATH", "./data/arcade.db"))
	if err != nil {
		log.Fatal().Err(err).Msg("open database")
	}
	defer db.Close()
	if err := database.Migrate(db, assets.FS, assets.MigrationsDir); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	if err := words.Init(); err != nil {
		log.Fatal().Err(err).Msg("failed to load typing words")
	}

	pub := events.Nop()
	if url := os.Getenv("NATS_URL"); url != "" {
		p, err := events.Connect(url)
		if err != nil {
			log.Warn().Err(err).Str("url", url).Msg("nats unavailable; outcomes will not be published")
		} else {
			pub = p
			log.Info().Str("url", url).Msg("publishing outcomes to nats")
		}
	}
	defer pub.Close()

	sessions := store.NewMemoryStore()
	ttl, err := time.ParseDuration(getEnv("SESSION_TTL", "30m"))
	if err != nil || ttl <= 0 {
		log.Warn().Str("value", os.Getenv("SESSION_TTL")).Msg("invalid SESSION_TTL; using 30m")
		ttl = 30 * time.Minute
	}
	go evictIdle(ctx, sessions, ttl)

	srv := httpserver.New(sessions, db, httpserver.WithPublisher(pub))
	port := getEnv("PORT", "5175")
	log.Info().Str("port", port).Str("db", getEnv("DB_DRIVER", database.DriverCGO)).Msg("starting arcade server")
	if err := srv.Start(ctx, ":"+port); err != nil {
		log.Error().Err(err).Msg("server exited")
	}
}

// evictIdle closes sessions untouched for ttl, once a minute, until ctx is done.
func evictIdle(ctx context.Context, st store.Store, ttl time.Duration) {
	t := time.NewTicker(time.Minute)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			if n := st.Evict(ctx, now.Add(-ttl)); n > 0 {
				log.Info().Int("evicted", n).Msg("idle sessions closed")
			}
		}
	}
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
