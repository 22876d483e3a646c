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

	"github.com/rhysstever/CardMatchGame/assets"
	"github.com/rhysstever/CardMatchGame/internal/config"
	"github.com/rhysstever/CardMatchGame/internal/db"
	"github.com/rhysstever/CardMatchGame/internal/events"
	"github.com/rhysstever/CardMatchGame/internal/httpserver"
	"github.com/rhysstever/CardMatchGame/internal/store"
)

func main() {
	_ = godotenv.Load()
	if lvl, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info")); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	cfg, err := config.Load(getEnv("CONFIG_FILE", "concentration.yml"))
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	conn, err := db.Open(cfg.Server.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.Server.DBPath).Msg("open database")
	}
	defer conn.Close()
	if err := db.Migrate(conn, assets.Migrations()); err != nil {
		log.Fatal().Err(err).Msg("migrate")
	}

	var pub events.Publisher = events.Nop{}
	if cfg.Events.NatsURL != "" {
		nc, err := events.Connect(cfg.Events.NatsURL, cfg.Events.Subject)
		if err != nil {
			log.Warn().Err(err).Msg("events disabled")
		} else {
			log.Info().Str("url", cfg.Events.NatsURL).Str("subject", cfg.Events.Subject).Msg("publishing events")
			pub = nc
		}
	}
	defer pub.Close()

	mem := store.NewMemoryStore()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if cfg.Server.SessionTTL > 0 {
		go pruneSessions(ctx, mem, cfg.Server.SessionTTL)
	}

	srv, err := httpserver.New(mem, conn, cfg, pub)
	if err != nil {
		log.Fatal().Err(err).Msg("build server")
	}
	log.Info().Str("port", cfg.Server.Port).Msg("starting concentration server")
	go func() {
		if err := srv.Start(":" + cfg.Server.Port); err != nil {
			log.Error().Err(err).Msg("server exited")
			stop()
		}
	}()
	<-ctx.Done()
	log.Info().Msg("shutting down")
}

// pruneSessions drops sessions older than ttl until ctx is done.
func pruneSessions(ctx context.Context, st store.Store, ttl time.Duration) {
	t := time.NewTicker(ttl / 4)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			if n := st.Prune(ctx, now.Add(-ttl)); n > 0 {
				log.Info().Int("pruned", n).Int("live", st.Len()).Msg("sessions pruned")
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
