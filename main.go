package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hydehsmf/trackle/internal/httpserver"
	"github.com/hydehsmf/trackle/internal/lastfm"
	"github.com/hydehsmf/trackle/internal/phrase"
	"github.com/hydehsmf/trackle/internal/play"
	"github.com/hydehsmf/trackle/internal/store"
	"github.com/hydehsmf/trackle/internal/userdb"
	"github.com/hydehsmf/trackle/internal/words"
)

func main() {
	_ = godotenv.Load()
	if lvl, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info")); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         dsn,
			Environment: getEnv("SENTRY_ENVIRONMENT", "development"),
		}); err != nil {
			log.Fatal().Err(err).Msg("failed to init sentry")
		}
		defer sentry.Flush(2 * time.Second)
	}

	dict, err := words.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load word list")
	}
	log.Info().Int("words", dict.Count()).Msg("word list loaded")

	db, err := userdb.Open(getEnv("DATABASE_PATH", "./data/trackle.db"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()
	if err := userdb.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}
	box, err := userdb.NewKeybox(getEnv("SESSION_KEY_SECRET", "dev_secret_change_me"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build keybox")
	}
	users := userdb.NewStore(db, box)

	apiKey, sharedSecret := os.Getenv("LASTFM_APIKEY"), os.Getenv("LASTFM_SHARED_SECRET")
	if apiKey == "" || sharedSecret == "" {
		log.Fatal().Msg("LASTFM_APIKEY and LASTFM_SHARED_SECRET must be set")
	}
	lfm := lastfm.New(apiKey, sharedSecret)

	source, err := play.NewSource(
		getEnv("PHRASE_SOURCE", "albums"),
		lfm,
		lastfm.Period(getEnv("PHRASE_PERIOD", string(lastfm.PeriodOverall))),
		envInt("PHRASE_LIMIT", 50),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build phrase source")
	}

	ctrl := play.NewController(
		store.NewMemoryStore(),
		source,
		phrase.NewSelector(nil),
		dict,
		getEnv("DEFAULT_LASTFM_USER", "hydehsmf"),
	)

	srv := httpserver.New(ctrl, dict, users, lfm)
	port := getEnv("PORT", "3000")

	hs := &http.Server{Addr: ":" + port, Handler: srv.Router()}
	go func() {
		log.Info().Str("port", port).Msg("starting trackle server")
		if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server exited")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info().Str("signal", sig.String()).Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := hs.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("shutdown error")
	}
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}
