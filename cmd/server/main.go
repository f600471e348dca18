package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Qoopi/checkers/bot"
	"github.com/Qoopi/checkers/config"
	"github.com/Qoopi/checkers/server"
)

const (
	GracefulShutdownTimeout = 20 * time.Second
)

func main() {
	cfg := &config.Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if cfg.GetBool(config.ConfigDebug) {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	games := server.NewGameManager(cfg.GameOptions())
	app := server.NewApp(cfg, games, bot.NewBot(cfg))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		log.Info().Msg("got quit signal...")
		if err := app.ShutdownWithTimeout(GracefulShutdownTimeout); err != nil {
			log.Err(err).Msg("shutdown-error")
		}
	}()

	addr := cfg.GetString(config.ConfigHTTPAddr)
	log.Info().Str("addr", addr).Msg("listening")
	if err := app.Listen(addr); err != nil {
		log.Fatal().Err(err).Msg("server-failed")
	}
	log.Info().Msg("server gracefully shutting down")
}
