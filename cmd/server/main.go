package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	router "github.com/dkeye/Battleship/internal/adapters/http"
	"github.com/dkeye/Battleship/internal/app"
	"github.com/dkeye/Battleship/internal/app/orch"
	"github.com/dkeye/Battleship/internal/config"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// config.Load logs, so the logger comes first.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if cfg.Mode == "release" {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	} else {
		log.Warn().Str("level", cfg.LogLevel).Msg("unknown log level, keeping info")
	}

	o := &orch.Orchestrator{
		Registry: app.NewRegistry(),
		Rooms:    app.NewRoomManager(),
		Policy:   app.SimplePolicy{},
	}
	o.StartSweeper(ctx, cfg.SweepInterval, cfg.FinishedTTL)
	defer o.Stop()

	r := router.SetupRouter(ctx, cfg, o)
	addr := fmt.Sprintf(":%d", cfg.Port)

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("Battleship server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server error")
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited gracefully")
}
