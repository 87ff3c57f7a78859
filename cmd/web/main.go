package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/vsiao/oenology-sub000/config"
	"github.com/vsiao/oenology-sub000/engine"
	"github.com/vsiao/oenology-sub000/server"
	"github.com/vsiao/oenology-sub000/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err.Error())
	}

	logger, err := cfg.Logger()
	if err != nil {
		log.Fatal(err.Error())
	}
	defer logger.Sync()

	actionLog, err := cfg.OpenLog()
	if err != nil {
		logger.Fatal("could not open action log", zap.String("backend", cfg.LogBackend), zap.Error(err))
	}
	defer actionLog.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	games := store.NewInMemoryGameStore()
	restoreGames(ctx, actionLog, games, logger)

	s := server.NewServer(games, actionLog, logger, server.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		Variant:        cfg.Variant,
	})
	s.Addr = cfg.Addr()

	go func() {
		logger.Info("listening",
			zap.String("addr", s.Addr),
			zap.String("backend", cfg.LogBackend),
			zap.Stringer("variant", cfg.Variant),
		)
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server stopped", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := s.Shutdown(shutdownCtx); err != nil {
		logger.Warn("could not shut down cleanly", zap.Error(err))
	}
}

// restoreGames puts every unfinished recorded game back in play, so that
// players can reconnect after a restart
func restoreGames(ctx context.Context, actionLog store.ActionLog, games store.GameStore, logger *zap.Logger) {
	recs, err := actionLog.ListGames(ctx)
	if err != nil {
		logger.Error("could not list recorded games", zap.Error(err))
		return
	}

	for _, rec := range recs {
		ge, err := engine.RestoreGameEngine(ctx, actionLog, rec.GameID, engine.GameEngineOpts{
			Log:    actionLog,
			Logger: logger,
		})
		if err != nil {
			logger.Error("could not restore game", zap.String("game_id", rec.GameID), zap.Error(err))
			continue
		}
		if ge.PlayState() == engine.Finished {
			ge.Stop()
			continue
		}
		if err := games.AddGame(ge); err != nil {
			ge.Stop()
			logger.Warn("could not add restored game", zap.String("game_id", rec.GameID), zap.Error(err))
		}
	}
}
