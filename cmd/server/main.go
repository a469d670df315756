package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/DoyleJ11/infinitedraft-backend/internal/cards"
	"github.com/DoyleJ11/infinitedraft-backend/internal/config"
	"github.com/DoyleJ11/infinitedraft-backend/internal/draft"
	"github.com/DoyleJ11/infinitedraft-backend/internal/httpapi"
	"github.com/DoyleJ11/infinitedraft-backend/internal/room"
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	log := logger.Sugar()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalw("load config", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	src := cards.NewDir(cfg.CardsDir)
	gen := draft.NewGenerator(src, cfg.PackSize)
	rm := room.NewRoom(ctx, gen, cfg.DefaultRounds, log)

	handler := httpapi.SetupRoutes(rm, src, httpapi.Defaults{
		Players: cfg.DefaultPlayers,
		Rounds:  cfg.DefaultRounds,
	}, log)

	srv := &http.Server{Addr: cfg.Addr, Handler: handler}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Infow("listening", "addr", cfg.Addr, "cards_dir", cfg.CardsDir)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatalw("server error", "error", err)
	}
}
