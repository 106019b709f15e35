package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Kobrals/feeriequest-3d/internal/agent"
	"github.com/Kobrals/feeriequest-3d/internal/config"
	"github.com/Kobrals/feeriequest-3d/internal/engine"
	"github.com/Kobrals/feeriequest-3d/internal/identity"
	"github.com/Kobrals/feeriequest-3d/internal/infrastructure/storage"
	"github.com/Kobrals/feeriequest-3d/internal/network"
	"github.com/Kobrals/feeriequest-3d/internal/server"
	"github.com/Kobrals/feeriequest-3d/internal/version"
	"github.com/Kobrals/feeriequest-3d/pkg/logger"

	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	var seed int64
	flag.Int64Var(&seed, "seed", 0, "Game seed, overrides GAME_SEED (0 keeps the configured one)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logger.Log.WithError(err).Fatal("Invalid configuration.")
	}
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	logger.Log.Info("Starting Feeriequest...")
	logger.Log.Info(version.String())

	store, err := storage.Open(cfg.DatabasePath)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to open profile store.")
	}
	tokens := identity.NewTokenProvider(cfg.JWTSecret, cfg.TokenTTL)
	persister := engine.NewPersister(store, cfg.SaveQueueSize, cfg.SaveWorkers, cfg.SaveTimeout)
	hub := network.NewBroadcaster()

	engineCfg := cfg.Engine()
	if seed != 0 {
		engineCfg.Seed = seed
	}
	logger.Log.Infof("Game seed: %d", engineCfg.Seed)

	game := engine.NewService(engineCfg, hub, persister)
	srv := server.New(game, hub, store, tokens, cfg.Addr(), cfg.StaticDir)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return game.Run(gctx)
	})
	g.Go(srv.Run)

	botSettings := agent.DefaultSettings()
	botSettings.Interval = cfg.BotInterval
	for i := 0; i < cfg.BotCount; i++ {
		bot := agent.NewBot(fmt.Sprintf("Bot-%d", i+1), game, hub, botSettings)
		g.Go(func() error {
			bot.Run(gctx)
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		logger.Log.Info("Shutting down...")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(sctx)
	})

	if err := g.Wait(); err != nil {
		logger.Log.WithError(err).Error("Server stopped with error.")
	}

	// game.Run has queued the shutdown saves by now
	<-game.Done()
	persister.Close()
	if err := store.Close(); err != nil {
		logger.Log.WithError(err).Warn("Failed to close profile store.")
	}
	logger.Log.Info("Done.")
}
