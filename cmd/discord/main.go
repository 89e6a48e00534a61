package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"server-warden/internal/analytics"
	"server-warden/internal/command"
	"server-warden/internal/config"
	"server-warden/internal/cooldown"
	"server-warden/internal/discord"
	"server-warden/internal/instrument"
	"server-warden/internal/middleware"
	"server-warden/internal/storage"
	"server-warden/pkg/cmd"
)

func main() {
	log.Println("[INFO] Starting server-warden bot...")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.New()
	if err != nil {
		log.Fatal(err)
	}

	if cfg.LogFilePath != "" {
		log.SetOutput(io.MultiWriter(os.Stderr, &lumberjack.Logger{
			Filename:   cfg.LogFilePath,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		}))
	}

	store, err := storage.New(cfg.StoragePath)
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()

	cooldowns := cooldown.New()
	go cooldowns.RunSweeper(ctx, cfg.CooldownSweep)

	measurer := instrument.New(store)

	registry := cmd.NewRegistry()
	env := &command.Env{
		Config:    cfg,
		Storage:   store,
		Analytics: analytics.New(store),
		Registry:  registry,
		StartedAt: time.Now(),
	}
	registry.RegisterAll(command.All(env)...)

	bot := discord.NewBot(cfg, store, registry, cooldowns, measurer, env,
		discord.WithMiddleware(middleware.ExecutionLog()),
	)

	errCh := make(chan error, 1)
	go func() {
		if err := bot.Run(ctx); err != nil {
			errCh <- err
		}
		close(errCh)
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case s := <-sig:
		log.Printf("[INFO] Received signal %s, shutting down...", s)
		cancel()
	case err := <-errCh:
		if err != nil {
			log.Println("[ERR] Discord bot error:", err)
		}
		cancel()
	case <-ctx.Done():
	}

	log.Println("[INFO] Discord bot exited cleanly")
}
