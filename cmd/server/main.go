package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"github.com/thereceipt/ticket-engine/internal/api"
	"github.com/thereceipt/ticket-engine/internal/cache"
	"github.com/thereceipt/ticket-engine/internal/config"
	"github.com/thereceipt/ticket-engine/internal/queue"
	"github.com/thereceipt/ticket-engine/internal/registry"
)

// Version is set during build via ldflags
var Version = "dev"

func main() {
	configPath := pflag.StringP("config", "c", "", "Config file (default $TICKET_ENGINE_CONFIG)")
	pflag.Parse()

	if err := config.LoadDotEnv(); err != nil {
		log.Fatalf("Failed to load .env: %v", err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := log.Default()
	log.Printf("🎟️  Ticket Engine %s starting...", Version)

	reg, err := registry.New(cfg.Registry.Path)
	if err != nil {
		log.Fatalf("Failed to open document registry: %v", err)
	}

	asm := cfg.Assembler(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := []api.Option{api.WithLogger(logger), api.WithRegistry(reg)}
	if cfg.Redis.Addr != "" {
		store, err := cache.NewRedis(ctx, cache.RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			TTL:      cfg.Redis.TTL,
		})
		if err != nil {
			log.Printf("Warning: document cache disabled: %v", err)
		} else {
			defer store.Close()
			opts = append(opts, api.WithCache(store))
			log.Printf("✅ Document cache on %s", cfg.Redis.Addr)
		}
	}

	server := api.NewServer(asm, opts...)

	workerDone := make(chan struct{})
	if cfg.Queue.URL != "" {
		worker := queue.NewWorker(queue.Config{
			URL:       cfg.Queue.URL,
			Queue:     cfg.Queue.Queue,
			Prefetch:  cfg.Queue.Prefetch,
			OutputDir: cfg.Queue.OutputDir,
		}, asm,
			queue.WithRegistry(reg),
			queue.WithLogger(logger),
			queue.OnRendered(server.BroadcastRendered),
		)
		go func() {
			defer close(workerDone)
			log.Printf("📥 Render worker consuming %s", cfg.Queue.Queue)
			if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("Render worker stopped: %v", err)
			}
		}()
	} else {
		close(workerDone)
	}

	httpServer := &http.Server{
		Addr:              fmt.Sprintf("0.0.0.0:%s", cfg.Server.Port),
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in goroutine
	serverErrChan := make(chan error, 1)
	go func() {
		log.Printf("🚀 Starting API server on %s", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrChan <- err
		}
	}()

	// Wait for either a server error or a signal
	select {
	case err := <-serverErrChan:
		log.Fatalf("Server error: %v", err)
	case <-ctx.Done():
		log.Printf("🛑 Shutting down...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
	<-workerDone
}
