package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/mseals/cinematch/internal/api"
	"github.com/mseals/cinematch/internal/bundle"
	"github.com/mseals/cinematch/internal/config"
	"github.com/mseals/cinematch/internal/metrics"
	"github.com/mseals/cinematch/internal/session"
	"github.com/mseals/cinematch/internal/similarity"
	"github.com/mseals/cinematch/internal/tmdb"
	"github.com/mseals/cinematch/internal/version"
)

func main() {
	ver := version.Load()
	log.Printf("CineMatch %s starting...", ver.Version)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	index, err := similarity.Load(cfg.CatalogPath, cfg.SimilarityPath)
	if err != nil {
		log.Fatalf("similarity snapshot load failed: %v", err)
	}

	metrics.Init()

	client := tmdb.NewClient(cfg.TMDBAPIKey)
	assembler := bundle.New(client)
	sessions := session.NewManager(assembler, client)

	srv := api.NewServer(cfg, index, sessions, ver.Version)

	httpServer := &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.Port),
		Handler:      srv,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("listening on :%d", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	httpServer.Shutdown(ctx)
}
