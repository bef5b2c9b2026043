package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"asteroids-server/internal/auth"
	"asteroids-server/internal/config"
	"asteroids-server/internal/room"
	"asteroids-server/internal/store"
	"asteroids-server/internal/transport"
)

func main() {
	log.SetPrefix("[ARENA] ")

	cfg, err := config.Load(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := store.OpenDB(cfg.DBPath)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	tokens, err := auth.NewTokens(cfg.TokenSecret, db)
	if err != nil {
		log.Fatalf("tokens: %v", err)
	}
	recorder := store.NewRecorder(db, store.DefaultFlushInterval)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	arena := room.New(cfg.World(), tokens, recorder)
	roomDone := make(chan struct{})
	go func() {
		defer close(roomDone)
		arena.Run(ctx)
	}()

	hub := transport.NewHub(arena, cfg.MaxConnsPerIP, cfg.MaxTotalConns)
	go hub.Run(ctx)

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           transport.SetupRoutes(hub, db, tokens),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Server starting on %s (world %gx%g, tick %s)", cfg.Addr, cfg.WorldWidth, cfg.WorldHeight, cfg.TickInterval)
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("ListenAndServe: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("http shutdown: %v", err)
	}
	<-roomDone
	recorder.Stop()
}
