package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/nzaccagnino/jotaku-notes/internal/db"
	"github.com/nzaccagnino/jotaku-notes/internal/i18n"
	"github.com/nzaccagnino/jotaku-notes/internal/server"
)

func main() {
	// A .env file is optional; the environment wins.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatalf("Error loading .env file: %v", err)
	}

	port := getEnv("PORT", "8080")
	dbPath := getEnv("DB_PATH", "notes.db")
	rateLimit, err := strconv.Atoi(getEnv("RATE_LIMIT", "100"))
	if err != nil {
		log.Fatalf("Invalid RATE_LIMIT: %v", err)
	}
	i18n.SetLanguage(i18n.Language(getEnv("LANGUAGE", string(i18n.English))))

	database, err := db.New(dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close()

	srv := server.New(database, server.Options{RateLimit: rateLimit})
	defer srv.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%s", port),
		Handler: srv,
		// Request contexts end with the process so open streams close.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()
		log.Printf("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("Shutdown: %v", err)
		}
	}()

	log.Printf("Starting server on %s", httpServer.Addr)
	log.Printf("Database: %s", dbPath)

	if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Server failed: %v", err)
	}
	<-done
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
