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

	"github.com/pcqvix1/ecommerce/internal/database"
	"github.com/pcqvix1/ecommerce/internal/email"
	"github.com/pcqvix1/ecommerce/internal/logging"
	"github.com/pcqvix1/ecommerce/internal/server"
)

func main() {
	logger := logging.Setup(os.Getenv("SHOP_LOG_LEVEL"), os.Getenv("SHOP_LOG_FORMAT"))

	port := os.Getenv("SHOP_PORT")
	if port == "" {
		port = "8080"
	}

	dbPath := os.Getenv("SHOP_DB_PATH")
	if dbPath == "" {
		dbPath = "shop.db"
	}

	db, err := database.Open(dbPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	emailClient := email.NewClient(
		os.Getenv("SHOP_POSTMARK_TOKEN"),
		os.Getenv("SHOP_EMAIL_FROM"),
	)
	if !emailClient.Configured() {
		logger.Warn("email client not configured; order confirmations disabled")
	}

	cfg := server.Config{
		BcryptCost:                envInt("SHOP_BCRYPT_COST", 0),
		RelinkOnPasswordlessLogin: os.Getenv("SHOP_RELINK_ON_GOOGLE_LOGIN") != "false",
	}

	srv := server.New(db, emailClient, cfg, logger)

	httpServer := &http.Server{
		Addr:         ":" + port,
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Periodic rate limiter cleanup
	go func() {
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			srv.RateLimiter().Cleanup()
		}
	}()

	go func() {
		logger.Info("shop backend listening", "port", port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Fatalf("shutdown error: %v", err)
	}
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
