package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/playpong/backend/internal/api"
	"github.com/playpong/backend/internal/config"
	"github.com/playpong/backend/internal/database"
	"github.com/playpong/backend/internal/game"
	"github.com/playpong/backend/internal/migrations"
	"github.com/playpong/backend/internal/redis"
	"github.com/playpong/backend/internal/settings"
	"github.com/playpong/backend/internal/ws"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Initialize configuration
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Runtime config overrides live in Postgres when one is configured
	if cfg.DatabaseURL != "" {
		if cfg.MigrateOnStart {
			log.Println("↗ Running DB migrations on startup...")
			if err := migrations.Run(cfg.DatabaseURL); err != nil {
				log.Fatalf("Failed to run migrations: %v", err)
			}
		}

		db, err := database.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		if err := settings.ApplyToConfig(db, cfg); err != nil {
			log.Printf("[CONFIG] Runtime config not applied: %v", err)
		}
		db.Close()
	} else {
		log.Println("[CONFIG] DATABASE_URL not set; using environment configuration only")
	}

	// Initialize Redis
	rdb, err := redis.Connect(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	if rdb != nil {
		defer rdb.Close()
	}

	if cfg.AdminName == "" {
		log.Println("[ROOM] ADMIN_NAME not set; chat commands are disabled")
	}

	// Initialize the room and its websocket hub
	hub := ws.NewHub(cfg.SendBufferSize)
	room := game.NewRoom(cfg, hub)

	g, gctx := errgroup.WithContext(ctx)

	if rdb != nil {
		mirror := ws.NewMirror(rdb, cfg)
		hub.SetMirror(mirror)
		g.Go(func() error { return mirror.Run(gctx) })
		g.Go(func() error { return ws.StartCommandSubscriber(gctx, rdb, cfg, room) })
	} else {
		log.Println("[REDIS] REDIS_URL not set; event mirror and ops commands disabled")
	}

	// Set up Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	api.SetupRoutes(router, room, hub, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g.Go(func() error {
		log.Printf("Starting pong server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Println("[HTTP] Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		room.Shutdown()
		return err
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
