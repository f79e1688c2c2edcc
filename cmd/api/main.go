// cmd/api/main.go
//
// Circle console API – HTTP entry point.
//
// Boot order
// ----------
//
//  1. Load env vars (server-wide file → .env fallback).
//
//  2. Start daily rotating logger (tees to console when running in a TTY).
//
//  3. Load and validate config; resolve `vault:` secrets.
//
//  4. Open the MySQL pool and fail fast if it is unreachable.
//
//  5. Build the chat service (store + room cache + event subscribers).
//
//  6. Mount /metrics (Prometheus) and /api (chi controllers).
//
//  7. Serve with hardened timeouts; drain gracefully on SIGINT/SIGTERM.
//
// Large comment blocks are framed by blank “//” lines; inline comments use
// a single “//”.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/circlehq/console/internal/chat"
	"github.com/circlehq/console/internal/config"
	"github.com/circlehq/console/internal/database"
	"github.com/circlehq/console/internal/httpapi"
	"github.com/circlehq/console/internal/logger"
	"github.com/circlehq/console/internal/middleware"
	"github.com/circlehq/console/internal/requestinfo"
	"github.com/circlehq/console/internal/server"
)

const serverEnvPath = "/usr/local/etc/circle-console/global.env"

// loadEnv prefers the server-wide env file; on dev it falls back to .env.
func loadEnv() {
	if _, err := os.Stat(serverEnvPath); err == nil {
		_ = godotenv.Load(serverEnvPath)
		return
	}
	_ = godotenv.Load()
}

// runningInTTY returns true when stdout is a character device.
func runningInTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func init() { loadEnv() }

func main() {
	rootDir, _ := os.Getwd()
	logOut, err := logger.New(rootDir, runningInTTY())
	if err != nil {
		log.Fatalf("start logger: %v", err)
	}

	//
	// ── 1.  Config + secrets ────────────────────────────────────────────
	//
	cfg, err := config.Load()
	if err != nil {
		logOut.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := config.ResolveSecrets(ctx, cfg); err != nil {
		logOut.Fatalf("resolve secrets: %v", err)
	}

	//
	// ── 2.  Database pool ───────────────────────────────────────────────
	//
	dsn := fmt.Sprintf(cfg.Database.DSN, cfg.Database.Password)
	logOut.Infow("connecting to database")
	db, err := database.Open(dsn)
	if err != nil {
		logOut.Fatalf("connect database: %v", err)
	}
	defer db.Close()
	logOut.Infow("database online")

	// Log the room count as an early sanity check.
	var rooms int
	_ = db.Get(&rooms, `SELECT COUNT(*) FROM room`)
	logOut.Infof("%d chat room(s) found", rooms)

	//
	// ── 3.  Geo database (optional) ─────────────────────────────────────
	//
	if err := requestinfo.InitGeo(cfg.Geo.CityDBPath); err != nil {
		logOut.Warnw("geo lookups disabled", "err", err)
	}

	//
	// ── 4.  Services + controllers ──────────────────────────────────────
	//
	chatSvc := chat.NewService(db)
	chatSvc.Subscribe(auditEvents{log: logOut})

	api := httpapi.New(db, chatSvc, cfg.Auth.JWTSecret)

	root := chi.NewRouter()
	root.Use(middleware.Security)
	root.Handle("/metrics", promhttp.Handler())
	root.Mount("/api", api.Router())

	//
	// ── 5.  Serve + graceful drain ──────────────────────────────────────
	//
	srv := server.New(cfg.HTTP.ListenAddr, root)

	go func() {
		<-ctx.Done()
		logOut.Infow("shutdown signal received")
		if err := server.Shutdown(srv, 10*time.Second); err != nil {
			logOut.Errorw("shutdown", "err", err)
		}
	}()

	logOut.Infof("listening on %s", cfg.HTTP.ListenAddr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logOut.Fatalf("http server: %v", err)
	}
}

// auditEvents mirrors chat activity into the structured log.  Stands in for
// the push-notification bridge, which subscribes the same way.
type auditEvents struct {
	log interface {
		Infow(msg string, kv ...any)
	}
}

func (a auditEvents) MessageSent(m chat.Message) {
	a.log.Infow("message sent", "room", m.RoomID, "sender", m.SenderID, "type", m.Type)
}

func (a auditEvents) MessageDeleted(roomID, messageID string) {
	a.log.Infow("message deleted", "room", roomID, "message", messageID)
}
