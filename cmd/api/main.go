package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chihoangvnn/sunfoods-sub005/internal/handlers"
	"github.com/chihoangvnn/sunfoods-sub005/internal/workers"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/rs/cors"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := run(defaultDeps()); err != nil {
		log.Fatal(err)
	}
}

// deps are injected so run can be exercised in tests without a real database
// or listener.
type deps struct {
	getenv         func(string) string
	openDB         func(driverName, dataSourceName string) (*sql.DB, error)
	migrateUp      func(*sql.DB) error
	listenAndServe func(*http.Server) error
	notify         func(chan<- os.Signal, ...os.Signal)
	stopCh         chan os.Signal
}

func defaultDeps() deps {
	return deps{
		getenv:         os.Getenv,
		openDB:         sql.Open,
		migrateUp:      migrateUp,
		listenAndServe: func(srv *http.Server) error { return srv.ListenAndServe() },
		notify:         signal.Notify,
	}
}

func resolvePort(getenv func(string) string) string {
	if port := getenv("PORT"); port != "" {
		return port
	}
	return "18911"
}

func parseIntervalFromEnv(getenv func(string) string, key string, def time.Duration) time.Duration {
	v := getenv(key)
	if v == "" {
		return def
	}
	var secs int
	if _, err := fmt.Sscanf(v, "%d", &secs); err != nil || secs <= 0 {
		return def
	}
	return time.Duration(secs) * time.Second
}

func migrateUp(db *sql.DB) error {
	if db == nil {
		return fmt.Errorf("migrateUp: nil db")
	}
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("failed to init migration driver: %w", err)
	}
	migrator, err := migrate.NewWithDatabaseInstance("file://db/migrations", "postgres", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}
	if err := migrator.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("database migration failed: %w", err)
	}
	return nil
}

func buildRouter(h *handlers.Handler) *mux.Router {
	r := mux.NewRouter()
	handlers.RegisterRoutes(h, r)
	return r
}

// startSchedulerWorkersIfEnabled wires the background pollers: the due-posts
// sweep that hands scheduled posts to the external publisher, and the cleanup
// pass that prunes terminal posts.
func startSchedulerWorkersIfEnabled(ctx context.Context, h *handlers.Handler, db *sql.DB, getenv func(string) string) {
	if enabled := getenv("DUE_POSTS_WORKER_ENABLED"); enabled == "" || enabled == "true" {
		interval := parseIntervalFromEnv(getenv, "DUE_POSTS_INTERVAL_SECONDS", time.Minute)
		go h.StartDuePostsWorker(ctx, interval)
	} else {
		log.Printf("[DuePosts] disabled via DUE_POSTS_WORKER_ENABLED=%q", enabled)
	}

	if enabled := getenv("POST_CLEANUP_ENABLED"); enabled == "" || enabled == "true" {
		w := &workers.PostCleanupWorker{
			DB:            db,
			CheckInterval: parseIntervalFromEnv(getenv, "POST_CLEANUP_INTERVAL_SECONDS", 6*time.Hour),
		}
		go w.Start(ctx)
	} else {
		log.Printf("[PostCleanup] disabled via POST_CLEANUP_ENABLED=%q", enabled)
	}
}

func run(d deps) error {
	// Root context for background workers and graceful shutdown
	rootCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	databaseURL := ""
	if d.getenv != nil {
		databaseURL = d.getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}

	if d.openDB == nil {
		return fmt.Errorf("openDB dependency is required")
	}
	db, err := d.openDB("postgres", databaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	if d.migrateUp != nil {
		if err := d.migrateUp(db); err != nil {
			return err
		}
		log.Println("Database is up-to-date")
	}

	h := handlers.New(db)
	r := buildRouter(h)

	// CORS middleware (the admin console runs on a different origin)
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	port := resolvePort(d.getenv)
	srv := &http.Server{
		Handler:      c.Handler(r),
		Addr:         ":" + port,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	// Handle graceful shutdown on SIGINT/SIGTERM
	stop := d.stopCh
	if stop == nil {
		stop = make(chan os.Signal, 1)
	}
	if d.notify != nil {
		d.notify(stop, os.Interrupt, syscall.SIGTERM)
	}

	startSchedulerWorkersIfEnabled(rootCtx, h, db, d.getenv)

	go func() {
		<-stop
		log.Println("Shutting down server...")
		cancel()
		ctx, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel2()
		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	log.Printf("Server starting on port %s", port)
	if err := d.listenAndServe(srv); err != nil && err != http.ErrServerClosed {
		return err
	}
	log.Println("Server stopped")
	return nil
}
