package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver

	"campusbarter/api"
	"campusbarter/bugsink"
	"campusbarter/config"
	appcontext "campusbarter/context"
	"campusbarter/engine"
	"campusbarter/identity"
	"campusbarter/metrics"
	"campusbarter/rabbit"
	"campusbarter/repository"
	"campusbarter/storage"
)

func initContext() *appcontext.Context {
	log.Println("[MAIN] Initializing application context")

	cfg := config.C()

	// Initialize Database
	log.Println("[MAIN] Connecting to PostgreSQL database...")
	db, err := sql.Open("postgres", cfg.Db_Conn_Str)
	if err != nil {
		log.Fatalf("[MAIN] Failed to open database connection: %v", err)
	}

	// Test database connection
	if err := db.Ping(); err != nil {
		log.Fatalf("[MAIN] Failed to ping database: %v", err)
	}
	log.Println("[MAIN] Successfully connected to the database")

	if err := repository.Migrate(db); err != nil {
		log.Fatalf("[MAIN] Failed to run migrations: %v", err)
	}

	repo := repository.NewRepository(db)

	imageStorage, err := storage.NewS3Storage(context.Background(), cfg.S3_Bucket, cfg.S3_Region)
	if err != nil {
		log.Fatalf("[MAIN] Failed to initialize image storage: %v", err)
	}

	appContext := &appcontext.Context{
		Repo:     repo,
		Engine:   engine.New(repo),
		Identity: identity.NewCognitoProvider(cfg.Cognito_Region, cfg.Cognito_User_Pool_Id, cfg.Cognito_App_Client_Id),
		Storage:  imageStorage,
		Config:   cfg,
	}

	if cfg.Rabbit_Enabled {
		log.Printf("[MAIN] Using RabbitMQ URL: %s", cfg.Rabbit_Url)
		appContext.SetEvents(rabbit.NewRabbitClient(cfg.Rabbit_Url, "exchange_events"))
	} else {
		log.Println("[MAIN] RabbitMQ events are disabled")
	}

	return appContext
}

func main() {
	// Initialize configuration
	config.Init("campusbarter")

	// Initialize metrics system
	if err := metrics.Init(); err != nil {
		log.Fatalf("[MAIN] Failed to initialize metrics: %v", err)
	}

	// Initialize error tracking
	if err := bugsink.Init(); err != nil {
		log.Fatalf("[MAIN] Failed to initialize BugSink: %v", err)
	}

	appContext := initContext()
	server := api.NewServer(appContext)

	httpServer := &http.Server{
		Addr:         config.C().Listen_Addr,
		Handler:      server.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Printf("[MAIN] Received signal %v, starting graceful shutdown", sig)

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(ctx); err != nil {
			log.Printf("[MAIN] HTTP server shutdown error: %v", err)
		}
		bugsink.Flush()
	}()

	log.Printf("[MAIN] Starting CampusBarter API on %s", config.C().Listen_Addr)
	log.Println("[MAIN] Press Ctrl+C to stop")

	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("[MAIN] HTTP server failed: %v", err)
	}

	log.Println("[MAIN] Graceful shutdown completed")
}
