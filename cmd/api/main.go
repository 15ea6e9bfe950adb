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

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	appscan "github.com/ghostguard/ghostguard/internal/application/scan"
	"github.com/ghostguard/ghostguard/internal/application/sessions"
	"github.com/ghostguard/ghostguard/internal/config"
	"github.com/ghostguard/ghostguard/internal/domain/threats"
	aiclient "github.com/ghostguard/ghostguard/internal/infra/ai/openai"
	memrepo "github.com/ghostguard/ghostguard/internal/infra/db/memory"
	mysqlp "github.com/ghostguard/ghostguard/internal/infra/db/mysql"
	postgresp "github.com/ghostguard/ghostguard/internal/infra/db/postgres"
	"github.com/ghostguard/ghostguard/internal/infra/httpserver"
	"github.com/ghostguard/ghostguard/internal/infra/inbox/sample"
	minioStore "github.com/ghostguard/ghostguard/internal/infra/storage"
	"github.com/ghostguard/ghostguard/internal/middleware"
)

func main() {
	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	// load config
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	ctx := context.Background()

	// init repo, driver dipilih dari config
	var repo threats.Repository
	var db *sql.DB
	switch cfg.Database.Driver {
	case "memory":
		repo = memrepo.NewThreatRepository()
	case "mysql":
		db, err = mysqlp.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			log.Fatalf("mysql connect error: %v", err)
		}
		defer db.Close()
		repo = mysqlp.NewThreatRepository(db)
	case "postgres":
		db, err = postgresp.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			log.Fatalf("postgres connect error: %v", err)
		}
		defer db.Close()
		repo = postgresp.NewThreatRepository(db)
	default:
		log.Fatalf("unknown database driver: %s", cfg.Database.Driver)
	}

	// init minio, optional report archive
	var reports threats.ReportStore
	if cfg.Minio.Endpoint != "" {
		store, err := minioStore.New(ctx,
			cfg.Minio.Endpoint,
			cfg.Minio.Region,
			cfg.Minio.BucketName,
			cfg.Minio.AccessKey,
			cfg.Minio.SecretKey,
			cfg.Minio.UseSSL,
		)
		if err != nil {
			log.Fatalf("minio init error: %v", err)
		}
		reports = store
	}

	// init AI client
	analyzer := aiclient.NewClient(aiclient.Options{
		APIKey:      cfg.AI.APIKey,
		BaseURL:     cfg.AI.BaseURL,
		Model:       cfg.AI.Model,
		Temperature: cfg.AI.Temperature,
		TopP:        cfg.AI.TopP,
		MaxTokens:   cfg.AI.MaxTokens,
	})

	// init services
	svc := &appscan.Service{
		Repo:    repo,
		AI:      analyzer,
		Reports: reports,
		Clock:   appscan.SystemClock{},
		Policy: appscan.Policy{
			HeuristicGate: cfg.Scan.HeuristicGate,
			CollectAll:    cfg.Scan.CollectAll,
			AITimeout:     cfg.AITimeout(),
		},
	}
	manager := sessions.NewManager(sample.NewLoader(time.Now().UnixNano()), appscan.SystemClock{})

	// readiness checks
	checkers := map[string]middleware.HealthChecker{}
	if db != nil {
		checkers["database"] = &middleware.DatabaseHealthChecker{DB: db}
	}

	// init router
	mux := chi.NewRouter()
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}))
	mux.Use(middleware.LoggingMiddleware)
	mux.Use(middleware.MetricsMiddleware)
	if len(cfg.Auth.APIKeys) > 0 {
		mux.Use(middleware.APIKeyAuth(cfg.Auth.APIKeys))
	}
	mux.Use(middleware.RateLimitMiddleware(cfg.RateLimit.Capacity, cfg.RateLimit.RefillRate))
	mux.Mount("/", httpserver.NewRouter(svc, manager, repo, analyzer, checkers))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// run server
	go func() {
		log.Printf("server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Println("shutting down server...")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
