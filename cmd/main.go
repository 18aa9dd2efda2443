package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"propertyagent/config"
	_ "propertyagent/docs"
	"propertyagent/internal/handlers"
	"propertyagent/internal/metrics"
	"propertyagent/internal/repositories"
	"propertyagent/internal/services"
	"propertyagent/internal/utils"
	"propertyagent/internal/wsnotify"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

// @title PropertyAgent Pro API
// @version 1.0
// @description Upload tracked files, match leads through the workflow engine and dispatch WhatsApp messages
// @host localhost:8081
// @BasePath /api/v1
func main() {
	// Load config
	cfg := config.NewConfig()
	utils.SetupLogger(cfg.LogLevel, cfg.LogFormat)

	if err := cfg.Validate(); err != nil {
		utils.LogError("Invalid configuration: %v", err)
		os.Exit(1)
	}

	// Initialize database connection
	db, err := config.ConnectDatabase(cfg.Database)
	if err != nil {
		utils.LogError("Error connecting to database: %v", err)
		os.Exit(1)
	}
	defer db.Close()

	dispatches := repositories.NewSQLDispatchRepository(db, cfg.Database.Driver)
	if err := dispatches.Migrate(context.Background()); err != nil {
		utils.LogError("Error migrating database: %v", err)
		os.Exit(1)
	}

	httpClient := &http.Client{Timeout: cfg.UpstreamTimeout}

	var uploader services.Uploader
	switch cfg.StorageBackend {
	case config.StorageBackendS3:
		s3Service, err := services.NewS3Service(cfg.S3Config, cfg.AgentID)
		if err != nil {
			utils.LogError("Error creating S3 uploader: %v", err)
			os.Exit(1)
		}
		uploader = s3Service
	default:
		uploader = services.NewTrackerClient(cfg.StorageBaseURL, cfg.AgentID, httpClient)
	}

	workflow := services.NewWorkflowClient(cfg.MatchLeadsURL(), cfg.SendMessageURL(), cfg.AgentID, httpClient)
	wsManager := wsnotify.NewManager()

	sessions := services.NewSessionManager(services.Dependencies{
		AgentID:         cfg.AgentID,
		Gate:            services.NewUploadGate(cfg.MaxUploadBytes),
		Uploader:        uploader,
		Matcher:         workflow,
		Journal:         dispatches,
		Publisher:       wsManager,
		NotificationTTL: cfg.NotificationTTL,
		TrackingTimeout: cfg.TrackingTimeout,
	}, cfg.SessionIdleTTL)

	janitorCtx, stopJanitor := context.WithCancel(context.Background())
	defer stopJanitor()
	go sessions.Run(janitorCtx, time.Minute)

	// Only logged, the workflow engine may come up after us
	healthCtx, cancelHealth := context.WithTimeout(context.Background(), 10*time.Second)
	if err := workflow.HealthCheck(healthCtx); err != nil {
		utils.LogWarning("Workflow health check failed: %v", err)
	} else {
		utils.LogInfo("Workflow reachable at %s", cfg.MatchLeadsURL())
	}
	cancelHealth()

	metrics.Register()

	// Create HTTP handler
	httpHandler := handlers.NewHTTPHandler(sessions, dispatches, wsManager, cfg.StorageBackend)
	router := mux.NewRouter().PathPrefix("/api/v1").Subrouter()
	httpHandler.RegisterRoutes(router)

	// Swagger UI, document registered by the docs package
	router.PathPrefix("/swagger-ui/").Handler(httpSwagger.Handler(
		httpSwagger.URL("doc.json"),
		httpSwagger.DeepLinking(true),
	))

	mainRouter := mux.NewRouter()
	mainRouter.Handle("/metrics", promhttp.Handler())
	mainRouter.PathPrefix("/api/v1").Handler(router)
	mainRouter.Use(handlers.RecoveryMiddleware, handlers.LoggingMiddleware)

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	})

	handler := c.Handler(mainRouter)

	server := &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		utils.LogInfo("Server is running on %s (agent %s, storage %s)", cfg.ServerAddr, cfg.AgentID, cfg.StorageBackend)
		utils.LogInfo("Swagger UI available at: http://localhost%s/api/v1/swagger-ui/index.html", cfg.ServerAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			utils.LogError("Error starting server: %v", err)
			os.Exit(1)
		}
	}()

	<-stop
	fmt.Println("\nShutting down gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		utils.LogError("Error shutting down server: %v", err)
	}

	stopJanitor()
	// Waits for in-flight dispatch tracking to reach the journal
	sessions.CloseAll()

	utils.LogInfo("Server stopped successfully")
}
