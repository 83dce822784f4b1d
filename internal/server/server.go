// FilePath: internal/server/server.go
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/sparxlab/sparx-hub/api"
	"github.com/sparxlab/sparx-hub/internal/config"
	"github.com/sparxlab/sparx-hub/internal/database"
	"github.com/sparxlab/sparx-hub/internal/events"
	"github.com/sparxlab/sparx-hub/internal/hubservice"
	"github.com/sparxlab/sparx-hub/internal/models"
	"github.com/sparxlab/sparx-hub/internal/monitoring"
	"github.com/sparxlab/sparx-hub/internal/notify"
	"github.com/sparxlab/sparx-hub/internal/repository/memory"
	"github.com/sparxlab/sparx-hub/internal/repository/postgres"
	nuts "github.com/vaudience/go-nuts"
)

// Server represents our HTTP server
type Server struct {
	config     *config.Config
	srv        *http.Server
	hubservice *hubservice.HubService
	monitoring *monitoring.Service
	notifier   *notify.RedisPublisher
}

// New creates a new server instance
func New(cfg *config.Config) *Server {
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	return &Server{
		config: cfg,
		srv:    srv,
	}
}

// Start begins listening for requests
func (s *Server) Start() error {
	// Initialize services
	s.hubservice = initializeHubService(s.config)
	s.monitoring = monitoring.NewService(monitoring.Config{
		LogLevel: s.config.Monitoring.LogLevel,
	})

	if err := s.hubservice.Validate(); err != nil {
		return err
	}

	// Attach realtime push and monitoring to the domain events
	if s.config.Redis.Enabled {
		notifier, err := notify.NewRedisPublisher(s.config.Redis)
		if err != nil {
			nuts.L.Fatalf("[Server] Failed to connect to redis: %v", err)
		}
		s.notifier = notifier
		s.notifier.Attach(s.hubservice.Events)
	}
	s.setupEventHandlers()

	// Setup routes
	router := api.NewRouter(s.hubservice, s.config.Webhook.Token, s.handleHealth())
	s.srv.Handler = router

	// Start server
	go func() {
		nuts.L.Infof("[Server] Starting server on %s", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			nuts.L.Errorf("[Server] Error starting server: %v", err)
			os.Exit(1)
		}
	}()

	return s.waitForShutdown()
}

// waitForShutdown waits for interrupt signal and gracefully shuts down the server
func (s *Server) waitForShutdown() error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	nuts.L.Infof("[Server] Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeout)
	defer cancel()

	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}

	if s.notifier != nil {
		if err := s.notifier.Close(); err != nil {
			nuts.L.Warnf("[Server] Error closing redis publisher: %v", err)
		}
	}

	nuts.L.Infof("[Server] Server shut down successfully")
	return nil
}

// handleHealth returns a simple health check handler
func (s *Server) handleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok","version":"` + nuts.GetVersion() + `"}`))
	}
}

func (s *Server) setupEventHandlers() {
	// Handle reading ingestion events
	s.hubservice.Events.On(events.ReadingIngested, "server_monitoring", func(payload any) {
		if reading, ok := payload.(*models.Reading); ok {
			s.monitoring.RecordEvent("reading_ingested", map[string]string{
				"device_id": reading.DeviceID,
				"status":    string(reading.Status),
			})
		}
	})

	// Handle alert creation events
	s.hubservice.Events.On(events.AlertCreated, "server_monitoring", func(payload any) {
		if alert, ok := payload.(*models.Alert); ok {
			nuts.L.Infof("[Server] Alert %s raised for device %s", alert.ID, alert.DeviceID)
			s.monitoring.RecordEvent("alert_created", map[string]string{
				"alert_id": alert.ID,
				"status":   string(alert.Status),
			})
		}
	})

	// Handle alert acknowledgement events
	s.hubservice.Events.On(events.AlertAcknowledged, "server_monitoring", func(payload any) {
		if alert, ok := payload.(*models.Alert); ok {
			s.monitoring.RecordEvent("alert_acknowledged", map[string]string{
				"alert_id": alert.ID,
			})
		}
	})

	// Handle device status changes
	s.hubservice.Events.On(events.DeviceUpdated, "server_monitoring", func(payload any) {
		if device, ok := payload.(*models.Device); ok {
			s.monitoring.RecordEvent("device_updated", map[string]string{
				"device_id": device.ID,
				"status":    string(device.CurrentStatus),
			})
		}
	})
}

// initializeHubService creates and configures the hub service
func initializeHubService(cfg *config.Config) *hubservice.HubService {
	if cfg.Server.Store == "memory" {
		nuts.L.Infof("[Server] Using in-memory store")
		return hubservice.New(memory.NewDeviceStore(), memory.NewReadingStore(), memory.NewAlertStore())
	}

	appDB := initAppDB(cfg.Database)

	if err := postgres.InitSchema(appDB); err != nil {
		nuts.L.Fatalf("[Server] Failed to initialize schema: %v", err)
	}

	devices := postgres.NewDeviceRepository(appDB)
	readings := postgres.NewReadingRepository(appDB)
	alerts := postgres.NewAlertRepository(appDB)

	return hubservice.New(devices, readings, alerts)
}

func initAppDB(cfg config.PostgresConfig) database.DB {
	wrappedDB, err := database.NewPostgresDB(cfg)
	if err != nil {
		nuts.L.Fatalf("[Server] Failed to connect to database: %v", err)
	}
	db := wrappedDB.GetDB()
	if err := db.Ping(); err != nil {
		nuts.L.Fatalf("[Server] Failed to ping database: %v", err)
	}
	return wrappedDB
}
