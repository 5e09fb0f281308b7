package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hms-services/common/config"
	"github.com/hms-services/common/db"
	"github.com/hms-services/common/jwt"
	"github.com/hms-services/common/logger"
	"github.com/hms-services/common/scheduler"
	credentialHandler "github.com/hms-services/services/credential-lambda/handler"
	patientHandler "github.com/hms-services/services/patient-lambda/handler"
)

// sessionSweepInterval is how often expired credential sessions are purged
const sessionSweepInterval = time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", "error", err)
	}

	log := logger.Configure(cfg.LogLevel, cfg.LogFormat, cfg.ServiceName)
	defer func() { _ = log.Sync() }()

	jwt.SetSecret(cfg.JWTSecret)
	config.SetPolicyPath(cfg.SecurityPolicyPath)

	log.Info("Connecting to MySQL database...", "server", cfg.DB.Server, "database", cfg.DB.Database)
	if err := db.InitDBWithConfig(cfg.DB); err != nil {
		log.Fatal("Failed to connect to database", "error", err)
	}
	defer db.CloseDB()

	credH := credentialHandler.NewDefaultCredentialHandler(cfg)
	patientH := patientHandler.NewDefaultPatientHandler()

	// ======================= START SCHEDULER =======================
	sessionCleanup := scheduler.NewSessionCleanupScheduler(credH.UseCase().Store(), sessionSweepInterval)
	sessionCleanup.Start()
	defer sessionCleanup.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      newServerHandler(newRouter(credH, patientH), cfg.CORSAllowedOrigins),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("Server listening", "port", cfg.Port,
			"credentials_page", "http://localhost:"+cfg.Port+"/admin/credentials?session=<id>",
			"health", "http://localhost:"+cfg.Port+"/health")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("Server forced to shutdown", "error", err)
	}
	log.Info("Server exited")
}
