// main.go
package main

import (
	"log"

	"user-auth/cmd"
	"user-auth/internal/data/repository"
	"user-auth/internal/wire"
	"user-auth/pkg/database"
	"user-auth/pkg/mailer"
	"user-auth/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	// Initialize repositories
	repos := repository.NewRepository(db, logger)

	// Mailer: fall back to log-only delivery when SMTP is not configured
	var mail mailer.Mailer
	if config.Email.Host != "" {
		mail = mailer.NewSMTPMailer(config.Email, logger)
	} else {
		logger.Warn("SMTP not configured, OTP emails will be logged only")
		mail = mailer.NewLogMailer(logger)
	}

	// Wire all dependencies
	app := wire.Wiring(repos, mail, config, logger)

	// Start server
	logger.Info("Starting HTTP server", zap.String("port", config.App.Port))

	cmd.APIServer(app.Router, config.App.Port)
}
