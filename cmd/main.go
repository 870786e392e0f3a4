package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"family_recipes/internal/config"
	"family_recipes/internal/credential"
	"family_recipes/internal/handlers"
	"family_recipes/internal/logger"
	"family_recipes/internal/mail"
	"family_recipes/internal/repository"
	"family_recipes/internal/repository/db"
	"family_recipes/internal/server"
	"family_recipes/internal/service"
	"family_recipes/internal/session"

	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 10 * time.Second

// @title        Mario's Family Recipes API
// @version      1.0
// @description  Read-only JSON access to the family recipe collection.
// @BasePath     /
func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Get(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}

	log := logger.Get(logLevel(cfg))
	gin.SetMode(ginMode(cfg))

	sqlDB, err := db.InitDB(context.Background(), cfg.DB.Path, log)
	if err != nil {
		log.Fatalw("failed to init sqlite", "path", cfg.DB.Path, "err", err)
	}
	defer func() {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	// wire dependencies
	repos := repository.NewRepository(sqlDB)
	users, err := repos.Users.Count(context.Background())
	if err != nil {
		log.Fatalw("failed to count users", "err", err)
	}
	log.Infow("db_ready", "path", cfg.DB.Path, "users", users)

	services := service.NewService(repos, credential.NewStore(cfg.Bcrypt.Cost), newMailer(cfg, log), log)
	sessions := session.NewManager(session.Options{
		Secret:     cfg.Session.Secret,
		TTL:        cfg.Session.TTL,
		CookieName: cfg.Session.CookieName,
		Secure:     cfg.Session.Secure,
	})
	var csrf *session.CSRF
	if cfg.CSRF.Enabled {
		csrf = session.NewCSRF(cfg.Session.Secure)
	}
	handler := handlers.NewHandler(services, sessions, csrf, log)

	srv := &server.Server{}
	runHTTPServer(srv, cfg.Port, handler, log)

	waitForShutdown(srv, log)
}

func logLevel(cfg *config.Config) string {
	if cfg.Debug {
		return logger.DebugLevel
	}
	return cfg.LogLevel
}

func ginMode(cfg *config.Config) string {
	switch {
	case cfg.Testing:
		return gin.TestMode
	case cfg.Debug:
		return gin.DebugMode
	default:
		return gin.ReleaseMode
	}
}

func newMailer(cfg *config.Config, log *logger.Logger) mail.Sender {
	if !cfg.MailActive() {
		return mail.NewLogSender(log)
	}
	return mail.NewSMTPSender(mail.SMTPConfig{
		Host:     cfg.Mail.Host,
		Port:     cfg.Mail.Port,
		Username: cfg.Mail.Username,
		Password: cfg.Mail.Password,
		From:     cfg.Mail.From,
		Timeout:  cfg.Mail.Timeout,
	}, log)
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		log.Infow("http_server_starting", "port", port)
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}
