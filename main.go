package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"salonbook-backend/auth"
	"salonbook-backend/config"
	"salonbook-backend/models"
	"salonbook-backend/routes"
	"salonbook-backend/services"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	log := config.NewLogger(cfg)
	defer log.Sync()

	db, err := config.ConnectDB(cfg, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := models.AutoMigrate(db); err != nil {
		log.Fatal("failed to migrate database", zap.Error(err))
	}

	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL, cfg.ImpersonationTTL)

	if cfg.SMSEnabled() {
		sender := services.NewTwilioSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber)
		reminders := services.NewReminderService(db, log, sender)
		scheduler, err := reminders.StartScheduler(cfg.ReminderCron)
		if err != nil {
			log.Fatal("failed to start reminder scheduler", zap.Error(err))
		}
		defer scheduler.Stop()
	} else {
		log.Warn("twilio credentials missing, reminders disabled")
	}

	r := routes.SetupRouter(cfg, db, log, tokens)
	printRoutes(log, r)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
	log.Info("server stopped")
}

func printRoutes(log *zap.Logger, r *gin.Engine) {
	for _, route := range r.Routes() {
		log.Debug("route", zap.String("method", route.Method), zap.String("path", route.Path))
	}
}
