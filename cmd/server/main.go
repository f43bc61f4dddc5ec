package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"taskkeep/callback"
	"taskkeep/configs"
	"taskkeep/delivery/rest"
	"taskkeep/delivery/websocket"
	"taskkeep/infrastructure/circuitbreaker"
	"taskkeep/infrastructure/kv"
	"taskkeep/infrastructure/logger"
	"taskkeep/infrastructure/notify"
	"taskkeep/repository/kvstore"
	"taskkeep/server"
	tasksvc "taskkeep/task"
)

func main() {
	if err := logger.InitFromEnv(); err != nil {
		panic(err)
	}
	defer logger.Sync()

	log := logger.Named("main")

	cfg, err := configs.LoadConfig("")
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	// Storage backend
	store, closeStore, err := openStorage(cfg.Storage)
	if err != nil {
		log.Fatal("Failed to open storage", zap.Error(err))
	}
	defer closeStore()

	taskStore := kvstore.New(store, kvstore.Keys{
		Active:    cfg.Storage.ActiveKey,
		Completed: cfg.Storage.CompletedKey,
	}, logger.Named("store"))

	// Notification capability
	notifier := notify.NewLocal(notify.LocalConfig{
		PollInterval:   cfg.Notify.PollInterval,
		DenyPermission: cfg.Notify.DenyPermission,
	}, logger.Named("notify"))

	// Core services
	reminders := tasksvc.NewReminderScheduler(notifier, logger.Named("reminder"))
	svc := tasksvc.NewService(taskStore, reminders, notifier, logger.Named("lifecycle"))

	ctx := context.Background()
	if err := svc.Load(ctx); err != nil {
		log.Fatal("Failed to load task collections", zap.Error(err))
	}

	// Push fired reminders to connected shells
	hub := websocket.NewHub(logger.Named("websocket"))
	go hub.Run()

	svc.OnReminderDelivered(func(taskID string) {
		hub.Broadcast("reminder.delivered", map[string]interface{}{
			"taskId": taskID,
		})
	})

	// Optional outbound webhook for fired reminders
	if cfg.Webhook.URL != "" {
		breaker := circuitbreaker.New(5, 60*time.Second)
		webhook := callback.NewService(cfg.Webhook.URL, cfg.Webhook.Secret, cfg.Webhook.Timeout, breaker, logger.Named("webhook"))
		notifier.OnDelivered(func(d notify.Delivery) {
			if err := webhook.Deliver(context.Background(), d); err != nil {
				log.Warn("Reminder webhook delivery failed", zap.Error(err))
			}
		})
	}

	notifier.Start()

	h := rest.NewHandler(svc, logger.Named("rest"))
	srv := server.New(cfg.Server, h, hub, logger.Named("server"))

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed", zap.Error(err))
		}
	}()

	log.Info("Server started",
		zap.String("address", cfg.Server.Address()),
		zap.String("storage_backend", cfg.Storage.Backend),
	)

	<-sigCtx.Done()
	log.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown failed", zap.Error(err))
	}

	notifier.Stop()
	hub.Stop()

	log.Info("Server stopped")
}

// openStorage builds the configured key-value backend and returns a
// cleanup function.
func openStorage(cfg configs.StorageConfig) (kv.Store, func(), error) {
	switch cfg.Backend {
	case "memory":
		return kv.NewMemory(), func() {}, nil
	case "sql":
		store, err := kv.OpenSQL(cfg.Driver, cfg.DSN)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { store.Close() }, nil
	default:
		store, err := kv.NewFile(cfg.Dir)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil
	}
}
