package main

import (
	"github.com/joho/godotenv"

	"github.com/kdrivas1989/tunnel-sessions/internal/accounts/auth"
	accountshandler "github.com/kdrivas1989/tunnel-sessions/internal/accounts/handler"
	accountsrepository "github.com/kdrivas1989/tunnel-sessions/internal/accounts/repository"
	accountsservice "github.com/kdrivas1989/tunnel-sessions/internal/accounts/service"
	"github.com/kdrivas1989/tunnel-sessions/internal/notify"
	"github.com/kdrivas1989/tunnel-sessions/internal/sessions/engine"
	"github.com/kdrivas1989/tunnel-sessions/internal/sessions/handler"
	"github.com/kdrivas1989/tunnel-sessions/internal/sessions/store"
	"github.com/kdrivas1989/tunnel-sessions/internal/sessions/validator"
	"github.com/kdrivas1989/tunnel-sessions/pkg/app"
	"github.com/kdrivas1989/tunnel-sessions/pkg/clock"
	"github.com/kdrivas1989/tunnel-sessions/pkg/config"
	"github.com/kdrivas1989/tunnel-sessions/pkg/identity"
	"github.com/kdrivas1989/tunnel-sessions/pkg/kafka"
)

const ServiceName = "sessions"

func main() {
	_ = godotenv.Load()

	cfg := config.Load(ServiceName)
	cfg.Log.Info("Starting Sessions service")

	sessionStore := initStore(cfg)
	eng := engine.New(
		sessionStore,
		identity.NewGenerator(),
		clock.System(),
		validator.NewSessionValidator(cfg.SessionTypeRequired, cfg.Log),
		engine.Config{
			AllowGuestBookings:  cfg.AllowGuestBookings,
			AllowNotes:          cfg.AllowNotes,
			SessionTypeRequired: cfg.SessionTypeRequired,
			CancellationWindow:  cfg.CancellationWindow,
			NotificationWindow:  cfg.NotificationWindow,
			Location:            cfg.Location,
		},
		cfg.Log,
	)

	guard := initGuard(cfg)
	notifier, closeNotifier := initNotifier(cfg)
	defer closeNotifier()
	sessionHandler := handler.NewSessionHandler(eng, notifier, guard, cfg.Log)

	serverApp := app.NewApplication()
	serverApp.SetApp(cfg, sessionHandler)
	defer cfg.GracefulShutdown()
	serverApp.Run()
}

func initStore(cfg *config.Config) store.Store {
	switch cfg.StoreBackend {
	case "mongo":
		cfg.SetMongo()
		cfg.Log.Info("Session store initialized", "backend", "mongo", "database", cfg.MongoDatabaseName)
		return store.NewCachedStore(store.NewMongoStore(cfg), cfg.Log)
	case "redis":
		cfg.SetRedis()
		cfg.Log.Info("Session store initialized", "backend", "redis", "addr", cfg.RedisAddr)
		return store.NewCachedStore(store.NewRedisStore(cfg.Client.Redis, cfg.Log), cfg.Log)
	default:
		cfg.Log.Info("Session store initialized", "backend", "memory")
		return store.NewMemoryStore()
	}
}

// initGuard wires the host-access guard for session-management routes.
// It needs mongo for the accounts collections and a JWT secret; without
// either, management routes stay open and a warning is logged.
func initGuard(cfg *config.Config) handler.Guard {
	if cfg.JWTSecret == "" || cfg.Client.Mongo == nil {
		cfg.Log.Warn("Session management routes are unguarded",
			"jwt_secret_set", cfg.JWTSecret != "",
			"mongo_connected", cfg.Client.Mongo != nil,
		)
		return nil
	}

	tokens := auth.NewTokens(cfg.JWTSecret, cfg.JWTTokenTTL)
	accountRepo := accountsrepository.NewMongoAccountRepository(cfg)
	accountService := accountsservice.NewAccountService(accountRepo, tokens, identity.NewGenerator(), cfg.Log)
	return handler.Guard(accountshandler.ManageGuard(tokens, accountService, cfg.Log))
}

// initNotifier builds the cancellation-alert fan-out. The returned
// close func flushes the Kafka producer's buffered events on shutdown.
func initNotifier(cfg *config.Config) (notify.Notifier, func()) {
	notifiers := []notify.Notifier{notify.NewLogNotifier(cfg.Log)}
	closeNotifier := func() {}

	if cfg.MailerSendAPIKey != "" && cfg.MailerFromEmail != "" && cfg.NotifyEmail != "" {
		mailer, err := notify.NewMailNotifier(cfg.MailerSendAPIKey, cfg.MailerFromName, cfg.MailerFromEmail, cfg.NotifyEmail)
		if err != nil {
			cfg.Log.Fatal("Failed to initialize mail notifier", "error", err)
		}
		notifiers = append(notifiers, mailer)
		cfg.Log.Info("Mail notifier enabled", "recipient", cfg.NotifyEmail)
	}

	if len(cfg.KafkaBrokers) > 0 {
		producer, err := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaCancellationTopic)
		if err != nil {
			cfg.Log.Fatal("Failed to initialize Kafka producer", "error", err)
		}
		notifiers = append(notifiers, notify.NewKafkaNotifier(producer, ServiceName))
		closeNotifier = func() {
			if err := producer.Close(); err != nil {
				cfg.Log.Error("Failed to close Kafka producer", "error", err)
			}
		}
		cfg.Log.Info("Kafka notifier enabled", "topic", cfg.KafkaCancellationTopic)
	}

	return notify.NewFanout(notifiers...), closeNotifier
}
