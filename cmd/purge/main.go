// Command purge runs one past-session sweep against the configured store
// and exits. Intended for cron.
package main

import (
	"context"

	"github.com/joho/godotenv"

	"github.com/kdrivas1989/tunnel-sessions/internal/sessions/engine"
	"github.com/kdrivas1989/tunnel-sessions/internal/sessions/store"
	"github.com/kdrivas1989/tunnel-sessions/internal/sessions/validator"
	"github.com/kdrivas1989/tunnel-sessions/pkg/clock"
	"github.com/kdrivas1989/tunnel-sessions/pkg/config"
	"github.com/kdrivas1989/tunnel-sessions/pkg/identity"
)

const ServiceName = "purge"

func main() {
	_ = godotenv.Load()

	cfg := config.Load(ServiceName)
	defer cfg.GracefulShutdown()

	var sessionStore store.Store
	switch cfg.StoreBackend {
	case "mongo":
		cfg.SetMongo()
		sessionStore = store.NewMongoStore(cfg)
	case "redis":
		cfg.SetRedis()
		sessionStore = store.NewRedisStore(cfg.Client.Redis, cfg.Log)
	default:
		cfg.Log.Fatal("Purge requires a persistent store backend", "store_backend", cfg.StoreBackend)
	}

	eng := engine.New(
		sessionStore,
		identity.NewGenerator(),
		clock.System(),
		validator.NewSessionValidator(cfg.SessionTypeRequired, cfg.Log),
		engine.Config{
			CancellationWindow: cfg.CancellationWindow,
			NotificationWindow: cfg.NotificationWindow,
			Location:           cfg.Location,
		},
		cfg.Log,
	)

	purged, err := eng.PurgePastSessions(context.Background())
	if err != nil {
		cfg.Log.Fatal("Purge sweep failed", "error", err)
	}
	cfg.Log.Info("Purge sweep finished", "purged", purged)
}
