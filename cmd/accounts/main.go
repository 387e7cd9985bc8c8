package main

import (
	"github.com/joho/godotenv"

	"github.com/kdrivas1989/tunnel-sessions/internal/accounts/auth"
	"github.com/kdrivas1989/tunnel-sessions/internal/accounts/handler"
	"github.com/kdrivas1989/tunnel-sessions/internal/accounts/repository"
	"github.com/kdrivas1989/tunnel-sessions/internal/accounts/service"
	"github.com/kdrivas1989/tunnel-sessions/pkg/app"
	"github.com/kdrivas1989/tunnel-sessions/pkg/config"
	"github.com/kdrivas1989/tunnel-sessions/pkg/identity"
)

const ServiceName = "accounts"

func main() {
	_ = godotenv.Load()

	cfg := config.Load(ServiceName)
	cfg.Log.Info("Starting Accounts service")

	if cfg.JWTSecret == "" {
		cfg.Log.Fatal("JWT_SECRET must be set for the accounts service")
	}
	cfg.SetMongo()

	tokens := auth.NewTokens(cfg.JWTSecret, cfg.JWTTokenTTL)
	accountRepo := repository.NewMongoAccountRepository(cfg)
	accountService := service.NewAccountService(accountRepo, tokens, identity.NewGenerator(), cfg.Log)

	cfg.Log.Info("Account service initialized", "database", cfg.MongoDatabaseName)

	serverApp := app.NewApplication()
	serverApp.SetApp(cfg, handler.NewAccountHandler(accountService, tokens, cfg.Log))
	defer cfg.GracefulShutdown()
	serverApp.Run()
}
