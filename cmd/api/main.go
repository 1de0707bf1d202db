package main

import (
	"context"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	authhttp "github.com/fundedhub/backend/internal/auth/http"
	authservice "github.com/fundedhub/backend/internal/auth/service"
	"github.com/fundedhub/backend/internal/auth/session"
	"github.com/fundedhub/backend/internal/auth/token"
	bothttp "github.com/fundedhub/backend/internal/bot/http"
	"github.com/fundedhub/backend/internal/bot/llm"
	botrepo "github.com/fundedhub/backend/internal/bot/repository"
	botservice "github.com/fundedhub/backend/internal/bot/service"
	"github.com/fundedhub/backend/internal/common/clock"
	"github.com/fundedhub/backend/internal/common/config"
	commoncrypto "github.com/fundedhub/backend/internal/common/crypto"
	"github.com/fundedhub/backend/internal/common/db"
	commonhttp "github.com/fundedhub/backend/internal/common/http"
	"github.com/fundedhub/backend/internal/common/logger"
	"github.com/fundedhub/backend/internal/common/server"
	"github.com/fundedhub/backend/internal/notify"
	orderhttp "github.com/fundedhub/backend/internal/order/http"
	orderrepo "github.com/fundedhub/backend/internal/order/repository"
	orderservice "github.com/fundedhub/backend/internal/order/service"
	tradinghttp "github.com/fundedhub/backend/internal/trading/http"
	tradingservice "github.com/fundedhub/backend/internal/trading/service"
	"github.com/fundedhub/backend/internal/trading/terminal"
	userrepo "github.com/fundedhub/backend/internal/user/repository"
)

const serviceName = "api"

func main() {
	log, err := logger.New(getEnv("LOG_DIR", "logs"), serviceName, getEnv("LOG_LEVEL", "INFO"))
	if err != nil {
		panic(err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	pool := db.NewPool(log, cfg.DatabaseURL)

	if err := db.RunMigrations(context.Background(), log, cfg.DatabaseURL); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	clk := clock.NewRealClock()
	idGen := commoncrypto.NewUUIDGenerator()
	hasher := commoncrypto.NewBcryptHasher()

	users := userrepo.NewPgRepository(pool)
	orders := orderrepo.NewPgRepository(pool)
	bots := botrepo.NewPgRepository(pool)

	codec := token.NewCodec(cfg.JWTSecret, cfg.AccessTokenTTL, idGen, clk)
	resolver := session.NewResolver(codec, users, log)

	authSvc := authservice.NewAuthService(users, hasher, codec, idGen, clk, cfg.LoginIdentifier, log)
	orderSvc := orderservice.NewOrderService(orders, notify.NewSMTPNotifier(cfg.SMTP, log), clk, log)
	botSvc := botservice.NewBotService(bots, llm.NewGoogleClient(cfg.LLM), idGen, clk, log)
	tradingSvc := tradingservice.NewTradingService(terminal.NewGatewayClient(cfg.Terminal), clk, log)

	orderHandler := orderhttp.NewHandler(orderSvc, resolver, cfg, log)
	botHandler := bothttp.NewHandler(botSvc, resolver, cfg, log)

	mux := http.NewServeMux()
	mux.Handle("/api/auth/", authhttp.NewHandler(authSvc, resolver, cfg, log))
	mux.Handle("/api/orders", orderHandler)
	mux.Handle("/api/orders/", orderHandler)
	mux.Handle("/api/bots", botHandler)
	mux.Handle("/api/bots/", botHandler)
	mux.Handle("/api/meta/", tradinghttp.NewHandler(tradingSvc, resolver, log))
	mux.HandleFunc("/health", commonhttp.HealthHandler(log))
	mux.Handle("/metrics", promhttp.Handler())

	handler := commonhttp.BuildBaseHandler(serviceName, log, mux)

	srv := server.NewServer(server.DefaultServerConfig(cfg.HTTPPort), handler)

	server.StartWithGracefulShutdownAndHooks(srv, log, serviceName, []server.ShutdownHook{
		func(ctx context.Context) error {
			pool.Close()
			return nil
		},
	})
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
