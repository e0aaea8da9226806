package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Spok95/smartspend/internal/api"
	"github.com/Spok95/smartspend/internal/bot"
	"github.com/Spok95/smartspend/internal/config"
	"github.com/Spok95/smartspend/internal/domain/brands"
	"github.com/Spok95/smartspend/internal/domain/catalog"
	"github.com/Spok95/smartspend/internal/domain/products"
	"github.com/Spok95/smartspend/internal/domain/purchases"
	"github.com/Spok95/smartspend/internal/domain/users"
	"github.com/Spok95/smartspend/internal/infra/db"
	httpx "github.com/Spok95/smartspend/internal/infra/http"
	"github.com/Spok95/smartspend/internal/infra/logger"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func main() {
	defaultPath := os.Getenv("APP_CONFIG")
	if defaultPath == "" {
		defaultPath = "config/example.yaml"
	}
	cfgPath := flag.String("config", defaultPath, "path to the YAML config")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg.App.Env, cfg.App.Name)

	if err := db.Migrate(cfg.Postgres.DSN, log); err != nil {
		log.Error("migrations failed", "err", err)
		return
	}
	log.Info("migrations applied")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg.Postgres.DSN)
	if err != nil {
		log.Error("db connect failed", "err", err)
		return
	}
	defer pool.Close()
	log.Info("db connected")

	usersRepo := users.NewRepo(pool)
	catalogRepo := catalog.NewRepo(pool)
	brandsRepo := brands.NewRepo(pool)
	productsRepo := products.NewRepo(pool)

	refs := purchases.References{
		User:    usersRepo.Exists,
		Shop:    catalogRepo.ShopExists,
		Product: productsRepo.Exists,
	}
	svc := purchases.NewService(log, refs, purchases.NewRepo(pool), cfg.Location())

	if cfg.Telegram.Token != "" {
		tg, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
		if err != nil {
			log.Error("telegram init failed", "err", err)
			return
		}
		log.Info("telegram authorized", "username", tg.Self.UserName)
		svc.WithNotifier(bot.NewNotifier(tg, cfg.Telegram.ChatID))

		b := bot.New(tg, log, svc, cfg.Telegram.ChatID)
		go func() {
			if err := b.Run(ctx, 30); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("bot stopped", "err", err)
			}
		}()
	}

	h := api.NewHandler(log, svc, usersRepo, catalogRepo, brandsRepo, productsRepo)
	srv := httpx.New(httpx.Options{
		Addr:          cfg.HTTP.Addr,
		AppName:       cfg.App.Name,
		Version:       cfg.App.Version,
		CORSOrigins:   cfg.HTTP.CORSOrigins,
		ExposeMetrics: cfg.Metrics.Enabled,
	}, log, h.Register)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server error", "err", err)
			stop()
		}
	}()
	log.Info("HTTP server started", "addr", cfg.HTTP.Addr)

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("shutdown", "err", err)
	}
	log.Info("graceful shutdown complete")
}
