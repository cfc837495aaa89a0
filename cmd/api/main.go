package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"buildnchill-server/internal/client"
	"buildnchill-server/internal/config"
	"buildnchill-server/internal/events"
	"buildnchill-server/internal/handler"
	"buildnchill-server/internal/logging"
	"buildnchill-server/internal/repository"
	"buildnchill-server/internal/server"
	"buildnchill-server/internal/service"
	"buildnchill-server/internal/storage"
)

func main() {
	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		fmt.Printf("Failed to parse config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Log, cfg.Environment.Name)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	db, err := client.InitDB(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("database init", zap.Error(err))
	}

	uploads, err := storage.New(cfg.Uploads.Dir, cfg.BaseURL, cfg.Uploads.MaxSizeBytes)
	if err != nil {
		logger.Fatal("upload storage init", zap.Error(err))
	}

	bus := events.NewBus()
	defer bus.Close()

	orderWebhook := client.NewDiscordClient(cfg.Discord.OrderWebhookURL)
	rechargeWebhook := client.NewDiscordClient(cfg.Discord.RechargeWebhookURL)
	mcClient := client.NewMinecraftStatusClient(cfg.Minecraft.StatusAPIURL)

	orderRepo := repository.NewOrderRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	productRepo := repository.NewProductRepository(db)
	walletRepo := repository.NewWalletRepository(db)
	rechargeRepo := repository.NewRechargeRepository(db)
	contactRepo := repository.NewContactRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	newsRepo := repository.NewNewsRepository(db)
	carouselRepo := repository.NewCarouselRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	commandRepo := repository.NewCommandRepository(db)

	authService := service.NewAuthService(profileRepo, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, cfg.Auth.EmailDomain)
	walletService := service.NewWalletService(db, walletRepo, bus, logger)
	rechargeService := service.NewRechargeService(db, rechargeRepo, walletRepo, profileRepo, rechargeWebhook, bus, logger)
	orderService := service.NewOrderService(orderRepo, productRepo, commandRepo, walletService, orderWebhook, bus, logger, cfg.Discord.MentionID)
	dashboardService := service.NewDashboardService(orderRepo, contactRepo)
	catalogService := service.NewCatalogService(categoryRepo, productRepo, bus)
	contentService := service.NewContentService(newsRepo, carouselRepo, bus)
	contactService := service.NewContactService(contactRepo, bus)
	statusService := service.NewStatusService(settingsRepo, mcClient, bus, logger)

	srv := server.NewServer(
		authService,
		handler.NewAuthHandler(authService, walletService),
		handler.NewShopHandler(catalogService, orderService, dashboardService),
		handler.NewOrdersHandler(orderService, dashboardService),
		handler.NewWalletHandler(walletService, rechargeService),
		handler.NewCatalogHandler(catalogService),
		handler.NewContentHandler(contentService, contactService, statusService, uploads),
		handler.NewEventsHandler(bus),
		uploads,
	)

	pollCtx, stopPolling := context.WithCancel(context.Background())
	defer stopPolling()
	go statusService.StartPolling(pollCtx, cfg.Minecraft.PollInterval)

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port
	logger.Info("starting http server", zap.String("address", serverAddr))
	go func() {
		if err := srv.Start(serverAddr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("http server", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	<-sigChan
	logger.Info("signal received, shutting down")

	stopPolling()
	if err := srv.Shutdown(); err != nil {
		logger.Error("http server shutdown", zap.Error(err))
	}
}
