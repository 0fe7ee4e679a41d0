package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"skillswap/config"
	"skillswap/cron"
	"skillswap/database"
	accountRepoPkg "skillswap/database/repository/account"
	availabilityRepoPkg "skillswap/database/repository/availability"
	bookingRepoPkg "skillswap/database/repository/booking"
	userRepoPkg "skillswap/database/repository/user"
	"skillswap/handlers"
	"skillswap/middleware"
	"skillswap/routes"
	availabilitySvc "skillswap/services/availability"
	bookingSvc "skillswap/services/booking"
	"skillswap/services/identity"
	"skillswap/services/ledger"
	"skillswap/services/notification"
	"skillswap/services/summary"
	"skillswap/services/video"
	"skillswap/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	utils.FirebaseInit()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(cors.Default())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	accountRepo := accountRepoPkg.NewMongoAccountRepo()
	userRepo := userRepoPkg.NewMongoUserRepo()
	availabilityRepo := availabilityRepoPkg.NewMongoAvailabilityRepo()
	bookingRepo := bookingRepoPkg.NewMongoBookingRepo()

	for name, ensure := range map[string]func() error{
		"account":      accountRepo.EnsureIndexes,
		"user":         userRepo.EnsureIndexes,
		"availability": availabilityRepo.EnsureIndexes,
		"booking":      bookingRepo.EnsureIndexes,
	} {
		if err := ensure(); err != nil {
			logger.Sugar().Fatalf("main: failed to ensure %s indexes: %v", name, err)
		}
	}

	// services.
	ledgerService := &ledger.DefaultLedgerService{
		Accounts:     accountRepo,
		WelcomeBonus: config.AppConfig.WelcomeBonusTokens,
		Logger:       logger,
	}

	identityProvider := &identity.DefaultProvider{
		Users:  userRepo,
		Ledger: ledgerService,
	}

	availabilityService := &availabilitySvc.DefaultAvailabilityService{
		Repo:   availabilityRepo,
		Users:  userRepo,
		Logger: logger,
	}

	dispatcher := &notification.Dispatcher{Logger: logger}
	if utils.FCMClient != nil {
		notifier, err := notification.NewFCMNotifier(userRepo, utils.FCMClient)
		if err != nil {
			logger.Sugar().Fatalf("main: failed to initialize notifier: %v", err)
		}
		dispatcher.Notifier = notifier
	}

	videoProvider := &video.JWTCredentialProvider{
		Secret: []byte(config.AppConfig.JWTSecret),
	}

	bookingService := &bookingSvc.DefaultBookingService{
		Bookings:     bookingRepo,
		Users:        userRepo,
		Identity:     identityProvider,
		Ledger:       ledgerService,
		Availability: availabilityService,
		Video:        videoProvider,
		Dispatcher:   dispatcher,
		Logger:       logger,
	}

	var summaryProvider summary.Provider
	if config.AppConfig.GeminiAPIKey != "" {
		provider, err := summary.NewGeminiProvider(config.AppConfig.GeminiAPIKey)
		if err != nil {
			logger.Sugar().Fatalf("main: failed to initialize summary provider: %v", err)
		}
		summaryProvider = provider
	}

	summaryService := &summary.DefaultSummaryService{
		Bookings:   bookingRepo,
		Provider:   summaryProvider,
		Queue:      cron.NewQueueClient(),
		Dispatcher: dispatcher,
		Logger:     logger,
	}
	cron.InitSummaryWorker(summaryService)

	// handlers.
	handlers.SetLedgerService(ledgerService)
	handlers.SetAvailabilityService(availabilityService)
	handlers.SetBookingService(bookingService)
	handlers.SetSummaryService(summaryService)

	routes.RegisterRoutes(router)

	srv := &http.Server{
		Addr:    ":" + config.AppConfig.AppPort,
		Handler: router,
	}

	go func() {
		logger.Sugar().Infof("main: listening on port %s", config.AppConfig.AppPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("main: shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: forced shutdown: %v", err)
	}
	logger.Info("main: server exited")
}
