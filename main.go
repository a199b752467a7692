// File: voicedesk/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"voicedesk/config"
	"voicedesk/cron"
	"voicedesk/database"
	appointmentRepo "voicedesk/database/repository/appointment"
	userRepoPkg "voicedesk/database/repository/user"
	"voicedesk/handlers"
	"voicedesk/middleware"
	"voicedesk/routes"
	"voicedesk/services/booking"
	"voicedesk/services/dialog"
	"voicedesk/services/extract"
	"voicedesk/services/hours"
	ai "voicedesk/services/intelligence"
	"voicedesk/services/session"
	"voicedesk/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitSessionCache()
	utils.InitQueueCache()

	location, err := time.LoadLocation(config.AppConfig.LocalTimezone)
	if err != nil {
		logger.Sugar().Fatalf("main: invalid LOCAL_TIMEZONE %q: %v", config.AppConfig.LocalTimezone, err)
	}
	businessHours := hours.New(location,
		config.AppConfig.OpenHour,
		config.AppConfig.CloseHour,
		config.AppConfig.OpenWeekdays,
	)

	// Session store: Redis primary with transparent in-process fallback.
	sessionTTL := time.Duration(config.AppConfig.SessionTTLSeconds) * time.Second
	sessionStore := session.NewRedisStore(
		utils.GetSessionCacheClient(),
		sessionTTL,
		config.AppConfig.DefaultDurationMin,
		logger,
	)
	cron.StartFallbackSweeper(sessionStore.Fallback(), logger)

	layerTimeout := time.Duration(config.AppConfig.ExtractLayerTimeoutSec) * time.Second

	// LLM fallback layers run only when a Gemini key is configured.
	var llm ai.Client
	if config.AppConfig.GeminiAPIKey != "" {
		llm = ai.NewBoundedClient(
			ai.NewGeminiClient(config.AppConfig.GeminiAPIKey),
			layerTimeout,
			logger,
		)
	} else {
		logger.Warn("main: no Gemini API key configured, LLM fallback layers disabled")
	}

	timeParser := extract.NewTimeParser(location, nil)
	phonePipeline := extract.NewPhonePipeline(llm, config.AppConfig.DefaultRegion, layerTimeout, logger)
	namePipeline := extract.NewNamePipeline(llm, layerTimeout, logger)
	timePipeline := extract.NewTimePipeline(timeParser, llm, layerTimeout, logger)

	// repositories.
	userRepo := userRepoPkg.NewMongoUserRepo()
	apptRepo := appointmentRepo.NewMongoAppointmentRepo()

	// Reminder queue + worker.
	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
	defer asynqClient.Close()
	cron.InitReminderWorker(logger)

	finalizer := &booking.DefaultFinalizer{
		Users:        userRepo,
		Appointments: apptRepo,
		Calendar:     &booking.NoopCalendarSync{Logger: logger},
		Reminders: &booking.AsynqReminderScheduler{
			Client: asynqClient,
			Lead:   time.Hour,
			Logger: logger,
		},
		Logger: logger,
	}

	engine := &dialog.Engine{
		Store:       sessionStore,
		NameExt:     namePipeline,
		PhoneExt:    phonePipeline,
		TimeExt:     timePipeline,
		Hours:       businessHours,
		Finalizer:   finalizer,
		Logger:      logger,
		OpeningStep: 30 * time.Minute,
		Lookahead:   time.Duration(config.AppConfig.LookaheadDays) * 24 * time.Hour,
	}

	voiceHandler := handlers.NewVoiceHandler(engine, logger)
	adminHandler := handlers.NewAdminHandler(engine, sessionStore)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		TurnHandler:         voiceHandler.TurnHandler,
		GetSessionHandler:   adminHandler.GetSessionHandler,
		ResetSessionHandler: adminHandler.ResetSessionHandler,
	}

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	routes.RegisterRoutes(router, handlerBundle)

	utils.StartHealthMonitor(
		[]*redis.Client{utils.GetSessionCacheClient(), utils.GetQueueCacheClient()},
		database.MongoClient,
	)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
