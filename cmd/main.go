package main

import (
	"context"
	"fmt"
	"os"
	"time"

	gcpclients "github.com/coverbridge/intake-backend/internal/clients/gcp"
	redisclient "github.com/coverbridge/intake-backend/internal/clients/redis"
	"github.com/coverbridge/intake-backend/internal/db"
	"github.com/coverbridge/intake-backend/internal/extraction"
	"github.com/coverbridge/intake-backend/internal/handlers"
	"github.com/coverbridge/intake-backend/internal/logger"
	"github.com/coverbridge/intake-backend/internal/observability"
	"github.com/coverbridge/intake-backend/internal/repos"
	"github.com/coverbridge/intake-backend/internal/schema"
	"github.com/coverbridge/intake-backend/internal/server"
	"github.com/coverbridge/intake-backend/internal/services"
	"github.com/coverbridge/intake-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Tracing
	shutdownOTel := observability.InitOTel(context.Background(), log, observability.OtelConfig{
		ServiceName: "intake-backend",
		Environment: utils.GetEnv("APP_ENV", "development", log),
		Version:     utils.GetEnv("APP_VERSION", "dev", log),
	})
	if shutdownOTel != nil {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = shutdownOTel(ctx)
		}()
	}

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up Repos from main...")
	companyRepo := repos.NewCompanyRepo(thePG, log)
	companyMemoryRepo := repos.NewCompanyMemoryRepo(thePG, log)
	formSubmissionRepo := repos.NewFormSubmissionRepo(thePG, log)
	aiCallLogRepo := repos.NewAICallLogRepo(thePG, log)

	// Services
	log.Info("Setting up Services from main...")
	openaiClient, err := services.NewOpenAIClient(log)
	if err != nil {
		log.Warn("Could not init OpenAIClient; model fallback disabled", "error", err)
		openaiClient = nil
	}
	modelName := ""
	if openaiClient != nil {
		modelName = openaiClient.Model()
	}

	draftCache, err := redisclient.NewDraftCache(log)
	if err != nil {
		log.Warn("Could not init DraftCache; autosave falls back to Postgres", "error", err)
		draftCache = nil
	}

	speechClient, err := gcpclients.NewSpeech(log)
	if err != nil {
		log.Warn("Could not init Speech client; audio ingest disabled", "error", err)
		speechClient = nil
	}

	pdfFillClient, err := services.NewPDFFillClient(log)
	if err != nil {
		log.Warn("Could not init PDFFillClient; rendering disabled", "error", err)
		pdfFillClient = nil
	}

	registry := schema.ACORD125
	llmExtractor := extraction.NewLLMExtractor(log, openaiClient)
	pipeline := extraction.NewPipeline(log, registry, llmExtractor)

	companyService := services.NewCompanyService(thePG, log, companyRepo)
	memoryService := services.NewMemoryService(thePG, log, companyMemoryRepo)
	formService := services.NewFormService(thePG, log, pipeline, memoryService, formSubmissionRepo, aiCallLogRepo, draftCache, modelName)
	voiceService := services.NewVoiceCommandService(log, openaiClient, formService, registry)
	speechService := services.NewSpeechIngestService(log, speechClient, memoryService)
	renderService := services.NewRenderService(thePG, log, formService, pdfFillClient, formSubmissionRepo)

	// Handlers
	log.Info("Setting up Handlers from main...")
	router := server.NewRouter(server.RouterConfig{
		Log:                log,
		HealthcheckHandler: handlers.NewHealthcheckHandler(),
		CompanyHandler:     handlers.NewCompanyHandler(log, companyService, memoryService),
		FormHandler:        handlers.NewFormHandler(log, formService),
		VoiceHandler:       handlers.NewVoiceHandler(log, voiceService),
		RenderHandler:      handlers.NewRenderHandler(log, renderService),
		SpeechHandler:      handlers.NewSpeechHandler(log, speechService),
	})

	port := utils.GetEnv("PORT", "8080", log)
	log.Info("Starting server", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Error("Server exited", "error", err)
		os.Exit(1)
	}
}
