package server

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/coverbridge/intake-backend/internal/handlers"
	"github.com/coverbridge/intake-backend/internal/logger"
	"github.com/coverbridge/intake-backend/internal/middleware"
	"github.com/coverbridge/intake-backend/internal/utils"
)

type RouterConfig struct {
	Log                *logger.Logger
	HealthcheckHandler *handlers.HealthcheckHandler
	CompanyHandler     *handlers.CompanyHandler
	FormHandler        *handlers.FormHandler
	VoiceHandler       *handlers.VoiceHandler
	RenderHandler      *handlers.RenderHandler
	SpeechHandler      *handlers.SpeechHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware("intake-backend"))
	router.Use(middleware.RequestLogger(cfg.Log))

	origins := utils.GetEnv("CORS_ALLOW_ORIGINS", "http://localhost:3000,http://localhost:5174", cfg.Log)
	router.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Split(origins, ","),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", cfg.HealthcheckHandler.Healthcheck)

	api := router.Group("/api")
	{
		api.GET("/companies", cfg.CompanyHandler.List)
		api.POST("/companies", cfg.CompanyHandler.Create)
		api.PUT("/companies/:companyID/memory", cfg.CompanyHandler.PutMemory)
		api.POST("/companies/:companyID/transcripts", cfg.CompanyHandler.AppendTranscript)
		api.POST("/companies/:companyID/audio", cfg.SpeechHandler.IngestAudio)

		api.POST("/forms/prefill", cfg.FormHandler.Prefill)
		api.GET("/forms/:submissionID", cfg.FormHandler.Get)
		api.PUT("/forms/:submissionID/fields/:fieldKey", cfg.FormHandler.UpdateField)
		api.POST("/forms/:submissionID/draft", cfg.FormHandler.SaveDraft)
		api.POST("/forms/:submissionID/submit", cfg.FormHandler.Submit)
		api.POST("/forms/:submissionID/voice", cfg.VoiceHandler.Command)
		api.POST("/forms/:submissionID/render", cfg.RenderHandler.Render)
	}

	return router
}
