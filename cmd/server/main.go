package main

import (
	"log"

	"github.com/chinonsochikelue/dreamalign-lite-sub000/internal/config"
	"github.com/chinonsochikelue/dreamalign-lite-sub000/internal/database"
	"github.com/chinonsochikelue/dreamalign-lite-sub000/internal/fallback"
	"github.com/chinonsochikelue/dreamalign-lite-sub000/internal/handlers"
	"github.com/chinonsochikelue/dreamalign-lite-sub000/internal/middleware"
	"github.com/chinonsochikelue/dreamalign-lite-sub000/internal/oracle"
	"github.com/chinonsochikelue/dreamalign-lite-sub000/internal/provider"
	"github.com/chinonsochikelue/dreamalign-lite-sub000/internal/services"
	"github.com/chinonsochikelue/dreamalign-lite-sub000/internal/ws"

	_ "github.com/chinonsochikelue/dreamalign-lite-sub000/docs"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           DreamAlign Interview Engine API
// @version         1.0
// @description     API for AI-assisted mock interview sessions with deterministic fallback scoring
// @host            localhost:8080
// @BasePath        /

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println(".env not found, using environment")
	}

	cfg := config.Load()

	db := database.Connect(cfg)
	database.AutoMigrate(db)

	hub := ws.NewHub()

	bank, err := fallback.Load()
	if err != nil {
		log.Fatalf("failed to load question bank: %v", err)
	}

	registry := provider.NewRegistry(provider.Config{
		GeminiAPIKey:    cfg.GeminiAPIKey,
		GeminiModel:     cfg.GeminiModel,
		OpenAIAPIKey:    cfg.OpenAIAPIKey,
		OpenAIModel:     cfg.OpenAIModel,
		AnthropicAPIKey: cfg.AnthropicAPIKey,
		AnthropicModel:  cfg.AnthropicModel,
	})

	oracleClient := oracle.NewClient(registry, bank)
	store := services.NewSessionStore(db)
	interviewService := services.NewInterviewService(oracleClient, store, hub)
	defer interviewService.Close()

	interviewHandler := handlers.NewInterviewHandler(interviewService)
	providerHandler := handlers.NewProviderHandler(registry)
	wsHandler := handlers.NewWSHandler(hub)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-API-Key"},
		AllowCredentials: true,
	}))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/ws/interview/:id", wsHandler.HandleWebSocket)

	api := r.Group("/api/v1")
	if cfg.APIKey != "" {
		api.Use(middleware.APIKeyAuth(cfg.APIKey))
	}
	{
		providers := api.Group("/providers")
		{
			providers.GET("", providerHandler.ListProviders)
			providers.GET("/resolve", providerHandler.GetDefault)
		}

		interviews := api.Group("/interviews")
		{
			interviews.GET("", interviewHandler.ListSessions)
			interviews.POST("", interviewHandler.CreateSession)
			interviews.GET("/:id", interviewHandler.GetSession)
			interviews.POST("/:id/answer", interviewHandler.SubmitAnswer)
			interviews.POST("/:id/next", interviewHandler.Advance)
			interviews.POST("/:id/skip", interviewHandler.Skip)
			interviews.POST("/:id/pause", interviewHandler.Pause)
			interviews.POST("/:id/resume", interviewHandler.Resume)
			interviews.POST("/:id/jump", interviewHandler.JumpTo)
			interviews.POST("/:id/restore", interviewHandler.ResumeSession)
		}
	}

	log.Printf("server starting on :%s", cfg.ServerPort)
	if err := r.Run(":" + cfg.ServerPort); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
