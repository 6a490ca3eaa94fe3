// @title PrepMate Interview API
// @version 1.0
// @description AI-assisted mock interview service: question generation, answer feedback and session summaries.
// @host localhost:8000
// @BasePath /
// @schemes http https
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"prepmate/internal/adapter"
	"prepmate/internal/adapter/evaluator"
	"prepmate/internal/adapter/questiongen"
	"prepmate/internal/cache"
	"prepmate/internal/config"
	"prepmate/internal/domain"
	"prepmate/internal/handler"
	"prepmate/internal/logger"
	"prepmate/internal/middleware"
	"prepmate/internal/service"

	_ "prepmate/cmd/api/docs"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"
)

// requestLogger logs HTTP requests with method, path, status and timing
func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		path := c.Path()
		method := c.Method()

		err := c.Next()

		duration := time.Since(start)
		status := c.Response().StatusCode()

		logger.Get().Info("HTTP Request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("duration", duration),
			zap.String("ip", c.IP()),
		)

		return err
	}
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	// Any OpenAI-compatible endpoint works here; Groq is the default
	// target for the configured llama model.
	llmOpts := []openai.Option{
		openai.WithToken(cfg.LLM.APIKey),
		openai.WithModel(cfg.LLM.Model),
	}
	if cfg.LLM.BaseURL != "" {
		llmOpts = append(llmOpts, openai.WithBaseURL(cfg.LLM.BaseURL))
	}
	llm, err := openai.New(llmOpts...)
	if err != nil {
		appLogger.Fatal("Failed to create LLM client", zap.Error(err))
	}

	generator := questiongen.NewLLMQuestionGenerator(llm, cfg.LLM.Temperature)
	feedbackEvaluator := evaluator.NewLLMFeedbackEvaluator(llm, cfg.LLM.Temperature)

	// Redis is optional; without it question batches are generated fresh
	// for every session.
	var cacheAdapter domain.Cache
	if cfg.Redis.Enabled {
		redisClient, err := cache.NewRedisClient(cfg.Redis)
		if err != nil {
			appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		appLogger.Info("Successfully connected to Redis")
		cacheAdapter = adapter.NewRedisCacheAdapter(redisClient)
	} else {
		appLogger.Info("Redis disabled; question batch caching is off")
	}

	batchCacheService := service.NewBatchCacheService(cacheAdapter, generator, cfg)
	interviewService := service.NewInterviewService(batchCacheService, generator, feedbackEvaluator, cfg)

	interviewHandler := handler.NewInterviewHandler(interviewService)
	healthHandler := handler.NewHealthHandler()

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(requestLogger())
	app.Use(cors.New(cors.Config{AllowOrigins: "*", AllowMethods: "GET,POST,DELETE,OPTIONS", AllowHeaders: "Origin,Content-Type,Accept", MaxAge: 300}))
	app.Use(recover.New())

	app.Get("/swagger/*", swagger.HandlerDefault)

	app.Get("/health", healthHandler.Check)
	app.Get("/health/ready", healthHandler.Ready)

	interviewGroup := app.Group("/api/interview")
	interviewGroup.Post("/start", interviewHandler.Start)
	interviewGroup.Get("/current/:session_id", interviewHandler.CurrentQuestion)
	interviewGroup.Post("/answer", interviewHandler.SubmitAnswer)
	interviewGroup.Get("/status/:session_id", interviewHandler.Status)
	interviewGroup.Get("/summary/:session_id", interviewHandler.Summary)
	interviewGroup.Delete("/session/:session_id", interviewHandler.DeleteSession)

	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", os.Getenv("ENV")))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		appLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}
