package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"prato-pronto/internal/config"
	"prato-pronto/internal/database"
	"prato-pronto/internal/diet"
	"prato-pronto/internal/importer"
	"prato-pronto/internal/llm"
	"prato-pronto/internal/metrics"
	"prato-pronto/internal/plan"
	"prato-pronto/internal/share"
	"prato-pronto/internal/telegram"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.TelegramBotToken == "" || cfg.TelegramWebhookURL == "" {
		log.Fatal("TELEGRAM_BOT_TOKEN and TELEGRAM_WEBHOOK_URL must be set")
	}

	ctx := context.Background()

	db, err := database.NewDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	groq := llm.NewGroqClient(cfg)

	dietGen := groq
	if cfg.GeminiAPIKey != "" {
		gemini, err := llm.NewGeminiClient(ctx, cfg)
		if err != nil {
			log.Fatalf("Failed to create Gemini client: %v", err)
		}
		if closer, ok := gemini.(llm.Closer); ok {
			defer closer.Close()
		}
		dietGen = gemini
	}

	var signer *share.Signer
	if cfg.ShareTokenSecret != "" {
		signer, err = share.NewSigner(cfg.ShareTokenSecret)
		if err != nil {
			log.Fatalf("Failed to initialize share signer: %v", err)
		}
	}

	engine := plan.New(groq, diet.NewResolver(dietGen))

	bot, err := telegram.NewBot(
		cfg,
		engine,
		importer.NewImporter(groq),
		metrics.NewStore(db.SQL),
		plan.NewRepository(db.SQL),
		telegram.NewSessionRepository(db.SQL),
		signer,
	)
	if err != nil {
		log.Fatalf("Failed to initialize Telegram Bot: %v", err)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	bot.RegisterHandlers()

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: nil,
	}

	go func() {
		log.Printf("Telegram Bot Server listening on port %s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting")
}
