package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"genstudio/internal/api"
	"genstudio/internal/chatgpt"
	"genstudio/internal/conversations"
	"genstudio/internal/gemini"
	"genstudio/internal/generation"
	"genstudio/internal/history"
	"genstudio/internal/images"
	"genstudio/internal/instructions"
	"genstudio/internal/linking"
	"genstudio/internal/metrics"
	"genstudio/internal/telegram"
	"genstudio/internal/users"
	"genstudio/pkg/config"
	"genstudio/pkg/db"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

type stores struct {
	conversations conversations.Store
	instructions  instructions.Store
	history       history.Store
	users         users.Store
	close         func()
}

func openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	switch cfg.StoreBackend {
	case config.BackendFirestore:
		client, err := db.NewFirestoreClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return &stores{
			conversations: conversations.NewFirestoreRepository(client),
			instructions:  instructions.NewFirestoreRepository(client),
			history:       history.NewFirestoreRepository(client),
			users:         users.NewFirestoreRepository(client),
			close:         func() { client.Close() },
		}, nil

	case config.BackendPostgres:
		database, err := db.NewPostgresDB(cfg)
		if err != nil {
			return nil, err
		}
		if cfg.AutoMigrate {
			if err := db.Migrate(ctx, database); err != nil {
				database.Close()
				return nil, err
			}
		}
		return &stores{
			conversations: conversations.NewRepository(database),
			instructions:  instructions.NewRepository(database),
			history:       history.NewRepository(database),
			users:         users.NewRepository(database),
			close:         func() { database.Close() },
		}, nil

	default:
		return nil, fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}
}

func newGenerator(cfg *config.Config) generation.Generator {
	if cfg.TextProvider == config.ProviderOpenAI {
		return chatgpt.NewService(cfg.OpenAIModel, "")
	}
	return gemini.NewClient(cfg.GeminiBaseURL, cfg.GeminiModel, nil)
}

func main() {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(logrus.InfoLevel)

	cfg := config.LoadConfig()
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logrus.SetLevel(level)
	} else {
		logrus.Warnf("Invalid LOG_LEVEL %q, keeping info", cfg.LogLevel)
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	st, err := openStores(ctx, cfg)
	if err != nil {
		logrus.Fatalf("Failed to open %s store: %v", cfg.StoreBackend, err)
	}
	defer st.close()

	m := metrics.NewMetrics(prometheus.DefaultRegisterer)

	var cache instructions.Cache = instructions.NewMemoryCache(cfg.InstructionsCacheTTL)
	redisClient, err := db.NewRedisClient(ctx, cfg)
	if err != nil {
		logrus.Warnf("Redis unavailable, using in-process instructions cache: %v", err)
	} else if redisClient != nil {
		defer redisClient.Close()
		cache = instructions.NewRedisCache(redisClient, cfg.InstructionsCacheTTL)
	}

	instructionsService := instructions.NewService(st.instructions, cache, m)
	conversationService := conversations.NewService(st.conversations)
	historyWriter := history.NewWriter(st.history, m)
	userService := users.NewService(st.users)
	linkingSvc := linking.NewService(ctx)

	generationService := generation.NewService(newGenerator(cfg), instructionsService, conversationService, historyWriter, m)
	imageService := images.NewService(cfg.ImageBaseURL, nil, historyWriter, m)

	mux := http.NewServeMux()

	var botUsername string
	if cfg.TelegramToken != "" {
		telegramHandler, err := telegram.NewHandler(cfg, generationService, userService, linkingSvc)
		if err != nil {
			logrus.Fatalf("Failed to start Telegram bot: %v", err)
		}
		botUsername = telegramHandler.BotName()
		if cfg.TelegramWebhookURL != "" {
			if err := telegramHandler.SetupWebhook(); err != nil {
				logrus.Errorf("Failed to register Telegram webhook: %v", err)
			}
		}
		mux.HandleFunc("/webhook", telegramHandler.HandleWebhook)
	} else {
		logrus.Warn("TELEGRAM_TOKEN not set, Telegram bot and account linking are disabled")
	}

	apiHandler := api.NewHandler(
		generationService,
		imageService,
		historyWriter,
		instructionsService,
		userService,
		linkingSvc,
		cfg.DefaultCredential(),
		botUsername,
	)
	apiHandler.Routes(mux, cfg.JWTSigningKey, userService, m)
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:    cfg.ServerHost + ":" + cfg.ServerPort,
		Handler: mux,
	}

	go func() {
		logrus.Infof("Server listening on %s (store=%s, provider=%s)", server.Addr, cfg.StoreBackend, cfg.TextProvider)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("Server shutdown failed: %v", err)
	}

	logrus.Info("Server stopped")
}
