package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/rahle-app/rahle/internal/api"
	"github.com/rahle-app/rahle/internal/audio"
	"github.com/rahle-app/rahle/internal/chat"
	"github.com/rahle-app/rahle/internal/config"
	"github.com/rahle-app/rahle/internal/daily"
	"github.com/rahle-app/rahle/internal/database"
	"github.com/rahle-app/rahle/internal/llm"
	"github.com/rahle-app/rahle/internal/middleware"
	"github.com/rahle-app/rahle/internal/quota"
	"github.com/rahle-app/rahle/internal/quran"
	iredis "github.com/rahle-app/rahle/internal/redis"
	"github.com/rahle-app/rahle/internal/server"
	"github.com/rahle-app/rahle/internal/tafsir"
	"github.com/rahle-app/rahle/internal/users"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("loading config", "error", err)
		os.Exit(1)
	}

	setupLogger(cfg.Log)

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	// PostgreSQL
	pool, err := database.NewPostgresPool(ctx, cfg.DB)
	if err != nil {
		slog.Error("connecting to postgres", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := database.RunMigrations(cfg.DB.DSN(), "migrations"); err != nil {
		slog.Error("running migrations", "error", err)
		os.Exit(1)
	}

	// Redis
	redisClient, err := iredis.NewClient(ctx, cfg.Redis)
	if err != nil {
		slog.Error("connecting to redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()

	// Quota
	quotaStore := quota.NewRepository(pool)
	tracker := quota.NewTracker(quotaStore, cfg.Quota.DailyMessageLimit)

	// Users
	userRepo := users.NewRepository(pool)
	userSvc := users.NewService(userRepo)
	userHandler := users.NewHandler(userSvc, tracker)

	// Quran
	verseRepo := quran.NewRepository(pool)
	quranSvc := quran.NewService(verseRepo)
	quranHandler := quran.NewHandler(quranSvc)

	// Tafsir
	tafsirRepo := tafsir.NewRepository(pool)
	tafsirSvc := tafsir.NewService(tafsirRepo, verseRepo)
	tafsirHandler := tafsir.NewHandler(tafsirSvc)

	// Chat
	aiClient := llm.NewClient(cfg.OpenAI)
	chatRepo := chat.NewRepository(pool)
	chatSvc := chat.NewService(chatRepo, verseRepo, tracker, aiClient)
	chatHandler := chat.NewHandler(chatSvc)

	// Daily content
	dailySvc := daily.NewService(verseRepo, redisClient)
	dailyHandler := daily.NewHandler(dailySvc)

	// Audio
	audioClient := audio.NewClient(cfg.ElevenLabs)
	audioSvc := audio.NewService(audioClient, verseRepo)
	audioHandler := audio.NewHandler(audioSvc)

	chatLimiter := middleware.NewRateLimiter(redisClient, cfg.RateLimit.ChatMaxRequests, cfg.RateLimit.ChatWindowSec)

	router := api.NewRouter(pool, redisClient, api.RouterConfig{
		CORSAllowedOrigins: cfg.CORS.AllowedOrigins,
		ChatRateLimiter:    chatLimiter.Middleware,
	}, api.HandlerSet{
		SendMessage:       chatHandler.SendMessage,
		ListConversations: chatHandler.ListConversations,
		GetConversation:   chatHandler.GetConversation,

		RegisterUser:      userHandler.Register,
		GetProgress:       userHandler.GetProgress,
		MarkVerseRead:     userHandler.MarkVerseRead,
		UpdateStreak:      userHandler.UpdateStreak,
		GetAchievements:   userHandler.GetAchievements,
		UpdatePreferences: userHandler.UpdatePreferences,
		GetQuota:          userHandler.GetQuota,

		ListSurahs:     quranHandler.ListSurahs,
		GetSurah:       quranHandler.GetSurah,
		GetVerse:       quranHandler.GetVerse,
		SearchVerses:   quranHandler.SearchVerses,
		QuranStats:     quranHandler.Stats,
		FeaturedVerses: quranHandler.Featured,

		GetTafsir:     tafsirHandler.GetTafsir,
		TafsirSources: tafsirHandler.Sources,
		TafsirStats:   tafsirHandler.Stats,

		DailyContent: dailyHandler.Content,
		RandomVerse:  dailyHandler.RandomVerse,
		RandomPrayer: dailyHandler.RandomPrayer,

		ListVoices:  audioHandler.ListVoices,
		VerseAudio:  audioHandler.VerseAudio,
		AudioStatus: audioHandler.Status,

		DeviceMiddleware: users.DeviceMiddleware,
	})

	srv := server.New(cfg.Server, router)
	if err := srv.Start(); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func setupLogger(cfg config.LogConfig) {
	var handler slog.Handler

	opts := &slog.HandlerOptions{}
	switch cfg.Level {
	case "debug":
		opts.Level = slog.LevelDebug
	case "info":
		opts.Level = slog.LevelInfo
	case "warn":
		opts.Level = slog.LevelWarn
	case "error":
		opts.Level = slog.LevelError
	default:
		opts.Level = slog.LevelInfo
	}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}
