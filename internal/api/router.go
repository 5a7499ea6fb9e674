package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/rahle-app/rahle/internal/database"
	mw "github.com/rahle-app/rahle/internal/middleware"
)

// HandlerSet holds handler functions injected from main.go to avoid import cycles.
type HandlerSet struct {
	// Chat handlers
	SendMessage       http.HandlerFunc
	ListConversations http.HandlerFunc
	GetConversation   http.HandlerFunc

	// User handlers
	RegisterUser      http.HandlerFunc
	GetProgress       http.HandlerFunc
	MarkVerseRead     http.HandlerFunc
	UpdateStreak      http.HandlerFunc
	GetAchievements   http.HandlerFunc
	UpdatePreferences http.HandlerFunc
	GetQuota          http.HandlerFunc

	// Quran handlers
	ListSurahs     http.HandlerFunc
	GetSurah       http.HandlerFunc
	GetVerse       http.HandlerFunc
	SearchVerses   http.HandlerFunc
	QuranStats     http.HandlerFunc
	FeaturedVerses http.HandlerFunc

	// Tafsir handlers
	GetTafsir     http.HandlerFunc
	TafsirSources http.HandlerFunc
	TafsirStats   http.HandlerFunc

	// Daily content handlers
	DailyContent http.HandlerFunc
	RandomVerse  http.HandlerFunc
	RandomPrayer http.HandlerFunc

	// Audio handlers
	ListVoices  http.HandlerFunc
	VerseAudio  http.HandlerFunc
	AudioStatus http.HandlerFunc

	// Device identity middleware
	DeviceMiddleware func(http.Handler) http.Handler
}

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	CORSAllowedOrigins []string
	ChatRateLimiter    func(http.Handler) http.Handler
}

func NewRouter(pool *pgxpool.Pool, redisClient *redis.Client, cfg RouterConfig, h HandlerSet) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.RequestID)
	r.Use(mw.SecurityHeaders)
	r.Use(mw.Logging)
	r.Use(mw.Recovery)
	r.Use(mw.Metrics)
	r.Use(cors.Handler(mw.CORS(cfg.CORSAllowedOrigins)))

	// Liveness probe — always 200, no dependency checks
	r.Get("/health/live", func(w http.ResponseWriter, r *http.Request) {
		JSON(w, http.StatusOK, map[string]string{"status": "alive"})
	})

	// Readiness probe — checks DB and Redis
	readinessHandler := func(w http.ResponseWriter, r *http.Request) {
		health := map[string]string{
			"status":   "healthy",
			"database": "healthy",
			"redis":    "healthy",
		}

		status := http.StatusOK

		if err := database.HealthCheck(r.Context(), pool); err != nil {
			health["database"] = "unhealthy"
			health["status"] = "degraded"
			status = http.StatusServiceUnavailable
		}

		if redisClient != nil {
			if err := redisClient.Ping(r.Context()).Err(); err != nil {
				health["redis"] = "unhealthy"
				health["status"] = "degraded"
				status = http.StatusServiceUnavailable
			}
		} else {
			health["redis"] = "not configured"
		}

		JSON(w, status, health)
	}

	r.Get("/health/ready", readinessHandler)
	r.Get("/health", readinessHandler)

	// Prometheus metrics
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Chat — device-identified, burst-limited per IP
		r.Group(func(r chi.Router) {
			r.Use(h.DeviceMiddleware)
			if cfg.ChatRateLimiter != nil {
				r.With(cfg.ChatRateLimiter).Post("/chat", h.SendMessage)
			} else {
				r.Post("/chat", h.SendMessage)
			}

			r.Route("/conversations", func(r chi.Router) {
				r.Get("/", h.ListConversations)
				r.Get("/{conversationID}", h.GetConversation)
			})
		})

		// User routes
		r.Route("/user", func(r chi.Router) {
			r.Post("/register", h.RegisterUser)

			r.Group(func(r chi.Router) {
				r.Use(h.DeviceMiddleware)
				r.Get("/progress", h.GetProgress)
				r.Post("/progress/verse-read", h.MarkVerseRead)
				r.Post("/progress/update-streak", h.UpdateStreak)
				r.Get("/achievements", h.GetAchievements)
				r.Post("/preferences", h.UpdatePreferences)
				r.Get("/quota", h.GetQuota)
			})
		})

		// Quran routes (public, read-only)
		r.Route("/quran", func(r chi.Router) {
			r.Get("/surahs", h.ListSurahs)
			r.Get("/surah/{surah}", h.GetSurah)
			r.Get("/surah/{surah}/ayah/{ayah}", h.GetVerse)
			r.Get("/search", h.SearchVerses)
			r.Get("/stats", h.QuranStats)
			r.Get("/featured", h.FeaturedVerses)
		})

		// Tafsir routes (public, read-only)
		r.Route("/tafsir", func(r chi.Router) {
			r.Get("/sources", h.TafsirSources)
			r.Get("/stats", h.TafsirStats)
			r.Get("/{surah}/{ayah}", h.GetTafsir)
		})

		// Daily content
		r.Route("/daily", func(r chi.Router) {
			r.Get("/", h.DailyContent)
			r.Get("/random-verse", h.RandomVerse)
			r.Get("/random-prayer", h.RandomPrayer)
		})

		// Audio
		r.Route("/audio", func(r chi.Router) {
			r.Get("/voices", h.ListVoices)
			r.Get("/status", h.AudioStatus)
			r.Get("/verse/{surah}/{ayah}", h.VerseAudio)
		})
	})

	return r
}
