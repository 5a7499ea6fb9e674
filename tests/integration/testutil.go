//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/rahle-app/rahle/internal/api"
	"github.com/rahle-app/rahle/internal/chat"
	"github.com/rahle-app/rahle/internal/daily"
	"github.com/rahle-app/rahle/internal/llm"
	"github.com/rahle-app/rahle/internal/quota"
	"github.com/rahle-app/rahle/internal/quran"
	"github.com/rahle-app/rahle/internal/tafsir"
	"github.com/rahle-app/rahle/internal/users"
)

const dailyMessageLimit = 3

type TestEnv struct {
	Pool        *pgxpool.Pool
	RedisClient *redis.Client
	Server      *httptest.Server
	Tracker     *quota.Tracker
	QuotaStore  *quota.Repository
}

var testEnv *TestEnv

// stubAsker answers every question with a fixed verse citation so chat
// flows run without an upstream model.
type stubAsker struct{}

func (stubAsker) AskAboutQuran(_ context.Context, _ string) (*llm.Answer, error) {
	return &llm.Answer{
		Summary: "Sabır konusunda Kuran'ın öğüdü.",
		Verses:  []llm.VerseRef{{Surah: 2, Ayah: 153, Explanation: "Sabırla yardım isteyin."}},
	}, nil
}

func SetupTestEnv(t *testing.T) *TestEnv {
	t.Helper()
	if testEnv != nil {
		return testEnv
	}

	ctx := context.Background()

	// Start PostgreSQL container
	pgContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "test",
				"POSTGRES_PASSWORD": "test",
				"POSTGRES_DB":       "rahle_test",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("starting postgres container: %v", err)
	}
	t.Cleanup(func() { pgContainer.Terminate(ctx) })

	pgHost, _ := pgContainer.Host(ctx)
	pgPort, _ := pgContainer.MappedPort(ctx, "5432")

	// Start Redis container
	redisContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("starting redis container: %v", err)
	}
	t.Cleanup(func() { redisContainer.Terminate(ctx) })

	redisHost, _ := redisContainer.Host(ctx)
	redisPort, _ := redisContainer.MappedPort(ctx, "6379")

	// Connect to PostgreSQL
	dsn := fmt.Sprintf("postgres://test:test@%s:%s/rahle_test?sslmode=disable", pgHost, pgPort.Port())
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connecting to postgres: %v", err)
	}
	t.Cleanup(func() { pool.Close() })

	// Run migrations
	m, err := migrate.New(
		fmt.Sprintf("file://%s", getMigrationsPath()),
		dsn,
	)
	if err != nil {
		t.Fatalf("creating migrator: %v", err)
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		t.Fatalf("running migrations: %v", err)
	}

	seedVerses(t, pool)

	// Connect to Redis
	redisClient := redis.NewClient(&redis.Options{
		Addr: fmt.Sprintf("%s:%s", redisHost, redisPort.Port()),
	})
	t.Cleanup(func() { redisClient.Close() })

	// Setup services
	quotaStore := quota.NewRepository(pool)
	tracker := quota.NewTracker(quotaStore, dailyMessageLimit)

	userRepo := users.NewRepository(pool)
	userSvc := users.NewService(userRepo)
	userHandler := users.NewHandler(userSvc, tracker)

	verseRepo := quran.NewRepository(pool)
	quranSvc := quran.NewService(verseRepo)
	quranHandler := quran.NewHandler(quranSvc)

	tafsirRepo := tafsir.NewRepository(pool)
	tafsirSvc := tafsir.NewService(tafsirRepo, verseRepo)
	tafsirHandler := tafsir.NewHandler(tafsirSvc)

	chatRepo := chat.NewRepository(pool)
	chatSvc := chat.NewService(chatRepo, verseRepo, tracker, stubAsker{})
	chatHandler := chat.NewHandler(chatSvc)

	dailySvc := daily.NewService(verseRepo, redisClient)
	dailyHandler := daily.NewHandler(dailySvc)

	router := api.NewRouter(pool, redisClient, api.RouterConfig{}, api.HandlerSet{
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

		DeviceMiddleware: users.DeviceMiddleware,
	})

	server := httptest.NewServer(router)
	t.Cleanup(func() { server.Close() })

	testEnv = &TestEnv{
		Pool:        pool,
		RedisClient: redisClient,
		Server:      server,
		Tracker:     tracker,
		QuotaStore:  quotaStore,
	}

	return testEnv
}

func seedVerses(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	verses := []struct {
		surah, ayah int
		name        string
		ar, tr      string
	}{
		{1, 1, "Fatiha", "بِسْمِ اللَّهِ الرَّحْمَٰنِ الرَّحِيمِ", "Rahmân ve Rahîm olan Allah'ın adıyla."},
		{1, 2, "Fatiha", "الْحَمْدُ لِلَّهِ رَبِّ الْعَالَمِينَ", "Hamd, âlemlerin Rabbi Allah'a mahsustur."},
		{2, 153, "Bakara", "يَا أَيُّهَا الَّذِينَ آمَنُوا اسْتَعِينُوا بِالصَّبْرِ وَالصَّلَاةِ", "Ey iman edenler! Sabır ve namazla yardım isteyin."},
		{112, 1, "İhlâs", "قُلْ هُوَ اللَّهُ أَحَدٌ", "De ki: O, Allah'tır, bir tektir."},
	}

	for _, v := range verses {
		_, err := pool.Exec(context.Background(),
			`INSERT INTO quran_verses (surah, ayah, surah_name, text_ar, text_tr)
			 VALUES ($1, $2, $3, $4, $5)
			 ON CONFLICT (surah, ayah) DO NOTHING`,
			v.surah, v.ayah, v.name, v.ar, v.tr)
		if err != nil {
			t.Fatalf("seeding verse %d:%d: %v", v.surah, v.ayah, err)
		}
	}
}

func getMigrationsPath() string {
	paths := []string{
		"../../migrations",
		"../../../migrations",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	log.Fatal("migrations directory not found")
	return ""
}

// Helper functions

func DoRequest(t *testing.T, env *TestEnv, method, path string, body any, deviceID string) *http.Response {
	t.Helper()
	var bodyReader io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		bodyReader = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, env.Server.URL+path, bodyReader)
	if err != nil {
		t.Fatalf("creating request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if deviceID != "" {
		req.Header.Set("X-Device-ID", deviceID)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("doing request: %v", err)
	}
	return resp
}

func ParseResponse(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var result map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("parsing response: %v", err)
	}
	return result
}
