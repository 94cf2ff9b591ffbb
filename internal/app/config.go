package app

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/yungbote/udl-lesson-backend/internal/domain/lesson"
	"github.com/yungbote/udl-lesson-backend/internal/modules/lessons/export"
	"github.com/yungbote/udl-lesson-backend/internal/platform/envutil"
	"github.com/yungbote/udl-lesson-backend/internal/platform/llm"
	"github.com/yungbote/udl-lesson-backend/internal/platform/logger"
)

type Config struct {
	Port            string
	Environment     string
	ServiceName     string
	ShutdownTimeout time.Duration
	AllowedOrigins  []string
	MaxUploadBytes  int64

	DefaultProfile lesson.AudienceProfile
	ParserKind     string
	// CatalogPath, when set, replaces the embedded catalog and is reloaded on change.
	CatalogPath string

	SessionStore   string
	SessionTTL     time.Duration
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	DatabaseDriver string
	DatabaseDSN    string

	ArtifactStore string
	DownloadsDir  string
	DownloadsURL  string
	BucketPrefix  string

	ExportTheme    export.Theme
	ExportFontPath string

	LLM llm.Config
}

// LoadEnvFile loads .env when present. Real environment variables win.
func LoadEnvFile(log *logger.Logger) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn("Failed to load .env file", "error", err)
	}
}

func LoadConfig(log *logger.Logger) Config {
	profile, err := lesson.ParseProfile(envutil.String("LESSON_PROFILE", string(lesson.ProfileK12)))
	if err != nil {
		log.Warn("Unknown LESSON_PROFILE; using k12", "error", err)
		profile = lesson.ProfileK12
	}
	return Config{
		Port:            envutil.String("PORT", "8000"),
		Environment:     envutil.String("APP_ENV", "development"),
		ServiceName:     envutil.String("OTEL_SERVICE_NAME", "udl-lesson-backend"),
		ShutdownTimeout: envutil.Duration("SHUTDOWN_TIMEOUT", 10*time.Second),
		AllowedOrigins:  splitList(envutil.String("CORS_ALLOWED_ORIGINS", "")),
		MaxUploadBytes:  int64(envutil.Int("MAX_UPLOAD_BYTES", 32<<20)),

		DefaultProfile: profile,
		ParserKind:     envutil.String("LESSON_PARSER", "marker"),
		CatalogPath:    envutil.String("CATALOG_PATH", ""),

		SessionStore:   strings.ToLower(envutil.String("SESSION_STORE", "memory")),
		SessionTTL:     envutil.Duration("SESSION_TTL", 24*time.Hour),
		RedisAddr:      envutil.String("REDIS_ADDR", ""),
		RedisPassword:  envutil.String("REDIS_PASSWORD", ""),
		RedisDB:        envutil.Int("REDIS_DB", 0),
		DatabaseDriver: envutil.String("DATABASE_DRIVER", "postgres"),
		DatabaseDSN:    envutil.String("DATABASE_URL", ""),

		ArtifactStore: strings.ToLower(envutil.String("ARTIFACT_STORE", "local")),
		DownloadsDir:  envutil.String("DOWNLOADS_DIR", "static/downloads"),
		DownloadsURL:  envutil.String("DOWNLOADS_URL_PREFIX", "/static/downloads"),
		BucketPrefix:  envutil.String("LESSON_GCS_PREFIX", "lessons"),

		ExportTheme: export.Theme{
			Title:      envutil.String("EXPORT_THEME_TITLE", ""),
			Subtitle:   envutil.String("EXPORT_THEME_SUBTITLE", ""),
			Body:       envutil.String("EXPORT_THEME_BODY", ""),
			Callout:    envutil.String("EXPORT_THEME_CALLOUT", ""),
			Background: envutil.String("EXPORT_THEME_BACKGROUND", ""),
			Accent:     envutil.String("EXPORT_THEME_ACCENT", ""),
		},
		ExportFontPath: envutil.String("EXPORT_FONT_PATH", ""),

		LLM: llm.ConfigFromEnv(),
	}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
