package app

import (
	httpserver "github.com/yungbote/udl-lesson-backend/internal/http"
	httpH "github.com/yungbote/udl-lesson-backend/internal/http/handlers"
	"github.com/yungbote/udl-lesson-backend/internal/platform/logger"
)

type Handlers struct {
	Health *httpH.HealthHandler
	Lesson *httpH.LessonHandler
}

func wireHandlers(log *logger.Logger, cfg Config, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health: httpH.NewHealthHandler(services.Lessons),
		Lesson: httpH.NewLessonHandler(log, services.Lessons, cfg.MaxUploadBytes),
	}
}

func wireServer(log *logger.Logger, cfg Config, handlers Handlers) *httpserver.Server {
	log.Info("Wiring router...")
	rc := httpserver.RouterConfig{
		Log:            log,
		LessonHandler:  handlers.Lesson,
		HealthHandler:  handlers.Health,
		ServiceName:    cfg.ServiceName,
		AllowedOrigins: cfg.AllowedOrigins,
	}
	// Bucket-backed exports are downloaded from the bucket, not from us.
	if cfg.ArtifactStore == "" || cfg.ArtifactStore == ArtifactStoreLocal {
		rc.DownloadsDir = cfg.DownloadsDir
	}
	return httpserver.NewServer(rc)
}
