package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/udl-lesson-backend/internal/http/handlers"
	httpMW "github.com/yungbote/udl-lesson-backend/internal/http/middleware"
	"github.com/yungbote/udl-lesson-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log *logger.Logger

	LessonHandler *httpH.LessonHandler
	HealthHandler *httpH.HealthHandler

	// ServiceName names the otelgin server spans.
	ServiceName    string
	AllowedOrigins []string

	// DownloadsDir is served under /static/downloads when set.
	DownloadsDir string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS(cfg.AllowedOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	if cfg.DownloadsDir != "" {
		r.Static("/static/downloads", cfg.DownloadsDir)
	}

	api := r.Group("/api")
	{
		if cfg.HealthHandler != nil {
			api.GET("/health", cfg.HealthHandler.Health)
		}

		// Staged lesson pipeline
		if cfg.LessonHandler != nil {
			api.POST("/generate-baseline", cfg.LessonHandler.GenerateBaseline)
			api.POST("/edit-slide/:session_id", cfg.LessonHandler.EditSlide)
			api.POST("/ai-enhance-slide/:session_id", cfg.LessonHandler.EnhanceSlide)
			api.POST("/apply-udl-principle/:session_id", cfg.LessonHandler.ApplyPrinciple)
			api.GET("/lesson-session/:session_id", cfg.LessonHandler.GetSession)
			api.GET("/lesson-session/:session_id/history", cfg.LessonHandler.History)
			api.POST("/export-lesson/:session_id", cfg.LessonHandler.Export)
			api.DELETE("/lesson-session/:session_id", cfg.LessonHandler.Delete)
		}
	}

	return r
}
