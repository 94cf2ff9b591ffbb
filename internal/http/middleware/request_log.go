package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/udl-lesson-backend/internal/platform/ctxutil"
	"github.com/yungbote/udl-lesson-backend/internal/platform/logger"
)

// quietRoutes are logged at debug level when they succeed.
var quietRoutes = map[string]bool{
	"/healthcheck": true,
	"/api/health":  true,
}

// RequestLogger writes one line per request once the handler chain is done.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	if log == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		status := c.Writer.Status()
		ctx := c.Request.Context()

		fields := []interface{}{
			"method", c.Request.Method,
			"route", route,
			"status", status,
			"bytes", c.Writer.Size(),
			"client_ip", c.ClientIP(),
			"duration_ms", time.Since(start).Milliseconds(),
		}
		if td := ctxutil.GetTraceData(ctx); td != nil {
			fields = append(fields, "trace_id", td.TraceID, "request_id", td.RequestID)
		}
		if id := ctxutil.LessonSession(ctx); id != "" {
			fields = append(fields, "session_id", id)
		}
		if msg := c.Errors.ByType(gin.ErrorTypeAny).String(); msg != "" {
			fields = append(fields, "errors", msg)
		}

		switch {
		case status >= 500:
			log.Error("request failed", fields...)
		case status >= 400:
			log.Warn("request rejected", fields...)
		case quietRoutes[route]:
			log.Debug("request", fields...)
		default:
			log.Info("request", fields...)
		}
	}
}
