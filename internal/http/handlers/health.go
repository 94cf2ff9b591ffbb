package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/udl-lesson-backend/internal/http/response"
	"github.com/yungbote/udl-lesson-backend/internal/modules/lessons"
)

const (
	serviceMessage = "Enhanced UDL Lesson Generator API with Staged Pipeline"
	serviceVersion = "3.0 - Teacher-in-the-Loop Pipeline"
)

type HealthHandler struct {
	uc lessons.Usecases
}

func NewHealthHandler(uc lessons.Usecases) *HealthHandler { return &HealthHandler{uc: uc} }

// GET /healthcheck
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

// GET /api/health
func (h *HealthHandler) Health(c *gin.Context) {
	active, err := h.uc.ActiveSessions(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{
		"status":          "healthy",
		"message":         serviceMessage,
		"version":         serviceVersion,
		"active_sessions": active,
		"ai_provider":     h.uc.ProviderName(),
	})
}
