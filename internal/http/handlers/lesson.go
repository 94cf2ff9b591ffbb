package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/udl-lesson-backend/internal/domain/lesson"
	"github.com/yungbote/udl-lesson-backend/internal/http/response"
	"github.com/yungbote/udl-lesson-backend/internal/modules/lessons"
	"github.com/yungbote/udl-lesson-backend/internal/platform/apierr"
	"github.com/yungbote/udl-lesson-backend/internal/platform/logger"
)

type LessonHandler struct {
	log       *logger.Logger
	uc        lessons.Usecases
	maxUpload int64
}

func NewLessonHandler(log *logger.Logger, uc lessons.Usecases, maxUpload int64) *LessonHandler {
	if maxUpload <= 0 {
		maxUpload = 32 << 20
	}
	return &LessonHandler{log: log.With("handler", "LessonHandler"), uc: uc, maxUpload: maxUpload}
}

func badRequest(c *gin.Context, format string, args ...any) {
	response.RespondAPIError(c, apierr.BadRequest(lessons.CodeInvalidRequest, format, args...))
}

// POST /api/generate-baseline
func (h *LessonHandler) GenerateBaseline(c *gin.Context) {
	in, closeUpload, err := h.baselineInput(c)
	if err != nil {
		badRequest(c, "%s", err.Error())
		return
	}
	defer closeUpload()

	out, err := h.uc.GenerateBaseline(c.Request.Context(), in)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{
		"success":        true,
		"session_id":     out.Session.ID,
		"stage":          out.Session.CurrentStage,
		"lesson_content": out.Session.Content,
		"origin":         out.Origin,
		"message":        "Baseline lesson generated successfully",
	})
}

// baselineInput reads a JSON body or a (multipart) form with an optional
// "file" part.
func (h *LessonHandler) baselineInput(c *gin.Context) (lessons.GenerateBaselineInput, func(), error) {
	noop := func() {}
	var in lessons.GenerateBaselineInput
	if strings.HasPrefix(c.ContentType(), "application/json") {
		if err := c.ShouldBindJSON(&in.Request); err != nil {
			return in, noop, fmt.Errorf("invalid JSON body: %w", err)
		}
		return in, noop, nil
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload)
	complexity := 0
	if raw := strings.TrimSpace(c.PostForm("complexity_level")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return in, noop, fmt.Errorf("complexity_level must be an integer")
		}
		complexity = n
	}
	in.Request = lesson.Request{
		Topic:              c.PostForm("topic"),
		Chapter:            c.PostForm("chapter"),
		LessonTitle:        c.PostForm("lesson_title"),
		GradeLevel:         c.PostForm("grade_level"),
		LearningObjectives: c.PostForm("learning_objectives"),
		Duration:           c.PostForm("duration"),
		ComplexityLevel:    complexity,
		AudienceProfile:    lesson.AudienceProfile(strings.ToLower(strings.TrimSpace(c.PostForm("audience_profile")))),
	}

	fh, err := c.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return in, noop, nil
		}
		return in, noop, fmt.Errorf("invalid file upload: %w", err)
	}
	f, err := openUpload(fh)
	if err != nil {
		return in, noop, err
	}
	in.Upload = &lessons.Upload{Name: fh.Filename, Body: f}
	return in, func() { _ = f.Close() }, nil
}

func openUpload(fh *multipart.FileHeader) (io.ReadCloser, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	return f, nil
}

type editSlideRequest struct {
	SlideIndex  *int    `json:"slide_index"`
	Title       *string `json:"title"`
	Content     *string `json:"content"`
	Notes       *string `json:"notes"`
	ImagePrompt *string `json:"image_prompt"`
}

// POST /api/edit-slide/:session_id
func (h *LessonHandler) EditSlide(c *gin.Context) {
	var req editSlideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid JSON body: %v", err)
		return
	}
	if req.SlideIndex == nil {
		badRequest(c, "slide_index is required")
		return
	}
	slide, err := h.uc.EditSlide(c.Request.Context(), c.Param("session_id"), *req.SlideIndex, lesson.SlidePatch{
		Title:       req.Title,
		Content:     req.Content,
		Notes:       req.Notes,
		ImagePrompt: req.ImagePrompt,
	})
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{
		"success": true,
		"slide":   slide,
		"message": "Slide updated successfully",
	})
}

type enhanceSlideRequest struct {
	SlideIndex *int   `json:"slide_index"`
	Prompt     string `json:"prompt"`
}

// POST /api/ai-enhance-slide/:session_id
func (h *LessonHandler) EnhanceSlide(c *gin.Context) {
	var req enhanceSlideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid JSON body: %v", err)
		return
	}
	if req.SlideIndex == nil {
		badRequest(c, "slide_index is required")
		return
	}
	out, err := h.uc.EnhanceSlide(c.Request.Context(), c.Param("session_id"), *req.SlideIndex, req.Prompt)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{
		"success": true,
		"slide":   out.Slide,
		"origin":  out.Origin,
		"message": "Slide enhanced with AI",
	})
}

type applyPrincipleRequest struct {
	Principle          string `json:"principle"`
	CustomRequirements string `json:"custom_requirements"`
}

// POST /api/apply-udl-principle/:session_id
func (h *LessonHandler) ApplyPrinciple(c *gin.Context) {
	var req applyPrincipleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid JSON body: %v", err)
		return
	}
	out, err := h.uc.ApplyPrinciple(c.Request.Context(), lessons.ApplyPrincipleInput{
		SessionID:          c.Param("session_id"),
		Principle:          req.Principle,
		CustomRequirements: req.CustomRequirements,
	})
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{
		"success":        true,
		"stage":          out.Session.CurrentStage,
		"lesson_content": out.Session.Content,
		"origin":         out.Origin,
		"message":        fmt.Sprintf("UDL %s principle applied successfully", out.Principle),
	})
}

// GET /api/lesson-session/:session_id
func (h *LessonHandler) GetSession(c *gin.Context) {
	view, err := h.uc.GetSession(c.Request.Context(), c.Param("session_id"))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{
		"success":               true,
		"session_id":            view.Session.ID,
		"stage":                 view.Session.CurrentStage,
		"lesson_content":        view.Session.Content,
		"available_next_stages": view.AvailableNextStages,
	})
}

// GET /api/lesson-session/:session_id/history
func (h *LessonHandler) History(c *gin.Context) {
	history, err := h.uc.History(c.Request.Context(), c.Param("session_id"))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{
		"success":      true,
		"session_id":   c.Param("session_id"),
		"edit_history": history,
	})
}

// POST /api/export-lesson/:session_id
func (h *LessonHandler) Export(c *gin.Context) {
	out, err := h.uc.Export(c.Request.Context(), c.Param("session_id"))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{
		"success":        true,
		"download_url":   out.DownloadURL,
		"lesson_details": out.Details,
		"message":        "Lesson exported successfully",
	})
}

// DELETE /api/lesson-session/:session_id
func (h *LessonHandler) Delete(c *gin.Context) {
	if err := h.uc.Delete(c.Request.Context(), c.Param("session_id")); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"success": true, "message": "Session cleaned up"})
}
