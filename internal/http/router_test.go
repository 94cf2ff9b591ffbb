package http

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/udl-lesson-backend/internal/data/sessionstore"
	httpH "github.com/yungbote/udl-lesson-backend/internal/http/handlers"
	"github.com/yungbote/udl-lesson-backend/internal/modules/lessons"
	"github.com/yungbote/udl-lesson-backend/internal/modules/lessons/catalog"
	"github.com/yungbote/udl-lesson-backend/internal/modules/lessons/export"
	"github.com/yungbote/udl-lesson-backend/internal/modules/lessons/generator"
	"github.com/yungbote/udl-lesson-backend/internal/modules/lessons/udl"
	"github.com/yungbote/udl-lesson-backend/internal/platform/artifacts"
	"github.com/yungbote/udl-lesson-backend/internal/platform/logger"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := logger.Nop()
	cat := catalog.Default()
	root := t.TempDir()
	uc := lessons.New(lessons.UsecasesDeps{
		Log:       log,
		Sessions:  sessionstore.NewMemoryStore(),
		Artifacts: artifacts.NewLocalStore(root, "/static/downloads"),
		Generator: generator.New(log, nil, cat, nil, generator.Options{}),
		UDL:       udl.New(log, nil, cat, udl.Options{}),
		Exporter:  export.New(log, export.Options{DisableCover: true}),
	})
	return NewRouter(RouterConfig{
		Log:           log,
		LessonHandler: httpH.NewLessonHandler(log, uc, 0),
		HealthHandler: httpH.NewHealthHandler(uc),
		DownloadsDir:  root,
	})
}

func do(t *testing.T, r *gin.Engine, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	out := map[string]any{}
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
			t.Fatalf("decode response: %v (%s)", err, rec.Body.String())
		}
	}
	return rec, out
}

func generate(t *testing.T, r *gin.Engine) string {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fields := map[string]string{
		"topic":               "Photosynthesis",
		"chapter":             "Plant Biology",
		"lesson_title":        "How Plants Make Food",
		"grade_level":         "5",
		"learning_objectives": "Explain light reactions",
		"duration":            "45 min",
	}
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	fw, err := mw.CreateFormFile("file", "notes.txt")
	if err != nil {
		t.Fatalf("create file part: %v", err)
	}
	fw.Write([]byte("chlorophyll"))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/generate-baseline", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("generate: want=%d got=%d body=%s", http.StatusOK, rec.Code, rec.Body.String())
	}
	var out struct {
		Success       bool   `json:"success"`
		SessionID     string `json:"session_id"`
		Stage         string `json:"stage"`
		Message       string `json:"message"`
		LessonContent struct {
			Slides []struct {
				Title string `json:"title"`
			} `json:"slides"`
		} `json:"lesson_content"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !out.Success || out.Stage != "baseline" || out.Message != "Baseline lesson generated successfully" {
		t.Fatalf("unexpected generate response: %s", rec.Body.String())
	}
	if len(out.LessonContent.Slides) != 8 {
		t.Fatalf("slides: want=%d got=%d", 8, len(out.LessonContent.Slides))
	}
	if !strings.HasPrefix(out.LessonContent.Slides[0].Title, "Introduction to Photosynthesis") {
		t.Fatalf("first slide title: got=%q", out.LessonContent.Slides[0].Title)
	}
	return out.SessionID
}

func errorCode(body map[string]any) string {
	e, _ := body["error"].(map[string]any)
	code, _ := e["code"].(string)
	return code
}

func errorMessage(body map[string]any) string {
	e, _ := body["error"].(map[string]any)
	msg, _ := e["message"].(string)
	return msg
}

func TestLessonLifecycle(t *testing.T) {
	r := newTestRouter(t)
	id := generate(t, r)

	rec, body := do(t, r, http.MethodGet, "/api/lesson-session/"+id, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get: want=%d got=%d", http.StatusOK, rec.Code)
	}
	if next, _ := body["available_next_stages"].([]any); len(next) != 1 || next[0] != "engagement" {
		t.Fatalf("available_next_stages: got=%v", body["available_next_stages"])
	}

	rec, body = do(t, r, http.MethodPost, "/api/edit-slide/"+id, map[string]any{"slide_index": 1, "title": "Words to Know"})
	if rec.Code != http.StatusOK || body["message"] != "Slide updated successfully" {
		t.Fatalf("edit: code=%d body=%v", rec.Code, body)
	}

	rec, body = do(t, r, http.MethodPost, "/api/ai-enhance-slide/"+id, map[string]any{"slide_index": 1, "prompt": "add a diagram"})
	if rec.Code != http.StatusOK || body["message"] != "Slide enhanced with AI" {
		t.Fatalf("enhance: code=%d body=%v", rec.Code, body)
	}
	slide, _ := body["slide"].(map[string]any)
	if notes, _ := slide["notes"].(string); !strings.HasSuffix(notes, "AI Enhancement: add a diagram") {
		t.Fatalf("enhance notes: got=%q", notes)
	}

	for _, p := range []string{"engagement", "representation", "action_expression"} {
		rec, body = do(t, r, http.MethodPost, "/api/apply-udl-principle/"+id, map[string]any{"principle": p})
		if rec.Code != http.StatusOK {
			t.Fatalf("apply %s: code=%d body=%v", p, rec.Code, body)
		}
		if want := "UDL " + p + " principle applied successfully"; body["message"] != want {
			t.Fatalf("apply message: want=%q got=%q", want, body["message"])
		}
	}

	rec, body = do(t, r, http.MethodGet, "/api/lesson-session/"+id+"/history", nil)
	if history, _ := body["edit_history"].([]any); rec.Code != http.StatusOK || len(history) != 5 {
		t.Fatalf("history: code=%d body=%v", rec.Code, body)
	}

	rec, body = do(t, r, http.MethodPost, "/api/export-lesson/"+id, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("export: code=%d body=%v", rec.Code, body)
	}
	url, _ := body["download_url"].(string)
	if want := "/static/downloads/" + id + "/How_Plants_Make_Food_final.pptx"; url != want {
		t.Fatalf("download_url: want=%q got=%q", want, url)
	}
	details, _ := body["lesson_details"].(map[string]any)
	if details["stage"] != "action_expression" || details["slide_count"] != float64(8) || details["edits_made"] != float64(5) {
		t.Fatalf("lesson_details: got=%v", details)
	}

	file := httptest.NewRecorder()
	r.ServeHTTP(file, httptest.NewRequest(http.MethodGet, url, nil))
	if file.Code != http.StatusOK || !bytes.HasPrefix(file.Body.Bytes(), []byte("PK")) {
		t.Fatalf("download: code=%d", file.Code)
	}

	rec, body = do(t, r, http.MethodDelete, "/api/lesson-session/"+id, nil)
	if rec.Code != http.StatusOK || body["message"] != "Session cleaned up" {
		t.Fatalf("delete: code=%d body=%v", rec.Code, body)
	}
	rec, body = do(t, r, http.MethodGet, "/api/lesson-session/"+id, nil)
	if rec.Code != http.StatusNotFound || errorCode(body) != "session_not_found" {
		t.Fatalf("get after delete: code=%d body=%v", rec.Code, body)
	}
}

func TestApplyOutOfOrder(t *testing.T) {
	r := newTestRouter(t)
	id := generate(t, r)

	rec, _ := do(t, r, http.MethodPost, "/api/apply-udl-principle/"+id, map[string]any{"principle": "engagement"})
	if rec.Code != http.StatusOK {
		t.Fatalf("apply engagement: code=%d", rec.Code)
	}

	rec, body := do(t, r, http.MethodPost, "/api/apply-udl-principle/"+id, map[string]any{"principle": "action_expression"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: want=%d got=%d", http.StatusBadRequest, rec.Code)
	}
	if errorCode(body) != "out_of_order_principle" {
		t.Fatalf("code: want=%q got=%q", "out_of_order_principle", errorCode(body))
	}
	if !strings.Contains(errorMessage(body), "representation") {
		t.Fatalf("message should name representation: got=%q", errorMessage(body))
	}
}

func TestValidationErrors(t *testing.T) {
	r := newTestRouter(t)
	id := generate(t, r)

	cases := []struct {
		name   string
		method string
		path   string
		body   any
		status int
		code   string
	}{
		{"missing fields", http.MethodPost, "/api/generate-baseline", map[string]any{"topic": "Photosynthesis"}, http.StatusBadRequest, "invalid_request"},
		{"slide index out of range", http.MethodPost, "/api/edit-slide/" + id, map[string]any{"slide_index": 99}, http.StatusBadRequest, "invalid_slide_index"},
		{"slide index missing", http.MethodPost, "/api/edit-slide/" + id, map[string]any{"title": "x"}, http.StatusBadRequest, "invalid_request"},
		{"unknown principle", http.MethodPost, "/api/apply-udl-principle/" + id, map[string]any{"principle": "motivation"}, http.StatusBadRequest, "invalid_principle"},
		{"unknown session edit", http.MethodPost, "/api/edit-slide/missing", map[string]any{"slide_index": 0}, http.StatusNotFound, "session_not_found"},
		{"unknown session with bad principle", http.MethodPost, "/api/apply-udl-principle/missing", map[string]any{"principle": "bogus"}, http.StatusNotFound, "session_not_found"},
		{"unknown session with empty prompt", http.MethodPost, "/api/ai-enhance-slide/missing", map[string]any{"slide_index": 0, "prompt": ""}, http.StatusNotFound, "session_not_found"},
		{"unknown session export", http.MethodPost, "/api/export-lesson/missing", nil, http.StatusNotFound, "session_not_found"},
		{"unknown session delete", http.MethodDelete, "/api/lesson-session/missing", nil, http.StatusNotFound, "session_not_found"},
	}
	for _, tc := range cases {
		rec, body := do(t, r, tc.method, tc.path, tc.body)
		if rec.Code != tc.status {
			t.Fatalf("%s: status want=%d got=%d body=%v", tc.name, tc.status, rec.Code, body)
		}
		if got := errorCode(body); got != tc.code {
			t.Fatalf("%s: code want=%q got=%q", tc.name, tc.code, got)
		}
	}
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t)
	generate(t, r)

	rec, body := do(t, r, http.MethodGet, "/api/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: want=%d got=%d", http.StatusOK, rec.Code)
	}
	if body["status"] != "healthy" || body["active_sessions"] != float64(1) || body["ai_provider"] != "none" {
		t.Fatalf("unexpected health body: %v", body)
	}

	rec, _ = do(t, r, http.MethodGet, "/healthcheck", nil)
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("healthcheck: code=%d body=%q", rec.Code, rec.Body.String())
	}
}
