package generator

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/udl-lesson-backend/internal/domain/lesson"
	"github.com/yungbote/udl-lesson-backend/internal/modules/lessons/catalog"
	"github.com/yungbote/udl-lesson-backend/internal/modules/lessons/parse"
	"github.com/yungbote/udl-lesson-backend/internal/platform/llm"
	"github.com/yungbote/udl-lesson-backend/internal/platform/logger"
)

func photosynthesis() lesson.Request {
	return lesson.Request{
		Topic:              "Photosynthesis",
		Chapter:            "Plant Biology",
		LessonTitle:        "How Plants Make Food",
		GradeLevel:         "5",
		LearningObjectives: "Explain light reactions",
		Duration:           "45 minutes",
		ComplexityLevel:    5,
		AudienceProfile:    lesson.ProfileK12,
	}
}

func TestBaselineWithoutProviderUsesCatalog(t *testing.T) {
	cat := catalog.Default()
	g := New(logger.Nop(), nil, cat, nil, Options{})

	content, origin, err := g.Baseline(context.Background(), photosynthesis())
	require.NoError(t, err)
	assert.Equal(t, lesson.OriginFallback, origin)
	assert.Len(t, content.Slides, 8)
	assert.Equal(t, lesson.StageBaseline, content.UDLStage)
	assert.Empty(t, content.AccessibilityFeatures)
	assert.Equal(t, "Introduction to Photosynthesis", content.Slides[0].Title)

	want, err := cat.FallbackLesson(photosynthesis())
	require.NoError(t, err)
	assert.Equal(t, want, content)
}

func TestBaselineFromModelReply(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Text: "Slide 1: Sunlight\nLight powers plants.\n\nSlide 2: Water\nRoots pull water."})
	g := New(logger.Nop(), mock, catalog.Default(), nil, Options{MaxTokens: 1234, Temperature: 0.2})

	content, origin, err := g.Baseline(context.Background(), photosynthesis())
	require.NoError(t, err)
	assert.Equal(t, lesson.OriginAI, origin)
	require.Len(t, content.Slides, 8)
	assert.Equal(t, "Sunlight", content.Slides[0].Title)
	assert.Equal(t, "Water", content.Slides[1].Title)

	call, ok := mock.LastCall()
	require.True(t, ok)
	assert.Equal(t, 1234, call.MaxTokens)
	assert.Contains(t, call.Messages[0].Content, "Create exactly 8 slides")
}

func TestBaselineFallsBackOnProviderError(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrRateLimit{Err: errors.New("slow down")}})
	g := New(logger.Nop(), mock, catalog.Default(), nil, Options{})

	content, origin, err := g.Baseline(context.Background(), photosynthesis())
	require.NoError(t, err)
	assert.Equal(t, lesson.OriginFallback, origin)
	assert.Len(t, content.Slides, 8)
}

func TestBaselineFallsBackOnUnparseableReply(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Text: "no markers here"})
	g := New(logger.Nop(), mock, catalog.Default(), nil, Options{})

	_, origin, err := g.Baseline(context.Background(), photosynthesis())
	require.NoError(t, err)
	assert.Equal(t, lesson.OriginFallback, origin)
}

func TestBaselineJSONParser(t *testing.T) {
	cat := catalog.Default()
	mock := llm.NewMockProvider(llm.MockJSON(map[string]any{
		"slides": []map[string]string{{"title": "A", "content": "B", "notes": "C", "image_prompt": "D"}},
	}))
	g := New(logger.Nop(), mock, cat, &parse.JSONParser{Catalog: cat}, Options{})

	req := photosynthesis()
	req.AudienceProfile = lesson.ProfileCollege
	req.GradeLevel = "Graduate"
	content, origin, err := g.Baseline(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, lesson.OriginAI, origin)
	assert.Len(t, content.Slides, 12)
	assert.Equal(t, "A", content.Slides[0].Title)

	call, _ := mock.LastCall()
	require.NotNil(t, call.Schema)
	assert.Equal(t, "lesson-slides", call.Schema.Name)
}

func TestBaselineInputAdaptiveVoice(t *testing.T) {
	cat := catalog.Default()
	req := photosynthesis()
	req.AudienceProfile = lesson.ProfileAdaptive
	in := BaselineInput(cat, req)
	assert.Equal(t, 12, in.SlideCount)
	assert.Contains(t, in.LevelContext, "Elementary")
	assert.Len(t, in.Outline, 12)
}

func TestReviseSlideFallbackAppendsInstruction(t *testing.T) {
	g := New(logger.Nop(), nil, catalog.Default(), nil, Options{})
	slide := lesson.Slide{Title: "T", Content: "C", Notes: "N", UDLEnhancements: map[string][]string{"engagement": {"x"}}}

	out, origin, err := g.ReviseSlide(context.Background(), photosynthesis(), 0, slide, "add an example")
	require.NoError(t, err)
	assert.Equal(t, lesson.OriginFallback, origin)
	assert.Equal(t, "N\n\nAI Enhancement: add an example", out.Notes)
	assert.Equal(t, []string{"x"}, out.UDLEnhancements["engagement"])
	assert.Equal(t, "N", slide.Notes)
}

func TestReviseSlideFromModel(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockJSON(map[string]any{
		"title": "New T", "content": "New C", "notes": "", "image_prompt": "", "changes": []string{"retitled"},
	}))
	g := New(logger.Nop(), mock, catalog.Default(), nil, Options{})
	slide := lesson.Slide{Title: "T", Content: "C", Notes: "N", ImagePrompt: "I"}

	out, origin, err := g.ReviseSlide(context.Background(), photosynthesis(), 2, slide, "simplify")
	require.NoError(t, err)
	assert.Equal(t, lesson.OriginAI, origin)
	assert.Equal(t, "New T", out.Title)
	assert.Equal(t, "New C", out.Content)
	assert.Equal(t, "N", out.Notes)
	assert.Equal(t, "I", out.ImagePrompt)

	call, _ := mock.LastCall()
	assert.Contains(t, call.Messages[0].Content, "Slide 3:")
	assert.Contains(t, call.Messages[0].Content, "Teacher request: simplify")
}
