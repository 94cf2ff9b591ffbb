package prompts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/udl-lesson-backend/internal/domain/lesson"
)

func TestBuildBaselineEmbedsOutline(t *testing.T) {
	p, err := Build(PromptBaselineSlides, Input{
		Topic:            "Photosynthesis",
		LessonTitle:      "How Plants Make Food",
		GradeLevel:       "5",
		Objectives:       []string{"Explain light reactions"},
		AudienceGuidance: AudienceGuidance(lesson.ProfileK12),
		Outline:          []string{"Introduction", "Key Vocabulary"},
		SlideCount:       8,
		ContentChars:     500,
		Complexity:       5,
	})
	require.NoError(t, err)

	assert.Contains(t, p.System, "K-12 REQUIREMENTS")
	assert.Contains(t, p.User, "Create exactly 8 slides")
	assert.Contains(t, p.User, "1. Introduction\n2. Key Vocabulary")
	assert.Contains(t, p.User, "- Explain light reactions")
	assert.Nil(t, p.Schema)

	req := p.Request(4000, 0.7)
	assert.Nil(t, req.Schema)
	assert.Equal(t, 4000, req.MaxTokens)
	require.Len(t, req.Messages, 1)
}

func TestBuildJSONVariantCarriesSchema(t *testing.T) {
	p, err := Build(PromptBaselineSlidesJSON, Input{Topic: "Photosynthesis", SlideCount: 12})
	require.NoError(t, err)
	req := p.Request(100, 0)
	require.NotNil(t, req.Schema)
	assert.Equal(t, "lesson-slides", req.Schema.Name)

	s, ok := SchemaFor(PromptSlideRevision)
	require.True(t, ok)
	assert.Equal(t, "slide-revision", s.Name)
	_, ok = SchemaFor(PromptUDLEnhance)
	assert.False(t, ok)
}

func TestBuildValidatesInput(t *testing.T) {
	_, err := Build(PromptBaselineSlides, Input{Topic: "x"})
	assert.ErrorContains(t, err, "SlideCount must be positive")

	_, err = Build(PromptSlideRevision, Input{})
	assert.ErrorContains(t, err, "Instruction required")

	_, err = Build("nope", Input{})
	assert.Error(t, err)
}

func TestUDLEnhancePromptUsesTag(t *testing.T) {
	p, err := Build(PromptUDLEnhance, Input{
		Principle:          "engagement",
		PrincipleTag:       lesson.PrincipleEngagement.Tag(),
		PrincipleFocus:     PrincipleFocus(lesson.PrincipleEngagement),
		GradeLevel:         "College",
		LessonText:         "LESSON: x",
		CustomRequirements: "focus on lab safety",
	})
	require.NoError(t, err)
	assert.Contains(t, p.System, "ENGAGEMENT principles")
	assert.Contains(t, p.System, "[UDL-ENGAGEMENT]")
	assert.Contains(t, p.User, "Teacher requirements: focus on lab safety")
}

func TestFormatLesson(t *testing.T) {
	c := &lesson.Content{
		Title: "Light", GradeLevel: "5", Duration: "45 min",
		LearningObjectives: []string{"Explain light reactions"},
		Slides:             []lesson.Slide{{Title: "Intro", Content: "Body", Notes: "Say hi"}},
	}
	text := FormatLesson(c)
	assert.True(t, strings.HasPrefix(text, "LESSON: Light"))
	assert.Contains(t, text, "SLIDE 1: Intro\nContent: Body\nInstructor Notes: Say hi")
}

func TestMakeTemplateRejectsHalfSchema(t *testing.T) {
	_, err := MakeTemplate(Spec{Name: "x", Version: 1, SchemaName: "x"})
	assert.Error(t, err)
	_, err = MakeTemplate(Spec{Name: "x", Version: 0})
	assert.Error(t, err)
}
