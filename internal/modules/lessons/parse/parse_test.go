package parse

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/udl-lesson-backend/internal/domain/lesson"
	"github.com/yungbote/udl-lesson-backend/internal/modules/lessons/catalog"
	"github.com/yungbote/udl-lesson-backend/internal/platform/llm"
)

func request(p lesson.AudienceProfile) lesson.Request {
	return lesson.Request{
		Topic:              "Photosynthesis",
		Chapter:            "Plant Biology",
		LessonTitle:        "How Plants Make Food",
		GradeLevel:         "5",
		LearningObjectives: "Explain light reactions\nName the inputs",
		Duration:           "45 minutes",
		ComplexityLevel:    5,
		AudienceProfile:    p,
	}
}

func TestMarkerParserPadsMissingSlides(t *testing.T) {
	cat := catalog.Default()
	p := &MarkerParser{Catalog: cat}
	reply := `Here is your lesson.

Slide 1: Welcome to Photosynthesis
Plants turn light into sugar.
Notes: Ask what plants eat.
Image: A leaf in sunlight

**Slide 2: Chlorophyll**
Chlorophyll absorbs light.`

	req := request(lesson.ProfileK12)
	slides, err := p.Parse(&llm.Response{Text: reply}, req)
	require.NoError(t, err)
	require.Len(t, slides, 8)

	assert.Equal(t, "Welcome to Photosynthesis", slides[0].Title)
	assert.Equal(t, "Plants turn light into sugar.", slides[0].Content)
	assert.Equal(t, "Ask what plants eat.", slides[0].Notes)
	assert.Equal(t, "A leaf in sunlight", slides[0].ImagePrompt)
	assert.Equal(t, "Chlorophyll", slides[1].Title)
	assert.NotEmpty(t, slides[1].Notes)

	for i := 2; i < 8; i++ {
		assert.Equal(t, cat.ArchetypeSlide(req, i).Title, slides[i].Title, "slide %d", i)
	}
	for _, s := range slides {
		assert.NotNil(t, s.AccessibilityFeatures)
		assert.Empty(t, s.UDLEnhancements)
	}
}

func TestMarkerParserDiscardsExcessAndTruncates(t *testing.T) {
	var b strings.Builder
	for i := 1; i <= 15; i++ {
		b.WriteString("Slide ")
		b.WriteString(string(rune('0' + i%10)))
		b.WriteString(": Part\n")
		b.WriteString(strings.Repeat("x", 700))
		b.WriteString("\n\n")
	}
	req := request(lesson.ProfileCollege)
	slides, err := (&MarkerParser{Catalog: catalog.Default()}).Parse(&llm.Response{Text: b.String()}, req)
	require.NoError(t, err)
	require.Len(t, slides, 12)
	for _, s := range slides {
		assert.Equal(t, 600, len([]rune(s.Content)))
	}
}

func TestMarkerParserWithoutMarkers(t *testing.T) {
	_, err := (&MarkerParser{Catalog: catalog.Default()}).Parse(&llm.Response{Text: "sorry, I can't"}, request(lesson.ProfileK12))
	assert.ErrorIs(t, err, ErrNoSlides)
}

func TestMarkerParserTitleFromFirstLine(t *testing.T) {
	drafts := splitMarkers("Slide 1\nThe Light Reactions\nBody text")
	require.Len(t, drafts, 1)
	assert.Equal(t, "The Light Reactions", drafts[0].Title)
	assert.Equal(t, "Body text", drafts[0].Content)
}

func TestCutFieldMultibyte(t *testing.T) {
	got, ok := cutField("**SPEAKER NOTES:** say ɐɐɐ", "notes")
	require.True(t, ok)
	assert.Equal(t, "say ɐɐɐ", got)

	assert.NotPanics(t, func() {
		_, ok = cutField("İmage: a leaf", "image")
	})
	assert.False(t, ok)

	_, ok = cutField(strings.Repeat("ɐ", 12), "notes")
	assert.False(t, ok)
}

func TestJSONParserFromText(t *testing.T) {
	reply := "```json\n" + `{"slides":[{"title":"A","content":"B","notes":"C","image_prompt":"D"}]}` + "\n```"
	req := request(lesson.ProfileAdaptive)
	slides, err := (&JSONParser{Catalog: catalog.Default()}).Parse(&llm.Response{Text: reply}, req)
	require.NoError(t, err)
	require.Len(t, slides, 12)
	assert.Equal(t, lesson.Slide{
		Title: "A", Content: "B", Notes: "C", ImagePrompt: "D",
		AccessibilityFeatures: map[string]string{}, UDLEnhancements: map[string][]string{},
	}, slides[0])
}

func TestJSONParserRejectsInvalidShape(t *testing.T) {
	_, err := (&JSONParser{Catalog: catalog.Default()}).Parse(&llm.Response{Text: `{"slides":"nope"}`}, request(lesson.ProfileK12))
	var ie *llm.ErrInvalidResponse
	assert.ErrorAs(t, err, &ie)
}

func TestNew(t *testing.T) {
	p, err := New("", catalog.Default())
	require.NoError(t, err)
	assert.IsType(t, &MarkerParser{}, p)

	p, err = New("JSON", catalog.Default())
	require.NoError(t, err)
	assert.IsType(t, &JSONParser{}, p)

	_, err = New("xml", catalog.Default())
	assert.Error(t, err)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "héllo", Truncate("héllo", 10))
	assert.Equal(t, "hé", Truncate("héllo", 2))
	assert.Equal(t, "abc", Truncate("abc", 0))
}
