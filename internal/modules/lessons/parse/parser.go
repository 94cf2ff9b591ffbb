// Package parse turns model replies into exactly the profile's slide count.
package parse

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/yungbote/udl-lesson-backend/internal/domain/lesson"
	"github.com/yungbote/udl-lesson-backend/internal/modules/lessons/catalog"
	"github.com/yungbote/udl-lesson-backend/internal/modules/lessons/prompts"
	"github.com/yungbote/udl-lesson-backend/internal/platform/llm"
)

var ErrNoSlides = errors.New("reply contains no slides")

// SlideParser converts one baseline reply into slides. Prompt names the
// registry prompt whose reply format the parser understands.
type SlideParser interface {
	Prompt() prompts.PromptName
	Parse(resp *llm.Response, req lesson.Request) ([]lesson.Slide, error)
}

type Kind string

const (
	KindMarker Kind = "marker"
	KindJSON   Kind = "json"
)

// New returns the parser for kind; empty selects the marker parser.
func New(kind string, src catalog.Source) (SlideParser, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(kind))) {
	case "", KindMarker:
		return &MarkerParser{Catalog: src}, nil
	case KindJSON:
		return &JSONParser{Catalog: src}, nil
	default:
		return nil, fmt.Errorf("unknown slide parser %q", kind)
	}
}

// draft is a slide as recovered from a reply, before normalization.
type draft struct {
	Title       string
	Content     string
	Notes       string
	ImagePrompt string
}

// normalize fits drafts to the profile: excess is dropped, content is
// truncated, blanks are filled from the catalog, and missing positions are
// padded with that position's archetype.
func normalize(cat *catalog.Catalog, req lesson.Request, drafts []draft) []lesson.Slide {
	want := req.AudienceProfile.SlideCount()
	limit := req.AudienceProfile.ContentLimit()
	if len(drafts) > want {
		drafts = drafts[:want]
	}
	out := make([]lesson.Slide, 0, want)
	for i, d := range drafts {
		pad := cat.PadSlide(req, i)
		s := lesson.Slide{
			Title:                 firstNonEmpty(d.Title, pad.Title),
			Content:               Truncate(firstNonEmpty(d.Content, pad.Content), limit),
			Notes:                 firstNonEmpty(d.Notes, pad.Notes),
			ImagePrompt:           firstNonEmpty(d.ImagePrompt, cat.ImagePrompt(req)),
			AccessibilityFeatures: map[string]string{},
			UDLEnhancements:       map[string][]string{},
		}
		out = append(out, s)
	}
	for i := len(out); i < want; i++ {
		out = append(out, cat.ArchetypeSlide(req, i))
	}
	return out
}

// Truncate cuts s to at most n runes.
func Truncate(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return strings.TrimSpace(string(r[:n]))
}

func firstNonEmpty(v ...string) string {
	for _, s := range v {
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return ""
}
