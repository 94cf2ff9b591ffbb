package parse

import (
	"regexp"
	"strings"

	"github.com/yungbote/udl-lesson-backend/internal/domain/lesson"
	"github.com/yungbote/udl-lesson-backend/internal/modules/lessons/catalog"
	"github.com/yungbote/udl-lesson-backend/internal/modules/lessons/prompts"
	"github.com/yungbote/udl-lesson-backend/internal/platform/llm"
)

// slideMarker matches "Slide 3: Title", "**Slide 3 - Title**", "## Slide 3".
var slideMarker = regexp.MustCompile(`(?im)^[\s#*]*slide\s+\d+\s*(?:[:.\-)]\s*)?(.*)$`)

var fieldPrefixes = map[string][]string{
	"notes": {"notes:", "instructor notes:", "speaker notes:"},
	"image": {"image:", "image prompt:", "visual:"},
}

// MarkerParser reads free text split on "Slide N" markers. Slides are
// taken in reply order; the numbers themselves are ignored.
type MarkerParser struct {
	Catalog catalog.Source
}

func (p *MarkerParser) Prompt() prompts.PromptName { return prompts.PromptBaselineSlides }

func (p *MarkerParser) Parse(resp *llm.Response, req lesson.Request) ([]lesson.Slide, error) {
	if resp == nil {
		return nil, ErrNoSlides
	}
	drafts := splitMarkers(resp.Text)
	if len(drafts) == 0 {
		return nil, ErrNoSlides
	}
	return normalize(p.Catalog.Current(), req, drafts), nil
}

// splitMarkers returns one draft per "Slide N" section of text.
func splitMarkers(text string) []draft {
	locs := slideMarker.FindAllStringSubmatchIndex(text, -1)
	out := make([]draft, 0, len(locs))
	for i, loc := range locs {
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		title := cleanTitle(text[loc[2]:loc[3]])
		out = append(out, parseBody(title, text[loc[1]:end]))
	}
	return out
}

func cleanTitle(s string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(s), "*#"))
}

func parseBody(title, body string) draft {
	d := draft{Title: title}
	var content []string
	var field *string
	for _, raw := range strings.Split(body, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if v, ok := cutField(line, "notes"); ok {
			d.Notes, field = v, &d.Notes
			continue
		}
		if v, ok := cutField(line, "image"); ok {
			d.ImagePrompt, field = v, &d.ImagePrompt
			continue
		}
		if field != nil {
			*field = strings.TrimSpace(*field + " " + line)
			continue
		}
		if d.Title == "" {
			d.Title = cleanTitle(line)
			continue
		}
		content = append(content, line)
	}
	d.Content = strings.Join(content, "\n")
	return d
}

func cutField(line, name string) (string, bool) {
	line = strings.TrimLeft(line, "*-_ ")
	for _, prefix := range fieldPrefixes[name] {
		if len(line) >= len(prefix) && strings.EqualFold(line[:len(prefix)], prefix) {
			return strings.TrimSpace(strings.Trim(line[len(prefix):], "* ")), true
		}
	}
	return "", false
}
