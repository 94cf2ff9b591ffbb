package export

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/yungbote/udl-lesson-backend/internal/domain/lesson"
)

// Slide geometry in EMU (16:9 widescreen).
const (
	slideWidth  int64 = 12192000
	slideHeight int64 = 6858000

	emuPerInch int64 = 914400

	coverMedia = "cover.png"
	coverRelID = "rId3"
)

const (
	titleSlideSize   = 3600
	subtitleSize     = 1800
	contentTitleSize = 2800
	bodySize         = 1800
	resourcesSize    = 1600
	calloutSize      = 1000
	notesSize        = 1200

	calloutLimit = 3
)

const udlBanner = "Based on Universal Design for Learning (UDL) Principles"

var udlReminder = []string{
	"UDL PRINCIPLES APPLIED:",
	"• Multiple means of representation (visual, auditory, text)",
	"• Multiple means of engagement (choice, relevance, motivation)",
	"• Multiple means of action/expression (flexible demonstration of learning)",
}

// Global accessibility categories listed on the title slide, with their defaults.
var titleCategories = []struct {
	key, label, fallback string
}{
	{"visual", "Visual", "Standard visual formatting"},
	{"auditory", "Auditory", "Clear verbal instructions"},
	{"cognitive", "Cognitive", "Simple structure and language"},
	{"physical", "Physical", "Standard navigation"},
	{"language", "Language", "Clear language support"},
}

type rect struct{ X, Y, W, H int64 }

type paragraph struct {
	Text   string
	Size   int
	Bold   bool
	Italic bool
	Color  string
	Align  string
}

type textBox struct {
	ID         int
	Name       string
	Box        rect
	Fill       string
	Anchor     string
	Paragraphs []paragraph
}

type picture struct {
	ID          int
	Name        string
	Description string
	RelID       string
	Media       string
	Box         rect
}

type slidePart struct {
	Number     int
	Background string
	Boxes      []textBox
	Picture    *picture
	Notes      []paragraph
}

type deck struct {
	Title   string
	Subject string
	Author  string
	Created string
	Width   int64
	Height  int64
	Theme   Theme
	Slides  []slidePart
	Cover   []byte
}

func inches(v float64) int64 { return int64(v * float64(emuPerInch)) }

// lines splits text into one paragraph per line with a shared style.
func lines(text string, style paragraph) []paragraph {
	var out []paragraph
	for _, line := range strings.Split(text, "\n") {
		p := style
		p.Text = strings.TrimRight(line, "\r")
		out = append(out, p)
	}
	return out
}

// featureLabel turns "self_regulation" into "Self Regulation".
func featureLabel(key string) string {
	words := strings.Fields(strings.ReplaceAll(key, "_", " "))
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + strings.ToLower(w[size:])
	}
	return strings.Join(words, " ")
}

// sortedFeatures lists features in key order so output is deterministic.
func sortedFeatures(features map[string]string) []string {
	keys := make([]string, 0, len(features))
	for k := range features {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, fmt.Sprintf("%s: %s", featureLabel(k), features[k]))
	}
	return out
}

func buildDeck(c *lesson.Content, theme Theme, cover []byte) *deck {
	d := &deck{
		Title:   c.Title,
		Subject: c.Overview,
		Width:   slideWidth,
		Height:  slideHeight,
		Theme:   theme,
		Cover:   cover,
	}
	d.Slides = append(d.Slides, titleSlide(c, theme, cover != nil))
	for _, s := range c.Slides {
		d.Slides = append(d.Slides, contentSlide(s, theme))
	}
	d.Slides = append(d.Slides, resourcesSlide(c, theme))
	for i := range d.Slides {
		d.Slides[i].Number = i + 1
	}
	return d
}

func titleSlide(c *lesson.Content, theme Theme, withCover bool) slidePart {
	subtitle := fmt.Sprintf("Grade Level: %s\nDuration: %s\n\n%s", c.GradeLevel, c.Duration, udlBanner)
	part := slidePart{
		Background: theme.Background,
		Boxes: []textBox{
			{
				ID:         2,
				Name:       "Title",
				Box:        rect{inches(0.75), inches(1.2), inches(11.83), inches(1.5)},
				Anchor:     "b",
				Paragraphs: lines(c.Title, paragraph{Size: titleSlideSize, Bold: true, Color: theme.Title, Align: "ctr"}),
			},
			{
				ID:         3,
				Name:       "Subtitle",
				Box:        rect{inches(0.75), inches(2.9), inches(7.5), inches(2.2)},
				Anchor:     "t",
				Paragraphs: lines(subtitle, paragraph{Size: subtitleSize, Color: theme.Subtitle}),
			},
		},
	}
	if withCover {
		part.Picture = &picture{
			ID:          4,
			Name:        "Cover",
			Description: fmt.Sprintf("Title card for %s", c.Title),
			RelID:       coverRelID,
			Media:       coverMedia,
			Box:         rect{inches(8.5), inches(3.0), inches(4.0), inches(2.25)},
		}
	}

	var notes strings.Builder
	notes.WriteString("This presentation follows Universal Design for Learning principles and includes the following accessibility features:\n\n")
	for _, cat := range titleCategories {
		v := c.AccessibilityFeatures[cat.key]
		if v == "" {
			v = cat.fallback
		}
		fmt.Fprintf(&notes, "%s: %s\n", cat.label, v)
	}
	fmt.Fprintf(&notes, "\nLesson Overview: %s", c.Overview)
	part.Notes = lines(notes.String(), paragraph{Size: notesSize})
	return part
}

func contentSlide(s lesson.Slide, theme Theme) slidePart {
	part := slidePart{
		Background: theme.Background,
		Boxes: []textBox{
			{
				ID:         2,
				Name:       "Title",
				Box:        rect{inches(0.5), inches(0.3), inches(12.33), inches(1.2)},
				Anchor:     "ctr",
				Paragraphs: lines(s.Title, paragraph{Size: contentTitleSize, Bold: true, Color: theme.Title}),
			},
			{
				ID:         3,
				Name:       "Content",
				Box:        rect{inches(0.5), inches(1.6), inches(12.33), inches(4.9)},
				Anchor:     "t",
				Paragraphs: lines(s.Content, paragraph{Size: bodySize, Color: theme.Body}),
			},
		},
	}

	features := sortedFeatures(s.AccessibilityFeatures)
	if len(features) > 0 {
		shown := features
		if len(shown) > calloutLimit {
			shown = shown[:calloutLimit]
		}
		part.Boxes = append(part.Boxes, textBox{
			ID:     4,
			Name:   "Accessibility Features",
			Box:    rect{inches(0.5), inches(6.6), inches(12.33), inches(0.7)},
			Anchor: "t",
			Paragraphs: []paragraph{{
				Text:   "Accessibility Features: " + strings.Join(shown, " | "),
				Size:   calloutSize,
				Italic: true,
				Color:  theme.Callout,
			}},
		})
	}

	var notes []string
	if s.Notes != "" {
		notes = append(notes, "PRESENTER NOTES:", s.Notes, "")
	}
	if s.ImagePrompt != "" {
		notes = append(notes, "VISUAL DESCRIPTION:", "Recommended image: "+s.ImagePrompt, "")
	}
	if len(features) > 0 {
		notes = append(notes, "ACCESSIBILITY FEATURES:")
		for _, f := range features {
			notes = append(notes, "• "+f)
		}
		notes = append(notes, "")
	}
	notes = append(notes, udlReminder...)
	part.Notes = lines(strings.Join(notes, "\n"), paragraph{Size: notesSize})
	return part
}

func resourcesSlide(c *lesson.Content, theme Theme) slidePart {
	var body strings.Builder
	body.WriteString("📚 Materials Used in This Lesson:\n")
	for _, m := range c.Materials {
		fmt.Fprintf(&body, "• %s\n", m)
	}
	fmt.Fprintf(&body, "\n🎯 Assessment Strategies:\n• %s\n", c.Assessment)
	fmt.Fprintf(&body, "\n🔄 Next Steps:\n• %s\n", c.Conclusion)
	body.WriteString("\n♿ Accessibility Support:\n")
	body.WriteString("• All slides include alt text and high contrast\n")
	body.WriteString("• Content available in multiple formats\n")
	body.WriteString("• Flexible pacing and participation options\n")
	body.WriteString("• Assistive technology compatible\n")
	body.WriteString("\n📞 For additional support or accommodations, please contact your instructor.")

	notes := fmt.Sprintf(`This lesson plan was generated using Universal Design for Learning principles to ensure accessibility and engagement for all learners.

Key UDL Elements Included:
- Multiple means of representation
- Multiple means of engagement
- Multiple means of action and expression

The lesson is designed for %s students and should take approximately %s to complete.

All materials and activities can be adapted further based on specific student needs and classroom contexts.`, c.GradeLevel, c.Duration)

	return slidePart{
		Background: theme.Background,
		Boxes: []textBox{
			{
				ID:         2,
				Name:       "Title",
				Box:        rect{inches(0.5), inches(0.3), inches(12.33), inches(1.2)},
				Anchor:     "ctr",
				Paragraphs: lines("Additional Resources & Support", paragraph{Size: contentTitleSize, Bold: true, Color: theme.Title}),
			},
			{
				ID:         3,
				Name:       "Content",
				Box:        rect{inches(0.5), inches(1.6), inches(12.33), inches(5.6)},
				Anchor:     "t",
				Paragraphs: lines(body.String(), paragraph{Size: resourcesSize, Color: theme.Body}),
			},
		},
		Notes: lines(notes, paragraph{Size: notesSize}),
	}
}
