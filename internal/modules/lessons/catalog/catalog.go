package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"text/template"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/udl-lesson-backend/internal/domain/lesson"
)

//go:embed catalog.yaml
var embedded []byte

// Voice describes how lessons for a grade category are pitched.
type Voice struct {
	Label      string `yaml:"label"`
	Audience   string `yaml:"audience"`
	Approach   string `yaml:"approach"`
	Vocabulary string `yaml:"vocabulary"`
	Assessment string `yaml:"assessment"`
}

type archetypeDoc struct {
	Section     string `yaml:"section"`
	Title       string `yaml:"title"`
	Content     string `yaml:"content"`
	Notes       string `yaml:"notes"`
	ImagePrompt string `yaml:"image_prompt"`
}

type activityDoc struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

type profileDoc struct {
	GradeLabel    string                       `yaml:"grade_label"`
	Overview      string                       `yaml:"overview"`
	Introduction  string                       `yaml:"introduction"`
	Assessment    string                       `yaml:"assessment"`
	Conclusion    string                       `yaml:"conclusion"`
	Materials     []string                     `yaml:"materials"`
	Activities    []activityDoc                `yaml:"activities"`
	ImagePrompt   string                       `yaml:"image_prompt"`
	Archetypes    []archetypeDoc               `yaml:"archetypes"`
	Pad           archetypeDoc                 `yaml:"pad"`
	Enhancements  map[string][]string          `yaml:"enhancements"`
	Accessibility map[string]map[string]string `yaml:"accessibility"`
}

type document struct {
	GradeCategories map[GradeCategory]Voice `yaml:"grade_categories"`
	CourseLevels    map[string]string       `yaml:"course_levels"`
	UDLGuidelines   map[string][]string     `yaml:"udl_guidelines"`
	Profiles        map[string]profileDoc   `yaml:"profiles"`
}

// Catalog is an immutable, parsed fallback catalog.
type Catalog struct {
	doc        document
	classifier *Classifier
	parsed     sync.Map // template source -> *template.Template
}

// Source hands out the catalog currently in effect.
type Source interface {
	Current() *Catalog
}

// Current lets a *Catalog be used wherever a Source is expected.
func (c *Catalog) Current() *Catalog { return c }

var (
	defaultOnce sync.Once
	defaultCat  *Catalog
)

// Default returns the embedded catalog. It panics if the embedded file is
// invalid, which the package tests guard against.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Parse(embedded)
		if err != nil {
			panic(fmt.Sprintf("catalog: embedded catalog invalid: %v", err))
		}
		defaultCat = c
	})
	return defaultCat
}

func LoadFile(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return Parse(raw)
}

// Parse decodes and validates a catalog document. Every template is parsed
// and rendered once against a sample request so broken catalogs fail here.
func Parse(raw []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	c := &Catalog{doc: doc, classifier: DefaultClassifier()}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Catalog) validate() error {
	for _, cat := range []GradeCategory{Elementary, MiddleSchool, HighSchool, University} {
		if _, ok := c.doc.GradeCategories[cat]; !ok {
			return fmt.Errorf("catalog: missing grade category %q", cat)
		}
	}
	if _, ok := c.doc.CourseLevels["undergraduate_intro"]; !ok {
		return fmt.Errorf("catalog: missing course level %q", "undergraduate_intro")
	}
	for _, p := range []lesson.AudienceProfile{lesson.ProfileK12, lesson.ProfileCollege, lesson.ProfileAdaptive} {
		pd, ok := c.doc.Profiles[string(p)]
		if !ok {
			return fmt.Errorf("catalog: missing profile %q", p)
		}
		if len(pd.Archetypes) != p.SlideCount() {
			return fmt.Errorf("catalog: profile %q has %d archetypes, want %d", p, len(pd.Archetypes), p.SlideCount())
		}
		for _, principle := range lesson.Principles {
			if len(pd.Enhancements[string(principle)]) == 0 {
				return fmt.Errorf("catalog: profile %q has no %s enhancements", p, principle)
			}
			if len(pd.Accessibility[string(principle)]) == 0 {
				return fmt.Errorf("catalog: profile %q has no %s accessibility features", p, principle)
			}
		}
		sample := lesson.Request{
			Topic: "Sample", Chapter: "Unit", LessonTitle: "Lesson", GradeLevel: "5",
			LearningObjectives: "Objective", Duration: "45 min", AudienceProfile: p,
		}
		if _, err := c.renderAll(p, c.templateData(sample, 1)); err != nil {
			return fmt.Errorf("catalog: profile %q: %w", p, err)
		}
	}
	return nil
}

func (c *Catalog) renderAll(p lesson.AudienceProfile, data TemplateData) ([]string, error) {
	pd := c.doc.Profiles[string(p)]
	srcs := []string{pd.GradeLabel, pd.Overview, pd.Introduction, pd.Assessment, pd.Conclusion, pd.ImagePrompt,
		pd.Pad.Title, pd.Pad.Content, pd.Pad.Notes, pd.Pad.ImagePrompt}
	srcs = append(srcs, pd.Materials...)
	for _, a := range pd.Activities {
		srcs = append(srcs, a.Name, a.Description)
	}
	for _, a := range pd.Archetypes {
		srcs = append(srcs, a.Title, a.Content, a.Notes, a.ImagePrompt)
	}
	out := make([]string, 0, len(srcs))
	for _, src := range srcs {
		s, err := c.render(src, data)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// TemplateData is what catalog templates see.
type TemplateData struct {
	Topic          string
	Chapter        string
	LessonTitle    string
	GradeLevel     string
	Duration       string
	Objectives     []string
	FirstObjective string
	Position       int
	Category       GradeCategory
	Voice          Voice
	CourseLevel    string
}

func (c *Catalog) templateData(req lesson.Request, position int) TemplateData {
	cat := c.Classify(req.GradeLevel)
	objectives := req.Objectives()
	first := req.LessonTitle
	if len(objectives) > 0 {
		first = objectives[0]
	}
	return TemplateData{
		Topic:          req.Topic,
		Chapter:        req.Chapter,
		LessonTitle:    req.LessonTitle,
		GradeLevel:     req.GradeLevel,
		Duration:       req.Duration,
		Objectives:     objectives,
		FirstObjective: first,
		Position:       position,
		Category:       cat,
		Voice:          c.doc.GradeCategories[cat],
		CourseLevel:    c.CourseLevelContext(req.GradeLevel),
	}
}

func (c *Catalog) render(src string, data TemplateData) (string, error) {
	src = strings.TrimSpace(src)
	if src == "" || !strings.Contains(src, "{{") {
		return src, nil
	}
	var t *template.Template
	if cached, ok := c.parsed.Load(src); ok {
		t = cached.(*template.Template)
	} else {
		parsed, err := template.New("").Option("missingkey=error").Parse(src)
		if err != nil {
			return "", fmt.Errorf("parse template %q: %w", src, err)
		}
		c.parsed.Store(src, parsed)
		t = parsed
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render template %q: %w", src, err)
	}
	return strings.TrimSpace(buf.String()), nil
}

// mustRender is only used on templates that passed validate().
func (c *Catalog) mustRender(src string, data TemplateData) string {
	s, err := c.render(src, data)
	if err != nil {
		return strings.TrimSpace(src)
	}
	return s
}

func (c *Catalog) profile(p lesson.AudienceProfile) profileDoc {
	if pd, ok := c.doc.Profiles[string(p)]; ok {
		return pd
	}
	return c.doc.Profiles[string(lesson.ProfileK12)]
}

func (c *Catalog) Classify(grade string) GradeCategory {
	return c.classifier.Classify(grade)
}

func (c *Catalog) Voice(cat GradeCategory) Voice {
	return c.doc.GradeCategories[cat]
}

// CourseLevelContext describes the expectations for a college course level.
func (c *Catalog) CourseLevelContext(grade string) string {
	if s, ok := c.doc.CourseLevels[CourseLevel(grade)]; ok {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(c.doc.CourseLevels["undergraduate_intro"])
}

// Outline returns the ordered section names used to brief the model.
func (c *Catalog) Outline(p lesson.AudienceProfile) []string {
	pd := c.profile(p)
	out := make([]string, len(pd.Archetypes))
	for i, a := range pd.Archetypes {
		out[i] = a.Section
	}
	return out
}

// Guidelines lists the CAST guideline headings for a principle.
func (c *Catalog) Guidelines(principle lesson.UDLPrinciple) []string {
	return append([]string(nil), c.doc.UDLGuidelines[string(principle)]...)
}

// Slides synthesizes the profile's full slide deck for req. Deterministic.
func (c *Catalog) Slides(req lesson.Request) []lesson.Slide {
	pd := c.profile(req.AudienceProfile)
	out := make([]lesson.Slide, len(pd.Archetypes))
	for i := range pd.Archetypes {
		out[i] = c.ArchetypeSlide(req, i)
	}
	return out
}

// ArchetypeSlide renders the archetype at position (0-based). Positions past
// the archetype list use the profile's generic pad slide.
func (c *Catalog) ArchetypeSlide(req lesson.Request, position int) lesson.Slide {
	pd := c.profile(req.AudienceProfile)
	a := pd.Pad
	if position >= 0 && position < len(pd.Archetypes) {
		a = pd.Archetypes[position]
	}
	return c.slideFrom(pd, a, c.templateData(req, position+1))
}

// PadSlide renders the generic filler slide for position (0-based).
func (c *Catalog) PadSlide(req lesson.Request, position int) lesson.Slide {
	pd := c.profile(req.AudienceProfile)
	return c.slideFrom(pd, pd.Pad, c.templateData(req, position+1))
}

func (c *Catalog) slideFrom(pd profileDoc, a archetypeDoc, data TemplateData) lesson.Slide {
	prompt := a.ImagePrompt
	if strings.TrimSpace(prompt) == "" {
		prompt = pd.ImagePrompt
	}
	return lesson.Slide{
		Title:                 c.mustRender(a.Title, data),
		Content:               c.mustRender(a.Content, data),
		Notes:                 c.mustRender(a.Notes, data),
		ImagePrompt:           c.mustRender(prompt, data),
		AccessibilityFeatures: map[string]string{},
		UDLEnhancements:       map[string][]string{},
	}
}

// ImagePrompt is the profile's default illustration prompt for req.
func (c *Catalog) ImagePrompt(req lesson.Request) string {
	return c.mustRender(c.profile(req.AudienceProfile).ImagePrompt, c.templateData(req, 1))
}

// BaselineContent wraps slides in the profile's lesson scaffolding
// (overview, materials, activities...) at the baseline stage.
func (c *Catalog) BaselineContent(req lesson.Request, slides []lesson.Slide) (*lesson.Content, error) {
	pd := c.profile(req.AudienceProfile)
	data := c.templateData(req, 1)
	materials := make([]string, len(pd.Materials))
	for i, m := range pd.Materials {
		materials[i] = c.mustRender(m, data)
	}
	activities := make([]lesson.Activity, len(pd.Activities))
	for i, a := range pd.Activities {
		activities[i] = lesson.Activity{Name: c.mustRender(a.Name, data), Description: c.mustRender(a.Description, data)}
	}
	objectives := req.Objectives()
	if objectives == nil {
		objectives = []string{}
	}
	return lesson.NewContent(lesson.Content{
		Title:                 req.LessonTitle,
		Overview:              c.mustRender(pd.Overview, data),
		LearningObjectives:    objectives,
		GradeLevel:            c.mustRender(pd.GradeLabel, data),
		Duration:              req.Duration,
		Materials:             materials,
		Introduction:          c.mustRender(pd.Introduction, data),
		MainActivities:        activities,
		Assessment:            c.mustRender(pd.Assessment, data),
		Conclusion:            c.mustRender(pd.Conclusion, data),
		AccessibilityFeatures: map[string]string{},
		Slides:                slides,
		UDLStage:              lesson.StageBaseline,
		UDLAppliedPrinciples:  []lesson.UDLPrinciple{},
	})
}

// FallbackLesson is the guaranteed-success baseline for req.
func (c *Catalog) FallbackLesson(req lesson.Request) (*lesson.Content, error) {
	return c.BaselineContent(req, c.Slides(req))
}

// Enhancements returns a fresh copy of the static enhancement list.
func (c *Catalog) Enhancements(p lesson.AudienceProfile, principle lesson.UDLPrinciple) []string {
	return append([]string(nil), c.profile(p).Enhancements[string(principle)]...)
}

// AccessibilityFeatures returns a fresh copy of the principle's category map.
func (c *Catalog) AccessibilityFeatures(p lesson.AudienceProfile, principle lesson.UDLPrinciple) map[string]string {
	src := c.profile(p).Accessibility[string(principle)]
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

// AccessibilityKeys lists the principle's feature categories in sorted order.
func (c *Catalog) AccessibilityKeys(p lesson.AudienceProfile, principle lesson.UDLPrinciple) []string {
	src := c.profile(p).Accessibility[string(principle)]
	keys := make([]string, 0, len(src))
	for k := range src {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
