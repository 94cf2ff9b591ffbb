package lesson

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	ErrInvalidRequest    = errors.New("invalid lesson request")
	ErrInvalidSlideCount = errors.New("invalid slide count")
	ErrInvalidSlideIndex = errors.New("invalid slide index")
)

const (
	MinSlides = 8
	MaxSlides = 15

	DefaultComplexity = 5
)

// AudienceProfile selects the slide count, complexity bounds and narrative
// voice used for a lesson.
type AudienceProfile string

const (
	ProfileK12      AudienceProfile = "k12"
	ProfileCollege  AudienceProfile = "college"
	ProfileAdaptive AudienceProfile = "adaptive"
)

type profileLimits struct {
	slides        int
	minComplexity int
	maxComplexity int
	contentChars  int
}

var profiles = map[AudienceProfile]profileLimits{
	ProfileK12:      {slides: 8, minComplexity: 1, maxComplexity: 10, contentChars: 500},
	ProfileCollege:  {slides: 12, minComplexity: 3, maxComplexity: 10, contentChars: 600},
	ProfileAdaptive: {slides: 12, minComplexity: 1, maxComplexity: 10, contentChars: 600},
}

func ParseProfile(raw string) (AudienceProfile, error) {
	p := AudienceProfile(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := profiles[p]; !ok {
		return "", fmt.Errorf("%w: unknown audience profile %q", ErrInvalidRequest, raw)
	}
	return p, nil
}

func (p AudienceProfile) Valid() bool {
	_, ok := profiles[p]
	return ok
}

func (p AudienceProfile) SlideCount() int { return profiles[p].slides }

func (p AudienceProfile) ComplexityRange() (int, int) {
	l := profiles[p]
	return l.minComplexity, l.maxComplexity
}

// ContentLimit is the maximum number of characters kept in a generated slide body.
func (p AudienceProfile) ContentLimit() int { return profiles[p].contentChars }

// Request is the immutable input a session is created from.
type Request struct {
	Topic              string          `json:"topic"`
	Chapter            string          `json:"chapter"`
	LessonTitle        string          `json:"lesson_title"`
	GradeLevel         string          `json:"grade_level"`
	LearningObjectives string          `json:"learning_objectives"`
	Duration           string          `json:"duration"`
	ComplexityLevel    int             `json:"complexity_level"`
	AudienceProfile    AudienceProfile `json:"audience_profile"`
	UploadedFilePath   string          `json:"uploaded_file_path,omitempty"`
}

// Objectives splits the newline separated objectives, dropping blanks.
func (r Request) Objectives() []string {
	var out []string
	for _, line := range strings.Split(r.LearningObjectives, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

// Normalize trims fields and fills the profile and complexity defaults.
func (r Request) Normalize(defaultProfile AudienceProfile) Request {
	r.Topic = strings.TrimSpace(r.Topic)
	r.Chapter = strings.TrimSpace(r.Chapter)
	r.LessonTitle = strings.TrimSpace(r.LessonTitle)
	r.GradeLevel = strings.TrimSpace(r.GradeLevel)
	r.LearningObjectives = strings.TrimSpace(r.LearningObjectives)
	r.Duration = strings.TrimSpace(r.Duration)
	// Only a server-side upload may set the path.
	r.UploadedFilePath = ""
	if r.AudienceProfile == "" {
		r.AudienceProfile = defaultProfile
	}
	if r.ComplexityLevel == 0 {
		r.ComplexityLevel = DefaultComplexity
	}
	return r
}

func (r Request) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"topic", r.Topic},
		{"chapter", r.Chapter},
		{"lesson_title", r.LessonTitle},
		{"grade_level", r.GradeLevel},
		{"learning_objectives", r.LearningObjectives},
		{"duration", r.Duration},
	}
	var missing []string
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing required fields: %s", ErrInvalidRequest, strings.Join(missing, ", "))
	}
	if !r.AudienceProfile.Valid() {
		return fmt.Errorf("%w: unknown audience profile %q", ErrInvalidRequest, r.AudienceProfile)
	}
	lo, hi := r.AudienceProfile.ComplexityRange()
	if r.ComplexityLevel < lo || r.ComplexityLevel > hi {
		return fmt.Errorf("%w: complexity_level must be between %d and %d for the %s profile", ErrInvalidRequest, lo, hi, r.AudienceProfile)
	}
	return nil
}

type Slide struct {
	Title                 string              `json:"title"`
	Content               string              `json:"content"`
	ImagePrompt           string              `json:"image_prompt,omitempty"`
	Notes                 string              `json:"notes,omitempty"`
	AccessibilityFeatures map[string]string   `json:"accessibility_features"`
	UDLEnhancements       map[string][]string `json:"udl_enhancements"`
}

// Copy returns a slide whose maps and lists share nothing with s.
func (s Slide) Copy() Slide {
	out := s
	out.AccessibilityFeatures = make(map[string]string, len(s.AccessibilityFeatures))
	for k, v := range s.AccessibilityFeatures {
		out.AccessibilityFeatures[k] = v
	}
	out.UDLEnhancements = make(map[string][]string, len(s.UDLEnhancements))
	for k, v := range s.UDLEnhancements {
		out.UDLEnhancements[k] = slices.Clone(v)
	}
	return out
}

// AppendEnhancements extends the list for p; existing entries are kept.
func (s *Slide) AppendEnhancements(p UDLPrinciple, items ...string) {
	if s.UDLEnhancements == nil {
		s.UDLEnhancements = map[string][]string{}
	}
	key := string(p)
	s.UDLEnhancements[key] = append(s.UDLEnhancements[key], items...)
}

// SlidePatch holds the optional fields of a slide edit. Nil fields are left
// untouched.
type SlidePatch struct {
	Title       *string `json:"title,omitempty"`
	Content     *string `json:"content,omitempty"`
	Notes       *string `json:"notes,omitempty"`
	ImagePrompt *string `json:"image_prompt,omitempty"`
}

func (p SlidePatch) Empty() bool {
	return p.Title == nil && p.Content == nil && p.Notes == nil && p.ImagePrompt == nil
}

func (p SlidePatch) ApplyTo(s *Slide) {
	if p.Title != nil {
		s.Title = *p.Title
	}
	if p.Content != nil {
		s.Content = *p.Content
	}
	if p.Notes != nil {
		s.Notes = *p.Notes
	}
	if p.ImagePrompt != nil {
		s.ImagePrompt = *p.ImagePrompt
	}
}

type Activity struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type Content struct {
	Title                 string            `json:"title"`
	Overview              string            `json:"overview"`
	LearningObjectives    []string          `json:"learning_objectives"`
	GradeLevel            string            `json:"grade_level"`
	Duration              string            `json:"duration"`
	Materials             []string          `json:"materials"`
	Introduction          string            `json:"introduction"`
	MainActivities        []Activity        `json:"main_activities"`
	Assessment            string            `json:"assessment"`
	Conclusion            string            `json:"conclusion"`
	AccessibilityFeatures map[string]string `json:"accessibility_features"`
	Slides                []Slide           `json:"slides"`
	UDLStage              Stage             `json:"udl_stage"`
	UDLAppliedPrinciples  []UDLPrinciple    `json:"udl_applied_principles"`
}

// NewContent validates c and returns an owned copy with maps initialised.
// Slide counts outside [MinSlides, MaxSlides] are rejected, never trimmed.
func NewContent(c Content) (*Content, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	out := c.Clone()
	if out.UDLStage == "" {
		out.UDLStage = StageBaseline
	}
	return out, nil
}

func (c *Content) Validate() error {
	if n := len(c.Slides); n < MinSlides || n > MaxSlides {
		return fmt.Errorf("%w: lesson has %d slides, want %d-%d", ErrInvalidSlideCount, n, MinSlides, MaxSlides)
	}
	return nil
}

func (c *Content) Clone() *Content {
	if c == nil {
		return nil
	}
	out := *c
	out.LearningObjectives = slices.Clone(c.LearningObjectives)
	out.Materials = slices.Clone(c.Materials)
	out.MainActivities = slices.Clone(c.MainActivities)
	out.AccessibilityFeatures = make(map[string]string, len(c.AccessibilityFeatures))
	for k, v := range c.AccessibilityFeatures {
		out.AccessibilityFeatures[k] = v
	}
	out.Slides = make([]Slide, len(c.Slides))
	for i, s := range c.Slides {
		out.Slides[i] = s.Copy()
	}
	out.UDLAppliedPrinciples = slices.Clone(c.UDLAppliedPrinciples)
	return &out
}

// MergeAccessibility overwrites matching keys and adds new ones.
func (c *Content) MergeAccessibility(features map[string]string) {
	if c.AccessibilityFeatures == nil {
		c.AccessibilityFeatures = map[string]string{}
	}
	for k, v := range features {
		c.AccessibilityFeatures[k] = v
	}
}

// Origin says whether content came from the model or the static catalog.
type Origin string

const (
	OriginAI       Origin = "ai"
	OriginFallback Origin = "fallback"
)
