package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/yungbote/udl-lesson-backend/internal/domain/lesson"
)

func photosynthesis(profile lesson.AudienceProfile, grade string) lesson.Request {
	return lesson.Request{
		Topic:              "Photosynthesis",
		Chapter:            "Plant Biology",
		LessonTitle:        "How Plants Make Food",
		GradeLevel:         grade,
		LearningObjectives: "Explain light reactions",
		Duration:           "45 min",
		ComplexityLevel:    5,
		AudienceProfile:    profile,
	}
}

func TestEmbeddedCatalogIsValid(t *testing.T) {
	_, err := Parse(embedded)
	require.NoError(t, err)
	assert.NotNil(t, Default())
}

func TestSlidesHaveProfileCountAndTopic(t *testing.T) {
	grades := []string{"K", "3", "5", "7", "Middle School", "10", "12", "High School", "College", "University", "graduate", "unknown"}
	profiles := []lesson.AudienceProfile{lesson.ProfileK12, lesson.ProfileCollege, lesson.ProfileAdaptive}

	cat := Default()
	for _, p := range profiles {
		for _, g := range grades {
			slides := cat.Slides(photosynthesis(p, g))
			require.Len(t, slides, p.SlideCount(), "profile=%s grade=%s", p, g)
			for i, s := range slides {
				assert.Contains(t, s.Title+" "+s.Content, "Photosynthesis", "profile=%s grade=%s slide=%d", p, g, i)
				assert.NotEmpty(t, s.Notes)
				assert.NotEmpty(t, s.ImagePrompt)
				assert.NotNil(t, s.AccessibilityFeatures)
				assert.NotNil(t, s.UDLEnhancements)
				assert.NotContains(t, s.Content, "{{")
			}
		}
	}
}

func TestK12FallbackStartsWithIntroduction(t *testing.T) {
	slides := Default().Slides(photosynthesis(lesson.ProfileK12, "5"))
	require.Len(t, slides, 8)
	assert.True(t, strings.HasPrefix(slides[0].Title, "Introduction to Photosynthesis"), "got %q", slides[0].Title)
	assert.Equal(t, "Summary: What We Learned About Photosynthesis", slides[7].Title)
}

func TestCollegeFallbackMatchesAcademicArchetypes(t *testing.T) {
	slides := Default().Slides(photosynthesis(lesson.ProfileCollege, "College"))
	require.Len(t, slides, 12)
	assert.Equal(t, "Introduction to Photosynthesis: Academic Context", slides[0].Title)
	assert.Equal(t, "Synthesis & Future Directions", slides[11].Title)
	assert.Equal(t,
		"Professional academic illustration for college-level Photosynthesis content, suitable for higher education presentation",
		slides[0].ImagePrompt)
}

func TestFallbackIsDeterministic(t *testing.T) {
	req := photosynthesis(lesson.ProfileAdaptive, "7")
	a, err := Default().FallbackLesson(req)
	require.NoError(t, err)
	b, err := Default().FallbackLesson(req)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestFallbackLessonScaffolding(t *testing.T) {
	c, err := Default().FallbackLesson(photosynthesis(lesson.ProfileK12, "5"))
	require.NoError(t, err)

	assert.Equal(t, "How Plants Make Food", c.Title)
	assert.Equal(t, "5", c.GradeLevel)
	assert.Equal(t, []string{"Explain light reactions"}, c.LearningObjectives)
	assert.Equal(t, lesson.StageBaseline, c.UDLStage)
	assert.Empty(t, c.AccessibilityFeatures)
	assert.Empty(t, c.UDLAppliedPrinciples)
	assert.NotEmpty(t, c.Materials)
	assert.NotEmpty(t, c.MainActivities)

	college, err := Default().FallbackLesson(photosynthesis(lesson.ProfileCollege, "Masters"))
	require.NoError(t, err)
	assert.Equal(t, "College", college.GradeLevel)
	assert.Contains(t, college.Overview, "Graduate master's level")
}

func TestAdaptiveVoiceFollowsClassifier(t *testing.T) {
	c, err := Default().FallbackLesson(photosynthesis(lesson.ProfileAdaptive, "grade 2"))
	require.NoError(t, err)
	assert.Equal(t, "Elementary", c.GradeLevel)
	assert.Contains(t, c.Overview, "young learners")
}

func TestEnhancementCatalogCopies(t *testing.T) {
	cat := Default()
	list := cat.Enhancements(lesson.ProfileCollege, lesson.PrincipleEngagement)
	require.Len(t, list, 6)
	assert.Equal(t, "Connected to professional career applications and real-world relevance", list[0])
	list[0] = "mutated"
	assert.NotEqual(t, "mutated", cat.Enhancements(lesson.ProfileCollege, lesson.PrincipleEngagement)[0])

	features := cat.AccessibilityFeatures(lesson.ProfileCollege, lesson.PrincipleActionExpression)
	assert.Equal(t, []string{"executive_function", "expression", "physical_action"},
		cat.AccessibilityKeys(lesson.ProfileCollege, lesson.PrincipleActionExpression))
	assert.Len(t, features, 3)
}

func TestPadSlideUsesPosition(t *testing.T) {
	s := Default().PadSlide(photosynthesis(lesson.ProfileCollege, "College"), 4)
	assert.Equal(t, "Advanced Photosynthesis - Section 5", s.Title)
}

func TestParseRejectsWrongArchetypeCount(t *testing.T) {
	var doc document
	require.NoError(t, yaml.Unmarshal(embedded, &doc))
	k12 := doc.Profiles["k12"]
	k12.Archetypes = k12.Archetypes[:7]
	doc.Profiles["k12"] = k12
	raw, err := yaml.Marshal(doc)
	require.NoError(t, err)

	_, err = Parse(raw)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "has 7 archetypes, want 8")

	_, err = Parse([]byte("profiles: {}\n"))
	assert.Error(t, err)
}

func TestLiveReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	require.NoError(t, os.WriteFile(path, embedded, 0o644))

	live, err := NewLive(path, nopLogger())
	require.NoError(t, err)
	first := live.Current()

	updated := strings.Replace(string(embedded), "Key Vocabulary for {{.Topic}}", "Words About {{.Topic}}", 1)
	require.NoError(t, os.WriteFile(path, []byte(updated), 0o644))
	require.NoError(t, live.Reload())
	assert.NotSame(t, first, live.Current())
	assert.Equal(t, "Words About Photosynthesis", live.Current().Slides(photosynthesis(lesson.ProfileK12, "5"))[1].Title)

	require.NoError(t, os.WriteFile(path, []byte("profiles: ["), 0o644))
	assert.Error(t, live.Reload())
	assert.Equal(t, "Words About Photosynthesis", live.Current().Slides(photosynthesis(lesson.ProfileK12, "5"))[1].Title)
}
