package prompts

import (
	"fmt"
	"strings"

	"github.com/yungbote/udl-lesson-backend/internal/domain/lesson"
)

var audienceGuidance = map[lesson.AudienceProfile]string{
	lesson.ProfileK12: `
K-12 REQUIREMENTS:
- Use clear, age-appropriate language for the stated grade level
- Build from concrete examples to abstract ideas
- Include hands-on activities, checks for understanding and visuals
- Keep each slide focused on one idea`,
	lesson.ProfileCollege: `
COLLEGE-LEVEL REQUIREMENTS:
- Use sophisticated academic language appropriate for higher education
- Include current scholarly perspectives and research-based framing
- Incorporate critical thinking and analytical frameworks
- Reference real-world applications and case studies
- Use discipline-specific terminology with clear explanations
- Design for adult learners with diverse academic backgrounds`,
	lesson.ProfileAdaptive: `
ADAPTIVE REQUIREMENTS:
- Match vocabulary, pacing and examples to the audience described below
- Balance explanation, worked examples and practice
- Include real-world connections and a check for understanding`,
}

// AudienceGuidance returns the system-prompt block for a profile.
func AudienceGuidance(p lesson.AudienceProfile) string {
	return strings.TrimSpace(audienceGuidance[p])
}

var principleFocus = map[lesson.UDLPrinciple]string{
	lesson.PrincipleEngagement: `
ENGAGEMENT (the "why" of learning):
- Connect to learners' interests, goals and prior experience
- Offer choice in how learners engage with the content
- Include authentic problems, collaboration and culturally responsive examples
- Support persistence and self-regulation with goals and reflection`,
	lesson.PrincipleRepresentation: `
REPRESENTATION (the "what" of learning):
- Provide multiple formats: visual, text, audio and multimedia
- Support vocabulary, symbols and language with glossaries and translations
- Activate background knowledge and highlight big ideas and relationships
- Offer different levels of detail for varied prior knowledge`,
	lesson.PrincipleActionExpression: `
ACTION & EXPRESSION (the "how" of learning):
- Provide multiple ways to demonstrate knowledge (written, oral, visual, digital)
- Include individual and collaborative response options
- Support planning and executive function with templates, checklists and rubrics
- Accommodate different physical and technological needs`,
}

func PrincipleFocus(p lesson.UDLPrinciple) string {
	return strings.TrimSpace(principleFocus[p])
}

// FormatLesson serializes content into the plain-text block sent to the
// model for enhancement.
func FormatLesson(c *lesson.Content) string {
	var b strings.Builder
	fmt.Fprintf(&b, "LESSON: %s\n", c.Title)
	fmt.Fprintf(&b, "LEVEL: %s\n", c.GradeLevel)
	fmt.Fprintf(&b, "DURATION: %s\n\n", c.Duration)
	b.WriteString("LEARNING OBJECTIVES:\n")
	for _, o := range c.LearningObjectives {
		fmt.Fprintf(&b, "- %s\n", o)
	}
	b.WriteString("\nSLIDES:\n")
	for i, s := range c.Slides {
		fmt.Fprintf(&b, "\nSLIDE %d: %s\n", i+1, s.Title)
		fmt.Fprintf(&b, "Content: %s\n", s.Content)
		fmt.Fprintf(&b, "Instructor Notes: %s\n", s.Notes)
	}
	return strings.TrimSpace(b.String())
}
