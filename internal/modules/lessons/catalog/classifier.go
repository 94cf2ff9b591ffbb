package catalog

import (
	"regexp"
	"strconv"
	"strings"
)

type GradeCategory string

const (
	Elementary   GradeCategory = "elementary"
	MiddleSchool GradeCategory = "middle_school"
	HighSchool   GradeCategory = "high_school"
	University   GradeCategory = "university"

	DefaultCategory = HighSchool
)

// Rule maps a normalized grade string to a category when Match returns true.
type Rule struct {
	Name     string
	Match    func(grade string) bool
	Category GradeCategory
}

// Classifier evaluates rules in order; the first match wins.
type Classifier struct {
	Rules    []Rule
	Fallback GradeCategory
}

var gradeNumber = regexp.MustCompile(`\d+`)

func anyWord(words ...string) func(string) bool {
	return func(grade string) bool {
		for _, w := range words {
			if strings.Contains(grade, w) {
				return true
			}
		}
		return false
	}
}

// numericGrade matches when the first number in grade falls in [lo, hi].
func numericGrade(lo, hi int) func(string) bool {
	return func(grade string) bool {
		m := gradeNumber.FindString(grade)
		if m == "" {
			return false
		}
		n, err := strconv.Atoi(m)
		if err != nil {
			return false
		}
		return n >= lo && n <= hi
	}
}

func kindergarten(grade string) bool {
	if grade == "k" || strings.HasPrefix(grade, "k-") || strings.HasPrefix(grade, "k ") {
		return true
	}
	return strings.Contains(grade, "kindergarten") || strings.Contains(grade, "pre-k") || strings.Contains(grade, "prek")
}

// DefaultClassifier recognises the usual ways grade levels are written.
// Word rules run before numeric ones so "college year 2" stays university.
func DefaultClassifier() *Classifier {
	return &Classifier{
		Fallback: DefaultCategory,
		Rules: []Rule{
			{Name: "higher-ed words", Match: anyWord("college", "university", "graduate", "undergrad", "professional", "phd", "master"), Category: University},
			{Name: "kindergarten", Match: kindergarten, Category: Elementary},
			{Name: "elementary words", Match: anyWord("elementary", "primary"), Category: Elementary},
			{Name: "middle words", Match: anyWord("middle", "junior high"), Category: MiddleSchool},
			{Name: "high words", Match: anyWord("high"), Category: HighSchool},
			{Name: "grades 1-5", Match: numericGrade(1, 5), Category: Elementary},
			{Name: "grades 6-8", Match: numericGrade(6, 8), Category: MiddleSchool},
			{Name: "grades 9-12", Match: numericGrade(9, 12), Category: HighSchool},
		},
	}
}

func (c *Classifier) Classify(grade string) GradeCategory {
	g := strings.ToLower(strings.TrimSpace(grade))
	if g != "" {
		for _, r := range c.Rules {
			if r.Match(g) {
				return r.Category
			}
		}
	}
	return c.Fallback
}

// CourseLevel picks a course-level key for college requests from the grade
// string. Unrecognised strings map to undergraduate_intro.
func CourseLevel(grade string) string {
	g := strings.ToLower(strings.TrimSpace(grade))
	switch {
	case strings.Contains(g, "doctor"), strings.Contains(g, "phd"):
		return "graduate_doctoral"
	case strings.Contains(g, "master"), strings.Contains(g, "graduate") && !strings.Contains(g, "undergrad"):
		return "graduate_masters"
	case strings.Contains(g, "professional"), strings.Contains(g, "continuing"):
		return "professional"
	case strings.Contains(g, "advanced"), strings.Contains(g, "400"), strings.Contains(g, "senior"):
		return "undergraduate_advanced"
	case strings.Contains(g, "intermediate"), strings.Contains(g, "300"), strings.Contains(g, "junior"):
		return "undergraduate_intermediate"
	default:
		return "undergraduate_intro"
	}
}
