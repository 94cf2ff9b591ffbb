package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yungbote/udl-lesson-backend/internal/platform/logger"
)

func nopLogger() *logger.Logger { return logger.Nop() }

func TestClassify(t *testing.T) {
	c := DefaultClassifier()
	cases := []struct {
		grade string
		want  GradeCategory
	}{
		{"K", Elementary},
		{"kindergarten", Elementary},
		{"1", Elementary},
		{"Grade 5", Elementary},
		{"elementary", Elementary},
		{"6", MiddleSchool},
		{"8th grade", MiddleSchool},
		{"Middle School", MiddleSchool},
		{"junior high", MiddleSchool},
		{"9", HighSchool},
		{"12", HighSchool},
		{"High School", HighSchool},
		{"College", University},
		{"university freshman", University},
		{"Graduate", University},
		{"undergraduate year 2", University},
		{"professional development", University},
		{"", HighSchool},
		{"adult learners", HighSchool},
		{"13", HighSchool},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, c.Classify(tc.grade), "grade=%q", tc.grade)
	}
}

func TestCourseLevel(t *testing.T) {
	assert.Equal(t, "undergraduate_intro", CourseLevel("College"))
	assert.Equal(t, "graduate_doctoral", CourseLevel("PhD seminar"))
	assert.Equal(t, "graduate_masters", CourseLevel("Graduate"))
	assert.Equal(t, "undergraduate_intro", CourseLevel("undergraduate"))
	assert.Equal(t, "undergraduate_advanced", CourseLevel("400-level"))
	assert.Equal(t, "professional", CourseLevel("Professional"))
}
