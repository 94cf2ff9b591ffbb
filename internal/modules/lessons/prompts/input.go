package prompts

// Input carries every field any lesson prompt may reference. Unused fields
// render empty (templates use missingkey=zero).
type Input struct {
	// Request
	Topic       string
	Chapter     string
	LessonTitle string
	GradeLevel  string
	Duration    string
	Objectives  []string

	// Audience
	AudienceProfile  string
	AudienceGuidance string
	LevelContext     string
	Complexity       int

	// Baseline structure
	Outline      []string
	SlideCount   int
	ContentChars int

	// UDL enhancement
	Principle          string
	PrincipleTag       string
	PrincipleFocus     string
	Guidelines         []string
	LessonText         string
	CustomRequirements string

	// Slide revision
	SlideIndex       int
	SlideTitle       string
	SlideContent     string
	SlideNotes       string
	SlideImagePrompt string
	Instruction      string
}
