package prompts

func RegisterAll() {
	RegisterSpec(Spec{
		Name:    PromptBaselineSlides,
		Version: 1,
		System: `
You are an expert curriculum designer. Create a research-based lesson on {{.Topic}}.

This is the BASELINE STAGE of a multi-stage Universal Design for Learning (UDL) process.

{{.AudienceGuidance}}

Do NOT add UDL-specific accessibility features yet; they are added in later stages.`,
		User: `
Create a lesson plan for:

Subject Area: {{.Topic}}
Module: {{.Chapter}}
Lesson Title: {{.LessonTitle}}
Level: {{.GradeLevel}}{{if .LevelContext}} ({{.LevelContext}}){{end}}
Duration: {{.Duration}}
Complexity: {{.Complexity}} / 10
Learning Objectives:
{{range .Objectives}}- {{.}}
{{end}}
Create exactly {{.SlideCount}} slides with this structure:
{{range $i, $s := .Outline}}{{inc $i}}. {{$s}}
{{end}}
Format every slide as:

Slide N: <title>
<body text, at most {{.ContentChars}} characters>
Notes: <instructor notes>
Image: <description of a supporting visual>`,
		Validators: []Validator{
			RequireNonEmpty("Topic", func(in Input) string { return in.Topic }),
			RequirePositive("SlideCount", func(in Input) int { return in.SlideCount }),
		},
	})

	RegisterSpec(Spec{
		Name:        PromptBaselineSlidesJSON,
		Version:     1,
		SchemaName:  "lesson-slides",
		Description: "Ordered slides of a baseline lesson",
		Schema:      LessonSlidesSchema,
		System: `
You are an expert curriculum designer. Create a research-based lesson on {{.Topic}}.

This is the BASELINE STAGE of a multi-stage Universal Design for Learning (UDL) process.

{{.AudienceGuidance}}

Do NOT add UDL-specific accessibility features yet. Return JSON only.`,
		User: `
Lesson:
- Subject Area: {{.Topic}}
- Module: {{.Chapter}}
- Lesson Title: {{.LessonTitle}}
- Level: {{.GradeLevel}}{{if .LevelContext}} ({{.LevelContext}}){{end}}
- Duration: {{.Duration}}
- Complexity: {{.Complexity}} / 10
- Learning Objectives:
{{range .Objectives}}  - {{.}}
{{end}}
Return exactly {{.SlideCount}} slides in this order:
{{range $i, $s := .Outline}}{{inc $i}}. {{$s}}
{{end}}
Rules:
- content: at most {{.ContentChars}} characters.
- notes: instructor guidance for delivering the slide.
- image_prompt: one sentence describing a supporting visual.`,
		Validators: []Validator{
			RequireNonEmpty("Topic", func(in Input) string { return in.Topic }),
			RequirePositive("SlideCount", func(in Input) int { return in.SlideCount }),
		},
	})

	RegisterSpec(Spec{
		Name:    PromptUDLEnhance,
		Version: 1,
		System: `
You are a Universal Design for Learning expert. Enhance the lesson by applying {{upper .Principle}} principles for {{.GradeLevel}} learners.

{{.PrincipleFocus}}

CAST guidelines for this principle:
{{range .Guidelines}}- {{.}}
{{end}}
Build upon the existing content rather than replacing it.
Mark every new addition with a [{{.PrincipleTag}}] tag at the start of the line.`,
		User: `
Enhance this lesson with UDL {{.Principle}} principles:

{{.LessonText}}
{{if .CustomRequirements}}
Teacher requirements: {{.CustomRequirements}}
{{end}}
For each slide, write a section starting with "SLIDE N:" followed by 2-4 lines of the form:
[{{.PrincipleTag}}] <one concrete enhancement for that slide>`,
		Validators: []Validator{
			RequireNonEmpty("Principle", func(in Input) string { return in.Principle }),
			RequireNonEmpty("LessonText", func(in Input) string { return in.LessonText }),
		},
	})

	RegisterSpec(Spec{
		Name:        PromptSlideRevision,
		Version:     1,
		SchemaName:  "slide-revision",
		Description: "A revised lesson slide",
		Schema:      SlideRevisionSchema,
		System: `
You are helping a teacher revise one slide of a {{.GradeLevel}} lesson on {{.Topic}}.
Keep the slide's purpose and accuracy. Apply only what the teacher asks for.
Keep content under {{.ContentChars}} characters. Return JSON only.`,
		User: `
Slide {{inc .SlideIndex}}:
Title: {{.SlideTitle}}
Content: {{.SlideContent}}
Notes: {{.SlideNotes}}
Image: {{.SlideImagePrompt}}

Teacher request: {{.Instruction}}

List the changes you made in "changes".`,
		Validators: []Validator{
			RequireNonEmpty("Instruction", func(in Input) string { return in.Instruction }),
		},
	})
}
