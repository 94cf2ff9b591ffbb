package prompts

type PromptName string

const (
	// Baseline generation. The text variant asks for "Slide N:" markers, the
	// JSON variant uses structured output.
	PromptBaselineSlides     PromptName = "baseline_slides"
	PromptBaselineSlidesJSON PromptName = "baseline_slides_json"

	// UDL enhancement of an existing lesson, one principle at a time.
	PromptUDLEnhance PromptName = "udl_enhance"

	// Teacher-directed revision of a single slide.
	PromptSlideRevision PromptName = "slide_revision"
)
