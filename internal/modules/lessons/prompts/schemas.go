package prompts

func stringSchema() map[string]any { return map[string]any{"type": "string"} }

func stringArraySchema() map[string]any {
	return map[string]any{"type": "array", "items": stringSchema()}
}

func object(props map[string]any, required ...string) map[string]any {
	return map[string]any{
		"type":                 "object",
		"properties":           props,
		"required":             required,
		"additionalProperties": false,
	}
}

func slideSchema() map[string]any {
	return object(map[string]any{
		"title":        stringSchema(),
		"content":      stringSchema(),
		"notes":        stringSchema(),
		"image_prompt": stringSchema(),
	}, "title", "content", "notes", "image_prompt")
}

// LessonSlidesSchema is the structured form of a baseline reply. Slide
// counts are not constrained here; the parser pads or truncates.
func LessonSlidesSchema() map[string]any {
	return object(map[string]any{
		"slides": map[string]any{
			"type":     "array",
			"minItems": 1,
			"items":    slideSchema(),
		},
	}, "slides")
}

func SlideRevisionSchema() map[string]any {
	return object(map[string]any{
		"title":        stringSchema(),
		"content":      stringSchema(),
		"notes":        stringSchema(),
		"image_prompt": stringSchema(),
		"changes":      stringArraySchema(),
	}, "title", "content", "notes", "image_prompt", "changes")
}
