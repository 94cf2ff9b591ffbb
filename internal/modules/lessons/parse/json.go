package parse

import (
	"encoding/json"
	"fmt"

	"github.com/yungbote/udl-lesson-backend/internal/domain/lesson"
	"github.com/yungbote/udl-lesson-backend/internal/modules/lessons/catalog"
	"github.com/yungbote/udl-lesson-backend/internal/modules/lessons/prompts"
	"github.com/yungbote/udl-lesson-backend/internal/platform/llm"
)

// JSONParser reads replies to the structured baseline prompt.
type JSONParser struct {
	Catalog catalog.Source
}

func (p *JSONParser) Prompt() prompts.PromptName { return prompts.PromptBaselineSlidesJSON }

type slidesReply struct {
	Slides []struct {
		Title       string `json:"title"`
		Content     string `json:"content"`
		Notes       string `json:"notes"`
		ImagePrompt string `json:"image_prompt"`
	} `json:"slides"`
}

func (p *JSONParser) Parse(resp *llm.Response, req lesson.Request) ([]lesson.Slide, error) {
	if resp == nil {
		return nil, ErrNoSlides
	}
	raw := resp.JSON
	if len(raw) == 0 {
		// Providers without native structured output still get validated.
		raw = json.RawMessage(llm.StripCodeFence(resp.Text))
		schema, _ := prompts.SchemaFor(prompts.PromptBaselineSlidesJSON)
		if err := llm.Validate(schema, raw); err != nil {
			return nil, err
		}
	}
	var reply slidesReply
	if err := json.Unmarshal(raw, &reply); err != nil {
		return nil, fmt.Errorf("decode slides: %w", err)
	}
	if len(reply.Slides) == 0 {
		return nil, ErrNoSlides
	}
	drafts := make([]draft, len(reply.Slides))
	for i, s := range reply.Slides {
		drafts[i] = draft{Title: s.Title, Content: s.Content, Notes: s.Notes, ImagePrompt: s.ImagePrompt}
	}
	return normalize(p.Catalog.Current(), req, drafts), nil
}
