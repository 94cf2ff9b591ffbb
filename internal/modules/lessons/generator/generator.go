// Package generator produces baseline lessons and slide revisions, using the
// configured model when there is one and the catalog otherwise.
package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/yungbote/udl-lesson-backend/internal/domain/lesson"
	"github.com/yungbote/udl-lesson-backend/internal/modules/lessons/catalog"
	"github.com/yungbote/udl-lesson-backend/internal/modules/lessons/parse"
	"github.com/yungbote/udl-lesson-backend/internal/modules/lessons/prompts"
	"github.com/yungbote/udl-lesson-backend/internal/observability"
	"github.com/yungbote/udl-lesson-backend/internal/platform/llm"
	"github.com/yungbote/udl-lesson-backend/internal/platform/logger"
)

type Options struct {
	MaxTokens   int
	Temperature float64
}

type Generator struct {
	log      *logger.Logger
	provider llm.Provider
	catalog  catalog.Source
	parser   parse.SlideParser
	opts     Options
}

// New builds a generator. provider may be nil; every call then takes the
// catalog path.
func New(log *logger.Logger, provider llm.Provider, src catalog.Source, parser parse.SlideParser, opts Options) *Generator {
	if parser == nil {
		parser = &parse.MarkerParser{Catalog: src}
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = 4000
	}
	return &Generator{
		log:      log.With("service", "LessonGenerator"),
		provider: provider,
		catalog:  src,
		parser:   parser,
		opts:     opts,
	}
}

func (g *Generator) HasProvider() bool { return g.provider != nil }

// Baseline returns the baseline lesson for req. Model failures of any kind
// fall back to catalog synthesis; an error means the catalog itself failed.
func (g *Generator) Baseline(ctx context.Context, req lesson.Request) (content *lesson.Content, origin lesson.Origin, err error) {
	ctx, span := observability.StartSpan(ctx, "lessons.generate_baseline",
		attribute.String("lesson.profile", string(req.AudienceProfile)),
		attribute.Bool("llm.enabled", g.provider != nil),
	)
	defer func() {
		span.SetAttributes(attribute.String("lesson.origin", string(origin)))
		observability.EndSpan(span, err)
	}()

	cat := g.catalog.Current()
	if g.provider != nil {
		content, aiErr := g.aiBaseline(ctx, cat, req)
		if aiErr == nil {
			return content, lesson.OriginAI, nil
		}
		g.log.Warn("AI baseline failed; using fallback", "error", aiErr, "topic", req.Topic)
	}
	content, err = cat.FallbackLesson(req)
	if err != nil {
		return nil, lesson.OriginFallback, fmt.Errorf("fallback lesson: %w", err)
	}
	return content, lesson.OriginFallback, nil
}

func (g *Generator) aiBaseline(ctx context.Context, cat *catalog.Catalog, req lesson.Request) (*lesson.Content, error) {
	p, err := prompts.Build(g.parser.Prompt(), BaselineInput(cat, req))
	if err != nil {
		return nil, err
	}
	resp, err := g.provider.Generate(llm.WithPurpose(ctx, "baseline"), p.Request(g.opts.MaxTokens, g.opts.Temperature))
	if err != nil {
		return nil, err
	}
	slides, err := g.parser.Parse(resp, req)
	if err != nil {
		return nil, err
	}
	return cat.BaselineContent(req, slides)
}

// BaselineInput is the prompt input for a baseline request.
func BaselineInput(cat *catalog.Catalog, req lesson.Request) prompts.Input {
	in := prompts.Input{
		Topic:            req.Topic,
		Chapter:          req.Chapter,
		LessonTitle:      req.LessonTitle,
		GradeLevel:       req.GradeLevel,
		Duration:         req.Duration,
		Objectives:       req.Objectives(),
		AudienceProfile:  string(req.AudienceProfile),
		AudienceGuidance: prompts.AudienceGuidance(req.AudienceProfile),
		Complexity:       req.ComplexityLevel,
		Outline:          cat.Outline(req.AudienceProfile),
		SlideCount:       req.AudienceProfile.SlideCount(),
		ContentChars:     req.AudienceProfile.ContentLimit(),
	}
	switch {
	case req.AudienceProfile == lesson.ProfileCollege:
		in.LevelContext = cat.CourseLevelContext(req.GradeLevel)
	case req.AudienceProfile == lesson.ProfileAdaptive:
		v := cat.Voice(cat.Classify(req.GradeLevel))
		in.LevelContext = strings.TrimSpace(v.Label + ": " + v.Approach)
		in.AudienceGuidance = strings.TrimSpace(in.AudienceGuidance + "\n- Audience: " + v.Audience + "\n- Vocabulary: " + v.Vocabulary)
	}
	return in
}

type revision struct {
	Title       string   `json:"title"`
	Content     string   `json:"content"`
	Notes       string   `json:"notes"`
	ImagePrompt string   `json:"image_prompt"`
	Changes     []string `json:"changes"`
}

// ReviseSlide applies a free-text instruction to one slide. Without a
// working model the instruction is recorded in the notes.
func (g *Generator) ReviseSlide(ctx context.Context, req lesson.Request, index int, slide lesson.Slide, instruction string) (out lesson.Slide, origin lesson.Origin, err error) {
	ctx, span := observability.StartSpan(ctx, "lessons.revise_slide", attribute.Int("lesson.slide_index", index))
	defer func() {
		span.SetAttributes(attribute.String("lesson.origin", string(origin)))
		observability.EndSpan(span, err)
	}()

	if g.provider != nil {
		revised, aiErr := g.aiRevision(ctx, req, index, slide, instruction)
		if aiErr == nil {
			return revised, lesson.OriginAI, nil
		}
		g.log.Warn("AI slide revision failed; annotating notes", "error", aiErr, "slide_index", index)
	}
	return AnnotateSlide(slide, instruction), lesson.OriginFallback, nil
}

// AnnotateSlide appends the instruction to the slide's notes.
func AnnotateSlide(slide lesson.Slide, instruction string) lesson.Slide {
	out := slide.Copy()
	out.Notes = slide.Notes + "\n\nAI Enhancement: " + instruction
	return out
}

func (g *Generator) aiRevision(ctx context.Context, req lesson.Request, index int, slide lesson.Slide, instruction string) (lesson.Slide, error) {
	p, err := prompts.Build(prompts.PromptSlideRevision, prompts.Input{
		Topic:            req.Topic,
		GradeLevel:       req.GradeLevel,
		ContentChars:     req.AudienceProfile.ContentLimit(),
		SlideIndex:       index,
		SlideTitle:       slide.Title,
		SlideContent:     slide.Content,
		SlideNotes:       slide.Notes,
		SlideImagePrompt: slide.ImagePrompt,
		Instruction:      instruction,
	})
	if err != nil {
		return lesson.Slide{}, err
	}
	resp, err := g.provider.Generate(llm.WithPurpose(ctx, "slide_revision"), p.Request(g.opts.MaxTokens, g.opts.Temperature))
	if err != nil {
		return lesson.Slide{}, err
	}
	var rev revision
	if err := json.Unmarshal(resp.JSON, &rev); err != nil {
		return lesson.Slide{}, &llm.ErrInvalidResponse{Content: resp.JSON, Err: err}
	}
	out := slide.Copy()
	if s := strings.TrimSpace(rev.Title); s != "" {
		out.Title = s
	}
	if s := strings.TrimSpace(rev.Content); s != "" {
		out.Content = parse.Truncate(s, req.AudienceProfile.ContentLimit())
	}
	if s := strings.TrimSpace(rev.Notes); s != "" {
		out.Notes = s
	}
	if s := strings.TrimSpace(rev.ImagePrompt); s != "" {
		out.ImagePrompt = s
	}
	if len(rev.Changes) > 0 {
		g.log.Debug("slide revised", "slide_index", index, "changes", rev.Changes)
	}
	return out, nil
}
