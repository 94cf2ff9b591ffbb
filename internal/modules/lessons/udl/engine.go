// Package udl applies one UDL principle to a lesson.
package udl

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/yungbote/udl-lesson-backend/internal/domain/lesson"
	"github.com/yungbote/udl-lesson-backend/internal/modules/lessons/catalog"
	"github.com/yungbote/udl-lesson-backend/internal/modules/lessons/prompts"
	"github.com/yungbote/udl-lesson-backend/internal/observability"
	"github.com/yungbote/udl-lesson-backend/internal/platform/llm"
	"github.com/yungbote/udl-lesson-backend/internal/platform/logger"
)

var ErrNoTaggedLines = errors.New("reply contains no tagged enhancements")

type Options struct {
	MaxTokens   int
	Temperature float64
}

type Engine struct {
	log      *logger.Logger
	provider llm.Provider
	catalog  catalog.Source
	opts     Options
}

func New(log *logger.Logger, provider llm.Provider, src catalog.Source, opts Options) *Engine {
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = 4000
	}
	return &Engine{log: log.With("service", "UDLEngine"), provider: provider, catalog: src, opts: opts}
}

// Apply returns a new lesson with principle p applied on top of content.
// content is not modified. Per-slide enhancement lists are only ever
// extended. The caller is responsible for stage ordering.
func (e *Engine) Apply(ctx context.Context, content *lesson.Content, req lesson.Request, p lesson.UDLPrinciple, custom string) (out *lesson.Content, origin lesson.Origin, err error) {
	ctx, span := observability.StartSpan(ctx, "lessons.apply_udl",
		attribute.String("udl.principle", string(p)),
		attribute.Bool("llm.enabled", e.provider != nil),
	)
	defer func() {
		span.SetAttributes(attribute.String("lesson.origin", string(origin)))
		observability.EndSpan(span, err)
	}()

	if content == nil {
		return nil, "", fmt.Errorf("%w: no lesson content", lesson.ErrInvalidRequest)
	}
	if _, err := lesson.ParsePrinciple(string(p)); err != nil {
		return nil, "", err
	}

	cat := e.catalog.Current()
	static := cat.Enhancements(req.AudienceProfile, p)
	perSlide := map[int][]string{}
	origin = lesson.OriginFallback
	if e.provider != nil {
		tagged, aiErr := e.aiEnhancements(ctx, cat, content, req, p, custom)
		if aiErr == nil {
			perSlide, origin = tagged, lesson.OriginAI
		} else {
			e.log.Warn("AI UDL enhancement failed; using catalog", "error", aiErr, "principle", p)
		}
	}

	out = content.Clone()
	for i := range out.Slides {
		items := perSlide[i]
		if len(items) == 0 {
			items = static
		}
		out.Slides[i].AppendEnhancements(p, items...)
	}
	out.MergeAccessibility(cat.AccessibilityFeatures(req.AudienceProfile, p))
	out.UDLStage = p.Stage()
	out.UDLAppliedPrinciples = append(out.UDLAppliedPrinciples, p)
	return out, origin, nil
}

func (e *Engine) aiEnhancements(ctx context.Context, cat *catalog.Catalog, content *lesson.Content, req lesson.Request, p lesson.UDLPrinciple, custom string) (map[int][]string, error) {
	prompt, err := prompts.Build(prompts.PromptUDLEnhance, prompts.Input{
		Topic:              req.Topic,
		GradeLevel:         content.GradeLevel,
		AudienceProfile:    string(req.AudienceProfile),
		Principle:          string(p),
		PrincipleTag:       p.Tag(),
		PrincipleFocus:     prompts.PrincipleFocus(p),
		Guidelines:         cat.Guidelines(p),
		LessonText:         prompts.FormatLesson(content),
		CustomRequirements: strings.TrimSpace(custom),
	})
	if err != nil {
		return nil, err
	}
	resp, err := e.provider.Generate(llm.WithPurpose(ctx, "udl_"+string(p)), prompt.Request(e.opts.MaxTokens, e.opts.Temperature))
	if err != nil {
		return nil, err
	}
	tagged := ParseTagged(resp.Text, p.Tag(), len(content.Slides))
	if len(tagged) == 0 {
		return nil, ErrNoTaggedLines
	}
	return tagged, nil
}

var sectionMarker = regexp.MustCompile(`(?im)^[\s#*]*slide\s+(\d+)\b`)

// ParseTagged collects "[TAG] text" lines per "SLIDE N" section. Keys are
// 0-based slide indexes; sections outside [0, slides) are ignored. Tags
// with a suffix ("[UDL-ENGAGEMENT-COLLEGE]") are accepted.
func ParseTagged(text, tag string, slides int) map[int][]string {
	out := map[int][]string{}
	re := tagPattern(tag)
	locs := sectionMarker.FindAllStringSubmatchIndex(text, -1)
	for i, loc := range locs {
		n, err := strconv.Atoi(text[loc[2]:loc[3]])
		if err != nil || n < 1 || n > slides {
			continue
		}
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		for _, line := range strings.Split(text[loc[1]:end], "\n") {
			if item, ok := cutTag(line, re); ok {
				out[n-1] = append(out[n-1], item)
			}
		}
	}
	return out
}

// tagPattern matches "[<tag>...]" case-insensitively and captures the rest
// of the line.
func tagPattern(tag string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\[` + regexp.QuoteMeta(tag) + `[^\]]*\](.*)`)
}

func cutTag(line string, re *regexp.Regexp) (string, bool) {
	m := re.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	item := strings.TrimSpace(strings.Trim(strings.TrimSpace(m[1]), "*:- "))
	return item, item != ""
}
