package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yungbote/udl-lesson-backend/internal/app"
	"github.com/yungbote/udl-lesson-backend/internal/domain/lesson"
	"github.com/yungbote/udl-lesson-backend/internal/modules/lessons"
	"github.com/yungbote/udl-lesson-backend/internal/modules/lessons/export"
)

type renderFlags struct {
	topic      string
	chapter    string
	title      string
	grade      string
	objectives []string
	duration   string
	complexity int
	profile    string
	stages     []string
	out        string
}

var render renderFlags

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Generate a lesson and write it as a .pptx without starting the server",
	Example: `  udl-lesson render --topic Biology --chapter Plants --title Photosynthesis \
    --grade "Grade 6" --objective "Explain how plants make food" --stages all --out deck.pptx`,
	RunE: runRender,
}

func init() {
	f := renderCmd.Flags()
	f.StringVar(&render.topic, "topic", "", "lesson topic")
	f.StringVar(&render.chapter, "chapter", "", "chapter or unit")
	f.StringVar(&render.title, "title", "", "lesson title")
	f.StringVar(&render.grade, "grade", "", "grade level")
	f.StringArrayVar(&render.objectives, "objective", nil, "learning objective (repeatable)")
	f.StringVar(&render.duration, "duration", "45 minutes", "lesson duration")
	f.IntVar(&render.complexity, "complexity", 5, "complexity level 1-10")
	f.StringVar(&render.profile, "profile", "", "audience profile: k12, college or adaptive")
	f.StringSliceVar(&render.stages, "stages", nil, "UDL principles to apply in order, or \"all\"")
	f.StringVarP(&render.out, "out", "o", "", "output .pptx path (defaults to the lesson title)")
	for _, name := range []string{"topic", "chapter", "title", "grade"} {
		_ = renderCmd.MarkFlagRequired(name)
	}
}

func renderStages(raw []string) ([]string, error) {
	if len(raw) == 1 && strings.EqualFold(strings.TrimSpace(raw[0]), "all") {
		out := make([]string, 0, len(lesson.Principles))
		for _, p := range lesson.Principles {
			out = append(out, string(p))
		}
		return out, nil
	}
	out := make([]string, 0, len(raw))
	for _, s := range raw {
		p, err := lesson.ParsePrinciple(s)
		if err != nil {
			return nil, err
		}
		out = append(out, string(p))
	}
	return out, nil
}

func runRender(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	stages, err := renderStages(render.stages)
	if err != nil {
		return err
	}

	log, err := app.NewLogger()
	if err != nil {
		return err
	}
	scratch, err := os.MkdirTemp("", "udl-render-*")
	if err != nil {
		return fmt.Errorf("create scratch dir: %w", err)
	}
	defer os.RemoveAll(scratch)

	a, err := app.New(ctx, log, func(cfg *app.Config) {
		cfg.SessionStore = "memory"
		cfg.ArtifactStore = app.ArtifactStoreLocal
		cfg.DownloadsDir = scratch
		cfg.CatalogPath = ""
	})
	if err != nil {
		log.Sync()
		return err
	}
	defer a.Close()
	uc := a.Services.Lessons

	base, err := uc.GenerateBaseline(ctx, lessons.GenerateBaselineInput{Request: lesson.Request{
		Topic:              render.topic,
		Chapter:            render.chapter,
		LessonTitle:        render.title,
		GradeLevel:         render.grade,
		LearningObjectives: strings.Join(render.objectives, "\n"),
		Duration:           render.duration,
		ComplexityLevel:    render.complexity,
		AudienceProfile:    lesson.AudienceProfile(render.profile),
	}})
	if err != nil {
		return err
	}
	sess := base.Session
	fmt.Fprintf(cmd.OutOrStdout(), "baseline: %d slides (%s)\n", sess.SlideCount(), base.Origin)

	for _, p := range stages {
		applied, err := uc.ApplyPrinciple(ctx, lessons.ApplyPrincipleInput{SessionID: sess.ID, Principle: p})
		if err != nil {
			return err
		}
		sess = applied.Session
		fmt.Fprintf(cmd.OutOrStdout(), "%s: applied (%s)\n", p, applied.Origin)
	}

	out := render.out
	if out == "" {
		out = export.FileName(sess.Content.Title)
	}
	if err := a.Services.Exporter.Save(ctx, out, sess.Content); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
	return nil
}
