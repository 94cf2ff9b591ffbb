package export

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/yungbote/udl-lesson-backend/internal/domain/lesson"
	"github.com/yungbote/udl-lesson-backend/internal/observability"
	"github.com/yungbote/udl-lesson-backend/internal/platform/logger"
	"go.opentelemetry.io/otel/attribute"
)

var ErrNoContent = errors.New("no lesson content to export")

type Options struct {
	Theme Theme
	// FontPath overrides the embedded Go fonts used on the cover card.
	FontPath string
	// Author is written to the package properties.
	Author string
	// DisableCover skips the cover card image.
	DisableCover bool
	Now          func() time.Time
}

type Exporter struct {
	log  *logger.Logger
	opts Options
}

func New(log *logger.Logger, opts Options) *Exporter {
	if opts.Author == "" {
		opts.Author = "UDL Lesson Generator"
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Exporter{log: log.With("service", "PresentationExporter"), opts: opts}
}

// FileName is the download name for a lesson titled title.
func FileName(title string) string {
	name := strings.TrimSpace(title)
	if name == "" {
		name = "lesson"
	}
	name = strings.NewReplacer(" ", "_", "/", "_", "\\", "_").Replace(name)
	return name + "_final.pptx"
}

// Write renders content as a presentation package. Theme and cover problems
// are logged and the deck is written without them.
func (e *Exporter) Write(ctx context.Context, w io.Writer, content *lesson.Content) (err error) {
	if content == nil {
		return ErrNoContent
	}
	_, span := observability.StartSpan(ctx, "lessons.export",
		attribute.Int("lesson.slides", len(content.Slides)),
		attribute.String("lesson.stage", string(content.UDLStage)),
	)
	defer func() { observability.EndSpan(span, err) }()

	theme := e.opts.Theme.resolve(e.log)
	now := e.opts.Now().UTC()

	var cover []byte
	if !e.opts.DisableCover {
		cover = e.cover(theme, content)
	}
	d := buildDeck(content, theme, cover)
	d.Author = e.opts.Author
	d.Created = now.Format(time.RFC3339)

	if err := writePackage(w, d, now); err != nil {
		return err
	}
	e.log.Debug("Presentation rendered", "title", content.Title, "slides", len(d.Slides), "cover", cover != nil)
	return nil
}

func (e *Exporter) cover(theme Theme, content *lesson.Content) []byte {
	fs, err := loadFonts(e.opts.FontPath)
	if err != nil {
		e.log.Warn("Skipping cover card", "error", err)
		return nil
	}
	subtitle := strings.TrimSpace(strings.Join(nonEmpty(content.GradeLevel, content.Duration), " · "))
	png, err := renderCover(fs, theme, content.Title, subtitle)
	if err != nil {
		e.log.Warn("Skipping cover card", "error", err)
		return nil
	}
	return png
}

// Save writes the presentation to path via a temporary file in the same directory.
func (e *Exporter) Save(ctx context.Context, path string, content *lesson.Content) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".export-*.pptx")
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	defer os.Remove(tmp.Name())

	bw := bufio.NewWriter(tmp)
	if err := e.Write(ctx, bw, content); err != nil {
		tmp.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("flush export file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close export file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("save presentation: %w", err)
	}
	return nil
}

func nonEmpty(vals ...string) []string {
	var out []string
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			out = append(out, strings.TrimSpace(v))
		}
	}
	return out
}
