package lessons

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/yungbote/udl-lesson-backend/internal/data/sessionstore"
	"github.com/yungbote/udl-lesson-backend/internal/domain/lesson"
	"github.com/yungbote/udl-lesson-backend/internal/modules/lessons/export"
	"github.com/yungbote/udl-lesson-backend/internal/modules/lessons/generator"
	"github.com/yungbote/udl-lesson-backend/internal/modules/lessons/udl"
	"github.com/yungbote/udl-lesson-backend/internal/observability"
	"github.com/yungbote/udl-lesson-backend/internal/platform/artifacts"
	"github.com/yungbote/udl-lesson-backend/internal/platform/logger"
)

type UsecasesDeps struct {
	Log *logger.Logger

	Sessions  sessionstore.Store
	Artifacts artifacts.Store

	Generator *generator.Generator
	UDL       *udl.Engine
	Exporter  *export.Exporter

	// DefaultProfile applies to requests that name no audience profile.
	DefaultProfile lesson.AudienceProfile
	// ProviderName is reported by the health endpoint; empty means fallbacks only.
	ProviderName string

	Now   func() time.Time
	NewID func() string
}

// Usecases runs the staged lesson pipeline on top of the session store.
type Usecases struct {
	deps UsecasesDeps
}

func New(deps UsecasesDeps) Usecases {
	if deps.Log == nil {
		deps.Log = logger.Nop()
	}
	deps.Log = deps.Log.With("service", "LessonUsecases")
	if deps.DefaultProfile == "" {
		deps.DefaultProfile = lesson.ProfileK12
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.NewID == nil {
		deps.NewID = uuid.NewString
	}
	return Usecases{deps: deps}
}

func (u Usecases) WithLog(log *logger.Logger) Usecases {
	u.deps.Log = log
	return u
}

// Upload is an optional reference document attached to a baseline request.
type Upload struct {
	Name string
	Body io.Reader
}

type GenerateBaselineInput struct {
	Request lesson.Request
	Upload  *Upload
}

type GenerateBaselineOutput struct {
	Session *lesson.Session
	Origin  lesson.Origin
}

// GenerateBaseline validates the request, builds the baseline lesson and
// stores a new session at the baseline stage.
func (u Usecases) GenerateBaseline(ctx context.Context, in GenerateBaselineInput) (out GenerateBaselineOutput, err error) {
	req := in.Request.Normalize(u.deps.DefaultProfile)
	ctx, span := observability.StartSpan(ctx, "lessons.usecase.generate_baseline",
		attribute.String("lesson.profile", string(req.AudienceProfile)),
	)
	defer func() { observability.EndSpan(span, err) }()

	if err := req.Validate(); err != nil {
		return out, classify(err, CodeInvalidRequest)
	}

	id := u.deps.NewID()
	dir, err := u.deps.Artifacts.Prepare(id)
	if err != nil {
		return out, classify(err, CodeStoreFailed)
	}
	if in.Upload != nil && strings.TrimSpace(in.Upload.Name) != "" {
		path, err := u.deps.Artifacts.SaveUpload(ctx, id, in.Upload.Name, in.Upload.Body)
		if err != nil {
			u.cleanup(ctx, id)
			return out, classify(err, CodeUploadFailed)
		}
		req.UploadedFilePath = path
	}

	content, origin, err := u.deps.Generator.Baseline(ctx, req)
	if err != nil {
		u.cleanup(ctx, id)
		return out, classify(err, CodeInvalidSlideCount)
	}

	sess := lesson.NewSession(id, req, content, dir, u.deps.Now())
	if err := u.deps.Sessions.Put(ctx, sess); err != nil {
		u.cleanup(ctx, id)
		return out, classify(err, CodeStoreFailed)
	}
	u.deps.Log.Info("Baseline lesson generated",
		"session_id", id,
		"profile", req.AudienceProfile,
		"origin", origin,
		"slides", len(content.Slides),
	)
	return GenerateBaselineOutput{Session: sess, Origin: origin}, nil
}

func (u Usecases) load(ctx context.Context, id string) (*lesson.Session, error) {
	sess, err := u.deps.Sessions.Get(ctx, id)
	if err != nil {
		return nil, classify(err, CodeStoreFailed)
	}
	return sess, nil
}

func (u Usecases) save(ctx context.Context, sess *lesson.Session) error {
	if err := u.deps.Sessions.Put(ctx, sess); err != nil {
		return classify(err, CodeStoreFailed)
	}
	return nil
}

// EditSlide applies patch to one slide after recording its previous state.
func (u Usecases) EditSlide(ctx context.Context, sessionID string, index int, patch lesson.SlidePatch) (lesson.Slide, error) {
	sess, err := u.load(ctx, sessionID)
	if err != nil {
		return lesson.Slide{}, err
	}
	slide, err := sess.EditSlide(index, patch, u.deps.Now())
	if err != nil {
		return lesson.Slide{}, classify(err, CodeInvalidRequest)
	}
	if err := u.save(ctx, sess); err != nil {
		return lesson.Slide{}, err
	}
	u.deps.Log.Debug("Slide edited", "session_id", sessionID, "slide_index", index)
	return slide, nil
}

type EnhanceSlideOutput struct {
	Slide  lesson.Slide
	Origin lesson.Origin
}

// EnhanceSlide asks the model to revise one slide following prompt.
func (u Usecases) EnhanceSlide(ctx context.Context, sessionID string, index int, prompt string) (EnhanceSlideOutput, error) {
	sess, err := u.load(ctx, sessionID)
	if err != nil {
		return EnhanceSlideOutput{}, err
	}
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return EnhanceSlideOutput{}, classify(fmt.Errorf("%w: prompt is required", lesson.ErrInvalidRequest), CodeInvalidRequest)
	}
	if err := sess.CheckSlideIndex(index); err != nil {
		return EnhanceSlideOutput{}, classify(err, CodeInvalidRequest)
	}

	revised, origin, err := u.deps.Generator.ReviseSlide(ctx, sess.Request, index, sess.Content.Slides[index], prompt)
	if err != nil {
		return EnhanceSlideOutput{}, classify(err, CodeStoreFailed)
	}
	if err := sess.ReplaceSlide(index, lesson.HistorySlideAIEnhance, revised, u.deps.Now()); err != nil {
		return EnhanceSlideOutput{}, classify(err, CodeInvalidRequest)
	}
	if err := u.save(ctx, sess); err != nil {
		return EnhanceSlideOutput{}, err
	}
	return EnhanceSlideOutput{Slide: sess.Content.Slides[index].Copy(), Origin: origin}, nil
}

type ApplyPrincipleInput struct {
	SessionID          string
	Principle          string
	CustomRequirements string
}

type ApplyPrincipleOutput struct {
	Session   *lesson.Session
	Principle lesson.UDLPrinciple
	Origin    lesson.Origin
}

// ApplyPrinciple advances the session by one UDL stage. Principles must be
// applied in order; the stored session is only replaced once the new
// content is complete.
func (u Usecases) ApplyPrinciple(ctx context.Context, in ApplyPrincipleInput) (out ApplyPrincipleOutput, err error) {
	ctx, span := observability.StartSpan(ctx, "lessons.usecase.apply_principle",
		attribute.String("udl.principle", in.Principle),
	)
	defer func() { observability.EndSpan(span, err) }()

	sess, err := u.load(ctx, in.SessionID)
	if err != nil {
		return out, err
	}
	p, err := lesson.ParsePrinciple(in.Principle)
	if err != nil {
		return out, classify(err, CodeInvalidPrinciple)
	}
	if err := lesson.CheckTransition(sess.CurrentStage, p); err != nil {
		return out, classify(err, CodeOutOfOrder)
	}

	next, origin, err := u.deps.UDL.Apply(ctx, sess.Content, sess.Request, p, strings.TrimSpace(in.CustomRequirements))
	if err != nil {
		return out, classify(err, CodeStoreFailed)
	}
	if err := sess.ApplyTransition(p, next, u.deps.Now()); err != nil {
		return out, classify(err, CodeOutOfOrder)
	}
	if err := u.save(ctx, sess); err != nil {
		return out, err
	}
	u.deps.Log.Info("UDL principle applied", "session_id", sess.ID, "principle", p, "origin", origin)
	return ApplyPrincipleOutput{Session: sess, Principle: p, Origin: origin}, nil
}

type SessionView struct {
	Session             *lesson.Session
	AvailableNextStages []string
}

func (u Usecases) GetSession(ctx context.Context, sessionID string) (SessionView, error) {
	sess, err := u.load(ctx, sessionID)
	if err != nil {
		return SessionView{}, err
	}
	return SessionView{Session: sess, AvailableNextStages: lesson.AvailableNextStages(sess.CurrentStage)}, nil
}

// History returns the session's audit trail, oldest first.
func (u Usecases) History(ctx context.Context, sessionID string) ([]lesson.HistoryEntry, error) {
	sess, err := u.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return sess.EditHistory, nil
}

type LessonDetails struct {
	Title      string       `json:"title"`
	Stage      lesson.Stage `json:"stage"`
	SlideCount int          `json:"slide_count"`
	EditsMade  int          `json:"edits_made"`
}

type ExportOutput struct {
	DownloadURL string
	FilePath    string
	Details     LessonDetails
}

// Export renders the session's current content to a presentation and
// publishes it.
func (u Usecases) Export(ctx context.Context, sessionID string) (out ExportOutput, err error) {
	ctx, span := observability.StartSpan(ctx, "lessons.usecase.export")
	defer func() { observability.EndSpan(span, err) }()

	sess, err := u.load(ctx, sessionID)
	if err != nil {
		return out, err
	}
	dir, err := u.deps.Artifacts.Prepare(sess.ID)
	if err != nil {
		return out, classify(err, CodeExportFailed)
	}
	path := filepath.Join(dir, export.FileName(sess.Content.Title))
	if err := u.deps.Exporter.Save(ctx, path, sess.Content); err != nil {
		return out, classify(err, CodeExportFailed)
	}
	url, err := u.deps.Artifacts.Publish(ctx, sess.ID, path)
	if err != nil {
		return out, classify(err, CodeExportFailed)
	}
	u.deps.Log.Info("Lesson exported", "session_id", sess.ID, "stage", sess.CurrentStage, "file", filepath.Base(path))
	return ExportOutput{
		DownloadURL: url,
		FilePath:    path,
		Details: LessonDetails{
			Title:      sess.Content.Title,
			Stage:      sess.CurrentStage,
			SlideCount: sess.SlideCount(),
			EditsMade:  sess.EditsMade(),
		},
	}, nil
}

// Delete drops the session and, best effort, its files.
func (u Usecases) Delete(ctx context.Context, sessionID string) error {
	if err := u.deps.Sessions.Delete(ctx, sessionID); err != nil {
		return classify(err, CodeStoreFailed)
	}
	u.cleanup(ctx, sessionID)
	return nil
}

func (u Usecases) cleanup(ctx context.Context, sessionID string) {
	if err := u.deps.Artifacts.Remove(ctx, sessionID); err != nil {
		u.deps.Log.Warn("Failed to remove session files", "session_id", sessionID, "error", err)
	}
}

func (u Usecases) ActiveSessions(ctx context.Context) (int, error) {
	n, err := u.deps.Sessions.Count(ctx)
	if err != nil {
		return 0, classify(err, CodeStoreFailed)
	}
	return n, nil
}

// ProviderName is the configured model provider, or "none".
func (u Usecases) ProviderName() string {
	if u.deps.ProviderName == "" || u.deps.Generator == nil || !u.deps.Generator.HasProvider() {
		return "none"
	}
	return u.deps.ProviderName
}
