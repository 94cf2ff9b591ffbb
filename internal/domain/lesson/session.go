package lesson

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type HistoryKind string

const (
	HistorySlideEdit       HistoryKind = "slide_edit"
	HistorySlideAIEnhance  HistoryKind = "slide_ai_enhance"
	HistoryStageTransition HistoryKind = "stage_transition"
)

// HistoryEntry is an audit record. Slide entries carry the pre-edit slide,
// transitions carry the pre-transition content.
type HistoryEntry struct {
	Seq        int         `json:"seq"`
	Marker     string      `json:"marker"`
	Kind       HistoryKind `json:"kind"`
	Label      string      `json:"label"`
	SlideIndex *int        `json:"slide_index,omitempty"`
	Slide      *Slide      `json:"slide,omitempty"`
	Content    *Content    `json:"content,omitempty"`
	RecordedAt time.Time   `json:"recorded_at"`
}

type Session struct {
	ID           string         `json:"session_id"`
	Request      Request        `json:"request"`
	CurrentStage Stage          `json:"current_stage"`
	Content      *Content       `json:"lesson_content"`
	EditHistory  []HistoryEntry `json:"edit_history"`
	LessonDir    string         `json:"lesson_dir"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

func NewSession(id string, req Request, content *Content, lessonDir string, now time.Time) *Session {
	return &Session{
		ID:           id,
		Request:      req,
		CurrentStage: StageBaseline,
		Content:      content,
		EditHistory:  []HistoryEntry{},
		LessonDir:    lessonDir,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	out := *s
	out.Content = s.Content.Clone()
	out.EditHistory = make([]HistoryEntry, len(s.EditHistory))
	for i, h := range s.EditHistory {
		cp := h
		if h.SlideIndex != nil {
			idx := *h.SlideIndex
			cp.SlideIndex = &idx
		}
		if h.Slide != nil {
			sl := h.Slide.Copy()
			cp.Slide = &sl
		}
		cp.Content = h.Content.Clone()
		out.EditHistory[i] = cp
	}
	return &out
}

func (s *Session) SlideCount() int {
	if s.Content == nil {
		return 0
	}
	return len(s.Content.Slides)
}

func (s *Session) CheckSlideIndex(index int) error {
	if index < 0 || index >= s.SlideCount() {
		return fmt.Errorf("%w: %d (lesson has %d slides)", ErrInvalidSlideIndex, index, s.SlideCount())
	}
	return nil
}

func (s *Session) record(entry HistoryEntry, now time.Time) {
	entry.Seq = len(s.EditHistory) + 1
	entry.Marker = uuid.NewString()
	entry.RecordedAt = now
	s.EditHistory = append(s.EditHistory, entry)
	s.UpdatedAt = now
}

// SnapshotSlide appends a copy of slide index to the history.
func (s *Session) SnapshotSlide(index int, kind HistoryKind, now time.Time) error {
	if err := s.CheckSlideIndex(index); err != nil {
		return err
	}
	snap := s.Content.Slides[index].Copy()
	idx := index
	s.record(HistoryEntry{
		Kind:       kind,
		Label:      fmt.Sprintf("slide_%d_%s", index, slideLabelSuffix(kind)),
		SlideIndex: &idx,
		Slide:      &snap,
	}, now)
	return nil
}

func slideLabelSuffix(kind HistoryKind) string {
	if kind == HistorySlideAIEnhance {
		return "ai_enhance"
	}
	return "edit"
}

// EditSlide snapshots the slide and applies patch. It returns the updated slide.
func (s *Session) EditSlide(index int, patch SlidePatch, now time.Time) (Slide, error) {
	if err := s.SnapshotSlide(index, HistorySlideEdit, now); err != nil {
		return Slide{}, err
	}
	patch.ApplyTo(&s.Content.Slides[index])
	return s.Content.Slides[index].Copy(), nil
}

// ReplaceSlide snapshots slide index under kind and stores updated in its place.
func (s *Session) ReplaceSlide(index int, kind HistoryKind, updated Slide, now time.Time) error {
	if err := s.SnapshotSlide(index, kind, now); err != nil {
		return err
	}
	s.Content.Slides[index] = updated.Copy()
	return nil
}

// ApplyTransition moves the session to p's stage with next as its content.
// The previous content is recorded first. Out-of-order principles leave the
// session untouched.
func (s *Session) ApplyTransition(p UDLPrinciple, next *Content, now time.Time) error {
	if err := CheckTransition(s.CurrentStage, p); err != nil {
		return err
	}
	if next == nil {
		return fmt.Errorf("apply %s: nil content", p)
	}
	if err := next.Validate(); err != nil {
		return err
	}
	s.record(HistoryEntry{
		Kind:    HistoryStageTransition,
		Label:   TransitionLabel(s.CurrentStage, p),
		Content: s.Content.Clone(),
	}, now)
	s.Content = next
	s.CurrentStage = p.Stage()
	return nil
}

func (s *Session) EditsMade() int { return len(s.EditHistory) }
