package lesson

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidPrinciple = errors.New("invalid udl principle")
	ErrOutOfOrder       = errors.New("udl principle applied out of order")
	ErrNoNextPrinciple  = errors.New("no further udl principles")
)

type Stage string

const (
	StageBaseline         Stage = "baseline"
	StageEngagement       Stage = "engagement"
	StageRepresentation   Stage = "representation"
	StageActionExpression Stage = "action_expression"
	StageCompleted        Stage = "completed"
)

type UDLPrinciple string

const (
	PrincipleEngagement       UDLPrinciple = "engagement"
	PrincipleRepresentation   UDLPrinciple = "representation"
	PrincipleActionExpression UDLPrinciple = "action_expression"
)

// Principles lists the UDL principles in application order.
var Principles = []UDLPrinciple{PrincipleEngagement, PrincipleRepresentation, PrincipleActionExpression}

// ExportStep is advertised as the only follow-up once every principle is applied.
const ExportStep = "export"

var nextPrinciple = map[Stage]UDLPrinciple{
	StageBaseline:       PrincipleEngagement,
	StageEngagement:     PrincipleRepresentation,
	StageRepresentation: PrincipleActionExpression,
}

func ParsePrinciple(raw string) (UDLPrinciple, error) {
	p := UDLPrinciple(strings.ToLower(strings.TrimSpace(raw)))
	for _, known := range Principles {
		if p == known {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPrinciple, raw)
}

// Stage is the session stage reached once p has been applied.
func (p UDLPrinciple) Stage() Stage { return Stage(p) }

// Tag is the marker used for this principle in model replies, e.g. UDL-ENGAGEMENT.
func (p UDLPrinciple) Tag() string {
	return "UDL-" + strings.ToUpper(string(p))
}

// OutOfOrderError reports a principle that does not follow the current stage.
type OutOfOrderError struct {
	Current   Stage
	Requested UDLPrinciple
	Expected  UDLPrinciple
}

func (e *OutOfOrderError) Error() string {
	if e.Expected == "" {
		return fmt.Sprintf("no further UDL principles after %s", e.Current)
	}
	return fmt.Sprintf("must apply %s principle next", e.Expected)
}

func (e *OutOfOrderError) Is(target error) bool {
	if e.Expected == "" {
		return target == ErrNoNextPrinciple || target == ErrOutOfOrder
	}
	return target == ErrOutOfOrder
}

// ExpectedNext returns the single principle allowed after stage.
func ExpectedNext(stage Stage) (UDLPrinciple, error) {
	p, ok := nextPrinciple[stage]
	if !ok {
		return "", &OutOfOrderError{Current: stage}
	}
	return p, nil
}

// CheckTransition succeeds only when p is the expected next principle for stage.
func CheckTransition(stage Stage, p UDLPrinciple) error {
	expected, err := ExpectedNext(stage)
	if err != nil {
		var oe *OutOfOrderError
		if errors.As(err, &oe) {
			oe.Requested = p
		}
		return err
	}
	if p != expected {
		return &OutOfOrderError{Current: stage, Requested: p, Expected: expected}
	}
	return nil
}

// AvailableNextStages lists what a client may do next from stage.
func AvailableNextStages(stage Stage) []string {
	if p, ok := nextPrinciple[stage]; ok {
		return []string{string(p)}
	}
	if stage == StageActionExpression {
		return []string{ExportStep}
	}
	return []string{}
}

// TransitionLabel names the history entry recorded for a stage change.
func TransitionLabel(from Stage, to UDLPrinciple) string {
	return fmt.Sprintf("%s_to_%s", from, to)
}
