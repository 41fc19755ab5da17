package plannernode

import (
	"context"
	"fmt"
	"time"

	contractx "github.com/tanpawarit/startup-strategic-planner/agent/contract"
	gatewayx "github.com/tanpawarit/startup-strategic-planner/agent/gateway"
	promptx "github.com/tanpawarit/startup-strategic-planner/agent/prompt"
	statex "github.com/tanpawarit/startup-strategic-planner/agent/state"
)

// Operation names as they appear in the execution log.
const (
	OpInit                 = "__init__"
	OpFillInformation      = "fill_informations"
	OpQualityControl       = "response_quality_control"
	OpReviewSpecific       = "review_specific_response"
	OpReviewWithComment    = "review_target"
	OpGenerateObjectives   = "generate_strategic_objectives"
	OpRefineObjectives     = "refine_strategic_objectives"
	OpPrioritizeObjectives = "priority_objectives"
)

// Recorder appends one execution log entry.
type Recorder interface {
	Append(ctx context.Context, operation string, inputs fmt.Stringer, result string, start, end time.Time, profileTable string) error
}

// Session is everything a stage reads or mutates. One Session belongs to
// one run and is not safe for concurrent use.
type Session struct {
	RunKey  string
	Profile *statex.Profile
	Gateway gatewayx.Generator
	Log     Recorder
	Prompts promptx.Set
	Now     func() time.Time
}

func (s *Session) validate() error {
	if s == nil || s.Profile == nil {
		return fmt.Errorf("%w: session profile is nil", contractx.ErrValidation)
	}
	if s.Gateway == nil {
		return fmt.Errorf("%w: session gateway is nil", contractx.ErrValidation)
	}
	if s.Log == nil {
		return fmt.Errorf("%w: session log is nil", contractx.ErrValidation)
	}
	return nil
}

func (s *Session) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Session) render(ctx context.Context, tmpl string, vars map[string]any) (string, error) {
	out, err := promptx.Render(ctx, tmpl, vars)
	if err != nil {
		return "", fmt.Errorf("%w: %v", contractx.ErrValidation, err)
	}
	return out, nil
}

func (s *Session) record(ctx context.Context, op string, inputs fmt.Stringer, result string, start, end time.Time) error {
	return s.Log.Append(ctx, op, inputs, result, start, end, s.Profile.Table("\n"))
}

// Profile tables embedded in prompts.
const (
	promptTableSep   = ","
	promptTableSepSp = ", "
)

// bracedText logs a bare value wrapped in braces.
type bracedText string

func (b bracedText) String() string { return "{" + string(b) + "}" }
