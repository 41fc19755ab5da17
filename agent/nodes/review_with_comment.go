package plannernode

import (
	"context"

	"github.com/tanpawarit/startup-strategic-planner/agent/execlog"
	fieldx "github.com/tanpawarit/startup-strategic-planner/agent/fields"
	statex "github.com/tanpawarit/startup-strategic-planner/agent/state"
)

// ReviewWithComment improves target using a free-text reviewer comment.
func ReviewWithComment(ctx context.Context, s *Session, target, comment string) error {
	if err := s.validate(); err != nil {
		return err
	}
	f, err := fieldx.Parse(target)
	if err != nil {
		return err
	}

	raw := s.Profile.Value(f)
	start := s.now()

	prompt, err := s.render(ctx, s.Prompts.ReviewComment, map[string]any{
		"profile": s.Profile.Table(promptTableSep),
		"field":   string(f),
		"comment": comment,
	})
	if err != nil {
		return err
	}

	res := s.Gateway.Generate(ctx, prompt)
	if _, err := s.Profile.Apply(statex.OverwriteIfNonEmpty, f, res.Value()); err != nil {
		return err
	}
	end := s.now()

	inputs := execlog.Inputs{}.
		Add("target", string(f)).
		Add("raw_response", raw).
		Add("comment", comment)
	return s.record(ctx, OpReviewWithComment, inputs, res.String(), start, end)
}
