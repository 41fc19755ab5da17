package plannernode

import (
	"context"

	"github.com/tanpawarit/startup-strategic-planner/agent/execlog"
	fieldx "github.com/tanpawarit/startup-strategic-planner/agent/fields"
	statex "github.com/tanpawarit/startup-strategic-planner/agent/state"
)

// ReviewSpecific reviews a single field named by key.
func ReviewSpecific(ctx context.Context, s *Session, key string) error {
	if err := s.validate(); err != nil {
		return err
	}
	f, err := fieldx.Parse(key)
	if err != nil {
		return err
	}

	raw := s.Profile.Value(f)
	start := s.now()

	prompt, err := reviewPrompt(ctx, s, f)
	if err != nil {
		return err
	}
	res := s.Gateway.Generate(ctx, prompt)
	end := s.now()

	if _, err := s.Profile.Apply(statex.OverwriteIfNonEmpty, f, res.Value()); err != nil {
		return err
	}

	inputs := execlog.Inputs{}.Add("key", string(f)).Add("raw_response", raw)
	return s.record(ctx, OpReviewSpecific, inputs, res.String(), start, end)
}
