package plannernode

import (
	"context"
	"strings"

	"github.com/tanpawarit/startup-strategic-planner/agent/execlog"
	statex "github.com/tanpawarit/startup-strategic-planner/agent/state"
)

// objectiveJoin separates objective groups when they are merged.
const objectiveJoin = ";"

// RefineObjectives merges the non-empty objective groups and asks for a
// consistent, condensed list.
func RefineObjectives(ctx context.Context, s *Session) error {
	if err := s.validate(); err != nil {
		return err
	}
	start := s.now()

	all := strings.Join(s.Profile.Objectives().NonEmpty(), objectiveJoin)
	prompt, err := s.render(ctx, s.Prompts.Refine, map[string]any{
		"objectives": all,
	})
	if err != nil {
		return err
	}

	res := s.Gateway.Generate(ctx, prompt)
	s.Profile.ApplyRefined(statex.OverwriteIfNonEmpty, strings.TrimSpace(res.Value()))
	end := s.now()

	inputs := execlog.Inputs{}.Add("raw_objectives", all)
	return s.record(ctx, OpRefineObjectives, inputs, s.Profile.Refined(), start, end)
}
