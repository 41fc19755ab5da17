package plannernode

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/tanpawarit/startup-strategic-planner/agent/execlog"
	statex "github.com/tanpawarit/startup-strategic-planner/agent/state"
)

// PrioritizeObjectives reorders the refined objectives, most important
// first. It is a no-op, with no generation and no log entry, while there
// are no refined objectives.
func PrioritizeObjectives(ctx context.Context, s *Session) error {
	if err := s.validate(); err != nil {
		return err
	}
	refined := s.Profile.Refined()
	if refined == "" {
		log.Debug().Str("run_key", s.RunKey).Msg("no refined objectives to prioritize")
		return nil
	}
	start := s.now()

	prompt, err := s.render(ctx, s.Prompts.Prioritize, map[string]any{
		"profile":    s.Profile.Table(promptTableSepSp),
		"objectives": refined,
	})
	if err != nil {
		return err
	}

	res := s.Gateway.Generate(ctx, prompt)
	end := s.now()

	inputs := execlog.Inputs{}.Add("refined_strategic_objectives", refined)
	if err := s.record(ctx, OpPrioritizeObjectives, inputs, res.String(), start, end); err != nil {
		return err
	}

	s.Profile.ApplyRefined(statex.OverwriteIfNonEmpty, res.Value())
	return nil
}
