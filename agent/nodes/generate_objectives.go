package plannernode

import (
	"context"

	"github.com/rs/zerolog/log"

	statex "github.com/tanpawarit/startup-strategic-planner/agent/state"
)

// GenerateObjectives builds the four objective groups from scratch: one per
// field pair plus one over the whole profile. Groups whose generation fails
// stay empty.
func GenerateObjectives(ctx context.Context, s *Session) error {
	if err := s.validate(); err != nil {
		return err
	}
	start := s.now()

	var objectives statex.StrategicObjectives
	for _, pair := range statex.ObjectivePairs() {
		prompt, err := s.render(ctx, s.Prompts.ObjectivesPair, map[string]any{
			"field_a":   string(pair.A),
			"content_a": s.Profile.Value(pair.A),
			"field_b":   string(pair.B),
			"content_b": s.Profile.Value(pair.B),
		})
		if err != nil {
			return err
		}
		objectives = generateGroup(ctx, s, objectives, pair.Group, prompt)
	}

	prompt, err := s.render(ctx, s.Prompts.ObjectivesCombined, map[string]any{
		"profile": s.Profile.Table(promptTableSepSp),
	})
	if err != nil {
		return err
	}
	objectives = generateGroup(ctx, s, objectives, statex.GroupCombined, prompt)

	s.Profile.SetObjectives(objectives)
	end := s.now()

	return s.record(ctx, OpGenerateObjectives, bracedText(s.Profile.Table("\n")), objectives.String(), start, end)
}

func generateGroup(ctx context.Context, s *Session, o statex.StrategicObjectives, g statex.ObjectiveGroup, prompt string) statex.StrategicObjectives {
	res := s.Gateway.Generate(ctx, prompt)
	if !statex.OverwriteIfNonEmpty.Accepts(res.Value()) {
		log.Debug().Str("run_key", s.RunKey).Str("group", string(g)).Msg("objective group left empty")
		return o
	}
	return o.With(g, res.Value())
}
