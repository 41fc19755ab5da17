package plannernode

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/tanpawarit/startup-strategic-planner/agent/execlog"
	fieldx "github.com/tanpawarit/startup-strategic-planner/agent/fields"
	statex "github.com/tanpawarit/startup-strategic-planner/agent/state"
)

// QualityControl reviews every field, or only the fields that were missing
// at construction when includeOriginal is false.
func QualityControl(ctx context.Context, s *Session, includeOriginal bool) error {
	if err := s.validate(); err != nil {
		return err
	}
	start := s.now()

	keys := s.Profile.Missing()
	if includeOriginal {
		keys = fieldx.All()
	}

	updated := 0
	for _, f := range keys {
		ok, err := reviewField(ctx, s, f)
		if err != nil {
			return err
		}
		if ok {
			updated++
		}
	}

	end := s.now()
	log.Debug().
		Str("run_key", s.RunKey).
		Int("reviewed", len(keys)).
		Int("updated", updated).
		Msg("quality control finished")

	inputs := execlog.Inputs{}.Add("include_original_responses", includeOriginal)
	return s.record(ctx, OpQualityControl, inputs, s.Profile.Table("\n"), start, end)
}

// reviewField asks for a cleaned-up version of f and stores it only when
// generation succeeded.
func reviewField(ctx context.Context, s *Session, f fieldx.Field) (bool, error) {
	prompt, err := reviewPrompt(ctx, s, f)
	if err != nil {
		return false, err
	}
	res := s.Gateway.Generate(ctx, prompt)
	return s.Profile.Apply(statex.OverwriteIfNonEmpty, f, res.Value())
}

func reviewPrompt(ctx context.Context, s *Session, f fieldx.Field) (string, error) {
	return s.render(ctx, s.Prompts.Review, map[string]any{
		"profile": s.Profile.Table(promptTableSep),
		"field":   string(f),
		"current": s.Profile.Value(f),
	})
}
