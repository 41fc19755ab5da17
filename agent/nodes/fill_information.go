package plannernode

import (
	"context"

	"github.com/rs/zerolog/log"

	fieldx "github.com/tanpawarit/startup-strategic-planner/agent/fields"
	statex "github.com/tanpawarit/startup-strategic-planner/agent/state"
)

// fillPolicy stores the generated text even when generation failed, so a
// failed fill leaves the field empty and it stays eligible for the next fill.
const fillPolicy = statex.OverwriteAlways

// FillInformation generates a value for every field that is empty right now.
func FillInformation(ctx context.Context, s *Session) error {
	if err := s.validate(); err != nil {
		return err
	}
	start := s.now()

	for _, f := range s.Profile.Empty() {
		prompt, err := s.render(ctx, s.Prompts.Fill, map[string]any{
			"profile":    s.Profile.Table(promptTableSep),
			"field":      string(f),
			"definition": fieldx.Definition(f),
		})
		if err != nil {
			return err
		}

		res := s.Gateway.Generate(ctx, prompt)
		if _, err := s.Profile.Apply(fillPolicy, f, res.Value()); err != nil {
			return err
		}
		log.Debug().Str("run_key", s.RunKey).Str("field", string(f)).Bool("ok", res.OK()).Msg("field filled")
	}

	end := s.now()
	return s.record(ctx, OpFillInformation, bracedText(""), s.Profile.Table("\n"), start, end)
}
