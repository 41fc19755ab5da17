package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudwego/eino/compose"
	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/startup-strategic-planner/agent/contract"
	fieldx "github.com/tanpawarit/startup-strategic-planner/agent/fields"
	nodex "github.com/tanpawarit/startup-strategic-planner/agent/nodes"
	statex "github.com/tanpawarit/startup-strategic-planner/agent/state"
)

// Review asks for one field to be reviewed after quality control. With an
// empty Comment it is a plain review.
type Review struct {
	Field   string `json:"field" yaml:"field"`
	Comment string `json:"comment,omitempty" yaml:"comment,omitempty"`
}

type PipelineOptions struct {
	IncludeOriginal bool     `json:"include_original"`
	Reviews         []Review `json:"reviews,omitempty"`
}

type pipelineState struct {
	Opts    PipelineOptions
	Started time.Time
}

func (o *Orchestrator) stage(name string, fn func(context.Context, *pipelineState) error) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, in *pipelineState) (*pipelineState, error) {
		if in == nil {
			return nil, fmt.Errorf("%w: pipeline state is nil", contractx.ErrValidation)
		}
		started := o.now()
		if err := fn(ctx, in); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		log.Debug().
			Str("run_key", o.session.RunKey).
			Str("stage", name).
			Dur("elapsed", o.now().Sub(started)).
			Msg("pipeline stage finished")
		return in, nil
	})
}

func (o *Orchestrator) compilePipelineGraph(
	ctx context.Context,
) (compose.Runnable[PipelineOptions, *statex.Snapshot], error) {
	graph := compose.NewGraph[PipelineOptions, *statex.Snapshot]()

	if err := graph.AddLambdaNode("validate_options",
		compose.InvokableLambda(func(ctx context.Context, in PipelineOptions) (*pipelineState, error) {
			for _, r := range in.Reviews {
				if _, err := fieldx.Parse(r.Field); err != nil {
					return nil, err
				}
			}
			return &pipelineState{Opts: in, Started: o.now()}, nil
		}),
	); err != nil {
		return nil, fmt.Errorf("add node validate_options: %w", err)
	}

	stages := []struct {
		name string
		fn   func(context.Context, *pipelineState) error
	}{
		{"fill_information", func(ctx context.Context, _ *pipelineState) error {
			return nodex.FillInformation(ctx, o.session)
		}},
		{"quality_control", func(ctx context.Context, in *pipelineState) error {
			return nodex.QualityControl(ctx, o.session, in.Opts.IncludeOriginal)
		}},
		{"review_fields", func(ctx context.Context, in *pipelineState) error {
			for _, r := range in.Opts.Reviews {
				var err error
				if r.Comment == "" {
					err = nodex.ReviewSpecific(ctx, o.session, r.Field)
				} else {
					err = nodex.ReviewWithComment(ctx, o.session, r.Field, r.Comment)
				}
				if err != nil {
					return err
				}
			}
			return nil
		}},
		{"generate_objectives", func(ctx context.Context, _ *pipelineState) error {
			return nodex.GenerateObjectives(ctx, o.session)
		}},
		{"refine_objectives", func(ctx context.Context, _ *pipelineState) error {
			return nodex.RefineObjectives(ctx, o.session)
		}},
		{"prioritize_objectives", func(ctx context.Context, _ *pipelineState) error {
			return nodex.PrioritizeObjectives(ctx, o.session)
		}},
	}

	for _, s := range stages {
		if err := graph.AddLambdaNode(s.name, o.stage(s.name, s.fn)); err != nil {
			return nil, fmt.Errorf("add node %s: %w", s.name, err)
		}
	}

	if err := graph.AddLambdaNode("snapshot",
		compose.InvokableLambda(func(ctx context.Context, in *pipelineState) (*statex.Snapshot, error) {
			snap := o.Snapshot()
			log.Info().
				Str("run_key", o.session.RunKey).
				Dur("elapsed", o.now().Sub(in.Started)).
				Bool("refined", snap.Refined != "").
				Msg("planning pipeline finished")
			return snap, nil
		}),
	); err != nil {
		return nil, fmt.Errorf("add node snapshot: %w", err)
	}

	edges := [][2]string{{compose.START, "validate_options"}}
	prev := "validate_options"
	for _, s := range stages {
		edges = append(edges, [2]string{prev, s.name})
		prev = s.name
	}
	edges = append(edges, [2]string{prev, "snapshot"}, [2]string{"snapshot", compose.END})

	for _, edge := range edges {
		if err := graph.AddEdge(edge[0], edge[1]); err != nil {
			return nil, fmt.Errorf("add edge %s->%s: %w", edge[0], edge[1], err)
		}
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("orchestrator.planning_pipeline"))
	if err != nil {
		return nil, fmt.Errorf("compile planning pipeline graph: %w", err)
	}
	return runner, nil
}
