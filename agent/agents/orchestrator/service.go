package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/compose"
	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/startup-strategic-planner/agent/contract"
	"github.com/tanpawarit/startup-strategic-planner/agent/execlog"
	fieldx "github.com/tanpawarit/startup-strategic-planner/agent/fields"
	gatewayx "github.com/tanpawarit/startup-strategic-planner/agent/gateway"
	nodex "github.com/tanpawarit/startup-strategic-planner/agent/nodes"
	promptx "github.com/tanpawarit/startup-strategic-planner/agent/prompt"
	statex "github.com/tanpawarit/startup-strategic-planner/agent/state"
)

const initResult = "Classe inicializada"

type Config struct {
	// Model is passed to the completer and recorded in the __init__ entry.
	Model string
	// Performance in 1..150; <= 0 means 1.
	Performance int
	// GenerationTimeout bounds each generation call. Zero leaves it to the
	// completer's transport.
	GenerationTimeout time.Duration
	Now               func() time.Time
}

// Orchestrator owns one planning run: its profile, its execution log and
// the gateway bound to the profile's token budget. Methods must not be
// called concurrently.
type Orchestrator struct {
	session *nodex.Session
	logger  *execlog.Logger
	model   string

	pipeline compose.Runnable[PipelineOptions, *statex.Snapshot]

	now func() time.Time
}

// New starts a run for info and writes its __init__ log entry.
func New(
	ctx context.Context,
	info statex.Info,
	completer contractx.Completer,
	sinks execlog.SinkFactory,
	cfg Config,
) (*Orchestrator, error) {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	start := now()

	profile := statex.NewProfile(info, cfg.Performance)
	runKey := execlog.RunKey(start, info.StartupName)

	o, err := build(ctx, runKey, profile, completer, sinks, cfg, now)
	if err != nil {
		return nil, err
	}

	inputs := execlog.Inputs{}.Add("model_name", o.model)
	for _, e := range profile.Get() {
		inputs = inputs.Add(string(e.Field), e.Value)
	}
	inputs = inputs.Add("performance", profile.Performance())

	if err := o.logger.Append(ctx, nodex.OpInit, inputs, initResult, start, now(), profile.Table("\n")); err != nil {
		return nil, err
	}

	log.Info().
		Str("run_key", runKey).
		Int("performance", profile.Performance()).
		Int("token_budget", profile.TokenBudget()).
		Int("missing", len(profile.Missing())).
		Msg("planning run started")
	return o, nil
}

// Resume continues a persisted run. No __init__ entry is written; new
// entries are appended to the run's existing log.
func Resume(
	ctx context.Context,
	snap *statex.Snapshot,
	completer contractx.Completer,
	sinks execlog.SinkFactory,
	cfg Config,
) (*Orchestrator, error) {
	profile, err := statex.Restore(snap)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", contractx.ErrValidation, err)
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	o, err := build(ctx, snap.RunKey, profile, completer, sinks, cfg, now)
	if err != nil {
		return nil, err
	}
	log.Info().Str("run_key", snap.RunKey).Msg("planning run resumed")
	return o, nil
}

func build(
	ctx context.Context,
	runKey string,
	profile *statex.Profile,
	completer contractx.Completer,
	sinks execlog.SinkFactory,
	cfg Config,
	now func() time.Time,
) (*Orchestrator, error) {
	if completer == nil {
		return nil, errors.New("completer is required")
	}
	if sinks == nil {
		return nil, errors.New("log sink factory is required")
	}

	logger, err := execlog.Open(ctx, sinks, runKey, execlog.WithClock(now))
	if err != nil {
		return nil, err
	}

	prompts := promptx.LoadSet()
	model := strings.TrimSpace(cfg.Model)
	gw, err := gatewayx.New(completer, profile, gatewayx.Config{
		Model:        model,
		SystemPrompt: prompts.System,
		Timeout:      cfg.GenerationTimeout,
	})
	if err != nil {
		return nil, err
	}

	o := &Orchestrator{
		session: &nodex.Session{
			RunKey:  runKey,
			Profile: profile,
			Gateway: gw,
			Log:     logger,
			Prompts: prompts,
			Now:     now,
		},
		logger: logger,
		model:  model,
		now:    now,
	}

	pipeline, err := o.compilePipelineGraph(ctx)
	if err != nil {
		return nil, err
	}
	o.pipeline = pipeline

	return o, nil
}

func (o *Orchestrator) RunKey() string { return o.session.RunKey }

// Profile returns the current profile in canonical field order.
func (o *Orchestrator) Profile() []statex.Entry { return o.session.Profile.Get() }

func (o *Orchestrator) Info() statex.Info { return o.session.Profile.Info() }

func (o *Orchestrator) TokenBudget() int { return o.session.Profile.TokenBudget() }

// Definition returns the fixed definition of a canonical field.
func (o *Orchestrator) Definition(key string) (string, error) { return fieldx.Lookup(key) }

func (o *Orchestrator) Missing() []fieldx.Field { return o.session.Profile.Missing() }

func (o *Orchestrator) Objectives() statex.StrategicObjectives { return o.session.Profile.Objectives() }

func (o *Orchestrator) RefinedObjectives() string { return o.session.Profile.Refined() }

func (o *Orchestrator) Snapshot() *statex.Snapshot {
	return o.session.Profile.Snapshot(o.session.RunKey, o.now())
}

// LogContent returns the run's execution log so far.
func (o *Orchestrator) LogContent(ctx context.Context) (string, error) {
	return o.logger.Content(ctx)
}

func (o *Orchestrator) FillInformation(ctx context.Context) error {
	return nodex.FillInformation(ctx, o.session)
}

func (o *Orchestrator) QualityControl(ctx context.Context, includeOriginal bool) error {
	return nodex.QualityControl(ctx, o.session, includeOriginal)
}

func (o *Orchestrator) ReviewSpecific(ctx context.Context, key string) error {
	return nodex.ReviewSpecific(ctx, o.session, key)
}

func (o *Orchestrator) ReviewWithComment(ctx context.Context, target, comment string) error {
	return nodex.ReviewWithComment(ctx, o.session, target, comment)
}

func (o *Orchestrator) GenerateObjectives(ctx context.Context) error {
	return nodex.GenerateObjectives(ctx, o.session)
}

func (o *Orchestrator) RefineObjectives(ctx context.Context) error {
	return nodex.RefineObjectives(ctx, o.session)
}

func (o *Orchestrator) PrioritizeObjectives(ctx context.Context) error {
	return nodex.PrioritizeObjectives(ctx, o.session)
}

// RunPipeline runs the stages in their advisory order and returns the
// final state.
func (o *Orchestrator) RunPipeline(ctx context.Context, opts PipelineOptions) (*statex.Snapshot, error) {
	return o.pipeline.Invoke(ctx, opts)
}
