package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	orchestratorx "github.com/tanpawarit/startup-strategic-planner/agent/agents/orchestrator"
	contractx "github.com/tanpawarit/startup-strategic-planner/agent/contract"
	"github.com/tanpawarit/startup-strategic-planner/agent/execlog"
	llmx "github.com/tanpawarit/startup-strategic-planner/agent/llm"
	statex "github.com/tanpawarit/startup-strategic-planner/agent/state"
	"github.com/tanpawarit/startup-strategic-planner/api"
	configx "github.com/tanpawarit/startup-strategic-planner/pkg/config"
	_ "github.com/tanpawarit/startup-strategic-planner/pkg/logger/autoload"
)

type AppConfig struct {
	Mode            string        `envconfig:"APP_MODE" default:"cli"`
	ProfileFile     string        `envconfig:"PROFILE_FILE"`
	Performance     int           `envconfig:"PERFORMANCE"`
	IncludeOriginal bool          `envconfig:"INCLUDE_ORIGINAL" default:"false"`
	ReviewField     string        `envconfig:"REVIEW_FIELD"`
	ReviewComment   string        `envconfig:"REVIEW_COMMENT"`
	ResumeRunKey    string        `envconfig:"RESUME_RUN_KEY"`
	ListenAddr      string        `envconfig:"LISTEN_ADDR" default:":8080"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

func (c AppConfig) Validate() error {
	switch strings.ToLower(strings.TrimSpace(c.Mode)) {
	case "cli":
		if strings.TrimSpace(c.ProfileFile) == "" && strings.TrimSpace(c.ResumeRunKey) == "" {
			return fmt.Errorf("%w: PROFILE_FILE or RESUME_RUN_KEY is required in cli mode", contractx.ErrValidation)
		}
	case "server":
	default:
		return fmt.Errorf("%w: unknown APP_MODE %q", contractx.ErrValidation, c.Mode)
	}
	if c.Performance < 0 || c.Performance > statex.MaxPerformance {
		return fmt.Errorf("%w: PERFORMANCE must be between 1 and %d", contractx.ErrValidation, statex.MaxPerformance)
	}
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appCfg := configx.MustNew[AppConfig]("")
	llmCfg := configx.MustNew[llmx.Config]("LLM")
	logCfg := configx.MustNew[execlog.Config]("EXECLOG")
	redisCfg := configx.MustNew[statex.UpstashRedisConfig]("UPSTASH_REDIS")

	completer, closeCompleter, err := llmx.NewCompleter(ctx, *llmCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("init completion backend")
	}
	defer closeCompleter()

	sinks, closeSinks, err := execlog.NewSinkFactory(ctx, *logCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("init execution log sink")
	}
	defer closeSinks()

	var store statex.Store
	if redisCfg.Enabled() {
		s, err := statex.NewUpstashRedisStore(*redisCfg)
		if err != nil {
			log.Fatal().Err(err).Msg("init snapshot store")
		}
		store = s
	}

	runCfg := orchestratorx.Config{
		Model:             llmCfg.ModelName(),
		Performance:       appCfg.Performance,
		GenerationTimeout: llmCfg.Timeout,
	}

	if strings.EqualFold(strings.TrimSpace(appCfg.Mode), "server") {
		err = serve(ctx, *appCfg, api.NewHandler(completer, sinks, store, api.Config{
			Model:             runCfg.Model,
			GenerationTimeout: runCfg.GenerationTimeout,
		}))
	} else {
		err = runOnce(ctx, *appCfg, completer, sinks, store, runCfg)
	}
	if err != nil {
		closeSinks()
		closeCompleter()
		log.Fatal().Err(err).Msg("planner failed")
	}
}

func runOnce(
	ctx context.Context,
	appCfg AppConfig,
	completer contractx.Completer,
	sinks execlog.SinkFactory,
	store statex.Store,
	runCfg orchestratorx.Config,
) error {
	o, err := openRun(ctx, appCfg, completer, sinks, store, runCfg)
	if err != nil {
		return err
	}

	opts := orchestratorx.PipelineOptions{IncludeOriginal: appCfg.IncludeOriginal}
	if f := strings.TrimSpace(appCfg.ReviewField); f != "" {
		opts.Reviews = append(opts.Reviews, orchestratorx.Review{Field: f, Comment: appCfg.ReviewComment})
	}

	snap, err := o.RunPipeline(ctx, opts)
	if err != nil {
		return err
	}

	if store != nil {
		if err := store.Save(ctx, snap); err != nil {
			log.Warn().Err(err).Str("run_key", snap.RunKey).Msg("persist run snapshot")
		}
	}

	out, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

func openRun(
	ctx context.Context,
	appCfg AppConfig,
	completer contractx.Completer,
	sinks execlog.SinkFactory,
	store statex.Store,
	runCfg orchestratorx.Config,
) (*orchestratorx.Orchestrator, error) {
	if key := strings.TrimSpace(appCfg.ResumeRunKey); key != "" {
		if store == nil {
			return nil, fmt.Errorf("%w: RESUME_RUN_KEY needs UPSTASH_REDIS_URL", contractx.ErrValidation)
		}
		snap, err := store.Load(ctx, key)
		if err != nil {
			return nil, err
		}
		return orchestratorx.Resume(ctx, snap, completer, sinks, runCfg)
	}

	pf, err := statex.LoadProfileFile(appCfg.ProfileFile)
	if err != nil {
		return nil, err
	}
	if runCfg.Performance == 0 {
		if pf.Performance < 0 || pf.Performance > statex.MaxPerformance {
			return nil, fmt.Errorf("%w: profile performance %d out of range", contractx.ErrValidation, pf.Performance)
		}
		runCfg.Performance = pf.Performance
	}
	return orchestratorx.New(ctx, pf.Info, completer, sinks, runCfg)
}

func serve(ctx context.Context, appCfg AppConfig, h *api.Handler) error {
	gin.SetMode(gin.ReleaseMode)
	srv := &http.Server{
		Addr:              appCfg.ListenAddr,
		Handler:           h.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", appCfg.ListenAddr).Msg("planner api listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), appCfg.ShutdownTimeout)
	defer cancel()
	log.Info().Msg("shutting down planner api")
	return srv.Shutdown(shutdownCtx)
}
