package llm

import (
	"context"
	"fmt"

	einomodel "github.com/cloudwego/eino/components/model"
	einoprompt "github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	contractx "github.com/tanpawarit/startup-strategic-planner/agent/contract"
)

type chatModelCompleter struct {
	runner compose.Runnable[map[string]any, *schema.Message]
	model  string
}

var _ contractx.Completer = (*chatModelCompleter)(nil)

// NewChatModelCompleter runs completions through an eino prompt -> model graph.
func NewChatModelCompleter(ctx context.Context, chatModel einomodel.BaseChatModel, model string) (*chatModelCompleter, error) {
	if chatModel == nil {
		return nil, fmt.Errorf("%w: chat model is required", contractx.ErrValidation)
	}
	runner, err := compileCompletionGraph(ctx, chatModel)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", contractx.ErrModelInvoke, err)
	}
	return &chatModelCompleter{runner: runner, model: model}, nil
}

func compileCompletionGraph(ctx context.Context, chatModel einomodel.BaseChatModel) (compose.Runnable[map[string]any, *schema.Message], error) {
	template := einoprompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.UserMessage("{input}"),
	)

	graph := compose.NewGraph[map[string]any, *schema.Message]()
	if err := graph.AddChatTemplateNode("prompt", template); err != nil {
		return nil, fmt.Errorf("add completion prompt node: %w", err)
	}
	if err := graph.AddChatModelNode("model", chatModel); err != nil {
		return nil, fmt.Errorf("add completion model node: %w", err)
	}
	if err := graph.AddEdge(compose.START, "prompt"); err != nil {
		return nil, fmt.Errorf("add completion edge start->prompt: %w", err)
	}
	if err := graph.AddEdge("prompt", "model"); err != nil {
		return nil, fmt.Errorf("add completion edge prompt->model: %w", err)
	}
	if err := graph.AddEdge("model", compose.END); err != nil {
		return nil, fmt.Errorf("add completion edge model->end: %w", err)
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("llm.completion_graph"))
	if err != nil {
		return nil, fmt.Errorf("compile completion graph: %w", err)
	}
	return runner, nil
}

func (c *chatModelCompleter) Complete(ctx context.Context, req contractx.CompletionRequest) (string, error) {
	opts := []einomodel.Option{
		einomodel.WithTemperature(float32(req.Temperature)),
	}
	if req.MaxTokens > 0 {
		opts = append(opts, einomodel.WithMaxTokens(req.MaxTokens))
	}
	if m := pickModel(req.Model, c.model); m != "" {
		opts = append(opts, einomodel.WithModel(m))
	}

	msg, err := c.runner.Invoke(ctx, map[string]any{
		"system": req.SystemPrompt(),
		"input":  req.UserPrompt(),
	}, compose.WithChatModelOption(opts...))
	if err != nil {
		return "", classifyCallErr(ctx, err)
	}
	if msg == nil {
		return "", fmt.Errorf("%w: nil message", contractx.ErrMalformedResponse)
	}
	return msg.Content, nil
}
