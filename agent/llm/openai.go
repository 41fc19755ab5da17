package llm

import (
	"context"
	"errors"
	"fmt"

	openaisdk "github.com/openai/openai-go"

	contractx "github.com/tanpawarit/startup-strategic-planner/agent/contract"
)

type sdkCompleter struct {
	client *openaisdk.Client
	model  string
}

var _ contractx.Completer = (*sdkCompleter)(nil)

func NewSDKCompleter(client *openaisdk.Client, model string) *sdkCompleter {
	return &sdkCompleter{client: client, model: model}
}

func (c *sdkCompleter) Complete(ctx context.Context, req contractx.CompletionRequest) (string, error) {
	messages := make([]openaisdk.ChatCompletionMessageParamUnion, 0, len(req.Messages))
	for _, m := range req.Messages {
		switch m.Role {
		case contractx.RoleSystem:
			messages = append(messages, openaisdk.SystemMessage(m.Content))
		default:
			messages = append(messages, openaisdk.UserMessage(m.Content))
		}
	}

	params := openaisdk.ChatCompletionNewParams{
		Model:       pickModel(req.Model, c.model),
		Messages:    messages,
		Temperature: openaisdk.Float(req.Temperature),
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openaisdk.Int(int64(req.MaxTokens))
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		var apiErr *openaisdk.Error
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("%w: status %d: %w", contractx.ErrGenerationTransport, apiErr.StatusCode, err)
		}
		return "", classifyCallErr(ctx, err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices", contractx.ErrMalformedResponse)
	}
	return resp.Choices[0].Message.Content, nil
}
