package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"

	contractx "github.com/tanpawarit/startup-strategic-planner/agent/contract"
)

type geminiCompleter struct {
	client *genai.Client
	model  string
}

var _ contractx.Completer = (*geminiCompleter)(nil)

func NewGeminiCompleter(client *genai.Client, model string) *geminiCompleter {
	return &geminiCompleter{client: client, model: model}
}

func (c *geminiCompleter) Complete(ctx context.Context, req contractx.CompletionRequest) (string, error) {
	gm := c.client.GenerativeModel(pickModel(req.Model, c.model))
	if sys := req.SystemPrompt(); sys != "" {
		gm.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(sys)}}
	}
	if req.MaxTokens > 0 {
		gm.SetMaxOutputTokens(int32(req.MaxTokens))
	}
	gm.SetTemperature(float32(req.Temperature))

	resp, err := gm.GenerateContent(ctx, genai.Text(req.UserPrompt()))
	if err != nil {
		return "", classifyCallErr(ctx, err)
	}
	return responseText(resp)
}

// responseText joins the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: no candidates", contractx.ErrMalformedResponse)
	}
	cand := resp.Candidates[0]
	if cand == nil || cand.Content == nil || len(cand.Content.Parts) == 0 {
		return "", fmt.Errorf("%w: no content generated", contractx.ErrMalformedResponse)
	}

	var b strings.Builder
	for _, part := range cand.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("%w: no text parts", contractx.ErrMalformedResponse)
	}
	return b.String(), nil
}
