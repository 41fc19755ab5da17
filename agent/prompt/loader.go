package prompt

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"
)

var (
	//go:embed template/system.txt
	systemRaw string

	//go:embed template/fill.txt
	fillRaw string

	//go:embed template/review.txt
	reviewRaw string

	//go:embed template/review_comment.txt
	reviewCommentRaw string

	//go:embed template/objectives_pair.txt
	objectivesPairRaw string

	//go:embed template/objectives_combined.txt
	objectivesCombinedRaw string

	//go:embed template/refine.txt
	refineRaw string

	//go:embed template/prioritize.txt
	prioritizeRaw string
)

// Set holds loaded prompt templates. Placeholders use {name} syntax.
type Set struct {
	System             string
	Fill               string
	Review             string
	ReviewComment      string
	ObjectivesPair     string
	ObjectivesCombined string
	Refine             string
	Prioritize         string
}

// LoadSet returns a Set with trimmed template strings.
func LoadSet() Set {
	return Set{
		System:             strings.TrimSpace(systemRaw),
		Fill:               strings.TrimSpace(fillRaw),
		Review:             strings.TrimSpace(reviewRaw),
		ReviewComment:      strings.TrimSpace(reviewCommentRaw),
		ObjectivesPair:     strings.TrimSpace(objectivesPairRaw),
		ObjectivesCombined: strings.TrimSpace(objectivesCombinedRaw),
		Refine:             strings.TrimSpace(refineRaw),
		Prioritize:         strings.TrimSpace(prioritizeRaw),
	}
}

// Render substitutes vars into tmpl.
func Render(ctx context.Context, tmpl string, vars map[string]any) (string, error) {
	msgs, err := schema.UserMessage(tmpl).Format(ctx, vars, schema.FString)
	if err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return "", fmt.Errorf("render prompt: empty result")
	}
	return msgs[0].Content, nil
}
