package assist

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"

	"github.com/notedown-sh/notedown/internal/config"
)

type anthropicProvider struct {
	client anthropic.Client
	model  anthropic.Model
}

func newAnthropicProvider(cfg config.AssistConfig) (Provider, error) {
	opts := []anthropicoption.RequestOption{}
	if cfg.APIKey != "" {
		opts = append(opts, anthropicoption.WithAPIKey(cfg.APIKey))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, anthropicoption.WithBaseURL(cfg.BaseURL))
	}

	model := anthropic.Model(cfg.Model)
	if cfg.Model == "" {
		model = anthropic.ModelClaude3_5HaikuLatest
	}
	return &anthropicProvider{
		client: anthropic.NewClient(opts...),
		model:  model,
	}, nil
}

func (a *anthropicProvider) Complete(ctx context.Context, system, prompt string) (string, error) {
	message, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     a.model,
		MaxTokens: 2048,
		System:    []anthropic.TextBlockParam{{Type: "text", Text: system}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic.Messages.New: %w", err)
	}

	var sb strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	return sb.String(), nil
}
