package assist

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/notedown-sh/notedown/internal/config"
)

type geminiProvider struct {
	cfg   config.AssistConfig
	model string
}

func newGeminiProvider(cfg config.AssistConfig) (Provider, error) {
	model := cfg.Model
	if model == "" {
		model = "gemini-2.0-flash"
	}
	return &geminiProvider{cfg: cfg, model: model}, nil
}

func (g *geminiProvider) Complete(ctx context.Context, system, prompt string) (string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  g.cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", fmt.Errorf("genai.NewClient: %w", err)
	}

	resp, err := client.Models.GenerateContent(ctx, g.model,
		genai.Text(prompt),
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
		},
	)
	if err != nil {
		return "", fmt.Errorf("genai.GenerateContent: %w", err)
	}
	return resp.Text(), nil
}
