// Package assist provides optional writing assistance backed by a hosted
// model provider.
package assist

import (
	"context"
	"fmt"
	"strings"

	"github.com/notedown-sh/notedown/internal/config"
)

// Task is a writing assistance operation applied to note content.
type Task string

const (
	TaskSummarize Task = "summarize"
	TaskImprove   Task = "improve"
	TaskContinue  Task = "continue"
	TaskTitle     Task = "title"
)

const systemPrompt = `You are a writing assistant inside a note-taking app.
Respond with markdown only. Do not add commentary about the task.`

// Provider sends a single prompt and returns the model's text response.
type Provider interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// New builds a provider from the assist configuration.
func New(cfg config.AssistConfig) (Provider, error) {
	switch strings.ToLower(cfg.Provider) {
	case "", "openai":
		return newOpenAIProvider(cfg)
	case "azure":
		return newAzureProvider(cfg)
	case "anthropic":
		return newAnthropicProvider(cfg)
	case "gemini":
		return newGeminiProvider(cfg)
	default:
		return nil, fmt.Errorf("unknown assist provider: %s", cfg.Provider)
	}
}

// Run executes a task against a note body.
func Run(ctx context.Context, p Provider, task Task, body string) (string, error) {
	prompt, err := buildPrompt(task, body)
	if err != nil {
		return "", err
	}
	out, err := p.Complete(ctx, systemPrompt, prompt)
	if err != nil {
		return "", fmt.Errorf("assist %s: %w", task, err)
	}
	return strings.TrimSpace(out), nil
}

func buildPrompt(task Task, body string) (string, error) {
	switch task {
	case TaskSummarize:
		return fmt.Sprintf("Summarize the following note in a few bullet points:\n\n%s", body), nil
	case TaskImprove:
		return fmt.Sprintf("Rewrite the following note for clarity and concision, keeping its structure:\n\n%s", body), nil
	case TaskContinue:
		return fmt.Sprintf("Continue writing the following note in the same voice. Return only the continuation:\n\n%s", body), nil
	case TaskTitle:
		return fmt.Sprintf("Suggest a short title for the following note. Return only the title:\n\n%s", body), nil
	default:
		return "", fmt.Errorf("unknown assist task: %s", task)
	}
}
