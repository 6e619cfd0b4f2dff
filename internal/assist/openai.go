package assist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/azure"
	"github.com/openai/openai-go/option"

	"github.com/notedown-sh/notedown/internal/config"
)

const maxRetries = 5

type openaiProvider struct {
	client openai.Client
	model  string
}

func newOpenAIProvider(cfg config.AssistConfig) (Provider, error) {
	opts := []option.RequestOption{}
	if cfg.APIKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &openaiProvider{
		client: openai.NewClient(opts...),
		model:  model,
	}, nil
}

// newAzureProvider targets an Azure OpenAI deployment, authenticating with
// the ambient Azure credential chain when no API key is configured.
func newAzureProvider(cfg config.AssistConfig) (Provider, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("assist.baseUrl must be set to the Azure OpenAI endpoint")
	}

	opts := []option.RequestOption{
		azure.WithEndpoint(cfg.BaseURL, "2025-01-01-preview"),
	}
	if cfg.APIKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	} else {
		cred, err := azidentity.NewDefaultAzureCredential(nil)
		if err != nil {
			return nil, fmt.Errorf("azidentity.NewDefaultAzureCredential: %w", err)
		}
		opts = append(opts, azure.WithTokenCredential(cred))
	}

	if cfg.Model == "" {
		return nil, fmt.Errorf("assist.model must name the Azure deployment")
	}
	return &openaiProvider{
		client: openai.NewClient(opts...),
		model:  cfg.Model,
	}, nil
}

func (o *openaiProvider) Complete(ctx context.Context, system, prompt string) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(prompt),
		},
	}

	attempts := 0
	for {
		attempts++
		resp, err := o.client.Chat.Completions.New(ctx, params)
		if err != nil {
			retry, after, retryErr := o.shouldRetry(attempts, err)
			if retryErr != nil {
				return "", retryErr
			}
			if retry {
				select {
				case <-ctx.Done():
					return "", ctx.Err()
				case <-time.After(time.Duration(after) * time.Millisecond):
					continue
				}
			}
			return "", err
		}
		if len(resp.Choices) == 0 {
			return "", fmt.Errorf("empty completion response")
		}
		return resp.Choices[0].Message.Content, nil
	}
}

func (o *openaiProvider) shouldRetry(attempts int, err error) (bool, int64, error) {
	var apierr *openai.Error
	if !errors.As(err, &apierr) {
		return false, 0, err
	}

	if apierr.StatusCode != 429 && apierr.StatusCode != 500 {
		return false, 0, err
	}

	if attempts > maxRetries {
		return false, 0, fmt.Errorf("maximum retry attempts reached for rate limit: %d retries", maxRetries)
	}

	retryMs := 0
	retryAfterValues := apierr.Response.Header.Values("Retry-After")

	backoffMs := 2000 * (1 << (attempts - 1))
	jitterMs := int(float64(backoffMs) * 0.2)
	retryMs = backoffMs + jitterMs
	if len(retryAfterValues) > 0 {
		if _, err := fmt.Sscanf(retryAfterValues[0], "%d", &retryMs); err == nil {
			retryMs = retryMs * 1000
		}
	}
	return true, int64(retryMs), nil
}
