package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/sandevgo/wechatgpt/internal/config"
	"github.com/sandevgo/wechatgpt/internal/core"
	openai "github.com/sashabaranov/go-openai"
)

// OpenAI implements core.Completer over the chat completions API. The
// HTTP client timeout is this provider's own upper bound, decoupled from
// the reply coordinator's deadline.
type OpenAI struct {
	client *openai.Client
	model  string
}

func NewOpenAI(cfg *config.OpenAIConfig) *OpenAI {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	return &OpenAI{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
	}
}

func (o *OpenAI) Generate(ctx context.Context, prompt []core.ChatMessage) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(prompt))
	for _, m := range prompt {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    o.model,
		Messages: messages,
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusTooManyRequests {
			return "", fmt.Errorf("%w: %v", core.ErrRateLimited, err)
		}
		return "", fmt.Errorf("%w: %v", core.ErrUpstreamFailure, err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: empty choices", core.ErrUpstreamFailure)
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
