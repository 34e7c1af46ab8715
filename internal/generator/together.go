package generator

import (
	"context"
	"errors"
	"io"

	openai "github.com/sashabaranov/go-openai"

	"github.com/cloo-solutions/resumechat/internal/domain"
)

// DefaultChatModel is the instruct model used when none is configured.
const DefaultChatModel = "mistralai/Mistral-7B-Instruct-v0.2"

// TogetherGenerator streams chat completions from Together's
// OpenAI-compatible API, forwarding each delta as one fragment.
type TogetherGenerator struct {
	client *openai.Client
	model  string
	hasKey bool
}

type TogetherConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

func NewTogetherGenerator(cfg TogetherConfig) *TogetherGenerator {
	if cfg.Model == "" {
		cfg.Model = DefaultChatModel
	}
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &TogetherGenerator{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
		hasKey: cfg.APIKey != "",
	}
}

// Generate opens a completion stream and relays deltas until the backend
// signals end of stream. The returned channel always closes.
func (g *TogetherGenerator) Generate(ctx context.Context, prompt string, params domain.GenerationParams) <-chan domain.Fragment {
	out := make(chan domain.Fragment)
	go func() {
		defer close(out)

		if !g.hasKey {
			emit(ctx, out, domain.Fragment{Err: domain.ErrMissingAPIKey})
			return
		}

		stream, err := g.client.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
			Model: g.model,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleUser, Content: prompt},
			},
			Temperature: params.Temperature,
			MaxTokens:   params.MaxTokens,
			Stream:      true,
		})
		if err != nil {
			emit(ctx, out, domain.Fragment{
				Err: domain.NewDomainErrorWithCause(domain.ErrCodeGeneration, "failed to open completion stream", err),
			})
			return
		}
		defer stream.Close()

		for {
			resp, err := stream.Recv()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				emit(ctx, out, domain.Fragment{
					Err: domain.NewDomainErrorWithCause(domain.ErrCodeGeneration, "completion stream failed", err),
				})
				return
			}
			if len(resp.Choices) == 0 {
				continue
			}
			delta := resp.Choices[0].Delta.Content
			if delta == "" {
				continue
			}
			if !emit(ctx, out, domain.Fragment{Content: delta}) {
				return
			}
		}
	}()
	return out
}
