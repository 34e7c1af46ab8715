package generator

import (
	"context"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"

	"github.com/cloo-solutions/resumechat/internal/domain"
)

// OllamaGenerator answers through a local Ollama server. The langchaingo
// call returns the whole completion at once, so the text is replayed in
// small fragments to keep the streaming contract.
type OllamaGenerator struct {
	llm   *ollama.LLM
	chunk int
}

type OllamaConfig struct {
	ServerURL string
	Model     string
	// FragmentRunes bounds how many runes each replayed fragment carries.
	FragmentRunes int
}

func NewOllamaGenerator(cfg OllamaConfig) (*OllamaGenerator, error) {
	opts := []ollama.Option{ollama.WithModel(cfg.Model)}
	if cfg.ServerURL != "" {
		opts = append(opts, ollama.WithServerURL(cfg.ServerURL))
	}
	llm, err := ollama.New(opts...)
	if err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeGeneration, "failed to initialize ollama client", err)
	}
	return &OllamaGenerator{llm: llm, chunk: cfg.FragmentRunes}, nil
}

func (g *OllamaGenerator) Generate(ctx context.Context, prompt string, params domain.GenerationParams) <-chan domain.Fragment {
	out := make(chan domain.Fragment)
	go func() {
		defer close(out)

		text, err := llms.GenerateFromSinglePrompt(ctx, g.llm, prompt,
			llms.WithTemperature(float64(params.Temperature)),
			llms.WithMaxTokens(params.MaxTokens),
		)
		if err != nil {
			emit(ctx, out, domain.Fragment{
				Err: domain.NewDomainErrorWithCause(domain.ErrCodeGeneration, "local generation failed", err),
			})
			return
		}

		streamRunes(ctx, out, text, g.chunk)
	}()
	return out
}
