package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cloo-solutions/resumechat/internal/domain"
	"github.com/cloo-solutions/resumechat/internal/telemetry"
)

// Generator produces an answer for a prompt as a lazy stream of fragments.
// The returned channel closes at end of stream; failures arrive as a
// terminal fragment with Err set.
type Generator interface {
	Generate(ctx context.Context, prompt string, params domain.GenerationParams) <-chan domain.Fragment
}

// ChatService answers a single stateless question against the current index.
// No conversation history is retained across calls.
type ChatService struct {
	index          VectorIndex
	generator      Generator
	prompts        *PromptBuilder
	session        *Session
	topK           int
	params         domain.GenerationParams
	requireContext bool
}

type ChatConfig struct {
	TopK           int
	Params         domain.GenerationParams
	RequireContext bool
}

func NewChatService(index VectorIndex, generator Generator, prompts *PromptBuilder, session *Session, cfg ChatConfig) *ChatService {
	if cfg.TopK <= 0 {
		cfg.TopK = 2
	}
	if cfg.Params.MaxTokens <= 0 {
		cfg.Params = domain.DefaultGenerationParams()
	}
	return &ChatService{
		index:          index,
		generator:      generator,
		prompts:        prompts,
		session:        session,
		topK:           cfg.TopK,
		params:         cfg.Params,
		requireContext: cfg.RequireContext,
	}
}

// Ask validates the question and returns the answer stream. Errors returned
// here happen before any streaming starts and map to plain HTTP error
// responses; once the channel is handed out, failures travel in-band.
func (s *ChatService) Ask(ctx context.Context, question string) (<-chan domain.Fragment, error) {
	ctx, span := telemetry.StartSpan(ctx, "ChatService.Ask", telemetry.SpanAttributes{
		Operation: "ask",
	})
	defer span.End()

	question = strings.TrimSpace(question)
	if question == "" {
		return nil, domain.ErrEmptyQuestion
	}

	if answer, ok := s.shortcutAnswer(question); ok {
		return singleFragment(answer), nil
	}

	retrieved, err := s.index.Query(ctx, question, s.topK)
	if err != nil && !errors.Is(err, domain.ErrIndexMissing) {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeInternal, "retrieval failed", err)
	}

	parts := make([]string, 0, len(retrieved))
	for _, r := range retrieved {
		parts = append(parts, r.Chunk.Content)
	}
	contextText := strings.Join(parts, "\n\n")

	if s.requireContext && strings.TrimSpace(contextText) == "" {
		return nil, domain.ErrNoRelevantContext
	}

	prompt := s.prompts.Build(contextText, question)
	return s.generator.Generate(ctx, prompt, s.params), nil
}

// shortcutAnswer answers name/email/phone questions straight from the
// extracted personal-info record, bypassing retrieval. This is a keyword
// heuristic, not intent detection: a question that merely mentions one of
// the keywords will take the shortcut.
func (s *ChatService) shortcutAnswer(question string) (string, bool) {
	if s.session == nil {
		return "", false
	}
	user := s.session.User()
	if user.IsEmpty() {
		return "", false
	}

	q := strings.ToLower(question)
	switch {
	case strings.Contains(q, "your name") && user.Name != "":
		return fmt.Sprintf("My name is %s.", user.Name), true
	case strings.Contains(q, "email") && user.Email != "":
		return fmt.Sprintf("My email address is %s.", user.Email), true
	case strings.Contains(q, "phone") && user.Phone != "":
		return fmt.Sprintf("My phone number is %s.", user.Phone), true
	}
	return "", false
}

func singleFragment(text string) <-chan domain.Fragment {
	out := make(chan domain.Fragment, 1)
	out <- domain.Fragment{Content: text}
	close(out)
	return out
}
