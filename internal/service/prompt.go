package service

import "fmt"

// PromptStyle selects the prompt framing for the configured generator.
type PromptStyle int

const (
	// StyleInstruct wraps the prompt in instruction tags as expected by
	// instruct-tuned models served behind chat-completion APIs.
	StyleInstruct PromptStyle = iota
	// StylePlain uses a bare Context/Question/Answer framing for models
	// prompted locally without a chat template.
	StylePlain
)

const (
	instructTemplate = "[INST] Use the following resume to answer the question.\n\n%s\n\nQuestion: %s [/INST]"
	plainTemplate    = "Use the following resume context to answer the question.\n\nContext:\n%s\n\nQuestion: %s\nAnswer:"
)

// PromptBuilder combines retrieved context and the user's question into a
// single instruction string. The template must match the convention of the
// generator that consumes it.
type PromptBuilder struct {
	style PromptStyle
}

func NewPromptBuilder(style PromptStyle) *PromptBuilder {
	return &PromptBuilder{style: style}
}

// Build renders the prompt. An empty context still produces a prompt; the
// caller decides whether empty context short-circuits before generation.
func (b *PromptBuilder) Build(contextText, question string) string {
	switch b.style {
	case StylePlain:
		return fmt.Sprintf(plainTemplate, contextText, question)
	default:
		return fmt.Sprintf(instructTemplate, contextText, question)
	}
}
