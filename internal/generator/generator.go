// Package generator turns prompts into streamed answer fragments. Every
// implementation returns a channel that closes at end of stream; failures
// arrive in-band as a terminal fragment carrying an error.
package generator

import (
	"context"

	"github.com/cloo-solutions/resumechat/internal/domain"
)

// emit sends one fragment unless the consumer has gone away. It returns
// false when the context is done and the producer should stop.
func emit(ctx context.Context, out chan<- domain.Fragment, frag domain.Fragment) bool {
	select {
	case out <- frag:
		return true
	case <-ctx.Done():
		return false
	}
}

// streamRunes replays already-generated text as a series of small fragments
// so that non-streaming backends still honor the streaming contract.
func streamRunes(ctx context.Context, out chan<- domain.Fragment, text string, size int) {
	if size <= 0 {
		size = 8
	}
	runes := []rune(text)
	for start := 0; start < len(runes); start += size {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		if !emit(ctx, out, domain.Fragment{Content: string(runes[start:end])}) {
			return
		}
	}
}
