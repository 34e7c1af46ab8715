package service

import "strings"

// ChunkConfig controls how extracted text is cut into retrieval windows.
type ChunkConfig struct {
	Size    int
	Overlap int
}

// DefaultChunkConfig is a 500-rune window with a 50-rune overlap.
func DefaultChunkConfig() ChunkConfig {
	return ChunkConfig{
		Size:    500,
		Overlap: 50,
	}
}

// chunkText splits text into fixed-size windows of at most cfg.Size runes,
// each sharing cfg.Overlap runes with its predecessor. The trailing window is
// kept even when shorter than cfg.Size, so no content is ever dropped. For
// input of length L the result has ceil((L-Overlap)/(Size-Overlap)) windows;
// L <= Size yields exactly one.
func chunkText(text string, cfg ChunkConfig) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if cfg.Size <= 0 || cfg.Overlap < 0 || cfg.Overlap >= cfg.Size {
		cfg = DefaultChunkConfig()
	}

	runes := []rune(text)
	if len(runes) <= cfg.Size {
		return []string{text}
	}

	step := cfg.Size - cfg.Overlap
	chunks := make([]string, 0, (len(runes)-cfg.Overlap+step-1)/step)
	for start := 0; ; start += step {
		end := start + cfg.Size
		if end >= len(runes) {
			chunks = append(chunks, string(runes[start:]))
			return chunks
		}
		chunks = append(chunks, string(runes[start:end]))
	}
}
