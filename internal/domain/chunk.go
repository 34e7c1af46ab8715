package domain

// Chunk is a bounded text window cut from an uploaded document. Chunks from
// the same document keep their original order through Ordinal; neighbouring
// chunks share a fixed overlap so that no content is lost at window edges.
type Chunk struct {
	ID         string
	DocumentID string
	Ordinal    int
	Page       int
	Content    string
	Embedding  []float32
}

// Retrieved is a chunk returned by a similarity query, ranked by descending
// similarity to the query embedding.
type Retrieved struct {
	Chunk      Chunk
	Similarity float32
}

// GenerationParams carries sampling parameters for answer generation.
type GenerationParams struct {
	Temperature float32
	MaxTokens   int
}

// DefaultGenerationParams is temperature 0.7 with at most 300 new tokens.
func DefaultGenerationParams() GenerationParams {
	return GenerationParams{
		Temperature: 0.7,
		MaxTokens:   300,
	}
}
