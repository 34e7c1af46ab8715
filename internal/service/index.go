package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/cloo-solutions/resumechat/internal/domain"
	"github.com/cloo-solutions/resumechat/internal/telemetry"
)

// Ingestor extracts page-ordered text blocks from uploaded document bytes.
type Ingestor interface {
	Extract(ctx context.Context, data []byte) ([]string, error)
}

// EmbeddingClient maps a piece of text to a fixed-dimension unit-norm vector.
type EmbeddingClient interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

// VectorIndex persists chunks with their embeddings and retrieves the
// closest matches for a query. Rebuild replaces the whole index; it never
// merges with previous contents.
type VectorIndex interface {
	Rebuild(ctx context.Context, chunks []domain.Chunk) error
	Query(ctx context.Context, text string, k int) ([]domain.Retrieved, error)
}

// RebuildResult reports what an upload produced.
type RebuildResult struct {
	DocumentID string
	Filename   string
	Chunks     int
	User       domain.UserInfo
}

// IndexService runs the upload pipeline: extract text, cut it into
// overlapping chunks, embed each chunk and replace the vector index. When a
// session is attached it also refreshes the personal-info record.
type IndexService struct {
	ingestor Ingestor
	embedder EmbeddingClient
	index    VectorIndex
	session  *Session
	chunkCfg ChunkConfig
}

func NewIndexService(ingestor Ingestor, embedder EmbeddingClient, index VectorIndex, session *Session, chunkCfg ChunkConfig) *IndexService {
	if chunkCfg.Size <= 0 || chunkCfg.Overlap < 0 || chunkCfg.Overlap >= chunkCfg.Size {
		chunkCfg = DefaultChunkConfig()
	}
	return &IndexService{
		ingestor: ingestor,
		embedder: embedder,
		index:    index,
		session:  session,
		chunkCfg: chunkCfg,
	}
}

// Rebuild indexes one uploaded document, discarding any previous index. The
// raw document is not retained; only chunks and embeddings survive.
func (s *IndexService) Rebuild(ctx context.Context, data []byte, filename string) (*RebuildResult, error) {
	documentID := uuid.NewString()
	ctx, span := telemetry.StartSpan(ctx, "IndexService.Rebuild", telemetry.SpanAttributes{
		DocumentID: documentID,
		Operation:  "rebuild",
	})
	defer span.End()

	pages, err := s.ingestor.Extract(ctx, data)
	if err != nil {
		return nil, err
	}

	chunks := make([]domain.Chunk, 0, len(pages))
	for pageNum, page := range pages {
		for _, window := range chunkText(page, s.chunkCfg) {
			chunks = append(chunks, domain.Chunk{
				ID:         uuid.NewString(),
				DocumentID: documentID,
				Ordinal:    len(chunks),
				Page:       pageNum + 1,
				Content:    window,
			})
		}
	}
	if len(chunks) == 0 {
		return nil, domain.ErrEmptyDocument
	}

	for i := range chunks {
		embedding, err := s.embedder.GenerateEmbedding(ctx, chunks[i].Content)
		if err != nil {
			return nil, domain.NewDomainErrorWithCause(domain.ErrCodeInternal, "failed to embed chunk", err)
		}
		chunks[i].Embedding = embedding
	}

	if err := s.index.Rebuild(ctx, chunks); err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeInternal, "failed to rebuild index", err)
	}

	result := &RebuildResult{
		DocumentID: documentID,
		Filename:   filename,
		Chunks:     len(chunks),
	}

	if s.session != nil {
		result.User = domain.ExtractUserInfo(strings.Join(pages, "\n"))
		s.session.Replace(result.User)
	}

	return result, nil
}
