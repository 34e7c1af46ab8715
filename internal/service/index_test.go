package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/cloo-solutions/resumechat/internal/domain"
)

type MockIngestor struct {
	mock.Mock
}

func (m *MockIngestor) Extract(ctx context.Context, data []byte) ([]string, error) {
	args := m.Called(ctx, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type MockEmbeddingClient struct {
	mock.Mock
}

func (m *MockEmbeddingClient) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float32), args.Error(1)
}

type MockVectorIndex struct {
	mock.Mock
}

func (m *MockVectorIndex) Rebuild(ctx context.Context, chunks []domain.Chunk) error {
	args := m.Called(ctx, chunks)
	return args.Error(0)
}

func (m *MockVectorIndex) Query(ctx context.Context, text string, k int) ([]domain.Retrieved, error) {
	args := m.Called(ctx, text, k)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Retrieved), args.Error(1)
}

func TestIndexService_Rebuild_Success(t *testing.T) {
	ingestor := new(MockIngestor)
	embedder := new(MockEmbeddingClient)
	index := new(MockVectorIndex)
	session := NewSession()

	ingestor.On("Extract", mock.Anything, mock.Anything).
		Return([]string{"Jane Doe\njane@example.com", "Experience at Acme"}, nil)
	embedder.On("GenerateEmbedding", mock.Anything, mock.Anything).
		Return([]float32{0.6, 0.8}, nil)

	var stored []domain.Chunk
	index.On("Rebuild", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			stored = args.Get(1).([]domain.Chunk)
		}).
		Return(nil)

	svc := NewIndexService(ingestor, embedder, index, session, ChunkConfig{Size: 500, Overlap: 50})
	result, err := svc.Rebuild(context.Background(), []byte("%PDF"), "resume.pdf")

	require.NoError(t, err)
	assert.Equal(t, 2, result.Chunks)
	assert.Equal(t, "resume.pdf", result.Filename)
	assert.Equal(t, "Jane Doe", result.User.Name)
	assert.Equal(t, "jane@example.com", result.User.Email)
	assert.Equal(t, "Jane Doe", session.User().Name)

	require.Len(t, stored, 2)
	assert.Equal(t, 0, stored[0].Ordinal)
	assert.Equal(t, 1, stored[0].Page)
	assert.Equal(t, 1, stored[1].Ordinal)
	assert.Equal(t, 2, stored[1].Page)
	assert.Equal(t, stored[0].DocumentID, stored[1].DocumentID)
	assert.NotEmpty(t, stored[0].Embedding)
	ingestor.AssertExpectations(t)
	index.AssertExpectations(t)
}

func TestIndexService_Rebuild_LongPageSplitsWithOverlap(t *testing.T) {
	ingestor := new(MockIngestor)
	embedder := new(MockEmbeddingClient)
	index := new(MockVectorIndex)

	page := strings.Repeat("r", 1200)
	ingestor.On("Extract", mock.Anything, mock.Anything).Return([]string{page}, nil)
	embedder.On("GenerateEmbedding", mock.Anything, mock.Anything).Return([]float32{1}, nil)

	var stored []domain.Chunk
	index.On("Rebuild", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			stored = args.Get(1).([]domain.Chunk)
		}).
		Return(nil)

	svc := NewIndexService(ingestor, embedder, index, nil, ChunkConfig{Size: 500, Overlap: 50})
	result, err := svc.Rebuild(context.Background(), []byte("%PDF"), "r.pdf")

	require.NoError(t, err)
	// ceil((1200-50)/450) = 3 windows.
	assert.Equal(t, 3, result.Chunks)
	require.Len(t, stored, 3)
	for i, c := range stored {
		assert.Equal(t, i, c.Ordinal)
		assert.Equal(t, 1, c.Page)
	}
}

func TestIndexService_Rebuild_IngestErrorPropagates(t *testing.T) {
	ingestor := new(MockIngestor)
	index := new(MockVectorIndex)

	ingestor.On("Extract", mock.Anything, mock.Anything).Return(nil, domain.ErrUnreadablePDF)

	svc := NewIndexService(ingestor, new(MockEmbeddingClient), index, nil, DefaultChunkConfig())
	_, err := svc.Rebuild(context.Background(), []byte("junk"), "junk.bin")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnreadablePDF))
	index.AssertNotCalled(t, "Rebuild", mock.Anything, mock.Anything)
}

func TestIndexService_Rebuild_EmbeddingFailureAbortsRebuild(t *testing.T) {
	ingestor := new(MockIngestor)
	embedder := new(MockEmbeddingClient)
	index := new(MockVectorIndex)

	ingestor.On("Extract", mock.Anything, mock.Anything).Return([]string{"some text"}, nil)
	embedder.On("GenerateEmbedding", mock.Anything, mock.Anything).Return(nil, errors.New("boom"))

	svc := NewIndexService(ingestor, embedder, index, nil, DefaultChunkConfig())
	_, err := svc.Rebuild(context.Background(), []byte("%PDF"), "r.pdf")

	require.Error(t, err)
	var domainErr *domain.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, domain.ErrCodeInternal, domainErr.Code)
	index.AssertNotCalled(t, "Rebuild", mock.Anything, mock.Anything)
}

func TestIndexService_Rebuild_BlankPagesOnly(t *testing.T) {
	ingestor := new(MockIngestor)
	ingestor.On("Extract", mock.Anything, mock.Anything).Return([]string{"   ", "\n"}, nil)

	svc := NewIndexService(ingestor, new(MockEmbeddingClient), new(MockVectorIndex), nil, DefaultChunkConfig())
	_, err := svc.Rebuild(context.Background(), []byte("%PDF"), "blank.pdf")

	assert.True(t, errors.Is(err, domain.ErrEmptyDocument))
}

func TestIndexService_Rebuild_UserInfoOverwrittenWholesale(t *testing.T) {
	ingestor := new(MockIngestor)
	embedder := new(MockEmbeddingClient)
	index := new(MockVectorIndex)
	session := NewSession()

	embedder.On("GenerateEmbedding", mock.Anything, mock.Anything).Return([]float32{1}, nil)
	index.On("Rebuild", mock.Anything, mock.Anything).Return(nil)

	svc := NewIndexService(ingestor, embedder, index, session, DefaultChunkConfig())

	ingestor.On("Extract", mock.Anything, mock.Anything).
		Return([]string{"Jane Doe\njane@example.com\n+1 415-555-0100"}, nil).Once()
	_, err := svc.Rebuild(context.Background(), []byte("a"), "a.pdf")
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", session.User().Email)

	// Second upload has no email; the whole record must be replaced.
	ingestor.On("Extract", mock.Anything, mock.Anything).
		Return([]string{"John Smith"}, nil).Once()
	_, err = svc.Rebuild(context.Background(), []byte("b"), "b.pdf")
	require.NoError(t, err)
	assert.Equal(t, "John Smith", session.User().Name)
	assert.Empty(t, session.User().Email)
	assert.Empty(t, session.User().Phone)
}
