package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/cloo-solutions/resumechat/internal/api"
	"github.com/cloo-solutions/resumechat/internal/domain"
)

type MockChatService struct {
	mock.Mock
}

func (m *MockChatService) Ask(ctx context.Context, question string) (<-chan domain.Fragment, error) {
	args := m.Called(ctx, question)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(<-chan domain.Fragment), args.Error(1)
}

func fragmentChannel(fragments ...domain.Fragment) <-chan domain.Fragment {
	out := make(chan domain.Fragment, len(fragments))
	for _, f := range fragments {
		out <- f
	}
	close(out)
	return out
}

func chatRequest(t *testing.T, body string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestChatHandler_StreamsSSE(t *testing.T) {
	svc := new(MockChatService)
	svc.On("Ask", mock.Anything, "What does Jane do?").
		Return(fragmentChannel(
			domain.Fragment{Content: "She is "},
			domain.Fragment{Content: "an engineer."},
		), nil)

	handler := NewChatHandler(svc)
	rec := httptest.NewRecorder()
	handler.Chat(rec, chatRequest(t, `{"message":"What does Jane do?"}`))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "data: She is \n\ndata: an engineer.\n\n", rec.Body.String())
	svc.AssertExpectations(t)
}

func TestChatHandler_InvalidJSON(t *testing.T) {
	svc := new(MockChatService)
	handler := NewChatHandler(svc)

	rec := httptest.NewRecorder()
	handler.Chat(rec, chatRequest(t, `{not json`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp api.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "invalid request body", resp.Error)
	svc.AssertNotCalled(t, "Ask", mock.Anything, mock.Anything)
}

func TestChatHandler_EmptyMessage(t *testing.T) {
	svc := new(MockChatService)
	svc.On("Ask", mock.Anything, "").Return(nil, domain.ErrEmptyQuestion)

	handler := NewChatHandler(svc)
	rec := httptest.NewRecorder()
	handler.Chat(rec, chatRequest(t, `{"message":""}`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp api.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Error, "question is required")
}

func TestChatHandler_NoContext(t *testing.T) {
	svc := new(MockChatService)
	svc.On("Ask", mock.Anything, "anything").Return(nil, domain.ErrNoRelevantContext)

	handler := NewChatHandler(svc)
	rec := httptest.NewRecorder()
	handler.Chat(rec, chatRequest(t, `{"message":"anything"}`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChatHandler_MidStreamError(t *testing.T) {
	svc := new(MockChatService)
	svc.On("Ask", mock.Anything, "q").
		Return(fragmentChannel(
			domain.Fragment{Content: "partial"},
			domain.Fragment{Err: domain.NewDomainError(domain.ErrCodeGeneration, "model unavailable")},
		), nil)

	handler := NewChatHandler(svc)
	rec := httptest.NewRecorder()
	handler.Chat(rec, chatRequest(t, `{"message":"q"}`))

	// Status is already 200; the failure is an in-band terminal event.
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "data: partial\n\n")
	assert.Contains(t, rec.Body.String(), "data: ERROR: [GENERATION_ERROR] model unavailable\n\n")
}
