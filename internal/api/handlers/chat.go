package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/cloo-solutions/resumechat/internal/api"
	"github.com/cloo-solutions/resumechat/internal/domain"
)

type ChatService interface {
	Ask(ctx context.Context, question string) (<-chan domain.Fragment, error)
}

type ChatHandler struct {
	svc ChatService
}

func NewChatHandler(svc ChatService) *ChatHandler {
	return &ChatHandler{svc: svc}
}

type ChatRequest struct {
	Message string `json:"message"`
}

// Chat answers one question as a server-sent event stream. Validation
// failures arrive as plain JSON errors; once streaming has begun, failures
// are delivered as a terminal "data: ERROR: ..." event because the status
// line is already on the wire.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	fragments, err := h.svc.Ask(r.Context(), req.Message)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		api.Error(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for frag := range fragments {
		if frag.Err != nil {
			fmt.Fprintf(w, "data: ERROR: %s\n\n", frag.Err.Error())
			flusher.Flush()
			return
		}
		if _, err := fmt.Fprintf(w, "data: %s\n\n", frag.Content); err != nil {
			// Client went away; the request context cancellation stops
			// the producer.
			return
		}
		flusher.Flush()
	}
}
