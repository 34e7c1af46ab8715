package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/cloo-solutions/resumechat/internal/api"
	"github.com/cloo-solutions/resumechat/internal/domain"
	"github.com/cloo-solutions/resumechat/internal/service"
)

type UploadService interface {
	Rebuild(ctx context.Context, data []byte, filename string) (*service.RebuildResult, error)
}

type UploadHandler struct {
	svc UploadService
}

func NewUploadHandler(svc UploadService) *UploadHandler {
	return &UploadHandler{svc: svc}
}

// Upload accepts a multipart PDF under the "file" field, rebuilds the index
// from it and reports the outcome. Each upload replaces whatever was
// indexed before.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		api.HandleError(w, domain.ErrMissingFile)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		api.Error(w, http.StatusBadRequest, "failed to read uploaded file")
		return
	}

	result, err := h.svc.Rebuild(r.Context(), data, header.Filename)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	message := "Resume uploaded and indexed successfully."
	if result.User.Name != "" {
		message = fmt.Sprintf("Resume for %s uploaded and indexed successfully.", result.User.Name)
	}
	api.Message(w, http.StatusOK, message)
}
