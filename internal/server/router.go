package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cloo-solutions/resumechat/internal/api"
	"github.com/cloo-solutions/resumechat/internal/api/handlers"
	"github.com/cloo-solutions/resumechat/internal/api/middleware"
)

type RouterConfig struct {
	UploadHandler  *handlers.UploadHandler
	ChatHandler    *handlers.ChatHandler
	CORSOrigin     string
	MaxUploadBytes int64
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	maxBodyBytes := cfg.MaxUploadBytes
	if maxBodyBytes <= 0 {
		maxBodyBytes = 10 * 1024 * 1024
	}

	r.Use(middleware.RequestID)
	r.Use(middleware.SentryMiddleware)
	r.Use(middleware.AccessLog)
	r.Use(middleware.CORS(cfg.CORSOrigin))
	r.Use(middleware.MaxBodyBytes(maxBodyBytes))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		api.Message(w, http.StatusOK, "Resume Chat API is running")
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		api.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/upload", cfg.UploadHandler.Upload)
	r.Post("/chat", cfg.ChatHandler.Chat)

	return r
}
