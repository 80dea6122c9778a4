package server

import (
	"net/http"

	"github.com/abdullah-khaled0/voice-secretary/internal/api"
	"github.com/abdullah-khaled0/voice-secretary/internal/api/handlers"
	"github.com/abdullah-khaled0/voice-secretary/internal/api/middleware"
	"github.com/go-chi/chi/v5"
)

type RouterConfig struct {
	QueryHandler   *handlers.QueryHandler
	VoiceHandler   *handlers.VoiceHandler
	AllowedOrigins []string
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	const maxBodyBytes int64 = 5 * 1024 * 1024

	r.Use(middleware.RequestID)
	r.Use(middleware.SentryMiddleware)
	r.Use(middleware.AccessLog)
	r.Use(middleware.MaxBodyBytes(maxBodyBytes))
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		api.Success(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/text_query", cfg.QueryHandler.TextQuery)
	r.Get("/ws", cfg.VoiceHandler.Session)

	return r
}
