package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/abdullah-khaled0/voice-secretary/internal/api"
	"github.com/abdullah-khaled0/voice-secretary/internal/domain"
)

// Assistant answers a user query with a structured response plus the name of
// the mentioned project, if any.
type Assistant interface {
	Respond(ctx context.Context, query string) (*domain.StructuredResponse, string, error)
}

type QueryHandler struct {
	assistant   Assistant
	turnTimeout time.Duration
}

func NewQueryHandler(assistant Assistant, turnTimeout time.Duration) *QueryHandler {
	return &QueryHandler{assistant: assistant, turnTimeout: turnTimeout}
}

type TextQueryRequest struct {
	Query string `json:"query"`
}

// TextQuery handles POST /text_query. The body of a successful response is
// the structured response object itself, not an envelope, so browser and
// voice clients share one schema.
func (h *QueryHandler) TextQuery(w http.ResponseWriter, r *http.Request) {
	var req TextQueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if strings.TrimSpace(req.Query) == "" {
		api.HandleError(w, domain.ErrEmptyQuery)
		return
	}

	ctx := r.Context()
	if h.turnTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.turnTimeout)
		defer cancel()
	}

	resp, _, err := h.assistant.Respond(ctx, req.Query)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.JSON(w, http.StatusOK, resp)
}
