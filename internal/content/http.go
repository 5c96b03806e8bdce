package content

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"quizhub/internal/quiz"
	httperrors "quizhub/pkg/http/errors"
)

// HTTPHandlers exposes REST endpoints for the quiz catalog.
type HTTPHandlers struct {
	source Source
	logger zerolog.Logger
}

// NewHTTPHandlers constructs a catalog HTTP handler.
func NewHTTPHandlers(source Source, logger zerolog.Logger) *HTTPHandlers {
	return &HTTPHandlers{
		source: source,
		logger: logger.With().Str("component", "content_http").Logger(),
	}
}

// HandleList responds with the selectable quizzes.
// Route: GET /v1/quizzes
func (h *HTTPHandlers) HandleList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	entries, err := h.source.List(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("catalog listing failed")
		httperrors.RespondError(w, http.StatusBadGateway, httperrors.ErrCodeContentUnavailable, "quiz catalog unavailable")
		return
	}
	if entries == nil {
		entries = []Entry{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"quizzes": entries})
}

// HandleDetail responds with summary info for one quiz: title, subject
// and question count. Loading here runs full validation, so broken
// content surfaces before a learner starts a run.
// Route: GET /v1/quizzes/{id}
func (h *HTTPHandlers) HandleDetail(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/v1/quizzes/"), "/")
	if id == "" {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "quiz id required")
		return
	}

	doc, err := h.source.Load(r.Context(), id)
	if err != nil {
		h.respondLoadError(w, id, err)
		return
	}

	title := doc.Meta.Title
	if title == "" {
		title = labelFromStem(id)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":        id,
		"title":     title,
		"subject":   doc.Meta.Subject,
		"questions": len(doc.Questions),
	})
}

func (h *HTTPHandlers) respondLoadError(w http.ResponseWriter, id string, err error) {
	var schemaErr *quiz.SchemaError
	switch {
	case errors.Is(err, ErrNotFound):
		httperrors.RespondNotFound(w, httperrors.ErrCodeQuizNotFound, "quiz not found")
	case errors.As(err, &schemaErr):
		httperrors.RespondErrorWithDetails(w, http.StatusUnprocessableEntity, httperrors.ErrCodeInvalidQuiz, schemaErr.Error(),
			map[string]interface{}{"quiz_id": id})
	default:
		h.logger.Error().Err(err).Str("quiz_id", id).Msg("quiz load failed")
		httperrors.RespondError(w, http.StatusBadGateway, httperrors.ErrCodeContentUnavailable, "quiz content unavailable")
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}
