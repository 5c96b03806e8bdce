package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"quizhub/internal/certificate"
	"quizhub/internal/content"
	"quizhub/internal/metrics"
	"quizhub/internal/quiz"
	httperrors "quizhub/pkg/http/errors"
	ws "quizhub/pkg/http/ws"
)

// Renderer produces downloadable certificate artifacts.
type Renderer interface {
	Render(summary certificate.Summary) ([]byte, error)
}

// HTTPHandlers provides REST endpoints for quiz sessions.
type HTTPHandlers struct {
	manager  *Manager
	renderer Renderer
	hub      *ws.Hub
	ws       *WSHandler
	logger   zerolog.Logger
}

// NewHTTPHandlers creates HTTP handlers for session endpoints.
func NewHTTPHandlers(manager *Manager, renderer Renderer, hub *ws.Hub, logger zerolog.Logger) *HTTPHandlers {
	return &HTTPHandlers{
		manager:  manager,
		renderer: renderer,
		hub:      hub,
		ws:       NewWSHandler(hub, logger),
		logger:   logger.With().Str("component", "session_http").Logger(),
	}
}

type createSessionRequest struct {
	StudentName string `json:"student_name"`
}

type selectRequest struct {
	QuizID      string `json:"quiz_id"`
	StudentName string `json:"student_name"`
}

type answerRequest struct {
	Value  any      `json:"value"`
	Values []string `json:"values"`
}

func (req *answerRequest) submission() (quiz.Submission, error) {
	sub := quiz.Submission{Values: req.Values}
	switch v := req.Value.(type) {
	case nil:
	case string:
		sub.Value = v
	case bool:
		// true/false submissions arrive as JSON booleans
		if v {
			sub.Value = "True"
		} else {
			sub.Value = "False"
		}
	default:
		return quiz.Submission{}, fmt.Errorf("value must be a string or boolean")
	}
	return sub, nil
}

// HandleSessions dispatches everything under /v1/sessions.
//
//	POST   /v1/sessions                      create
//	GET    /v1/sessions/{id}                 state snapshot
//	DELETE /v1/sessions/{id}                 abandon
//	POST   /v1/sessions/{id}/select          choose a quiz, start the run
//	POST   /v1/sessions/{id}/answer          grade the current question
//	POST   /v1/sessions/{id}/advance         move to the next question
//	POST   /v1/sessions/{id}/restart         replay the finished quiz
//	POST   /v1/sessions/{id}/return          back to the selection screen
//	GET    /v1/sessions/{id}/review          attempt log and score
//	GET    /v1/sessions/{id}/certificate     PNG certificate download
//	GET    /v1/sessions/{id}/ws              observer WebSocket
func (h *HTTPHandlers) HandleSessions(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/sessions"), "/")
	if rest == "" {
		h.handleCreate(w, r)
		return
	}

	idPart, actionPart, _ := strings.Cut(rest, "/")
	action, trailing, _ := strings.Cut(actionPart, "/")
	if trailing != "" {
		http.NotFound(w, r)
		return
	}

	id, err := uuid.Parse(idPart)
	if err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidSessionID, "session id must be a uuid")
		return
	}
	s, ok := h.manager.Get(id)
	if !ok {
		httperrors.RespondNotFound(w, httperrors.ErrCodeSessionNotFound, "session not found")
		return
	}

	switch {
	case action == "" && r.Method == http.MethodGet:
		writeJSON(w, http.StatusOK, s.View())
	case action == "" && r.Method == http.MethodDelete:
		h.handleDelete(w, s)
	case action == "select" && r.Method == http.MethodPost:
		h.handleSelect(w, r, s)
	case action == "answer" && r.Method == http.MethodPost:
		h.handleAnswer(w, r, s)
	case action == "advance" && r.Method == http.MethodPost:
		h.handleAdvance(w, s)
	case action == "restart" && r.Method == http.MethodPost:
		h.handleRestart(w, s)
	case action == "return" && r.Method == http.MethodPost:
		h.handleReturn(w, s)
	case action == "review" && r.Method == http.MethodGet:
		h.handleReview(w, s)
	case action == "certificate" && r.Method == http.MethodGet:
		h.handleCertificate(w, r, s)
	case action == "ws" && r.Method == http.MethodGet:
		h.ws.HandleWatch(w, r, s)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *HTTPHandlers) handleCreate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}

	s := h.manager.Create(req.StudentName)
	metrics.SessionsStarted.Inc()
	writeJSON(w, http.StatusCreated, s.View())
}

func (h *HTTPHandlers) handleDelete(w http.ResponseWriter, s *Session) {
	h.manager.Delete(s.ID)
	if msg, err := ws.NewMessage(ws.TypeSessionClosed, ws.SessionClosedPayload{
		SessionID: s.ID.String(),
		Reason:    "session deleted",
	}); err == nil {
		h.hub.CloseSession(s.ID.String(), msg)
	}
	h.logger.Info().Str("session_id", s.ID.String()).Msg("session deleted")
	w.WriteHeader(http.StatusNoContent)
}

func (h *HTTPHandlers) handleSelect(w http.ResponseWriter, r *http.Request, s *Session) {
	var req selectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}
	if req.QuizID == "" {
		httperrors.RespondValidationError(w, httperrors.ErrCodeMissingField, "quiz_id is required", "quiz_id")
		return
	}

	if err := s.Select(r.Context(), req.QuizID, req.StudentName); err != nil {
		h.respondSelectError(w, req.QuizID, err)
		return
	}
	if s.Phase() == PhaseFinished {
		// Zero-question documents finish on the spot.
		metrics.QuizzesFinished.Inc()
	}
	h.broadcastState(s)
	writeJSON(w, http.StatusOK, s.View())
}

func (h *HTTPHandlers) respondSelectError(w http.ResponseWriter, quizID string, err error) {
	var schemaErr *quiz.SchemaError
	switch {
	case errors.Is(err, ErrAlreadySelected):
		httperrors.RespondError(w, http.StatusConflict, httperrors.ErrCodeQuizAlreadySelected, "finish or abandon the current quiz first")
	case errors.Is(err, content.ErrNotFound):
		httperrors.RespondNotFound(w, httperrors.ErrCodeQuizNotFound, "quiz not found")
	case errors.As(err, &schemaErr):
		httperrors.RespondErrorWithDetails(w, http.StatusUnprocessableEntity, httperrors.ErrCodeInvalidQuiz, schemaErr.Error(),
			map[string]interface{}{"quiz_id": quizID})
	default:
		h.logger.Error().Err(err).Str("quiz_id", quizID).Msg("quiz load failed")
		httperrors.RespondError(w, http.StatusBadGateway, httperrors.ErrCodeContentUnavailable, "quiz content unavailable")
	}
}

func (h *HTTPHandlers) handleAnswer(w http.ResponseWriter, r *http.Request, s *Session) {
	var req answerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}
	sub, err := req.submission()
	if err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeValidationFailed, err.Error())
		return
	}

	res, err := s.Submit(sub)
	if err != nil {
		httperrors.RespondError(w, http.StatusConflict, httperrors.ErrCodeNoActiveQuestion, "no question is being presented")
		return
	}

	if res.Graded && !res.AlreadyGraded {
		result := metrics.ResultIncorrect
		if res.Correct {
			result = metrics.ResultCorrect
		}
		metrics.AnswersGraded.WithLabelValues(result).Inc()
		h.broadcastState(s)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"graded":         res.Graded,
		"correct":        res.Correct,
		"already_graded": res.AlreadyGraded,
		"view":           s.View(),
	})
}

func (h *HTTPHandlers) handleAdvance(w http.ResponseWriter, s *Session) {
	if err := s.Advance(); err != nil {
		switch {
		case errors.Is(err, ErrAdvanceBlocked):
			httperrors.RespondError(w, http.StatusConflict, httperrors.ErrCodeAdvanceBlocked, "grade the current question first")
		default:
			httperrors.RespondError(w, http.StatusConflict, httperrors.ErrCodeNoActiveQuestion, "no question is being presented")
		}
		return
	}
	if s.Phase() == PhaseFinished {
		metrics.QuizzesFinished.Inc()
	}
	h.broadcastState(s)
	writeJSON(w, http.StatusOK, s.View())
}

func (h *HTTPHandlers) handleRestart(w http.ResponseWriter, s *Session) {
	if err := s.Restart(); err != nil {
		httperrors.RespondError(w, http.StatusConflict, httperrors.ErrCodeSessionNotFinished, "the quiz run is still in progress")
		return
	}
	h.broadcastState(s)
	writeJSON(w, http.StatusOK, s.View())
}

func (h *HTTPHandlers) handleReturn(w http.ResponseWriter, s *Session) {
	if err := s.ReturnToSelection(); err != nil {
		httperrors.RespondError(w, http.StatusConflict, httperrors.ErrCodeSessionNotFinished, "the quiz run is still in progress")
		return
	}
	h.broadcastState(s)
	writeJSON(w, http.StatusOK, s.View())
}

func (h *HTTPHandlers) handleReview(w http.ResponseWriter, s *Session) {
	v := s.View()
	attempts := s.Attempts()
	if attempts == nil {
		attempts = []Attempt{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"session_id": v.SessionID,
		"phase":      v.Phase,
		"quiz_id":    v.QuizID,
		"quiz_title": v.QuizTitle,
		"score":      v.Score,
		"total":      v.Total,
		"ratio":      float64(v.Score) / float64(max(v.Total, 1)),
		"attempts":   attempts,
	})
}

func (h *HTTPHandlers) handleCertificate(w http.ResponseWriter, r *http.Request, s *Session) {
	if s.Phase() != PhaseFinished {
		httperrors.RespondError(w, http.StatusConflict, httperrors.ErrCodeSessionNotFinished, "finish the quiz to download a certificate")
		return
	}

	name := r.URL.Query().Get("name")
	if name == "" {
		name = s.StudentName()
	}
	summary := certificate.BuildSummary(name, s.QuizTitle(), s.Score(), s.Total())

	data, err := h.renderer.Render(summary)
	if err != nil {
		h.logger.Error().Err(err).Str("session_id", s.ID.String()).Msg("certificate render failed")
		httperrors.RespondError(w, http.StatusInternalServerError, httperrors.ErrCodeCertificateRenderFailed, "certificate could not be rendered")
		return
	}
	metrics.CertificatesRendered.Inc()

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", certificateFilename(summary)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func certificateFilename(s certificate.Summary) string {
	base := fmt.Sprintf("certificate_%s_%s.png", s.StudentName, s.QuizTitle)
	return strings.ReplaceAll(base, " ", "_")
}

func (h *HTTPHandlers) broadcastState(s *Session) {
	msg, err := ws.NewMessage(ws.TypeSessionState, s.View())
	if err != nil {
		h.logger.Warn().Err(err).Msg("snapshot marshal failed")
		return
	}
	if err := h.hub.BroadcastToSession(s.ID.String(), msg); err != nil {
		h.logger.Warn().Err(err).Str("session_id", s.ID.String()).Msg("state broadcast failed")
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}
