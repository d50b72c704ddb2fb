package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/liquidaesthetik/praxis-assistant/pkg/logging"
)

// Responder is the pipeline capability the handler needs. Narrowed to an
// interface so tests can inject doubles.
type Responder interface {
	Respond(ctx context.Context, message string) (Result, error)
}

// Handler wires HTTP requests to the chat pipeline.
type Handler struct {
	pipeline Responder
	logger   *logging.Logger
}

// NewHandler creates a chat handler.
func NewHandler(pipeline Responder, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{pipeline: pipeline, logger: logger}
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Chat handles POST /api/chat. The response is emitted exactly once per
// request; internal failures surface as a generic 500 without detail.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Ungültiges JSON im Request-Body."})
		return
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Feld 'message' ist leer."})
		return
	}

	res, err := h.pipeline.Respond(r.Context(), message)
	if err != nil {
		h.logger.Error("chat request failed", "error", err)
		h.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Die Antwort konnte nicht erstellt werden. Bitte versuche es später erneut."})
		return
	}

	h.logger.Info("chat request answered", "outcome", res.Outcome)
	h.writeJSON(w, http.StatusOK, chatResponse{Reply: res.Reply})
}

// Health handles the GET health check.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", "error", err)
	}
}
