package booking

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/liquidaesthetik/praxis-assistant/pkg/logging"
)

// Booker books and cancels appointments.
type Booker interface {
	Book(ctx context.Context, req Request) (*Confirmation, error)
	Cancel(ctx context.Context, id uuid.UUID) error
}

// Handler exposes booking over HTTP.
type Handler struct {
	svc    Booker
	logger *logging.Logger
}

// NewHandler creates a booking handler.
func NewHandler(svc Booker, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{svc: svc, logger: logger}
}

type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Book handles POST /api/booking/book.
func (h *Handler) Book(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Ungültiges JSON im Request-Body."})
		return
	}
	if msg := validate(req); msg != "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: msg})
		return
	}

	conf, err := h.svc.Book(r.Context(), req)
	if err != nil {
		if errors.Is(err, ErrSlotTaken) {
			writeJSON(w, http.StatusConflict, errorResponse{Error: "Zeitfenster bereits belegt"})
			return
		}
		h.logger.Error("booking failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Die Buchung konnte nicht gespeichert werden. Bitte versuche es später erneut."})
		return
	}

	writeJSON(w, http.StatusOK, conf)
}

// Cancel handles POST /api/booking/{id}/cancel.
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Ungültige Termin-ID."})
		return
	}

	if err := h.svc.Cancel(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "Termin nicht gefunden."})
			return
		}
		h.logger.Error("cancellation failed", "error", err, "appointment_id", id)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Die Stornierung ist fehlgeschlagen. Bitte versuche es später erneut."})
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Termin storniert"})
}

func validate(req Request) string {
	switch {
	case strings.TrimSpace(req.Name) == "":
		return "Feld 'name' ist leer."
	case strings.TrimSpace(req.Email) == "" || !strings.Contains(req.Email, "@"):
		return "Feld 'email' ist ungültig."
	case strings.TrimSpace(req.Treatment) == "":
		return "Feld 'treatment' ist leer."
	case strings.TrimSpace(req.Location) == "":
		return "Feld 'location' ist leer."
	case req.StartsAt.IsZero():
		return "Feld 'starts_at' fehlt oder ist ungültig."
	case req.StartsAt.Before(time.Now()):
		return "Der Termin muss in der Zukunft liegen."
	}
	return ""
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
