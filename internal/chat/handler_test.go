package chat

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liquidaesthetik/praxis-assistant/pkg/logging"
)

// recordingResponder counts pipeline invocations.
type recordingResponder struct {
	calls  int
	result Result
	err    error
}

func (r *recordingResponder) Respond(_ context.Context, _ string) (Result, error) {
	r.calls++
	return r.result, r.err
}

func newTestHandler(resp *recordingResponder) *Handler {
	return NewHandler(resp, logging.NewWithWriter(nopWriter{}, "error", "text"))
}

func doChat(t *testing.T, h *Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Chat(rec, req)
	return rec
}

func TestChatSuccess(t *testing.T) {
	resp := &recordingResponder{result: Result{Reply: "Die Preise für hyaluron beginnen ab 250€.", Outcome: OutcomePrice}}
	rec := doChat(t, newTestHandler(resp), `{"message": "Was kostet Hyaluron?"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body chatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Die Preise für hyaluron beginnen ab 250€.", body.Reply)
}

func TestChatEmptyMessage(t *testing.T) {
	resp := &recordingResponder{}
	rec := doChat(t, newTestHandler(resp), `{"message": "   "}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var body errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Error)
	assert.Zero(t, resp.calls, "pipeline must not run for an empty message")
}

func TestChatMissingMessageField(t *testing.T) {
	resp := &recordingResponder{}
	rec := doChat(t, newTestHandler(resp), `{"text": "hallo"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, resp.calls)
}

func TestChatMalformedJSON(t *testing.T) {
	resp := &recordingResponder{}
	rec := doChat(t, newTestHandler(resp), `{"message": `)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var body errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Error)
	assert.Zero(t, resp.calls)
}

func TestChatInternalError(t *testing.T) {
	resp := &recordingResponder{err: errors.New("model timeout: secret internal detail")}
	rec := doChat(t, newTestHandler(resp), `{"message": "Hallo"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Error)
	assert.NotContains(t, body.Error, "secret internal detail", "internal errors must not leak")
}

func TestHealth(t *testing.T) {
	h := newTestHandler(&recordingResponder{})
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	h.Health(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.NotEmpty(t, body["time"])
}
