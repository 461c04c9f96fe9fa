package httputil

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type body struct {
	Symbol string `json:"symbol"`
}

func TestReadJSON(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"symbol":"AAPL"}`))
	var b body
	require.NoError(t, ReadJSON(r, &b))
	assert.Equal(t, "AAPL", b.Symbol)
}

func TestReadJSONRejectsUnknownFields(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"symbol":"AAPL","bogus":1}`))
	var b body
	assert.EqualError(t, ReadJSON(r, &b), "invalid json body")
}

func TestReadJSONRejectsMalformed(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{`))
	var b body
	assert.EqualError(t, ReadJSON(r, &b), "invalid json body")
}

func TestWriteJSON(t *testing.T) {
	w := httptest.NewRecorder()
	WriteJSON(w, 418, ErrorResponse{Error: "teapot"})

	assert.Equal(t, 418, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"teapot"}`, w.Body.String())
}
