package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, requireAuth bool) *Server {
	t.Helper()
	cfg := DefaultConfig()
	cfg.JWTSecret = "test-secret"
	cfg.RequireAuth = requireAuth
	return New(context.Background(), cfg)
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(t, false)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestHandleCompile_RequiresAuth(t *testing.T) {
	s := newTestServer(t, true)

	body := []byte(`{"sources":[{"path":"a.mdsl","text":"UNIT U { id: ID PRIMARY KEY }"}]}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/compile", bytes.NewReader(body))
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHandleCompile_WithValidToken(t *testing.T) {
	s := newTestServer(t, true)

	token, err := s.auth.GenerateToken("user-1", "user@example.com", []string{"compiler"})
	require.NoError(t, err)

	body := []byte(`{"sources":[{"path":"a.mdsl","text":"UNIT U { id: ID PRIMARY KEY }"}]}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/compile", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var results []compileResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &results))
	require.Len(t, results, 1)
	assert.Empty(t, results[0].Error)
	assert.Contains(t, results[0].SQL, "CREATE TABLE U")
}

func TestHandleCompile_ForbidsInsufficientRole(t *testing.T) {
	s := newTestServer(t, true)

	token, err := s.auth.GenerateToken("user-2", "user2@example.com", []string{"viewer"})
	require.NoError(t, err)

	body := []byte(`{"sources":[{"path":"a.mdsl","text":"UNIT U { id: ID PRIMARY KEY }"}]}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/compile", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestHandleCompile_InvalidToken(t *testing.T) {
	s := newTestServer(t, true)

	body := []byte(`{"sources":[{"path":"a.mdsl","text":"UNIT U { id: ID PRIMARY KEY }"}]}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/compile", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer not-a-real-token")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHandleCompile_RejectsEmptyBatch(t *testing.T) {
	s := newTestServer(t, false)

	body := []byte(`{"sources":[]}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/compile", bytes.NewReader(body))
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleGetResult_NotFoundWhenUncached(t *testing.T) {
	s := newTestServer(t, false)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/compile/deadbeef", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleCompile_StoresResultForLaterRetrieval(t *testing.T) {
	s := newTestServer(t, false)

	source := `UNIT U { id: ID PRIMARY KEY }`
	body := []byte(`{"sources":[{"path":"a.mdsl","text":"` + source + `"}]}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/compile", bytes.NewReader(body))
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	hash := contentHash(source)
	getReq := httptest.NewRequest(http.MethodGet, "/api/v1/compile/"+hash, nil)
	getW := httptest.NewRecorder()
	s.Handler().ServeHTTP(getW, getReq)

	assert.Equal(t, http.StatusOK, getW.Code)
	var got compileResponse
	require.NoError(t, json.Unmarshal(getW.Body.Bytes(), &got))
	assert.Contains(t, got.SQL, "CREATE TABLE U")
}

func TestAuthServiceRoundTrip(t *testing.T) {
	s := newTestServer(t, true)

	token, err := s.auth.GenerateToken("u1", "u1@example.com", []string{"compiler"})
	require.NoError(t, err)

	claims, err := s.auth.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims["user_id"])
}
