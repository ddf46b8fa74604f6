package server

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pacedproton/mdslc/internal/batch"
	"github.com/pacedproton/mdslc/internal/web/auth"
	webcache "github.com/pacedproton/mdslc/internal/web/cache"
	"github.com/pacedproton/mdslc/internal/web/websocket"
)

// compileRequest is the body of POST /api/v1/compile.
type compileRequest struct {
	Sources []batch.Source `json:"sources"`
}

// compileResponse mirrors batch.Result in a stable wire shape.
type compileResponse struct {
	Path     string        `json:"path"`
	SQL      string        `json:"sql,omitempty"`
	Cypher   string        `json:"cypher,omitempty"`
	Error    string        `json:"error,omitempty"`
	Cached   bool          `json:"cached"`
	Duration time.Duration `json:"duration_ns"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) handleCompile(w http.ResponseWriter, r *http.Request) {
	var req compileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if len(req.Sources) == 0 {
		http.Error(w, "sources must not be empty", http.StatusBadRequest)
		return
	}

	results, err := s.runner.CompileAll(r.Context(), req.Sources)
	if err != nil {
		http.Error(w, "batch error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	out := make([]compileResponse, len(results))
	for i, res := range results {
		out[i] = compileResponse{
			Path:     res.Path,
			SQL:      res.SQL,
			Cypher:   res.Cypher,
			Cached:   res.Cached,
			Duration: res.Duration,
		}
		if res.Err != nil {
			out[i].Error = res.Err.Error()
		}
		s.publishDiagnostics(r.Context(), res)
		s.storeResult(r.Context(), req.Sources[i].Text, out[i])
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}

// handleGetResult serves a previously compiled result by its content
// hash, honoring If-None-Match/If-Modified-Since so a client that
// already holds the result gets a 304 instead of the full body.
func (s *Server) handleGetResult(w http.ResponseWriter, r *http.Request) {
	hash := chi.URLParam(r, "hash")
	data, err := s.cache.Get(r.Context(), "result:"+hash)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	etag := webcache.GenerateETag(data)
	if webcache.CheckConditionalRequest(w, r, etag, time.Time{}) {
		return
	}
	webcache.SetCacheHeaders(w, etag, time.Time{}, "private, max-age=60")

	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

// publishDiagnostics broadcasts a result's diagnostics to every
// connected diagnostics websocket client.
func (s *Server) publishDiagnostics(ctx context.Context, res *batch.Result) {
	userID := auth.GetCurrentUser(ctx)
	issues := make([]websocket.IssueView, len(res.Diagnostics))
	for i, issue := range res.Diagnostics {
		issues[i] = websocket.IssueView{
			Severity: issue.Severity.String(),
			Rule:     string(issue.Rule),
			Message:  issue.Message,
			Line:     issue.Pos.Line,
			Column:   issue.Pos.Column,
		}
	}
	s.ws.Hub.Broadcast(&websocket.DiagnosticsEvent{
		Type:        "compile_result",
		JobID:       res.JobID,
		Path:        res.Path,
		UserID:      userID,
		Diagnostics: issues,
		Error:       errString(res.Err),
	})
}

func (s *Server) storeResult(ctx context.Context, sourceText string, res compileResponse) {
	data, err := json.Marshal(res)
	if err != nil {
		return
	}
	hash := contentHash(sourceText)
	_ = s.cache.Set(ctx, "result:"+hash, data, time.Hour)
}

func contentHash(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
