package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/docchat/docchat/internal/extract"
	"github.com/docchat/docchat/internal/index"
	"github.com/docchat/docchat/internal/rag"
)

type stubEmbedder struct{}

func (stubEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1, 0, 0}
	}
	return out, nil
}
func (stubEmbedder) EmbedQuery(_ context.Context, _ string) ([]float32, error) {
	return []float32{1, 0, 0}, nil
}
func (stubEmbedder) Dimensions() int { return 3 }
func (stubEmbedder) Name() string    { return "stub" }

type stubGenerator struct{}

func (stubGenerator) Generate(_ context.Context, _ string) string { return "stubbed answer" }
func (stubGenerator) Name() string                                { return "stub" }

func newTestServer(t *testing.T, allowAll bool) *Server {
	t.Helper()
	dir := t.TempDir()
	engine := rag.New(rag.Params{
		IndexDir:  dir,
		NewStore:  func() (index.Store, error) { return index.NewFlatStore(stubEmbedder{}), nil },
		Generator: stubGenerator{},
		Extractor: extract.New(),
	})
	return New(Config{Port: 0, DataDir: dir, AllowAll: allowAll}, engine, nil)
}

func TestHealthCheck(t *testing.T) {
	srv := newTestServer(t, false)

	req := httptest.NewRequest("GET", "/healthz", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("expected status 'ok', got %q", body["status"])
	}
}

func TestCORSHeaders(t *testing.T) {
	srv := newTestServer(t, true)

	req := httptest.NewRequest("OPTIONS", "/healthz", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("expected CORS Allow-Origin header")
	}
}

func TestChatRouteIsMounted(t *testing.T) {
	srv := newTestServer(t, false)

	req := httptest.NewRequest("POST", "/api/chat", strings.NewReader(`{"question":"hi"}`))
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["answer"] != rag.EmptyKnowledgeBaseAnswer {
		t.Errorf("answer = %q", body["answer"])
	}
}

func TestInfoRouteIsMounted(t *testing.T) {
	srv := newTestServer(t, false)

	req := httptest.NewRequest("GET", "/api/info", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["status"] != string(rag.StateEmpty) {
		t.Errorf("status = %q, want Empty", body["status"])
	}
}
