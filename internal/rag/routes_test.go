package rag

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/docchat/docchat/internal/extract"
	"github.com/docchat/docchat/internal/index"
)

func newTestRouter(t *testing.T, e *Engine) chi.Router {
	t.Helper()
	r := chi.NewRouter()
	RegisterRoutes(r, e, nil, filepath.Join(t.TempDir(), "uploads"))
	return r
}

func TestChatEndpointEmptyKnowledgeBase(t *testing.T) {
	e := newTestEngine(t, t.TempDir(), &mockGenerator{}, &fakeExtractor{texts: map[string]string{}})
	r := newTestRouter(t, e)

	req := httptest.NewRequest("POST", "/api/chat", strings.NewReader(`{"question":"hello?"}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["answer"] != EmptyKnowledgeBaseAnswer {
		t.Errorf("answer = %q", body["answer"])
	}
}

func TestChatEndpointRequiresQuestion(t *testing.T) {
	e := newTestEngine(t, t.TempDir(), &mockGenerator{}, &fakeExtractor{texts: map[string]string{}})
	r := newTestRouter(t, e)

	req := httptest.NewRequest("POST", "/api/chat", strings.NewReader(`{}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestInfoEndpoint(t *testing.T) {
	e := newTestEngine(t, t.TempDir(), &mockGenerator{}, &fakeExtractor{texts: map[string]string{}})
	r := newTestRouter(t, e)

	req := httptest.NewRequest("GET", "/api/info", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["status"] != string(StateEmpty) {
		t.Errorf("status = %q, want Empty", body["status"])
	}
}

func TestProcessUploadsEndpoint(t *testing.T) {
	dir := t.TempDir()
	embedder := &mockEmbedder{dims: 32}
	// The real extractor reads the saved file back from disk, exercising the
	// full upload -> save -> extract -> chunk -> index path for plain text.
	e := New(Params{
		IndexDir:  dir,
		NewStore:  func() (index.Store, error) { return index.NewFlatStore(embedder), nil },
		Generator: &mockGenerator{response: "answer"},
		Extractor: extract.New(),
	})
	r := chi.NewRouter()
	RegisterRoutes(r, e, nil, filepath.Join(dir, "uploads"))

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("files", "notes.txt")
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	part.Write([]byte("The office wifi password is in the handbook."))
	mw.Close()

	req := httptest.NewRequest("POST", "/api/admin-process-uploads", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var result IngestResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if result.Status != "ok" || result.AddedChunks == 0 || result.TotalDocs != 1 {
		t.Errorf("result = %+v", result)
	}

	if e.Status() != StateLoaded {
		t.Errorf("Status = %q after upload, want Loaded", e.Status())
	}
}

func TestErrorResponsesAreValidJSON(t *testing.T) {
	dir := t.TempDir()
	e := newTestEngine(t, dir, &mockGenerator{}, &fakeExtractor{texts: map[string]string{}})

	// A regular file where a directory component is expected makes MkdirAll
	// fail with the path embedded in the message. The quote in the name must
	// survive JSON encoding.
	blocker := filepath.Join(dir, `up"loads`)
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	r := chi.NewRouter()
	RegisterRoutes(r, e, nil, filepath.Join(blocker, "pdfs"))

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("files", "doc.txt")
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	part.Write([]byte("text"))
	mw.Close()

	req := httptest.NewRequest("POST", "/api/admin-process-uploads", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("error response is not valid JSON: %v\nbody: %s", err, w.Body.String())
	}
	if !strings.Contains(body["error"], `up"loads`) {
		t.Errorf("error = %q, want the failing path with its quote intact", body["error"])
	}
}

func TestProcessUploadsRequiresFiles(t *testing.T) {
	e := newTestEngine(t, t.TempDir(), &mockGenerator{}, &fakeExtractor{texts: map[string]string{}})
	r := newTestRouter(t, e)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	mw.Close()

	req := httptest.NewRequest("POST", "/api/admin-process-uploads", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}
