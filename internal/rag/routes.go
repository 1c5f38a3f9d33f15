package rag

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/docchat/docchat/internal/registry"
)

// RegisterRoutes mounts the question answering and ingestion API routes.
// uploadDir is where raw uploads are saved before ingestion.
func RegisterRoutes(r chi.Router, engine *Engine, reg *registry.Store, uploadDir string) {
	r.Post("/api/chat", handleChat(engine))
	r.Post("/api/admin-process-uploads", handleProcessUploads(engine, uploadDir))
	r.Get("/api/info", handleInfo(engine))
	if reg != nil {
		r.Get("/api/documents", handleListDocuments(reg))
	}
}

type chatRequest struct {
	Question string `json:"question"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func handleChat(engine *Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Question == "" {
			writeError(w, http.StatusBadRequest, "question is required")
			return
		}

		answer := engine.Answer(r.Context(), req.Question)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"answer": answer})
	}
}

func handleProcessUploads(engine *Engine, uploadDir string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(64 << 20); err != nil {
			writeError(w, http.StatusBadRequest, "invalid multipart form")
			return
		}

		uploads := r.MultipartForm.File["files"]
		if len(uploads) == 0 {
			writeError(w, http.StatusBadRequest, "no files uploaded")
			return
		}

		if err := os.MkdirAll(uploadDir, 0o755); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		var files []SourceFile
		for _, fh := range uploads {
			path, err := saveUpload(fh, uploadDir)
			if err != nil {
				log.Printf("saving upload %s: %v", fh.Filename, err)
				writeError(w, http.StatusInternalServerError, err.Error())
				return
			}
			files = append(files, SourceFile{Name: fh.Filename, Path: path})
		}

		result := engine.Ingest(r.Context(), files)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(result)
	}
}

// saveUpload writes one multipart file into dir under a collision-free name
// that keeps the original extension, so the extractor can dispatch on it.
func saveUpload(fh *multipart.FileHeader, dir string) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("opening upload: %w", err)
	}
	defer src.Close()

	base := filepath.Base(fh.Filename)
	path := filepath.Join(dir, uuid.NewString()[:8]+"-"+base)

	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", path, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

func handleInfo(engine *Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": string(engine.Status())})
	}
}

func handleListDocuments(reg *registry.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		docs, err := reg.List(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if docs == nil {
			docs = []registry.Document{}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"documents": docs})
	}
}
