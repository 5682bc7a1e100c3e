package httpadapter

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"whohub/internal/domain"
)

// multipart bodies are read through a 12MB ceiling; the uploads service
// enforces the real 10MB per-image limit.
const maxUploadBody = 12 << 20

func (s *Server) handleUploadImage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBody)
	file, header, err := r.FormFile("image")
	if err != nil {
		s.writeError(w, domain.NewValidationError("image", "multipart field 'image' is required"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.writeError(w, domain.NewValidationError("image", "unreadable upload"))
		return
	}

	contentType := header.Header.Get("Content-Type")
	key, err := s.uploads.SaveImage(r.Context(), id, header.Filename, contentType, data)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"key": key})
}

func (s *Server) handleGetImage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	data, contentType, err := s.uploads.GetImage(r.Context(), id, chi.URLParam(r, "filename"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleDeleteImage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.uploads.DeleteImage(r.Context(), id, chi.URLParam(r, "filename")); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": true})
}
