package api

import (
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shelflifeapp/shelflife-server/internal/http/response"
)

func (s *Server) registerCoverRoutes() {
	// Cover serving bypasses huma: raw image bytes with HTTP caching headers.
	s.router.Get("/covers/{bookID}", s.handleServeCover)
}

func (s *Server) handleServeCover(w http.ResponseWriter, r *http.Request) {
	bookID := chi.URLParam(r, "bookID")

	if s.storage == nil || s.storage.Covers == nil {
		response.NotFound(w, "Cover not found", s.logger)
		return
	}

	data, err := s.storage.Covers.Get(bookID)
	if err != nil {
		response.NotFound(w, "Cover not found", s.logger)
		return
	}

	hash, err := s.storage.Covers.Hash(bookID)
	if err != nil {
		response.InternalError(w, "Failed to read cover", s.logger)
		return
	}
	etag := `"` + hash + `"`

	if match := r.Header.Get("If-None-Match"); match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	lastModified := time.Now().UTC()
	if info, err := os.Stat(s.storage.Covers.Path(bookID)); err == nil {
		lastModified = info.ModTime().UTC()
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("ETag", etag)
	w.Header().Set("Last-Modified", lastModified.Format(http.TimeFormat))
	w.Header().Set("Cache-Control", "public, max-age=604800")

	if _, err := w.Write(data); err != nil && s.logger != nil {
		s.logger.Debug("Failed to write cover response", "book_id", bookID, "error", err)
	}
}
