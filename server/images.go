package server

import (
	"fmt"
	"net/http"

	"github.com/umputun/feedalor/pkg/imagestore"
)

// latestImageHandler serves the feed's most recent frame
func (s *Server) latestImageHandler(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	path, err := s.images.Latest(id)
	if err != nil {
		renderError(w, r, fmt.Errorf("no frame for feed %s", id), http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "image/jpeg")
	http.ServeFile(w, r, path)
}

// imageHistoryHandler lists the feed's stored frames, newest first
func (s *Server) imageHistoryHandler(w http.ResponseWriter, r *http.Request) {
	frames, err := s.images.History(r.PathValue("id"))
	if err != nil {
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}
	if frames == nil {
		frames = []imagestore.Frame{}
	}
	renderJSON(w, r, http.StatusOK, frames)
}
