package transitlos

import (
	"net/http"
	"time"
)

type healthResponse struct {
	Status    string    `json:"status"`
	Sessions  int       `json:"sessions"`
	Feeds     int       `json:"feeds_loaded"`
	Timestamp time.Time `json:"timestamp"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "ok",
		Sessions:  s.store.Len(),
		Feeds:     s.feeds.Len(),
		Timestamp: time.Now().UTC(),
	})
}
