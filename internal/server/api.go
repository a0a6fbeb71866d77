package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/llehouerou/carousel/internal/autoplay"
	"github.com/llehouerou/carousel/internal/carousel"
)

type stateResponse struct {
	stateView
	Interval string      `json:"interval"`
	Clients  int         `json:"clients"`
	Slides   []slideInfo `json:"slides"`
}

type slideInfo struct {
	Kind   string `json:"kind"`
	Source string `json:"source"`
	Title  string `json:"title,omitempty"`
}

func (s *Server) registerAPI(r chi.Router) {
	r.Get("/state", s.handleState)
	r.Post("/next", s.handleControl(func() error { return s.ctrl.Next() }))
	r.Post("/prev", s.handleControl(func() error { return s.ctrl.Prev() }))
	r.Post("/pause", s.handleControl(func() error { return s.ctrl.TogglePause() }))
	r.Post("/goto/{index}", s.handleGoto)
}

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	descs := s.ctrl.Slides()
	slides := make([]slideInfo, len(descs))
	for i, d := range descs {
		slides[i] = slideInfo{Kind: d.Kind.String(), Source: d.Source, Title: d.Title}
	}
	writeJSON(w, http.StatusOK, stateResponse{
		stateView: newStateView(s.ctrl.Snapshot(), ""),
		Interval:  s.ctrl.Interval().String(),
		Clients:   s.remote.Clients(),
		Slides:    slides,
	})
}

func (s *Server) handleControl(fn func() error) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		if err := fn(); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
	}
}

func (s *Server) handleGoto(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "index must be an integer"})
		return
	}
	if err := s.ctrl.Navigate(index); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, carousel.ErrOutOfRange):
		status = http.StatusBadRequest
	case errors.Is(err, carousel.ErrClosed):
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func suspendedText(r autoplay.Reason) string {
	if r == 0 {
		return ""
	}
	return r.String()
}
