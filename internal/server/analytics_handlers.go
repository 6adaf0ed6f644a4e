package server

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"whackarcade/internal/analytics"
	"whackarcade/internal/db"
)

func (s *Server) handleAnalyticsLeaderboard(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		s.writeError(w, http.StatusServiceUnavailable, "analytics requires a database connection")
		return
	}

	category := r.URL.Query().Get("cat")
	if category == "" {
		category = "score"
	}
	limit := 10
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 && v <= 100 {
		limit = v
	}

	entries, err := analytics.NewQueries(s.DB).GetLeaderboard(category, limit)
	if err != nil {
		log.Printf("[Analytics] leaderboard error: %v\n", err)
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleAnalyticsMachine(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		s.writeError(w, http.StatusServiceUnavailable, "analytics requires a database connection")
		return
	}

	stats, err := analytics.NewQueries(s.DB).GetMachineStats(chi.URLParam(r, "code"))
	if err != nil {
		log.Printf("[Analytics] machine stats error: %v\n", err)
		s.writeError(w, http.StatusInternalServerError, "error loading machine stats")
		return
	}
	s.writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleAnalyticsPlayer(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		s.writeError(w, http.StatusServiceUnavailable, "analytics requires a database connection")
		return
	}

	stats, err := analytics.NewQueries(s.DB).GetPlayerStats(chi.URLParam(r, "id"))
	if errors.Is(err, db.ErrNotFound) {
		s.writeError(w, http.StatusNotFound, "player not found")
		return
	}
	if err != nil {
		log.Printf("[Analytics] player stats error: %v\n", err)
		s.writeError(w, http.StatusInternalServerError, "error loading player stats")
		return
	}
	s.writeJSON(w, http.StatusOK, stats)
}
