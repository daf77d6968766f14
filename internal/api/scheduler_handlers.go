// Package api provides HTTP handlers for the scheduler status surface.
package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/pushtimer/pushtimer/internal/models"
	"github.com/pushtimer/pushtimer/internal/scheduler"
)

func (s *Server) schedulerStatusHandler(w http.ResponseWriter, r *http.Request) {
	slog.Debug("Server.schedulerStatusHandler: processing request", "method", r.Method, "path", r.URL.Path)
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeJSONResponse(w, http.StatusOK, models.Success(s.sched.Status()))
}

func (s *Server) schedulerPauseHandler(w http.ResponseWriter, r *http.Request) {
	slog.Debug("Server.schedulerPauseHandler: processing request", "method", r.Method, "path", r.URL.Path)
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	s.sched.Pause()
	slog.Info("Server.schedulerPauseHandler: scheduler paused")
	writeJSONResponse(w, http.StatusOK, models.SuccessWithMessage("Scheduler paused", s.sched.Status()))
}

func (s *Server) schedulerResumeHandler(w http.ResponseWriter, r *http.Request) {
	slog.Debug("Server.schedulerResumeHandler: processing request", "method", r.Method, "path", r.URL.Path)
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := s.sched.Resume(); err != nil {
		if errors.Is(err, scheduler.ErrNotPaused) {
			writeJSONResponse(w, http.StatusConflict, models.Error("Scheduler is not paused"))
			return
		}
		slog.Error("Server.schedulerResumeHandler: resume failed", "error", err)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to resume scheduler"))
		return
	}
	slog.Info("Server.schedulerResumeHandler: scheduler resumed")
	writeJSONResponse(w, http.StatusOK, models.SuccessWithMessage("Scheduler resumed", s.sched.Status()))
}
