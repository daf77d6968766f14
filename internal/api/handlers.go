// Package api provides HTTP handlers for the ledger endpoints.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/pushtimer/pushtimer/internal/models"
)

// RecentLogLimit caps how many of today's records the recent endpoint returns.
const RecentLogLimit = 10

// logRequest is the POST /log payload.
type logRequest struct {
	Count int `json:"count"`
}

// editRequest is the POST /edit payload.
type editRequest struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

func (s *Server) todayTotalHandler(w http.ResponseWriter, r *http.Request) {
	slog.Debug("Server.todayTotalHandler: processing request", "method", r.Method, "path", r.URL.Path)
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	total, err := s.ledger.TodayTotal()
	if err != nil {
		slog.Error("Server.todayTotalHandler: failed to read today total", "error", err)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to fetch today's total"))
		return
	}
	writeJSONResponse(w, http.StatusOK, models.Success(map[string]int{"total": total}))
}

func (s *Server) dailyHistoryHandler(w http.ResponseWriter, r *http.Request) {
	slog.Debug("Server.dailyHistoryHandler: processing request", "method", r.Method, "path", r.URL.Path)
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	totals, err := s.ledger.AllDailyTotals()
	if err != nil {
		slog.Error("Server.dailyHistoryHandler: failed to read daily totals", "error", err)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to fetch daily history"))
		return
	}
	if totals == nil {
		totals = []models.DailyTotal{}
	}
	slog.Debug("Server.dailyHistoryHandler: history fetched", "days", len(totals))
	writeJSONResponse(w, http.StatusOK, models.Success(totals))
}

func (s *Server) logHandler(w http.ResponseWriter, r *http.Request) {
	if r.Body != nil {
		defer r.Body.Close()
	}
	slog.Debug("Server.logHandler: processing log request", "method", r.Method, "path", r.URL.Path)
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		slog.Warn("Server.logHandler: method not allowed", "method", r.Method)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req logRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Warn("Server.logHandler: failed to decode JSON", "error", err)
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Invalid JSON format"))
		return
	}
	if err := models.ValidateCount(req.Count, models.MaxSyncLogCount); err != nil {
		slog.Warn("Server.logHandler: validation failed", "error", err, "count", req.Count)
		writeJSONResponse(w, http.StatusBadRequest, models.Error(err.Error()))
		return
	}
	if err := s.ledger.Log(req.Count); err != nil {
		slog.Error("Server.logHandler: failed to store record", "error", err)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to log pushups"))
		return
	}
	slog.Info("Server.logHandler: pushups logged", "count", req.Count)
	writeJSONResponse(w, http.StatusCreated, models.SuccessWithMessage("Pushups logged successfully", map[string]int{"count": req.Count}))
}

func (s *Server) editHandler(w http.ResponseWriter, r *http.Request) {
	if r.Body != nil {
		defer r.Body.Close()
	}
	slog.Debug("Server.editHandler: processing edit request", "method", r.Method, "path", r.URL.Path)
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		slog.Warn("Server.editHandler: method not allowed", "method", r.Method)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req editRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Warn("Server.editHandler: failed to decode JSON", "error", err)
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Invalid JSON format"))
		return
	}
	if err := s.ledger.OverwriteDay(req.Date, req.Count); err != nil {
		if errors.Is(err, models.ErrInvalidDate) || errors.Is(err, models.ErrNegativeCount) || errors.Is(err, models.ErrCountTooLarge) {
			slog.Warn("Server.editHandler: validation failed", "error", err, "date", req.Date, "count", req.Count)
			writeJSONResponse(w, http.StatusBadRequest, models.Error(err.Error()))
			return
		}
		slog.Error("Server.editHandler: failed to overwrite day", "error", err, "date", req.Date)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to update day"))
		return
	}
	slog.Info("Server.editHandler: day updated", "date", req.Date, "count", req.Count)
	writeJSONResponse(w, http.StatusOK, models.SuccessWithMessage("Day updated successfully", nil))
}

func (s *Server) recentHandler(w http.ResponseWriter, r *http.Request) {
	slog.Debug("Server.recentHandler: processing request", "method", r.Method, "path", r.URL.Path)
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	records, err := s.ledger.RecentToday(RecentLogLimit)
	if err != nil {
		slog.Error("Server.recentHandler: failed to read recent records", "error", err)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to fetch recent logs"))
		return
	}
	if records == nil {
		records = []models.PushupRecord{}
	}
	writeJSONResponse(w, http.StatusOK, models.Success(map[string]interface{}{"logs": records}))
}

func (s *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	slog.Debug("Server.statsHandler: processing request", "method", r.Method, "path", r.URL.Path)
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	stats, err := s.ledger.Stats()
	if err != nil {
		slog.Error("Server.statsHandler: failed to compute stats", "error", err)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to compute statistics"))
		return
	}
	slog.Debug("Server.statsHandler: stats computed", "total", stats.Total, "best_day", stats.BestDay)
	writeJSONResponse(w, http.StatusOK, models.Success(stats))
}

func (s *Server) streakHandler(w http.ResponseWriter, r *http.Request) {
	slog.Debug("Server.streakHandler: processing request", "method", r.Method, "path", r.URL.Path)
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	streak, err := s.ledger.Streak()
	if err != nil {
		slog.Error("Server.streakHandler: failed to compute streak", "error", err)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to compute streak"))
		return
	}
	writeJSONResponse(w, http.StatusOK, models.Success(map[string]int{"streak": streak}))
}

func (s *Server) exportCSVHandler(w http.ResponseWriter, r *http.Request) {
	slog.Debug("Server.exportCSVHandler: processing request", "method", r.Method, "path", r.URL.Path)
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="pushups.csv"`)
	if err := s.ledger.ExportCSV(w); err != nil {
		// Headers are already written; all we can do is log.
		slog.Error("Server.exportCSVHandler: export failed", "error", err)
	}
}

// healthHandler provides a health check endpoint for monitoring.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	healthData := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	// A ledger read doubles as a storage health probe.
	if total, err := s.ledger.TodayTotal(); err != nil {
		slog.Warn("Health check: ledger read failed", "error", err)
		healthData["status"] = "degraded"
		healthData["error"] = "Failed to read ledger"
	} else {
		healthData["today_total"] = total
	}

	statusCode := http.StatusOK
	if healthData["status"] == "degraded" {
		statusCode = http.StatusServiceUnavailable
	}
	writeJSONResponse(w, statusCode, healthData)
}
