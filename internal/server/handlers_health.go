package server

import (
	"net/http"
	"time"
)

type healthResponse struct {
	Status      string            `json:"status"`
	Timestamp   string            `json:"timestamp"`
	Environment healthEnvironment `json:"environment"`
}

type healthEnvironment struct {
	HasGoogleAI bool   `json:"hasGoogleAI"`
	Name        string `json:"name,omitempty"`
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	jsonResponse(w, http.StatusOK, healthResponse{
		Status:    "healthy",
		Timestamp: s.now().UTC().Format(time.RFC3339),
		Environment: healthEnvironment{
			HasGoogleAI: s.cfg.HasAPIKey(),
			Name:        s.cfg.Environment,
		},
	})
}

// handleAIMetrics handles GET /metrics/ai.
func (s *Server) handleAIMetrics(w http.ResponseWriter, _ *http.Request) {
	if s.deps.Metrics == nil {
		errorResponse(w, http.StatusServiceUnavailable, "AI metrics are not available")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]any{
		"successRate5m":   s.deps.Metrics.SuccessRate(5 * time.Minute),
		"successRate60m":  s.deps.Metrics.SuccessRate(time.Hour),
		"shouldUseBackup": s.deps.Metrics.ShouldUseBackup(),
		"recentCalls":     s.deps.Metrics.RecentMetrics(time.Hour),
	})
}
