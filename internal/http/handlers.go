package http

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.ready != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.ready(ctx); err != nil {
			s.logger.WarnContext(r.Context(), "Readiness check failed", "error", err)
			http.Error(w, "not ready", http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// handleMetrics writes counters as plain "name value" lines.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	traceMetrics := s.tracer.GetMetrics()
	limitMetrics := s.limiter.GetMetrics()
	securityMetrics := s.detector.GetMetrics()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "http_requests_total %d\n", traceMetrics.TotalRequests)
	fmt.Fprintf(w, "http_server_errors_total %d\n", traceMetrics.ServerErrors)
	fmt.Fprintf(w, "http_average_response_time_microseconds %d\n", traceMetrics.AverageResponseTime)
	fmt.Fprintf(w, "rate_limit_hits_total %d\n", limitMetrics.TotalHits)
	fmt.Fprintf(w, "rate_limit_active_clients %d\n", limitMetrics.ClientCount)
	fmt.Fprintf(w, "suspicious_requests_total %d\n", securityMetrics.SuspiciousRequests)

	if s.cacheStats != nil {
		stats := s.cacheStats()
		fmt.Fprintf(w, "dashboard_cache_hits_total %d\n", stats.Hits)
		fmt.Fprintf(w, "dashboard_cache_misses_total %d\n", stats.Misses)
		fmt.Fprintf(w, "dashboard_cache_entries %d\n", stats.Size)
	}
}
