package api

import (
	"encoding/json"
	"net/http"
)

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response: %v", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	count, err := s.store.Count(r.Context())
	if err != nil {
		s.writeError(w, http.StatusServiceUnavailable, "canonical store unavailable")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":     "ok",
		"trip_count": count,
	})
}

func (s *Server) handleAllAggregates(w http.ResponseWriter, r *http.Request) {
	tables, err := s.aggregates.ComputeAll(r.Context())
	if err != nil {
		s.logger.Error("aggregate query failed: %v", err)
		s.writeError(w, http.StatusInternalServerError, "aggregate query failed")
		return
	}
	s.writeJSON(w, http.StatusOK, tables)
}

func (s *Server) handleStations(w http.ResponseWriter, r *http.Request) {
	tables, err := s.aggregates.ComputeAll(r.Context())
	if err != nil {
		s.logger.Error("aggregate query failed: %v", err)
		s.writeError(w, http.StatusInternalServerError, "aggregate query failed")
		return
	}
	s.writeJSON(w, http.StatusOK, tables.TopStations)
}

func (s *Server) handleTemporal(w http.ResponseWriter, r *http.Request) {
	tables, err := s.aggregates.ComputeAll(r.Context())
	if err != nil {
		s.logger.Error("aggregate query failed: %v", err)
		s.writeError(w, http.StatusInternalServerError, "aggregate query failed")
		return
	}
	s.writeJSON(w, http.StatusOK, tables.Temporal)
}

func (s *Server) handleRideTypes(w http.ResponseWriter, r *http.Request) {
	tables, err := s.aggregates.ComputeAll(r.Context())
	if err != nil {
		s.logger.Error("aggregate query failed: %v", err)
		s.writeError(w, http.StatusInternalServerError, "aggregate query failed")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"ride_types":     tables.RideTypes,
		"electric_rates": tables.ElectricRates,
	})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	tables, err := s.aggregates.ComputeAll(r.Context())
	if err != nil {
		s.logger.Error("aggregate query failed: %v", err)
		s.writeError(w, http.StatusInternalServerError, "aggregate query failed")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"distance":     tables.Distance,
		"duration":     tables.Duration,
		"distance_p99": tables.DistanceP99,
		"duration_p99": tables.DurationP99,
	})
}
