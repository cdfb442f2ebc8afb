// Package server exposes the raster resolver over HTTP. Strict query
// validation lives here, in front of the permissive core.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/rasterd/rasterd/pkg/raster"
	"github.com/rasterd/rasterd/pkg/tile"
)

// HealthResponse is the payload of the health endpoint.
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Uptime    int       `json:"uptime"`
	Version   string    `json:"version"`
}

// ErrorResponse is the standard error payload.
type ErrorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// Server handles the raster API endpoints.
type Server struct {
	resolver  *raster.Resolver
	log       *logrus.Logger
	startTime time.Time
	version   string
}

// New creates a server around the given resolver.
func New(resolver *raster.Resolver, log *logrus.Logger, version string) *Server {
	return &Server{
		resolver:  resolver,
		log:       log,
		startTime: time.Now(),
		version:   version,
	}
}

// Routes mounts the API endpoints on the given router.
func (s *Server) Routes(r chi.Router) {
	r.Get("/health", s.GetHealth)
	r.Post("/raster", s.CreateRaster)
}

// GetHealth implements the health check endpoint.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Uptime:    int(time.Since(s.startTime).Seconds()),
		Version:   s.version,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		s.log.WithError(err).Error("encoding health response")
	}
}

// CreateRaster implements the rasterization endpoint. The request body is a
// raster.Query; the response is the render envelope, or a GeoJSON feature
// collection of tile footprints when ?format=geojson is given.
func (s *Server) CreateRaster(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.NewString()

	var q raster.Query
	if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
		s.writeError(w, http.StatusBadRequest, "INVALID_JSON",
			"Invalid JSON in request body", requestID)
		return
	}

	if err := validateQuery(q); err != nil {
		s.writeError(w, http.StatusBadRequest, "VALIDATION_ERROR",
			err.Error(), requestID)
		return
	}

	grid, err := s.resolver.Rasterize(q)
	if err != nil {
		if errors.Is(err, tile.ErrInvalidDepth) {
			s.writeError(w, http.StatusBadRequest, "INVALID_DEPTH",
				err.Error(), requestID)
			return
		}
		s.log.WithError(err).WithField("request_id", requestID).Error("rasterize failed")
		s.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR",
			"Internal server error", requestID)
		return
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"depth":      q.Depth,
		"rows":       grid.Height(),
		"cols":       grid.Width(),
	}).Info("rasterized query")

	var payload any = grid.Result()
	if r.URL.Query().Get("format") == "geojson" {
		payload = grid.FeatureCollection()
		w.Header().Set("Content-Type", "application/geo+json")
	} else {
		w.Header().Set("Content-Type", "application/json")
	}

	w.Header().Set("X-Request-ID", requestID)
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log.WithError(err).Error("writing raster response")
	}
}

// validateQuery enforces the box ordering the core deliberately does not:
// callers of the HTTP API get a 400 instead of a silently empty grid.
func validateQuery(q raster.Query) error {
	if q.ULLat < -90 || q.ULLat > 90 || q.LRLat < -90 || q.LRLat > 90 {
		return fmt.Errorf("latitude out of range [-90, 90]")
	}
	if q.ULLon < -180 || q.ULLon > 180 || q.LRLon < -180 || q.LRLon > 180 {
		return fmt.Errorf("longitude out of range [-180, 180]")
	}
	if q.ULLat < q.LRLat {
		return fmt.Errorf("ullat must not be south of lrlat")
	}
	if q.ULLon > q.LRLon {
		return fmt.Errorf("ullon must not be east of lrlon")
	}
	return nil
}

func (s *Server) writeError(w http.ResponseWriter, statusCode int, errorCode, message, requestID string) {
	response := ErrorResponse{
		Error:     errorCode,
		Message:   message,
		RequestID: requestID,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		s.log.WithError(err).Error("encoding error response")
	}
}
