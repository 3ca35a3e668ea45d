package server

import (
	"encoding/json"
	"net/http"
	"sync/atomic"

	"github.com/go-chi/chi/v5"

	"github.com/copyleftdev/optiviz/internal/config"
	"github.com/copyleftdev/optiviz/internal/errors"
	"github.com/copyleftdev/optiviz/internal/logging"
	"github.com/copyleftdev/optiviz/internal/metrics"
)

// Logger defines the logging interface used by the server
// This allows us to be flexible with our logging implementation
type Logger interface {
	Debug(msg string, fields ...map[string]interface{})
	Info(msg string, fields ...map[string]interface{})
	Warn(msg string, fields ...map[string]interface{})
	Error(msg string, fields ...map[string]interface{})
	Fatal(msg string, fields ...map[string]interface{})
	WithFields(fields map[string]interface{}) *logging.Logger
}

// JSON-RPC 2.0 error codes.
const (
	codeParseError     = -32700
	codeInvalidRequest = -32600
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeServerError    = -32000
)

// Server implements the HTTP and JSON-RPC API for trajectory computation.
// Computations are synchronous and hold no state between requests.
type Server struct {
	cfg      *config.Config
	logger   Logger
	recorder *metrics.Recorder
	closed   atomic.Bool
}

// NewServer creates a new server instance with the given config, logger and
// metrics recorder.
func NewServer(cfg *config.Config, logger Logger, recorder *metrics.Recorder) *Server {
	return &Server{
		cfg:      cfg,
		logger:   logger,
		recorder: recorder,
	}
}

func (s *Server) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/trajectory", s.handleTrajectory)
		r.Get("/optimizers", s.handleOptimizers)
	})

	// JSON-RPC 2.0 endpoint
	r.Post("/rpc", s.handleJSONRPC)
}

// Close stops the server from accepting further computations.
func (s *Server) Close() error {
	s.closed.Store(true)
	return nil
}

// handleTrajectory handles POST /api/v1/trajectory.
func (s *Server) handleTrajectory(w http.ResponseWriter, r *http.Request) {
	if s.closed.Load() {
		s.respondJSON(w, http.StatusServiceUnavailable, map[string]interface{}{"error": "server is shutting down"})
		return
	}

	var req TrajectoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.recorder.ObserveError(metrics.KindRequest)
		err = errors.Wrap(err, "invalid request body").WithOperation("trajectory.compute").WithComponent("server")
		s.respondJSON(w, http.StatusBadRequest, map[string]interface{}{"error": err.Error()})
		return
	}

	resp, err := s.computeTrajectory(req)
	if err != nil {
		s.respondJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error": err.Error(),
			"kind":  errorKind(err),
		})
		return
	}
	s.respondJSON(w, http.StatusOK, resp)
}

// handleOptimizers handles GET /api/v1/optimizers.
func (s *Server) handleOptimizers(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, listOptimizers())
}

// handleJSONRPC handles JSON-RPC 2.0 requests. Params may be the request
// object itself or a single element array holding it.
func (s *Server) handleJSONRPC(w http.ResponseWriter, r *http.Request) {
	var request struct {
		JSONRPC string          `json:"jsonrpc"`
		ID      interface{}     `json:"id"`
		Method  string          `json:"method"`
		Params  json.RawMessage `json:"params,omitempty"`
	}

	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		s.respondWithError(w, codeParseError, "Parse error", nil)
		return
	}

	if request.JSONRPC != "2.0" {
		s.respondWithError(w, codeInvalidRequest, "Invalid Request", request.ID)
		return
	}

	var result interface{}
	switch request.Method {
	case "trajectory.compute":
		if s.closed.Load() {
			s.respondWithError(w, codeServerError, "server is shutting down", request.ID)
			return
		}
		var req TrajectoryRequest
		if err := decodeParams(request.Params, &req); err != nil {
			s.respondWithError(w, codeInvalidParams, "Invalid params", request.ID)
			return
		}
		resp, err := s.computeTrajectory(req)
		if err != nil {
			// Every computeTrajectory failure is caused by the request.
			s.respondWithErrorData(w, codeInvalidParams, err.Error(), request.ID,
				map[string]interface{}{"kind": errorKind(err)})
			return
		}
		result = resp
	case "optimizers.list":
		result = listOptimizers()
	default:
		s.respondWithError(w, codeMethodNotFound, "Method not found", request.ID)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      request.ID,
		"result":  result,
	})
}

func decodeParams(raw json.RawMessage, v interface{}) error {
	if len(raw) == 0 {
		return errors.New("missing required parameters")
	}
	var positional []json.RawMessage
	if err := json.Unmarshal(raw, &positional); err == nil {
		if len(positional) != 1 {
			return errors.Errorf("expected one parameter object, got %d", len(positional))
		}
		raw = positional[0]
	}
	return json.Unmarshal(raw, v)
}

// respondWithError sends a JSON-RPC 2.0 error response
func (s *Server) respondWithError(w http.ResponseWriter, code int, message string, id interface{}) {
	s.respondWithErrorData(w, code, message, id, nil)
}

// respondWithErrorData sends a JSON-RPC 2.0 error response whose error
// object carries data when it is non-nil.
func (s *Server) respondWithErrorData(w http.ResponseWriter, code int, message string, id, data interface{}) {
	s.logger.Warn("Request error", map[string]interface{}{
		"status":  code,
		"message": message,
	})

	errObj := map[string]interface{}{
		"code":    code,
		"message": message,
	}
	if data != nil {
		errObj["data"] = data
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"jsonrpc": "2.0",
		"error":   errObj,
		"id":      id,
	})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("Failed to encode response", map[string]interface{}{"error": err.Error()})
	}
}
