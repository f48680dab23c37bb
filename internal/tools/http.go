package tools

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bbernstein/lacylights-mcp/internal/lighting"
	"github.com/bbernstein/lacylights-mcp/internal/logger"
	"github.com/bbernstein/lacylights-mcp/internal/services/backend"
	"github.com/bbernstein/lacylights-mcp/internal/services/pubsub"
)

// maxBodyBytes bounds a tool call body; scripts are the largest argument.
const maxBodyBytes = 4 << 20

// Server serves the registry over HTTP and WebSocket.
type Server struct {
	registry *Registry
	events   *pubsub.PubSub
	log      *logger.Logger

	callTimeout time.Duration
}

// NewServer creates a Server. events may be nil, in which case WebSocket
// subscriptions are rejected.
func NewServer(registry *Registry, events *pubsub.PubSub, log *logger.Logger) *Server {
	if log == nil {
		log = logger.Nop()
	}
	return &Server{registry: registry, events: events, log: log}
}

// WithCallTimeout bounds each WebSocket tool call. HTTP calls are bounded by
// the router's timeout middleware instead. Zero leaves calls unbounded.
func (s *Server) WithCallTimeout(d time.Duration) *Server {
	s.callTimeout = d
	return s
}

// Mount registers the tool routes on router.
func (s *Server) Mount(router chi.Router) {
	router.Get("/tools", s.ServeList)
	router.Post("/tools/{name}", s.ServeCall)
	router.Get("/ws", s.ServeWS)
}

// ServeList writes the registered tools.
func (s *Server) ServeList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"tools": s.registry.Tools()})
}

// ServeCall runs the tool named in the URL with the request body as arguments.
func (s *Server) ServeCall(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	result, err := s.registry.Call(r.Context(), name, body)
	if err != nil {
		status := StatusCode(err)
		if status >= http.StatusInternalServerError {
			s.log.Error("Tool call failed", err, logger.Fields{"tool": name, "status": status})
		} else {
			s.log.Warn("Tool call rejected", logger.Fields{"tool": name, "status": status, "error": err.Error()})
		}
		writeError(w, status, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// StatusCode maps a tool error to an HTTP status.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, ErrUnknownTool), errors.Is(err, backend.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidInput),
		errors.Is(err, lighting.ErrInvalidScope),
		errors.Is(err, lighting.ErrNoFixtures),
		errors.Is(err, lighting.ErrNoLooks):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, lighting.ErrGenerationFailed), errors.Is(err, backend.ErrBackend):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

type errorBody struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorBody{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
