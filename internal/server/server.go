// Package server provides the HTTP handlers and routing for the MCP server.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"slack-mcp/internal/boundary"
	"slack-mcp/internal/config"
	"slack-mcp/internal/metrics"
	"slack-mcp/internal/vacation"
)

// Checker runs the vacation status check behind both transports.
type Checker interface {
	CheckVacationStatus(ctx context.Context, email string) (*vacation.Result, error)
}

// Server contains the configured router, MCP server and tool handlers.
type Server struct {
	cfg          *config.Config
	router       *chi.Mux
	mcp          *mcp.Server
	checker      Checker
	boundary     *boundary.Boundary
	log          *zap.SugaredLogger
	toolHandlers map[string]http.HandlerFunc
}

// New constructs a Server with middleware and routes configured.
func New(cfg *config.Config, checker Checker, b *boundary.Boundary, log *zap.SugaredLogger) *Server {
	s := &Server{
		cfg:      cfg,
		router:   chi.NewRouter(),
		checker:  checker,
		boundary: b,
		log:      log,
	}
	s.mcp = s.newMCPServer()

	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{
		Logger:  zap.NewStdLog(log.Desugar()),
		NoColor: true,
	}))
	s.router.Use(s.recoverer)

	s.router.Get("/health", s.handleHealth)
	s.router.Handle("/metrics", metrics.Handler())
	s.router.Handle("/sse", mcp.NewSSEHandler(func(*http.Request) *mcp.Server { return s.mcp }, nil))

	s.router.Route("/mcp", func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))
		r.Get("/tools", s.handleListTools)
		r.Post("/call", s.handleCall)
	})

	s.registerToolHandlers()

	return s
}

func (s *Server) registerToolHandlers() {
	s.toolHandlers = map[string]http.HandlerFunc{
		CheckVacationTool: s.handleCheckVacation,
	}
}

// Router exposes the root HTTP handler for the server.
func (s *Server) Router() http.Handler { return s.router }

// recoverer keeps a panicking handler from taking the process down and hands
// the panic to the error boundary.
func (s *Server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if v := recover(); v != nil {
				if v == http.ErrAbortHandler {
					panic(v)
				}
				s.boundary.Panic("http", v)
				writeError(w, http.StatusInternalServerError, "internal error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListTools(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"tools": []Tool{checkVacationTool}})
}

func (s *Server) handleCall(w http.ResponseWriter, r *http.Request) {
	var req CallRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	if handler, ok := s.toolHandlers[req.Name]; ok {
		// Tool handlers read their arguments from the request body.
		newReq := r.WithContext(r.Context())
		newReq.Body = io.NopCloser(bytes.NewReader(req.Args))
		handler.ServeHTTP(w, newReq)
		return
	}

	writeError(w, http.StatusNotFound, "unknown tool")
}

func (s *Server) handleCheckVacation(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	res, err := s.invoke(r.Context(), "http", raw)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
