// Package api exposes the procurement pipeline over REST/JSON, with a
// server-sent-events variant for watching a run progress live.
package api

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/procgo-dev/procgo/internal/bandit"
	"github.com/procgo-dev/procgo/internal/catalog"
	"github.com/procgo-dev/procgo/internal/ledger"
	"github.com/procgo-dev/procgo/internal/orchestrator"
	"github.com/procgo-dev/procgo/internal/registry"
	metrics "github.com/procgo-dev/procgo/pkg/observability"
)

// Server is the REST API over the procurement components.
type Server struct {
	orch       *orchestrator.Orchestrator
	registry   *registry.Registry
	bandit     *bandit.Bandit
	ledger     ledger.Ledger
	directory  *catalog.Directory
	httpServer *http.Server
}

// NewServer creates an API server.
func NewServer(orch *orchestrator.Orchestrator, reg *registry.Registry, b *bandit.Bandit, led ledger.Ledger, dir *catalog.Directory) *Server {
	return &Server{orch: orch, registry: reg, bandit: b, ledger: led, directory: dir}
}

// Router builds the HTTP route table. CORS wraps the router itself so
// preflight requests are answered even for method-restricted routes.
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()
	r.Use(metricsMiddleware)

	r.HandleFunc("/api/procure", s.handleProcure).Methods("POST")
	r.HandleFunc("/api/procure/stream", s.handleProcureStream).Methods("POST")
	r.HandleFunc("/api/agents", s.handleAgents).Methods("GET")
	r.HandleFunc("/api/agents/{id}/verify", s.handleVerify).Methods("GET")
	r.HandleFunc("/api/suppliers", s.handleSuppliers).Methods("GET")
	r.HandleFunc("/api/insights", s.handleAllInsights).Methods("GET")
	r.HandleFunc("/api/insights/{supplier}", s.handleInsights).Methods("GET")
	r.HandleFunc("/api/stats", s.handleStats).Methods("GET")

	return corsMiddleware(r)
}

// Start serves the API until the context is cancelled or the listener
// fails.
func (s *Server) Start(addr string) error {
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 5 * time.Minute, // streaming runs stay open
		IdleTimeout:  120 * time.Second,
	}
	log.Printf("api listening on %s", addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		path := r.URL.Path
		if route := mux.CurrentRoute(r); route != nil {
			if tmpl, err := route.GetPathTemplate(); err == nil {
				path = tmpl
			}
		}
		metrics.RecordHTTPRequest(r.Method, path, strconv.Itoa(rec.status), time.Since(start))
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("api: encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
