package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/procgo-dev/procgo/internal/ledger"
	"github.com/procgo-dev/procgo/internal/orchestrator"
	"github.com/procgo-dev/procgo/internal/registry"
)

func decodeRequest(r *http.Request) (orchestrator.Request, error) {
	var req orchestrator.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return req, fmt.Errorf("invalid request body: %w", err)
	}
	if strings.TrimSpace(req.Text) == "" {
		return req, errors.New("request text is required")
	}
	return req, nil
}

// handleProcure runs a full procurement workflow synchronously.
func (s *Server) handleProcure(w http.ResponseWriter, r *http.Request) {
	req, err := decodeRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res := s.orch.Run(r.Context(), req)
	writeJSON(w, http.StatusOK, res)
}

// handleProcureStream runs the workflow, emitting each step as an SSE
// event followed by one final result event.
func (s *Server) handleProcureStream(w http.ResponseWriter, r *http.Request) {
	req, err := decodeRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	res := s.orch.RunStream(r.Context(), req, func(step orchestrator.Step) {
		writeSSE(w, "step", step)
		flusher.Flush()
	})

	writeSSE(w, "result", res)
	flusher.Flush()
}

func writeSSE(w http.ResponseWriter, event string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
}

// handleAgents lists every registered agent.
func (s *Server) handleAgents(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"agents": s.registry.List(),
		"count":  s.registry.Len(),
	})
}

// handleVerify returns the layered trust report for one agent.
func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	report, err := s.registry.Verify(id)
	if err != nil {
		if errors.Is(err, registry.ErrNotFound) {
			writeError(w, http.StatusNotFound, fmt.Sprintf("agent %q not found", id))
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// handleSuppliers lists the supplier directory.
func (s *Server) handleSuppliers(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"suppliers": s.directory.All(),
		"count":     s.directory.Len(),
	})
}

// handleInsights returns bandit learning state for one supplier.
func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	supplierID := mux.Vars(r)["supplier"]
	insights, err := s.bandit.SupplierInsights(supplierID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, insights)
}

// handleAllInsights returns bandit learning state for all suppliers.
func (s *Server) handleAllInsights(w http.ResponseWriter, _ *http.Request) {
	insights, err := s.bandit.AllInsights()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, insights)
}

// handleStats returns aggregated negotiation statistics.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := ledger.Aggregate(r.Context(), s.ledger)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
