package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/procgo-dev/procgo/internal/bandit"
	"github.com/procgo-dev/procgo/internal/bom"
	"github.com/procgo-dev/procgo/internal/catalog"
	"github.com/procgo-dev/procgo/internal/compliance"
	"github.com/procgo-dev/procgo/internal/ledger"
	"github.com/procgo-dev/procgo/internal/logistics"
	"github.com/procgo-dev/procgo/internal/orchestrator"
	"github.com/procgo-dev/procgo/internal/quote"
	"github.com/procgo-dev/procgo/internal/registry"
	"github.com/procgo-dev/procgo/pkg/llm"
)

const droneBOMJSON = `{
	"product": "FPV Racing Drone",
	"items": [
		{"part_name": "brushless_motor", "category": "propulsion", "quantity": 4, "description": "Motors"},
		{"part_name": "flight_controller", "category": "electronics", "quantity": 1, "description": "FC"},
		{"part_name": "battery", "category": "power", "quantity": 2, "description": "LiPo"}
	]
}`

func newTestServer(t *testing.T) *Server {
	t.Helper()

	dir := catalog.DefaultDirectory()
	reg := registry.New()
	for _, sup := range dir.All() {
		if sup.Catalog != nil {
			_, err := reg.Register(sup.AgentFacts())
			require.NoError(t, err)
		}
	}

	b := bandit.New(bandit.NewMemoryStore())
	led := ledger.NewMemoryLedger()

	orch := orchestrator.New(orchestrator.Config{
		Registry:  reg,
		Directory: dir,
		BOM:       bom.NewGenerator(llm.NewMockClient(droneBOMJSON), dir.PartVocabulary(), dir.CategoryVocabulary()),
		Gatherer:  quote.NewGatherer(b, led, 0, 0),
		Checker:   compliance.NewChecker(dir, nil),
		Planner:   logistics.NewPlanner(logistics.DefaultCarriers(), dir),
	})

	return NewServer(orch, reg, b, led, dir)
}

func doJSON(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestProcureEndpoint(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s.Router(), "POST", "/api/procure",
		`{"request":"build me an FPV drone","deadline_days":14,"destination_region":"EU"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var res orchestrator.Result
	require.NoError(t, decodeBody(rec, &res))
	assert.Equal(t, orchestrator.StatusSuccess, res.Status)
	assert.Equal(t, "FPV Racing Drone", res.BOM.Product)
	assert.NotEmpty(t, res.Recommendation.RecommendedSupplier)
}

func TestProcureRejectsBadRequests(t *testing.T) {
	s := newTestServer(t)
	router := s.Router()

	rec := doJSON(t, router, "POST", "/api/procure", `{"request":"   "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, "POST", "/api/procure", `{broken`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProcureStreamEmitsStepsThenResult(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s.Router(), "POST", "/api/procure/stream",
		`{"request":"drone","deadline_days":14,"destination_region":"EU"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))

	body := rec.Body.String()
	steps := strings.Count(body, "event: step\n")
	assert.Greater(t, steps, 3)
	assert.Equal(t, 1, strings.Count(body, "event: result\n"))
	// The result event comes after every step event.
	assert.Greater(t, strings.Index(body, "event: result"), strings.LastIndex(body, "event: step"))
}

func TestAgentsEndpoint(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s.Router(), "GET", "/api/agents", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var out struct {
		Agents []registry.AgentFacts `json:"agents"`
		Count  int                   `json:"count"`
	}
	require.NoError(t, decodeBody(rec, &out))
	assert.Equal(t, 5, out.Count)
	assert.Len(t, out.Agents, 5)
}

func TestVerifyEndpoint(t *testing.T) {
	s := newTestServer(t)
	router := s.Router()

	rec := doJSON(t, router, "GET", "/api/agents/techparts-global/verify", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var report registry.TrustReport
	require.NoError(t, decodeBody(rec, &report))
	assert.Equal(t, "techparts-global", report.AgentID)

	rec = doJSON(t, router, "GET", "/api/agents/nobody/verify", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSuppliersEndpoint(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s.Router(), "GET", "/api/suppliers", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var out struct {
		Suppliers []catalog.Supplier `json:"suppliers"`
		Count     int                `json:"count"`
	}
	require.NoError(t, decodeBody(rec, &out))
	assert.Equal(t, 5, out.Count)
}

func TestInsightsEndpoints(t *testing.T) {
	s := newTestServer(t)
	router := s.Router()

	// No history yet.
	rec := doJSON(t, router, "GET", "/api/insights/techparts-global", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var ins bandit.Insights
	require.NoError(t, decodeBody(rec, &ins))
	assert.Equal(t, "no_data", ins.Status)

	// A run populates the bandit and the ledger.
	rec = doJSON(t, router, "POST", "/api/procure",
		`{"request":"drone","deadline_days":14,"destination_region":"EU"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, "GET", "/api/insights/techparts-global", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, decodeBody(rec, &ins))
	assert.Equal(t, "ok", ins.Status)
	assert.Equal(t, 1, ins.TotalNegotiations)

	rec = doJSON(t, router, "GET", "/api/insights", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var all map[string]bandit.Insights
	require.NoError(t, decodeBody(rec, &all))
	assert.Len(t, all, 5)
}

func TestStatsEndpoint(t *testing.T) {
	s := newTestServer(t)
	router := s.Router()

	rec := doJSON(t, router, "POST", "/api/procure",
		`{"request":"drone","deadline_days":14,"destination_region":"EU"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, "GET", "/api/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var stats ledger.Stats
	require.NoError(t, decodeBody(rec, &stats))
	assert.Equal(t, 5, stats.TotalNegotiations)
	assert.Greater(t, stats.TotalOrderValue, 0.0)
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/agents", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestShutdownWithoutStart(t *testing.T) {
	s := newTestServer(t)
	assert.NoError(t, s.Shutdown(context.Background()))
}

func decodeBody(rec *httptest.ResponseRecorder, v any) error {
	return json.Unmarshal(rec.Body.Bytes(), v)
}
