package registry

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func supplier(id string, reputation float64, opts ...func(*AgentFacts)) AgentFacts {
	a := AgentFacts{
		AgentID:         id,
		Name:            strings.ToUpper(id),
		Role:            RoleSupplier,
		Capabilities:    []string{"electronics", "propulsion"},
		Region:          "EU",
		Country:         "Germany",
		AvgLeadTimeDays: 5,
		Trust: TrustProfile{
			Verified:          true,
			ReputationScore:   reputation,
			TotalTransactions: 50,
			DisputeRate:       0.05,
		},
	}
	for _, opt := range opts {
		opt(&a)
	}
	return a
}

func TestRegisterDuplicate(t *testing.T) {
	r := New()
	id, err := r.Register(supplier("acme", 0.8))
	require.NoError(t, err)
	assert.Equal(t, "acme", id)

	_, err = r.Register(supplier("acme", 0.9))
	assert.ErrorIs(t, err, ErrAlreadyRegistered)
	assert.Equal(t, 1, r.Len())
}

func TestRegisterRejectsInvalid(t *testing.T) {
	r := New()
	_, err := r.Register(AgentFacts{Name: "no id", Role: RoleSupplier})
	assert.Error(t, err)

	_, err = r.Register(AgentFacts{AgentID: "x", Role: Role("warehouse")})
	assert.Error(t, err)
}

func TestGetNotFound(t *testing.T) {
	r := New()
	_, err := r.Get("ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUnregister(t *testing.T) {
	r := New()
	_, err := r.Register(supplier("acme", 0.8))
	require.NoError(t, err)

	assert.True(t, r.Unregister("acme"))
	assert.False(t, r.Unregister("acme"))
	assert.False(t, r.Contains("acme"))
}

func TestDiscoverFilters(t *testing.T) {
	r := New()
	_, err := r.Register(supplier("eu-sensors", 0.9, func(a *AgentFacts) {
		a.Capabilities = []string{"Temperature Sensors", "humidity_sensor"}
	}))
	require.NoError(t, err)
	_, err = r.Register(supplier("asia-motors", 0.95, func(a *AgentFacts) {
		a.Capabilities = []string{"motors", "propulsion"}
		a.Region = "Asia"
		a.Country = "China"
	}))
	require.NoError(t, err)
	_, err = r.Register(AgentFacts{
		AgentID: "dhl", Name: "DHL", Role: RoleLogistics,
		Capabilities: []string{"air freight"}, Region: "EU",
	})
	require.NoError(t, err)

	got := r.Discover(Query{Role: RoleSupplier, Capability: "sensors"})
	require.Len(t, got, 1)
	assert.Equal(t, "eu-sensors", got[0].AgentID)

	// Capability filter never admits an agent with no matching substring.
	for _, a := range r.Discover(Query{Capability: "sensors"}) {
		found := false
		for _, c := range a.Capabilities {
			if strings.Contains(strings.ToLower(c), "sensors") {
				found = true
			}
		}
		assert.True(t, found, "agent %s has no sensors capability", a.AgentID)
	}

	got = r.Discover(Query{Region: "china"})
	require.Len(t, got, 1)
	assert.Equal(t, "asia-motors", got[0].AgentID)

	got = r.Discover(Query{Role: RoleSupplier, MinTrust: 0.92})
	require.Len(t, got, 1)
	assert.Equal(t, "asia-motors", got[0].AgentID)
}

func TestDiscoverOrdering(t *testing.T) {
	r := New()
	for _, s := range []AgentFacts{
		supplier("low", 0.4),
		supplier("tie-a", 0.7),
		supplier("high", 0.9),
		supplier("tie-b", 0.7),
	} {
		_, err := r.Register(s)
		require.NoError(t, err)
	}

	got := r.Discover(Query{Role: RoleSupplier})
	ids := make([]string, len(got))
	for i, a := range got {
		ids[i] = a.AgentID
	}
	// Reputation descending; equal scores keep registration order.
	assert.Equal(t, []string{"high", "tie-a", "tie-b", "low"}, ids)
}

func TestRankForRFQ(t *testing.T) {
	fast := supplier("fast", 0.8, func(a *AgentFacts) { a.AvgLeadTimeDays = 3 })
	slow := supplier("slow", 0.8, func(a *AgentFacts) { a.AvgLeadTimeDays = 10 })

	ranked := RankForRFQ([]AgentFacts{slow, fast}, 7)
	require.Len(t, ranked, 2)
	assert.Equal(t, "fast", ranked[0].Agent.AgentID)
	assert.Greater(t, ranked[0].Score, ranked[1].Score)

	// fast: 0.8*0.35 + 0.25 + 0.95*0.20 + 0.5*0.20 = 0.28+0.25+0.19+0.10
	assert.InDelta(t, 0.82, ranked[0].Score, 1e-9)
	// slow is 3 days over: speed = 0.25 - 3*0.05 = 0.10
	assert.InDelta(t, 0.67, ranked[1].Score, 1e-9)
}

func TestRankForRFQBounded(t *testing.T) {
	// Score stays in (0,1) for any agent with normalized inputs.
	cases := []AgentFacts{
		supplier("a", 0.0, func(a *AgentFacts) {
			a.AvgLeadTimeDays = 100
			a.Trust.DisputeRate = 1.0
			a.Trust.TotalTransactions = 0
		}),
		supplier("b", 1.0, func(a *AgentFacts) {
			a.AvgLeadTimeDays = 0
			a.Trust.DisputeRate = 0
			a.Trust.TotalTransactions = 10000
		}),
		supplier("c", 0.5),
	}
	for _, a := range cases {
		ranked := RankForRFQ([]AgentFacts{a}, 7)
		require.Len(t, ranked, 1)
		assert.GreaterOrEqual(t, ranked[0].Score, 0.0)
		assert.LessOrEqual(t, ranked[0].Score, 1.0)
	}
}

func TestVerify(t *testing.T) {
	r := New()
	_, err := r.Register(supplier("acme", 0.8, func(a *AgentFacts) {
		a.Certifications = []Certification{{Authority: "TUV", Certification: "CE"}}
		a.Endpoint = "/agents/acme"
	}))
	require.NoError(t, err)

	report, err := r.Verify("acme")
	require.NoError(t, err)
	assert.True(t, report.Verified)
	assert.Equal(t, "/agents/acme", report.Identity.Endpoint)
	assert.Equal(t, []string{"electronics", "propulsion"}, report.Capability.SelfDeclared)
	require.Len(t, report.Capability.Certifications, 1)
	assert.Equal(t, 0.8, report.Reputation.Score)

	_, err = r.Verify("ghost")
	assert.True(t, errors.Is(err, ErrNotFound))
}
