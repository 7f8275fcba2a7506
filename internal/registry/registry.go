// Package registry implements the agent directory: registration, filtered
// discovery, trust verification, and RFQ-aware ranking of supplier agents.
package registry

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
)

// ErrNotFound is returned when an agent id is not registered.
var ErrNotFound = errors.New("agent not found")

// ErrAlreadyRegistered is returned when an agent id is already taken.
// Callers registering a known fleet should treat this as benign.
var ErrAlreadyRegistered = errors.New("agent already registered")

// Registry is an in-memory agent directory. Safe for concurrent use.
//
// Insertion order is preserved so that discovery results are stable when
// reputation scores tie.
type Registry struct {
	mu     sync.RWMutex
	agents map[string]*AgentFacts
	order  []string
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{agents: make(map[string]*AgentFacts)}
}

// Register inserts an agent record keyed by its AgentID.
// Returns ErrAlreadyRegistered if the id is taken.
func (r *Registry) Register(agent AgentFacts) (string, error) {
	if agent.AgentID == "" {
		return "", fmt.Errorf("register: empty agent id")
	}
	if !agent.Role.Valid() {
		return "", fmt.Errorf("register %s: invalid role %q", agent.AgentID, agent.Role)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.agents[agent.AgentID]; exists {
		return "", fmt.Errorf("register %s: %w", agent.AgentID, ErrAlreadyRegistered)
	}
	rec := agent
	r.agents[agent.AgentID] = &rec
	r.order = append(r.order, agent.AgentID)
	return agent.AgentID, nil
}

// Get returns the agent record for id, or ErrNotFound.
func (r *Registry) Get(id string) (AgentFacts, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.agents[id]
	if !ok {
		return AgentFacts{}, fmt.Errorf("get %s: %w", id, ErrNotFound)
	}
	return *a, nil
}

// Unregister removes an agent. Reports whether it was present.
func (r *Registry) Unregister(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.agents[id]; !ok {
		return false
	}
	delete(r.agents, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// Len returns the number of registered agents.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.agents)
}

// Contains reports whether id is registered.
func (r *Registry) Contains(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.agents[id]
	return ok
}

// List returns all registered agents in registration order.
func (r *Registry) List() []AgentFacts {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]AgentFacts, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.agents[id])
	}
	return out
}

// Query narrows a Discover call. Zero values mean "no filter".
type Query struct {
	// Role must match exactly when set.
	Role Role
	// Capability matches case-insensitively as a substring of any
	// declared capability.
	Capability string
	// Region matches case-insensitively as a substring of the agent's
	// region or country.
	Region string
	// MinTrust is the minimum reputation score (inclusive).
	MinTrust float64
}

// Discover returns agents matching all supplied filters, ordered by
// reputation score descending. Ties keep registration order.
func (r *Registry) Discover(q Query) []AgentFacts {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var results []AgentFacts
	for _, id := range r.order {
		a := r.agents[id]
		if q.Role != "" && a.Role != q.Role {
			continue
		}
		if q.Capability != "" && !matchesCapability(a.Capabilities, q.Capability) {
			continue
		}
		if q.Region != "" && !matchesRegion(a, q.Region) {
			continue
		}
		if a.Trust.ReputationScore < q.MinTrust {
			continue
		}
		results = append(results, *a)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Trust.ReputationScore > results[j].Trust.ReputationScore
	})
	return results
}

func matchesCapability(capabilities []string, filter string) bool {
	f := strings.ToLower(filter)
	for _, c := range capabilities {
		if strings.Contains(strings.ToLower(c), f) {
			return true
		}
	}
	return false
}

func matchesRegion(a *AgentFacts, filter string) bool {
	f := strings.ToLower(filter)
	return strings.Contains(strings.ToLower(a.Region), f) ||
		strings.Contains(strings.ToLower(a.Country), f)
}

// Ranking weights for RankForRFQ.
const (
	weightTrust       = 0.35
	weightSpeed       = 0.25
	weightReliability = 0.20
	weightVolume      = 0.20

	// speedDecayPerDay is subtracted from the speed component for every
	// day an agent's average lead time exceeds the deadline.
	speedDecayPerDay = 0.05
)

// RankForRFQ scores candidate agents against a delivery deadline.
//
// score = trust*0.35 + speedFit*0.25 + (1-disputeRate)*0.20 + min(tx/100,1)*0.20
//
// Speed fit is the full weight when the agent's average lead time is within
// the deadline, otherwise decayed by 0.05 per day over, floored at zero.
// The result is sorted by score descending, rounded to 3 decimals.
// Pure and deterministic given its inputs.
func RankForRFQ(agents []AgentFacts, deadlineDays int) []RankedAgent {
	ranked := make([]RankedAgent, 0, len(agents))
	for _, a := range agents {
		trust := a.Trust.ReputationScore * weightTrust

		speed := weightSpeed
		if a.AvgLeadTimeDays > deadlineDays {
			overage := float64(a.AvgLeadTimeDays - deadlineDays)
			speed = math.Max(0, weightSpeed-overage*speedDecayPerDay)
		}

		reliability := (1 - a.Trust.DisputeRate) * weightReliability
		volume := math.Min(float64(a.Trust.TotalTransactions)/100, 1.0) * weightVolume

		score := round3(trust + speed + reliability + volume)
		ranked = append(ranked, RankedAgent{Agent: a, Score: score})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

// Verify returns the three-layer trust attestation for an agent,
// or ErrNotFound. It never panics.
func (r *Registry) Verify(id string) (TrustReport, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.agents[id]
	if !ok {
		return TrustReport{}, fmt.Errorf("verify %s: %w", id, ErrNotFound)
	}
	return TrustReport{
		AgentID:  a.AgentID,
		Name:     a.Name,
		Verified: a.Trust.Verified,
		Identity: IdentityLayer{
			DomainVerified: a.Trust.Verified,
			Endpoint:       a.Endpoint,
		},
		Capability: CapabilityLayer{
			SelfDeclared:   append([]string(nil), a.Capabilities...),
			Certifications: append([]Certification(nil), a.Certifications...),
		},
		Reputation: ReputationLayer{
			Score:             a.Trust.ReputationScore,
			TotalTransactions: a.Trust.TotalTransactions,
			DisputeRate:       a.Trust.DisputeRate,
		},
	}, nil
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
