// Package bandit implements the adaptive negotiation engine: a per-supplier
// epsilon-greedy multi-armed bandit over a fixed set of discount percentages.
// The bandit learns which discount request works best against each supplier
// from recorded negotiation outcomes.
package bandit

import (
	"fmt"
	"math/rand"
	"strconv"
	"sync"

	"github.com/procgo-dev/procgo/internal/negotiation"
)

// DefaultArms is the fixed discount action space, in percent.
var DefaultArms = []float64{5, 10, 15, 20, 25}

// DefaultEpsilon is the default exploration rate.
const DefaultEpsilon = 0.1

// Choice is the bandit's suggestion for the next negotiation.
type Choice struct {
	DiscountPct float64 `json:"discount_pct"`
	Rationale   string  `json:"rationale"`
	Explored    bool    `json:"explored"`
}

// Insights summarizes what the bandit has learned about one supplier.
type Insights struct {
	Status            string  `json:"status"` // "ok" or "no_data"
	TotalNegotiations int     `json:"total_negotiations,omitempty"`
	BestDiscountToAsk float64 `json:"best_discount_to_ask,omitempty"`
	ExpectedResult    float64 `json:"expected_result,omitempty"`
	MaxSeen           float64 `json:"max_seen,omitempty"`
	Recommendation    string  `json:"recommendation"`
}

// Bandit chooses discount requests per supplier and learns from outcomes.
// Safe for concurrent use; writes are serialized per supplier id.
type Bandit struct {
	store Store
	arms  []float64

	rngMu sync.Mutex
	rng   *rand.Rand

	lockMu sync.Mutex
	locks  map[string]*sync.Mutex
}

// Option configures a Bandit.
type Option func(*Bandit)

// WithArms overrides the discount action space.
func WithArms(arms []float64) Option {
	return func(b *Bandit) {
		if len(arms) > 0 {
			b.arms = append([]float64(nil), arms...)
		}
	}
}

// WithRand injects the random source, making exploration reproducible.
func WithRand(rng *rand.Rand) Option {
	return func(b *Bandit) { b.rng = rng }
}

// New creates a Bandit over the given store.
func New(store Store, opts ...Option) *Bandit {
	b := &Bandit{
		store: store,
		arms:  append([]float64(nil), DefaultArms...),
		rng:   rand.New(rand.NewSource(rand.Int63())),
		locks: make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Arms returns the discount action space.
func (b *Bandit) Arms() []float64 {
	return append([]float64(nil), b.arms...)
}

// ChooseDiscount picks the discount percentage to request from a supplier.
// With probability epsilon it explores a uniformly random arm; otherwise it
// exploits the arm with the best historical average received discount.
// A supplier with no history gets the middle arm.
func (b *Bandit) ChooseDiscount(supplierID string, epsilon float64) (Choice, error) {
	if epsilon > 0 && b.roll() < epsilon {
		arm := b.arms[b.intn(len(b.arms))]
		return Choice{
			DiscountPct: arm,
			Rationale:   fmt.Sprintf("Exploring: trying %.0f%%", arm),
			Explored:    true,
		}, nil
	}

	arms, err := b.store.LoadArms(supplierID)
	if err != nil {
		return Choice{}, err
	}

	best, bestAvg, tries, found := b.bestArm(arms)
	if !found {
		mid := b.arms[len(b.arms)/2]
		return Choice{
			DiscountPct: mid,
			Rationale:   fmt.Sprintf("No history, starting with %.0f%%", mid),
		}, nil
	}

	return Choice{
		DiscountPct: best,
		Rationale: fmt.Sprintf("Best known: %.0f%% (avg result: %.1f%% from %d tries)",
			best, bestAvg, tries),
	}, nil
}

// bestArm scans arms in the fixed action-space order so results are
// deterministic when averages tie.
func (b *Bandit) bestArm(arms map[string]ArmStats) (arm, avg float64, tries int, found bool) {
	bestAvg := -1.0
	for _, a := range b.arms {
		st, ok := arms[armKey(a)]
		if !ok || st.Tries == 0 {
			continue
		}
		if v := st.TotalReceived / float64(st.Tries); v > bestAvg {
			bestAvg = v
			arm = a
			tries = st.Tries
			found = true
		}
	}
	return arm, bestAvg, tries, found
}

// RecordOutcome updates the arm statistics for a finished negotiation.
// The supplier's record is created on first use. Writes to the same supplier
// are serialized so concurrent negotiations cannot lose updates.
func (b *Bandit) RecordOutcome(supplierID string, discountAsked, discountReceived float64, decision negotiation.Decision) error {
	lock := b.supplierLock(supplierID)
	lock.Lock()
	defer lock.Unlock()

	arms, err := b.store.LoadArms(supplierID)
	if err != nil {
		return fmt.Errorf("record outcome for %s: %w", supplierID, err)
	}

	key := armKey(discountAsked)
	st := arms[key]
	st.Tries++
	st.TotalReceived += discountReceived
	if decision == negotiation.Accept {
		st.Successes++
	}
	arms[key] = st

	if err := b.store.SaveArms(supplierID, arms); err != nil {
		return fmt.Errorf("record outcome for %s: %w", supplierID, err)
	}
	return nil
}

// SupplierInsights derives what the bandit knows about a supplier.
// Returns Status "no_data" for unseen suppliers.
func (b *Bandit) SupplierInsights(supplierID string) (Insights, error) {
	arms, err := b.store.LoadArms(supplierID)
	if err != nil {
		return Insights{}, err
	}

	best, bestAvg, _, found := b.bestArm(arms)
	if !found {
		return Insights{Status: "no_data", Recommendation: "No negotiation history"}, nil
	}

	total := 0
	maxSeen := 0.0
	for _, st := range arms {
		total += st.Tries
		if st.Tries > 0 {
			if v := st.TotalReceived / float64(st.Tries); v > maxSeen {
				maxSeen = v
			}
		}
	}

	return Insights{
		Status:            "ok",
		TotalNegotiations: total,
		BestDiscountToAsk: best,
		ExpectedResult:    round1(bestAvg),
		MaxSeen:           round1(maxSeen),
		Recommendation:    fmt.Sprintf("Ask %.0f%%, expect ~%.0f%%", best, bestAvg),
	}, nil
}

// AllInsights returns insights for every supplier with recorded history.
func (b *Bandit) AllInsights() (map[string]Insights, error) {
	ids, err := b.store.Suppliers()
	if err != nil {
		return nil, err
	}
	out := make(map[string]Insights, len(ids))
	for _, id := range ids {
		ins, err := b.SupplierInsights(id)
		if err != nil {
			return nil, err
		}
		out[id] = ins
	}
	return out, nil
}

func (b *Bandit) supplierLock(supplierID string) *sync.Mutex {
	b.lockMu.Lock()
	defer b.lockMu.Unlock()
	lock, ok := b.locks[supplierID]
	if !ok {
		lock = &sync.Mutex{}
		b.locks[supplierID] = lock
	}
	return lock
}

func (b *Bandit) roll() float64 {
	b.rngMu.Lock()
	defer b.rngMu.Unlock()
	return b.rng.Float64()
}

func (b *Bandit) intn(n int) int {
	b.rngMu.Lock()
	defer b.rngMu.Unlock()
	return b.rng.Intn(n)
}

func armKey(pct float64) string {
	return strconv.Itoa(int(pct))
}

func round1(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}
