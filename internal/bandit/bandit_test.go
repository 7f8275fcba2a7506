package bandit

import (
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/procgo-dev/procgo/internal/negotiation"
)

func TestChooseDiscountNoHistory(t *testing.T) {
	b := New(NewMemoryStore())

	choice, err := b.ChooseDiscount("acme", 0)
	require.NoError(t, err)
	assert.Equal(t, 15.0, choice.DiscountPct)
	assert.Contains(t, choice.Rationale, "No history")
	assert.False(t, choice.Explored)
}

func TestChooseDiscountIdempotentWithoutExploration(t *testing.T) {
	b := New(NewMemoryStore())
	require.NoError(t, b.RecordOutcome("acme", 10, 8, negotiation.Accept))

	first, err := b.ChooseDiscount("acme", 0)
	require.NoError(t, err)
	second, err := b.ChooseDiscount("acme", 0)
	require.NoError(t, err)
	assert.Equal(t, first.DiscountPct, second.DiscountPct)
	assert.Equal(t, first.Rationale, second.Rationale)
}

func TestChooseDiscountExploitsBestArm(t *testing.T) {
	b := New(NewMemoryStore())

	// High reward on 20, low on everything else.
	require.NoError(t, b.RecordOutcome("acme", 20, 18, negotiation.Accept))
	for _, arm := range []float64{5, 10, 15, 25} {
		require.NoError(t, b.RecordOutcome("acme", arm, 1, negotiation.Counter))
	}

	for i := 0; i < 5; i++ {
		choice, err := b.ChooseDiscount("acme", 0)
		require.NoError(t, err)
		assert.Equal(t, 20.0, choice.DiscountPct)
		assert.Contains(t, choice.Rationale, "Best known")
	}
}

func TestChooseDiscountExploration(t *testing.T) {
	// Seeded rand makes the explore branch reproducible.
	b := New(NewMemoryStore(), WithRand(rand.New(rand.NewSource(1))))
	require.NoError(t, b.RecordOutcome("acme", 10, 9, negotiation.Accept))

	explored := false
	for i := 0; i < 200; i++ {
		choice, err := b.ChooseDiscount("acme", 1.0)
		require.NoError(t, err)
		assert.True(t, choice.Explored)
		assert.Contains(t, DefaultArms, choice.DiscountPct)
		explored = true
	}
	assert.True(t, explored)
}

func TestRecordOutcomeAccumulates(t *testing.T) {
	store := NewMemoryStore()
	b := New(store)

	require.NoError(t, b.RecordOutcome("acme", 15, 12, negotiation.Accept))
	require.NoError(t, b.RecordOutcome("acme", 15, 10, negotiation.Counter))

	arms, err := store.LoadArms("acme")
	require.NoError(t, err)
	st := arms["15"]
	assert.Equal(t, 2, st.Tries)
	assert.Equal(t, 22.0, st.TotalReceived)
	assert.Equal(t, 1, st.Successes)
}

func TestRecordOutcomeConcurrent(t *testing.T) {
	store := NewMemoryStore()
	b := New(store)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = b.RecordOutcome("acme", 10, 5, negotiation.Accept)
		}()
	}
	wg.Wait()

	arms, err := store.LoadArms("acme")
	require.NoError(t, err)
	assert.Equal(t, 50, arms["10"].Tries)
	assert.Equal(t, 250.0, arms["10"].TotalReceived)
}

func TestSupplierInsights(t *testing.T) {
	b := New(NewMemoryStore())

	ins, err := b.SupplierInsights("unknown")
	require.NoError(t, err)
	assert.Equal(t, "no_data", ins.Status)

	require.NoError(t, b.RecordOutcome("acme", 15, 9, negotiation.Counter))
	require.NoError(t, b.RecordOutcome("acme", 15, 11, negotiation.Accept))
	require.NoError(t, b.RecordOutcome("acme", 5, 5, negotiation.Accept))

	ins, err = b.SupplierInsights("acme")
	require.NoError(t, err)
	assert.Equal(t, "ok", ins.Status)
	assert.Equal(t, 3, ins.TotalNegotiations)
	assert.Equal(t, 15.0, ins.BestDiscountToAsk)
	assert.Equal(t, 10.0, ins.ExpectedResult)
	assert.Contains(t, ins.Recommendation, "Ask 15%")
}

func TestAllInsights(t *testing.T) {
	b := New(NewMemoryStore())
	require.NoError(t, b.RecordOutcome("a", 10, 8, negotiation.Accept))
	require.NoError(t, b.RecordOutcome("b", 20, 15, negotiation.Counter))

	all, err := b.AllInsights()
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, "ok", all["a"].Status)
}

func TestBadgerStorePersistence(t *testing.T) {
	dir := t.TempDir()

	store, err := NewBadgerStore(dir)
	require.NoError(t, err)
	b := New(store)
	require.NoError(t, b.RecordOutcome("acme", 20, 16, negotiation.Accept))
	require.NoError(t, store.Close())

	// Reopen: statistics survive the restart.
	store, err = NewBadgerStore(dir)
	require.NoError(t, err)
	defer store.Close()

	arms, err := store.LoadArms("acme")
	require.NoError(t, err)
	assert.Equal(t, 1, arms["20"].Tries)
	assert.Equal(t, 16.0, arms["20"].TotalReceived)

	ids, err := store.Suppliers()
	require.NoError(t, err)
	assert.Equal(t, []string{"acme"}, ids)
}
