package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyOptions(t *testing.T) {
	o := applyOptions([]Option{
		WithModel("gpt-4o"),
		WithMaxTokens(256),
		WithTemperature(0.2),
		WithSystem("be terse"),
	})
	assert.Equal(t, "gpt-4o", o.Model)
	assert.Equal(t, 256, o.MaxTokens)
	assert.Equal(t, float32(0.2), o.Temperature)
	assert.Equal(t, "be terse", o.System)
}

func TestApplyOptionsDefaults(t *testing.T) {
	o := applyOptions(nil)
	assert.Equal(t, 1024, o.MaxTokens)
	assert.Empty(t, o.Model)
}

func TestNewOpenAIClientRequiresKey(t *testing.T) {
	_, err := NewOpenAIClient(OpenAIConfig{})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestMockClientScriptedResponses(t *testing.T) {
	m := NewMockClient("first", "second")
	m.Errors = []error{nil, errors.New("boom")}

	got, err := m.Complete(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "first", got)

	_, err = m.Complete(context.Background(), "p2")
	assert.Error(t, err)

	// Exhausted script falls back to the default.
	got, err = m.Complete(context.Background(), "p3")
	require.NoError(t, err)
	assert.Equal(t, "mock response", got)

	assert.Equal(t, 3, m.CallCount())
	assert.Equal(t, []string{"p1", "p2", "p3"}, m.Calls)
}
