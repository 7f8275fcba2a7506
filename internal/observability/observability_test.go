package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitDisabled(t *testing.T) {
	require.NoError(t, Init(Config{Enabled: false}))

	// Spans still work as no-ops.
	ctx, span := StartSpan(context.Background(), "stage.test")
	assert.NotNil(t, ctx)
	span.End()
}

func TestInitStdout(t *testing.T) {
	require.NoError(t, Init(Config{Enabled: true, ExporterType: "stdout"}))
	defer Shutdown(context.Background())

	_, span := StartSpan(context.Background(), "stage.test")
	span.End()
}

func TestInitUnknownExporter(t *testing.T) {
	err := Init(Config{Enabled: true, ExporterType: "carrier-pigeon"})
	assert.Error(t, err)
}

func TestParseHeaders(t *testing.T) {
	h := parseHeaders("Authorization=Bearer abc, X-Tenant=procgo")
	assert.Equal(t, "Bearer abc", h["Authorization"])
	assert.Equal(t, "procgo", h["X-Tenant"])
	assert.Nil(t, parseHeaders(""))
}
