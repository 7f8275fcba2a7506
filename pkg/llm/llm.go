// Package llm provides a small completion client abstraction used by
// the BOM generator and compliance explainer. Implementations wrap a
// hosted model behind a single Complete call so callers stay decoupled
// from any one provider SDK.
package llm

import (
	"context"
	"errors"
)

// ErrNotConfigured is returned when no provider credentials are available.
var ErrNotConfigured = errors.New("llm: client not configured")

// Client generates text completions.
type Client interface {
	// Complete generates a completion for the given prompt.
	Complete(ctx context.Context, prompt string, opts ...Option) (string, error)

	// Close releases client resources.
	Close() error
}

// Options holds generation options.
type Options struct {
	Model       string
	MaxTokens   int
	Temperature float32
	System      string
}

// Option is a functional option for completion requests.
type Option func(*Options)

// WithModel sets the model to use.
func WithModel(model string) Option {
	return func(o *Options) { o.Model = model }
}

// WithMaxTokens limits the completion length.
func WithMaxTokens(n int) Option {
	return func(o *Options) { o.MaxTokens = n }
}

// WithTemperature sets sampling temperature.
func WithTemperature(t float32) Option {
	return func(o *Options) { o.Temperature = t }
}

// WithSystem sets the system prompt.
func WithSystem(s string) Option {
	return func(o *Options) { o.System = s }
}

func applyOptions(opts []Option) Options {
	o := Options{MaxTokens: 1024}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}
