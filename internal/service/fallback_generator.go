package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/fadilmartias/interview-engine/internal/metrics"
)

// Generator is anything that turns a prompt into text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// FallbackGenerator tries each provider in order and returns the first success.
// Every attempt is counted in metrics.
type FallbackGenerator struct {
	providers []namedGenerator
	metrics   *metrics.Metrics
}

type namedGenerator struct {
	name string
	gen  Generator
}

func NewFallbackGenerator(m *metrics.Metrics) *FallbackGenerator {
	return &FallbackGenerator{metrics: m}
}

// Add appends a provider. Nil generators are ignored.
func (f *FallbackGenerator) Add(name string, gen Generator) *FallbackGenerator {
	if gen != nil {
		f.providers = append(f.providers, namedGenerator{name: name, gen: gen})
	}
	return f
}

func (f *FallbackGenerator) Len() int {
	return len(f.providers)
}

func (f *FallbackGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if len(f.providers) == 0 {
		return "", errors.New("no language model provider configured")
	}

	var errs []error
	for _, p := range f.providers {
		out, err := p.gen.Generate(ctx, prompt)
		f.metrics.IncrementLLMCall(err == nil)
		if err == nil {
			return out, nil
		}
		errs = append(errs, err)
		if ctx.Err() != nil {
			break
		}
		slog.Warn("llm provider failed", "provider", p.name, "error", err)
	}
	return "", errors.Join(errs...)
}
