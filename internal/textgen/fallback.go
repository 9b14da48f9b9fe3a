package textgen

import (
	"context"
	"errors"
	"fmt"

	"compliance-workers/internal/common/logger"
	"compliance-workers/internal/common/metrics"
)

var ErrNoProviders = errors.New("no text generation provider configured")

// Provider is a named generator in a fallback chain.
type Provider struct {
	Name      string
	Generator TextGenerator
}

// Fallback tries each provider in order and returns the first success.
type Fallback struct {
	providers []Provider
	logger    logger.Logger
}

func NewFallback(log logger.Logger, providers ...Provider) *Fallback {
	return &Fallback{providers: providers, logger: log}
}

// Names lists the providers in the order they are tried.
func (f *Fallback) Names() []string {
	names := make([]string, 0, len(f.providers))
	for _, p := range f.providers {
		names = append(names, p.Name)
	}
	return names
}

// Generate implements TextGenerator.
func (f *Fallback) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	text, _, err := f.GenerateWithProvider(ctx, prompt, maxTokens)
	return text, err
}

// GenerateWithProvider also reports which provider produced the text.
func (f *Fallback) GenerateWithProvider(ctx context.Context, prompt string, maxTokens int) (string, string, error) {
	if len(f.providers) == 0 {
		return "", "", ErrNoProviders
	}

	var errs []error
	for _, p := range f.providers {
		text, err := p.Generator.Generate(ctx, prompt, maxTokens)
		if err == nil {
			metrics.TextGenerationRequests.WithLabelValues(p.Name, "success").Inc()
			return text, p.Name, nil
		}

		metrics.TextGenerationRequests.WithLabelValues(p.Name, "error").Inc()
		f.logger.Warn("text generation provider failed", map[string]interface{}{
			"provider": p.Name,
			"error":    err.Error(),
		})
		errs = append(errs, fmt.Errorf("%s: %w", p.Name, err))

		if ctx.Err() != nil {
			break
		}
	}
	return "", "", errors.Join(errs...)
}
