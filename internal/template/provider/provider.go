// Package provider discovers pipeline templates.
package provider

import (
	"context"

	"github.com/tacogips/pipelinedoc/internal/template/model"
)

// DefaultPatterns are used when Discover is called without patterns.
var DefaultPatterns = []string{"**/*.yml", "**/*.yaml"}

// Provider discovers templates.
type Provider interface {
	// Discover returns the templates matching patterns, de-duplicated and
	// sorted by path.
	Discover(ctx context.Context, patterns []string) ([]model.TemplateFile, error)

	// Name returns the provider name (e.g., "local").
	Name() string
}
