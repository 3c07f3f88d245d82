package narrate

import (
	"context"
	"fmt"
	"strings"
)

// Options selects and configures a summarizer provider.
type Options struct {
	Provider string
	APIKey   string
	Model    string
}

// NewSummarizer returns the configured provider. The provider name defaults
// to gemini; anything unrecognized is an error rather than a silent
// fallback.
func NewSummarizer(ctx context.Context, opts Options) (Summarizer, error) {
	provider := strings.ToLower(strings.TrimSpace(opts.Provider))
	if provider == "" {
		provider = "gemini"
	}

	switch provider {
	case "gemini":
		return NewGeminiSummarizer(ctx, opts.APIKey, opts.Model)
	default:
		return nil, fmt.Errorf("unsupported summarizer provider: %s", opts.Provider)
	}
}
