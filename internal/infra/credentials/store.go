package credentials

import (
	"context"
	"os"
	"strings"
)

const (
	ProviderGemini = "gemini"

	envGeminiAPIKey = "GEMINI_API_KEY"
)

// Store resolves provider credentials from the process environment at call
// time. Keys are deliberately not cached so a rotated secret takes effect on
// the next request.
type Store struct {
	lookup func(string) string
}

// NewStore builds a store backed by os.Getenv.
func NewStore() *Store {
	return &Store{lookup: os.Getenv}
}

// NewStoreFromLookup builds a store with a custom lookup, for tests.
func NewStoreFromLookup(lookup func(string) string) *Store {
	return &Store{lookup: lookup}
}

// GeminiAPIKey returns the configured Gemini credential, or empty when none
// is set. Callers decide whether absence is fatal.
func (s *Store) GeminiAPIKey(ctx context.Context) (string, error) {
	return s.Token(ctx, ProviderGemini)
}

// Token resolves the credential for the named provider.
func (s *Store) Token(_ context.Context, provider string) (string, error) {
	switch provider {
	case ProviderGemini:
		return strings.TrimSpace(s.lookup(envGeminiAPIKey)), nil
	default:
		return "", nil
	}
}
