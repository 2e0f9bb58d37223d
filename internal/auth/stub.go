package auth

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/mitchellh/mapstructure"

	"github.com/darmiel/ordergate/internal/config"
	"github.com/darmiel/ordergate/internal/core"
)

// StubVerifier accepts a fixed table of tokens. Test and local use only.
type StubVerifier struct {
	name   string
	tokens map[string]map[string]any
	calls  atomic.Int64
}

type stubConfig struct {
	// Tokens maps an accepted raw token to the claims it decodes to.
	Tokens map[string]map[string]any `mapstructure:"tokens"`
}

func NewStubVerifier(cfg config.VerifierConfig) (*StubVerifier, error) {
	var sc stubConfig
	if err := mapstructure.Decode(cfg.Config, &sc); err != nil {
		return nil, fmt.Errorf("decoding stub verifier config: %w", err)
	}
	return &StubVerifier{
		name:   cfg.Name,
		tokens: sc.Tokens,
	}, nil
}

func (s *StubVerifier) Name() string {
	return s.name
}

func (s *StubVerifier) Verify(_ context.Context, credential string) (*core.Identity, error) {
	s.calls.Add(1)

	claims, ok := s.tokens[credential]
	if !ok {
		return nil, fmt.Errorf("unknown stub token")
	}

	subject := ""
	if sub, ok := claims["sub"].(string); ok {
		subject = sub
	}

	return &core.Identity{
		Subject:   subject,
		Verifier:  s.name,
		ExpiresAt: time.Now().Add(time.Hour),
		Claims:    claims,
	}, nil
}

// Calls reports how often Verify was invoked. Tests use this to assert the
// gate short-circuits when no credential is present.
func (s *StubVerifier) Calls() int64 {
	return s.calls.Load()
}
