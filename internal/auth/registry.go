package auth

import (
	"context"
	"fmt"

	"github.com/darmiel/ordergate/internal/config"
	"github.com/darmiel/ordergate/internal/core"
)

// Build constructs the credential verifier described by the config.
func Build(ctx context.Context, cfg config.VerifierConfig) (core.Verifier, error) {
	switch cfg.Type {
	case "oidc":
		v, err := NewOIDCVerifier(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("building oidc verifier %q: %w", cfg.Name, err)
		}
		return v, nil
	case "hmac":
		v, err := NewHMACVerifier(cfg)
		if err != nil {
			return nil, fmt.Errorf("building hmac verifier %q: %w", cfg.Name, err)
		}
		return v, nil
	case "stub":
		v, err := NewStubVerifier(cfg)
		if err != nil {
			return nil, fmt.Errorf("building stub verifier %q: %w", cfg.Name, err)
		}
		return v, nil
	default:
		return nil, fmt.Errorf("unknown verifier type %q for verifier %q", cfg.Type, cfg.Name)
	}
}
