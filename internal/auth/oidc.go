package auth

import (
	"context"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/mitchellh/mapstructure"

	"github.com/darmiel/ordergate/internal/config"
	"github.com/darmiel/ordergate/internal/core"
)

// OIDCVerifier validates credentials against an external OIDC identity
// provider. This is the production verification path: the actual decision of
// whether a token is valid happens at the identity service, not here.
type OIDCVerifier struct {
	name     string
	provider *oidc.Provider
	verifier *oidc.IDTokenVerifier
}

type oidcConfig struct {
	IssuerURL string `mapstructure:"issuer_url"`
	ClientID  string `mapstructure:"client_id"`
}

func NewOIDCVerifier(ctx context.Context, cfg config.VerifierConfig) (*OIDCVerifier, error) {
	var oc oidcConfig
	if err := mapstructure.Decode(cfg.Config, &oc); err != nil {
		return nil, fmt.Errorf("decoding oidc verifier config: %w", err)
	}
	if oc.IssuerURL == "" {
		return nil, fmt.Errorf("oidc verifier '%s' missing 'issuer_url'", cfg.Name)
	}
	if oc.ClientID == "" {
		return nil, fmt.Errorf("oidc verifier '%s' missing 'client_id'", cfg.Name)
	}

	provider, err := oidc.NewProvider(ctx, oc.IssuerURL)
	if err != nil {
		return nil, fmt.Errorf("creating oidc provider for verifier '%s': %w", cfg.Name, err)
	}

	verifier := provider.Verifier(&oidc.Config{
		ClientID: oc.ClientID,
	})

	return &OIDCVerifier{
		name:     cfg.Name,
		provider: provider,
		verifier: verifier,
	}, nil
}

func (o *OIDCVerifier) Name() string {
	return o.name
}

func (o *OIDCVerifier) Verify(ctx context.Context, credential string) (*core.Identity, error) {
	idToken, err := o.verifier.Verify(ctx, credential)
	if err != nil {
		return nil, fmt.Errorf("oidc verification failed: %w", err)
	}

	var claims map[string]any
	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("extracting oidc claims: %w", err)
	}

	subject := ""
	if sub, ok := claims["sub"]; ok {
		subStr, ok := sub.(string)
		if !ok {
			return nil, fmt.Errorf("invalid 'sub' claim type")
		}
		subject = subStr
	}

	return &core.Identity{
		Subject:   subject,
		Verifier:  o.name,
		ExpiresAt: idToken.Expiry,
		Claims:    claims,
	}, nil
}
