package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mitchellh/mapstructure"

	"github.com/darmiel/ordergate/internal/config"
	"github.com/darmiel/ordergate/internal/core"
)

// HMACVerifier validates self-issued HS256 tokens with a shared signing key.
// It is meant for development and self-contained deployments where no
// external identity provider is available.
type HMACVerifier struct {
	name       string
	signingKey []byte
}

type hmacConfig struct {
	// Key is the shared signing key.
	Key string `mapstructure:"key"`
}

func NewHMACVerifier(cfg config.VerifierConfig) (*HMACVerifier, error) {
	var hc hmacConfig
	if err := mapstructure.Decode(cfg.Config, &hc); err != nil {
		return nil, fmt.Errorf("decoding hmac verifier config: %w", err)
	}
	if hc.Key == "" {
		return nil, fmt.Errorf("hmac verifier '%s' missing 'key'", cfg.Name)
	}
	return &HMACVerifier{
		name:       cfg.Name,
		signingKey: []byte(hc.Key),
	}, nil
}

func (h *HMACVerifier) Name() string {
	return h.name
}

func (h *HMACVerifier) Verify(_ context.Context, credential string) (*core.Identity, error) {
	token, err := jwt.Parse(credential, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return h.signingKey, nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("hmac verification failed: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}

	subject, _ := claims.GetSubject()

	var expiresAt time.Time
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		expiresAt = exp.Time
	}

	return &core.Identity{
		Subject:   subject,
		Verifier:  h.name,
		ExpiresAt: expiresAt,
		Claims:    map[string]any(claims),
	}, nil
}

// Mint creates a signed development token for the given subject.
// Used by the debug CLI to test the gate without an identity provider.
func (h *HMACVerifier) Mint(subject string, ttl time.Duration, extra map[string]any) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": subject,
		"iss": h.name,
		"iat": jwt.NewNumericDate(now),
		"exp": jwt.NewNumericDate(now.Add(ttl)),
	}
	for k, v := range extra {
		claims[k] = v
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(h.signingKey)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}
