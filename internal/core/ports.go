package core

import "context"

// Verifier is responsible for validating credentials against an identity
// service. Implementations: OIDC Verifier, HMAC Verifier, Stub Verifier.
type Verifier interface {
	// Name returns the identifier of this verifier (as used in config).
	Name() string

	// Verify takes a raw credential string, validates it, and returns an
	// Identity. Any failure (expired, malformed, network error) is returned
	// as a plain error; callers must not distinguish failure subtypes.
	Verify(ctx context.Context, credential string) (*Identity, error)
}

// Mailer delivers a rendered mail message via an outbound transport.
// Implementations must be safe for concurrent use; the mailer is the only
// long-lived shared resource in the system.
type Mailer interface {
	Send(ctx context.Context, msg *MailMessage) error
}

// RateQuoter obtains a shipping price quote from a carrier.
type RateQuoter interface {
	Quote(ctx context.Context, req QuoteRequest) (*Quote, error)
}
