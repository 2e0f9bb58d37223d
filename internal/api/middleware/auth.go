package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/rs/zerolog/log"

	"github.com/darmiel/ordergate/internal/audit"
	"github.com/darmiel/ordergate/internal/core"
)

// SessionCookieName is the cookie consulted when no Authorization header
// carries a bearer token.
const SessionCookieName = "__session"

const bearerPrefix = "Bearer "

const identityKey = "identity"

// credential sources, for logging and audit metadata
const (
	SourceHeader = "header"
	SourceCookie = "cookie"
)

// the uniform rejection of the gate: status and body are identical for
// missing and invalid credentials so nothing about the verifier leaks
const unauthorizedBody = "Unauthorized"

var ErrNoCredential = errors.New("no credential in request")

// ExtractCredential pulls a candidate credential out of the request.
// The Authorization header wins when it carries a bearer token; otherwise the
// session cookie is consulted. Pure function of the request metadata.
func ExtractCredential(r *http.Request) (credential, source string, err error) {
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, bearerPrefix) {
		return strings.TrimPrefix(auth, bearerPrefix), SourceHeader, nil
	}
	if cookie, cerr := r.Cookie(SessionCookieName); cerr == nil {
		return cookie.Value, SourceCookie, nil
	}
	return "", "", ErrNoCredential
}

// IdentityCtx retrieves the verified identity attached by the auth gate.
// Returns nil if the gate did not run for this request.
func IdentityCtx(ctx context.Context) *core.Identity {
	id, ok := ctx.Value(identityKey).(*core.Identity)
	if !ok {
		return nil
	}
	return id
}

// GateOptions configures a single instance of the auth gate.
type GateOptions struct {
	// RouteName identifies the guarded route in logs and audit entries.
	RouteName string

	// Timeout bounds the verifier call. Zero disables the bound.
	Timeout time.Duration

	// Require is an optional compiled claims expression that must evaluate
	// to true for the request to pass.
	Require *vm.Program
}

// CompileRequirement compiles a claims expression for GateOptions.Require.
func CompileRequirement(src string) (*vm.Program, error) {
	program, err := expr.Compile(src, expr.Env(map[string]any{
		"claims":  map[string]any{},
		"subject": "",
	}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compiling claims requirement: %w", err)
	}
	return program, nil
}

// Auth returns the gate middleware. A request passes only if a credential is
// present, the verifier accepts it, and the optional claims requirement
// holds. Every other outcome is the same opaque 403.
func Auth(verifier core.Verifier, auditor core.Auditor, opts GateOptions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			logger := log.Ctx(ctx)

			entry := core.AuditEntry{
				ID:     CorrelationCtx(ctx),
				Time:   time.Now(),
				Route:  opts.RouteName,
				Action: "auth.deny",
			}
			defer func() {
				if err := auditor.Log(entry); err != nil {
					logger.Error().Err(err).Msg("failed to write audit entry")
				}
			}()

			credential, source, err := ExtractCredential(r)
			if err != nil {
				logger.Warn().Str("route", opts.RouteName).Msg("no bearer token or session cookie in request")
				entry.Error = "no credential"
				deny(w)
				return
			}

			logger.Debug().
				Str("source", source).
				Str("credential_fp", audit.Fingerprint(credential)).
				Msg("found credential")
			entry.Metadata = map[string]any{"source": source}

			vctx := ctx
			if opts.Timeout > 0 {
				var cancel context.CancelFunc
				vctx, cancel = context.WithTimeout(ctx, opts.Timeout)
				defer cancel()
			}

			// a single verification attempt; retries belong inside the
			// verifier adapter, not in the gate
			identity, err := verifier.Verify(vctx, credential)
			if err != nil {
				logger.Warn().Err(err).
					Str("source", source).
					Str("credential_fp", audit.Fingerprint(credential)).
					Msg("credential verification failed")
				entry.Error = "verification failed"
				deny(w)
				return
			}

			if opts.Require != nil {
				ok, err := runRequirement(opts.Require, identity)
				if err != nil {
					logger.Error().Err(err).Str("route", opts.RouteName).Msg("claims requirement errored")
				}
				if err != nil || !ok {
					entry.Subject = identity.Subject
					entry.Error = "claims requirement not met"
					deny(w)
					return
				}
			}

			logger.Debug().
				Str("sub", identity.Subject).
				Str("verifier", identity.Verifier).
				Msg("credential verified")

			entry.Action = "auth.allow"
			entry.Subject = identity.Subject

			next.ServeHTTP(w, r.WithContext(
				context.WithValue(ctx, identityKey, identity)))
		})
	}
}

func runRequirement(program *vm.Program, identity *core.Identity) (bool, error) {
	out, err := expr.Run(program, map[string]any{
		"claims":  identity.Claims,
		"subject": identity.Subject,
	})
	if err != nil {
		return false, err
	}
	ok, isBool := out.(bool)
	return isBool && ok, nil
}

func deny(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusForbidden)
	_, _ = w.Write([]byte(unauthorizedBody))
}
