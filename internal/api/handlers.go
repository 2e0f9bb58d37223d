package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/darmiel/ordergate/internal/api/middleware"
	"github.com/darmiel/ordergate/internal/api/presenter"
	"github.com/darmiel/ordergate/internal/buildinfo"
	"github.com/darmiel/ordergate/internal/core"
	"github.com/darmiel/ordergate/internal/service"
)

// handleHealth responds with a simple OK status to indicate the server is healthy.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// handleAbout responds with service information including version and commit hash.
func (s *Server) handleAbout(w http.ResponseWriter, r *http.Request) {
	presenter.JSON(w, r, buildinfo.GetBuildInfo(), http.StatusOK)
}

// handleHello echoes the verified identity claims back to the caller.
func (s *Server) handleHello(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityCtx(r.Context())
	if identity == nil {
		// the gate always runs for this route, so this indicates a wiring bug
		presenter.Error(w, r, "no identity attached to request", http.StatusInternalServerError)
		return
	}
	presenter.JSON(w, r, identity.Claims, http.StatusOK)
}

// handleConfirmOrder builds the confirmation mail from the query parameters
// and submits it. The response contract follows the source system: both
// outcomes answer 200, with either "Sent" or the error text as the body.
func (s *Server) handleConfirmOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.Ctx(ctx)

	details := core.OrderDetailsFromValues(r.URL.Query())

	entry := core.AuditEntry{
		ID:    middleware.CorrelationCtx(ctx),
		Time:  time.Now(),
		Route: RouteNameOrders,
		Metadata: map[string]any{
			"dest": details.Dest,
		},
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	if err := s.orders.Confirm(ctx, details); err != nil {
		logger.Error().Err(err).Str("dest", details.Dest).Msg("order confirmation failed")

		entry.Action = "mail.error"
		entry.Error = err.Error()
		s.logAudit(ctx, entry)

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("Error: " + err.Error()))
		return
	}

	entry.Action = "mail.sent"
	s.logAudit(ctx, entry)

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Sent"))
}

// handleShippingQuote forwards a price lookup to the carrier using the fixed
// package parameters and the caller-supplied destination.
func (s *Server) handleShippingQuote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.Ctx(ctx)

	cep := r.URL.Query().Get("cep")

	entry := core.AuditEntry{
		ID:    middleware.CorrelationCtx(ctx),
		Time:  time.Now(),
		Route: RouteNameShipping,
		Metadata: map[string]any{
			"cep": cep,
		},
	}

	qctx := ctx
	if s.timeouts.Shipping > 0 {
		var cancel context.CancelFunc
		qctx, cancel = context.WithTimeout(ctx, s.timeouts.Shipping)
		defer cancel()
	}

	quote, err := s.quoter.Quote(qctx, core.QuoteRequest{
		ServiceCode:           s.shipping.ServiceCode,
		OriginPostalCode:      s.shipping.OriginPostalCode,
		DestinationPostalCode: cep,
		WeightKg:              s.shipping.WeightKg,
		Format:                s.shipping.Format,
		LengthCm:              s.shipping.LengthCm,
		HeightCm:              s.shipping.HeightCm,
		WidthCm:               s.shipping.WidthCm,
		DiameterCm:            s.shipping.DiameterCm,
	})
	if err != nil {
		logger.Error().Err(err).Str("cep", cep).Msg("shipping quote failed")

		entry.Action = "quote.error"
		entry.Error = err.Error()
		s.logAudit(ctx, entry)

		presenter.Err(w, r, service.BadGateway(err), "shipping quote failed")
		return
	}

	entry.Action = "quote.ok"
	s.logAudit(ctx, entry)

	// the carrier body passes through verbatim, including fields the Quote
	// struct does not model
	if len(quote.Payload) > 0 {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(quote.Payload)
		return
	}
	presenter.JSON(w, r, quote, http.StatusOK)
}

// handleAudit returns the most recent gate and dispatch decisions.
func (s *Server) handleAudit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.Ctx(ctx)

	limit := 50
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		v, err := strconv.Atoi(limitStr)
		if err != nil {
			logger.Warn().Err(err).Str("limit", limitStr).Msg("invalid limit parameter")
			presenter.Error(w, r, "invalid limit parameter", http.StatusBadRequest)
			return
		}
		limit = v
	}

	entries, err := s.auditor.GetRecent(limit)
	if err != nil {
		logger.Error().Err(err).Msg("failed to retrieve audit entries")
		presenter.Error(w, r, "failed to retrieve audit entries", http.StatusInternalServerError)
		return
	}

	presenter.JSON(w, r, entries, http.StatusOK)
}

func (s *Server) logAudit(ctx context.Context, entry core.AuditEntry) {
	if err := s.auditor.Log(entry); err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to write audit entry")
	}
}
