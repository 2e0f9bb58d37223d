package api

import (
	"fmt"
	"net/http"

	"github.com/expr-lang/expr/vm"

	"github.com/darmiel/ordergate/internal/api/middleware"
	"github.com/darmiel/ordergate/internal/audit"
	"github.com/darmiel/ordergate/internal/config"
	"github.com/darmiel/ordergate/internal/core"
	"github.com/darmiel/ordergate/internal/service"
)

type Server struct {
	verifier core.Verifier
	orders   *service.OrderService
	quoter   core.RateQuoter
	auditor  core.Auditor

	shipping config.ShippingConfig
	timeouts config.TimeoutConfig
	protect  config.ProtectConfig
	requires map[string]*vm.Program
}

func NewServer(
	cfg *config.Config,
	verifier core.Verifier,
	orders *service.OrderService,
	quoter core.RateQuoter,
	auditor core.Auditor,
) (*Server, error) {
	if auditor == nil {
		auditor = audit.NewNoopAuditor()
	}

	requires := make(map[string]*vm.Program)
	for routeName, src := range cfg.Auth.Require {
		switch routeName {
		case RouteNameHello, RouteNameOrders, RouteNameShipping, RouteNameAudit:
		default:
			return nil, fmt.Errorf("claims requirement for unknown route %q", routeName)
		}
		program, err := middleware.CompileRequirement(src)
		if err != nil {
			return nil, fmt.Errorf("route %q: %w", routeName, err)
		}
		requires[routeName] = program
	}

	return &Server{
		verifier: verifier,
		orders:   orders,
		quoter:   quoter,
		auditor:  auditor,
		shipping: cfg.Shipping,
		timeouts: cfg.Timeouts,
		protect:  cfg.Auth.Protect,
		requires: requires,
	}, nil
}

// route binds a handler to its pattern with an explicit protection
// capability, so whether a route is gated is a property of its registration
// rather than an accident of mount order.
type route struct {
	name      string
	pattern   string
	protected bool
	handler   http.HandlerFunc
}

func (s *Server) routeTable() []route {
	// a claims requirement implies protection
	ordersProtected := s.protect.Orders || s.requires[RouteNameOrders] != nil
	shippingProtected := s.protect.Shipping || s.requires[RouteNameShipping] != nil

	return []route{
		{name: "health", pattern: HealthCheckRoute, handler: s.handleHealth},
		{name: "about", pattern: AboutRoute, handler: s.handleAbout},

		{name: RouteNameHello, pattern: HelloRoute, protected: true, handler: s.handleHello},
		{name: RouteNameHello, pattern: LegacyHelloRoute, protected: true, handler: s.handleHello},

		{name: RouteNameOrders, pattern: ConfirmOrderRoute, protected: ordersProtected, handler: s.handleConfirmOrder},
		{name: RouteNameOrders, pattern: LegacyConfirmOrderRoute, protected: ordersProtected, handler: s.handleConfirmOrder},

		{name: RouteNameShipping, pattern: ShippingQuoteRoute, protected: shippingProtected, handler: s.handleShippingQuote},
		{name: RouteNameShipping, pattern: LegacyShippingQuoteRoute, protected: shippingProtected, handler: s.handleShippingQuote},

		{name: RouteNameAudit, pattern: AuditRoute, protected: true, handler: s.handleAudit},
	}
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	for _, rt := range s.routeTable() {
		handler := http.Handler(rt.handler)
		if rt.protected {
			handler = middleware.Auth(s.verifier, s.auditor, middleware.GateOptions{
				RouteName: rt.name,
				Timeout:   s.timeouts.Verify,
				Require:   s.requires[rt.name],
			})(handler)
		}
		mux.Handle("GET "+rt.pattern, handler)
	}

	return middleware.RecoverMiddleware(
		middleware.CorrelationIDMiddleware(
			middleware.LoggingMiddleware(
				middleware.CORSMiddleware(
					mux))))
}
