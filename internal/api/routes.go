package api

const (
	HealthCheckRoute = "/healthz"
	AboutRoute       = "/icanhazordergate"

	HelloRoute         = "/v1/hello"
	ConfirmOrderRoute  = "/v1/orders/confirm"
	ShippingQuoteRoute = "/v1/shipping/quote"

	AuditRoute = "/v1/admin/audit"

	// legacy aliases preserving the source system's external surface
	LegacyHelloRoute         = "/hello"
	LegacyConfirmOrderRoute  = "/sendMail"
	LegacyShippingQuoteRoute = "/getFrete"
)

// route names used for per-route protection and claims requirements
const (
	RouteNameHello    = "hello"
	RouteNameOrders   = "orders"
	RouteNameShipping = "shipping"
	RouteNameAudit    = "audit"
)
