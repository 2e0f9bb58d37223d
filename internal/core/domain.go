package core

import (
	"encoding/json"
	"net/url"
	"time"
)

// Identity represents the verified identity of the caller.
// It is produced by a Verifier after validating a credential and must never
// be constructed anywhere else.
type Identity struct {
	// Subject is the unique subject identifier (e.g., email, sub claim).
	Subject string `json:"subject"`
	// Verifier is the name of the verifier that produced this identity.
	Verifier string `json:"verifier"`
	// ExpiresAt is the expiry of the underlying credential.
	ExpiresAt time.Time `json:"expires_at"`
	// Claims are the decoded claims of the credential, unmodified.
	Claims map[string]any `json:"claims"`
}

// OrderDetails holds the order fields collected from request parameters.
// Every field is optional; absent fields render as empty strings in the
// confirmation mail.
type OrderDetails struct {
	Dest          string
	Name          string
	Phone         string
	Email         string
	ZipCode       string
	Model         string
	Course        string
	CourseOnPJ    string
	University    string
	Product       string
	Doll          string
	City          string
	State         string
	Number        string
	Neighbourhood string
	Street        string
	Color         string
	Instagram     string
	Background    string
	DollHair      string
}

// OrderDetailsFromValues collects order fields from query parameters.
// Missing parameters stay empty, nothing is validated.
func OrderDetailsFromValues(v url.Values) OrderDetails {
	return OrderDetails{
		Dest:          v.Get("dest"),
		Name:          v.Get("name"),
		Phone:         v.Get("phone"),
		Email:         v.Get("email"),
		ZipCode:       v.Get("zipCode"),
		Model:         v.Get("model"),
		Course:        v.Get("course"),
		CourseOnPJ:    v.Get("courseOnPJ"),
		University:    v.Get("university"),
		Product:       v.Get("product"),
		Doll:          v.Get("doll"),
		City:          v.Get("city"),
		State:         v.Get("state"),
		Number:        v.Get("number"),
		Neighbourhood: v.Get("neighbourhood"),
		Street:        v.Get("street"),
		Color:         v.Get("color"),
		Instagram:     v.Get("instagram"),
		Background:    v.Get("background"),
		DollHair:      v.Get("dollHair"),
	}
}

// Values is the inverse of OrderDetailsFromValues. Empty fields are
// included so the resulting query mirrors the struct exactly.
func (d OrderDetails) Values() url.Values {
	return url.Values{
		"dest":          {d.Dest},
		"name":          {d.Name},
		"phone":         {d.Phone},
		"email":         {d.Email},
		"zipCode":       {d.ZipCode},
		"model":         {d.Model},
		"course":        {d.Course},
		"courseOnPJ":    {d.CourseOnPJ},
		"university":    {d.University},
		"product":       {d.Product},
		"doll":          {d.Doll},
		"city":          {d.City},
		"state":         {d.State},
		"number":        {d.Number},
		"neighbourhood": {d.Neighbourhood},
		"street":        {d.Street},
		"color":         {d.Color},
		"instagram":     {d.Instagram},
		"background":    {d.Background},
		"dollHair":      {d.DollHair},
	}
}

// MailMessage is a fully rendered outbound mail.
type MailMessage struct {
	// From is the sender display identity, e.g. "Jane Doe <jane@example.com>".
	From string
	// To lists all recipient addresses.
	To []string
	// Subject of the mail.
	Subject string
	// HTML is the rendered HTML body.
	HTML string
}

// QuoteRequest describes a single shipping price lookup.
// Everything except the destination is a fixed parameter of the system.
type QuoteRequest struct {
	// ServiceCode is the carrier service code (e.g. "04510" for PAC).
	ServiceCode string
	// OriginPostalCode is the fixed origin CEP.
	OriginPostalCode string
	// DestinationPostalCode is the caller-supplied destination CEP.
	DestinationPostalCode string
	// WeightKg is the package weight in kilograms.
	WeightKg string
	// Format is the carrier package format code (3 = box).
	Format int
	// Package dimensions in centimeters.
	LengthCm   int
	HeightCm   int
	WidthCm    int
	DiameterCm int
}

// Quote is the carrier's answer to a QuoteRequest.
// Field names follow the carrier's wire format so the serialized response
// matches what the carrier returned.
type Quote struct {
	ServiceCode  string `json:"Codigo"`
	Price        string `json:"Valor"`
	DeadlineDays string `json:"PrazoEntrega"`
	HomeDelivery string `json:"EntregaDomiciliar,omitempty"`
	// ErrorCode and ErrorMessage are carrier-level errors embedded in an
	// otherwise successful response. They are passed through verbatim.
	ErrorCode    string `json:"Erro,omitempty"`
	ErrorMessage string `json:"MsgErro,omitempty"`

	// Payload is the carrier's raw response body. Served to callers as-is so
	// fields not modeled above still reach them.
	Payload json.RawMessage `json:"-"`
}
