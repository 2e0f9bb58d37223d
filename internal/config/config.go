package config

import (
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-yaml"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Auth     AuthConfig     `yaml:"auth"`
	Mail     MailConfig     `yaml:"mail"`
	Shipping ShippingConfig `yaml:"shipping"`
	Audit    AuditConfig    `yaml:"audit"`
	Timeouts TimeoutConfig  `yaml:"timeouts"`
}

type ServerConfig struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string `yaml:"addr"`
}

// VerifierConfig holds configuration for the credential verifier.
type VerifierConfig struct {
	Name   string         `yaml:"name"`
	Type   string         `yaml:"type"`    // e.g., "oidc", "hmac", "stub"
	Config map[string]any `yaml:",inline"` // Capture remaining fields
}

// ProtectConfig toggles the auth gate per action route.
// The echo and admin routes are always protected and not configurable here.
// Whether the order/shipping endpoints should be public is an open question
// of the source system, so it stays a deployment decision.
type ProtectConfig struct {
	Orders   bool `yaml:"orders"`
	Shipping bool `yaml:"shipping"`
}

// AuthConfig holds configuration for the auth gate.
type AuthConfig struct {
	Verifier VerifierConfig `yaml:"verifier"`
	Protect  ProtectConfig  `yaml:"protect"`

	// Require maps a route name (e.g. "hello") to an expression evaluated
	// over the verified claims, e.g. `claims.email_verified == true`.
	// A route with a requirement is implicitly protected.
	Require map[string]string `yaml:"require"`
}

func (c *AuthConfig) Validate() error {
	if c.Verifier.Name == "" {
		return fmt.Errorf("verifier has empty name")
	}
	if c.Verifier.Type == "" {
		return fmt.Errorf("verifier %q has empty type", c.Verifier.Name)
	}
	return nil
}

// MailConfig holds the outbound mail transport settings. Username and
// password are usually injected via ORDERGATE_MAIL_USERNAME and
// ORDERGATE_MAIL_PASSWORD instead of being written to the file.
type MailConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`

	// From is the fixed sender display identity,
	// e.g. "Porta Jalecos Personalizados <shop@example.com>".
	From string `yaml:"from"`

	// Operator is the fixed operator address that receives a copy of every
	// order confirmation.
	Operator string `yaml:"operator"`
}

func (c *MailConfig) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("host is required")
	}
	if c.Port == 0 {
		c.Port = 587
	}
	if c.From == "" {
		return fmt.Errorf("from is required")
	}
	if c.Operator == "" {
		return fmt.Errorf("operator is required")
	}
	return nil
}

// Default carrier parameters. These match the source system: PAC service
// from the shop's origin CEP with a 1kg 40cm box.
const (
	DefaultServiceCode      = "04510"
	DefaultOriginPostalCode = "88050536"
	DefaultWeightKg         = "1"
	DefaultFormat           = 3
	DefaultDimensionCm      = 40
)

// ShippingConfig holds the carrier adapter settings. The package parameters
// are constants of the system; the config only allows overriding them for
// staging environments.
type ShippingConfig struct {
	// BaseURL of the carrier price API.
	BaseURL string `yaml:"base_url"`

	ServiceCode      string `yaml:"service_code"`
	OriginPostalCode string `yaml:"origin_postal_code"`
	WeightKg         string `yaml:"weight_kg"`
	Format           int    `yaml:"format"`
	LengthCm         int    `yaml:"length_cm"`
	HeightCm         int    `yaml:"height_cm"`
	WidthCm          int    `yaml:"width_cm"`
	DiameterCm       int    `yaml:"diameter_cm"`
}

func (c *ShippingConfig) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base_url is required")
	}
	if c.ServiceCode == "" {
		c.ServiceCode = DefaultServiceCode
	}
	if c.OriginPostalCode == "" {
		c.OriginPostalCode = DefaultOriginPostalCode
	}
	if c.WeightKg == "" {
		c.WeightKg = DefaultWeightKg
	}
	if c.Format == 0 {
		c.Format = DefaultFormat
	}
	if c.LengthCm == 0 {
		c.LengthCm = DefaultDimensionCm
	}
	if c.HeightCm == 0 {
		c.HeightCm = DefaultDimensionCm
	}
	if c.WidthCm == 0 {
		c.WidthCm = DefaultDimensionCm
	}
	if c.DiameterCm == 0 {
		c.DiameterCm = DefaultDimensionCm
	}
	return nil
}

// AuditConfig holds configuration for the decision log.
type AuditConfig struct {
	Enabled bool   `yaml:"enabled"`
	Type    string `yaml:"type"` // e.g., "memory", "noop"
	Size    int    `yaml:"size"`
}

func (c *AuditConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	switch c.Type {
	case "", "memory":
		c.Type = "memory"
	case "noop":
	default:
		return fmt.Errorf("unknown audit type %q", c.Type)
	}
	if c.Size == 0 {
		c.Size = 1000
	}
	return nil
}

// TimeoutConfig bounds every external call. A timeout is handled exactly
// like a verifier/adapter failure so no request can hang.
type TimeoutConfig struct {
	Verify   time.Duration `yaml:"verify"`
	Mail     time.Duration `yaml:"mail"`
	Shipping time.Duration `yaml:"shipping"`
}

func (c *TimeoutConfig) Validate() error {
	if c.Verify <= 0 {
		c.Verify = 5 * time.Second
	}
	if c.Mail <= 0 {
		c.Mail = 15 * time.Second
	}
	if c.Shipping <= 0 {
		c.Shipping = 10 * time.Second
	}
	return nil
}

// Load reads and parses the configuration file at the given path.
// It returns a Config struct or an error if loading/parsing/validation fails.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config file: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if err := c.Auth.Validate(); err != nil {
		return fmt.Errorf("validating auth: %w", err)
	}
	if err := c.Mail.Validate(); err != nil {
		return fmt.Errorf("validating mail: %w", err)
	}
	if err := c.Shipping.Validate(); err != nil {
		return fmt.Errorf("validating shipping: %w", err)
	}
	if err := c.Audit.Validate(); err != nil {
		return fmt.Errorf("validating audit: %w", err)
	}
	if err := c.Timeouts.Validate(); err != nil {
		return fmt.Errorf("validating timeouts: %w", err)
	}
	return nil
}
