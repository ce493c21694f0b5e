package gsauth

import (
	"errors"
	"strings"
)

// Config defines a public type used by gsauth APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	Provider ProviderConfig
	Store    StoreConfig
	Client   ClientConfig
	Audit    AuditConfig
	Metrics  MetricsConfig
}

/*
====================================
IDENTITY PROVIDER CONFIG
====================================
*/

// ProviderConfig defines a public type used by gsauth APIs.
//
// ProviderConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type ProviderConfig struct {
	Host             string
	ServiceKey       string
	OAuthClientID    string
	OAuthRedirectURI string

	InitPath         string
	CompletePath     string
	AuthInfoPath     string
	PhoneVerifyPath  string
	SecurityCodePath string
	TrustPath        string
}

/*
====================================
ACCOUNT SERVICE CONFIG
====================================
*/

// StoreConfig defines a public type used by gsauth APIs.
//
// StoreConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type StoreConfig struct {
	SetupHost string
	SetupPath string
}

// ClientConfig defines a public type used by gsauth APIs.
//
// ClientConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type ClientConfig struct {
	UserAgent string
}

// AuditConfig defines a public type used by gsauth APIs.
//
// AuditConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig defines a public type used by gsauth APIs.
//
// MetricsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

/*
====================================
DEFAULT CONFIG
====================================
*/

// DefaultConfig returns the configuration the engine starts from when the
// builder receives no explicit config.
func DefaultConfig() Config {
	return defaultConfig()
}

func defaultConfig() Config {
	return Config{
		Provider: ProviderConfig{
			Host:             "idmsa.apple.com",
			ServiceKey:       "af1139274f266b22b68c2a3e7ad932cb3c0bbe854e13a79af78dcc73136882c3",
			OAuthClientID:    "af1139274f266b22b68c2a3e7ad932cb3c0bbe854e13a79af78dcc73136882c3",
			OAuthRedirectURI: "https://account.apple.com",
			InitPath:         "/appleauth/auth/signin/init",
			CompletePath:     "/appleauth/auth/signin/complete",
			AuthInfoPath:     "/appleauth/auth",
			PhoneVerifyPath:  "/appleauth/auth/verify/phone",
			SecurityCodePath: "/appleauth/auth/verify/phone/securitycode",
			TrustPath:        "/appleauth/auth/2sv/trust",
		},
		Store: StoreConfig{
			SetupHost: "buy.itunes.apple.com",
			SetupPath: "/WebObjects/MZFinance.woa/wa/authenticate",
		},
		Client: ClientConfig{
			UserAgent: "Configurator/2.15 (Macintosh; OS X 11.0.0; 16G29) AppleWebKit/2603.3.8",
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 1024,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled:                 false,
			EnableLatencyHistograms: false,
		},
	}
}

func cloneConfig(cfg Config) Config {
	return cfg
}

/*
====================================
VALIDATION
====================================
*/

// Validate describes the validate operation and its observable behavior.
//
// Validate may return an error when input validation, dependency calls, or security checks fail.
// Validate does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Config) Validate() error {
	// Provider
	if c.Provider.Host == "" {
		return errors.New("Provider Host is required")
	}
	if strings.Contains(c.Provider.Host, "/") {
		return errors.New("Provider Host must not contain a path")
	}
	if c.Provider.ServiceKey == "" {
		return errors.New("Provider ServiceKey is required")
	}
	for _, p := range []string{
		c.Provider.InitPath,
		c.Provider.CompletePath,
		c.Provider.AuthInfoPath,
		c.Provider.PhoneVerifyPath,
		c.Provider.SecurityCodePath,
		c.Provider.TrustPath,
	} {
		if p == "" || !strings.HasPrefix(p, "/") {
			return errors.New("Provider paths must be non-empty and absolute")
		}
	}

	// Store
	if c.Store.SetupHost == "" {
		return errors.New("Store SetupHost is required")
	}
	if c.Store.SetupPath == "" || !strings.HasPrefix(c.Store.SetupPath, "/") {
		return errors.New("Store SetupPath must be non-empty and absolute")
	}

	// Client
	if c.Client.UserAgent == "" {
		return errors.New("Client UserAgent is required")
	}

	// Audit
	if c.Audit.Enabled {
		if c.Audit.BufferSize <= 0 {
			return errors.New("Audit BufferSize must be > 0 when audit is enabled")
		}
	}

	return nil
}
