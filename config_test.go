package gsauth

import "testing"

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantValid bool
	}{
		{
			name:      "defaults valid",
			mutate:    func(*Config) {},
			wantValid: true,
		},
		{
			name: "provider host empty",
			mutate: func(c *Config) {
				c.Provider.Host = ""
			},
			wantValid: false,
		},
		{
			name: "provider host with path",
			mutate: func(c *Config) {
				c.Provider.Host = "idmsa.apple.com/appleauth"
			},
			wantValid: false,
		},
		{
			name: "service key empty",
			mutate: func(c *Config) {
				c.Provider.ServiceKey = ""
			},
			wantValid: false,
		},
		{
			name: "relative provider path",
			mutate: func(c *Config) {
				c.Provider.TrustPath = "2sv/trust"
			},
			wantValid: false,
		},
		{
			name: "empty provider path",
			mutate: func(c *Config) {
				c.Provider.InitPath = ""
			},
			wantValid: false,
		},
		{
			name: "store host empty",
			mutate: func(c *Config) {
				c.Store.SetupHost = ""
			},
			wantValid: false,
		},
		{
			name: "store path relative",
			mutate: func(c *Config) {
				c.Store.SetupPath = "WebObjects/MZFinance.woa/wa/authenticate"
			},
			wantValid: false,
		},
		{
			name: "user agent empty",
			mutate: func(c *Config) {
				c.Client.UserAgent = ""
			},
			wantValid: false,
		},
		{
			name: "audit enabled zero buffer",
			mutate: func(c *Config) {
				c.Audit.Enabled = true
				c.Audit.BufferSize = 0
			},
			wantValid: false,
		},
		{
			name: "audit disabled zero buffer",
			mutate: func(c *Config) {
				c.Audit.Enabled = false
				c.Audit.BufferSize = 0
			},
			wantValid: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := defaultConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantValid && err != nil {
				t.Fatalf("expected valid config, got %v", err)
			}
			if !tc.wantValid && err == nil {
				t.Fatal("expected invalid config, got nil")
			}
		})
	}
}

func TestBuilderSingleUse(t *testing.T) {
	b := New()
	engine, err := b.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer engine.Close()

	if _, err := b.Build(); err == nil {
		t.Fatal("expected second Build on the same builder to fail")
	}
}

func TestBuilderRejectsInvalidConfig(t *testing.T) {
	cfg := defaultConfig()
	cfg.Provider.Host = ""

	if _, err := New().WithConfig(cfg).Build(); err == nil {
		t.Fatal("expected Build to reject an invalid config")
	}
}
