package gsauth

import (
	"errors"
	"io"

	"github.com/hexfold/gsauth/httpx"
)

// Builder defines a public type used by gsauth APIs.
//
// Builder instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Builder struct {
	config Config

	transport httpx.RoundTripper
	resolver  EndpointResolver
	random    io.Reader
	auditSink AuditSink

	built bool
}

// New describes the new operation and its observable behavior.
//
// New may return an error when input validation, dependency calls, or security checks fail.
// New does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig describes the withconfig operation and its observable behavior.
//
// WithConfig may return an error when input validation, dependency calls, or security checks fail.
// WithConfig does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithTransport describes the withtransport operation and its observable behavior.
//
// WithTransport may return an error when input validation, dependency calls, or security checks fail.
// WithTransport does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithTransport(rt httpx.RoundTripper) *Builder {
	b.transport = rt
	return b
}

// WithEndpointResolver describes the withendpointresolver operation and its observable behavior.
//
// WithEndpointResolver may return an error when input validation, dependency calls, or security checks fail.
// WithEndpointResolver does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithEndpointResolver(r EndpointResolver) *Builder {
	b.resolver = r
	return b
}

// WithRandom sets the randomness source used for state nonces and device
// identifiers. A nil reader falls back to crypto/rand at use sites.
func (b *Builder) WithRandom(r io.Reader) *Builder {
	b.random = r
	return b
}

// WithAuditSink describes the withauditsink operation and its observable behavior.
//
// WithAuditSink may return an error when input validation, dependency calls, or security checks fail.
// WithAuditSink does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithMetricsEnabled describes the withmetricsenabled operation and its observable behavior.
//
// WithMetricsEnabled may return an error when input validation, dependency calls, or security checks fail.
// WithMetricsEnabled does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms describes the withlatencyhistograms operation and its observable behavior.
//
// WithLatencyHistograms may return an error when input validation, dependency calls, or security checks fail.
// WithLatencyHistograms does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build describes the build operation and its observable behavior.
//
// Build may return an error when input validation, dependency calls, or security checks fail.
// Build does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	transport := b.transport
	if transport == nil {
		transport = httpx.NewClient(cfg.Client.UserAgent)
	}

	resolver := b.resolver
	if resolver == nil {
		resolver = StaticEndpointResolver{
			Host: cfg.Store.SetupHost,
			Path: cfg.Store.SetupPath + "?guid={deviceID}",
		}
	}

	engine := &Engine{
		config:    cfg,
		transport: transport,
		resolver:  resolver,
		random:    b.random,
		audit:     newAuditDispatcher(cfg.Audit, b.auditSink),
		metrics:   NewMetrics(cfg.Metrics),
	}

	b.built = true

	return engine, nil
}
