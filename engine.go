package gsauth

import (
	"context"
	"io"

	"github.com/hexfold/gsauth/httpx"
	"github.com/hexfold/gsauth/internal"
)

// Engine defines a public type used by gsauth APIs.
//
// Engine instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
// A single sign-in attempt or identity-provider session must not be driven
// from two goroutines at once; the engine itself holds no per-call state.
type Engine struct {
	config    Config
	transport httpx.RoundTripper
	resolver  EndpointResolver
	random    io.Reader
	audit     *auditDispatcher
	metrics   *Metrics
}

// Close describes the close operation and its observable behavior.
//
// Close may return an error when input validation, dependency calls, or security checks fail.
// Close does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

// AuditDropped describes the auditdropped operation and its observable behavior.
//
// AuditDropped may return an error when input validation, dependency calls, or security checks fail.
// AuditDropped does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

// MetricsSnapshot describes the metricssnapshot operation and its observable behavior.
//
// MetricsSnapshot may return an error when input validation, dependency calls, or security checks fail.
// MetricsSnapshot does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return e.metrics.Snapshot()
}

// Metrics describes the metrics operation and its observable behavior.
//
// Metrics may return an error when input validation, dependency calls, or security checks fail.
// Metrics does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Metrics() *Metrics {
	if e == nil {
		return nil
	}
	return e.metrics
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

func (e *Engine) do(ctx context.Context, req *httpx.Request) (*httpx.Response, error) {
	if e == nil || e.transport == nil {
		return nil, ErrEngineNotReady
	}
	return e.transport.Do(ctx, req)
}

// GenerateDeviceID returns a fresh uppercase-hex device identifier drawn
// from the engine's randomness source.
func (e *Engine) GenerateDeviceID() (string, error) {
	if e == nil {
		return "", ErrEngineNotReady
	}
	return internal.NewDeviceID(e.random)
}
