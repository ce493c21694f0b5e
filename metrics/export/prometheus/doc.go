// Package prometheus provides Prometheus collectors for gsauth metrics.
//
// [NewPrometheusExporter] accepts a [gsauth.Engine] and exposes an [http.Handler]
// that renders all gsauth counters and histograms in Prometheus text exposition format.
// Counter names are prefixed gsauth_*_total; the single histogram is
// gsauth_sign_in_latency_seconds.
//
// # What this package must NOT do
//
//   - Register metrics in a global Prometheus registry — callers mount the Handler.
//   - Mutate engine state.
package prometheus
