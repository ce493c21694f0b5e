package internaldefs

import (
	gsauth "github.com/hexfold/gsauth"
)

// CounterDef defines a public type used by gsauth APIs.
//
// CounterDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CounterDef struct {
	ID   gsauth.MetricID
	Name string
	Help string
}

// HistogramDef defines a public type used by gsauth APIs.
//
// HistogramDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type HistogramDef struct {
	ID   gsauth.MetricID
	Name string
	Help string
}

// CounterDefs is an exported constant or variable used by the authentication engine.
var CounterDefs = []CounterDef{
	{ID: gsauth.MetricSessionStartSuccess, Name: "gsauth_session_start_success_total", Help: "Successful identity-provider session handshakes."},
	{ID: gsauth.MetricSessionStartFailure, Name: "gsauth_session_start_failure_total", Help: "Failed identity-provider session handshakes."},
	{ID: gsauth.MetricSignInSuccess, Name: "gsauth_sign_in_success_total", Help: "Successful account-service sign-ins."},
	{ID: gsauth.MetricSignInFailure, Name: "gsauth_sign_in_failure_total", Help: "Failed account-service sign-ins."},
	{ID: gsauth.MetricSignInRetry, Name: "gsauth_sign_in_retry_total", Help: "Transient-failure sign-in replays."},
	{ID: gsauth.MetricSignInRedirect, Name: "gsauth_sign_in_redirect_total", Help: "Sign-in redirect hops followed."},
	{ID: gsauth.MetricVerificationRequired, Name: "gsauth_verification_required_total", Help: "Sign-ins halted for a second factor."},
	{ID: gsauth.MetricAccountLockout, Name: "gsauth_account_lockout_total", Help: "Sign-ins rejected for a locked account."},
	{ID: gsauth.MetricPhoneEnumeration, Name: "gsauth_phone_enumeration_total", Help: "Trusted-phone listings."},
	{ID: gsauth.MetricSMSSent, Name: "gsauth_sms_sent_total", Help: "SMS security codes requested."},
	{ID: gsauth.MetricSMSVerified, Name: "gsauth_sms_verified_total", Help: "SMS security codes accepted by the provider."},
	{ID: gsauth.MetricSMSRejected, Name: "gsauth_sms_rejected_total", Help: "SMS security codes rejected by the provider."},
	{ID: gsauth.MetricTrustTokenFetched, Name: "gsauth_trust_token_fetched_total", Help: "Trust tokens obtained after verification."},
	{ID: gsauth.MetricTrustTokenMissed, Name: "gsauth_trust_token_missed_total", Help: "Trust token fetches that returned nothing."},
}

// HistogramDefs is an exported constant or variable used by the authentication engine.
var HistogramDefs = []HistogramDef{
	{ID: gsauth.MetricSignInLatency, Name: "gsauth_sign_in_latency_seconds", Help: "Sign-in latency histogram."},
}

// HistogramBounds is an exported constant or variable used by the authentication engine.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// HistogramBoundSuffix is an exported constant or variable used by the authentication engine.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets describes the normalizebuckets operation and its observable behavior.
//
// NormalizeBuckets may return an error when input validation, dependency calls, or security checks fail.
// NormalizeBuckets does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets describes the cumulativebuckets operation and its observable behavior.
//
// CumulativeBuckets may return an error when input validation, dependency calls, or security checks fail.
// CumulativeBuckets does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
