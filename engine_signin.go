package gsauth

import (
	"context"
	"net/url"
	"time"

	"github.com/hexfold/gsauth/httpx"
	"github.com/hexfold/gsauth/internal/flows"
	"github.com/hexfold/gsauth/internal/plistdoc"
)

// failureTypeAccountLocked is the account service's non-retryable lockout
// code; StoreFailure.Is matches it to ErrAccountLocked.
const failureTypeAccountLocked = "5020"

// SignIn drives the account-service sign-in state machine: at most two
// credential attempts, at most three redirect hops per attempt, cookie
// accumulation across every exchange. Second factors verified via
// [Engine.VerifySMSCode] flow through either Code or
// SecondFactorSatisfied on the request.
func (e *Engine) SignIn(ctx context.Context, req SignInRequest) (*Account, error) {
	if e == nil || e.transport == nil {
		return nil, ErrEngineNotReady
	}
	if e.metrics != nil && e.metrics.LatencyEnabled() {
		start := time.Now()
		defer e.metrics.Observe(MetricSignInLatency, time.Since(start))
	}

	ctx = WithAccountID(ctx, req.Email)

	deps := flows.SignInDeps{
		ResolveEndpoint: func(ctx context.Context, deviceID string) (flows.Endpoint, error) {
			ep, err := e.resolver.Resolve(ctx, deviceID)
			if err != nil {
				return flows.Endpoint{}, err
			}
			return flows.Endpoint{Host: ep.Host, Path: ep.Path}, nil
		},
		Post: func(ctx context.Context, endpoint flows.Endpoint, form url.Values, cookieHeader string) (*httpx.Response, error) {
			return e.do(ctx, &httpx.Request{
				Host:   endpoint.Host,
				Path:   endpoint.Path,
				Method: "POST",
				Headers: map[string]string{
					"Content-Type": "application/x-www-form-urlencoded",
					"Accept":       "*/*",
				},
				Body:   []byte(form.Encode()),
				Cookie: cookieHeader,
			})
		},
		ParseBody: plistdoc.Parse,

		WrapTransport: func(op string, err error) error {
			return &TransportError{Op: op, Err: err}
		},
		WrapStatus: func(op string, status int, message string) error {
			return &StatusError{Op: op, Status: status, Message: message}
		},
		WrapAccountLocked: func(message string) error {
			return &StoreFailure{FailureType: failureTypeAccountLocked, Message: message}
		},
		WrapStoreFailure: func(failureType, message string) error {
			return &StoreFailure{FailureType: failureType, Message: message}
		},

		Errors: flows.SignInErrors{
			VerificationRequired: ErrVerificationRequired,
			MissingDeviceID:      ErrMissingDeviceID,
			Unknown:              ErrSignInFailed,
		},
		Events: flows.SignInEvents{
			Attempt:              auditEventSignInAttempt,
			Redirect:             auditEventSignInRedirect,
			Retry:                auditEventSignInRetry,
			VerificationRequired: auditEventVerificationRequired,
			AccountLocked:        auditEventAccountLocked,
			Success:              auditEventSignInSuccess,
			Failure:              auditEventSignInFailure,
		},
		Metrics: flows.SignInMetrics{
			Success:              int(MetricSignInSuccess),
			Failure:              int(MetricSignInFailure),
			Retry:                int(MetricSignInRetry),
			Redirect:             int(MetricSignInRedirect),
			VerificationRequired: int(MetricVerificationRequired),
			AccountLocked:        int(MetricAccountLockout),
		},

		EmitAudit: func(ctx context.Context, eventType string, success bool, err error, metadata map[string]string) {
			if metadata == nil {
				e.emitAudit(ctx, eventType, success, "", err, nil)
				return
			}
			e.emitAudit(ctx, eventType, success, "", err, func() map[string]string {
				return metadata
			})
		},
		MetricInc: func(id int) {
			e.metricInc(MetricID(id))
		},
	}

	account, err := flows.RunSignIn(ctx, flows.SignInRequest{
		Email:                 req.Email,
		Password:              req.Password,
		Code:                  req.Code,
		DeviceID:              req.DeviceID,
		SecondFactorSatisfied: req.SecondFactorSatisfied,
		Cookies:               req.Cookies,
	}, deps)
	if err != nil {
		return nil, err
	}

	return &Account{
		Email:               account.Email,
		Password:            account.Password,
		ProviderAccountID:   account.ProviderAccountID,
		StoreRegion:         account.StoreRegion,
		FirstName:           account.FirstName,
		LastName:            account.LastName,
		PasswordToken:       account.PasswordToken,
		DirectoryServicesID: account.DirectoryServicesID,
		DeviceID:            account.DeviceID,
		Pod:                 account.Pod,
		Cookies:             account.Cookies,
	}, nil
}
