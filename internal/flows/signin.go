package flows

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/hexfold/gsauth/cookiejar"
	"github.com/hexfold/gsauth/httpx"
	"github.com/hexfold/gsauth/internal/plistdoc"
)

// Provider constants for the account service's sign-in endpoint. The attempt
// marker tells the provider whether the password field carries an appended
// second-factor code.
const (
	attemptMarkerFirstFactor = "4"
	attemptMarkerWithCode    = "2"

	failureTypeAccountLocked = "5020"
	failureTypeTransient     = "-5000"

	// twoFactorSentinelMessage is the customer message the provider returns
	// with an empty failureType when a second factor is required.
	twoFactorSentinelMessage = "MZFinance.BadLogin.Configurator_message"

	storeFrontHeader = "x-set-apple-store-front"
	podHeader        = "x-apple-pod"

	maxCredentialAttempts = 2
	maxRedirectHops       = 3
)

// SignInState names the states of the bounded sign-in machine.
type SignInState int

const (
	// StateSending is an exported constant or variable used by the authentication engine.
	StateSending SignInState = iota
	// StateRedirecting is an exported constant or variable used by the authentication engine.
	StateRedirecting
	// StateRetryingTransient is an exported constant or variable used by the authentication engine.
	StateRetryingTransient
	// StateNeedsVerification is an exported constant or variable used by the authentication engine.
	StateNeedsVerification
	// StateSucceeded is an exported constant or variable used by the authentication engine.
	StateSucceeded
	// StateFailed is an exported constant or variable used by the authentication engine.
	StateFailed
)

// String describes the string operation and its observable behavior.
func (s SignInState) String() string {
	switch s {
	case StateSending:
		return "sending"
	case StateRedirecting:
		return "redirecting"
	case StateRetryingTransient:
		return "retrying-transient"
	case StateNeedsVerification:
		return "needs-verification"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Endpoint is a resolved sign-in target.
type Endpoint struct {
	Host string
	Path string
}

// SignInRequest is the flow-local sign-in input shape.
type SignInRequest struct {
	Email                 string
	Password              string
	Code                  string
	DeviceID              string
	SecondFactorSatisfied bool
	Cookies               cookiejar.Set
}

// SignInAccount is the flow-local authenticated account record.
type SignInAccount struct {
	Email               string
	Password            string
	ProviderAccountID   string
	StoreRegion         string
	FirstName           string
	LastName            string
	PasswordToken       string
	DirectoryServicesID string
	DeviceID            string
	Pod                 string
	Cookies             cookiejar.Set
}

// SignInEvents carries audit event names used by the sign-in flow.
type SignInEvents struct {
	Attempt              string
	Redirect             string
	Retry                string
	VerificationRequired string
	AccountLocked        string
	Success              string
	Failure              string
}

// SignInMetrics carries metric IDs needed by the sign-in flow.
type SignInMetrics struct {
	Success              int
	Failure              int
	Retry                int
	Redirect             int
	VerificationRequired int
	AccountLocked        int
}

// SignInErrors carries host-level sentinel errors used by the sign-in flow.
type SignInErrors struct {
	VerificationRequired error
	MissingDeviceID      error
	Unknown              error
}

// SignInDeps captures sign-in dependencies.
type SignInDeps struct {
	ResolveEndpoint func(ctx context.Context, deviceID string) (Endpoint, error)
	Post            func(ctx context.Context, endpoint Endpoint, form url.Values, cookieHeader string) (*httpx.Response, error)
	ParseBody       func(body []byte) (plistdoc.Document, error)

	WrapTransport     func(op string, err error) error
	WrapStatus        func(op string, status int, message string) error
	WrapAccountLocked func(message string) error
	WrapStoreFailure  func(failureType, message string) error

	Errors  SignInErrors
	Events  SignInEvents
	Metrics SignInMetrics

	EmitAudit func(ctx context.Context, eventType string, success bool, err error, metadata map[string]string)
	MetricInc func(id int)
}

// RunSignIn drives the account-service sign-in state machine to a terminal
// state and returns the authenticated account or the classified failure.
func RunSignIn(ctx context.Context, req SignInRequest, deps SignInDeps) (*SignInAccount, error) {
	if req.DeviceID == "" {
		return nil, deps.Errors.MissingDeviceID
	}

	cookies := req.Cookies
	if cookies == nil {
		cookies = cookiejar.New()
	}

	endpoint, err := deps.ResolveEndpoint(ctx, req.DeviceID)
	if err != nil {
		return nil, deps.WrapTransport("resolve sign-in endpoint", err)
	}

	// The -5000 retry must replay the identical request, so the form is
	// built once and never rebuilt.
	form := buildSignInForm(req)

	var (
		state       = StateSending
		attempts    = 0
		redirects   = 0
		storeRegion = ""
		account     *SignInAccount
		lastErr     error
	)

	for state == StateSending || state == StateRedirecting || state == StateRetryingTransient {
		deps.EmitAudit(ctx, deps.Events.Attempt, true, nil, map[string]string{
			"state": state.String(),
			"host":  endpoint.Host,
		})

		resp, postErr := deps.Post(ctx, endpoint, form, cookies.Header())
		if postErr != nil {
			lastErr = deps.WrapTransport("post credentials", postErr)
			state = StateFailed
			break
		}

		// Redirect hops replay the same credentials and must not consume
		// a credential attempt; the decrement in the 302 branch restores
		// the counter.
		attempts++

		cookies = cookiejar.Merge(cookies, resp.RawSetCookies, endpoint.Host)
		if region := regionCode(resp.Header(storeFrontHeader)); region != "" {
			storeRegion = region
		}

		if resp.Status == 302 {
			attempts--
			redirects++
			if redirects > maxRedirectHops {
				lastErr = deps.WrapStatus("follow redirect", resp.Status, "redirect limit exceeded")
				state = StateFailed
				continue
			}
			location := resp.Header("location")
			if location == "" {
				lastErr = deps.WrapStatus("follow redirect", resp.Status, "redirect without location")
				state = StateFailed
				continue
			}
			next, redirectErr := redirectTarget(endpoint, location)
			if redirectErr != nil {
				lastErr = deps.WrapTransport("follow redirect", redirectErr)
				state = StateFailed
				continue
			}
			deps.MetricInc(deps.Metrics.Redirect)
			deps.EmitAudit(ctx, deps.Events.Redirect, true, nil, map[string]string{
				"location": location,
			})
			endpoint = next
			state = StateRedirecting
			continue
		}

		if resp.Status == 404 && req.Code == "" {
			state = StateNeedsVerification
			continue
		}

		if len(resp.Body) == 0 {
			lastErr = deps.WrapStatus("parse response", resp.Status, "empty response body")
			state = StateFailed
			continue
		}

		doc, parseErr := deps.ParseBody(resp.Body)
		if parseErr != nil {
			lastErr = deps.WrapTransport("parse response", parseErr)
			state = StateFailed
			continue
		}

		failureType := strings.TrimSpace(doc.Str("failureType"))
		customerMessage := doc.Str("customerMessage")

		if failureType == failureTypeAccountLocked {
			// Repeating the request extends the lockout; terminate without
			// another exchange.
			lockErr := deps.WrapAccountLocked(bestFailureMessage(doc))
			deps.MetricInc(deps.Metrics.AccountLocked)
			deps.EmitAudit(ctx, deps.Events.AccountLocked, false, lockErr, nil)
			return nil, lockErr
		}

		if failureType == failureTypeTransient && attempts < maxCredentialAttempts {
			// Known first-request flake; replay the identical request once.
			deps.MetricInc(deps.Metrics.Retry)
			deps.EmitAudit(ctx, deps.Events.Retry, true, nil, map[string]string{
				"failure_type": failureType,
			})
			redirects = 0
			state = StateRetryingTransient
			continue
		}

		if failureType == "" && req.Code == "" && customerMessage == twoFactorSentinelMessage {
			state = StateNeedsVerification
			continue
		}

		info := doc.Dict("accountInfo")
		if info == nil {
			lastErr = deps.WrapStoreFailure(failureType, bestFailureMessage(doc))
			state = StateFailed
			continue
		}
		address := info.Dict("address")
		if address == nil {
			lastErr = deps.WrapStoreFailure(failureType, "account info has no address")
			state = StateFailed
			continue
		}

		dsid, _ := doc.Int64("dsPersonId")
		account = &SignInAccount{
			Email:               req.Email,
			Password:            req.Password,
			ProviderAccountID:   info.Str("appleId"),
			StoreRegion:         storeRegion,
			FirstName:           address.Str("firstName"),
			LastName:            address.Str("lastName"),
			PasswordToken:       doc.Str("passwordToken"),
			DirectoryServicesID: strconv.FormatInt(dsid, 10),
			DeviceID:            req.DeviceID,
			Pod:                 resp.Header(podHeader),
			Cookies:             cookies,
		}
		state = StateSucceeded
	}

	switch state {
	case StateSucceeded:
		deps.MetricInc(deps.Metrics.Success)
		deps.EmitAudit(ctx, deps.Events.Success, true, nil, map[string]string{
			"provider_account_id": account.ProviderAccountID,
		})
		return account, nil
	case StateNeedsVerification:
		deps.MetricInc(deps.Metrics.VerificationRequired)
		deps.EmitAudit(ctx, deps.Events.VerificationRequired, false, deps.Errors.VerificationRequired, nil)
		return nil, deps.Errors.VerificationRequired
	default:
		if lastErr == nil {
			lastErr = deps.Errors.Unknown
		}
		deps.MetricInc(deps.Metrics.Failure)
		deps.EmitAudit(ctx, deps.Events.Failure, false, lastErr, nil)
		return nil, lastErr
	}
}

func buildSignInForm(req SignInRequest) url.Values {
	password := req.Password
	marker := attemptMarkerFirstFactor
	if req.Code != "" && !req.SecondFactorSatisfied {
		password += req.Code
		marker = attemptMarkerWithCode
	}

	form := url.Values{}
	form.Set("appleId", req.Email)
	form.Set("password", password)
	form.Set("attempt", marker)
	form.Set("createSession", "true")
	form.Set("guid", req.DeviceID)
	form.Set("rmp", "0")
	form.Set("why", "signIn")
	return form
}

// regionCode extracts the storefront region: the header value before the
// first hyphen. Absent or malformed values are ignored.
func regionCode(storeFront string) string {
	if storeFront == "" {
		return ""
	}
	if i := strings.IndexByte(storeFront, '-'); i >= 0 {
		return storeFront[:i]
	}
	return storeFront
}

func redirectTarget(current Endpoint, location string) (Endpoint, error) {
	u, err := url.Parse(location)
	if err != nil {
		return Endpoint{}, fmt.Errorf("malformed redirect location %q: %w", location, err)
	}
	if u.Host != "" {
		return Endpoint{Host: u.Host, Path: u.RequestURI()}, nil
	}
	return Endpoint{Host: current.Host, Path: u.RequestURI()}, nil
}

func bestFailureMessage(doc plistdoc.Document) string {
	if dialog := doc.Dict("dialog"); dialog != nil {
		if msg := dialog.Str("explanation"); msg != "" {
			return msg
		}
	}
	if msg := doc.Str("customerMessage"); msg != "" {
		return msg
	}
	return "an unknown sign-in error occurred"
}
