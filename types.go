package gsauth

import (
	"context"
	"strings"

	"github.com/hexfold/gsauth/cookiejar"
)

// Session carries the identity-provider session headers returned by
// [Engine.StartSession]. Both values must accompany every subsequent
// second-factor call.
type Session struct {
	ID            string
	SequenceToken string

	// SecondFactorRequired is true when the provider answered the
	// handshake completion with a 409, meaning the password was accepted
	// but a trusted-device code is still needed.
	SecondFactorRequired bool
}

// TrustedPhone is one phone number enrolled for second-factor delivery.
type TrustedPhone struct {
	ID           int64
	DialedNumber string
	DeliveryMode string
}

// PhoneEnumeration is returned by [Engine.ListTrustedPhones]. CooldownActive
// is the union of the provider's explicit cooldown flag and its
// too-many-codes flag; when set, callers should not request another SMS.
type PhoneEnumeration struct {
	Phones             []TrustedPhone
	CooldownActive     bool
	TooManyCodesSent   bool
	CodeDeliveryLocked bool
}

// SignInRequest is the input for [Engine.SignIn].
type SignInRequest struct {
	Email    string
	Password string

	// Code is the second-factor security code, appended to the password
	// unless SecondFactorSatisfied is set.
	Code                  string
	SecondFactorSatisfied bool

	DeviceID string
	Cookies  cookiejar.Set
}

// Account is the authenticated account record assembled by [Engine.SignIn].
type Account struct {
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

// Endpoint is a resolved account-service target.
type Endpoint struct {
	Host string
	Path string
}

// EndpointResolver resolves the account-service sign-in endpoint for a
// device. The engine re-resolves on every sign-in call and never caches the
// result, because the provider moves the endpoint server-side.
type EndpointResolver interface {
	Resolve(ctx context.Context, deviceID string) (Endpoint, error)
}

// StaticEndpointResolver substitutes the device identifier into a fixed
// host/path template. The template's "guid" query parameter placeholder
// "{deviceID}" is replaced verbatim.
type StaticEndpointResolver struct {
	Host string
	Path string
}

// Resolve describes the resolve operation and its observable behavior.
func (r StaticEndpointResolver) Resolve(_ context.Context, deviceID string) (Endpoint, error) {
	if r.Host == "" {
		return Endpoint{}, ErrEngineNotReady
	}
	path := strings.ReplaceAll(r.Path, "{deviceID}", deviceID)
	return Endpoint{Host: r.Host, Path: path}, nil
}
