package gsauth

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/hexfold/gsauth/httpx"
)

const storeSuccessBody = `<?xml version="1.0" encoding="UTF-8"?>
<plist version="1.0"><dict>
  <key>passwordToken</key><string>pw-token-1</string>
  <key>dsPersonId</key><integer>987654321</integer>
  <key>accountInfo</key><dict>
    <key>appleId</key><string>user@example.com</string>
    <key>address</key><dict>
      <key>firstName</key><string>Grace</string>
      <key>lastName</key><string>Hopper</string>
    </dict>
  </dict>
</dict></plist>`

const storeLockedBody = `<?xml version="1.0" encoding="UTF-8"?>
<plist version="1.0"><dict>
  <key>failureType</key><string>5020</string>
  <key>customerMessage</key><string>This Apple ID has been locked for security reasons.</string>
</dict></plist>`

const storeBadCredentialsBody = `<?xml version="1.0" encoding="UTF-8"?>
<plist version="1.0"><dict>
  <key>failureType</key><string>2002</string>
  <key>customerMessage</key><string>Your Apple ID or password was entered incorrectly.</string>
</dict></plist>`

func signInTestRequest() SignInRequest {
	return SignInRequest{
		Email:    "user@example.com",
		Password: "hunter2",
		DeviceID: "DEADBEEF001F",
	}
}

func TestSignInAssemblesAccount(t *testing.T) {
	st := &scriptedTransport{t: t, responses: []*httpx.Response{
		httpx.NewResponse(200, "", map[string]string{
			"x-set-apple-store-front": "143465-2,29",
			"x-apple-pod":             "31",
		}, []string{"mz_at0=tok; Path=/"}, []byte(storeSuccessBody)),
	}}
	engine := buildTestEngine(t, st)

	account, err := engine.SignIn(context.Background(), signInTestRequest())
	if err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}
	if account.ProviderAccountID != "user@example.com" {
		t.Fatalf("provider account id = %q", account.ProviderAccountID)
	}
	if account.DirectoryServicesID != "987654321" {
		t.Fatalf("directory services id = %q", account.DirectoryServicesID)
	}
	if account.StoreRegion != "143465" {
		t.Fatalf("store region = %q", account.StoreRegion)
	}
	if account.Pod != "31" {
		t.Fatalf("pod = %q", account.Pod)
	}
	if account.FirstName != "Grace" || account.LastName != "Hopper" {
		t.Fatalf("name = %q %q", account.FirstName, account.LastName)
	}
	if account.DeviceID != "DEADBEEF001F" {
		t.Fatalf("device id = %q", account.DeviceID)
	}
	if len(account.Cookies) != 1 {
		t.Fatalf("cookie count = %d, want 1", len(account.Cookies))
	}

	req := st.requests[0]
	if !strings.Contains(req.Path, "guid=DEADBEEF001F") {
		t.Fatalf("resolver did not substitute the device id: %s", req.Path)
	}
	if req.Headers["Content-Type"] != "application/x-www-form-urlencoded" {
		t.Fatalf("content type = %q", req.Headers["Content-Type"])
	}
	body := string(req.Body)
	if !strings.Contains(body, "appleId=user%40example.com") {
		t.Fatalf("form missing account name: %s", body)
	}
	if !strings.Contains(body, "attempt=4") {
		t.Fatalf("form missing first-factor attempt marker: %s", body)
	}
}

func TestSignInLockedAccount(t *testing.T) {
	st := &scriptedTransport{t: t, responses: []*httpx.Response{
		httpx.NewResponse(200, "", nil, nil, []byte(storeLockedBody)),
	}}
	engine := buildTestEngine(t, st)

	_, err := engine.SignIn(context.Background(), signInTestRequest())
	if !errors.Is(err, ErrAccountLocked) {
		t.Fatalf("err = %v, want account locked", err)
	}
	var storeErr *StoreFailure
	if !errors.As(err, &storeErr) {
		t.Fatalf("err = %v, want StoreFailure", err)
	}
	if !strings.Contains(storeErr.Message, "locked for security reasons") {
		t.Fatalf("lock message not preserved: %q", storeErr.Message)
	}
	if len(st.requests) != 1 {
		t.Fatal("a locked account must terminate after one request")
	}
}

func TestSignInVerificationRequired(t *testing.T) {
	st := &scriptedTransport{t: t, responses: []*httpx.Response{
		httpx.NewResponse(404, "", nil, nil, nil),
	}}
	engine := buildTestEngine(t, st)

	_, err := engine.SignIn(context.Background(), signInTestRequest())
	if !errors.Is(err, ErrVerificationRequired) {
		t.Fatalf("err = %v, want verification required", err)
	}
}

func TestSignInBadCredentialsMatchesSentinel(t *testing.T) {
	st := &scriptedTransport{t: t, responses: []*httpx.Response{
		httpx.NewResponse(200, "", nil, nil, []byte(storeBadCredentialsBody)),
	}}
	engine := buildTestEngine(t, st)

	_, err := engine.SignIn(context.Background(), signInTestRequest())
	if !errors.Is(err, ErrSignInFailed) {
		t.Fatalf("err = %v, want sign in failed", err)
	}
	if errors.Is(err, ErrAccountLocked) {
		t.Fatal("bad credentials must not match the lock sentinel")
	}
}

func TestSignInWithCodeUsesSecondFactorMarker(t *testing.T) {
	st := &scriptedTransport{t: t, responses: []*httpx.Response{
		httpx.NewResponse(200, "", nil, nil, []byte(storeSuccessBody)),
	}}
	engine := buildTestEngine(t, st)

	req := signInTestRequest()
	req.Code = "123456"
	if _, err := engine.SignIn(context.Background(), req); err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}

	body := string(st.requests[0].Body)
	if !strings.Contains(body, "attempt=2") {
		t.Fatalf("form missing second-factor attempt marker: %s", body)
	}
	if !strings.Contains(body, "password=hunter2123456") {
		t.Fatalf("code not appended to password field: %s", body)
	}
}

func TestSignInRequiresDeviceID(t *testing.T) {
	st := &scriptedTransport{t: t}
	engine := buildTestEngine(t, st)

	req := signInTestRequest()
	req.DeviceID = ""
	if _, err := engine.SignIn(context.Background(), req); !errors.Is(err, ErrMissingDeviceID) {
		t.Fatalf("err = %v, want missing device id", err)
	}
	if len(st.requests) != 0 {
		t.Fatal("no request may be sent without a device id")
	}
}

func TestSignInMetricsCount(t *testing.T) {
	st := &scriptedTransport{t: t, responses: []*httpx.Response{
		httpx.NewResponse(200, "", nil, nil, []byte(storeSuccessBody)),
	}}

	engine, err := New().WithTransport(st).WithMetricsEnabled(true).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer engine.Close()

	if _, err := engine.SignIn(context.Background(), signInTestRequest()); err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}

	snap := engine.MetricsSnapshot()
	if snap.Counters[MetricSignInSuccess] != 1 {
		t.Fatalf("success counter = %d, want 1", snap.Counters[MetricSignInSuccess])
	}
	if snap.Counters[MetricSignInFailure] != 0 {
		t.Fatalf("failure counter = %d, want 0", snap.Counters[MetricSignInFailure])
	}
}
