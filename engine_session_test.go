package gsauth

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	"github.com/hexfold/gsauth/httpx"
)

type scriptedTransport struct {
	t         *testing.T
	responses []*httpx.Response
	errs      []error
	requests  []*httpx.Request
}

func (s *scriptedTransport) Do(_ context.Context, req *httpx.Request) (*httpx.Response, error) {
	i := len(s.requests)
	s.requests = append(s.requests, req)
	if i < len(s.errs) && s.errs[i] != nil {
		return nil, s.errs[i]
	}
	if i >= len(s.responses) {
		s.t.Fatalf("unexpected request %d: %s %s%s", i+1, req.Method, req.Host, req.Path)
	}
	return s.responses[i], nil
}

func buildTestEngine(t *testing.T, transport httpx.RoundTripper) *Engine {
	t.Helper()

	engine, err := New().WithTransport(transport).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)
	return engine
}

func sessionInitBody(t *testing.T) []byte {
	t.Helper()

	serverB := make([]byte, 256)
	for i := range serverB {
		serverB[i] = byte(i + 1)
	}
	return []byte(`{
		"iteration": 20309,
		"salt": "` + base64.StdEncoding.EncodeToString([]byte("0123456789abcdef")) + `",
		"protocol": "s2k",
		"b": "` + base64.StdEncoding.EncodeToString(serverB) + `",
		"c": "handshake-ctx-1"
	}`)
}

func TestStartSessionSecondFactorRequired(t *testing.T) {
	st := &scriptedTransport{t: t, responses: []*httpx.Response{
		httpx.NewResponse(200, "", nil, nil, sessionInitBody(t)),
		httpx.NewResponse(409, "", map[string]string{
			"X-Apple-ID-Session-Id": "sess-1",
			"scnt":                  "seq-token-1",
		}, nil, nil),
	}}
	engine := buildTestEngine(t, st)

	session, err := engine.StartSession(context.Background(), "user@example.com", "hunter2")
	if err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}
	if session.ID != "sess-1" || session.SequenceToken != "seq-token-1" {
		t.Fatalf("session headers = %q / %q", session.ID, session.SequenceToken)
	}
	if !session.SecondFactorRequired {
		t.Fatal("409 completion must mark the session as needing a second factor")
	}

	if len(st.requests) != 2 {
		t.Fatalf("request count = %d, want 2", len(st.requests))
	}

	init := st.requests[0]
	if init.Method != "POST" || init.Path != "/appleauth/auth/signin/init" {
		t.Fatalf("init request = %s %s", init.Method, init.Path)
	}
	if !strings.Contains(string(init.Body), `"protocols":["s2k","s2k_fo"]`) {
		t.Fatalf("init body missing protocol list: %s", init.Body)
	}
	if init.Headers["X-Apple-Widget-Key"] == "" {
		t.Fatal("init request missing widget key header")
	}
	if init.Headers["X-Apple-OAuth-State"] == "" {
		t.Fatal("init request missing state nonce")
	}

	complete := st.requests[1]
	if complete.Path != "/appleauth/auth/signin/complete" {
		t.Fatalf("complete path = %s", complete.Path)
	}
	body := string(complete.Body)
	if !strings.Contains(body, `"c":"handshake-ctx-1"`) {
		t.Fatalf("complete body missing server state: %s", body)
	}
	if !strings.Contains(body, `"m1":"`) || !strings.Contains(body, `"m2":"`) {
		t.Fatalf("complete body missing proofs: %s", body)
	}
	if !strings.Contains(body, `"rememberMe":false`) {
		t.Fatalf("complete body missing rememberMe: %s", body)
	}
}

func TestStartSessionWithoutSecondFactor(t *testing.T) {
	st := &scriptedTransport{t: t, responses: []*httpx.Response{
		httpx.NewResponse(200, "", nil, nil, sessionInitBody(t)),
		httpx.NewResponse(200, "", map[string]string{
			"X-Apple-ID-Session-Id": "sess-2",
			"scnt":                  "seq-token-2",
		}, nil, nil),
	}}
	engine := buildTestEngine(t, st)

	session, err := engine.StartSession(context.Background(), "user@example.com", "hunter2")
	if err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}
	if session.SecondFactorRequired {
		t.Fatal("200 completion must not require a second factor")
	}
}

func TestStartSessionInitRejected(t *testing.T) {
	st := &scriptedTransport{t: t, responses: []*httpx.Response{
		httpx.NewResponse(503, "", nil, nil, nil),
	}}
	engine := buildTestEngine(t, st)

	_, err := engine.StartSession(context.Background(), "user@example.com", "hunter2")
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("err = %v, want StatusError", err)
	}
	if statusErr.Status != 503 {
		t.Fatalf("status = %d, want 503", statusErr.Status)
	}
}

func TestStartSessionCompleteRejected(t *testing.T) {
	st := &scriptedTransport{t: t, responses: []*httpx.Response{
		httpx.NewResponse(200, "", nil, nil, sessionInitBody(t)),
		httpx.NewResponse(401, "", nil, nil, nil),
	}}
	engine := buildTestEngine(t, st)

	_, err := engine.StartSession(context.Background(), "user@example.com", "wrong")
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("err = %v, want StatusError", err)
	}
}

func TestStartSessionMissingSessionHeaders(t *testing.T) {
	st := &scriptedTransport{t: t, responses: []*httpx.Response{
		httpx.NewResponse(200, "", nil, nil, sessionInitBody(t)),
		httpx.NewResponse(409, "", map[string]string{
			"X-Apple-ID-Session-Id": "sess-3",
		}, nil, nil),
	}}
	engine := buildTestEngine(t, st)

	_, err := engine.StartSession(context.Background(), "user@example.com", "hunter2")
	if !errors.Is(err, ErrSessionHeadersIncomplete) {
		t.Fatalf("err = %v, want missing session headers", err)
	}
}

func TestStartSessionTransportFailure(t *testing.T) {
	st := &scriptedTransport{t: t, errs: []error{errors.New("connection refused")}}
	engine := buildTestEngine(t, st)

	_, err := engine.StartSession(context.Background(), "user@example.com", "hunter2")
	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("err = %v, want TransportError", err)
	}
}
