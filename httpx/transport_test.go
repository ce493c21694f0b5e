package httpx

import (
	"testing"
)

func TestResponseHeaderCaseInsensitive(t *testing.T) {
	resp := NewResponse(200, "200 OK", map[string]string{
		"X-Apple-ID-Session-Id": "S1",
		"scnt":                  "T1",
	}, nil, nil)

	if got := resp.Header("x-apple-id-session-id"); got != "S1" {
		t.Fatalf("lowercase lookup: got %q", got)
	}
	if got := resp.Header("X-APPLE-ID-SESSION-ID"); got != "S1" {
		t.Fatalf("uppercase lookup: got %q", got)
	}
	if got := resp.Header("Scnt"); got != "T1" {
		t.Fatalf("mixed-case lookup: got %q", got)
	}
	if got := resp.Header("missing"); got != "" {
		t.Fatalf("absent header should be empty, got %q", got)
	}
}

func TestResponseHeaderNilReceiver(t *testing.T) {
	var resp *Response
	if got := resp.Header("anything"); got != "" {
		t.Fatalf("nil receiver should yield empty string, got %q", got)
	}
}
