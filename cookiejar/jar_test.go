package cookiejar

import (
	"testing"
)

func TestMergeAccumulatesByNameAndDomain(t *testing.T) {
	s := New()

	s = Merge(s, []string{"session=abc; Domain=.example.com; Path=/"}, "buy.example.com")
	s = Merge(s, []string{"pod=17; Path=/"}, "buy.example.com")

	if len(s) != 2 {
		t.Fatalf("expected 2 cookies, got %d", len(s))
	}

	// Same name on a different domain is a distinct entry.
	s = Merge(s, []string{"session=xyz; Domain=.other.com"}, "buy.example.com")
	if len(s) != 3 {
		t.Fatalf("expected 3 cookies after cross-domain set, got %d", len(s))
	}
}

func TestMergeOverwritesSameNameAndDomain(t *testing.T) {
	s := New()
	s = Merge(s, []string{"token=first; Domain=.example.com"}, "")
	s = Merge(s, []string{"token=second; Domain=.example.com"}, "")

	if len(s) != 1 {
		t.Fatalf("expected 1 cookie, got %d", len(s))
	}
	for _, c := range s {
		if c.Value != "second" {
			t.Fatalf("expected latest value to win, got %q", c.Value)
		}
	}
}

func TestMergeIdempotent(t *testing.T) {
	raw := []string{"a=1; Domain=.example.com", "b=2; Path=/store"}

	s := Merge(New(), raw, "buy.example.com")
	before := s.Header()
	s = Merge(s, raw, "buy.example.com")

	if got := s.Header(); got != before {
		t.Fatalf("merge not idempotent: %q != %q", got, before)
	}
}

func TestMergeDefaultsDomain(t *testing.T) {
	s := Merge(New(), []string{"plain=v"}, "buy.example.com")

	var got Cookie
	for _, c := range s {
		got = c
	}
	if got.Domain != "buy.example.com" {
		t.Fatalf("expected defaulted domain, got %q", got.Domain)
	}
}

func TestHeaderDeterministic(t *testing.T) {
	s := Merge(New(), []string{"b=2", "a=1", "c=3"}, "example.com")

	want := "a=1; b=2; c=3"
	if got := s.Header(); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
	if got := New().Header(); got != "" {
		t.Fatalf("empty set should render empty header, got %q", got)
	}
}

func TestMergeNilSet(t *testing.T) {
	s := Merge(nil, []string{"x=1"}, "example.com")
	if len(s) != 1 {
		t.Fatalf("expected merge into fresh set, got %d entries", len(s))
	}
}
