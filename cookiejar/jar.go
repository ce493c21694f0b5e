package cookiejar

import (
	"net/http"
	"sort"
	"strings"
)

// Cookie is one stored cookie value keyed by name and domain.
type Cookie struct {
	Name   string
	Value  string
	Domain string
	Path   string
}

// Set maps (name, domain) to cookie values.
type Set map[string]Cookie

// New describes the new operation and its observable behavior.
//
// New may return an error when input validation, dependency calls, or security checks fail.
// New does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func New() Set {
	return make(Set)
}

func key(name, domain string) string {
	return name + "\x00" + strings.ToLower(domain)
}

// Clone describes the clone operation and its observable behavior.
//
// Clone may return an error when input validation, dependency calls, or security checks fail.
// Clone does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s Set) Clone() Set {
	out := make(Set, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Merge describes the merge operation and its observable behavior.
//
// Merge may return an error when input validation, dependency calls, or security checks fail.
// Merge does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func Merge(existing Set, rawSetCookies []string, defaultDomain string) Set {
	out := existing
	if out == nil {
		out = New()
	}
	for _, c := range parseSetCookies(rawSetCookies) {
		domain := c.Domain
		if domain == "" {
			domain = defaultDomain
		}
		out[key(c.Name, domain)] = Cookie{
			Name:   c.Name,
			Value:  c.Value,
			Domain: domain,
			Path:   c.Path,
		}
	}
	return out
}

// Header renders the set as a Cookie request-header value with deterministic
// ordering.
func (s Set) Header() string {
	if len(s) == 0 {
		return ""
	}
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteString("; ")
		}
		c := s[k]
		b.WriteString(c.Name)
		b.WriteByte('=')
		b.WriteString(c.Value)
	}
	return b.String()
}

// parseSetCookies reuses net/http's Set-Cookie grammar by wrapping the raw
// lines in a synthetic response header.
func parseSetCookies(raw []string) []*http.Cookie {
	if len(raw) == 0 {
		return nil
	}
	resp := http.Response{Header: http.Header{"Set-Cookie": raw}}
	return resp.Cookies()
}
