// Package urlkey computes the canonical dedup key used by the frontier and
// by in-link counting. It is adapted from the project's original
// scheme-and-host canonicalizer, widened to also strip a leading "www."
// label and to sort (rather than discard) query parameters — two pages
// differing only in parameter order are the same page; two pages differing
// in tracking parameter VALUES are not safe to merge.
package urlkey

import (
	"net/url"
	"sort"
	"strings"
)

// Normalize returns the canonical key for u. It is:
//
//   - pure: no state, no I/O
//   - deterministic: same input always yields the same output
//   - idempotent: Normalize(parse(Normalize(u))) == Normalize(u)
//
// The returned string is suitable as a map key; it is not itself a valid
// URL to fetch (query values are present but reordered).
func Normalize(u *url.URL) string {
	c := *u

	c.Scheme = lowerASCII(c.Scheme)
	c.Host = lowerASCII(stripDefaultPort(c.Scheme, stripWWW(c.Host)))

	if c.Path == "" {
		c.Path = "/"
	} else if len(c.Path) > 1 {
		c.Path = stripTrailingSlash(c.Path)
	}

	c.Fragment = ""
	c.RawFragment = ""

	if c.RawQuery != "" {
		c.RawQuery = sortedQuery(c.RawQuery)
	}

	return c.String()
}

// NormalizeString parses raw and normalizes it, returning an error if raw
// is not a well-formed URL reference.
func NormalizeString(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	return Normalize(u), nil
}

func stripWWW(host string) string {
	const prefix = "www."
	if len(host) > len(prefix) && strings.EqualFold(host[:len(prefix)], prefix) {
		return host[len(prefix):]
	}
	return host
}

func stripDefaultPort(scheme, host string) string {
	h, port, found := strings.Cut(host, ":")
	if !found {
		return host
	}
	if (scheme == "http" && port == "80") || (scheme == "https" && port == "443") {
		return h
	}
	return host
}

func stripTrailingSlash(path string) string {
	for len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}
	return path
}

func sortedQuery(raw string) string {
	values, err := url.ParseQuery(raw)
	if err != nil {
		// Unparsable query strings are kept verbatim rather than dropped:
		// an opaque key still disambiguates pages that differ only here.
		return raw
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		vs := values[k]
		sort.Strings(vs)
		for _, v := range vs {
			if b.Len() > 0 {
				b.WriteByte('&')
			}
			b.WriteString(url.QueryEscape(k))
			b.WriteByte('=')
			b.WriteString(url.QueryEscape(v))
		}
	}
	return b.String()
}

func lowerASCII(s string) string {
	needsLower := false
	for i := 0; i < len(s); i++ {
		if s[i] >= 'A' && s[i] <= 'Z' {
			needsLower = true
			break
		}
	}
	if !needsLower {
		return s
	}
	b := make([]byte, len(s))
	copy(b, s)
	for i := range b {
		if b[i] >= 'A' && b[i] <= 'Z' {
			b[i] += 'a' - 'A'
		}
	}
	return string(b)
}
