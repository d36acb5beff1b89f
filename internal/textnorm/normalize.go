// Package textnorm holds the pure string normalizers shared by the
// acquisition and editorial passes.
package textnorm

import (
	"net/url"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// trackingPrefixes are query keys dropped from URLs before comparison.
var trackingPrefixes = []string{"utm_", "fbclid", "gclid", "ref"}

// NormalizeTitle lowercases s, strips punctuation and collapses whitespace.
// Letters, digits and underscores survive; everything else that is not
// whitespace is removed without leaving a gap.
func NormalizeTitle(s string) string {
	s = norm.NFC.String(strings.ToLower(s))

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '_':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// NormalizeURL returns a canonical form of raw used for cache membership.
// Scheme case, trailing slash, fragment and tracking parameters are
// normalized away; remaining parameters are sorted and percent escapes
// come out lowercase. Malformed input is returned lowercased.
func NormalizeURL(raw string) string {
	lowered := strings.ToLower(raw)

	u, err := url.Parse(strings.TrimSpace(lowered))
	if err != nil {
		return lowered
	}

	u.Fragment = ""
	u.RawFragment = ""
	u.ForceQuery = false

	if u.RawQuery != "" {
		u.RawQuery = encodeQuery(u.Query())
	}

	u.Path = strings.TrimRight(u.Path, "/")
	u.RawPath = strings.TrimRight(u.RawPath, "/")

	return strings.ToLower(strings.TrimRight(u.String(), "/"))
}

func encodeQuery(params url.Values) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		if isTrackingKey(k) {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var buf strings.Builder
	for _, k := range keys {
		vals := append([]string(nil), params[k]...)
		sort.Strings(vals)
		for _, v := range vals {
			if buf.Len() > 0 {
				buf.WriteByte('&')
			}
			buf.WriteString(url.QueryEscape(k))
			buf.WriteByte('=')
			buf.WriteString(url.QueryEscape(v))
		}
	}
	return buf.String()
}

func isTrackingKey(key string) bool {
	for _, p := range trackingPrefixes {
		if strings.HasPrefix(key, p) {
			return true
		}
	}
	return false
}
