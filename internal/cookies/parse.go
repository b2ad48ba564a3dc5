package cookies

import (
	"net/url"
	"strings"
	"unicode/utf8"
)

// Attribute names the policy engine inspects. Keys are stored lower case.
const (
	AttrExpires  = "expires"
	AttrMaxAge   = "max-age"
	AttrDomain   = "domain"
	AttrPath     = "path"
	AttrSecure   = "secure"
	AttrHttpOnly = "httponly"
	AttrSameSite = "samesite"
)

// flagValue is the value given to a segment that carries no '='.
const flagValue = "true"

// Cookie is one parsed Set-Cookie line. It is immutable: derived cookies
// are produced with Without.
type Cookie struct {
	Name  string
	Value string
	attrs map[string]string
}

// Attr returns the value of the attribute with the given lower case name.
func (c Cookie) Attr(name string) (string, bool) {
	v, ok := c.attrs[name]
	return v, ok
}

// HasAttr reports whether the attribute is present.
func (c Cookie) HasAttr(name string) bool {
	_, ok := c.attrs[name]
	return ok
}

// Attrs returns a copy of the attribute map.
func (c Cookie) Attrs() map[string]string {
	m := make(map[string]string, len(c.attrs))
	for k, v := range c.attrs {
		m[k] = v
	}
	return m
}

// Without returns a copy of c lacking the named attributes.
func (c Cookie) Without(names ...string) Cookie {
	attrs := c.Attrs()
	for _, n := range names {
		delete(attrs, n)
	}
	return Cookie{Name: c.Name, Value: c.Value, attrs: attrs}
}

// EffectiveDomain returns the Domain attribute, or fallback when the cookie
// has none.
func (c Cookie) EffectiveDomain(fallback string) string {
	if d, ok := c.attrs[AttrDomain]; ok && d != "" {
		return d
	}
	return fallback
}

// NewCookie builds a cookie from a name, value and attribute map. Attribute
// names are lower cased; when two names collide the first in iteration order
// wins, so callers should pass unique keys.
func NewCookie(name, value string, attrs map[string]string) Cookie {
	m := make(map[string]string, len(attrs))
	for k, v := range attrs {
		k = strings.ToLower(k)
		if _, dup := m[k]; !dup {
			m[k] = v
		}
	}
	return Cookie{Name: name, Value: value, attrs: m}
}

// splitPair splits a segment on its first '='. A segment with no '=' is a
// bare name whose value is "true".
func splitPair(segment string) (key, value string) {
	k, v, found := strings.Cut(segment, "=")
	if !found {
		return strings.TrimSpace(segment), flagValue
	}
	return strings.TrimSpace(k), unquote(strings.TrimSpace(v))
}

func unquote(v string) string {
	if len(v) >= 2 && v[0] == '"' && v[len(v)-1] == '"' {
		return v[1 : len(v)-1]
	}
	return v
}

// decodeAttribute percent-decodes an attribute value. ok is false when the
// value is not valid percent encoding of UTF-8, in which case the raw value
// is returned unchanged.
func decodeAttribute(raw string) (value string, ok bool) {
	decoded, err := url.PathUnescape(raw)
	if err != nil || !utf8.ValidString(decoded) {
		return raw, false
	}
	return decoded, true
}

// Parse splits a single Set-Cookie line into its name, value and
// attributes. Attribute names are case-insensitive and the first occurrence
// of a repeated attribute wins.
func Parse(line string) Cookie {
	segments := strings.Split(line, ";")
	name, value := splitPair(segments[0])
	c := Cookie{Name: name, Value: value, attrs: make(map[string]string, len(segments)-1)}
	for _, segment := range segments[1:] {
		key, raw := splitPair(segment)
		key = strings.ToLower(key)
		if _, seen := c.attrs[key]; seen {
			continue
		}
		c.attrs[key], _ = decodeAttribute(raw)
	}
	return c
}

// ParseHeader parses a Set-Cookie header value that may carry several
// cookies separated by newlines.
func ParseHeader(value string) []Cookie {
	lines := strings.Split(value, "\n")
	result := make([]Cookie, 0, len(lines))
	for _, line := range lines {
		result = append(result, Parse(line))
	}
	return result
}
