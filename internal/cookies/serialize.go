package cookies

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"sort"
	"strconv"
	"strings"
)

var (
	// ErrInvalidCookieName is returned when a cookie name is empty or holds
	// characters that cannot appear in a header field.
	ErrInvalidCookieName = errors.New("invalid cookie name")
	// ErrInvalidAttributeValue is returned when an attribute value cannot be
	// written back into a Set-Cookie line.
	ErrInvalidAttributeValue = errors.New("invalid cookie attribute value")
)

// AttrPartitioned is the CHIPS partition flag.
const AttrPartitioned = "partitioned"

// knownOrder lists the attributes with a canonical spelling, in output order.
var knownOrder = []struct {
	key, name string
	flag      bool
}{
	{AttrMaxAge, "Max-Age", false},
	{AttrDomain, "Domain", false},
	{AttrPath, "Path", false},
	{AttrExpires, "Expires", false},
	{AttrHttpOnly, "HttpOnly", true},
	{AttrSecure, "Secure", true},
	{AttrPartitioned, "Partitioned", true},
	{AttrSameSite, "SameSite", false},
}

// isFieldContent reports whether s only holds octets allowed in a header
// field value. Semicolons are refused as they would split the cookie.
func isFieldContent(s string) bool {
	for i := 0; i < len(s); i++ {
		b := s[i]
		if b == ';' || (b < 0x20 && b != 0x09) || b == 0x7F {
			return false
		}
	}
	return true
}

func sameSiteValue(v string) (string, error) {
	switch strings.ToLower(v) {
	case "strict", flagValue:
		return "Strict", nil
	case "lax":
		return "Lax", nil
	case "none":
		return "None", nil
	}
	return "", fmt.Errorf("%w: samesite %q", ErrInvalidAttributeValue, v)
}

// Serialize writes the cookie back out as a Set-Cookie line. Attributes
// with a canonical name come first in a fixed order, followed by any other
// attributes sorted by name. An unparseable Expires is dropped; any other
// value that cannot be represented is an error.
func Serialize(c Cookie) (string, error) {
	if c.Name == "" || !isFieldContent(c.Name) || strings.ContainsAny(c.Name, "= \t") {
		return "", fmt.Errorf("%w: %q", ErrInvalidCookieName, c.Name)
	}
	if !isFieldContent(c.Value) {
		return "", fmt.Errorf("%w: value of %s", ErrInvalidAttributeValue, c.Name)
	}

	var b strings.Builder
	b.WriteString(c.Name)
	b.WriteByte('=')
	b.WriteString(c.Value)

	known := make(map[string]struct{}, len(knownOrder))
	for _, k := range knownOrder {
		known[k.key] = struct{}{}
		raw, ok := c.attrs[k.key]
		if !ok {
			continue
		}
		if k.flag {
			b.WriteString("; " + k.name)
			continue
		}
		var value string
		switch k.key {
		case AttrMaxAge:
			n, ok := c.MaxAge()
			if !ok || math.IsInf(n, 0) || math.IsNaN(n) {
				return "", fmt.Errorf("%w: max-age %q", ErrInvalidAttributeValue, raw)
			}
			value = strconv.FormatInt(int64(math.Floor(n)), 10)
		case AttrExpires:
			t, ok := c.Expiry()
			if !ok {
				continue
			}
			value = t.UTC().Format(http.TimeFormat)
		case AttrSameSite:
			v, err := sameSiteValue(raw)
			if err != nil {
				return "", err
			}
			value = v
		default:
			if !isFieldContent(raw) {
				return "", fmt.Errorf("%w: %s", ErrInvalidAttributeValue, k.key)
			}
			value = raw
		}
		b.WriteString("; " + k.name + "=" + value)
	}

	var extra []string
	for k := range c.attrs {
		if _, ok := known[k]; !ok && k != "" {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	for _, k := range extra {
		v := c.attrs[k]
		if !isFieldContent(k) || !isFieldContent(v) {
			return "", fmt.Errorf("%w: %s", ErrInvalidAttributeValue, k)
		}
		if v == flagValue {
			b.WriteString("; " + k)
			continue
		}
		b.WriteString("; " + k + "=" + v)
	}
	return b.String(), nil
}
