package cookies

import (
	"strconv"
	"strings"
	"time"
)

// Expiry returns the parsed Expires attribute. ok is false when the
// attribute is missing or unparseable.
func (c Cookie) Expiry() (time.Time, bool) {
	raw, ok := c.attrs[AttrExpires]
	if !ok {
		return time.Time{}, false
	}
	d, ok := ParseDate(raw)
	if !ok {
		return time.Time{}, false
	}
	return d.Time(), true
}

// MaxAge returns the numeric Max-Age attribute. ok is false when the
// attribute is missing or not a number.
func (c Cookie) MaxAge() (float64, bool) {
	raw, ok := c.attrs[AttrMaxAge]
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// IsBeingDeleted reports whether the cookie asks the browser to remove it:
// an Expires at or before ref, or a Max-Age of zero or less.
func IsBeingDeleted(c Cookie, ref time.Time) bool {
	if exp, ok := c.Expiry(); ok && !exp.After(ref) {
		return true
	}
	if age, ok := c.MaxAge(); ok && age <= 0 {
		return true
	}
	return false
}

// AllBeingDeleted reports whether every cookie in a header is a deletion.
func AllBeingDeleted(cs []Cookie, ref time.Time) bool {
	for _, c := range cs {
		if !IsBeingDeleted(c, ref) {
			return false
		}
	}
	return true
}
