package cookies

import (
	"strings"
	"time"
)

// monthNames holds the three letter month prefixes in calendar order.
var monthNames = [12]string{"jan", "feb", "mar", "apr", "may", "jun", "jul", "aug", "sep", "oct", "nov", "dec"}

// minCookieYear is the smallest year RFC 6265 accepts in a cookie date.
const minCookieYear = 1601

// ParsedDate is a calendar timestamp read from a cookie date string.
// Month is zero based (0 = January). Values are not checked against the
// length of the month, so 31 February is a valid ParsedDate.
type ParsedDate struct {
	Year   int
	Month  int
	Day    int
	Hour   int
	Minute int
	Second int
}

// Time converts the parsed date to a UTC time. Out of range days roll
// over into the following month the same way time.Date normalises them.
func (d ParsedDate) Time() time.Time {
	return time.Date(d.Year, time.Month(d.Month+1), d.Day, d.Hour, d.Minute, d.Second, 0, time.UTC)
}

// isDateDelimiter reports whether r separates date tokens (RFC 6265 5.1.1).
func isDateDelimiter(r rune) bool {
	switch {
	case r == 0x09:
		return true
	case r >= 0x20 && r <= 0x2F:
		return true
	case r >= 0x3B && r <= 0x40:
		return true
	case r >= 0x5B && r <= 0x60:
		return true
	case r >= 0x7B && r <= 0x7E:
		return true
	}
	return false
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// leadingInt returns the value of the run of digits at the start of s.
func leadingInt(s string) int {
	n := 0
	for i := 0; i < len(s) && isDigit(s[i]); i++ {
		n = n*10 + int(s[i]-'0')
	}
	return n
}

// isTimeField matches 1*2DIGIT. With allowTrailing, a non-digit and any
// junk may follow the digits.
func isTimeField(part string, allowTrailing bool) bool {
	if len(part) == 0 || !isDigit(part[0]) {
		return false
	}
	if len(part) == 2 && !allowTrailing && !isDigit(part[1]) {
		return false
	}
	if len(part) > 2 && (!allowTrailing || isDigit(part[2])) {
		return false
	}
	return true
}

// parseTime matches hms-time ( non-digit *OCTET ).
func parseTime(token string) (hour, minute, second int, ok bool) {
	parts := strings.Split(token, ":")
	if len(parts) < 3 {
		return 0, 0, 0, false
	}
	if !isTimeField(parts[0], false) || !isTimeField(parts[1], false) || !isTimeField(parts[2], true) {
		return 0, 0, 0, false
	}
	return leadingInt(parts[0]), leadingInt(parts[1]), leadingInt(parts[2]), true
}

// parseDayOfMonth matches 1*2DIGIT ( non-digit *OCTET ).
func parseDayOfMonth(token string) (int, bool) {
	if !isTimeField(token, true) {
		return 0, false
	}
	return leadingInt(token), true
}

func parseMonth(token string) (int, bool) {
	if len(token) < 3 {
		return 0, false
	}
	prefix := strings.ToLower(token[:3])
	for i, name := range monthNames {
		if prefix == name {
			return i, true
		}
	}
	return 0, false
}

// parseYear matches 2*4DIGIT ( non-digit *OCTET ).
func parseYear(token string) (int, bool) {
	if len(token) < 2 {
		return 0, false
	}
	if len(token) > 4 && isDigit(token[4]) {
		return 0, false
	}
	if !isDigit(token[0]) || !isDigit(token[1]) {
		return 0, false
	}
	year := leadingInt(token)
	switch {
	case year >= 70 && year <= 99:
		year += 1900
	case year >= 0 && year <= 69:
		year += 2000
	}
	return year, true
}

// ParseDate parses a cookie date following the algorithm of RFC 6265
// section 5.1.1. Tokens may appear in any order; each is claimed by the
// first of time, day of month, month or year that is still unfilled and
// that it satisfies. The boolean result is false when a field is missing
// or out of range.
func ParseDate(text string) (ParsedDate, bool) {
	var d ParsedDate
	var foundTime, foundDay, foundMonth, foundYear bool
	for _, token := range strings.FieldsFunc(text, isDateDelimiter) {
		if !foundTime {
			if h, m, s, ok := parseTime(token); ok {
				d.Hour, d.Minute, d.Second = h, m, s
				foundTime = true
				continue
			}
		}
		if !foundDay {
			if day, ok := parseDayOfMonth(token); ok {
				d.Day = day
				foundDay = true
				continue
			}
		}
		if !foundMonth {
			if month, ok := parseMonth(token); ok {
				d.Month = month
				foundMonth = true
				continue
			}
		}
		if !foundYear {
			if year, ok := parseYear(token); ok {
				d.Year = year
				foundYear = true
			}
		}
	}
	if !foundTime || !foundDay || !foundMonth || !foundYear {
		return ParsedDate{}, false
	}
	if d.Day < 1 || d.Day > 31 || d.Year < minCookieYear || d.Hour > 23 || d.Minute > 59 || d.Second > 59 {
		return ParsedDate{}, false
	}
	return d, true
}
