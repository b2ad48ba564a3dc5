// Package allowlist holds the user's list of domains that may set cookies
// and resolves a cookie domain to the most specific entry allowing it.
package allowlist

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownAllowType is returned when an allow type name is not recognised.
	ErrUnknownAllowType = errors.New("unknown allow type")
	// ErrEmptyDomain is returned when an entry is added without a domain.
	ErrEmptyDomain = errors.New("empty domain")
)

// AllowType says how long cookies from an allowed domain may live.
type AllowType int

const (
	// Persistent cookies keep their Expires and Max-Age attributes.
	Persistent AllowType = iota
	// Session cookies have Expires and Max-Age stripped.
	Session
)

func (t AllowType) String() string {
	switch t {
	case Session:
		return "Session"
	case Persistent:
		return "Persistent"
	}
	return fmt.Sprintf("AllowType(%d)", int(t))
}

// ParseAllowType parses a case-insensitive allow type name.
func ParseAllowType(s string) (AllowType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "session":
		return Session, nil
	case "persistent":
		return Persistent, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownAllowType, s)
}

func (t AllowType) MarshalText() ([]byte, error) {
	if t != Session && t != Persistent {
		return nil, fmt.Errorf("%w: %d", ErrUnknownAllowType, int(t))
	}
	return []byte(t.String()), nil
}

func (t *AllowType) UnmarshalText(b []byte) error {
	v, err := ParseAllowType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Entry is one allow-listed domain suffix. Domain always starts with a dot
// once it has passed through NormalizeDomain.
type Entry struct {
	Domain    string    `json:"domain" yaml:"domain"`
	AllowType AllowType `json:"allowType" yaml:"allowType"`
}

// NormalizeDomain lower cases d, strips trailing root dots and makes sure
// it starts with a single leading dot. It returns "" for an empty domain.
func NormalizeDomain(d string) string {
	d = strings.ToLower(strings.TrimSpace(d))
	d = strings.TrimRight(d, ".")
	d = strings.TrimLeft(d, ".")
	if d == "" {
		return ""
	}
	return "." + d
}

// List is an ordered, immutable allow list with unique domain keys. The
// zero value is an empty list. Mutating methods return a new List.
type List struct {
	entries []Entry
}

// New builds a list from entries, normalising each domain. A later entry
// for a domain already present replaces it in place. Entries with an empty
// domain are skipped.
func New(entries ...Entry) List {
	var l List
	for _, e := range entries {
		if next, err := l.With(e.Domain, e.AllowType); err == nil {
			l = next
		}
	}
	return l
}

// Len returns the number of entries.
func (l List) Len() int { return len(l.entries) }

// Entries returns a copy of the entries in list order.
func (l List) Entries() []Entry {
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// With returns a list where domain is allowed with the given type. An
// existing entry for the same domain keeps its position.
func (l List) With(domain string, t AllowType) (List, error) {
	key := NormalizeDomain(domain)
	if key == "" {
		return l, ErrEmptyDomain
	}
	if t != Session && t != Persistent {
		return l, fmt.Errorf("%w: %d", ErrUnknownAllowType, int(t))
	}
	entries := l.Entries()
	for i := range entries {
		if entries[i].Domain == key {
			entries[i].AllowType = t
			return List{entries: entries}, nil
		}
	}
	return List{entries: append(entries, Entry{Domain: key, AllowType: t})}, nil
}

// Without returns a list with the exact domain key removed. The second
// result reports whether anything was removed.
func (l List) Without(domain string) (List, bool) {
	key := NormalizeDomain(domain)
	for i, e := range l.entries {
		if e.Domain == key {
			entries := make([]Entry, 0, len(l.entries)-1)
			entries = append(entries, l.entries[:i]...)
			entries = append(entries, l.entries[i+1:]...)
			return List{entries: entries}, true
		}
	}
	return l, false
}

// FindAllowingEntry returns the entry whose domain is the longest suffix of
// domain on a label boundary. Ties go to the entry that comes first.
func (l List) FindAllowingEntry(domain string) (Entry, bool) {
	query := NormalizeDomain(domain)
	if query == "" {
		return Entry{}, false
	}
	var (
		best  Entry
		found bool
	)
	for _, e := range l.entries {
		if !strings.HasSuffix(query, e.Domain) {
			continue
		}
		if !found || len(e.Domain) > len(best.Domain) {
			best, found = e, true
		}
	}
	return best, found
}

// IsExplicitlyListed reports whether domain is itself a key of the list,
// ignoring entries for parent domains.
func (l List) IsExplicitlyListed(domain string) bool {
	key := NormalizeDomain(domain)
	if key == "" {
		return false
	}
	for _, e := range l.entries {
		if e.Domain == key {
			return true
		}
	}
	return false
}

// MarshalJSON writes the list as an array of entries in list order.
func (l List) MarshalJSON() ([]byte, error) {
	if l.entries == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l.entries)
}

// UnmarshalJSON reads an array of entries, normalising domains.
func (l *List) UnmarshalJSON(b []byte) error {
	var entries []Entry
	if err := json.Unmarshal(b, &entries); err != nil {
		return err
	}
	*l = New(entries...)
	return nil
}
