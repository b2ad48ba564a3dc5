package allowlist

import (
	"sort"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// registrable returns the registrable part of an entry domain, or the bare
// domain when the public suffix list cannot answer (e.g. ".co.uk").
func registrable(domain string) string {
	host := strings.TrimPrefix(domain, ".")
	if etld1, err := publicsuffix.EffectiveTLDPlusOne(host); err == nil {
		return etld1
	}
	return host
}

// Sorted returns the entries grouped by registrable domain, the way the
// options page lists them: sites alphabetically, then the site entry
// itself before its subdomains, then subdomains alphabetically.
func (l List) Sorted() []Entry {
	out := l.Entries()
	keys := make(map[string]string, len(out))
	for _, e := range out {
		keys[e.Domain] = registrable(e.Domain)
	}
	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := keys[out[i].Domain], keys[out[j].Domain]
		if ri != rj {
			return ri < rj
		}
		si := strings.TrimPrefix(out[i].Domain, ".") == ri
		sj := strings.TrimPrefix(out[j].Domain, ".") == rj
		if si != sj {
			return si
		}
		return out[i].Domain < out[j].Domain
	})
	return out
}
