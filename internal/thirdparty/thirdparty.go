// Package thirdparty decides whether two hosts belong to the same site by
// comparing their registrable domains.
package thirdparty

import (
	"net"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// Resolver returns the registrable domain (eTLD+1) of a host.
type Resolver interface {
	RegistrableDomain(host string) (string, error)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(host string) (string, error)

func (f ResolverFunc) RegistrableDomain(host string) (string, error) { return f(host) }

// PublicSuffix resolves registrable domains with the public suffix list
// compiled into golang.org/x/net/publicsuffix.
var PublicSuffix Resolver = ResolverFunc(publicsuffix.EffectiveTLDPlusOne)

// Classifier compares hosts with a Resolver.
type Classifier struct {
	resolver Resolver
}

// NewClassifier returns a Classifier backed by r, or by PublicSuffix when
// r is nil.
func NewClassifier(r Resolver) *Classifier {
	if r == nil {
		r = PublicSuffix
	}
	return &Classifier{resolver: r}
}

func cleanHost(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	h = strings.TrimSuffix(strings.TrimPrefix(h, "["), "]")
	h = strings.TrimLeft(h, ".")
	return strings.TrimRight(h, ".")
}

// IsThirdParty reports whether requestHost belongs to a different site from
// tabHost. An IP literal, a bare public suffix or an empty host counts as
// third-party unless both hosts are identical.
func (c *Classifier) IsThirdParty(tabHost, requestHost string) bool {
	tab, req := cleanHost(tabHost), cleanHost(requestHost)
	if tab == "" || req == "" {
		return true
	}
	if tab == req {
		return false
	}
	if isIP(tab) || isIP(req) {
		return true
	}
	tabSite, err := c.resolver.RegistrableDomain(tab)
	if err != nil {
		return true
	}
	reqSite, err := c.resolver.RegistrableDomain(req)
	if err != nil {
		return true
	}
	return tabSite != reqSite
}

// isIP reports whether h is an IP literal. The suffix list treats an IPv4
// address as a dotted name, so 192.168.1.1 and 10.0.1.1 would share "1.1".
func isIP(h string) bool {
	return net.ParseIP(h) != nil
}
