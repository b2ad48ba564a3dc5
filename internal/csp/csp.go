// Package csp patches Content-Security-Policy headers so the page hook
// script may run, without widening what the page itself allows.
package csp

import (
	"encoding/base64"
	"errors"
	"regexp"
	"strings"
)

// Directive names consulted when admitting the hook script.
const (
	ScriptSrc     = "script-src"
	ScriptSrcElem = "script-src-elem"
	DefaultSrc    = "default-src"
)

const (
	unsafeInline = "unsafe-inline"
	noncePrefix  = "'nonce-"
)

var hashSource = regexp.MustCompile(`(?i)'sha(256|384|512)-`)

// ErrHashInvalid is returned for a hash that is not a base64 sha256 digest.
var ErrHashInvalid = errors.New("script hash must be a base64 sha256 digest")

// ValidateHash checks that hash is standard base64 of exactly 32 bytes.
// Anything else could smuggle quotes or directives into the header.
func ValidateHash(hash string) error {
	b, err := base64.StdEncoding.Strict().DecodeString(hash)
	if err != nil || len(b) != 32 {
		return ErrHashInvalid
	}
	return nil
}

// HashSource formats a base64 sha256 digest as a CSP source expression.
func HashSource(hash string) string {
	return "'sha256-" + hash + "'"
}

func directiveName(d string) string {
	if i := strings.IndexAny(d, " \t\n\f\r"); i >= 0 {
		return strings.ToLower(d[:i])
	}
	return strings.ToLower(d)
}

// inject appends the hash source to a directive unless the directive relies
// on 'unsafe-inline' alone, in which case a hash would switch unsafe-inline
// off for the rest of the page. present is set when the source is already
// in the directive.
func inject(directive, source string) (out string, changed, present bool) {
	if strings.Contains(directive, source) {
		return directive, false, true
	}
	lower := strings.ToLower(directive)
	hasUnsafeInline := strings.Contains(lower, unsafeInline)
	hasNonceOrHash := strings.Contains(lower, noncePrefix) || hashSource.MatchString(directive)
	if hasUnsafeInline && !hasNonceOrHash {
		return directive, false, false
	}
	return directive + " " + source, true, false
}

// Augment adds the hook script's hash to the script-src and script-src-elem
// directives of a CSP header, falling back to default-src when neither took
// the hash. ok is false when the header needs no change or hash is not a
// valid digest.
func Augment(header, hash string) (string, bool) {
	if ValidateHash(hash) != nil {
		return header, false
	}
	source := HashSource(hash)

	directives := strings.Split(header, ";")
	for i, d := range directives {
		directives[i] = strings.TrimSpace(d)
	}

	modified, satisfied := false, false
	defaultIdx := -1
	for i, d := range directives {
		switch directiveName(d) {
		case ScriptSrc, ScriptSrcElem:
			out, changed, present := inject(d, source)
			directives[i] = out
			modified = modified || changed
			satisfied = satisfied || changed || present
		case DefaultSrc:
			if defaultIdx < 0 {
				defaultIdx = i
			}
		}
	}
	if !satisfied && defaultIdx >= 0 {
		out, changed, _ := inject(directives[defaultIdx], source)
		directives[defaultIdx] = out
		modified = modified || changed
	}
	if !modified {
		return header, false
	}
	return strings.Join(directives, ";"), true
}
