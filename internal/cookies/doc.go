// Package cookies parses and rewrites Set-Cookie header lines for the
// cookie policy engine.
//
// It implements the tolerant cookie date algorithm of RFC 6265 section
// 5.1.1, a name/value/attribute splitter that never fails on malformed
// input, deletion detection (expired Expires or non-positive Max-Age) and
// re-serialization of possibly modified cookies.
//
// Cookie values are SENSITIVE: they must never be logged. Only names and
// domains may appear in debug logs.
package cookies
