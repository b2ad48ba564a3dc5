package csp

import (
	"crypto/sha256"
	_ "embed"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/dop251/goja/parser"
)

// ErrScriptInvalid is returned when a script does not parse as JavaScript.
var ErrScriptInvalid = errors.New("script does not parse")

// HookScript is the page-context script that routes document.cookie
// assignments through the scripted cookie check.
//
//go:embed hook.js
var HookScript string

// ScriptHash returns the base64 sha256 digest browsers compare inline
// scripts against.
func ScriptHash(script string) string {
	sum := sha256.Sum256([]byte(script))
	return base64.StdEncoding.EncodeToString(sum[:])
}

// ValidateScript checks that script is syntactically valid JavaScript, so a
// broken script is never granted a hash.
func ValidateScript(script string) error {
	if _, err := parser.ParseFile(nil, "hook.js", script, 0); err != nil {
		return fmt.Errorf("%w: %v", ErrScriptInvalid, err)
	}
	return nil
}

// HookScriptHash validates HookScript and returns its hash.
func HookScriptHash() (string, error) {
	if err := ValidateScript(HookScript); err != nil {
		return "", err
	}
	return ScriptHash(HookScript), nil
}
