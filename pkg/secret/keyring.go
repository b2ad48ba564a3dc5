// Package secret stores the bearer token the JSON-RPC server checks. The
// token lives in the operating system's keyring when one is available and
// in a 0600 file in the data directory otherwise.
package secret

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

// ErrNotFound is returned by a Store holding no token.
var ErrNotFound = errors.New("secret: token not found")

// Store holds one token.
type Store interface {
	Get() (string, error)
	Set(token string) error
	Delete() error
}

var randRead = rand.Read

// Generate returns a new random token of 32 bytes, hex encoded.
func Generate() (string, error) {
	b := make([]byte, 32)
	if _, err := randRead(b); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// Keyring is a Store in the OS keyring.
type Keyring struct {
	Service string
	User    string
}

func NewKeyring() *Keyring {
	return &Keyring{Service: "cookiemaster", User: "rpc-token"}
}

func (k *Keyring) Get() (string, error) {
	v, err := keyring.Get(k.Service, k.User)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrNotFound
	}
	return v, err
}

func (k *Keyring) Set(token string) error {
	return keyring.Set(k.Service, k.User, token)
}

func (k *Keyring) Delete() error {
	err := keyring.Delete(k.Service, k.User)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}
