package secret

import (
	"errors"
	"os"

	"github.com/craigmiskell/cookiemaster/common"
	"github.com/craigmiskell/cookiemaster/pkg/logger"
)

// Manager resolves the RPC token: the environment first, then the
// keyring, then the fallback file. A token is generated on first use.
type Manager struct {
	primary  Store
	fallback Store
	log      logger.Logger
	getenv   func(string) string
}

// NewManager uses the OS keyring with a file in dataDir as fallback.
func NewManager(dataDir string, log logger.Logger) *Manager {
	return newManager(NewKeyring(), NewFileStore(dataDir), log)
}

func newManager(primary, fallback Store, log logger.Logger) *Manager {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Manager{primary: primary, fallback: fallback, log: log, getenv: os.Getenv}
}

// Token returns the current token, creating one when none is stored.
func (m *Manager) Token() (string, error) {
	if t := m.getenv(common.RPCSecretEnv); t != "" {
		return t, nil
	}
	for _, s := range m.stores() {
		t, err := s.Get()
		if err == nil {
			return t, nil
		}
		if !errors.Is(err, ErrNotFound) {
			m.log.Warning("secret: %T unavailable: %v", s, err)
		}
	}
	return m.Rotate()
}

// Rotate replaces the stored token with a new one.
func (m *Manager) Rotate() (string, error) {
	t, err := Generate()
	if err != nil {
		return "", err
	}
	if err := m.primary.Set(t); err != nil {
		m.log.Warning("secret: keyring unavailable, using file: %v", err)
		if err := m.fallback.Set(t); err != nil {
			return "", err
		}
		return t, nil
	}
	// Drop any token an earlier keyring outage left in the file.
	if err := m.fallback.Delete(); err != nil {
		m.log.Warning("secret: remove fallback token: %v", err)
	}
	return t, nil
}

// Clear removes the token from every store.
func (m *Manager) Clear() error {
	return errors.Join(m.primary.Delete(), m.fallback.Delete())
}

func (m *Manager) stores() []Store {
	return []Store{m.primary, m.fallback}
}
