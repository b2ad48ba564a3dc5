package policy

import (
	"errors"
	"fmt"
	"strings"

	"github.com/craigmiskell/cookiemaster/internal/allowlist"
)

// ErrUnknownThirdPartyPolicy is returned for an unrecognised policy name.
var ErrUnknownThirdPartyPolicy = errors.New("unknown third party policy")

// ThirdPartyPolicy selects how cookies from a different site are handled.
type ThirdPartyPolicy int

const (
	// AllowNone blocks every third-party cookie.
	AllowNone ThirdPartyPolicy = iota
	// AllowAll lets every third-party cookie through untouched.
	AllowAll
	// AllowIfOtherwiseAllowed treats third-party cookies like first-party
	// ones and checks them against the allow list.
	AllowIfOtherwiseAllowed
)

var thirdPartyNames = map[ThirdPartyPolicy]string{
	AllowNone:               "AllowNone",
	AllowAll:                "AllowAll",
	AllowIfOtherwiseAllowed: "AllowIfOtherwiseAllowed",
}

func (p ThirdPartyPolicy) String() string {
	if s, ok := thirdPartyNames[p]; ok {
		return s
	}
	return fmt.Sprintf("ThirdPartyPolicy(%d)", int(p))
}

// ParseThirdPartyPolicy parses a case-insensitive policy name.
func ParseThirdPartyPolicy(s string) (ThirdPartyPolicy, error) {
	for p, name := range thirdPartyNames {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return p, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownThirdPartyPolicy, s)
}

func (p ThirdPartyPolicy) MarshalText() ([]byte, error) {
	s, ok := thirdPartyNames[p]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownThirdPartyPolicy, int(p))
	}
	return []byte(s), nil
}

func (p *ThirdPartyPolicy) UnmarshalText(b []byte) error {
	v, err := ParseThirdPartyPolicy(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// Config is a read-only snapshot of the user's settings. Evaluations never
// modify it; the config provider swaps in a new snapshot on change.
type Config struct {
	ThirdParty            ThirdPartyPolicy `json:"thirdParty"`
	IgnoreSettingsWarning bool             `json:"ignoreSettingsWarning"`
	ScriptHash            string           `json:"scriptHash,omitempty"`
	AllowList             allowlist.List   `json:"allowList"`
}

// DefaultConfig returns the factory settings: third-party cookies blocked
// and nothing allowed.
func DefaultConfig() *Config {
	return &Config{ThirdParty: AllowNone}
}
