// Package config loads, stores and watches the user's cookie policy
// configuration.
package config

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/craigmiskell/cookiemaster/internal/allowlist"
	"github.com/craigmiskell/cookiemaster/internal/csp"
	"github.com/craigmiskell/cookiemaster/internal/policy"
)

// fileConfig mirrors config.yaml. The allow list is kept as a raw node so
// that older layouts can be recognised and upgraded.
type fileConfig struct {
	ThirdParty            string    `yaml:"thirdParty"`
	IgnoreSettingsWarning *bool     `yaml:"ignoreSettingsWarning"`
	ScriptHash            string    `yaml:"scriptHash"`
	AllowList             yaml.Node `yaml:"allowList"`
}

type fileEntry struct {
	Domain    string `yaml:"domain"`
	AllowType string `yaml:"allowType"`
}

type fileOut struct {
	ThirdParty            string      `yaml:"thirdParty"`
	IgnoreSettingsWarning bool        `yaml:"ignoreSettingsWarning"`
	ScriptHash            string      `yaml:"scriptHash,omitempty"`
	AllowList             []fileEntry `yaml:"allowList"`
}

// Decode parses config.yaml contents. Missing fields take their defaults.
// upgraded is set when the allow list used an older layout: a plain list of
// domains (all Persistent) or a map keyed by domain.
func Decode(data []byte) (cfg *policy.Config, upgraded bool, err error) {
	cfg = policy.DefaultConfig()
	if len(bytes.TrimSpace(data)) == 0 {
		return cfg, false, nil
	}
	var f fileConfig
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, false, fmt.Errorf("parse config: %w", err)
	}
	if f.ThirdParty != "" {
		tp, err := policy.ParseThirdPartyPolicy(f.ThirdParty)
		if err != nil {
			return nil, false, err
		}
		cfg.ThirdParty = tp
	}
	if f.IgnoreSettingsWarning != nil {
		cfg.IgnoreSettingsWarning = *f.IgnoreSettingsWarning
	}
	if f.ScriptHash != "" {
		if err := csp.ValidateHash(f.ScriptHash); err != nil {
			return nil, false, fmt.Errorf("parse config: scriptHash: %w", err)
		}
		cfg.ScriptHash = f.ScriptHash
	}

	entries, upgraded, err := decodeAllowList(&f.AllowList)
	if err != nil {
		return nil, false, err
	}
	cfg.AllowList = allowlist.New(entries...)
	return cfg, upgraded, nil
}

func decodeAllowList(n *yaml.Node) ([]allowlist.Entry, bool, error) {
	switch n.Kind {
	case 0:
		return nil, false, nil
	case yaml.ScalarNode:
		if n.Tag == "!!null" {
			return nil, false, nil
		}
	case yaml.SequenceNode:
		var (
			entries []allowlist.Entry
			legacy  bool
		)
		for _, item := range n.Content {
			if item.Kind == yaml.ScalarNode {
				legacy = true
				entries = append(entries, allowlist.Entry{Domain: item.Value, AllowType: allowlist.Persistent})
				continue
			}
			var fe fileEntry
			if err := item.Decode(&fe); err != nil {
				return nil, false, fmt.Errorf("parse allowList entry: %w", err)
			}
			e, err := fe.entry()
			if err != nil {
				return nil, false, err
			}
			entries = append(entries, e)
		}
		return entries, legacy, nil
	case yaml.MappingNode:
		var entries []allowlist.Entry
		for i := 0; i+1 < len(n.Content); i += 2 {
			var fe fileEntry
			if err := n.Content[i+1].Decode(&fe); err != nil {
				return nil, false, fmt.Errorf("parse allowList entry %q: %w", n.Content[i].Value, err)
			}
			fe.Domain = n.Content[i].Value
			e, err := fe.entry()
			if err != nil {
				return nil, false, err
			}
			entries = append(entries, e)
		}
		return entries, true, nil
	}
	return nil, false, fmt.Errorf("parse config: allowList must be a list, line %d", n.Line)
}

func (fe fileEntry) entry() (allowlist.Entry, error) {
	t := allowlist.Persistent
	if fe.AllowType != "" {
		var err error
		if t, err = allowlist.ParseAllowType(fe.AllowType); err != nil {
			return allowlist.Entry{}, err
		}
	}
	return allowlist.Entry{Domain: fe.Domain, AllowType: t}, nil
}

// Encode renders cfg in the current config.yaml layout.
func Encode(cfg *policy.Config) ([]byte, error) {
	out := fileOut{
		ThirdParty:            cfg.ThirdParty.String(),
		IgnoreSettingsWarning: cfg.IgnoreSettingsWarning,
		ScriptHash:            cfg.ScriptHash,
		AllowList:             []fileEntry{},
	}
	for _, e := range cfg.AllowList.Entries() {
		out.AllowList = append(out.AllowList, fileEntry{Domain: e.Domain, AllowType: e.AllowType.String()})
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return buf.Bytes(), nil
}
