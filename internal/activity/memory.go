package activity

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MainFrame is the frame ID of a tab's top-level document.
const MainFrame = 0

// FrameDomains maps frame ID to config domain to the cookie domains it
// covered.
type FrameDomains map[int]map[string][]string

// TabActivity is a snapshot of one tab's bookkeeping.
type TabActivity struct {
	TabID             int                  `json:"tabId"`
	Frames            map[int]string       `json:"frames"`
	DomainsFetched    map[string]time.Time `json:"domainsFetched"`
	AllowedFirstParty FrameDomains         `json:"allowedFirstParty"`
	AllowedThirdParty FrameDomains         `json:"allowedThirdParty"`
	BlockedFirstParty FrameDomains         `json:"blockedFirstParty"`
	BlockedThirdParty FrameDomains         `json:"blockedThirdParty"`
	Created           time.Time            `json:"created"`
	Updated           time.Time            `json:"updated"`
}

// DomainActivity is when each cookie domain was last allowed or blocked
// under one config domain, for events that carry no tab.
type DomainActivity struct {
	Allowed map[string]time.Time `json:"allowed,omitempty"`
	Blocked map[string]time.Time `json:"blocked,omitempty"`
}

type frameSets map[int]map[string]map[string]struct{}

func (f frameSets) add(frame int, configDomain, cookieDomain string) {
	byConfig, ok := f[frame]
	if !ok {
		byConfig = make(map[string]map[string]struct{})
		f[frame] = byConfig
	}
	set, ok := byConfig[configDomain]
	if !ok {
		set = make(map[string]struct{})
		byConfig[configDomain] = set
	}
	set[cookieDomain] = struct{}{}
}

func (f frameSets) snapshot() FrameDomains {
	out := make(FrameDomains, len(f))
	for frame, byConfig := range f {
		m := make(map[string][]string, len(byConfig))
		for cd, set := range byConfig {
			list := make([]string, 0, len(set))
			for d := range set {
				list = append(list, d)
			}
			sort.Strings(list)
			m[cd] = list
		}
		out[frame] = m
	}
	return out
}

type tabState struct {
	frames         map[int]string
	domainsFetched map[string]time.Time
	allowed        [2]frameSets
	blocked        [2]frameSets
	created        time.Time
	updated        time.Time
}

func partyIndex(p Party) int {
	if p == ThirdParty {
		return 1
	}
	return 0
}

// Memory keeps per-tab and per-domain activity in memory. Tab state is
// cleared when the tab navigates its main frame or closes.
type Memory struct {
	mu      sync.Mutex
	tabs    map[int]*tabState
	domains map[string]*DomainActivity
	updated time.Time
	now     func() time.Time
}

// NewMemory returns an empty tracker using the wall clock.
func NewMemory() *Memory {
	return NewMemoryWithClock(time.Now)
}

// NewMemoryWithClock returns an empty tracker using now for timestamps.
func NewMemoryWithClock(now func() time.Time) *Memory {
	return &Memory{
		tabs:    make(map[int]*tabState),
		domains: make(map[string]*DomainActivity),
		now:     now,
	}
}

func (m *Memory) tab(id int) *tabState {
	t, ok := m.tabs[id]
	if !ok {
		now := m.now()
		t = &tabState{
			frames:         make(map[int]string),
			domainsFetched: make(map[string]time.Time),
			allowed:        [2]frameSets{make(frameSets), make(frameSets)},
			blocked:        [2]frameSets{make(frameSets), make(frameSets)},
			created:        now,
			updated:        now,
		}
		m.tabs[id] = t
	}
	return t
}

// Record stores an event against its tab, or against the global domain
// table when it has no tab.
func (m *Memory) Record(_ context.Context, e Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	if !e.Time.IsZero() {
		now = e.Time
	}
	configDomain := e.ConfigDomain
	if configDomain == "" {
		configDomain = e.CookieDomain
	}

	if e.TabID == NoTab {
		d, ok := m.domains[configDomain]
		if !ok {
			d = &DomainActivity{}
			m.domains[configDomain] = d
		}
		target := &d.Blocked
		if e.Allowed {
			target = &d.Allowed
		}
		if *target == nil {
			*target = make(map[string]time.Time)
		}
		(*target)[e.CookieDomain] = now
		m.updated = now
		return nil
	}

	t := m.tab(e.TabID)
	sets := t.blocked
	if e.Allowed {
		sets = t.allowed
	}
	sets[partyIndex(e.Party)].add(e.FrameID, configDomain, e.CookieDomain)
	t.updated = now
	return nil
}

// BeforeNavigate notes the URL a frame is about to load. A main frame
// navigation starts the tab afresh.
func (m *Memory) BeforeNavigate(tabID, frameID int, url string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if frameID == MainFrame {
		delete(m.tabs, tabID)
	}
	m.tab(tabID).frames[frameID] = url
}

// NavigationCompleted forgets the pending URL of a frame, once the tab
// itself reports it.
func (m *Memory) NavigationCompleted(tabID, frameID int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.tabs[tabID]; ok {
		delete(t.frames, frameID)
	}
}

// SetFrameURL replaces the URL recorded for a frame, e.g. after a redirect.
func (m *Memory) SetFrameURL(tabID, frameID int, url string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tab(tabID).frames[frameID] = url
}

// FrameURL returns the URL a frame is loading, if known.
func (m *Memory) FrameURL(tabID, frameID int) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tabs[tabID]
	if !ok {
		return "", false
	}
	u, ok := t.frames[frameID]
	return u, ok
}

// RequestStarted notes a host fetched by a tab.
func (m *Memory) RequestStarted(tabID int, host string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	t := m.tab(tabID)
	t.domainsFetched[host] = now
	t.updated = now
	if _, ok := m.domains[host]; !ok {
		m.domains[host] = &DomainActivity{}
	}
}

// RemoveTab drops a closed tab's state.
func (m *Memory) RemoveTab(tabID int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tabs, tabID)
}

// Tab returns a copy of a tab's state.
func (m *Memory) Tab(tabID int) (TabActivity, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tabs[tabID]
	if !ok {
		return TabActivity{}, false
	}
	out := TabActivity{
		TabID:             tabID,
		Frames:            make(map[int]string, len(t.frames)),
		DomainsFetched:    make(map[string]time.Time, len(t.domainsFetched)),
		AllowedFirstParty: t.allowed[0].snapshot(),
		AllowedThirdParty: t.allowed[1].snapshot(),
		BlockedFirstParty: t.blocked[0].snapshot(),
		BlockedThirdParty: t.blocked[1].snapshot(),
		Created:           t.created,
		Updated:           t.updated,
	}
	for k, v := range t.frames {
		out.Frames[k] = v
	}
	for k, v := range t.domainsFetched {
		out.DomainsFetched[k] = v
	}
	return out, true
}

// Domains returns a copy of the per-domain table and when it last changed.
func (m *Memory) Domains() (map[string]DomainActivity, time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]DomainActivity, len(m.domains))
	for k, v := range m.domains {
		c := DomainActivity{}
		if v.Allowed != nil {
			c.Allowed = make(map[string]time.Time, len(v.Allowed))
			for d, ts := range v.Allowed {
				c.Allowed[d] = ts
			}
		}
		if v.Blocked != nil {
			c.Blocked = make(map[string]time.Time, len(v.Blocked))
			for d, ts := range v.Blocked {
				c.Blocked[d] = ts
			}
		}
		out[k] = c
	}
	return out, m.updated
}

var _ Recorder = (*Memory)(nil)
