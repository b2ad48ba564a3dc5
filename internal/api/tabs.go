package api

import (
	"github.com/craigmiskell/cookiemaster/common"
)

func (s *Api) BeforeNavigate(p common.NavigationParams) {
	s.log.Debug("navigate: tab %d frame %d: %s", p.TabID, p.FrameID, p.URL)
	s.tabs.BeforeNavigate(p.TabID, p.FrameID, p.URL)
}

func (s *Api) NavigationCompleted(p common.NavigationParams) {
	s.tabs.NavigationCompleted(p.TabID, p.FrameID)
}

// RequestStarted notes the host of a request a tab made.
func (s *Api) RequestStarted(p common.NavigationParams) error {
	host, err := hostOf(p.URL)
	if err != nil {
		return err
	}
	s.tabs.RequestStarted(p.TabID, host)
	return nil
}

func (s *Api) TabRemoved(p common.TabParams) {
	s.log.Debug("tab %d removed", p.TabID)
	s.tabs.RemoveTab(p.TabID)
}

// TabActivity returns what the popup shows for a tab: its own state plus
// the tab-less per-domain table.
func (s *Api) TabActivity(p common.TabParams) common.TabActivityResult {
	domains, updated := s.tabs.Domains()
	res := common.TabActivityResult{Domains: domains, Updated: updated}
	if tab, ok := s.tabs.Tab(p.TabID); ok {
		res.Tab = &tab
	}
	return res
}
