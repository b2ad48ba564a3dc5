package api

import (
	"github.com/craigmiskell/cookiemaster/common"
	"github.com/craigmiskell/cookiemaster/pkg/logger"
)

// Logs returns ring entries newer than p.Since.
func (s *Api) Logs(p common.LogsParams) common.LogsResult {
	if s.ring == nil {
		return common.LogsResult{Entries: []logger.Entry{}}
	}
	entries := s.ring.Entries(p.Since)
	if entries == nil {
		entries = []logger.Entry{}
	}
	return common.LogsResult{Entries: entries}
}

// LogLevel returns the level of the Api's logger, or INFO when it is not
// adjustable.
func (s *Api) LogLevel() logger.Level {
	if l, ok := s.log.(logger.Leveled); ok {
		return l.Level()
	}
	return logger.LevelInfo
}

func (s *Api) SetLogLevel(p common.LogLevelParams) logger.Level {
	if l, ok := s.log.(logger.Leveled); ok {
		l.SetLevel(p.Level)
		s.log.Info("log level set to %s", p.Level)
	}
	return s.LogLevel()
}
