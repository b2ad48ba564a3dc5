package activity

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS events (
	id            TEXT PRIMARY KEY,
	ts            INTEGER NOT NULL,
	tab_id        INTEGER NOT NULL,
	frame_id      INTEGER NOT NULL,
	party         TEXT NOT NULL,
	allowed       INTEGER NOT NULL,
	source        TEXT NOT NULL,
	cookie_domain TEXT NOT NULL,
	config_domain TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS events_ts ON events (ts);
CREATE INDEX IF NOT EXISTS events_config_domain ON events (config_domain);
`

// Store keeps a history of events in SQLite.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// OpenStore opens (creating if needed) the history database at path. Use
// ":memory:" for a private in-memory database.
func OpenStore(path string) (*Store, error) {
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	if path == ":memory:" {
		dsn = ":memory:"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open activity database: %w", err)
	}
	// One connection keeps ":memory:" databases shared and serialises writes.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create activity schema: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

// Record inserts an event, assigning an ID and time when missing.
func (s *Store) Record(ctx context.Context, e Event) error {
	e = Stamp(e, s.now())
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO events (id, ts, tab_id, frame_id, party, allowed, source, cookie_domain, config_domain)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Time.UnixMilli(), e.TabID, e.FrameID, string(e.Party), boolInt(e.Allowed),
		string(e.Source), e.CookieDomain, e.ConfigDomain)
	if err != nil {
		return fmt.Errorf("record activity: %w", err)
	}
	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Filter narrows List results. Zero fields do not filter.
type Filter struct {
	Since time.Time
	// Domain matches either the cookie or the config domain, including
	// subdomains.
	Domain string
	// Allowed, when set, keeps only allowed (true) or blocked (false) events.
	Allowed *bool
	Limit   int
}

// List returns matching events, newest first.
func (s *Store) List(ctx context.Context, f Filter) ([]Event, error) {
	var (
		where []string
		args  []interface{}
	)
	if !f.Since.IsZero() {
		where = append(where, "ts >= ?")
		args = append(args, f.Since.UnixMilli())
	}
	if d := strings.Trim(strings.ToLower(f.Domain), "."); d != "" {
		where = append(where, "(cookie_domain IN (?, ?) OR cookie_domain LIKE ? OR config_domain IN (?, ?) OR config_domain LIKE ?)")
		args = append(args, d, "."+d, "%."+d, d, "."+d, "%."+d)
	}
	if f.Allowed != nil {
		where = append(where, "allowed = ?")
		args = append(args, boolInt(*f.Allowed))
	}
	q := "SELECT id, ts, tab_id, frame_id, party, allowed, source, cookie_domain, config_domain FROM events"
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY ts DESC, id"
	if f.Limit > 0 {
		q += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query activity: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var (
			e       Event
			ts      int64
			allowed int
			party   string
			source  string
		)
		if err := rows.Scan(&e.ID, &ts, &e.TabID, &e.FrameID, &party, &allowed, &source, &e.CookieDomain, &e.ConfigDomain); err != nil {
			return nil, fmt.Errorf("scan activity row: %w", err)
		}
		e.Time = time.UnixMilli(ts).UTC()
		e.Party = Party(party)
		e.Source = Source(source)
		e.Allowed = allowed != 0
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate activity rows: %w", err)
	}
	return events, nil
}

// Prune deletes events older than before and returns how many went.
func (s *Store) Prune(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM events WHERE ts < ?", before.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("prune activity: %w", err)
	}
	return res.RowsAffected()
}

var _ Recorder = (*Store)(nil)
