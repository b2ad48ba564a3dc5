package cookiestore

import (
	"fmt"
	"time"
)

// chromeEpochOffsetSeconds separates the Windows NT epoch (1601-01-01) from
// the Unix epoch.
const chromeEpochOffsetSeconds int64 = 11_644_473_600

func chromeToTime(usec int64) time.Time {
	return time.Unix(usec/1_000_000-chromeEpochOffsetSeconds, 0).UTC()
}

func timeToChrome(t time.Time) int64 {
	return (t.Unix() + chromeEpochOffsetSeconds) * 1_000_000
}

// ReadChrome reads cookies from a copy of a Chromium-family Cookies file.
// Encrypted cookies (empty value column) and expired cookies are skipped.
// An expires_utc of 0 is a session cookie.
func ReadChrome(dbPath string, opts Options) ([]Record, error) {
	db, err := openImmutable(dbPath)
	if err != nil {
		return nil, fmt.Errorf("error: cannot open Chrome cookie database: %w", err)
	}
	defer db.Close()

	where, args := domainClause("host_key", opts.Domain)
	args = append(args, timeToChrome(opts.now()))
	rows, err := db.Query(`
        SELECT name, value, host_key, path, expires_utc, is_secure, is_httponly
        FROM cookies
        WHERE `+where+`
          AND value != ''
          AND (expires_utc = 0 OR expires_utc > ?)
        ORDER BY host_key ASC, path DESC, name ASC
    `, args...)
	if err != nil {
		return nil, fmt.Errorf("error: failed to query Chrome cookies: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			r                    Record
			expiresUTC           int64
			isSecure, isHTTPOnly int
		)
		if err := rows.Scan(&r.Name, &r.Value, &r.Domain, &r.Path, &expiresUTC, &isSecure, &isHTTPOnly); err != nil {
			return nil, fmt.Errorf("error: failed to scan Chrome cookie row: %w", err)
		}
		if expiresUTC != 0 {
			r.Expires = chromeToTime(expiresUTC)
		}
		r.Secure = isSecure != 0
		r.HTTPOnly = isHTTPOnly != 0
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error: failed to iterate Chrome cookie rows: %w", err)
	}
	return records, nil
}
