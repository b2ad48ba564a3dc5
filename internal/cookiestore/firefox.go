package cookiestore

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// openImmutable opens a SQLite file read-only without taking locks. The
// file should be a copy, not the browser's live database.
func openImmutable(dbPath string) (*sql.DB, error) {
	return sql.Open("sqlite", fmt.Sprintf("file:%s?immutable=1", dbPath))
}

// domainClause builds a WHERE fragment matching column against domain, its
// dotted form and its subdomains. An empty domain matches everything.
func domainClause(column, domain string) (string, []interface{}) {
	domain = strings.Trim(strings.ToLower(domain), ".")
	if domain == "" {
		return "1 = 1", nil
	}
	return fmt.Sprintf("(%[1]s = ? OR %[1]s = ? OR %[1]s LIKE ?)", column),
		[]interface{}{domain, "." + domain, "%." + domain}
}

// ReadFirefox reads cookies from a copy of a Firefox cookies.sqlite file.
// Expired cookies are skipped.
func ReadFirefox(dbPath string, opts Options) ([]Record, error) {
	db, err := openImmutable(dbPath)
	if err != nil {
		return nil, fmt.Errorf("error: cannot open Firefox cookie database: %w", err)
	}
	defer db.Close()

	where, args := domainClause("host", opts.Domain)
	args = append(args, opts.now().Unix())
	rows, err := db.Query(`
        SELECT name, value, host, path, expiry, isSecure, isHttpOnly
        FROM moz_cookies
        WHERE `+where+` AND expiry > ?
        ORDER BY host ASC, path DESC, name ASC
    `, args...)
	if err != nil {
		return nil, fmt.Errorf("error: failed to query Firefox cookies: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			r                    Record
			expiry               int64
			isSecure, isHTTPOnly int
		)
		if err := rows.Scan(&r.Name, &r.Value, &r.Domain, &r.Path, &expiry, &isSecure, &isHTTPOnly); err != nil {
			return nil, fmt.Errorf("error: failed to scan Firefox cookie row: %w", err)
		}
		r.Expires = time.Unix(expiry, 0).UTC()
		r.Secure = isSecure != 0
		r.HTTPOnly = isHTTPOnly != 0
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error: failed to iterate Firefox cookie rows: %w", err)
	}
	return records, nil
}
