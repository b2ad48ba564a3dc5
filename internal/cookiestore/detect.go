package cookiestore

import (
	"bytes"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrUnsupportedStore is returned for files that are not a known cookie store.
var ErrUnsupportedStore = errors.New("unsupported cookie store")

var sqliteMagic = []byte("SQLite format 3\x00")

// checkFile rejects paths that cannot hold a cookie store.
func checkFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("error: cookie store not found: %s", path)
	}
	if info.IsDir() {
		return fmt.Errorf("error: %s is a directory, expected a cookie store file", path)
	}
	if info.Size() == 0 {
		return fmt.Errorf("error: cookie store at %s is empty", path)
	}
	return nil
}

// DetectFormat sniffs the file at path: SQLite files are told apart by their
// cookie table, text files by the Netscape header line.
func DetectFormat(path string) (Format, error) {
	if err := checkFile(path); err != nil {
		return FormatUnknown, err
	}
	f, err := os.Open(path)
	if err != nil {
		return FormatUnknown, fmt.Errorf("error: cannot open cookie store: %w", err)
	}
	defer f.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return FormatUnknown, fmt.Errorf("error: cannot read cookie store: %w", err)
	}
	head = head[:n]

	if bytes.HasPrefix(head, sqliteMagic) {
		return detectSQLiteFormat(path)
	}

	first, _, _ := strings.Cut(string(head), "\n")
	switch strings.TrimRight(first, "\r") {
	case "# Netscape HTTP Cookie File", "# HTTP Cookie File":
		return FormatNetscape, nil
	}
	return FormatUnknown, fmt.Errorf("error: %w at %s", ErrUnsupportedStore, path)
}

func detectSQLiteFormat(path string) (Format, error) {
	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s?mode=ro", path))
	if err != nil {
		return FormatUnknown, fmt.Errorf("error: cannot open SQLite database: %w", err)
	}
	defer db.Close()

	tables := []struct {
		name   string
		format Format
	}{
		{"moz_cookies", FormatFirefox},
		{"cookies", FormatChrome},
	}
	for _, tbl := range tables {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, tbl.name).Scan(&name)
		if err == nil {
			return tbl.format, nil
		}
	}
	return FormatUnknown, fmt.Errorf("error: %w at %s", ErrUnsupportedStore, path)
}
