package cookiestore

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const httpOnlyPrefix = "#HttpOnly_"

// ReadNetscape reads a Netscape cookies.txt file. Comment lines are skipped
// except #HttpOnly_ lines, which mark the cookie HttpOnly. Malformed lines
// are skipped with a warning. An expiry of 0 is a session cookie.
func ReadNetscape(filePath string, opts Options) ([]Record, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("error: cannot open Netscape cookie file: %w", err)
	}
	defer f.Close()

	var (
		now     = opts.now()
		log     = opts.log()
		domain  = strings.Trim(strings.ToLower(opts.Domain), ".")
		records []Record
		lineNo  int
	)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}
		httpOnly := strings.HasPrefix(line, httpOnlyPrefix)
		if httpOnly {
			line = line[len(httpOnlyPrefix):]
		} else if line[0] == '#' {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) != 7 {
			log.Warning("cookie store: skipping malformed line %d in %s", lineNo, filePath)
			continue
		}
		expiry, err := strconv.ParseInt(fields[4], 10, 64)
		if err != nil {
			log.Warning("cookie store: skipping cookie %q with invalid expiry on line %d", fields[5], lineNo)
			continue
		}
		r := Record{
			Domain:   fields[0],
			Path:     fields[2],
			Secure:   strings.EqualFold(fields[3], "TRUE"),
			Name:     fields[5],
			Value:    fields[6],
			HTTPOnly: httpOnly,
		}
		if domain != "" && !domainMatches(r.Domain, domain) {
			continue
		}
		if expiry > 0 {
			r.Expires = time.Unix(expiry, 0).UTC()
			if r.Expires.Before(now) {
				continue
			}
		}
		records = append(records, r)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error: failed to read Netscape cookie file: %w", err)
	}
	return records, nil
}

// domainMatches reports whether cookieDomain is domain, its dotted form or
// a subdomain of it. domain must be lower case without dots at either end.
func domainMatches(cookieDomain, domain string) bool {
	cookieDomain = strings.ToLower(cookieDomain)
	return cookieDomain == domain ||
		cookieDomain == "."+domain ||
		strings.HasSuffix(cookieDomain, "."+domain)
}
