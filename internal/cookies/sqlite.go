package cookies

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// chromeEpochOffset is the number of seconds between 1601-01-01 and the
// Unix epoch. Chrome stores expiry as microseconds since 1601.
const chromeEpochOffset int64 = 11_644_473_600

func chromeToUnix(usec int64) int64 {
	return usec/1_000_000 - chromeEpochOffset
}

func unixToChrome(sec int64) int64 {
	return (sec + chromeEpochOffset) * 1_000_000
}

// schema maps a browser's cookie table onto Cookie.
type schema struct {
	browser  string
	table    string
	host     string
	expiry   string
	secure   string
	httpOnly string
	// extra is ANDed into the WHERE clause.
	extra string
	// toStore converts a Unix time into the table's expiry unit, fromStore
	// the other way.
	toStore   func(int64) int64
	fromStore func(int64) int64
}

func identity(v int64) int64 { return v }

var (
	firefoxSchema = schema{
		browser: "Firefox", table: "moz_cookies", host: "host", expiry: "expiry",
		secure: "isSecure", httpOnly: "isHttpOnly",
		toStore: identity, fromStore: identity,
	}
	// Chrome rows with an empty value are OS-encrypted and cannot be used.
	chromeSchema = schema{
		browser: "Chrome", table: "cookies", host: "host_key", expiry: "expires_utc",
		secure: "is_secure", httpOnly: "is_httponly", extra: "value != ''",
		toStore: unixToChrome, fromStore: chromeToUnix,
	}
)

func (s schema) query(domains []string) (string, []any) {
	var (
		conds []string
		args  []any
	)
	for _, d := range domains {
		conds = append(conds, fmt.Sprintf("%[1]s = ? OR %[1]s = ? OR %[1]s LIKE ?", s.host))
		args = append(args, d, "."+d, "%."+d)
	}
	// expiry 0 marks a session-only cookie
	where := fmt.Sprintf("(%s) AND (%[2]s > ? OR %[2]s = 0)", strings.Join(conds, " OR "), s.expiry)
	if s.extra != "" {
		where += " AND " + s.extra
	}
	q := fmt.Sprintf(`SELECT name, value, %s, path, %s, %s, %s FROM %s WHERE %s ORDER BY name ASC`,
		s.host, s.expiry, s.secure, s.httpOnly, s.table, where)
	return q, args
}

// readSQLite loads unexpired session cookies from a copied database file.
func readSQLite(dbPath string, s schema, domains []string, now time.Time) ([]Cookie, error) {
	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s?mode=ro", dbPath))
	if err != nil {
		return nil, fmt.Errorf("open %s cookie database: %w", s.browser, err)
	}
	defer db.Close()

	q, args := s.query(domains)
	args = append(args, s.toStore(now.Unix()))
	rows, err := db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s cookies: %w", s.browser, err)
	}
	defer rows.Close()

	var out []Cookie
	for rows.Next() {
		var (
			c                Cookie
			expiry           int64
			secure, httpOnly int
		)
		if err := rows.Scan(&c.Name, &c.Value, &c.Domain, &c.Path, &expiry, &secure, &httpOnly); err != nil {
			return nil, fmt.Errorf("scan %s cookie row: %w", s.browser, err)
		}
		if expiry != 0 {
			expiry = s.fromStore(expiry)
		}
		c.Expiry = time.Unix(expiry, 0)
		c.Secure = secure != 0
		c.HTTPOnly = httpOnly != 0
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s cookie rows: %w", s.browser, err)
	}
	return out, nil
}

// sqliteSchema reports which cookie table a database holds.
func sqliteSchema(dbPath string) (schema, Format, error) {
	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s?mode=ro", dbPath))
	if err != nil {
		return schema{}, FormatUnknown, fmt.Errorf("open sqlite database: %w", err)
	}
	defer db.Close()

	for _, c := range []struct {
		s schema
		f Format
	}{{firefoxSchema, FormatFirefox}, {chromeSchema, FormatChrome}} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, c.s.table).Scan(&name)
		if err == nil {
			return c.s, c.f, nil
		}
	}
	return schema{}, FormatUnknown, ErrUnsupportedStore
}
