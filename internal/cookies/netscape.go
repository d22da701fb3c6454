package cookies

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xplore-go/xplore/pkg/logger"
)

const httpOnlyPrefix = "#HttpOnly_"

// parseNetscape reads a Netscape cookies.txt export. Comment lines are
// skipped except for the #HttpOnly_ marker; malformed lines are logged by
// line number and skipped. Expiry 0 means a session cookie.
func parseNetscape(r io.Reader, domains []string, now time.Time, log logger.Logger) ([]Cookie, error) {
	var out []Cookie
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}

		httpOnly := strings.HasPrefix(line, httpOnlyPrefix)
		if httpOnly {
			line = line[len(httpOnlyPrefix):]
		} else if strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) != 7 {
			log.Warning("cookies: skipping malformed line %d", lineNo)
			continue
		}
		expiry, err := strconv.ParseInt(fields[4], 10, 64)
		if err != nil {
			log.Warning("cookies: skipping line %d with invalid expiry", lineNo)
			continue
		}
		if domainRank(fields[0], domains) < 0 {
			continue
		}
		if expiry > 0 && time.Unix(expiry, 0).Before(now) {
			continue
		}
		out = append(out, Cookie{
			Name:     fields[5],
			Value:    fields[6],
			Domain:   fields[0],
			Path:     fields[2],
			Expiry:   time.Unix(expiry, 0),
			Secure:   strings.EqualFold(fields[3], "TRUE"),
			HTTPOnly: httpOnly,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read netscape cookie file: %w", err)
	}
	return out, nil
}
