package scrape

import (
	"regexp"
	"strconv"
	"strings"
)

// ParseCount parses an integer cell value. Thousands separators are
// stripped, a leading + is accepted, and a lone "-" or empty string
// means the value is simply not published, so it yields nil rather
// than zero.
func ParseCount(s string) *int64 {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" || s == "-" {
		return nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil
	}
	return &v
}

var playerHrefRe = regexp.MustCompile(`/players/[^/]+/([^/]+)/`)

// ExtractPlayerID pulls the opaque player id out of a profile href.
func ExtractPlayerID(href string) string {
	m := playerHrefRe.FindStringSubmatch(href)
	if m == nil {
		return ""
	}
	return m[1]
}
