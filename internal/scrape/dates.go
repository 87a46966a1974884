package scrape

import (
	"fmt"
	"regexp"
	"strings"
)

var monthNumbers = map[string]string{
	"January": "01", "February": "02", "March": "03", "April": "04",
	"May": "05", "June": "06", "July": "07", "August": "08",
	"September": "09", "October": "10", "November": "11", "December": "12",
}

var (
	// "3 - 9 January, 2022"
	singleMonthRe = regexp.MustCompile(`^(\d+)\s*-\s*(\d+)\s+([A-Za-z]+),?\s+(\d{4})`)
	// "27 October - 2 November, 2025"
	crossMonthRe = regexp.MustCompile(`^(\d+)\s+([A-Za-z]+)\s*-\s*(\d+)\s+([A-Za-z]+),?\s+(\d{4})`)
	// "23 December, 2024 - 5 January, 2025"
	crossYearRe = regexp.MustCompile(`^(\d+)\s+([A-Za-z]+),?\s+(\d{4})\s*-\s*(\d+)\s+([A-Za-z]+),?\s+(\d{4})`)
)

// ParseDateRange parses the three tournament date layouts the archive
// uses into ISO start/end dates. Anything else yields (nil, nil); a
// bad date label must never sink the whole document.
func ParseDateRange(s string) (start, end *string) {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return nil, nil
	}

	if m := singleMonthRe.FindStringSubmatch(s); m != nil {
		month := monthNumber(m[3])
		return isoDate(m[4], month, m[1]), isoDate(m[4], month, m[2])
	}

	if m := crossMonthRe.FindStringSubmatch(s); m != nil {
		return isoDate(m[5], monthNumber(m[2]), m[1]), isoDate(m[5], monthNumber(m[4]), m[3])
	}

	if m := crossYearRe.FindStringSubmatch(s); m != nil {
		return isoDate(m[3], monthNumber(m[2]), m[1]), isoDate(m[6], monthNumber(m[5]), m[4])
	}

	return nil, nil
}

func monthNumber(name string) string {
	if n, ok := monthNumbers[name]; ok {
		return n
	}
	return "01"
}

func isoDate(year, month, day string) *string {
	if len(day) == 1 {
		day = "0" + day
	}
	d := fmt.Sprintf("%s-%s-%s", year, month, day)
	return &d
}
