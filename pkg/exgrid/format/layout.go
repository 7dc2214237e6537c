package format

import (
	"sort"
	"strings"
)

// DefaultDateFormat is used when rules name date columns without a format.
const DefaultDateFormat = "DD-MM-YYYY"

// dateTokens maps display tokens to Go reference layouts.
var dateTokens = map[string]string{
	"YYYY": "2006",
	"YY":   "06",
	"MMMM": "January",
	"MMM":  "Jan",
	"MM":   "01",
	"M":    "1",
	"DD":   "02",
	"D":    "2",
	"dddd": "Monday",
	"ddd":  "Mon",
	"HH":   "15",
	"hh":   "03",
	"mm":   "04",
	"ss":   "05",
	"A":    "PM",
}

var tokenOrder = func() []string {
	keys := make([]string, 0, len(dateTokens))
	for k := range dateTokens {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return keys
}()

// GoLayout converts a token format such as "DD-MM-YYYY" or "MMM D, YYYY"
// into a time layout. Unknown characters are copied through.
func GoLayout(format string) string {
	if format == "" {
		format = DefaultDateFormat
	}
	var b strings.Builder
	for i := 0; i < len(format); {
		matched := false
		for _, tok := range tokenOrder {
			if strings.HasPrefix(format[i:], tok) {
				b.WriteString(dateTokens[tok])
				i += len(tok)
				matched = true
				break
			}
		}
		if !matched {
			b.WriteByte(format[i])
			i++
		}
	}
	return b.String()
}

// SpreadsheetFormat converts a token format into a spreadsheet number format.
func SpreadsheetFormat(format string) string {
	if format == "" {
		format = DefaultDateFormat
	}
	r := strings.NewReplacer(
		"YYYY", "yyyy", "YY", "yy",
		"MMMM", "mmmm", "MMM", "mmm", "MM", "mm", "M", "m",
		"DD", "dd", "D", "d",
		"HH", "hh",
		"A", "AM/PM",
	)
	return r.Replace(format)
}
