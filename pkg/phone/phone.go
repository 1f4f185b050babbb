// Package phone extracts mobile numbers from the free-text phone blobs that
// come out of the registration spreadsheets. The heuristics here (9-digit
// mobile rule, exponential-notation repair) are deliberately isolated so
// they can be replaced without touching aggregation or alerting.
package phone

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Matches "(11) 987654321" style fragments. The local part may contain dots
// or exponential notation when the spreadsheet coerced the cell to a number
// (e.g. "9.87654321e+08").
var phonePattern = regexp.MustCompile(`\((\d{2})\)\s*([0-9][0-9.]*(?:[eE]\+?\d+)?)`)

const countryPrefix = "+55"

// ExtractMobiles returns the normalized mobile numbers found in blob, in
// first-seen order and deduplicated. Only 9-digit local numbers starting
// with 9 qualify (Brazilian mobile pattern); 8-digit landlines are dropped.
func ExtractMobiles(blob string) []string {
	var result []string
	seen := make(map[string]struct{})

	for _, m := range phonePattern.FindAllStringSubmatch(blob, -1) {
		area, local := m[1], repairLocal(m[2])
		if len(local) != 9 || local[0] != '9' {
			continue
		}
		number := countryPrefix + area + local
		if _, dup := seen[number]; dup {
			continue
		}
		seen[number] = struct{}{}
		result = append(result, number)
	}
	return result
}

// repairLocal turns a raw local part into a plain digit run, expanding the
// exponential notation spreadsheets produce for long numeric cells.
func repairLocal(raw string) string {
	if strings.ContainsAny(raw, "eE") {
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return ""
		}
		return strconv.FormatFloat(f, 'f', 0, 64)
	}
	return strings.ReplaceAll(raw, ".", "")
}

// HasMessagingChannel reports whether at least one mobile number can be
// extracted from blob.
func HasMessagingChannel(blob string) bool {
	return len(ExtractMobiles(blob)) > 0
}
