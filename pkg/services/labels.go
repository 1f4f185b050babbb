package services

import (
	"regexp"
	"strings"

	"github.com/dansfisica85/dalmaso/pkg/models"
)

// External exports label classes descriptively, e.g.
// "6º ANO A - MANHÃ - 260123" or "1ª SÉRIE B - NOITE - 260980". The local
// roster uses short tokens ("6A", "1B"), so alert matching needs this
// parsing step.

var classTokenPattern = regexp.MustCompile(`(\d+)º\s*ANO\s*([A-ZÇ])|(\d+)ª\s*S[ÉE]RIE\s*([A-ZÇ])`)

var shiftKeywords = []string{"MANHÃ", "TARDE", "NOITE", "INTEGRAL"}

// ParseClassLabel extracts the short class token and the shift keyword from
// a descriptive external label. Unparseable labels return an empty token
// and are skipped by callers.
func ParseClassLabel(label string) models.ParsedClassLabel {
	upper := strings.ToUpper(strings.TrimSpace(label))

	// Trailing " - <id>" suffix carries the network's internal class id.
	if idx := strings.LastIndex(upper, " - "); idx >= 0 {
		if isDigits(strings.TrimSpace(upper[idx+3:])) {
			upper = strings.TrimSpace(upper[:idx])
		}
	}

	var parsed models.ParsedClassLabel
	for _, kw := range shiftKeywords {
		if strings.Contains(upper, kw) {
			parsed.Shift = kw
			break
		}
	}

	if m := classTokenPattern.FindStringSubmatch(upper); m != nil {
		if m[1] != "" {
			parsed.Token = m[1] + m[2]
		} else {
			parsed.Token = m[3] + m[4]
		}
	}
	return parsed
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
