package importer

import (
	"encoding/json"
	"strings"
)

// Draft is a candidate student built from one row: sparse canonical fields,
// the serialized extras bag, and the class label token (possibly empty).
type Draft struct {
	Fields      map[string]string
	CohortLabel string
}

// Name returns the draft's legal name.
func (d Draft) Name() string {
	return d.Fields["nome"]
}

// RA returns the draft's registration number.
func (d Draft) RA() string {
	return d.Fields["ra"]
}

// BuildDrafts normalizes rows into drafts, discarding rows whose legal name
// is empty after sanitization. The extras bag is serialized into the
// dados_json field so it travels with the other columns.
func BuildDrafts(rows []Row) (drafts []Draft, skipped int) {
	for _, row := range rows {
		normalized := Normalize(row)

		if strings.TrimSpace(normalized.Fields["nome"]) == "" {
			skipped++
			continue
		}

		if len(normalized.Extras) > 0 {
			// Marshalling map[string]string cannot fail.
			payload, _ := json.Marshal(normalized.Extras)
			normalized.Fields["dados_json"] = string(payload)
		}

		drafts = append(drafts, Draft{
			Fields:      normalized.Fields,
			CohortLabel: normalized.CohortLabel,
		})
	}
	return drafts, skipped
}
