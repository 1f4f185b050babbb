package importer

// Row is one spreadsheet row: the header list in source column order plus
// the raw cell per header. Order matters for alias conflicts.
type Row struct {
	Headers []string
	Cells   map[string]any
}

// NormalizedRow is the output of field normalization for one row.
type NormalizedRow struct {
	// Fields holds canonical student columns that were present and
	// non-empty. A missing key means "not provided", which later drives
	// update-only-present-fields.
	Fields map[string]string
	// Extras collects sanitized values of columns the alias table does not
	// know, keyed by source column name.
	Extras map[string]string
	// CohortLabel is the class token carried by the série/ano column.
	CohortLabel string
}

// Normalize maps one source row onto canonical fields and an extras bag.
// When several source columns alias to the same canonical field, the first
// populated one in column order wins and later ones are dropped; this keeps
// the structured list columns ahead of free-text header duplicates.
func Normalize(row Row) NormalizedRow {
	out := NormalizedRow{
		Fields: make(map[string]string),
		Extras: make(map[string]string),
	}

	for _, header := range row.Headers {
		value := SanitizeCell(row.Cells[header])
		if value == "" {
			continue
		}

		canonical, known := aliasTable[header]
		if !known {
			out.Extras[header] = value
			continue
		}

		if canonical == cohortLabelKey {
			if out.CohortLabel == "" {
				out.CohortLabel = value
			}
			continue
		}

		if !IsStudentColumn(canonical) {
			continue
		}
		if _, filled := out.Fields[canonical]; filled {
			continue
		}
		out.Fields[canonical] = value
	}

	return out
}
