package importer

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/dansfisica85/dalmaso/pkg/apperrors"
)

// ParseFile turns raw upload bytes into rows. The filename extension only
// selects the parser family; it is checked before any decoding happens.
func ParseFile(content []byte, filename string) ([]Row, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xls":
		// .xls is accepted only for OOXML content behind the wrong
		// extension. Legacy BIFF workbooks fail decoding; excelize does
		// not read them.
		return parseWorkbook(content)
	case ".csv":
		return DecodeDelimited(content)
	default:
		return nil, fmt.Errorf("%w: %s", apperrors.ErrUnsupportedFormat, filepath.Ext(filename))
	}
}

func parseWorkbook(content []byte) ([]Row, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, &apperrors.DecodeError{Attempts: []string{"xlsx"}, Cause: err}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &apperrors.DecodeError{Attempts: []string{"xlsx"}, Cause: fmt.Errorf("workbook has no sheets")}
	}

	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, &apperrors.DecodeError{Attempts: []string{"xlsx"}, Cause: err}
	}
	if len(records) < 2 || len(records[0]) == 0 {
		return nil, &apperrors.DecodeError{Attempts: []string{"xlsx"}, Cause: fmt.Errorf("no data rows")}
	}

	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = strings.TrimSpace(h)
	}

	rows := make([]Row, 0, len(records)-1)
	for _, record := range records[1:] {
		cells := make(map[string]any, len(headers))
		for i, header := range headers {
			if header == "" {
				continue
			}
			if i < len(record) {
				cells[header] = record[i]
			}
		}
		rows = append(rows, Row{Headers: headers, Cells: cells})
	}
	return rows, nil
}
