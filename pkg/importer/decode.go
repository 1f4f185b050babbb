package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/dansfisica85/dalmaso/pkg/apperrors"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Candidate encodings in probe order. UTF-8 with signature first so a BOM
// never leaks into the first header; the Windows-1252 family last because
// its decoders accept nearly any byte stream.
var candidateEncodings = []struct {
	name string
	enc  encoding.Encoding // nil means plain UTF-8 validity check
	bom  bool
}{
	{name: "utf-8-sig", enc: nil, bom: true},
	{name: "utf-8", enc: nil},
	{name: "windows-1252", enc: charmap.Windows1252},
	{name: "iso-8859-1", enc: charmap.ISO8859_1},
}

var candidateDelimiters = []rune{';', ','}

// DecodeDelimited recovers rows from a delimited text file of unknown
// encoding and delimiter. The first (encoding, delimiter) pair that decodes
// cleanly and yields a header with more than one column wins. Returns
// *apperrors.DecodeError when nothing works or the result has no data rows.
func DecodeDelimited(data []byte) ([]Row, error) {
	var attempts []string
	var lastErr error

	for _, ce := range candidateEncodings {
		text, ok := decodeBytes(data, ce.enc, ce.bom)
		if !ok {
			attempts = append(attempts, ce.name)
			continue
		}

		for _, delim := range candidateDelimiters {
			attempts = append(attempts, fmt.Sprintf("%s/%q", ce.name, delim))

			rows, err := parseCSV(text, delim)
			if err != nil {
				lastErr = err
				continue
			}
			if rows == nil {
				continue // single-column header: wrong delimiter
			}
			if len(rows) == 0 {
				return nil, &apperrors.DecodeError{Attempts: attempts, Cause: fmt.Errorf("no data rows")}
			}
			return rows, nil
		}
	}

	return nil, &apperrors.DecodeError{Attempts: attempts, Cause: lastErr}
}

func decodeBytes(data []byte, enc encoding.Encoding, wantBOM bool) (string, bool) {
	if enc == nil {
		if wantBOM {
			if !bytes.HasPrefix(data, utf8BOM) {
				return "", false
			}
			data = data[len(utf8BOM):]
		}
		if !utf8.Valid(data) {
			return "", false
		}
		return string(data), true
	}

	decoded, _, err := transform.Bytes(enc.NewDecoder(), data)
	if err != nil || !utf8.Valid(decoded) {
		return "", false
	}
	return string(decoded), true
}

// parseCSV returns (nil, nil) when the header has a single column, which
// signals the caller to try the next delimiter.
func parseCSV(text string, delim rune) ([]Row, error) {
	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = delim
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 || len(records[0]) <= 1 {
		return nil, nil
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
