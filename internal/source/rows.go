package source

import (
	"slices"
	"strings"
	"unicode"

	"github.com/sells-group/okved-cli/internal/okved"
)

var (
	codeHeaders = []string{"код", "code", "код оквэд", "okved"}
	nameHeaders = []string{"название", "наименование", "name", "title"}
)

// columns holds the positions of the code and name fields in a record.
type columns struct {
	code int
	name int
}

var defaultColumns = columns{code: 0, name: 1}

// detectHeader reports whether record is a header row and where the code and
// name columns are. Labels are matched case-insensitively.
func detectHeader(record []string) (columns, bool) {
	cols := columns{code: -1, name: -1}
	for i, f := range record {
		label := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(f, "\ufeff")))
		switch {
		case cols.code < 0 && slices.Contains(codeHeaders, label):
			cols.code = i
		case cols.name < 0 && slices.Contains(nameHeaders, label):
			cols.name = i
		}
	}
	if cols.code < 0 || cols.name < 0 {
		return defaultColumns, false
	}
	return cols, true
}

// RowsFromRecords converts raw records into code/name rows. A recognised
// header in the first record selects the columns; otherwise the first two
// columns are used. Records with an empty code are skipped.
func RowsFromRecords(records [][]string) []okved.Row {
	if len(records) == 0 {
		return nil
	}

	cols, isHeader := detectHeader(records[0])
	if isHeader {
		records = records[1:]
	}

	rows := make([]okved.Row, 0, len(records))
	for _, rec := range records {
		code := NormalizeCode(field(rec, cols.code))
		if code == "" {
			continue
		}
		rows = append(rows, okved.Row{
			Code: code,
			Name: strings.TrimSpace(field(rec, cols.name)),
		})
	}
	return rows
}

// NormalizeCode trims whitespace and zero-pads a single-digit first segment
// ("1.11" -> "01.11"), which spreadsheet tools produce from numeric cells.
func NormalizeCode(code string) string {
	code = strings.TrimSpace(strings.TrimPrefix(code, "\ufeff"))
	if code == "" {
		return ""
	}
	first, rest, found := strings.Cut(code, ".")
	if len(first) == 1 && unicode.IsDigit(rune(first[0])) {
		first = "0" + first
	}
	if !found {
		return first
	}
	return first + "." + rest
}

func field(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return rec[i]
}
