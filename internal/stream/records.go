package stream

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/graphsheet/graphsheet/internal/graph"
)

// RecordsFromMatrix converts a worksheet value matrix into records.
//
// headerRow is 1-based; 0 means no header. When a header row is set, that
// row is consumed as column keys and never emitted as data; rows above it
// (title rows, notes) are skipped, so the first record is the row just
// below the header. Column-key
// disambiguation is deterministic: the first occurrence of a non-blank
// header text owns that key; blank headers, duplicate headers, and cells
// beyond the header row's width fall back to the positional key "col_n"
// (n = 1-based column index).
//
// An empty matrix yields zero records — a blank worksheet is a valid, not
// erroneous, outcome.
func RecordsFromMatrix(matrix graph.Matrix, headerRow int) []Record {
	if len(matrix) == 0 {
		return nil
	}

	var keys []string

	headerIdx := headerRow - 1
	if headerRow > 0 {
		// A header row at or past the end of the matrix leaves no data
		// rows below it.
		if headerIdx >= len(matrix) {
			return nil
		}

		keys = columnKeys(matrix[headerIdx])
	}

	records := make([]Record, 0, len(matrix))

	for i, row := range matrix {
		if keys != nil && i <= headerIdx {
			continue
		}

		rec := Record{
			RowNumber: i + 1,
			Columns:   make([]string, len(row)),
			Data:      make(map[string]any, len(row)),
		}

		for j, cell := range row {
			key := positionalKey(j)
			if j < len(keys) {
				key = keys[j]
			}

			rec.Columns[j] = key
			rec.Data[key] = cell
		}

		records = append(records, rec)
	}

	return records
}

// columnKeys derives column keys from a header row. First non-blank
// occurrence wins; blanks and duplicates get positional keys.
func columnKeys(header []any) []string {
	keys := make([]string, len(header))
	seen := make(map[string]bool, len(header))

	for j, cell := range header {
		text := strings.TrimSpace(cellText(cell))
		if text == "" || seen[text] {
			keys[j] = positionalKey(j)

			continue
		}

		seen[text] = true
		keys[j] = text
	}

	return keys
}

// positionalKey returns the synthetic key for the 0-based column index j.
func positionalKey(j int) string {
	return "col_" + strconv.Itoa(j+1)
}

// cellText renders a header cell as text. Non-string header cells (a date,
// a number) still make usable column keys.
func cellText(cell any) string {
	switch v := cell.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}
