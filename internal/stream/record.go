// Package stream converts worksheet value matrices into row records and
// manages the catalog of configured streams: unique naming, extraction, and
// parallel reads with per-stream failure isolation.
package stream

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Record is one emitted row. RowNumber is the row's 1-based position within
// the returned matrix, counting any consumed header row. Data maps column
// keys to cell values; Columns preserves the worksheet's column order,
// which Go maps would otherwise lose.
type Record struct {
	RowNumber int
	Columns   []string
	Data      map[string]any
}

// MarshalJSON emits {"row_number": N, "data": {...}} with data keys in
// worksheet column order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(`{"row_number":`)
	buf.WriteString(strconv.Itoa(r.RowNumber))
	buf.WriteString(`,"data":{`)

	for i, col := range r.Columns {
		if i > 0 {
			buf.WriteByte(',')
		}

		key, err := json.Marshal(col)
		if err != nil {
			return nil, fmt.Errorf("stream: marshaling column key %q: %w", col, err)
		}

		buf.Write(key)
		buf.WriteByte(':')

		val, err := json.Marshal(r.Data[col])
		if err != nil {
			return nil, fmt.Errorf("stream: marshaling cell for column %q: %w", col, err)
		}

		buf.Write(val)
	}

	buf.WriteString("}}")

	return buf.Bytes(), nil
}
