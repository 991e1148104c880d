package schema

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// ParseCSV splits a raw CSV object into its header and data rows. Ragged
// rows are tolerated here; the validator and the cleaning stage decide what
// to do with them.
func ParseCSV(data []byte) (header []string, rows [][]string, err error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("parsing csv: %w", err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("parsing csv: empty input")
	}
	return records[0], records[1:], nil
}
