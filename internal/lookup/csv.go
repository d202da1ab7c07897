package lookup

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

func parseCSV(b []byte) ([]PlayerRecord, error) {
	r := csv.NewReader(bytes.NewReader(b))
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return recordsFromRows(rows)
}
