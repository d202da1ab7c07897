package lookup

import (
	"fmt"
	"strings"
)

// required columns of the lookup table, matched case-insensitively
var requiredCols = []string{"Name", "League", "Team", "Link"}

// recordsFromRows turns a header row plus data rows (csv, xlsx and Athena all
// come in this shape) into player records.
func recordsFromRows(rows [][]string) ([]PlayerRecord, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("empty table")
	}
	hdr := rows[0]
	idx := make(map[string]int, len(requiredCols))
	var missing []string
	for _, col := range requiredCols {
		i := idxOf(hdr, col)
		if i < 0 {
			missing = append(missing, col)
			continue
		}
		idx[col] = i
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("required columns missing: %s", strings.Join(missing, ", "))
	}

	out := make([]PlayerRecord, 0, len(rows)-1)
	for _, rec := range rows[1:] {
		out = append(out, PlayerRecord{
			Name:   get(rec, idx["Name"]),
			League: get(rec, idx["League"]),
			Team:   get(rec, idx["Team"]),
			Link:   get(rec, idx["Link"]),
		})
	}
	return out, nil
}

func idxOf(hdr []string, name string) int {
	for i, h := range hdr {
		h = strings.TrimPrefix(h, "\ufeff") // Excel CSV exports lead with a BOM
		if strings.EqualFold(strings.TrimSpace(h), name) {
			return i
		}
	}
	return -1
}

func get(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}
