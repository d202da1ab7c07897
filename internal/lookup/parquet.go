package lookup

import (
	"bytes"
	"fmt"

	parquet "github.com/parquet-go/parquet-go"
)

type parquetRow struct {
	Name   string `parquet:"Name,optional"`
	League string `parquet:"League,optional"`
	Team   string `parquet:"Team,optional"`
	Link   string `parquet:"Link,optional"`
}

func parseParquet(b []byte) ([]PlayerRecord, error) {
	rows, err := parquet.Read[parquetRow](bytes.NewReader(b), int64(len(b)))
	if err != nil {
		return nil, fmt.Errorf("read parquet: %w", err)
	}
	out := make([]PlayerRecord, 0, len(rows))
	for _, r := range rows {
		out = append(out, PlayerRecord{Name: r.Name, League: r.League, Team: r.Team, Link: r.Link})
	}
	return out, nil
}
