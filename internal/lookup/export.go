package lookup

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	parquet "github.com/parquet-go/parquet-go"

	"github.com/tyler180/fbref-pizza/internal/logging"
	"github.com/tyler180/fbref-pizza/internal/store"
)

// ExportOptions carries the clients an export destination may need.
type ExportOptions struct {
	S3       store.S3API
	DynamoDB store.DynamoDBWriteAPI
	Logger   *slog.Logger
}

// Export writes records to dest, which is a local .csv or .parquet file, an
// s3:// object with one of those extensions, or dynamodb://table. Every
// destination can be read back with Load.
func Export(ctx context.Context, records []PlayerRecord, dest string, opts ExportOptions) error {
	err := export(ctx, records, dest, opts)
	if err != nil {
		logging.Error(opts.Logger, "error exporting player profiles", err, "dest", dest)
		return fmt.Errorf("export to %s: %w", dest, err)
	}
	logging.Info(opts.Logger, "exported player profiles", "dest", dest, logging.FieldCount, len(records))
	return nil
}

func export(ctx context.Context, records []PlayerRecord, dest string, opts ExportOptions) error {
	switch Scheme(dest) {
	case "dynamodb":
		if opts.DynamoDB == nil {
			return errors.New("dynamodb client not configured")
		}
		items := make([]store.ProfileItem, 0, len(records))
		for _, r := range records {
			items = append(items, store.ProfileItem{Name: r.Name, League: r.League, Team: r.Team, Link: r.Link})
		}
		return store.PutPlayerProfiles(ctx, opts.DynamoDB, strings.TrimPrefix(dest, "dynamodb://"), items)

	case "s3":
		if opts.S3 == nil {
			return errors.New("s3 client not configured")
		}
		bucket, key, err := store.ParseS3URI(dest)
		if err != nil {
			return err
		}
		b, ctype, err := encodeByExt(key, records)
		if err != nil {
			return err
		}
		_, err = store.PutObject(ctx, opts.S3, bucket, key, b, ctype)
		return err

	case "file":
		b, _, err := encodeByExt(dest, records)
		if err != nil {
			return err
		}
		return os.WriteFile(dest, b, 0o644)
	}
	return fmt.Errorf("unsupported export scheme %q", Scheme(dest))
}

func encodeByExt(name string, records []PlayerRecord) ([]byte, string, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		b, err := encodeCSV(records)
		return b, "text/csv", err
	case ".parquet":
		b, err := encodeParquet(records)
		return b, "application/vnd.apache.parquet", err
	}
	return nil, "", fmt.Errorf("unsupported export file type %q", filepath.Ext(name))
}

func encodeCSV(records []PlayerRecord) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write(requiredCols)
	for _, r := range records {
		_ = w.Write([]string{r.Name, r.League, r.Team, r.Link})
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func encodeParquet(records []PlayerRecord) ([]byte, error) {
	rows := make([]parquetRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, parquetRow{Name: r.Name, League: r.League, Team: r.Team, Link: r.Link})
	}
	var buf bytes.Buffer
	w := parquet.NewGenericWriter[parquetRow](&buf, parquet.Compression(&parquet.Snappy))
	if _, err := w.Write(rows); err != nil {
		return nil, fmt.Errorf("write parquet rows: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("close parquet writer: %w", err)
	}
	return buf.Bytes(), nil
}
