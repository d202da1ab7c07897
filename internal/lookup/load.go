package lookup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/tyler180/fbref-pizza/internal/logging"
	"github.com/tyler180/fbref-pizza/internal/store"
)

// Options carries the clients a non-file source needs. Only the client the
// source's scheme asks for has to be set.
type Options struct {
	DynamoDB store.DynamoDBScanAPI
	S3       store.S3API
	Athena   store.AthenaAPI

	AthenaWorkgroup string
	AthenaOutput    string
	AthenaPoll      time.Duration

	Logger *slog.Logger
}

var reIdent = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// Scheme reports the kind of source: "file", "s3", "dynamodb" or "athena".
func Scheme(source string) string {
	if i := strings.Index(source, "://"); i > 0 {
		return strings.ToLower(source[:i])
	}
	return "file"
}

// NeedsAWS reports whether loading source requires AWS clients.
func NeedsAWS(source string) bool {
	switch Scheme(source) {
	case "s3", "dynamodb", "athena":
		return true
	}
	return false
}

// Load reads the lookup table once. Supported sources:
//
//	player_profiles.xlsx | .csv | .parquet   local file
//	s3://bucket/key.xlsx                     object in one of the file formats
//	dynamodb://table                         DynamoDB table scan
//	athena://database.table?workgroup=wg&output=s3://bucket/prefix/
//
// Any failure is a *LoadError and no store is returned.
func Load(ctx context.Context, source string, opts Options) (*Store, error) {
	records, err := loadRecords(ctx, source, opts)
	if err == nil && len(records) == 0 {
		err = errors.New("no player rows")
	}
	if err != nil {
		le := &LoadError{Source: source, Err: err}
		logging.Error(opts.Logger, "error loading player profiles", le, logging.FieldSource, source)
		return nil, le
	}

	s := NewStore(records, opts.Logger)
	if s.Len() == 0 {
		le := &LoadError{Source: source, Err: errors.New("no rows with both name and link")}
		logging.Error(opts.Logger, "error loading player profiles", le, logging.FieldSource, source)
		return nil, le
	}
	logging.Info(opts.Logger, "loaded player profiles successfully",
		logging.FieldSource, source, logging.FieldCount, s.Len())
	return s, nil
}

func loadRecords(ctx context.Context, source string, opts Options) ([]PlayerRecord, error) {
	switch Scheme(source) {
	case "file":
		b, err := os.ReadFile(source)
		if err != nil {
			return nil, err
		}
		return parseByExt(source, b)

	case "s3":
		if opts.S3 == nil {
			return nil, errors.New("s3 client not configured")
		}
		bucket, key, err := store.ParseS3URI(source)
		if err != nil {
			return nil, err
		}
		b, err := store.GetObject(ctx, opts.S3, bucket, key)
		if err != nil {
			return nil, err
		}
		return parseByExt(key, b)

	case "dynamodb":
		if opts.DynamoDB == nil {
			return nil, errors.New("dynamodb client not configured")
		}
		table := strings.TrimPrefix(source, "dynamodb://")
		items, err := store.ScanPlayerProfiles(ctx, opts.DynamoDB, table)
		if err != nil {
			return nil, err
		}
		out := make([]PlayerRecord, 0, len(items))
		for _, it := range items {
			out = append(out, PlayerRecord{Name: it.Name, League: it.League, Team: it.Team, Link: it.Link})
		}
		return out, nil

	case "athena":
		if opts.Athena == nil {
			return nil, errors.New("athena client not configured")
		}
		return loadAthena(ctx, source, opts)
	}
	return nil, fmt.Errorf("unsupported source scheme %q", Scheme(source))
}

func loadAthena(ctx context.Context, source string, opts Options) ([]PlayerRecord, error) {
	u, err := url.Parse(source)
	if err != nil {
		return nil, err
	}
	db, table, ok := strings.Cut(u.Host, ".")
	if !ok || !reIdent.MatchString(db) || !reIdent.MatchString(table) {
		return nil, fmt.Errorf("athena source must be athena://database.table, got %q", source)
	}
	q := u.Query()
	r := &store.Runner{
		Client:    opts.Athena,
		Database:  db,
		Workgroup: firstNonEmpty(q.Get("workgroup"), opts.AthenaWorkgroup),
		OutputS3:  firstNonEmpty(q.Get("output"), opts.AthenaOutput),
		Poll:      opts.AthenaPoll,
		Logger:    opts.Logger,
	}
	sql := fmt.Sprintf(`SELECT "name", "league", "team", "link" FROM %s.%s`, db, table)
	rows, err := r.Rows(ctx, sql)
	if err != nil {
		return nil, err
	}
	return recordsFromRows(rows)
}

func parseByExt(name string, b []byte) ([]PlayerRecord, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx":
		return parseXLSX(b)
	case ".csv":
		return parseCSV(b)
	case ".parquet":
		return parseParquet(b)
	}
	return nil, fmt.Errorf("unsupported lookup file type %q", filepath.Ext(name))
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
