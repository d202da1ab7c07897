package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tyler180/fbref-pizza/internal/logging"
	"github.com/tyler180/fbref-pizza/internal/lookup"
)

var importTo string

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Copy the lookup table to another source",
	Long: `Reads the table named by --lookup and writes it to --to, which is a local
.csv or .parquet file, an s3:// object with one of those extensions, or
dynamodb://table. The copy holds only rows with both a name and a link.`,
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVar(&importTo, "to", "", "destination: file.csv, file.parquet, s3://bucket/key.parquet or dynamodb://table")
}

func runImport(cmd *cobra.Command, _ []string) error {
	if importTo == "" {
		return errors.New("--to is required")
	}
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	ctx := cmd.Context()
	st, err := a.loadStore(ctx)
	if err != nil {
		return err
	}

	opts := lookup.ExportOptions{Logger: a.logger}
	if lookup.NeedsAWS(importTo) {
		cl, err := a.clients(ctx)
		if err != nil {
			logging.Error(a.logger, "error loading aws config", err)
			return err
		}
		opts.S3, opts.DynamoDB = cl.S3, cl.DynamoDB
	}
	if err := lookup.Export(ctx, st.Records(), importTo, opts); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d players -> %s\n", st.Len(), importTo)
	return nil
}
