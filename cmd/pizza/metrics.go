package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tyler180/fbref-pizza/internal/config"
	"github.com/tyler180/fbref-pizza/internal/selection"
)

var metricsCmd = &cobra.Command{
	Use:   "metrics [category]",
	Short: "Print the selectable metrics and their defaults",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runMetrics,
}

func runMetrics(cmd *cobra.Command, args []string) error {
	catalog, err := selection.LoadCatalog(config.Load().CatalogFile)
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	if len(args) == 1 {
		cat, err := selection.ParseCategory(args[0])
		if err != nil {
			return err
		}
		defaults := map[string]bool{}
		for _, d := range catalog.Defaults(cat) {
			defaults[d] = true
		}
		for _, m := range catalog.Options(cat) {
			mark := " "
			if defaults[m] {
				mark = "*"
			}
			fmt.Fprintf(w, "%s %s\n", mark, m)
		}
		return nil
	}
	b, err := catalog.Marshal()
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}
