package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tyler180/fbref-pizza/internal/chart"
	"github.com/tyler180/fbref-pizza/internal/fbref"
	"github.com/tyler180/fbref-pizza/internal/logging"
	"github.com/tyler180/fbref-pizza/internal/pipeline"
	"github.com/tyler180/fbref-pizza/internal/selection"
	"github.com/tyler180/fbref-pizza/internal/store"
)

var (
	renderPlayer     string
	renderOut        string
	renderSubtitle   string
	renderByCategory bool
	renderMetrics    = map[selection.Category]*[]string{}
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Scrape a player's scouting report and draw the pizza chart",
	Long: `Scrape a player's fbref scouting report and draw a percentile pizza chart.

Metrics are chosen per category with repeatable flags; a category without any
flag uses its default selection (see "pizza metrics"). Pass the flag with an
empty value to leave a category out.`,
	Example: `  pizza render --player "Erling Haaland"
  pizza render --player "Bukayo Saka" --standard Goals --standard "Shots on Target %" --defense "" --out saka.png
  pizza render --player "Rodri" --out s3://charts-bucket/rodri.png`,
	RunE: runRender,
}

func init() {
	f := renderCmd.Flags()
	f.StringVarP(&renderPlayer, "player", "p", "", "player display name as it appears in the lookup table")
	f.StringVarP(&renderOut, "out", "o", "", "output file or s3://bucket/key (default <Player-Name>.png)")
	f.StringVar(&renderSubtitle, "subtitle", "", "chart subtitle (default $CHART_SUBTITLE)")
	f.BoolVar(&renderByCategory, "band-by-category", false, "color slices by their category instead of by position")
	for _, c := range selection.Categories {
		v := new([]string)
		renderMetrics[c] = v
		name := strings.ToLower(string(c))
		f.StringArrayVar(v, name, nil, fmt.Sprintf("%s metric to include (repeatable)", c))
	}
	_ = renderCmd.MarkFlagRequired("player")
}

func runRender(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	catalog, err := selection.LoadCatalog(a.cfg.CatalogFile)
	if err != nil {
		return err
	}
	st, err := a.loadStore(ctx)
	if err != nil {
		return err
	}

	chosen := map[selection.Category][]string{}
	for c, v := range renderMetrics {
		if cmd.Flags().Changed(strings.ToLower(string(c))) {
			chosen[c] = nonEmpty(*v)
		}
	}
	sel := catalog.Selections(chosen)
	if unknown := catalog.Unknown(sel); len(unknown) > 0 {
		logging.Warn(a.logger, "metrics not in catalog", "metrics", unknown)
	}

	scraper := fbref.NewClient(a.cfg.Scrape.Timeout, a.cfg.Scrape.UserAgent, a.cfg.Scrape.ScoutComp, a.cfg.Scrape.PlaceholderURL, a.logger)
	renderer := &chart.Renderer{
		HTTP:           scraper.HTTP,
		UserAgent:      a.cfg.Scrape.UserAgent,
		Placeholder:    a.cfg.Chart.Placeholder,
		Subtitle:       a.cfg.Chart.Subtitle,
		BandByCategory: renderByCategory || a.cfg.Chart.BandByCategory,
		Logger:         a.logger,
	}
	p, err := pipeline.New(st, scraper, renderer, a.logger)
	if err != nil {
		return runFailure(err)
	}

	res, err := p.Run(ctx, pipeline.Request{
		Player:     renderPlayer,
		Selections: sel,
		Subtitle:   renderSubtitle,
	})
	if err != nil {
		return runFailure(err)
	}

	out := renderOut
	if out == "" {
		out = pipeline.Slug(renderPlayer) + ".png"
	}
	loc, err := writeChart(cmd, a, out, res.PNG)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d metrics -> %s\n", res.Record.Name, len(res.Picks), loc)
	if len(res.Missing) > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "not in scouting report: %s\n", strings.Join(res.Missing, ", "))
	}
	return nil
}

func writeChart(cmd *cobra.Command, a *app, out string, png []byte) (string, error) {
	if !strings.HasPrefix(out, "s3://") {
		if err := os.WriteFile(out, png, 0o644); err != nil {
			return "", fmt.Errorf("write chart: %w", err)
		}
		return out, nil
	}
	bucket, key, err := store.ParseS3URI(out)
	if err != nil {
		return "", err
	}
	cl, err := a.clients(cmd.Context())
	if err != nil {
		return "", err
	}
	return store.PutChart(cmd.Context(), cl.S3, bucket, key, png)
}

func nonEmpty(ss []string) []string {
	out := make([]string, 0, len(ss))
	for _, s := range ss {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
