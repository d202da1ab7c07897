package main

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/tyler180/fbref-pizza/internal/chart"
	"github.com/tyler180/fbref-pizza/internal/config"
	"github.com/tyler180/fbref-pizza/internal/fbref"
	"github.com/tyler180/fbref-pizza/internal/logging"
	"github.com/tyler180/fbref-pizza/internal/lookup"
	"github.com/tyler180/fbref-pizza/internal/pipeline"
	"github.com/tyler180/fbref-pizza/internal/selection"
	"github.com/tyler180/fbref-pizza/internal/store"
)

// Event is the invocation payload. Selections is keyed by category name;
// a category that is absent uses its defaults.
type Event struct {
	Player     string              `json:"player"`
	Selections map[string][]string `json:"selections,omitempty"`
	Subtitle   string              `json:"subtitle,omitempty"`
	Key        string              `json:"key,omitempty"` // object name under CHART_PREFIX
}

type Slice struct {
	Metric     string `json:"metric"`
	Category   string `json:"category"`
	Percentile int    `json:"percentile"`
}

type Response struct {
	OK        bool     `json:"ok"`
	Player    string   `json:"player,omitempty"`
	Slices    []Slice  `json:"slices,omitempty"`
	Missing   []string `json:"missing,omitempty"`
	Location  string   `json:"location,omitempty"`
	PNGBase64 string   `json:"png_base64,omitempty"`
	Error     string   `json:"error,omitempty"`
	Kind      string   `json:"kind,omitempty"`
}

// Handler serves chart requests against a lookup table loaded at cold start.
type Handler struct {
	Pipeline *pipeline.Pipeline
	Catalog  *selection.Catalog
	S3       store.S3API // nil returns the chart inline
	Bucket   string
	Prefix   string
	Logger   *slog.Logger
	now      func() time.Time
}

func (h *Handler) Handle(ctx context.Context, ev Event) (Response, error) {
	chosen := map[selection.Category][]string{}
	for name, metrics := range ev.Selections {
		cat, err := selection.ParseCategory(name)
		if err != nil {
			return Response{Player: ev.Player, Error: err.Error(), Kind: "InvalidRequest"}, nil
		}
		chosen[cat] = metrics
	}
	res, err := h.Pipeline.Run(ctx, pipeline.Request{
		Player:     ev.Player,
		Selections: h.Catalog.Selections(chosen),
		Subtitle:   ev.Subtitle,
	})
	if err != nil {
		k := pipeline.KindOf(err)
		return Response{Player: ev.Player, Error: k.Message(), Kind: k.String()}, nil
	}

	resp := Response{OK: true, Player: res.Record.Name, Missing: res.Missing}
	for _, p := range res.Picks {
		resp.Slices = append(resp.Slices, Slice{Metric: p.Metric, Category: string(p.Category), Percentile: p.Percentile})
	}

	if h.S3 == nil || h.Bucket == "" {
		resp.PNGBase64 = base64.StdEncoding.EncodeToString(res.PNG)
		return resp, nil
	}
	key := h.objectKey(ev)
	loc, err := store.PutChart(ctx, h.S3, h.Bucket, key, res.PNG)
	if err != nil {
		logging.Error(h.Logger, "error uploading chart", err, logging.FieldPlayer, ev.Player, "key", key)
		return Response{Player: ev.Player, Error: "chart upload failed", Kind: "UploadFailure"}, nil
	}
	resp.Location = loc
	return resp, nil
}

func (h *Handler) objectKey(ev Event) string {
	name := strings.TrimSpace(ev.Key)
	if name == "" {
		now := time.Now
		if h.now != nil {
			now = h.now
		}
		name = fmt.Sprintf("%s-%s", pipeline.Slug(ev.Player), now().UTC().Format("20060102T150405Z"))
	}
	if !strings.HasSuffix(name, ".png") {
		name += ".png"
	}
	return path.Join(h.Prefix, name)
}

func main() {
	cfg := config.Load()
	// Lambda captures stderr; there is no durable local file to append to.
	logger := logging.New(os.Stderr, cfg.Log.Level, "json")
	ctx := context.Background()

	aws, err := store.NewClients(ctx)
	if err != nil {
		logging.Error(logger, "error loading aws config", err)
		os.Exit(1)
	}
	st, err := lookup.Load(ctx, cfg.LookupSource, lookup.Options{
		S3:              aws.S3,
		DynamoDB:        aws.DynamoDB,
		Athena:          aws.Athena,
		AthenaWorkgroup: cfg.Athena.Workgroup,
		AthenaOutput:    cfg.Athena.Output,
		Logger:          logger,
	})
	if err != nil {
		os.Exit(1)
	}
	catalog, err := selection.LoadCatalog(cfg.CatalogFile)
	if err != nil {
		logging.Error(logger, "error loading metric catalog", err)
		os.Exit(1)
	}

	scraper := fbref.NewClient(cfg.Scrape.Timeout, cfg.Scrape.UserAgent, cfg.Scrape.ScoutComp, cfg.Scrape.PlaceholderURL, logger)
	renderer := &chart.Renderer{
		HTTP:           scraper.HTTP,
		UserAgent:      cfg.Scrape.UserAgent,
		Placeholder:    cfg.Chart.Placeholder,
		Subtitle:       cfg.Chart.Subtitle,
		BandByCategory: cfg.Chart.BandByCategory,
		Logger:         logger,
	}
	p, err := pipeline.New(st, scraper, renderer, logger)
	if err != nil {
		logging.Error(logger, "error building pipeline", err)
		os.Exit(1)
	}

	h := &Handler{
		Pipeline: p,
		Catalog:  catalog,
		Bucket:   cfg.Chart.Bucket,
		Prefix:   cfg.Chart.Prefix,
		Logger:   logger,
	}
	if h.Bucket != "" {
		h.S3 = aws.S3
	}
	lambda.Start(h.Handle)
}
