package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/tyler180/fbref-pizza/internal/chart"
	"github.com/tyler180/fbref-pizza/internal/fbref"
	"github.com/tyler180/fbref-pizza/internal/logging"
	"github.com/tyler180/fbref-pizza/internal/lookup"
	"github.com/tyler180/fbref-pizza/internal/selection"
)

// Resolver maps a display name to a lookup record. *lookup.Store implements it.
type Resolver interface {
	Resolve(name string) (lookup.PlayerRecord, error)
}

// Scraper fetches a player's scouting report. *fbref.Client implements it.
type Scraper interface {
	Fetch(ctx context.Context, profileURL, displayName string) (*fbref.Report, error)
}

// Renderer draws a chart. *chart.Renderer implements it.
type Renderer interface {
	Render(ctx context.Context, spec chart.Spec) ([]byte, error)
}

// Request is one chart request.
type Request struct {
	Player     string
	Selections []selection.CategorySelection
	Subtitle   string
}

// Result carries the chart and what went into it.
type Result struct {
	Record  lookup.PlayerRecord
	Report  *fbref.Report
	Picks   []selection.Pick
	Missing []string // selected metrics the report did not have
	PNG     []byte
}

// Pipeline resolves, scrapes, selects and renders. One Run at a time per
// caller; the dependencies themselves are not mutated.
type Pipeline struct {
	resolver Resolver
	scraper  Scraper
	renderer Renderer
	logger   *slog.Logger
}

// New wires a pipeline. The resolver must already hold the loaded lookup
// table.
func New(resolver Resolver, scraper Scraper, renderer Renderer, logger *slog.Logger) (*Pipeline, error) {
	if resolver == nil {
		return nil, &Error{Kind: ResourceLoadFailure, Err: errors.New("lookup store not loaded")}
	}
	if scraper == nil || renderer == nil {
		return nil, errors.New("pipeline: scraper and renderer are required")
	}
	return &Pipeline{resolver: resolver, scraper: scraper, renderer: renderer, logger: logger}, nil
}

// Run executes one request. Failures come back as *Error.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()

	rec, err := p.resolver.Resolve(req.Player)
	if err != nil {
		return nil, p.fail(NameNotFound, req.Player, err)
	}

	rep, err := p.scraper.Fetch(ctx, rec.Link, req.Player)
	if err != nil {
		kind := FetchFailure
		if _, ok := fbref.AsParseError(err); ok {
			kind = ParseFailure
		}
		return nil, p.fail(kind, req.Player, err)
	}

	picks, missing := selection.Select(req.Selections, rep)
	if len(missing) > 0 {
		logging.Info(p.logger, "selected metrics not in scouting report",
			logging.FieldPlayer, req.Player, "missing", missing)
	}

	spec := chart.Spec{
		Player:      req.Player,
		Subtitle:    req.Subtitle,
		PortraitURL: rep.ImageURL,
	}
	for _, pk := range picks {
		spec.Labels = append(spec.Labels, pk.Metric)
		spec.Values = append(spec.Values, pk.Percentile)
		spec.Categories = append(spec.Categories, pk.Category)
	}
	png, err := p.renderer.Render(ctx, spec)
	if err != nil {
		return nil, p.fail(RenderFailure, req.Player, err)
	}

	logging.Info(p.logger, "chart rendered",
		logging.FieldPlayer, req.Player,
		logging.FieldCount, len(picks),
		logging.FieldDuration, time.Since(start).Milliseconds())
	return &Result{Record: rec, Report: rep, Picks: picks, Missing: missing, PNG: png}, nil
}

func (p *Pipeline) fail(kind Kind, player string, err error) error {
	e := &Error{Kind: kind, Player: player, Err: err}
	logging.Error(p.logger, "chart request failed", err,
		logging.FieldPlayer, player, logging.FieldKind, kind.String())
	return e
}
