package pipeline

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/tyler180/fbref-pizza/internal/chart"
	"github.com/tyler180/fbref-pizza/internal/fbref"
	"github.com/tyler180/fbref-pizza/internal/lookup"
	"github.com/tyler180/fbref-pizza/internal/selection"
)

const profilePage = `<html><body><div class="media-item"><img src="/img/haaland.png"></div></body></html>`

const scoutPage = `<html><body><div id="all_scout_full_FW"><!--
<div id="div_scout_full_FW"><table id="scout_full_FW">
<tr><th>Statistic</th><th>Per 90</th><th>Percentile</th></tr>
<tr><th colspan="3">Standard Stats</th></tr>
<tr><th>Goals</th><td data-stat="per90">0.83</td><td data-stat="percentile">80</td></tr>
<tr><th>Assists</th><td data-stat="per90">0.18</td><td data-stat="percentile">65</td></tr>
<tr><th colspan="3">Defense</th></tr>
<tr><th>Tkl+Int</th><td data-stat="per90">0.35</td><td data-stat="percentile">3</td></tr>
</table></div>
--></div></body></html>`

type fbrefServer struct {
	*httptest.Server
	scoutStatus int
}

func newFbref(t *testing.T) *fbrefServer {
	s := &fbrefServer{scoutStatus: http.StatusOK}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.Contains(r.URL.Path, "/scout/"):
			w.WriteHeader(s.scoutStatus)
			_, _ = w.Write([]byte(scoutPage))
		case strings.HasPrefix(r.URL.Path, "/en/players/"):
			_, _ = w.Write([]byte(profilePage))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(s.Close)
	return s
}

func newStore(base string) *lookup.Store {
	return lookup.NewStore([]lookup.PlayerRecord{{
		Name:   "Erling Haaland",
		League: "Premier League",
		Team:   "Manchester City",
		Link:   base + "/en/players/1f44ac21/Erling-Haaland",
	}}, nil)
}

type captureRenderer struct {
	spec chart.Spec
	err  error
}

func (c *captureRenderer) Render(_ context.Context, spec chart.Spec) ([]byte, error) {
	c.spec = spec
	if c.err != nil {
		return nil, c.err
	}
	return []byte("png"), nil
}

func TestRunSkipsUnavailableMetrics(t *testing.T) {
	srv := newFbref(t)
	rend := &captureRenderer{}
	p, err := New(newStore(srv.URL), &fbref.Client{HTTP: srv.Client()}, rend, nil)
	if err != nil {
		t.Fatal(err)
	}

	res, err := p.Run(context.Background(), Request{
		Player: "Erling Haaland",
		Selections: []selection.CategorySelection{
			{Category: selection.Standard, Metrics: []string{"Goals", "Clearances"}},
		},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !reflect.DeepEqual(rend.spec.Values, []int{80}) || !reflect.DeepEqual(rend.spec.Labels, []string{"Goals"}) {
		t.Fatalf("renderer got labels %v values %v", rend.spec.Labels, rend.spec.Values)
	}
	if !reflect.DeepEqual(res.Missing, []string{"Clearances"}) {
		t.Fatalf("Missing = %v", res.Missing)
	}
	if rend.spec.PortraitURL != srv.URL+"/img/haaland.png" {
		t.Fatalf("PortraitURL = %q", rend.spec.PortraitURL)
	}
}

func TestRunOrderFollowsSelection(t *testing.T) {
	srv := newFbref(t)
	rend := &captureRenderer{}
	p, _ := New(newStore(srv.URL), &fbref.Client{HTTP: srv.Client()}, rend, nil)

	_, err := p.Run(context.Background(), Request{
		Player: "Erling Haaland",
		Selections: []selection.CategorySelection{
			{Category: selection.Defense, Metrics: []string{"Tkl+Int"}},
			{Category: selection.Standard, Metrics: []string{"Assists", "Goals"}},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(rend.spec.Values, []int{3, 65, 80}) {
		t.Fatalf("values = %v", rend.spec.Values)
	}
	wantCats := []selection.Category{selection.Defense, selection.Standard, selection.Standard}
	if !reflect.DeepEqual(rend.spec.Categories, wantCats) {
		t.Fatalf("categories = %v", rend.spec.Categories)
	}
}

func TestRunErrorKinds(t *testing.T) {
	srv := newFbref(t)
	sel := []selection.CategorySelection{{Category: selection.Standard, Metrics: []string{"Goals"}}}

	t.Run("name not found", func(t *testing.T) {
		p, _ := New(newStore(srv.URL), &fbref.Client{HTTP: srv.Client()}, &captureRenderer{}, nil)
		_, err := p.Run(context.Background(), Request{Player: "Kevin De Bruyne", Selections: sel})
		if KindOf(err) != NameNotFound || !errors.Is(err, lookup.ErrNotFound) {
			t.Fatalf("got %v (%s)", err, KindOf(err))
		}
	})

	t.Run("fetch failure", func(t *testing.T) {
		bad := newFbref(t)
		bad.scoutStatus = http.StatusForbidden
		p, _ := New(newStore(bad.URL), &fbref.Client{HTTP: bad.Client()}, &captureRenderer{}, nil)
		_, err := p.Run(context.Background(), Request{Player: "Erling Haaland", Selections: sel})
		if KindOf(err) != FetchFailure {
			t.Fatalf("got %v (%s)", err, KindOf(err))
		}
	})

	t.Run("parse failure", func(t *testing.T) {
		store := lookup.NewStore([]lookup.PlayerRecord{{
			Name: "Erling Haaland",
			Link: srv.URL + "/en/players/1f44ac21/Erling-Haaland",
		}}, nil)
		p, _ := New(store, stubScraper{err: &fbref.ParseError{URL: "u", Reason: "no table"}}, &captureRenderer{}, nil)
		_, err := p.Run(context.Background(), Request{Player: "Erling Haaland", Selections: sel})
		if KindOf(err) != ParseFailure {
			t.Fatalf("got %v (%s)", err, KindOf(err))
		}
	})

	t.Run("render failure", func(t *testing.T) {
		p, _ := New(newStore(srv.URL), &fbref.Client{HTTP: srv.Client()}, &chart.Renderer{HTTP: srv.Client()}, nil)
		_, err := p.Run(context.Background(), Request{
			Player:     "Erling Haaland",
			Selections: []selection.CategorySelection{{Category: selection.Standard, Metrics: []string{"Save Percentage"}}},
		})
		if KindOf(err) != RenderFailure || !errors.Is(err, chart.ErrEmpty) {
			t.Fatalf("got %v (%s)", err, KindOf(err))
		}
	})
}

type stubScraper struct {
	rep *fbref.Report
	err error
}

func (s stubScraper) Fetch(context.Context, string, string) (*fbref.Report, error) {
	return s.rep, s.err
}

func TestRunEndToEndPNG(t *testing.T) {
	srv := newFbref(t)
	client := fbref.NewClient(5*time.Second, "", "", "", nil)
	p, err := New(newStore(srv.URL), client, &chart.Renderer{Width: 400, Height: 480}, nil)
	if err != nil {
		t.Fatal(err)
	}
	res, err := p.Run(context.Background(), Request{
		Player:     "Erling Haaland",
		Selections: selection.DefaultCatalog().Selections(map[selection.Category][]string{selection.Standard: {"Goals", "Assists"}}),
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	// Goals and Assists, Assists again from the passing defaults, Tkl+Int from defense
	if len(res.Picks) != 4 {
		t.Fatalf("picks = %+v", res.Picks)
	}
	img, err := png.Decode(bytes.NewReader(res.PNG))
	if err != nil {
		t.Fatalf("not a png: %v", err)
	}
	if img.Bounds().Dx() != 400 {
		t.Fatalf("width = %d", img.Bounds().Dx())
	}
}

func TestNewRequiresLoadedStore(t *testing.T) {
	_, err := New(nil, stubScraper{}, &captureRenderer{}, nil)
	if KindOf(err) != ResourceLoadFailure {
		t.Fatalf("got %v", err)
	}
}

func TestKindOfUnwrapped(t *testing.T) {
	cases := map[Kind]error{
		ResourceLoadFailure: &lookup.LoadError{Source: "x.xlsx", Err: errors.New("boom")},
		NameNotFound:        lookup.ErrNotFound,
		FetchFailure:        &fbref.FetchError{URL: "u", StatusCode: 500},
		ParseFailure:        &fbref.ParseError{URL: "u"},
		RenderFailure:       chart.ErrMisaligned,
		KindUnknown:         errors.New("other"),
	}
	for want, err := range cases {
		if got := KindOf(err); got != want {
			t.Errorf("KindOf(%v) = %s, want %s", err, got, want)
		}
	}
}
