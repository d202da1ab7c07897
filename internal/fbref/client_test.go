package fbref

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

type fbrefStub struct {
	mu      sync.Mutex
	paths   []string
	uas     []string
	profile string
	scout   string
	status  map[string]int
}

func (s *fbrefStub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.paths = append(s.paths, r.URL.Path)
	s.uas = append(s.uas, r.Header.Get("User-Agent"))
	s.mu.Unlock()

	if code, ok := s.status[r.URL.Path]; ok {
		w.WriteHeader(code)
		return
	}
	switch {
	case strings.Contains(r.URL.Path, "/scout/"):
		_, _ = w.Write([]byte(s.scout))
	case strings.HasPrefix(r.URL.Path, "/en/players/"):
		_, _ = w.Write([]byte(s.profile))
	default:
		http.NotFound(w, r)
	}
}

func newStub(t *testing.T) (*fbrefStub, *httptest.Server) {
	stub := &fbrefStub{
		profile: readTestdata(t, "profile.html"),
		scout:   readTestdata(t, "scout.html"),
		status:  map[string]int{},
	}
	srv := httptest.NewServer(stub)
	t.Cleanup(srv.Close)
	return stub, srv
}

func TestFetchScrapesProfileAndScout(t *testing.T) {
	stub, srv := newStub(t)
	c := NewClient(5*time.Second, "test-agent", "", "", nil)

	rep, err := c.Fetch(context.Background(), srv.URL+"/en/players/1f44ac21/Erling-Haaland", "Erling Haaland")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if rep.ImageURL != srv.URL+"/req/202302030/images/headshots/1f44ac21_2022.jpg" {
		t.Fatalf("ImageURL = %q", rep.ImageURL)
	}
	if rep.ScoutURL != srv.URL+"/en/players/1f44ac21/scout/12192/Erling-Haaland-Scouting-Report" {
		t.Fatalf("ScoutURL = %q", rep.ScoutURL)
	}
	if len(rep.Names) != 9 || len(rep.Values) != 9 {
		t.Fatalf("got %d names, %d values", len(rep.Names), len(rep.Values))
	}
	if len(stub.paths) != 2 {
		t.Fatalf("expected exactly two requests, got %v", stub.paths)
	}
	for _, ua := range stub.uas {
		if ua != "test-agent" {
			t.Fatalf("User-Agent = %q", ua)
		}
	}
}

func TestFetchPlaceholderPortrait(t *testing.T) {
	stub, srv := newStub(t)
	stub.profile = readTestdata(t, "profile_no_image.html")

	c := &Client{HTTP: srv.Client()}
	rep, err := c.Fetch(context.Background(), srv.URL+"/en/players/1f44ac21/Erling-Haaland", "Erling Haaland")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if rep.ImageURL != DefaultPlaceholderURL {
		t.Fatalf("ImageURL = %q, want placeholder", rep.ImageURL)
	}
}

func TestFetchNon200IsFetchError(t *testing.T) {
	stub, srv := newStub(t)
	stub.status["/en/players/1f44ac21/scout/12192/Erling-Haaland-Scouting-Report"] = http.StatusTooManyRequests

	c := &Client{HTTP: srv.Client()}
	rep, err := c.Fetch(context.Background(), srv.URL+"/en/players/1f44ac21/Erling-Haaland", "Erling Haaland")
	if rep != nil {
		t.Fatal("expected no report")
	}
	fe, ok := AsFetchError(err)
	if !ok {
		t.Fatalf("expected FetchError, got %T %v", err, err)
	}
	if fe.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("StatusCode = %d", fe.StatusCode)
	}
	if len(stub.paths) != 2 {
		t.Fatalf("expected a single attempt per page, got %v", stub.paths)
	}
}

func TestFetchTransportError(t *testing.T) {
	_, srv := newStub(t)
	url := srv.URL + "/en/players/1f44ac21/Erling-Haaland"
	srv.Close()

	c := &Client{HTTP: &http.Client{Timeout: time.Second}}
	_, err := c.Fetch(context.Background(), url, "Erling Haaland")
	fe, ok := AsFetchError(err)
	if !ok || fe.StatusCode != 0 {
		t.Fatalf("expected transport FetchError, got %v", err)
	}
}

func TestFetchParseError(t *testing.T) {
	stub, srv := newStub(t)
	stub.scout = "<html><body>Scouting report coming soon</body></html>"

	c := &Client{HTTP: srv.Client()}
	_, err := c.Fetch(context.Background(), srv.URL+"/en/players/1f44ac21/Erling-Haaland", "Erling Haaland")
	if _, ok := AsParseError(err); !ok {
		t.Fatalf("expected ParseError, got %v", err)
	}
}
