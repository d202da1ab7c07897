package fbref

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/tyler180/fbref-pizza/internal/logging"
)

const (
	DefaultScoutComp      = "12192"
	DefaultPlaceholderURL = "https://via.placeholder.com/150"
	defaultUserAgent      = "Mozilla/5.0 (compatible; FBrefPizzaBot/1.0)"
)

// Client scrapes fbref profile and scouting report pages. One attempt per
// request; the zero value is usable.
type Client struct {
	HTTP           *http.Client
	UserAgent      string
	ScoutComp      string
	PlaceholderURL string
	Logger         *slog.Logger
}

// NewClient returns a Client with an http.Client using the given timeout.
func NewClient(timeout time.Duration, userAgent, scoutComp, placeholderURL string, logger *slog.Logger) *Client {
	return &Client{
		HTTP:           &http.Client{Timeout: timeout},
		UserAgent:      userAgent,
		ScoutComp:      scoutComp,
		PlaceholderURL: placeholderURL,
		Logger:         logger,
	}
}

// Fetch scrapes the portrait from profileURL and the scouting report for
// displayName. It returns a *FetchError or *ParseError on failure and never a
// partial report.
func (c *Client) Fetch(ctx context.Context, profileURL, displayName string) (*Report, error) {
	start := time.Now()
	profile, err := c.getText(ctx, profileURL)
	if err != nil {
		logging.Error(c.Logger, "error fetching player profile", err,
			logging.FieldPlayer, displayName, logging.FieldURL, profileURL)
		return nil, err
	}
	img := PortraitURL(profile, profileURL)
	if img == "" {
		img = c.placeholder()
		logging.Debug(c.Logger, "no portrait on profile page, using placeholder", logging.FieldPlayer, displayName)
	}

	scoutURL, err := ScoutURL(profileURL, c.comp(), displayName)
	if err != nil {
		logging.Error(c.Logger, "error building scouting report url", err, logging.FieldURL, profileURL)
		return nil, err
	}
	page, err := c.getText(ctx, scoutURL)
	if err != nil {
		logging.Error(c.Logger, "error fetching scouting report", err,
			logging.FieldPlayer, displayName, logging.FieldURL, scoutURL)
		return nil, err
	}
	names, values, err := ParseScout(page, scoutURL)
	if err != nil {
		logging.Error(c.Logger, "error parsing scouting report", err,
			logging.FieldPlayer, displayName, logging.FieldURL, scoutURL)
		return nil, err
	}
	logging.Info(c.Logger, "scraped scouting report",
		logging.FieldPlayer, displayName,
		logging.FieldCount, len(names),
		logging.FieldDuration, time.Since(start).Milliseconds())
	return &Report{
		ProfileURL: profileURL,
		ScoutURL:   scoutURL,
		ImageURL:   img,
		Names:      names,
		Values:     values,
	}, nil
}

func (c *Client) getText(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", &FetchError{URL: url, Err: err}
	}
	ua := c.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	req.Header.Set("User-Agent", ua)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	hc := c.HTTP
	if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := hc.Do(req)
	if err != nil {
		return "", &FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return "", &FetchError{URL: url, StatusCode: resp.StatusCode}
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &FetchError{URL: url, Err: err}
	}
	logging.Debug(c.Logger, "fetched page", logging.FieldURL, url, logging.FieldStatus, resp.StatusCode, "bytes", len(b))
	return string(b), nil
}

func (c *Client) comp() string {
	if s := strings.TrimSpace(c.ScoutComp); s != "" {
		return s
	}
	return DefaultScoutComp
}

func (c *Client) placeholder() string {
	if c.PlaceholderURL != "" {
		return c.PlaceholderURL
	}
	return DefaultPlaceholderURL
}
