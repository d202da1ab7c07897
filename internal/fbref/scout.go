package fbref

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Section titles that appear as rows of the scouting table but are not
// metrics.
var topics = map[string]struct{}{
	"Standard Stats":         {},
	"Shooting":               {},
	"Passing":                {},
	"Pass Types":             {},
	"Goal and Shot Creation": {},
	"Defense":                {},
	"Possession":             {},
	"Miscellaneous Stats":    {},
	"Goalkeeping":            {},
	"Advanced Goalkeeping":   {},
}

// IsTopic reports whether s is a scouting-table section title.
func IsTopic(s string) bool {
	_, ok := topics[s]
	return ok
}

// PlayerID extracts the fbref player id from a profile URL such as
// https://fbref.com/en/players/1f44ac21/Erling-Haaland.
func PlayerID(profileURL string) (string, error) {
	u, err := url.Parse(profileURL)
	if err != nil {
		return "", err
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i, p := range parts {
		if p == "players" && i+1 < len(parts) && parts[i+1] != "" {
			return parts[i+1], nil
		}
	}
	// no "players" segment: second-to-last one
	if len(parts) >= 2 && parts[len(parts)-2] != "" {
		return parts[len(parts)-2], nil
	}
	return "", fmt.Errorf("no player id in %q", profileURL)
}

// ScoutURL builds the scouting report URL on the same host as profileURL:
// /en/players/<id>/scout/<comp>/<Name-With-Hyphens>-Scouting-Report
func ScoutURL(profileURL, comp, displayName string) (string, error) {
	u, err := url.Parse(profileURL)
	if err != nil || u.Host == "" {
		return "", &ParseError{URL: profileURL, Reason: "profile link is not an absolute url"}
	}
	id, err := PlayerID(profileURL)
	if err != nil {
		return "", &ParseError{URL: profileURL, Reason: err.Error()}
	}
	slug := strings.Join(strings.Fields(displayName), "-")
	out := url.URL{
		Scheme: u.Scheme,
		Host:   u.Host,
		Path:   fmt.Sprintf("/en/players/%s/scout/%s/%s-Scouting-Report", id, comp, slug),
	}
	return out.String(), nil
}

// PortraitURL returns the absolute src of the profile portrait, or "".
func PortraitURL(html, profileURL string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	src, ok := doc.Find("div.media-item img").First().Attr("src")
	src = strings.TrimSpace(src)
	if !ok || src == "" {
		return ""
	}
	base, err := url.Parse(profileURL)
	if err != nil {
		return src
	}
	ref, err := url.Parse(src)
	if err != nil {
		return src
	}
	return base.ResolveReference(ref).String()
}

// ParseScout extracts metric names and value pairs from a scouting report
// page. A row is kept only when both its name and its pair are usable, so
// the returned slices stay aligned.
func ParseScout(html, pageURL string) ([]string, []ValuePair, error) {
	// SR sites ship most tables inside HTML comments
	clean := strings.ReplaceAll(html, "<!--", "")
	clean = strings.ReplaceAll(clean, "-->", "")

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(clean))
	if err != nil {
		return nil, nil, &ParseError{URL: pageURL, Reason: err.Error()}
	}
	div := doc.Find(`div[id^="div_scout_full_"]`).First()
	if div.Length() == 0 {
		return nil, nil, &ParseError{URL: pageURL, Reason: "scouting report container not found"}
	}
	table := div.Find(`table[id^="scout_full_"]`).First()
	if table.Length() == 0 {
		return nil, nil, &ParseError{URL: pageURL, Reason: "scouting report table not found"}
	}

	var (
		names []string
		pairs []ValuePair
	)
	// one metric per row: th holds the name, the first two tds the pair
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		tds := tr.Find("td")
		if tds.Length() < 2 {
			return
		}
		name := cellText(tr.Find("th").First())
		pair := orient(tds.Eq(0), tds.Eq(1))
		if !keepName(name) || !keepPair(pair) {
			return
		}
		names = append(names, name)
		pairs = append(pairs, pair)
	})
	if len(names) == 0 || len(pairs) == 0 {
		return nil, nil, &ParseError{URL: pageURL, Reason: "scouting report has no metric rows"}
	}
	return names, pairs, nil
}

// orient reads a cell pair as [percentile, raw]. fbref labels the cells with
// data-stat; when it does, the label wins over position.
func orient(a, b *goquery.Selection) ValuePair {
	as, bs := a.AttrOr("data-stat", ""), b.AttrOr("data-stat", "")
	if bs == "percentile" && as != "percentile" {
		return ValuePair{Percentile: cellText(b), Raw: cellText(a)}
	}
	return ValuePair{Percentile: cellText(a), Raw: cellText(b)}
}

// keepName drops blank names, the "Statistic" header and section titles.
func keepName(n string) bool {
	return n != "" && n != "Statistic" && !IsTopic(n)
}

// keepPair drops pairs with an empty percentile or raw value.
func keepPair(p ValuePair) bool {
	return p.Percentile != "" && p.Raw != ""
}

func cellText(s *goquery.Selection) string {
	return strings.Join(strings.Fields(s.Text()), " ")
}
