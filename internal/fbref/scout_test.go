package fbref

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"
)

func readTestdata(t *testing.T, name string) string {
	t.Helper()
	b, err := os.ReadFile("testdata/" + name)
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}

func TestParseScoutFixture(t *testing.T) {
	names, pairs, err := ParseScout(readTestdata(t, "scout.html"), "https://fbref.com/x")
	if err != nil {
		t.Fatalf("ParseScout: %v", err)
	}
	if len(names) != len(pairs) {
		t.Fatalf("names %d != pairs %d", len(names), len(pairs))
	}
	var b strings.Builder
	for i := range names {
		fmt.Fprintf(&b, "%s | %s | %s\n", names[i], pairs[i].Percentile, pairs[i].Raw)
	}
	verifyGolden(t, "scout.names.golden", b.String())

	for _, n := range names {
		if IsTopic(n) || n == "" || n == "Statistic" {
			t.Fatalf("non-metric name %q leaked into names", n)
		}
	}
	for _, p := range pairs {
		if p.Percentile == "" {
			t.Fatalf("pair with empty percentile leaked: %+v", p)
		}
	}
}

func TestParseScoutDropsTitlesAndEmptyPercentiles(t *testing.T) {
	html := `<div id="div_scout_full_FW"><table id="scout_full_FW">
<tr><th>Goals</th><td>80</td><td>15</td></tr>
<tr><th>Assists</th><td>65</td><td>8</td></tr>
<tr><th>Standard Stats</th><td></td><td>x</td></tr>
</table></div>`
	names, pairs, err := ParseScout(html, "u")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Join(names, ",") != "Goals,Assists" {
		t.Fatalf("names = %v", names)
	}
	want := []ValuePair{{"80", "15"}, {"65", "8"}}
	if len(pairs) != 2 || pairs[0] != want[0] || pairs[1] != want[1] {
		t.Fatalf("pairs = %v, want %v", pairs, want)
	}
}

func TestParseScoutOrientsByDataStat(t *testing.T) {
	html := `<div id="div_scout_full_MF"><table id="scout_full_MF">
<tr><th>Key Passes</th><td data-stat="per90">2.61</td><td data-stat="percentile">99</td></tr>
<tr><th>Crosses</th><td data-stat="percentile">88</td><td data-stat="per90">5.12</td></tr>
</table></div>`
	_, pairs, err := ParseScout(html, "u")
	if err != nil {
		t.Fatal(err)
	}
	if pairs[0] != (ValuePair{Percentile: "99", Raw: "2.61"}) {
		t.Fatalf("pair 0 = %+v", pairs[0])
	}
	if pairs[1] != (ValuePair{Percentile: "88", Raw: "5.12"}) {
		t.Fatalf("pair 1 = %+v", pairs[1])
	}
}

func TestParseScoutMissingTable(t *testing.T) {
	cases := map[string]string{
		"no container": `<html><body><p>nothing</p></body></html>`,
		"no table":     `<div id="div_scout_full_FW"><p>soon</p></div>`,
		"no rows":      `<div id="div_scout_full_FW"><table id="scout_full_FW"><tr><th>Statistic</th></tr></table></div>`,
	}
	for name, html := range cases {
		t.Run(name, func(t *testing.T) {
			_, _, err := ParseScout(html, "https://fbref.com/s")
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("expected *ParseError, got %T %v", err, err)
			}
		})
	}
}

func TestScoutURL(t *testing.T) {
	got, err := ScoutURL("https://fbref.com/en/players/1f44ac21/Erling-Haaland", "12192", "Erling Haaland")
	if err != nil {
		t.Fatal(err)
	}
	want := "https://fbref.com/en/players/1f44ac21/scout/12192/Erling-Haaland-Scouting-Report"
	if got != want {
		t.Fatalf("ScoutURL = %q, want %q", got, want)
	}

	if _, err := ScoutURL("/en/players/1f44ac21/Erling-Haaland", "12192", "Erling Haaland"); err == nil {
		t.Fatal("expected error for relative profile link")
	}
}

func TestPlayerID(t *testing.T) {
	cases := map[string]string{
		"https://fbref.com/en/players/1f44ac21/Erling-Haaland":  "1f44ac21",
		"https://fbref.com/en/players/1f44ac21/Erling-Haaland/": "1f44ac21",
		"https://fbref.com/en/players/1f44ac21":                 "1f44ac21",
		"https://example.com/people/abc123/Name":                "abc123",
	}
	for in, want := range cases {
		got, err := PlayerID(in)
		if err != nil || got != want {
			t.Errorf("PlayerID(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
}

func TestPortraitURL(t *testing.T) {
	got := PortraitURL(readTestdata(t, "profile.html"), "https://fbref.com/en/players/1f44ac21/Erling-Haaland")
	want := "https://fbref.com/req/202302030/images/headshots/1f44ac21_2022.jpg"
	if got != want {
		t.Fatalf("PortraitURL = %q, want %q", got, want)
	}
	if got := PortraitURL(readTestdata(t, "profile_no_image.html"), "https://fbref.com/"); got != "" {
		t.Fatalf("expected empty portrait, got %q", got)
	}
}

func TestReportMetrics(t *testing.T) {
	r := &Report{
		Names:  []string{"Goals", "Assists", "Crosses"},
		Values: []ValuePair{{"80", "0.5"}, {"n/a", "0.1"}, {"7", "1.2"}},
	}
	got := r.Metrics()
	if len(got) != 2 || got[0].Percentile != 80 || got[1].Name != "Crosses" {
		t.Fatalf("Metrics = %+v", got)
	}
}
