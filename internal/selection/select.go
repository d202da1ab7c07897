package selection

import (
	"strconv"
	"strings"

	"github.com/tyler180/fbref-pizza/internal/fbref"
)

// CategorySelection is the ordered list of metrics chosen in one category.
// Duplicates are allowed.
type CategorySelection struct {
	Category Category
	Metrics  []string
}

// Pick is a selected metric that resolved to a percentile.
type Pick struct {
	Metric     string
	Category   Category
	Percentile int
}

// ResolveValues returns, in request order, the percentile of each requested
// name found in scrapedNames. The first exact match wins. Names that are
// missing or whose percentile is not an integer are skipped, so the result
// may be shorter than names.
func ResolveValues(names, scrapedNames []string, pairs []fbref.ValuePair) []int {
	idx := firstIndex(scrapedNames)
	out := make([]int, 0, len(names))
	for _, n := range names {
		if p, ok := percentileOf(n, idx, pairs); ok {
			out = append(out, p)
		}
	}
	return out
}

// Select walks the selections in order and resolves each metric against the
// report. Resolved metrics come back as picks, which keeps labels and values
// aligned; the rest are returned as missing.
func Select(selections []CategorySelection, rep *fbref.Report) (picks []Pick, missing []string) {
	idx := firstIndex(rep.Names)
	for _, s := range selections {
		for _, m := range s.Metrics {
			p, ok := percentileOf(m, idx, rep.Values)
			if !ok {
				missing = append(missing, m)
				continue
			}
			picks = append(picks, Pick{Metric: m, Category: s.Category, Percentile: p})
		}
	}
	return picks, missing
}

// Flatten concatenates the metric names of all selections in order.
func Flatten(selections []CategorySelection) []string {
	var out []string
	for _, s := range selections {
		out = append(out, s.Metrics...)
	}
	return out
}

func firstIndex(names []string) map[string]int {
	idx := make(map[string]int, len(names))
	for i, n := range names {
		if _, ok := idx[n]; !ok {
			idx[n] = i
		}
	}
	return idx
}

func percentileOf(name string, idx map[string]int, pairs []fbref.ValuePair) (int, bool) {
	i, ok := idx[name]
	if !ok || i >= len(pairs) {
		return 0, false
	}
	p, err := strconv.Atoi(strings.TrimSpace(pairs[i].Percentile))
	if err != nil {
		return 0, false
	}
	return p, true
}
