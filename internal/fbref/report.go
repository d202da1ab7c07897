package fbref

import "strconv"

// ValuePair is one scraped [percentile-rank, raw-value] pair, as text.
type ValuePair struct {
	Percentile string
	Raw        string
}

// ScoutMetric is a named metric with its percentile coerced to an integer.
type ScoutMetric struct {
	Name       string
	Percentile int
	Raw        string
}

// Report is the result of one scrape. Names and Values are positionally
// aligned: Values[i] belongs to Names[i].
type Report struct {
	ProfileURL string
	ScoutURL   string
	ImageURL   string
	Names      []string
	Values     []ValuePair
}

// Metrics zips names and pairs. Pairs whose percentile is not an integer are
// left out.
func (r *Report) Metrics() []ScoutMetric {
	n := min(len(r.Names), len(r.Values))
	out := make([]ScoutMetric, 0, n)
	for i := 0; i < n; i++ {
		p, err := strconv.Atoi(r.Values[i].Percentile)
		if err != nil {
			continue
		}
		out = append(out, ScoutMetric{Name: r.Names[i], Percentile: p, Raw: r.Values[i].Raw})
	}
	return out
}
