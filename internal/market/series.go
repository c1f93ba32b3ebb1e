// Package market fetches historical mortgage-rate series for display next
// to a refinance analysis. It is independent of the calculations.
package market

import (
	"sort"
	"time"

	"github.com/iwvelando/refi-calculator/pkg/datetime"
)

// Series identifies one published rate series.
type Series struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// DefaultSeries are the weekly average fixed mortgage rates.
var DefaultSeries = []Series{
	{ID: "MORTGAGE30US", Label: "30-Year"},
	{ID: "MORTGAGE15US", Label: "15-Year"},
}

// Observation is one dated rate, in percent.
type Observation struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// Quote is the most recent observation of a series.
type Quote struct {
	Label string    `json:"label"`
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// SortObservations orders observations oldest first.
func SortObservations(obs []Observation) {
	sort.Slice(obs, func(i, j int) bool { return obs[i].Date.Before(obs[j].Date) })
}

// FilterByMonths keeps the observations within months of the latest one,
// inclusive. Zero or negative months keeps everything.
func FilterByMonths(obs []Observation, months int) []Observation {
	if months <= 0 || len(obs) == 0 {
		return obs
	}
	latest, _ := Latest(obs)
	cutoff := datetime.MonthsBefore(latest.Date, months)
	filtered := make([]Observation, 0, len(obs))
	for _, o := range obs {
		if datetime.OnOrAfter(o.Date, cutoff) {
			filtered = append(filtered, o)
		}
	}
	return filtered
}

// Latest returns the most recent observation.
func Latest(obs []Observation) (Observation, bool) {
	if len(obs) == 0 {
		return Observation{}, false
	}
	latest := obs[0]
	for _, o := range obs[1:] {
		if o.Date.After(latest.Date) {
			latest = o
		}
	}
	return latest, true
}

// LatestQuotes returns the latest value of each series that has data, in
// series order.
func LatestQuotes(data map[string][]Observation, series []Series) []Quote {
	quotes := make([]Quote, 0, len(series))
	for _, s := range series {
		if o, ok := Latest(data[s.Label]); ok {
			quotes = append(quotes, Quote{Label: s.Label, Date: o.Date, Value: o.Value})
		}
	}
	return quotes
}
