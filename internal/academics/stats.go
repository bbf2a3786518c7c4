package academics

import (
	"time"

	"github.com/shopspring/decimal"
)

// AggregationResult is one row of a grouped count.
type AggregationResult struct {
	GroupKey          string  `json:"groupKey"`
	Count             int     `json:"count"`
	PercentageOfTotal float64 `json:"percentageOfTotal"`
}

// Grouping maps keys to counts and remembers the order keys were first seen.
type Grouping struct {
	keys   []string
	counts map[string]int
}

// GroupBy counts records per key.
func GroupBy[T any](records []T, key func(T) string) Grouping {
	g := Grouping{counts: make(map[string]int)}
	for _, r := range records {
		g.add(key(r), 1)
	}
	return g
}

func (g *Grouping) add(key string, n int) {
	if _, seen := g.counts[key]; !seen {
		g.keys = append(g.keys, key)
	}
	g.counts[key] += n
}

// Keys returns the keys in first-seen order.
func (g Grouping) Keys() []string {
	return append([]string(nil), g.keys...)
}

// Count returns the count for key, 0 when absent.
func (g Grouping) Count(key string) int { return g.counts[key] }

// Total sums every group.
func (g Grouping) Total() int {
	var total int
	for _, n := range g.counts {
		total += n
	}
	return total
}

// Results converts the grouping into rows with percentages of total.
func (g Grouping) Results(total int) []AggregationResult {
	out := make([]AggregationResult, 0, len(g.keys))
	for _, k := range g.keys {
		out = append(out, AggregationResult{
			GroupKey:          k,
			Count:             g.counts[k],
			PercentageOfTotal: Percentage(g.counts[k], total),
		})
	}
	return out
}

// Percentage returns count/total*100 rounded half-up to 2 decimals, and 0
// when total is 0.
func Percentage(count, total int) float64 {
	if total == 0 {
		return 0
	}
	pct := decimal.NewFromInt(int64(count)).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(total))).
		Round(2)
	return pct.InexactFloat64()
}

// MonthBucket is the record count for one calendar month.
type MonthBucket struct {
	Month time.Month `json:"month"`
	Count int        `json:"count"`
}

// MonthlySeries buckets records by the month of their normalized date within
// year. It always returns 12 buckets, January first. Invalid or out-of-year
// dates are not counted anywhere.
func MonthlySeries[T any](records []T, year int, date func(T) Date) []MonthBucket {
	buckets := make([]MonthBucket, 12)
	for i := range buckets {
		buckets[i].Month = time.Month(i + 1)
	}

	for _, r := range records {
		d := date(r)
		if !d.InYear(year) {
			continue
		}
		buckets[d.t.Month()-1].Count++
	}
	return buckets
}

// InYear reports whether d falls between Jan 1 and Dec 31 of year, inclusive,
// in d's own location.
func (d Date) InYear(year int) bool {
	if !d.valid {
		return false
	}
	start, end := yearBounds(year, d.t.Location())
	return d.Between(start, end)
}

func yearBounds(year int, loc *time.Location) (time.Time, time.Time) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
	end := start.AddDate(1, 0, 0).Add(-time.Nanosecond)
	return start, end
}
