package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// rate is part/total as a percentage with two decimals; zero when total is zero
func rate(part, total int) float64 {
	if total <= 0 {
		return 0
	}
	return round2(float64(part) / float64(total) * 100)
}

// growth compares two revenue windows as a percentage
func growth(current, previous decimal.Decimal) float64 {
	if !previous.IsPositive() {
		return 0
	}
	pct, _ := current.Sub(previous).Div(previous).Mul(decimal.NewFromInt(100)).Round(2).Float64()
	return pct
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func countsToMap(rows []StatusCount) map[string]int {
	out := make(map[string]int, len(rows))
	for _, row := range rows {
		out[row.Key] += row.Count
	}
	return out
}

func sumCounts(m map[string]int) int {
	total := 0
	for _, n := range m {
		total += n
	}
	return total
}

// fillDailySeries returns one point per day ending today, zero-filling gaps
func fillDailySeries(rows []DailyMetric, days int, now time.Time) []DailyMetric {
	byDate := make(map[string]DailyMetric, len(rows))
	for _, row := range rows {
		byDate[row.Date] = row
	}

	series := make([]DailyMetric, 0, days)
	start := now.UTC().AddDate(0, 0, -(days - 1))
	for i := 0; i < days; i++ {
		date := start.AddDate(0, 0, i).Format("2006-01-02")
		point, ok := byDate[date]
		if !ok {
			point = DailyMetric{Date: date, Revenue: decimal.Zero}
		}
		series = append(series, point)
	}
	return series
}

func withPaymentSuccess(methods []PaymentMethodStats) []PaymentMethodStats {
	for i := range methods {
		methods[i].SuccessRate = rate(methods[i].Completed, methods[i].Bookings)
	}
	sort.SliceStable(methods, func(i, j int) bool { return methods[i].Bookings > methods[j].Bookings })
	return methods
}
