package dataprocessing

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/VRaz104/Business-Reporting-Tool/pkg/contracts/domain"
)

// TrendOptions controls how the daily revenue series is built
type TrendOptions struct {
	// FillGaps emits a zero-revenue point for every calendar day between the
	// first and last date. The default series is sparse.
	FillGaps bool
}

// DailyRevenueSeries groups transactions by calendar day and sums their
// revenue. Points are in ascending date order with one point per day. The
// result does not depend on the order of the input rows.
func DailyRevenueSeries(table domain.TransactionTable, opts TrendOptions) []domain.DailyRevenue {
	totals := make(map[time.Time]decimal.Decimal)
	for _, tx := range table.Transactions {
		day := CalendarDay(tx.Date)
		if sum, ok := totals[day]; ok {
			totals[day] = sum.Add(tx.Revenue)
		} else {
			totals[day] = tx.Revenue
		}
	}

	days := make([]time.Time, 0, len(totals))
	for day := range totals {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool {
		return days[i].Before(days[j])
	})

	series := make([]domain.DailyRevenue, 0, len(days))
	if len(days) == 0 {
		return series
	}

	if !opts.FillGaps {
		for _, day := range days {
			series = append(series, domain.DailyRevenue{Date: day, Revenue: totals[day]})
		}
		return series
	}

	last := days[len(days)-1]
	for day := days[0]; !day.After(last); day = day.AddDate(0, 0, 1) {
		revenue, ok := totals[day]
		if !ok {
			revenue = decimal.Zero
		}
		series = append(series, domain.DailyRevenue{Date: day, Revenue: revenue})
	}
	return series
}

// CalendarDay drops the time of day, keeping the date as written in the
// input. The result is midnight UTC so equal dates compare equal as map keys.
func CalendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
