package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MetricsSummary holds the aggregate financial totals for one run.
//
// TotalProfit is always TotalRevenue minus TotalCost. ProfitMargin is
// TotalProfit divided by TotalRevenue; when TotalRevenue is zero the margin
// is undefined, MarginDefined is false and ProfitMargin is zero.
//
// A summary is built once by the aggregator and passed by value afterwards.
type MetricsSummary struct {
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
	TotalCost     decimal.Decimal `json:"total_cost"`
	TotalProfit   decimal.Decimal `json:"total_profit"`
	ProfitMargin  decimal.Decimal `json:"profit_margin"`
	MarginDefined bool            `json:"margin_defined"`
	RecordCount   int             `json:"record_count"`
}

// MarginPercent returns the margin as a percentage rounded to two places.
func (m MetricsSummary) MarginPercent() decimal.Decimal {
	return m.ProfitMargin.Mul(decimal.NewFromInt(100)).Round(2)
}

// DailyRevenue is one point of the daily revenue series.
type DailyRevenue struct {
	Date    time.Time       `json:"date"`
	Revenue decimal.Decimal `json:"revenue"`
}

// SeriesTotal sums the revenue of every point in a series.
func SeriesTotal(series []DailyRevenue) decimal.Decimal {
	total := decimal.Zero
	for _, point := range series {
		total = total.Add(point.Revenue)
	}
	return total
}
