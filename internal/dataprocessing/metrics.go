package dataprocessing

import (
	"github.com/shopspring/decimal"

	"github.com/VRaz104/Business-Reporting-Tool/pkg/contracts/domain"
)

// Aggregate computes the run totals of a transaction table.
//
// Amounts are summed as decimals so TotalProfit equals TotalRevenue minus
// TotalCost exactly. When TotalRevenue is zero the margin is left at zero and
// MarginDefined is false.
func Aggregate(table domain.TransactionTable) domain.MetricsSummary {
	totalRevenue := decimal.Zero
	totalCost := decimal.Zero
	for _, tx := range table.Transactions {
		totalRevenue = totalRevenue.Add(tx.Revenue)
		totalCost = totalCost.Add(tx.Cost)
	}

	summary := domain.MetricsSummary{
		TotalRevenue: totalRevenue,
		TotalCost:    totalCost,
		TotalProfit:  totalRevenue.Sub(totalCost),
		ProfitMargin: decimal.Zero,
		RecordCount:  table.Len(),
	}

	if !totalRevenue.IsZero() {
		summary.ProfitMargin = summary.TotalProfit.Div(totalRevenue)
		summary.MarginDefined = true
	}

	return summary
}
