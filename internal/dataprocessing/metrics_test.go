package dataprocessing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/VRaz104/Business-Reporting-Tool/pkg/contracts/domain"
)

func tx(date time.Time, revenue, cost string) domain.Transaction {
	return domain.Transaction{Date: date, Revenue: dec(revenue), Cost: dec(cost)}
}

func scenarioTable() domain.TransactionTable {
	return domain.TransactionTable{
		Transactions: []domain.Transaction{
			tx(day(2024, 1, 1), "100", "60"),
			tx(day(2024, 1, 1), "50", "20"),
			tx(day(2024, 1, 2), "200", "100"),
		},
	}
}

func TestAggregate(t *testing.T) {
	tests := []struct {
		name          string
		table         domain.TransactionTable
		wantRevenue   string
		wantCost      string
		wantProfit    string
		wantMarginPct string
		wantDefined   bool
	}{
		{
			name:          "three row scenario",
			table:         scenarioTable(),
			wantRevenue:   "350",
			wantCost:      "180",
			wantProfit:    "170",
			wantMarginPct: "48.57",
			wantDefined:   true,
		},
		{
			name:          "empty table",
			table:         domain.TransactionTable{},
			wantRevenue:   "0",
			wantCost:      "0",
			wantProfit:    "0",
			wantMarginPct: "0.00",
		},
		{
			name: "zero revenue with cost",
			table: domain.TransactionTable{Transactions: []domain.Transaction{
				tx(day(2024, 1, 1), "0", "25"),
			}},
			wantRevenue:   "0",
			wantCost:      "25",
			wantProfit:    "-25",
			wantMarginPct: "0.00",
		},
		{
			name: "loss making",
			table: domain.TransactionTable{Transactions: []domain.Transaction{
				tx(day(2024, 1, 1), "100", "150"),
			}},
			wantRevenue:   "100",
			wantCost:      "150",
			wantProfit:    "-50",
			wantMarginPct: "-50.00",
			wantDefined:   true,
		},
		{
			name: "fractional amounts stay exact",
			table: domain.TransactionTable{Transactions: []domain.Transaction{
				tx(day(2024, 1, 1), "0.1", "0.05"),
				tx(day(2024, 1, 1), "0.2", "0.05"),
			}},
			wantRevenue:   "0.3",
			wantCost:      "0.1",
			wantProfit:    "0.2",
			wantMarginPct: "66.67",
			wantDefined:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary := Aggregate(tt.table)

			assert.True(t, summary.TotalRevenue.Equal(dec(tt.wantRevenue)), "revenue %s", summary.TotalRevenue)
			assert.True(t, summary.TotalCost.Equal(dec(tt.wantCost)), "cost %s", summary.TotalCost)
			assert.True(t, summary.TotalProfit.Equal(dec(tt.wantProfit)), "profit %s", summary.TotalProfit)
			assert.Equal(t, tt.wantMarginPct, summary.MarginPercent().StringFixed(2))
			assert.Equal(t, tt.wantDefined, summary.MarginDefined)
			assert.Equal(t, tt.table.Len(), summary.RecordCount)

			// Profit always reconciles with revenue and cost
			assert.True(t, summary.TotalProfit.Equal(summary.TotalRevenue.Sub(summary.TotalCost)))
		})
	}
}

func TestAggregate_MarginRatio(t *testing.T) {
	summary := Aggregate(scenarioTable())
	assert.Equal(t, "0.4857", summary.ProfitMargin.StringFixed(4))
}

func TestAggregate_DoesNotModifyTable(t *testing.T) {
	table := scenarioTable()
	before := len(table.Transactions)

	Aggregate(table)

	assert.Len(t, table.Transactions, before)
	assert.Equal(t, day(2024, 1, 1), table.Transactions[0].Date)
}
