package dataprocessing

import (
	"math/rand"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VRaz104/Business-Reporting-Tool/pkg/contracts/domain"
)

func TestDailyRevenueSeries(t *testing.T) {
	series := DailyRevenueSeries(scenarioTable(), TrendOptions{})

	require.Len(t, series, 2)
	assert.Equal(t, day(2024, 1, 1), series[0].Date)
	assert.True(t, series[0].Revenue.Equal(dec("150")))
	assert.Equal(t, day(2024, 1, 2), series[1].Date)
	assert.True(t, series[1].Revenue.Equal(dec("200")))
}

func TestDailyRevenueSeries_Empty(t *testing.T) {
	series := DailyRevenueSeries(domain.TransactionTable{}, TrendOptions{FillGaps: true})

	assert.NotNil(t, series)
	assert.Empty(t, series)
}

func TestDailyRevenueSeries_DropsTimeOfDay(t *testing.T) {
	table := domain.TransactionTable{Transactions: []domain.Transaction{
		tx(time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC), "10", "0"),
		tx(time.Date(2024, 5, 1, 23, 59, 0, 0, time.UTC), "15", "0"),
		tx(time.Date(2024, 5, 1, 12, 0, 0, 0, time.FixedZone("UTC+3", 3*3600)), "5", "0"),
	}}

	series := DailyRevenueSeries(table, TrendOptions{})

	require.Len(t, series, 1)
	assert.Equal(t, day(2024, 5, 1), series[0].Date)
	assert.True(t, series[0].Revenue.Equal(dec("30")))
}

func TestDailyRevenueSeries_SparseAndFilled(t *testing.T) {
	table := domain.TransactionTable{Transactions: []domain.Transaction{
		tx(day(2024, 1, 4), "40", "0"),
		tx(day(2024, 1, 1), "10", "0"),
	}}

	sparse := DailyRevenueSeries(table, TrendOptions{})
	require.Len(t, sparse, 2)
	assert.Equal(t, day(2024, 1, 1), sparse[0].Date)
	assert.Equal(t, day(2024, 1, 4), sparse[1].Date)

	filled := DailyRevenueSeries(table, TrendOptions{FillGaps: true})
	require.Len(t, filled, 4)
	for i, point := range filled {
		assert.Equal(t, day(2024, 1, 1+i), point.Date)
	}
	assert.True(t, filled[1].Revenue.IsZero())
	assert.True(t, filled[2].Revenue.IsZero())
	assert.True(t, domain.SeriesTotal(filled).Equal(domain.SeriesTotal(sparse)))
}

func TestDailyRevenueSeries_FillGapsAcrossMonthEnd(t *testing.T) {
	table := domain.TransactionTable{Transactions: []domain.Transaction{
		tx(day(2024, 2, 28), "1", "0"),
		tx(day(2024, 3, 1), "1", "0"),
	}}

	filled := DailyRevenueSeries(table, TrendOptions{FillGaps: true})

	require.Len(t, filled, 3)
	assert.Equal(t, day(2024, 2, 29), filled[1].Date)
}

// TestDailyRevenueSeries_Properties checks ordering, uniqueness,
// reconciliation with Aggregate and independence from row order.
func TestDailyRevenueSeries_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for iteration := 0; iteration < 50; iteration++ {
		var table domain.TransactionTable
		rows := rng.Intn(40)
		for i := 0; i < rows; i++ {
			date := day(2024, 1, 1).AddDate(0, 0, rng.Intn(20))
			revenue := decimal.New(int64(rng.Intn(100000)), -2)
			table.Transactions = append(table.Transactions, domain.Transaction{
				Date:    date,
				Revenue: revenue,
				Cost:    decimal.NewFromInt(int64(rng.Intn(500))),
			})
		}

		series := DailyRevenueSeries(table, TrendOptions{})
		summary := Aggregate(table)

		assert.True(t, domain.SeriesTotal(series).Equal(summary.TotalRevenue))
		for i := 1; i < len(series); i++ {
			assert.True(t, series[i-1].Date.Before(series[i].Date), "series must be strictly ascending")
		}

		shuffled := domain.TransactionTable{Transactions: append([]domain.Transaction(nil), table.Transactions...)}
		rng.Shuffle(len(shuffled.Transactions), func(i, j int) {
			shuffled.Transactions[i], shuffled.Transactions[j] = shuffled.Transactions[j], shuffled.Transactions[i]
		})
		reordered := DailyRevenueSeries(shuffled, TrendOptions{})
		require.Len(t, reordered, len(series))
		for i := range series {
			assert.Equal(t, series[i].Date, reordered[i].Date)
			assert.True(t, series[i].Revenue.Equal(reordered[i].Revenue))
		}
	}
}

func TestCalendarDay(t *testing.T) {
	in := time.Date(2024, 7, 4, 18, 30, 15, 99, time.FixedZone("EST", -5*3600))
	assert.Equal(t, day(2024, 7, 4), CalendarDay(in))
}
