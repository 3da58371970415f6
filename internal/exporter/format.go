package exporter

import (
	"time"

	"github.com/shopspring/decimal"
)

// dateLayout is used for every date written to an artifact
const dateLayout = "2006-01-02"

// formatAmount formats a money amount with exactly 2 decimal places
func formatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// formatDate formats a calendar day for CSV output
func formatDate(t time.Time) string {
	return t.Format(dateLayout)
}
