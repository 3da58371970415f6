package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is one sales event loaded from the input file.
//
// Revenue and Cost are non-negative once a record has been accepted by the
// loader. Line is the 1-based line of the source file the record came from and
// is only used for diagnostics.
type Transaction struct {
	Date    time.Time       `json:"date" validate:"required"`
	Revenue decimal.Decimal `json:"revenue"`
	Cost    decimal.Decimal `json:"cost"`
	Line    int             `json:"line"`
}

// Profit returns revenue minus cost for this record.
func (t Transaction) Profit() decimal.Decimal {
	return t.Revenue.Sub(t.Cost)
}

// Validate checks the amount invariants of a record.
func (t Transaction) Validate() error {
	if t.Date.IsZero() {
		return fmt.Errorf("date is required")
	}
	if t.Revenue.IsNegative() {
		return fmt.Errorf("revenue must not be negative, got %s", t.Revenue.String())
	}
	if t.Cost.IsNegative() {
		return fmt.Errorf("cost must not be negative, got %s", t.Cost.String())
	}
	return nil
}

// RowIssueKind tells a row that could not be read from one whose values
// were read but break a record rule.
type RowIssueKind string

const (
	RowIssueParse      RowIssueKind = "parse"
	RowIssueValidation RowIssueKind = "validation"
)

// RowIssue describes an input row that was excluded from the table.
type RowIssue struct {
	Line   int          `json:"line"`
	Kind   RowIssueKind `json:"kind"`
	Column string       `json:"column,omitempty"`
	Value  string       `json:"value,omitempty"`
	Reason string       `json:"reason"`
}

// String renders the issue for log and error messages.
func (r RowIssue) String() string {
	if r.Column == "" {
		return fmt.Sprintf("line %d: %s", r.Line, r.Reason)
	}
	return fmt.Sprintf("line %d, column %q, value %q: %s", r.Line, r.Column, r.Value, r.Reason)
}

// TransactionTable is the ordered set of records loaded from one input file.
// Records keep file order; they are not sorted by date.
type TransactionTable struct {
	Source       string        `json:"source"`
	Transactions []Transaction `json:"transactions"`
	Skipped      []RowIssue    `json:"skipped,omitempty"`
}

// Len returns the number of accepted records.
func (t TransactionTable) Len() int {
	return len(t.Transactions)
}

// IsEmpty reports whether the table holds no records.
func (t TransactionTable) IsEmpty() bool {
	return len(t.Transactions) == 0
}
