package dataprocessing

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/VRaz104/Business-Reporting-Tool/internal/errors"
	"github.com/VRaz104/Business-Reporting-Tool/pkg/contracts/domain"
)

// utf8BOM is stripped from the start of the input; spreadsheet exports
// commonly prepend it to the header row.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// timestampLayouts are tried after the configured date layout so that inputs
// carrying a time of day still load; the time part is dropped when grouping.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

// LoaderConfig holds the column mapping and parsing options of the loader.
type LoaderConfig struct {
	DateColumn      string
	RevenueColumn   string
	CostColumn      string
	DateFormat      string // Go time layout
	Delimiter       rune
	SkipInvalidRows bool // skip-with-warning instead of failing the load
}

// DefaultLoaderConfig returns the loader configuration for the standard
// date,revenue,cost layout.
func DefaultLoaderConfig() LoaderConfig {
	return LoaderConfig{
		DateColumn:    "date",
		RevenueColumn: "revenue",
		CostColumn:    "cost",
		DateFormat:    "2006-01-02",
		Delimiter:     ',',
	}
}

// Loader reads sales transactions from delimited text files.
type Loader struct {
	logger *slog.Logger
	config LoaderConfig
}

// NewLoader creates a loader with the given configuration.
func NewLoader(logger *slog.Logger, config LoaderConfig) *Loader {
	if logger == nil {
		logger = slog.Default()
	}

	defaults := DefaultLoaderConfig()
	if config.DateColumn == "" {
		config.DateColumn = defaults.DateColumn
	}
	if config.RevenueColumn == "" {
		config.RevenueColumn = defaults.RevenueColumn
	}
	if config.CostColumn == "" {
		config.CostColumn = defaults.CostColumn
	}
	if config.DateFormat == "" {
		config.DateFormat = defaults.DateFormat
	}
	if config.Delimiter == 0 {
		config.Delimiter = defaults.Delimiter
	}

	return &Loader{
		logger: logger,
		config: config,
	}
}

// LoadFile opens path and loads its transactions.
func (l *Loader) LoadFile(ctx context.Context, path string) (*domain.TransactionTable, error) {
	file, err := os.Open(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.NewInputError("input file not found", err).WithContext("path", path)
		}
		return nil, errors.NewInputError("failed to open input file", err).WithContext("path", path)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, errors.NewInputError("failed to stat input file", err).WithContext("path", path)
	}
	if info.IsDir() {
		return nil, errors.NewInputError("input path is a directory", nil).WithContext("path", path)
	}

	return l.Load(ctx, file, path)
}

// columnIndex holds the header positions of the mapped columns
type columnIndex struct {
	date, revenue, cost int
}

func (c columnIndex) maxIndex() int {
	return max(c.date, c.revenue, c.cost)
}

// Load reads transactions from r. source names the input in diagnostics.
//
// Structural CSV errors (for example an unterminated quote) always fail the
// load. Rows with an unparseable value (PARSING) or a negative amount
// (VALIDATION) fail the load unless
// SkipInvalidRows is set, in which case they are logged and recorded in
// TransactionTable.Skipped.
func (l *Loader) Load(ctx context.Context, r io.Reader, source string) (*domain.TransactionTable, error) {
	br := bufio.NewReader(r)
	if prefix, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(prefix, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	reader := csv.NewReader(br)
	reader.Comma = l.config.Delimiter
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, errors.NewInputError("input file has no header row", nil).WithContext("path", source)
		}
		return nil, csvError(err, source)
	}

	columns, err := l.resolveColumns(header, source)
	if err != nil {
		return nil, err
	}

	table := &domain.TransactionTable{
		Source:       source,
		Transactions: []domain.Transaction{},
	}

	for rows := 0; ; rows++ {
		if rows%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, csvError(err, source)
		}

		line, _ := reader.FieldPos(0)
		tx, issue := l.parseRecord(record, line, columns)
		if issue == nil {
			table.Transactions = append(table.Transactions, tx)
			continue
		}

		if !l.config.SkipInvalidRows {
			return nil, rowError(issue).
				WithContext("path", source).
				WithContext("line", issue.Line).
				WithContext("column", issue.Column).
				WithContext("value", issue.Value)
		}

		l.logger.WarnContext(ctx, "skipping invalid input row",
			slog.String("path", source),
			slog.Int("line", issue.Line),
			slog.String("kind", string(issue.Kind)),
			slog.String("column", issue.Column),
			slog.String("value", issue.Value),
			slog.String("reason", issue.Reason))
		table.Skipped = append(table.Skipped, *issue)
	}

	l.logger.InfoContext(ctx, "loaded transactions",
		slog.String("path", source),
		slog.Int("record_count", table.Len()),
		slog.Int("skipped_count", len(table.Skipped)))

	return table, nil
}

// resolveColumns finds the mapped columns in the header. Names match exactly
// first, then case-insensitively with surrounding spaces ignored.
func (l *Loader) resolveColumns(header []string, source string) (columnIndex, error) {
	find := func(name string) int {
		for i, h := range header {
			if h == name {
				return i
			}
		}
		for i, h := range header {
			if strings.EqualFold(strings.TrimSpace(h), strings.TrimSpace(name)) {
				return i
			}
		}
		return -1
	}

	var (
		idx     columnIndex
		missing []string
	)
	for _, c := range []struct {
		name string
		dst  *int
	}{
		{l.config.DateColumn, &idx.date},
		{l.config.RevenueColumn, &idx.revenue},
		{l.config.CostColumn, &idx.cost},
	} {
		*c.dst = find(c.name)
		if *c.dst < 0 {
			missing = append(missing, c.name)
		}
	}

	if len(missing) > 0 {
		return idx, errors.NewInputError(
			fmt.Sprintf("missing required column(s): %s", strings.Join(missing, ", ")), nil).
			WithContext("path", source).
			WithContext("available_columns", strings.Join(header, ", "))
	}
	return idx, nil
}

// parseRecord converts one CSV record into a Transaction
func (l *Loader) parseRecord(record []string, line int, columns columnIndex) (domain.Transaction, *domain.RowIssue) {
	if len(record) <= columns.maxIndex() {
		return domain.Transaction{}, &domain.RowIssue{
			Line:   line,
			Kind:   domain.RowIssueParse,
			Reason: fmt.Sprintf("row has %d fields, expected at least %d", len(record), columns.maxIndex()+1),
		}
	}

	dateValue := strings.TrimSpace(record[columns.date])
	date, err := l.parseDate(dateValue)
	if err != nil {
		return domain.Transaction{}, &domain.RowIssue{
			Line:   line,
			Kind:   domain.RowIssueParse,
			Column: l.config.DateColumn,
			Value:  dateValue,
			Reason: fmt.Sprintf("not a date in layout %q", l.config.DateFormat),
		}
	}

	revenue, issue := parseAmount(record[columns.revenue], line, l.config.RevenueColumn)
	if issue != nil {
		return domain.Transaction{}, issue
	}
	cost, issue := parseAmount(record[columns.cost], line, l.config.CostColumn)
	if issue != nil {
		return domain.Transaction{}, issue
	}

	tx := domain.Transaction{
		Date:    date,
		Revenue: revenue,
		Cost:    cost,
		Line:    line,
	}
	if err := tx.Validate(); err != nil {
		return domain.Transaction{}, &domain.RowIssue{Line: line, Kind: domain.RowIssueValidation, Reason: err.Error()}
	}
	return tx, nil
}

func (l *Loader) parseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	date, err := time.Parse(l.config.DateFormat, value)
	if err == nil {
		return date, nil
	}
	for _, layout := range timestampLayouts {
		if parsed, tsErr := time.Parse(layout, value); tsErr == nil {
			return parsed, nil
		}
	}
	return time.Time{}, err
}

func parseAmount(raw string, line int, column string) (decimal.Decimal, *domain.RowIssue) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return decimal.Zero, &domain.RowIssue{Line: line, Kind: domain.RowIssueParse, Column: column, Value: value, Reason: "value is empty"}
	}
	amount, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, &domain.RowIssue{Line: line, Kind: domain.RowIssueParse, Column: column, Value: value, Reason: "not a number"}
	}
	return amount, nil
}

// rowError classifies a rejected row: unreadable values are parsing errors,
// values that break a record rule are validation errors.
func rowError(issue *domain.RowIssue) *errors.AppError {
	msg := "invalid input row: " + issue.String()
	if issue.Kind == domain.RowIssueValidation {
		return errors.NewAppValidationError(msg)
	}
	return errors.NewParsingError(msg, nil)
}

// csvError converts a csv.Reader failure into a parsing error
func csvError(err error, source string) error {
	appErr := errors.NewParsingError("malformed CSV input", err).WithContext("path", source)
	var parseErr *csv.ParseError
	if stderrors.As(err, &parseErr) {
		appErr.WithContext("line", parseErr.Line)
	}
	return appErr
}
