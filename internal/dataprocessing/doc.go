// Package dataprocessing turns a sales CSV into report data.
//
// # Architecture
//
// The package is organized into three components:
//
// 1. Loader: reads the input file into a domain.TransactionTable
// 2. Aggregate: computes revenue, cost, profit and margin totals
// 3. DailyRevenueSeries: groups revenue by calendar day
//
// Aggregate and DailyRevenueSeries are pure functions of the table.
//
// # Usage
//
//	loader := dataprocessing.NewLoader(logger, dataprocessing.LoaderConfig{
//	    DateColumn:    "date",
//	    RevenueColumn: "revenue",
//	    CostColumn:    "cost",
//	})
//	table, err := loader.LoadFile(ctx, "sales_data.csv")
//	if err != nil {
//	    return err
//	}
//	summary := dataprocessing.Aggregate(*table)
//	series := dataprocessing.DailyRevenueSeries(*table, dataprocessing.TrendOptions{})
//
// # Data Flow
//
//	CSV File → Loader → TransactionTable → {Aggregate, DailyRevenueSeries} → Report
//
// # Error Handling
//
// Loader errors are *errors.AppError values: INPUT for a missing file or
// column, PARSING for malformed CSV or an invalid value. Parsing errors carry
// the offending line, column and value in their context.
package dataprocessing
