// Package operations runs a sales report as a sequence of steps.
//
// A run is described by an OperationState that every Step reads from and
// writes to. The Manager executes the registered steps in registration order,
// stopping at the first failure, and wraps each step in a trace span and step
// metrics.
//
// Steps:
//
//   - prepare: checks the input file and output directory, creates the
//     run-scoped staging directory
//   - load: reads the input into a TransactionTable
//   - aggregate: computes the MetricsSummary
//   - trend: derives the daily revenue series
//   - write_report: writes the summary CSV and the optional series CSV and
//     workbook into the staging directory
//   - render_chart: renders the revenue chart into the staging directory
//   - commit: moves every staged artifact into the output directory
//
// Artifacts only become visible in the output directory during commit. When
// any step fails nothing is committed, and a failed commit removes the
// artifacts it had already moved, so a run leaves either all of its outputs or
// none. The staging directory is removed when the run ends.
//
// Steps that write output report WritesOutput() == true and are skipped in a
// dry run.
//
// Example usage:
//
//	manager, err := operations.NewReportPipeline(cfg, logger, tracer)
//	if err != nil {
//		return err
//	}
//	state := operations.NewRunState(cfg, paths, runID, startedAt, false)
//	result, err := manager.Execute(ctx, state)
package operations
