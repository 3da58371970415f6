// Package chart renders the daily revenue series as a line chart image.
//
// Rendering uses gonum.org/v1/plot. The date axis is labelled with calendar
// days and every point is marked, with a grid behind the line. PNG, SVG, PDF
// and JPEG output are supported; the format is chosen by Options.Format.
//
// An empty series produces a valid chart with empty axes.
package chart
