package chart

import (
	"context"
	"fmt"
	"image/color"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/VRaz104/Business-Reporting-Tool/internal/errors"
	"github.com/VRaz104/Business-Reporting-Tool/pkg/contracts/domain"
)

// halfDay pads the date axis so a single point is not drawn on the frame
const halfDay = 12 * 60 * 60

var seriesColor = color.RGBA{R: 31, G: 119, B: 180, A: 255}

// SupportedFormats lists the image formats Render can produce
var SupportedFormats = []string{"png", "svg", "pdf", "jpg"}

// IsSupportedFormat reports whether format is one of SupportedFormats
func IsSupportedFormat(format string) bool {
	return slices.Contains(SupportedFormats, format)
}

// Options configures the rendered chart
type Options struct {
	Title    string
	XLabel   string
	YLabel   string
	WidthIn  float64
	HeightIn float64
	Format   string
}

// DefaultOptions returns a 10x5 inch PNG chart with the standard labels
func DefaultOptions() Options {
	return Options{
		Title:    "Daily Revenue Trend",
		XLabel:   "Date",
		YLabel:   "Revenue",
		WidthIn:  10,
		HeightIn: 5,
		Format:   "png",
	}
}

// Renderer draws daily revenue charts
type Renderer struct {
	opts   Options
	logger *slog.Logger
}

// NewRenderer creates a chart renderer. Zero-valued options fall back to
// DefaultOptions.
func NewRenderer(logger *slog.Logger, opts Options) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	defaults := DefaultOptions()
	if opts.WidthIn <= 0 {
		opts.WidthIn = defaults.WidthIn
	}
	if opts.HeightIn <= 0 {
		opts.HeightIn = defaults.HeightIn
	}
	if opts.Format == "" {
		opts.Format = defaults.Format
	}
	return &Renderer{opts: opts, logger: logger}
}

// Format returns the image format the renderer writes
func (r *Renderer) Format() string {
	return r.opts.Format
}

// Build lays out the chart for series without drawing it
func (r *Renderer) Build(series []domain.DailyRevenue) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = r.opts.Title
	p.X.Label.Text = r.opts.XLabel
	p.Y.Label.Text = r.opts.YLabel
	p.X.Tick.Marker = plot.TimeTicks{Format: "2006-01-02"}
	p.Add(plotter.NewGrid())

	if len(series) == 0 {
		return p, nil
	}

	points := make(plotter.XYs, len(series))
	for i, point := range series {
		points[i].X = float64(point.Date.Unix())
		points[i].Y = point.Revenue.InexactFloat64()
	}

	line, scatter, err := plotter.NewLinePoints(points)
	if err != nil {
		return nil, fmt.Errorf("failed to build line: %w", err)
	}
	line.Color = seriesColor
	scatter.Shape = draw.CircleGlyph{}
	scatter.Color = seriesColor
	scatter.Radius = vg.Points(3)
	p.Add(line, scatter)

	p.X.Min = points[0].X - halfDay
	p.X.Max = points[len(points)-1].X + halfDay

	return p, nil
}

// WriteTo renders the chart for series to w
func (r *Renderer) WriteTo(w io.Writer, series []domain.DailyRevenue) error {
	if !IsSupportedFormat(r.opts.Format) {
		return fmt.Errorf("unsupported chart format %q", r.opts.Format)
	}
	p, err := r.Build(series)
	if err != nil {
		return err
	}
	canvas, err := p.WriterTo(vg.Length(r.opts.WidthIn)*vg.Inch, vg.Length(r.opts.HeightIn)*vg.Inch, r.opts.Format)
	if err != nil {
		return fmt.Errorf("failed to draw chart: %w", err)
	}
	if _, err := canvas.WriteTo(w); err != nil {
		return fmt.Errorf("failed to encode chart: %w", err)
	}
	return nil
}

// Render writes the chart image for series to path
func (r *Renderer) Render(ctx context.Context, path string, series []domain.DailyRevenue) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.NewStorageError("failed to create directory", err).WithContext("path", filepath.Dir(path))
	}

	file, err := os.Create(path)
	if err != nil {
		return errors.NewStorageError("failed to create chart file", err).WithContext("path", path)
	}

	if err := r.WriteTo(file, series); err != nil {
		file.Close()
		return errors.NewStorageError("failed to render chart", err).WithContext("path", path)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		return errors.NewStorageError("failed to sync chart file", err).WithContext("path", path)
	}
	if err := file.Close(); err != nil {
		return errors.NewStorageError("failed to close chart file", err).WithContext("path", path)
	}

	r.logger.InfoContext(ctx, "chart rendered",
		slog.String("path", path),
		slog.String("format", r.opts.Format),
		slog.Int("points", len(series)))
	return nil
}
