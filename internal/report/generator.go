package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jonesrussell/north-cloud/media-scan/internal/logger"
	"github.com/jonesrussell/north-cloud/media-scan/internal/service"
	"github.com/jonesrussell/north-cloud/media-scan/internal/telemetry"
)

// Report is a rendered document ready to download or archive.
type Report struct {
	Filename string
	Period   Period
	Format   Format
	Data     []byte
	// Layout is the PDF section plan; nil for workbooks.
	Layout []Placement
}

// Generator fetches report bundles and renders them.
type Generator struct {
	svc     *service.Services
	log     logger.Logger
	metrics *telemetry.Metrics
	now     func() time.Time
	loc     *time.Location
}

type Option func(*Generator)

func WithLogger(log logger.Logger) Option {
	return func(g *Generator) { g.log = log }
}

func WithMetrics(m *telemetry.Metrics) Option {
	return func(g *Generator) { g.metrics = m }
}

// WithLocation sets the zone for report dates and filenames.
func WithLocation(loc *time.Location) Option {
	return func(g *Generator) {
		if loc != nil {
			g.loc = loc
		}
	}
}

func NewGenerator(svc *service.Services, opts ...Option) *Generator {
	g := &Generator{svc: svc, log: logger.NewNop(), now: time.Now, loc: time.Local}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate fetches a fresh bundle for the period and renders it.
func (g *Generator) Generate(ctx context.Context, p Period, f Format) (rep Report, err error) {
	start := time.Now()
	defer func() {
		g.metrics.RecordReport(string(p), string(f), err, time.Since(start))
	}()

	limit := PDFArticleLimit
	if f == FormatExcel {
		limit = ExcelArticleLimit
	}
	now := g.now().In(g.loc)
	bundle, err := Fetch(ctx, g.svc, p, limit, now)
	if err != nil {
		g.log.Error("Report data fetch failed",
			logger.Period(p),
			logger.String("format", string(f)),
			logger.Error(err),
		)
		return Report{}, err
	}

	rep = Report{Filename: Filename(p, f, now), Period: p, Format: f}
	switch f {
	case FormatPDF:
		rep.Data, rep.Layout, err = RenderPDF(bundle)
	case FormatExcel:
		rep.Data, err = RenderExcel(bundle)
	default:
		err = fmt.Errorf("%w: %q", ErrInvalidFormat, f)
	}
	if err != nil {
		return Report{}, err
	}

	g.log.Info("Report generated",
		logger.String("filename", rep.Filename),
		logger.Int("bytes", len(rep.Data)),
		logger.Duration("duration", time.Since(start)),
	)
	return rep, nil
}

// WriteFiles generates one report per format into dir and returns the
// written paths.
func (g *Generator) WriteFiles(ctx context.Context, p Period, formats []Format, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create report directory: %w", err)
	}
	paths := make([]string, 0, len(formats))
	for _, f := range formats {
		rep, err := g.Generate(ctx, p, f)
		if err != nil {
			return paths, err
		}
		path := filepath.Join(dir, rep.Filename)
		if err = os.WriteFile(path, rep.Data, 0o600); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
