package pipeline

import (
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"mtgtally/internal"
	"mtgtally/internal/tally"
)

type CountOptions struct {
	Dir       string
	Pattern   string
	Output    string
	Threshold int
	Label     string
}

type CountService struct {
	log   *zap.Logger
	clock clockwork.Clock
}

func NewCountService(log *zap.Logger, clock clockwork.Clock) *CountService {
	if log == nil {
		log = zap.NewNop()
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &CountService{log: log, clock: clock}
}

// Tally discovers the deck lists, counts them and builds the report. Nothing
// is written; opts.Output is only used to keep the report out of its own input.
func (s *CountService) Tally(opts CountOptions) (tally.Report, internal.RunSummary, error) {
	start := s.clock.Now()

	paths, err := Discover(opts.Dir, opts.Pattern, opts.Output)
	if err != nil {
		return tally.Report{}, internal.RunSummary{}, err
	}
	s.log.Debug("discovered sources", zap.String("dir", opts.Dir), zap.String("glob", opts.Pattern), zap.Strings("paths", paths))
	if len(paths) == 0 {
		s.log.Warn("no deck lists found", zap.String("dir", opts.Dir), zap.String("glob", opts.Pattern))
	}

	sources := make([]tally.Source, 0, len(paths))
	for _, p := range paths {
		sources = append(sources, FileSource{Path: p})
	}
	table, err := tally.Aggregate(sources)
	if err != nil {
		return tally.Report{}, internal.RunSummary{}, err
	}

	label := opts.Label
	if label == "" {
		label = tally.DefaultLabel
	}
	report := tally.BuildReport(table, opts.Threshold, label, s.clock.Now())

	summary := internal.RunSummary{
		Sources:   len(paths),
		Lines:     table.Total(),
		Distinct:  table.Len(),
		Reported:  len(report.Entries),
		Threshold: opts.Threshold,
		Output:    opts.Output,
	}
	s.log.Info("tally complete",
		zap.Int("sources", summary.Sources),
		zap.Int("lines", summary.Lines),
		zap.Int("distinct", summary.Distinct),
		zap.Int("reported", summary.Reported),
		zap.Int("threshold", summary.Threshold),
		zap.Duration("took", s.clock.Since(start).Round(time.Millisecond)),
	)
	return report, summary, nil
}

// WriteText runs Tally and rewrites opts.Output with the text report.
func (s *CountService) WriteText(opts CountOptions) (internal.RunSummary, error) {
	report, summary, err := s.Tally(opts)
	if err != nil {
		return internal.RunSummary{}, err
	}
	if err := WriteReportFile(report, opts.Output); err != nil {
		return internal.RunSummary{}, err
	}
	s.log.Debug("report written", zap.String("path", opts.Output))
	return summary, nil
}

// WriteXLSX runs Tally and saves the report as a spreadsheet at opts.Output.
func (s *CountService) WriteXLSX(opts CountOptions) (internal.RunSummary, error) {
	report, summary, err := s.Tally(opts)
	if err != nil {
		return internal.RunSummary{}, err
	}
	if err := ExportReportToXLSX(report, opts.Output); err != nil {
		return internal.RunSummary{}, err
	}
	s.log.Debug("xlsx report written", zap.String("path", opts.Output))
	return summary, nil
}
