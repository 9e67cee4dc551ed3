package report

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/phuslu/log"

	"github.com/qaforge/exercise-e2e/internal/models"
)

// Sink persists run history outside the process.
type Sink interface {
	CreateRun(ctx context.Context, run *models.Run) error
	AddResult(ctx context.Context, result *models.ScenarioResult) error
	FinishRun(ctx context.Context, run *models.Run) error
}

// Options configures a Recorder.
type Options struct {
	// Out receives one list line per recorded attempt. Nil disables the list output.
	Out       io.Writer
	JUnitFile string
	HTMLDir   string
	Sink      Sink
	Logger    *log.Logger
}

// Summary counts final outcomes, one per scenario/profile pair.
type Summary struct {
	Total   int
	Passed  int
	Failed  int
	Flaky   int
	Skipped int
}

// OK reports whether no scenario ended in failure.
func (s Summary) OK() bool {
	return s.Failed == 0
}

// Recorder collects the results of one Run. It is safe for concurrent use.
type Recorder struct {
	mu      sync.Mutex
	run     *models.Run
	results []*models.ScenarioResult
	opts    Options
	logger  *log.Logger
	started bool
}

// NewRecorder creates a recorder for run.
func NewRecorder(run *models.Run, opts Options) *Recorder {
	logger := opts.Logger
	if logger == nil {
		logger = &log.DefaultLogger
	}
	return &Recorder{run: run, opts: opts, logger: logger}
}

// Run returns the run being recorded.
func (r *Recorder) Run() *models.Run {
	return r.run
}

// Start registers the run with the sink, if any.
func (r *Recorder) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.started {
		return nil
	}
	r.started = true

	if r.opts.Sink == nil {
		return nil
	}
	if err := r.opts.Sink.CreateRun(ctx, r.run); err != nil {
		return fmt.Errorf("failed to register run: %w", err)
	}
	return nil
}

// Record stores one finished attempt and prints its list line. A sink
// failure is logged, the result is kept either way.
func (r *Recorder) Record(ctx context.Context, result *models.ScenarioResult) {
	r.mu.Lock()
	r.results = append(r.results, result)
	if r.opts.Out != nil {
		fmt.Fprintln(r.opts.Out, listLine(len(r.results), result))
	}
	sink := r.opts.Sink
	r.mu.Unlock()

	if sink == nil {
		return
	}
	if err := sink.AddResult(ctx, result); err != nil {
		r.logger.Warn().Err(err).Str("scenario", result.Scenario).Str("profile", result.Profile).Msg("failed to persist scenario result")
	}
}

// Results returns every recorded attempt in recording order.
func (r *Recorder) Results() []*models.ScenarioResult {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*models.ScenarioResult, len(r.results))
	copy(out, r.results)
	return out
}

// Final returns the last attempt of every scenario/profile pair, sorted by
// profile then scenario.
func (r *Recorder) Final() []*models.ScenarioResult {
	return FinalResults(r.Results())
}

// Summary counts the final outcomes.
func (r *Recorder) Summary() Summary {
	return Summarize(r.Final())
}

// Finish closes the run and writes the JUnit and HTML reports.
func (r *Recorder) Finish(ctx context.Context) (Summary, error) {
	r.mu.Lock()
	if r.run.FinishedAt.IsZero() {
		r.run.FinishedAt = time.Now()
	}
	r.mu.Unlock()

	final := r.Final()
	summary := Summarize(final)

	if r.opts.JUnitFile != "" {
		if err := WriteJUnit(r.opts.JUnitFile, r.run, final); err != nil {
			return summary, err
		}
		r.logger.Info().Str("path", r.opts.JUnitFile).Msg("JUnit report written")
	}

	if r.opts.HTMLDir != "" {
		if err := WriteHTML(r.opts.HTMLDir, r.run, r.Results(), summary); err != nil {
			return summary, err
		}
		r.logger.Info().Str("dir", r.opts.HTMLDir).Msg("HTML report written")
	}

	if r.opts.Sink != nil {
		if err := r.opts.Sink.FinishRun(ctx, r.run); err != nil {
			return summary, fmt.Errorf("failed to finish run: %w", err)
		}
	}

	if r.opts.Out != nil {
		fmt.Fprintln(r.opts.Out, summaryLine(summary, r.run.FinishedAt.Sub(r.run.StartedAt)))
	}
	return summary, nil
}

// FinalResults keeps the last attempt of every scenario/profile pair, sorted
// by profile then scenario.
func FinalResults(all []*models.ScenarioResult) []*models.ScenarioResult {
	latest := make(map[string]*models.ScenarioResult)
	for _, res := range all {
		if prev, ok := latest[res.Key()]; !ok || res.Attempt >= prev.Attempt {
			latest[res.Key()] = res
		}
	}

	out := make([]*models.ScenarioResult, 0, len(latest))
	for _, res := range latest {
		out = append(out, res)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Profile != out[j].Profile {
			return out[i].Profile < out[j].Profile
		}
		return out[i].Scenario < out[j].Scenario
	})
	return out
}

// Summarize counts final outcomes.
func Summarize(final []*models.ScenarioResult) Summary {
	s := Summary{Total: len(final)}
	for _, res := range final {
		switch res.Status {
		case models.ResultPassed:
			if res.IsFlaky() {
				s.Flaky++
			} else {
				s.Passed++
			}
		case models.ResultFailed:
			s.Failed++
		case models.ResultSkipped:
			s.Skipped++
		}
	}
	return s
}

func listLine(n int, res *models.ScenarioResult) string {
	mark := "?"
	switch res.Status {
	case models.ResultPassed:
		mark = "✓"
	case models.ResultFailed:
		mark = "✘"
	case models.ResultSkipped:
		mark = "-"
	}

	line := fmt.Sprintf("  %s %3d [%s] › %s", mark, n, res.Profile, res.Scenario)
	if res.Attempt > 0 {
		line += fmt.Sprintf(" (retry #%d)", res.Attempt)
	}
	if res.Status != models.ResultSkipped {
		line += fmt.Sprintf(" (%s)", res.Duration.Round(time.Millisecond))
	}
	return line
}

func summaryLine(s Summary, elapsed time.Duration) string {
	line := fmt.Sprintf("\n  %d passed", s.Passed)
	if s.Flaky > 0 {
		line += fmt.Sprintf(", %d flaky", s.Flaky)
	}
	if s.Failed > 0 {
		line += fmt.Sprintf(", %d failed", s.Failed)
	}
	if s.Skipped > 0 {
		line += fmt.Sprintf(", %d skipped", s.Skipped)
	}
	return line + fmt.Sprintf(" (%s)", elapsed.Round(time.Millisecond))
}
