package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/jd-matcher/internal/ai"
	"github.com/spigell/jd-matcher/internal/documents"
	"github.com/spigell/jd-matcher/internal/logger"
	"github.com/spigell/jd-matcher/internal/notify"
	"github.com/spigell/jd-matcher/internal/ranking"
	"github.com/spigell/jd-matcher/internal/report"
)

// Status of one job description after a run.
type Status string

const (
	StatusProcessed Status = "processed"
	StatusSkipped   Status = "skipped"
	StatusFailed    Status = "failed"
)

// Outcome is the per job description record of a batch run.
type Outcome struct {
	JD       documents.JobDescription
	Ranked   []ai.ComparisonResult
	Decision notify.Decision
	Skipped  bool
	Err      error
}

func (o Outcome) Status() Status {
	switch {
	case o.Skipped:
		return StatusSkipped
	case o.Err != nil:
		return StatusFailed
	default:
		return StatusProcessed
	}
}

// Summary describes a whole batch run.
type Summary struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time
	Outcomes   []Outcome
}

func (s Summary) count(status Status) int {
	n := 0
	for _, o := range s.Outcomes {
		if o.Status() == status {
			n++
		}
	}
	return n
}

func (s Summary) Processed() int { return s.count(StatusProcessed) }
func (s Summary) Skipped() int   { return s.count(StatusSkipped) }
func (s Summary) Failed() int    { return s.count(StatusFailed) }

// Driver runs the stages for every job description of a batch.
type Driver struct {
	deps     Deps
	stages   []Stage
	out      io.Writer
	workbook string
	now      func() time.Time
}

type Option func(*Driver)

// WithStages replaces the default compare, rank and notify stages.
func WithStages(stages ...Stage) Option {
	return func(d *Driver) { d.stages = stages }
}

// WithWorkbook exports the batch summary to an .xlsx file at path.
func WithWorkbook(path string) Option {
	return func(d *Driver) { d.workbook = path }
}

func NewDriver(deps Deps, out io.Writer, opts ...Option) *Driver {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if out == nil {
		out = io.Discard
	}

	d := &Driver{deps: deps, stages: DefaultStages(), out: out, now: time.Now}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run processes jds in order. Failures of one job description never stop the batch.
// Once ctx is done the remaining job descriptions are recorded as failed.
func (d *Driver) Run(ctx context.Context, jds documents.Set) Summary {
	summary := Summary{RunID: uuid.NewString(), StartedAt: d.now()}
	log := d.deps.Logger.With(zap.String(logger.FieldRunID, summary.RunID))

	log.Info("batch started", zap.Int("job_descriptions", jds.Len()), zap.Int("profiles", d.deps.Profiles.Len()))

	for _, doc := range jds {
		jd := documents.NewJobDescription(doc)
		jdLog := logger.WithJD(log, jd.ID, jd.Title)

		var outcome Outcome
		if err := ctx.Err(); err != nil {
			outcome = Outcome{JD: jd, Err: err}
			jdLog.Warn("job description not processed", zap.Error(err))
		} else {
			outcome = d.process(ctx, jd, jdLog)
		}

		summary.Outcomes = append(summary.Outcomes, outcome)
	}

	summary.FinishedAt = d.now()

	log.Info("batch finished",
		zap.Int("processed", summary.Processed()),
		zap.Int("skipped", summary.Skipped()),
		zap.Int("failed", summary.Failed()),
		zap.Duration("duration", summary.FinishedAt.Sub(summary.StartedAt)),
	)
	d.printSummary(summary)

	if d.workbook != "" {
		if err := report.ExportWorkbook(workbookFrom(summary), d.workbook); err != nil {
			log.Error("exporting workbook failed", zap.String("path", d.workbook), zap.Error(err))
		} else {
			log.Info("workbook exported", zap.String("path", d.workbook))
		}
	}

	return summary
}

func (d *Driver) process(ctx context.Context, jd documents.JobDescription, log *zap.Logger) (outcome Outcome) {
	outcome = Outcome{JD: jd}

	if jd.IsBlank() {
		log.Info("skipping empty job description")
		fmt.Fprintf(d.out, "\nSkipping empty JD file: %s\n", jd.ID)
		outcome.Skipped = true
		return outcome
	}

	fmt.Fprintf(d.out, "\nStarting workflow for JD: %s (%s)\n", jd.Title, jd.ID)

	state := &State{JD: jd}
	defer func() {
		if r := recover(); r != nil {
			log.Error("job description panicked", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
			outcome.Err = fmt.Errorf("panic: %v", r)
			fmt.Fprintf(d.out, "Error processing JD %s: %v\n", jd.ID, outcome.Err)
		}
	}()

	deps := d.deps
	deps.Logger = log

	if err := Run(ctx, deps, d.stages, state); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			log.Warn("job description interrupted", zap.Error(err))
		} else {
			log.Error("job description failed", zap.Error(err))
		}
		outcome.Ranked = state.Ranked
		outcome.Err = err
		fmt.Fprintf(d.out, "Error processing JD %s: %v\n", jd.ID, err)
		return outcome
	}

	outcome.Ranked = state.Ranked
	outcome.Decision = state.Decision
	d.printTop(state.Ranked)

	return outcome
}

func (d *Driver) printTop(ranked []ai.ComparisonResult) {
	top := ranking.Top(ranked, notify.TopMatches)

	fmt.Fprintln(d.out, "Workflow completed.")
	if len(top) == 0 {
		fmt.Fprintln(d.out, "No suitable matches found.")
		return
	}

	fmt.Fprintln(d.out, "Top 3 Profiles:")
	for i, r := range top {
		fmt.Fprintf(d.out, "  %d. %s (%s) - Score: %.2f\n", i+1, r.ProfileName, r.ApplicantName, r.SimilarityScore)
	}
}

func (d *Driver) printSummary(s Summary) {
	fmt.Fprintf(d.out, "\nBatch %s: %d processed, %d skipped, %d failed\n", s.RunID, s.Processed(), s.Skipped(), s.Failed())
	for _, o := range s.Outcomes {
		if o.Err != nil {
			fmt.Fprintf(d.out, "  %s: %v\n", o.JD.ID, o.Err)
		}
	}
}

func workbookFrom(s Summary) report.Workbook {
	wb := report.Workbook{RunID: s.RunID}
	for _, o := range s.Outcomes {
		row := report.SummaryRow{
			JDID:     o.JD.ID,
			Title:    o.JD.Title,
			Status:   string(o.Status()),
			Decision: string(o.Decision.Variant),
		}
		if len(o.Ranked) > 0 {
			row.TopProfile = o.Ranked[0].ProfileName
			row.TopScore = o.Ranked[0].SimilarityScore
		}
		if o.Err != nil {
			row.Error = o.Err.Error()
		}
		wb.Summary = append(wb.Summary, row)

		for i, r := range o.Ranked {
			wb.Matches = append(wb.Matches, report.MatchRow{
				JDID:          o.JD.ID,
				Rank:          i + 1,
				ProfileName:   r.ProfileName,
				ApplicantName: r.ApplicantName,
				Score:         r.SimilarityScore,
				Reasoning:     r.Reasoning,
			})
		}
	}
	return wb
}
