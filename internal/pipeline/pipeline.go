package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spigell/jd-matcher/internal/ai"
	"github.com/spigell/jd-matcher/internal/documents"
	"github.com/spigell/jd-matcher/internal/notify"
	"github.com/spigell/jd-matcher/internal/ranking"
)

// Stage is a single step applied to the state of one job description.
type Stage interface {
	Name() string
	Apply(ctx context.Context, deps Deps, state *State) (Step, error)
}

// Notifier sends the stakeholder emails for ranked results.
type Notifier interface {
	Notify(ctx context.Context, ranked []ai.ComparisonResult, jdTitle string, recipients notify.Recipients) notify.Decision
}

// Deps aggregates dependencies shared across all stages and job descriptions.
type Deps struct {
	Comparator ai.Comparator
	Notifier   Notifier
	Profiles   documents.Set
	Recipients notify.Recipients
	Logger     *zap.Logger
}

// State is created fresh for every job description.
type State struct {
	JD       documents.JobDescription
	Results  []ai.ComparisonResult
	Ranked   []ai.ComparisonResult
	Decision notify.Decision
}

// Step describes the result of executing a stage.
type Step struct {
	Initial int
	Dropped int
	Left    int
}

// DefaultStages returns compare, rank and notify in that order.
func DefaultStages() []Stage {
	return []Stage{compareStage{}, rankStage{}, notifyStage{}}
}

// Run executes the stages sequentially. It stops at the first error or when ctx is done.
func Run(ctx context.Context, deps Deps, stages []Stage, state *State) error {
	for _, stage := range stages {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%s: %w", stage.Name(), err)
		}

		info, err := stage.Apply(ctx, deps, state)
		if err != nil {
			return fmt.Errorf("%s: %w", stage.Name(), err)
		}

		if deps.Logger != nil {
			deps.Logger.Info("pipeline step",
				zap.String("name", stage.Name()),
				zap.Int("initial", info.Initial),
				zap.Int("dropped", info.Dropped),
				zap.Int("left", info.Left),
			)
		}
	}
	return nil
}

type compareStage struct{}

func (compareStage) Name() string { return "compare" }

func (compareStage) Apply(ctx context.Context, deps Deps, state *State) (Step, error) {
	if deps.Comparator == nil {
		return Step{}, fmt.Errorf("comparator is required")
	}

	initial := deps.Profiles.Len()
	state.Results = deps.Comparator.Compare(ctx, state.JD.ID, state.JD.Content, deps.Profiles)
	left := len(state.Results)

	return Step{Initial: initial, Dropped: max(initial-left, 0), Left: left}, nil
}

type rankStage struct{}

func (rankStage) Name() string { return "rank" }

func (rankStage) Apply(_ context.Context, _ Deps, state *State) (Step, error) {
	state.Ranked = ranking.Rank(state.Results)
	return Step{Initial: len(state.Results), Left: len(state.Ranked)}, nil
}

type notifyStage struct{}

func (notifyStage) Name() string { return "notify" }

func (notifyStage) Apply(ctx context.Context, deps Deps, state *State) (Step, error) {
	if deps.Notifier == nil {
		return Step{}, fmt.Errorf("notifier is required")
	}

	state.Decision = deps.Notifier.Notify(ctx, state.Ranked, state.JD.Title, deps.Recipients)
	initial := len(state.Ranked)
	left := len(state.Decision.TopMatches)

	return Step{Initial: initial, Dropped: initial - left, Left: left}, nil
}
