package notify

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/spigell/jd-matcher/internal/ai"
	"github.com/spigell/jd-matcher/internal/email"
	"github.com/spigell/jd-matcher/internal/ranking"
	"github.com/spigell/jd-matcher/internal/utils"
)

const (
	// TopMatches is how many ranked results are considered and reported.
	TopMatches = 3
	// MatchThreshold must be strictly exceeded by the best score to report matches.
	MatchThreshold = 0.5
)

// Variant names the outcome of the decision policy.
type Variant string

const (
	VariantMatches Variant = "matches_found"
	VariantNoMatch Variant = "no_match"
)

// Recipients are the addresses notified about every job description.
type Recipients struct {
	ARRequestor string `mapstructure:"ar-requestor"`
	Recruiter   string `mapstructure:"recruiter"`
}

// Decision describes what was sent for one job description.
type Decision struct {
	Variant    Variant
	TopMatches []ai.ComparisonResult
	Attempted  int
	Failed     int
}

// Decide applies the policy to ranked results without sending anything.
func Decide(ranked []ai.ComparisonResult) (Variant, []ai.ComparisonResult) {
	top := ranking.Top(ranked, TopMatches)
	if len(top) > 0 && top[0].SimilarityScore > MatchThreshold {
		return VariantMatches, top
	}
	return VariantNoMatch, top
}

type Notifier struct {
	sender email.Sender
	from   string
	logger *zap.Logger
}

func New(sender email.Sender, from string, logger *zap.Logger) *Notifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Notifier{sender: sender, from: from, logger: logger}
}

// Notify emails the stakeholders according to the ranked results.
// Send failures are counted in the returned Decision and never retried.
func (n *Notifier) Notify(ctx context.Context, ranked []ai.ComparisonResult, jdTitle string, recipients Recipients) Decision {
	title := utils.SingleLine(jdTitle)
	variant, top := Decide(ranked)
	decision := Decision{Variant: variant, TopMatches: top}

	var messages []email.Message
	switch variant {
	case VariantMatches:
		messages = []email.Message{
			{To: recipients.ARRequestor, Subject: "Top 3 Consultant Matches for " + title, Body: matchesBody(title, top)},
			{To: recipients.Recruiter, Subject: "Matches Found for Job: " + title, Body: matchesFoundBody(title)},
		}
	default:
		messages = []email.Message{
			{To: recipients.Recruiter, Subject: "No Suitable Matches Found for " + title, Body: noMatchBody(title)},
		}
	}

	for _, msg := range messages {
		msg.From = n.from
		decision.Attempted++
		if err := n.sender.Send(ctx, msg); err != nil {
			decision.Failed++
			if !errors.Is(err, email.ErrNotConfigured) {
				n.logger.Debug("notification not delivered", zap.String("to", msg.To), zap.Error(err))
			}
		}
	}

	n.logger.Info("notification decision",
		zap.String("variant", string(decision.Variant)),
		zap.Int("attempted", decision.Attempted),
		zap.Int("failed", decision.Failed),
	)

	return decision
}
