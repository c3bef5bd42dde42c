package reconcile

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerdesk-dev/ledgerdesk/internal/model"
)

// Weights control how much each component contributes to a confidence
// score. They should sum to 1.
type Weights struct {
	Amount      float64
	Date        float64
	Description float64
}

// DefaultWeights is the standard 0.4 / 0.3 / 0.3 split.
var DefaultWeights = Weights{Amount: 0.4, Date: 0.3, Description: 0.3}

// DefaultThreshold is the minimum confidence for a proposed match.
const DefaultThreshold = 0.7

// centTolerance treats amounts within one cent as equal.
var centTolerance = decimal.RequireFromString("0.01")

// nearTolerance is the "close but not equal" amount band.
var nearTolerance = decimal.NewFromInt(10)

// Matcher scores statement lines against open ledger transactions.
type Matcher struct {
	weights   Weights
	threshold float64
}

// NewMatcher creates a Matcher with the given weights and acceptance
// threshold.
func NewMatcher(w Weights, threshold float64) *Matcher {
	return &Matcher{weights: w, threshold: threshold}
}

// DefaultMatcher creates a Matcher with the standard weights and threshold.
func DefaultMatcher() *Matcher {
	return NewMatcher(DefaultWeights, DefaultThreshold)
}

// Score computes the weighted confidence that line and txn describe the
// same movement, in [0,1].
func (m *Matcher) Score(line model.StatementLine, txn model.Transaction) float64 {
	return m.amountScore(line, txn) + m.dateScore(line, txn) + m.descriptionScore(line, txn)
}

// amountScore: full weight within a cent, half weight within 10 currency
// units, nothing beyond that.
func (m *Matcher) amountScore(line model.StatementLine, txn model.Transaction) float64 {
	gap := line.AbsAmount().Sub(txn.Amount).Abs()
	switch {
	case gap.LessThan(centTolerance):
		return m.weights.Amount
	case gap.LessThan(nearTolerance):
		return m.weights.Amount / 2
	default:
		return 0
	}
}

// dateScore: full weight same day, two thirds within 2 days, one third
// within a week.
func (m *Matcher) dateScore(line model.StatementLine, txn model.Transaction) float64 {
	days := daysApart(line.Date, txn.TransactionDate)
	switch {
	case days == 0:
		return m.weights.Date
	case days <= 2:
		return m.weights.Date * 2 / 3
	case days <= 7:
		return m.weights.Date / 3
	default:
		return 0
	}
}

// descriptionScore scales the weight by lower-cased edit-distance
// similarity.
func (m *Matcher) descriptionScore(line model.StatementLine, txn model.Transaction) float64 {
	sim := similarity(strings.ToLower(line.Description), strings.ToLower(txn.Description))
	return m.weights.Description * sim
}

// Match proposes, for each statement line, the open transaction with the
// highest confidence at or above the threshold. Selection is greedy and
// per-line: it is not a global assignment, so two lines can claim the same
// transaction. Such duplicates are downgraded to conflict so a human
// resolves them instead of confirming both.
func (m *Matcher) Match(lines []model.StatementLine, txns []model.Transaction) []model.MatchCandidate {
	candidates := make([]model.MatchCandidate, 0, len(lines))
	claims := make(map[string]int)

	for _, line := range lines {
		best := -1
		bestScore := 0.0
		for i, txn := range txns {
			if score := m.Score(line, txn); score > bestScore {
				best = i
				bestScore = score
			}
		}

		c := model.MatchCandidate{Line: line, Status: model.MatchUnmatched}
		if best >= 0 && bestScore >= m.threshold {
			chosen := txns[best]
			c.Transaction = &chosen
			c.Confidence = bestScore
			c.Status = model.MatchMatched
			claims[chosen.ID]++
		}
		candidates = append(candidates, c)
	}

	for i, c := range candidates {
		if c.Transaction != nil && claims[c.Transaction.ID] > 1 {
			candidates[i].Status = model.MatchConflict
		}
	}

	return candidates
}

// daysApart returns the whole calendar days between two dates, ignoring
// the time of day.
func daysApart(a, b time.Time) int {
	ad := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bd := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	d := int(ad.Sub(bd).Hours() / 24)
	if d < 0 {
		d = -d
	}
	return d
}
