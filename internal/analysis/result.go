// Package analysis runs the betting heuristics over processed matches.
//
// Every algorithm evaluates matches one at a time. A failure on one match is
// recorded in Result.Skipped and processing moves on to the next match.
package analysis

import (
	"errors"

	"github.com/web3guy0/oddsbot/internal/league"
)

// Status explains an empty result
type Status string

const (
	StatusOK                  Status = ""
	StatusNoMatches           Status = "no_matches"
	StatusNoValuableParlays   Status = "no_valuable_parlays"
	StatusNoArbitrage         Status = "no_arbitrage_opportunities"
	StatusInsufficientHistory Status = "insufficient_history"
)

var (
	// ErrNoHomeOdds marks a match without any quoted home price
	ErrNoHomeOdds = errors.New("no home odds")
	// ErrIncompleteMarket marks a match missing a price the algorithm needs
	ErrIncompleteMarket = errors.New("incomplete market")
	// ErrInvalidPrice marks a decimal price that is not a usable number above 1
	ErrInvalidPrice = errors.New("invalid price")
)

// SkippedMatch records a match that failed evaluation
type SkippedMatch struct {
	Match string
	Err   error
}

// Result is the output of one algorithm run
type Result struct {
	Algorithm league.Algorithm
	Status    Status
	Demo      bool

	Parlays     []ParlayRecommendation
	Arbitrage   []ArbitrageOpportunity
	Predictions []Prediction
	Comparisons []Comparison
	Simulations []Simulation
	Trends      []Trend

	Skipped []SkippedMatch
}

// Empty reports whether the run produced nothing to show
func (r *Result) Empty() bool {
	return len(r.Parlays) == 0 &&
		len(r.Arbitrage) == 0 &&
		len(r.Predictions) == 0 &&
		len(r.Comparisons) == 0 &&
		len(r.Simulations) == 0 &&
		len(r.Trends) == 0
}

// skip records a failed match. Missing prices are expected and not recorded.
func (r *Result) skip(match string, err error) {
	if errors.Is(err, ErrNoHomeOdds) || errors.Is(err, ErrIncompleteMarket) {
		return
	}
	r.Skipped = append(r.Skipped, SkippedMatch{Match: match, Err: err})
}
