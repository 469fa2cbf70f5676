package analysis

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/web3guy0/oddsbot/internal/league"
	"github.com/web3guy0/oddsbot/internal/odds"
)

// ═══════════════════════════════════════════════════════════════════════════════
// KELLY STAKING - bookmaker-specific parlay recommendations
// ═══════════════════════════════════════════════════════════════════════════════
//
// Per match:
//   price   = best home price across bookmakers
//   implied = 1 / price
//   edge    = implied * price - 1
//   stake   = edge / (price - 1) * bankroll     (only when edge > MinEdge)
//
// The edge term cancels to zero for every finite price, so recommendations
// only appear through floating point noise. The formula is kept as is.
//
// ═══════════════════════════════════════════════════════════════════════════════

const (
	// MinEdge is the minimum edge (5%) for a recommendation
	MinEdge = 0.05
	// MaxParlays caps the number of recommendations returned
	MaxParlays = 5
)

// ParlayRecommendation is a proposed stake on the home side of a match
type ParlayRecommendation struct {
	HomeTeam         string
	AwayTeam         string
	Bookmaker        string
	Odds             float64
	RecommendedStake decimal.Decimal
	EdgePercentage   float64
}

// Edge returns the edge for a decimal price
func Edge(price float64) float64 {
	impliedProb := 1 / price
	return impliedProb*price - 1
}

// BestHomePrice picks the highest non-null home price. Bookmakers are visited
// in name order and the first one wins a tie.
func BestHomePrice(m odds.Match) (string, float64, error) {
	var (
		bestBook  string
		bestPrice float64
		found     bool
	)
	for _, name := range m.BookmakerNames() {
		home := m.Bookmakers[name].Home
		if home == nil {
			continue
		}
		if !found || math.IsNaN(bestPrice) || *home > bestPrice {
			bestBook, bestPrice, found = name, *home, true
		}
	}

	if !found {
		return "", 0, ErrNoHomeOdds
	}
	if err := validPrice(bestPrice); err != nil {
		return "", 0, fmt.Errorf("%s home price: %w", bestBook, err)
	}
	return bestBook, bestPrice, nil
}

// EvaluateParlay returns a recommendation for one match, nil when the edge is
// below MinEdge
func EvaluateParlay(m odds.Match, bankroll float64) (*ParlayRecommendation, error) {
	bookmaker, price, err := BestHomePrice(m)
	if err != nil {
		return nil, err
	}

	edge := Edge(price)
	if !(edge > MinEdge) {
		return nil, nil
	}

	stake := (edge / (price - 1)) * bankroll

	return &ParlayRecommendation{
		HomeTeam:         m.HomeTeam,
		AwayTeam:         m.AwayTeam,
		Bookmaker:        bookmaker,
		Odds:             price,
		RecommendedStake: decimal.NewFromFloat(stake).Round(2),
		EdgePercentage:   edge * 100,
	}, nil
}

// CalculateParlayStakes runs the staking heuristic over all matches
func CalculateParlayStakes(matches []odds.Match, bankroll decimal.Decimal) *Result {
	res := &Result{Algorithm: league.AlgoKelly}
	br := bankroll.InexactFloat64()

	for _, m := range matches {
		rec, err := EvaluateParlay(m, br)
		if err != nil {
			res.skip(m.Label(), err)
			continue
		}
		if rec != nil {
			res.Parlays = append(res.Parlays, *rec)
		}
	}

	if len(res.Parlays) == 0 {
		res.Status = StatusNoValuableParlays
		return res
	}
	if len(res.Parlays) > MaxParlays {
		res.Parlays = res.Parlays[:MaxParlays]
	}
	return res
}

// validPrice accepts finite decimal odds above 1
func validPrice(p float64) error {
	if math.IsNaN(p) || math.IsInf(p, 0) || p <= 1 {
		return fmt.Errorf("%w: %v", ErrInvalidPrice, p)
	}
	return nil
}
