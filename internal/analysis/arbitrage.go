package analysis

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/web3guy0/oddsbot/internal/league"
	"github.com/web3guy0/oddsbot/internal/odds"
)

// Outcome names used across the algorithms
const (
	OutcomeHome = "Home"
	OutcomeDraw = "Draw"
	OutcomeAway = "Away"
)

// ArbitrageLeg is one side of an arbitrage
type ArbitrageLeg struct {
	Outcome   string
	Bookmaker string
	Odds      float64
	Stake     decimal.Decimal
}

// ArbitrageOpportunity is a set of best prices whose implied probabilities
// sum to less than one
type ArbitrageOpportunity struct {
	Match        string
	Legs         []ArbitrageLeg
	InverseSum   float64
	ProfitMargin float64 // percent
}

// bestQuote is the highest price for one outcome
type bestQuote struct {
	bookmaker string
	price     float64
	found     bool
}

// bestQuotes returns the best price per outcome, visiting bookmakers in name order
func bestQuotes(m odds.Match) (home, draw, away bestQuote, err error) {
	pick := func(q *bestQuote, name string, p *float64) error {
		if p == nil {
			return nil
		}
		if err := validPrice(*p); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		if !q.found || *p > q.price {
			*q = bestQuote{bookmaker: name, price: *p, found: true}
		}
		return nil
	}

	for _, name := range m.BookmakerNames() {
		prices := m.Bookmakers[name]
		if err = pick(&home, name, prices.Home); err != nil {
			return
		}
		if err = pick(&draw, name, prices.Draw); err != nil {
			return
		}
		if err = pick(&away, name, prices.Away); err != nil {
			return
		}
	}

	if !home.found || !away.found {
		err = ErrIncompleteMarket
	}
	return
}

// EvaluateArbitrage checks one match. Draw is included when any bookmaker
// quotes it.
func EvaluateArbitrage(m odds.Match, bankroll decimal.Decimal) (*ArbitrageOpportunity, error) {
	home, draw, away, err := bestQuotes(m)
	if err != nil {
		return nil, err
	}

	type leg struct {
		outcome string
		q       bestQuote
	}
	legs := []leg{{OutcomeHome, home}, {OutcomeAway, away}}
	if draw.found {
		legs = []leg{{OutcomeHome, home}, {OutcomeDraw, draw}, {OutcomeAway, away}}
	}

	inverseSum := 0.0
	for _, l := range legs {
		inverseSum += 1 / l.q.price
	}
	if inverseSum >= 1 {
		return nil, nil
	}

	opp := &ArbitrageOpportunity{
		Match:        m.Label(),
		InverseSum:   inverseSum,
		ProfitMargin: (1 - inverseSum) * 100,
	}
	br := bankroll.InexactFloat64()
	for _, l := range legs {
		stake := br * (1 / l.q.price) / inverseSum
		opp.Legs = append(opp.Legs, ArbitrageLeg{
			Outcome:   l.outcome,
			Bookmaker: l.q.bookmaker,
			Odds:      l.q.price,
			Stake:     decimal.NewFromFloat(stake).Round(2),
		})
	}
	return opp, nil
}

// DetectArbitrage scans all matches, best margin first
func DetectArbitrage(matches []odds.Match, bankroll decimal.Decimal) *Result {
	res := &Result{Algorithm: league.AlgoArbitrage}

	for _, m := range matches {
		opp, err := EvaluateArbitrage(m, bankroll)
		if err != nil {
			res.skip(m.Label(), err)
			continue
		}
		if opp != nil {
			res.Arbitrage = append(res.Arbitrage, *opp)
		}
	}

	if len(res.Arbitrage) == 0 {
		res.Status = StatusNoArbitrage
		return res
	}
	sort.SliceStable(res.Arbitrage, func(i, j int) bool {
		return res.Arbitrage[i].ProfitMargin > res.Arbitrage[j].ProfitMargin
	})
	return res
}
