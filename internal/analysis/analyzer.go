package analysis

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/web3guy0/oddsbot/internal/league"
	"github.com/web3guy0/oddsbot/internal/odds"
)

// Analyzer dispatches matches to the selected algorithm
type Analyzer struct {
	Bankroll    decimal.Decimal
	Simulations int
	Seed        func() uint64
}

// NewAnalyzer creates an analyzer with a time-based Monte Carlo seed
func NewAnalyzer(bankroll decimal.Decimal) *Analyzer {
	return &Analyzer{
		Bankroll:    bankroll,
		Simulations: DefaultSimulations,
		Seed:        func() uint64 { return uint64(time.Now().UnixNano()) },
	}
}

// Run executes one algorithm. history is only consulted by the trend model.
func (a *Analyzer) Run(algo league.Algorithm, matches []odds.Match, history map[string][]PricePoint) (*Result, error) {
	var res *Result

	switch algo {
	case league.AlgoKelly:
		res = CalculateParlayStakes(matches, a.Bankroll)
	case league.AlgoArbitrage:
		res = DetectArbitrage(matches, a.Bankroll)
	case league.AlgoIPT:
		res = ImpliedProbabilityThreshold(matches)
	case league.AlgoValue:
		res = CompareOdds(matches)
	case league.AlgoMonteCarlo:
		res = SimulateOutcomes(matches, a.Simulations, a.Seed())
	case league.AlgoTrend:
		res = AnalyzeOddsMovement(matches, history)
	case league.AlgoDemo:
		res = Demo(matches)
	default:
		return nil, fmt.Errorf("unknown algorithm %q", algo)
	}

	if len(matches) == 0 {
		res.Status = StatusNoMatches
	}

	for _, s := range res.Skipped {
		log.Warn().
			Str("algorithm", string(algo)).
			Str("match", s.Match).
			Err(s.Err).
			Msg("Match skipped")
	}

	return res, nil
}
