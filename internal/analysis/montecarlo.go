package analysis

import (
	"math/rand/v2"

	"github.com/web3guy0/oddsbot/internal/league"
	"github.com/web3guy0/oddsbot/internal/odds"
)

// DefaultSimulations is the number of simulated outcomes per match
const DefaultSimulations = 10000

// Simulation is the simulated outcome distribution for a match
type Simulation struct {
	Match        string
	HomeWin      float64
	Draw         float64
	AwayWin      float64
	BestHomeOdds float64
	BestAwayOdds float64
	ValueRating  string
}

// SimulateMatch draws runs outcomes from the consensus probabilities
func SimulateMatch(m odds.Match, runs int, rng *rand.Rand) (*Simulation, error) {
	probs, err := ConsensusProbabilities(m)
	if err != nil {
		return nil, err
	}
	home, _, away, err := bestQuotes(m)
	if err != nil {
		return nil, err
	}

	var homeWins, draws, awayWins int
	for i := 0; i < runs; i++ {
		x := rng.Float64()
		switch {
		case x < probs.Home:
			homeWins++
		case x < probs.Home+probs.Draw:
			draws++
		default:
			awayWins++
		}
	}

	n := float64(runs)
	sim := &Simulation{
		Match:        m.Label(),
		HomeWin:      float64(homeWins) / n,
		Draw:         float64(draws) / n,
		AwayWin:      float64(awayWins) / n,
		BestHomeOdds: home.price,
		BestAwayOdds: away.price,
		ValueRating:  RatingPoor,
	}
	if sim.HomeWin*sim.BestHomeOdds > 1 || sim.AwayWin*sim.BestAwayOdds > 1 {
		sim.ValueRating = RatingGood
	}
	return sim, nil
}

// SimulateOutcomes runs the Monte Carlo model with a fresh generator seeded by seed
func SimulateOutcomes(matches []odds.Match, runs int, seed uint64) *Result {
	res := &Result{Algorithm: league.AlgoMonteCarlo}
	if runs <= 0 {
		runs = DefaultSimulations
	}
	rng := rand.New(rand.NewPCG(seed, seed>>1|1))

	for _, m := range matches {
		sim, err := SimulateMatch(m, runs, rng)
		if err != nil {
			res.skip(m.Label(), err)
			continue
		}
		res.Simulations = append(res.Simulations, *sim)
	}

	if len(res.Simulations) == 0 {
		res.Status = StatusNoMatches
	}
	return res
}
