package analysis

import (
	"fmt"

	"github.com/web3guy0/oddsbot/internal/league"
	"github.com/web3guy0/oddsbot/internal/odds"
)

// PredictionThreshold is the normalised probability above which a side is
// called as the likely winner
const PredictionThreshold = 0.45

// Probabilities are vig-free outcome probabilities. Draw is zero when no
// bookmaker quotes it.
type Probabilities struct {
	Home float64
	Draw float64
	Away float64
}

// Prediction is the implied probability threshold verdict for a match
type Prediction struct {
	Match string
	Probabilities
	Prediction string
}

// ConsensusProbabilities averages implied probabilities per outcome across
// bookmakers and removes the overround
func ConsensusProbabilities(m odds.Match) (Probabilities, error) {
	var sum Probabilities
	var nHome, nDraw, nAway int

	for _, name := range m.BookmakerNames() {
		p := m.Bookmakers[name]
		if p.Home != nil {
			if err := validPrice(*p.Home); err != nil {
				return Probabilities{}, fmt.Errorf("%s: %w", name, err)
			}
			sum.Home += 1 / *p.Home
			nHome++
		}
		if p.Draw != nil {
			if err := validPrice(*p.Draw); err != nil {
				return Probabilities{}, fmt.Errorf("%s: %w", name, err)
			}
			sum.Draw += 1 / *p.Draw
			nDraw++
		}
		if p.Away != nil {
			if err := validPrice(*p.Away); err != nil {
				return Probabilities{}, fmt.Errorf("%s: %w", name, err)
			}
			sum.Away += 1 / *p.Away
			nAway++
		}
	}

	if nHome == 0 || nAway == 0 {
		return Probabilities{}, ErrIncompleteMarket
	}

	avg := Probabilities{Home: sum.Home / float64(nHome), Away: sum.Away / float64(nAway)}
	if nDraw > 0 {
		avg.Draw = sum.Draw / float64(nDraw)
	}

	total := avg.Home + avg.Draw + avg.Away
	return Probabilities{
		Home: avg.Home / total,
		Draw: avg.Draw / total,
		Away: avg.Away / total,
	}, nil
}

func predict(p Probabilities) string {
	switch {
	case p.Home > PredictionThreshold && p.Home >= p.Away:
		return "Home Win"
	case p.Away > PredictionThreshold:
		return "Away Win"
	default:
		return "No clear favourite"
	}
}

// ImpliedProbabilityThreshold runs the IPT model over all matches
func ImpliedProbabilityThreshold(matches []odds.Match) *Result {
	res := &Result{Algorithm: league.AlgoIPT}

	for _, m := range matches {
		probs, err := ConsensusProbabilities(m)
		if err != nil {
			res.skip(m.Label(), err)
			continue
		}
		res.Predictions = append(res.Predictions, Prediction{
			Match:         m.Label(),
			Probabilities: probs,
			Prediction:    predict(probs),
		})
	}

	if len(res.Predictions) == 0 {
		res.Status = StatusNoMatches
	}
	return res
}
