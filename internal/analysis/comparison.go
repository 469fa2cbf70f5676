package analysis

import (
	"github.com/web3guy0/oddsbot/internal/league"
	"github.com/web3guy0/oddsbot/internal/odds"
)

// Value ratings shared by the comparison and simulation models
const (
	RatingGood = "good"
	RatingFair = "fair"
	RatingPoor = "poor"
)

// DemoMatches is how many matches a demo run shows
const DemoMatches = 3

// Comparison is the odds comparison for one match
type Comparison struct {
	Match             string
	BestHomeOdds      float64
	BestHomeBookmaker string
	BestAwayOdds      float64
	BestAwayBookmaker string
	AvgHomeOdds       float64
	AvgAwayOdds       float64
	ValueRating       string
}

// CompareMatch finds the best prices and rates them against the market average
func CompareMatch(m odds.Match) (*Comparison, error) {
	home, _, away, err := bestQuotes(m)
	if err != nil {
		return nil, err
	}

	var sumHome, sumAway float64
	var nHome, nAway int
	for _, p := range m.Bookmakers {
		if p.Home != nil {
			sumHome += *p.Home
			nHome++
		}
		if p.Away != nil {
			sumAway += *p.Away
			nAway++
		}
	}

	c := &Comparison{
		Match:             m.Label(),
		BestHomeOdds:      home.price,
		BestHomeBookmaker: home.bookmaker,
		BestAwayOdds:      away.price,
		BestAwayBookmaker: away.bookmaker,
		AvgHomeOdds:       sumHome / float64(nHome),
		AvgAwayOdds:       sumAway / float64(nAway),
	}

	premium := c.BestHomeOdds/c.AvgHomeOdds - 1
	if p := c.BestAwayOdds/c.AvgAwayOdds - 1; p > premium {
		premium = p
	}
	c.ValueRating = rateValue(premium)
	return c, nil
}

func rateValue(premium float64) string {
	switch {
	case premium >= 0.05:
		return RatingGood
	case premium >= 0.02:
		return RatingFair
	default:
		return RatingPoor
	}
}

// CompareOdds runs the odds comparison model over all matches
func CompareOdds(matches []odds.Match) *Result {
	res := &Result{Algorithm: league.AlgoValue}

	for _, m := range matches {
		c, err := CompareMatch(m)
		if err != nil {
			res.skip(m.Label(), err)
			continue
		}
		res.Comparisons = append(res.Comparisons, *c)
	}

	if len(res.Comparisons) == 0 {
		res.Status = StatusNoMatches
	}
	return res
}

// Demo runs the comparison model over the first few matches
func Demo(matches []odds.Match) *Result {
	if len(matches) > DemoMatches {
		matches = matches[:DemoMatches]
	}
	res := CompareOdds(matches)
	res.Algorithm = league.AlgoDemo
	res.Demo = true
	return res
}
