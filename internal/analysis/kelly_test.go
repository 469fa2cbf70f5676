package analysis

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/web3guy0/oddsbot/internal/odds"
)

var bankroll = decimal.NewFromInt(1000)

func match(home, away string, books map[string]odds.Prices) odds.Match {
	return odds.Match{ID: home + "-" + away, HomeTeam: home, AwayTeam: away, Bookmakers: books}
}

func TestBestHomePricePicksHighest(t *testing.T) {
	m := match("A", "B", map[string]odds.Prices{
		"X": {Home: odds.Price(2.0)},
		"Y": {Home: odds.Price(2.5)},
		"Z": {},
	})

	book, price, err := BestHomePrice(m)
	require.NoError(t, err)
	assert.Equal(t, "Y", book)
	assert.Equal(t, 2.5, price)
}

func TestBestHomePriceTieKeepsFirst(t *testing.T) {
	m := match("A", "B", map[string]odds.Prices{
		"Beta":  {Home: odds.Price(2.5)},
		"Alpha": {Home: odds.Price(2.5)},
	})

	book, _, err := BestHomePrice(m)
	require.NoError(t, err)
	assert.Equal(t, "Alpha", book)
}

func TestNoHomeOddsProducesNoRecommendation(t *testing.T) {
	matches := []odds.Match{
		match("A", "B", map[string]odds.Prices{
			"X": {Away: odds.Price(3.0), Draw: odds.Price(3.2)},
			"Y": {},
		}),
		match("C", "D", map[string]odds.Prices{}),
	}

	res := CalculateParlayStakes(matches, bankroll)
	assert.Empty(t, res.Parlays)
	assert.Equal(t, StatusNoValuableParlays, res.Status)
	assert.Empty(t, res.Skipped, "missing prices are not failures")

	_, _, err := BestHomePrice(matches[0])
	assert.ErrorIs(t, err, ErrNoHomeOdds)
}

func TestEdgeIsAlwaysZero(t *testing.T) {
	for p := 1.01; p < 50; p += 0.37 {
		assert.InDelta(t, 0, Edge(p), 1e-12, "price %v", p)
	}
	for _, p := range []float64{1.5, 2, 2.5, 3.333, 7.77, 101} {
		assert.False(t, Edge(p) > MinEdge, "price %v", p)
	}
}

func TestRealisticMatchesYieldNoParlays(t *testing.T) {
	matches := []odds.Match{
		match("Arsenal", "Chelsea", map[string]odds.Prices{
			"Bet365":       {Home: odds.Price(2.1), Draw: odds.Price(3.4), Away: odds.Price(3.5)},
			"William Hill": {Home: odds.Price(2.05), Draw: odds.Price(3.3), Away: odds.Price(3.6)},
		}),
	}

	res := CalculateParlayStakes(matches, bankroll)
	assert.Empty(t, res.Parlays)
	assert.Equal(t, StatusNoValuableParlays, res.Status)
}

func TestHeuristicIsolatesBadMatches(t *testing.T) {
	matches := []odds.Match{
		match("A", "B", map[string]odds.Prices{"X": {Home: odds.Price(math.NaN())}}),
		match("C", "D", map[string]odds.Prices{"X": {Home: odds.Price(math.Inf(1))}}),
		match("E", "F", map[string]odds.Prices{"X": {Home: odds.Price(0)}}),
		match("G", "H", map[string]odds.Prices{"X": {Home: odds.Price(-3)}}),
		match("I", "J", map[string]odds.Prices{"X": {Home: odds.Price(1.8)}}),
	}

	var res *Result
	assert.NotPanics(t, func() {
		res = CalculateParlayStakes(matches, bankroll)
	})
	require.Len(t, res.Skipped, 4)
	for _, s := range res.Skipped {
		assert.ErrorIs(t, s.Err, ErrInvalidPrice)
	}
	assert.Equal(t, StatusNoValuableParlays, res.Status)
}
