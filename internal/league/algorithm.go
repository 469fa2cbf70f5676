package league

import (
	"fmt"
	"strings"
)

// Algorithm identifies an analysis method offered in the menu
type Algorithm string

const (
	AlgoTrend      Algorithm = "arima"
	AlgoKelly      Algorithm = "kelly"
	AlgoMonteCarlo Algorithm = "monte"
	AlgoIPT        Algorithm = "ipt"
	AlgoArbitrage  Algorithm = "arb"
	AlgoValue      Algorithm = "value"
	AlgoDemo       Algorithm = "demo"
)

// AlgorithmInfo describes a menu entry
type AlgorithmInfo struct {
	Algorithm   Algorithm
	Label       string
	Description string
}

// Paid algorithms in menu order. Demo is not listed; it has its own button.
var algorithms = []AlgorithmInfo{
	{AlgoTrend, "📈 ARIMA", "Time Series Analysis"},
	{AlgoKelly, "💰 Kelly", "Stake Optimization"},
	{AlgoMonteCarlo, "🎲 Monte Carlo", "Simulations"},
	{AlgoIPT, "⚖️ IPT", "Implied Probability"},
	{AlgoArbitrage, "🔀 Arbitrage", "Opportunity Detection"},
	{AlgoValue, "📊 Value Bets", "Odds Comparison"},
}

// Algorithms returns the paid algorithms in menu order
func Algorithms() []AlgorithmInfo {
	out := make([]AlgorithmInfo, len(algorithms))
	copy(out, algorithms)
	return out
}

// ParseAlgorithm accepts any case
func ParseAlgorithm(s string) (Algorithm, error) {
	a := Algorithm(strings.ToLower(strings.TrimSpace(s)))
	if a == AlgoDemo {
		return a, nil
	}
	for _, info := range algorithms {
		if info.Algorithm == a {
			return a, nil
		}
	}
	return "", fmt.Errorf("unknown algorithm %q", s)
}

// Title is the upper-case label used in result headers
func (a Algorithm) Title() string {
	return strings.ToUpper(string(a))
}
