package analysis

import (
	"time"

	"github.com/web3guy0/oddsbot/internal/league"
	"github.com/web3guy0/oddsbot/internal/odds"
)

// TrendSlope is the per-snapshot slope beyond which a trend counts as moving
const TrendSlope = 0.005

// Trend directions and recommendations
const (
	TrendRising  = "rising"
	TrendFalling = "falling"
	TrendFlat    = "flat"

	RecommendStrongBuy = "strong_buy"
	RecommendHold      = "hold"
	RecommendAvoid     = "avoid"
)

// PricePoint is the market average home price at one snapshot
type PricePoint struct {
	At   time.Time
	Home float64
}

// Trend is the home price movement of a match across snapshots
type Trend struct {
	Match          string
	Points         int
	Latest         float64
	Mean           float64
	Slope          float64
	Direction      string
	Recommendation string
}

// AnalyzeTrend fits a least-squares line through a price history ordered
// oldest first
func AnalyzeTrend(match string, history []PricePoint) (*Trend, bool) {
	n := len(history)
	if n < 2 {
		return nil, false
	}

	var sumX, sumY, sumXY, sumXX float64
	for i, p := range history {
		x := float64(i)
		sumX += x
		sumY += p.Home
		sumXY += x * p.Home
		sumXX += x * x
	}
	fn := float64(n)
	slope := (fn*sumXY - sumX*sumY) / (fn*sumXX - sumX*sumX)
	mean := sumY / fn

	t := &Trend{
		Match:  match,
		Points: n,
		Latest: history[n-1].Home,
		Mean:   mean,
		Slope:  slope,
	}

	switch {
	case slope > TrendSlope:
		t.Direction = TrendRising
	case slope < -TrendSlope:
		t.Direction = TrendFalling
	default:
		t.Direction = TrendFlat
	}

	switch {
	case t.Direction == TrendRising && t.Latest > mean:
		t.Recommendation = RecommendStrongBuy
	case t.Direction == TrendFalling:
		t.Recommendation = RecommendAvoid
	default:
		t.Recommendation = RecommendHold
	}
	return t, true
}

// AnalyzeOddsMovement runs the trend model. history is keyed by match ID.
func AnalyzeOddsMovement(matches []odds.Match, history map[string][]PricePoint) *Result {
	res := &Result{Algorithm: league.AlgoTrend}

	for _, m := range matches {
		if t, ok := AnalyzeTrend(m.Label(), history[m.ID]); ok {
			res.Trends = append(res.Trends, *t)
		}
	}

	if len(res.Trends) == 0 {
		res.Status = StatusInsufficientHistory
	}
	return res
}
