package analysis

import (
	"fmt"
	"strings"
)

// maxLines keeps a result message well under Telegram's 4096 character limit
const maxLines = 10

// Format renders a result as plain text
func Format(r *Result) string {
	if r == nil {
		return "❌ No results"
	}

	var b strings.Builder

	switch r.Status {
	case StatusNoMatches:
		b.WriteString("📭 No upcoming matches found")
	case StatusNoValuableParlays:
		b.WriteString("📭 No valuable parlays found")
	case StatusNoArbitrage:
		b.WriteString("📭 No arbitrage opportunities found")
	case StatusInsufficientHistory:
		b.WriteString("📭 Not enough odds history yet. Try again after the next refresh.")
	}

	for i, p := range r.Parlays {
		fmt.Fprintf(&b, "%d. %s vs %s\n", i+1, p.HomeTeam, p.AwayTeam)
		fmt.Fprintf(&b, "   🏦 %s @ %.2f\n", p.Bookmaker, p.Odds)
		fmt.Fprintf(&b, "   💵 Stake: $%s | Edge: %.2f%%\n\n", p.RecommendedStake.StringFixed(2), p.EdgePercentage)
	}

	for i, a := range limit(r.Arbitrage) {
		fmt.Fprintf(&b, "%d. %s\n", i+1, a.Match)
		fmt.Fprintf(&b, "   📈 Profit margin: %.2f%%\n", a.ProfitMargin)
		for _, l := range a.Legs {
			fmt.Fprintf(&b, "   • %s: %s @ %.2f → $%s\n", l.Outcome, l.Bookmaker, l.Odds, l.Stake.StringFixed(2))
		}
		b.WriteString("\n")
	}

	for i, p := range limit(r.Predictions) {
		fmt.Fprintf(&b, "%d. %s\n", i+1, p.Match)
		fmt.Fprintf(&b, "   🏠 %.1f%% | 🤝 %.1f%% | ✈️ %.1f%%\n", p.Home*100, p.Draw*100, p.Away*100)
		fmt.Fprintf(&b, "   🔮 Prediction: %s\n\n", p.Prediction)
	}

	for i, c := range limit(r.Comparisons) {
		fmt.Fprintf(&b, "%d. %s\n", i+1, c.Match)
		fmt.Fprintf(&b, "   🏠 Best home: %.2f (%s), avg %.2f\n", c.BestHomeOdds, c.BestHomeBookmaker, c.AvgHomeOdds)
		fmt.Fprintf(&b, "   ✈️ Best away: %.2f (%s), avg %.2f\n", c.BestAwayOdds, c.BestAwayBookmaker, c.AvgAwayOdds)
		fmt.Fprintf(&b, "   ⭐ Value rating: %s\n\n", c.ValueRating)
	}

	for i, s := range limit(r.Simulations) {
		fmt.Fprintf(&b, "%d. %s\n", i+1, s.Match)
		fmt.Fprintf(&b, "   🎲 Home %.1f%% | Draw %.1f%% | Away %.1f%%\n", s.HomeWin*100, s.Draw*100, s.AwayWin*100)
		fmt.Fprintf(&b, "   ⭐ Value rating: %s\n\n", s.ValueRating)
	}

	for i, t := range limit(r.Trends) {
		fmt.Fprintf(&b, "%d. %s\n", i+1, t.Match)
		fmt.Fprintf(&b, "   📈 Trend: %s (slope %+.3f over %d snapshots)\n", t.Direction, t.Slope, t.Points)
		fmt.Fprintf(&b, "   💡 Recommendation: %s\n\n", t.Recommendation)
	}

	if r.Demo {
		b.WriteString("⚡ Demo analysis. Use /pay to unlock every algorithm.")
	}

	return strings.TrimSpace(b.String())
}

func limit[T any](items []T) []T {
	if len(items) > maxLines {
		return items[:maxLines]
	}
	return items
}
