package bot

import (
	"fmt"
	"strings"

	"github.com/web3guy0/oddsbot/internal/league"
)

const helpText = `❓ *Help Center*

*How it works*
1. Pick a league from the main menu
2. Pick an analysis method
3. Read the recommendations

*Commands*
/start - main menu
/help - this page
/pay - upgrade to premium

Free users get a demo comparison of three matches. Premium unlocks every algorithm.`

const wagerGuideText = `📚 *Wager Guide*

*Decimal odds* show the total return per unit staked. Odds of 2.50 return 2.50 for a stake of 1.

*Implied probability* is 1 / odds. Bookmakers add a margin, so the implied probabilities of one market sum to more than 100%.

*Stake sizing* follows the Kelly criterion: stake = edge / (odds - 1) x bankroll. Never stake more than you can afford to lose.

*Arbitrage* exists when the best prices across bookmakers imply less than 100% in total.`

// algorithmDocsText lists each algorithm with its description
func algorithmDocsText() string {
	var sb strings.Builder
	sb.WriteString("📖 *Algorithm Docs*\n\n")
	for _, a := range league.Algorithms() {
		sb.WriteString(fmt.Sprintf("%s: %s\n", a.Label, a.Description))
	}
	sb.WriteString("\n⚡ Demo: odds comparison over the first three matches")
	return sb.String()
}

func (b *Bot) paymentText() string {
	var sb strings.Builder
	sb.WriteString("💎 *Upgrade to Premium*\n\n")
	if b.payment.Address == "" {
		sb.WriteString("Payments are not configured. ")
	} else {
		sb.WriteString(fmt.Sprintf("Send *%s* to:\n`%s`\n\n", b.payment.Amount, b.payment.Address))
	}
	if b.payment.AdminUsername != "" {
		sb.WriteString(fmt.Sprintf("Then message @%s with your user ID to be verified.", escapeMarkdown(b.payment.AdminUsername)))
	} else {
		sb.WriteString("Then contact an admin with your user ID to be verified.")
	}
	return sb.String()
}

func escapeMarkdown(s string) string {
	replacer := strings.NewReplacer(
		"_", "\\_",
		"*", "\\*",
		"[", "\\[",
		"]", "\\]",
		"`", "\\`",
	)
	return replacer.Replace(s)
}
