package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/web3guy0/oddsbot/internal/league"
)

// Keyboard is an inline keyboard attached to a message
type Keyboard = tgbotapi.InlineKeyboardMarkup

type gridItem struct {
	label string
	value string
}

// grid lays buttons out two per row
func grid(action Action, items []gridItem) [][]tgbotapi.InlineKeyboardButton {
	var rows [][]tgbotapi.InlineKeyboardButton
	for i := 0; i < len(items); i += 2 {
		var row []tgbotapi.InlineKeyboardButton
		for _, item := range items[i:min(i+2, len(items))] {
			row = append(row, tgbotapi.NewInlineKeyboardButtonData(item.label, callbackData(action, item.value)))
		}
		rows = append(rows, row)
	}
	return rows
}

func mainMenu() Keyboard {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("⚽ Select League", "menu:leagues")),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("❓ Help Center", "menu:help")),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("🔄 Refresh Data", "action:refresh")),
	)
}

func leagueSelector() Keyboard {
	var items []gridItem
	for _, l := range league.All() {
		items = append(items, gridItem{l.DisplayName, l.Key})
	}
	rows := grid(ActionLeague, items)
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🔙 Main Menu", "menu:main"),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func algorithmSelector(paidUser bool) Keyboard {
	if !paidUser {
		return tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("⚡ Demo Analysis", "algo:demo")),
			tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("💎 Upgrade", "payment:upgrade")),
		)
	}

	var items []gridItem
	for _, a := range league.Algorithms() {
		items = append(items, gridItem{a.Label, string(a.Algorithm)})
	}
	rows := grid(ActionAlgo, items)
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🔙 Back", "menu:leagues"),
		tgbotapi.NewInlineKeyboardButtonData("🏠 Home", "menu:main"),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func helpNavigation() Keyboard {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📚 Wager Guide", "tool:wager_guide"),
			tgbotapi.NewInlineKeyboardButtonData("📖 Algorithm Docs", "tool:algo_docs"),
		),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("📥 Export CSV", "tool:export")),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("🏠 Main Menu", "menu:main")),
	)
}

func adminMenu() Keyboard {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("👤 User Management", "admin:users")),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("📊 Statistics", "admin:stats")),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("🔙 Main Menu", "menu:main")),
	)
}

func userManagementMenu() Keyboard {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("✅ Verify User", "admin:verify")),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("🚫 Block User", "admin:block")),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("🔓 Unblock User", "admin:unblock")),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("🔙 Back", "admin:menu")),
	)
}

func backTo(data string) Keyboard {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("🔙 Back", data)),
	)
}
