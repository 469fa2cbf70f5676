package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

var knownCommands = map[string]bool{
	"start": true, "help": true, "admin": true, "pay": true,
	"verify": true, "block": true, "unblock": true,
}

// HandleMessage routes a slash command, or an admin's reply to a pending prompt
func (b *Bot) HandleMessage(ctx context.Context, m Message) {
	mu := b.chatLock(m.ChatID)
	mu.Lock()
	defer mu.Unlock()

	log.Debug().
		Int64("user_id", m.UserID).
		Str("text", m.Text).
		Msg("Received message")

	command, args, ok := splitCommand(m.Text)
	if !ok {
		b.completePending(m)
		return
	}

	if knownCommands[command] {
		b.countCommand(command)
	} else {
		b.countCommand("unknown")
	}

	if command != "start" && b.users.IsBlocked(m.UserID) {
		b.send(m.ChatID, "❌ Access denied", false, nil)
		return
	}

	switch command {
	case "start":
		b.cmdStart(m)
	case "help":
		kb := helpNavigation()
		b.send(m.ChatID, helpText, true, &kb)
	case "admin":
		b.cmdAdmin(m)
	case "pay":
		kb := backTo("menu:main")
		b.send(m.ChatID, b.paymentText(), true, &kb)
	case "verify":
		b.cmdAdminAction(m, adminVerify, args)
	case "block":
		b.cmdAdminAction(m, adminBlock, args)
	case "unblock":
		b.cmdAdminAction(m, adminUnblock, args)
	default:
		b.send(m.ChatID, "❓ Unknown command. Use /help for available commands.", false, nil)
	}
}

// splitCommand parses "/cmd@bot args"
func splitCommand(text string) (command, args string, ok bool) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return "", "", false
	}
	head, rest, _ := strings.Cut(text[1:], " ")
	head, _, _ = strings.Cut(head, "@")
	return strings.ToLower(head), strings.TrimSpace(rest), true
}

func (b *Bot) cmdStart(m Message) {
	if err := b.users.Touch(m.UserID); err != nil {
		log.Error().Err(err).Int64("user_id", m.UserID).Msg("Failed to register user")
	}
	if b.users.IsBlocked(m.UserID) {
		b.send(m.ChatID, "❌ Access denied", false, nil)
		return
	}

	tier := "⚡ Free tier: demo analysis. Use /pay to unlock every algorithm."
	if b.users.IsPaid(m.UserID) {
		tier = "💎 Premium: all algorithms unlocked."
	}
	text := fmt.Sprintf("⚽ *Welcome to OddsBot!*\n\nFootball odds analysis across six leagues.\n%s", tier)
	kb := mainMenu()
	b.send(m.ChatID, text, true, &kb)
}

func (b *Bot) cmdAdmin(m Message) {
	if !b.users.IsAdmin(m.UserID) {
		b.send(m.ChatID, "❌ Admin access required", false, nil)
		return
	}
	kb := adminMenu()
	b.send(m.ChatID, "🛠️ Admin Panel", false, &kb)
}

// cmdAdminAction serves /verify, /block and /unblock with an inline user ID
func (b *Bot) cmdAdminAction(m Message, act adminAction, args string) {
	if !b.users.IsAdmin(m.UserID) {
		b.send(m.ChatID, "❌ Admin access required", false, nil)
		return
	}
	target, err := parseUserID(args)
	if err != nil {
		b.send(m.ChatID, fmt.Sprintf("Usage: /%s <user_id>", act), false, nil)
		return
	}
	b.applyAdminAction(m.ChatID, act, target)
}
