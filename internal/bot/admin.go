package bot

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
)

// adminAction is an admin operation awaiting a user ID
type adminAction string

const (
	adminVerify  adminAction = "verify"
	adminBlock   adminAction = "block"
	adminUnblock adminAction = "unblock"
)

var adminPrompts = map[adminAction]string{
	adminVerify:  "✅ Enter user ID to verify:",
	adminBlock:   "🚫 Enter user ID to block:",
	adminUnblock: "🔓 Enter user ID to unblock:",
}

// pendingActions tracks, per admin, the action their next message completes
type pendingActions struct {
	mu sync.Mutex
	m  map[int64]adminAction
}

func newPendingActions() *pendingActions {
	return &pendingActions{m: make(map[int64]adminAction)}
}

func (p *pendingActions) set(adminID int64, a adminAction) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.m[adminID] = a
}

func (p *pendingActions) get(adminID int64) (adminAction, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	a, ok := p.m[adminID]
	return a, ok
}

func (p *pendingActions) clear(adminID int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.m, adminID)
}

// handleAdmin serves admin:* callbacks. Non-admins get the same answer as for
// any unknown action.
func (b *Bot) handleAdmin(q *Query, cb Callback) error {
	if !b.users.IsAdmin(q.UserID) {
		b.showError(q, "Unknown action")
		return nil
	}

	sub := cb.Value(0, "menu")
	switch sub {
	case "menu":
		b.pending.clear(q.UserID)
		return b.edit(q, "🛠️ Admin Panel", false, adminMenu())
	case "users":
		b.pending.clear(q.UserID)
		return b.edit(q, "👤 User Management", false, userManagementMenu())
	case "stats":
		return b.edit(q, b.statsText(), false, backTo("admin:menu"))
	case string(adminVerify), string(adminBlock), string(adminUnblock):
		act := adminAction(sub)
		b.pending.set(q.UserID, act)
		return b.edit(q, adminPrompts[act], false, backTo("admin:users"))
	default:
		b.showError(q, "Invalid action")
		return nil
	}
}

func (b *Bot) statsText() string {
	stats, err := b.users.GetStats()
	if err != nil {
		log.Error().Err(err).Msg("Failed to load stats")
		return "❌ Failed to load statistics"
	}
	return fmt.Sprintf("📊 Bot Statistics\n\n👥 Users: %d\n💎 Paid: %d\n🚫 Blocked: %d\n🛠️ Admins: %d",
		stats.Total, stats.Paid, stats.Blocked, stats.Admins)
}

// completePending consumes an admin's reply to a pending prompt. It reports
// whether the message was taken.
func (b *Bot) completePending(m Message) bool {
	if !b.users.IsAdmin(m.UserID) {
		return false
	}
	act, ok := b.pending.get(m.UserID)
	if !ok {
		return false
	}

	target, err := parseUserID(m.Text)
	if err != nil {
		b.send(m.ChatID, "❌ Invalid user ID format", false, nil)
		return true
	}
	b.pending.clear(m.UserID)

	b.applyAdminAction(m.ChatID, act, target)
	kb := adminMenu()
	b.send(m.ChatID, "🛠️ Admin Panel", false, &kb)
	return true
}

func (b *Bot) applyAdminAction(chatID int64, act adminAction, target int64) {
	var (
		err   error
		reply string
	)
	switch act {
	case adminVerify:
		err = b.users.AddPaidUser(target)
		reply = fmt.Sprintf("✅ User %d verified", target)
	case adminBlock:
		err = b.users.BlockUser(target)
		reply = fmt.Sprintf("🚫 User %d blocked", target)
	case adminUnblock:
		err = b.users.UnblockUser(target)
		reply = fmt.Sprintf("🔓 User %d unblocked", target)
	}
	if err != nil {
		log.Error().Err(err).Str("action", string(act)).Int64("target", target).Msg("Admin action failed")
		b.send(chatID, "Error: "+err.Error(), false, nil)
		return
	}

	log.Info().Str("action", string(act)).Int64("target", target).Msg("🛠️ Admin action applied")
	b.send(chatID, reply, false, nil)

	if act == adminVerify {
		kb := mainMenu()
		b.send(target, "🎉 Your account has been upgraded! All algorithms are now unlocked.", false, &kb)
	}
}

func parseUserID(s string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(s), 10, 64)
}
