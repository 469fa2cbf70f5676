// Package bot is the Telegram front end: inline-menu navigation, analysis
// requests and the admin panel.
package bot

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/web3guy0/oddsbot/internal/analysis"
	"github.com/web3guy0/oddsbot/internal/database"
	"github.com/web3guy0/oddsbot/internal/league"
	"github.com/web3guy0/oddsbot/internal/metrics"
	"github.com/web3guy0/oddsbot/internal/session"
)

// UserStore is the access-control side of the database
type UserStore interface {
	Touch(id int64) error
	IsBlocked(id int64) bool
	IsPaid(id int64) bool
	IsAdmin(id int64) bool
	AddPaidUser(id int64) error
	BlockUser(id int64) error
	UnblockUser(id int64) error
	GetStats() (database.Stats, error)
}

// Analyzer runs analyses on demand
type Analyzer interface {
	Process(ctx context.Context, sportKey string, algo league.Algorithm, paidUser bool) (*analysis.Result, error)
	Invalidate(ctx context.Context, sportKey string) error
}

// SnapshotSource feeds the CSV export
type SnapshotSource interface {
	LatestSnapshots(sportKey string) ([]database.OddsSnapshot, error)
}

// Payment describes how users upgrade
type Payment struct {
	Address       string
	Amount        string
	AdminUsername string
}

// Query is one inline button press
type Query struct {
	ID        string
	UserID    int64
	ChatID    int64
	MessageID int
	// Text is what the message currently shows
	Text string
	Data string
}

// Message is one plain text message or command
type Message struct {
	UserID int64
	ChatID int64
	Text   string
}

// Bot dispatches updates to handlers
type Bot struct {
	messenger Messenger
	users     UserStore
	sessions  session.Store
	analyzer  Analyzer
	snapshots SnapshotSource
	metrics   *metrics.Metrics
	payment   Payment

	pending *pendingActions

	locksMu sync.Mutex
	locks   map[int64]*sync.Mutex
}

// Deps bundles the controller's collaborators. Snapshots and Metrics may be nil.
type Deps struct {
	Messenger Messenger
	Users     UserStore
	Sessions  session.Store
	Analyzer  Analyzer
	Snapshots SnapshotSource
	Metrics   *metrics.Metrics
	Payment   Payment
}

// NewController builds a Bot without a Telegram connection
func NewController(d Deps) *Bot {
	return &Bot{
		messenger: d.Messenger,
		users:     d.Users,
		sessions:  d.Sessions,
		analyzer:  d.Analyzer,
		snapshots: d.Snapshots,
		metrics:   d.Metrics,
		payment:   d.Payment,
		pending:   newPendingActions(),
		locks:     make(map[int64]*sync.Mutex),
	}
}

// chatLock serialises updates from one chat
func (b *Bot) chatLock(chatID int64) *sync.Mutex {
	b.locksMu.Lock()
	defer b.locksMu.Unlock()
	mu, ok := b.locks[chatID]
	if !ok {
		mu = &sync.Mutex{}
		b.locks[chatID] = mu
	}
	return mu
}

// HandleCallback answers the button press and routes it. Any failure or panic
// inside a handler ends in a "Processing error" display.
func (b *Bot) HandleCallback(ctx context.Context, q Query) {
	mu := b.chatLock(q.ChatID)
	mu.Lock()
	defer mu.Unlock()

	log.Debug().
		Int64("user_id", q.UserID).
		Str("data", q.Data).
		Msg("Received callback")

	if err := b.messenger.AnswerCallback(q.ID); err != nil {
		log.Warn().Err(err).Msg("Failed to answer callback")
	}

	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Interface("panic", r).
				Str("stack", string(debug.Stack())).
				Str("data", q.Data).
				Msg("Callback handler panicked")
			b.showError(&q, "Processing error")
		}
	}()

	if err := b.dispatch(ctx, &q); err != nil {
		log.Error().Err(err).Str("data", q.Data).Msg("Callback handling failed")
		b.showError(&q, "Processing error")
	}
}

func (b *Bot) dispatch(ctx context.Context, q *Query) error {
	cb, err := ParseCallback(q.Data)
	if err != nil {
		b.countCallback("unknown")
		b.showError(q, "Unknown action")
		return nil
	}
	b.countCallback(cb.Action.String())

	if b.users.IsBlocked(q.UserID) {
		b.showError(q, "Access denied")
		return nil
	}

	switch cb.Action {
	case ActionMenu:
		return b.handleMenu(ctx, q, cb)
	case ActionLeague:
		return b.handleLeague(ctx, q, cb)
	case ActionAlgo:
		return b.handleAlgorithm(ctx, q, cb)
	case ActionHelp:
		return b.showHelp(q)
	case ActionTool:
		return b.handleTool(ctx, q, cb)
	case ActionAction:
		return b.handleAction(ctx, q, cb)
	case ActionAdmin:
		return b.handleAdmin(q, cb)
	case ActionPayment:
		return b.handlePayment(q, cb)
	default:
		return fmt.Errorf("unhandled action %d", cb.Action)
	}
}

// edit replaces the query's message and tracks the new text
func (b *Bot) edit(q *Query, text string, markdown bool, keyboard Keyboard) error {
	return b.editMessage(q, text, markdown, &keyboard)
}

// editText replaces the message and drops its keyboard
func (b *Bot) editText(q *Query, text string) error {
	return b.editMessage(q, text, false, nil)
}

func (b *Bot) editMessage(q *Query, text string, markdown bool, keyboard *Keyboard) error {
	err := b.messenger.Edit(q.ChatID, q.MessageID, text, markdown, keyboard)
	if err != nil && !isNotModified(err) {
		return err
	}
	q.Text = text
	return nil
}

// showError renders "❌ message" with the main menu. Rendering the same error
// twice is a no-op.
func (b *Bot) showError(q *Query, message string) {
	text := "❌ " + message
	if q.Text == text {
		return
	}
	if err := b.edit(q, text, false, mainMenu()); err != nil {
		log.Error().Err(err).Str("error_text", message).Msg("Failed to display error")
	}
}

func (b *Bot) send(chatID int64, text string, markdown bool, keyboard *Keyboard) {
	if err := b.messenger.Send(chatID, text, markdown, keyboard); err != nil {
		log.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to send message")
	}
}

func (b *Bot) countCallback(action string) {
	if b.metrics != nil {
		b.metrics.Callbacks.WithLabelValues(action).Inc()
	}
}

func (b *Bot) countCommand(command string) {
	if b.metrics != nil {
		b.metrics.Commands.WithLabelValues(command).Inc()
	}
}
