package bot

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/web3guy0/oddsbot/internal/analysis"
	"github.com/web3guy0/oddsbot/internal/database"
	"github.com/web3guy0/oddsbot/internal/league"
	"github.com/web3guy0/oddsbot/internal/session"
)

type sent struct {
	chatID   int64
	text     string
	keyboard *Keyboard
}

type fakeMessenger struct {
	mu    sync.Mutex
	edits []sent
	sends []sent
	docs  []string
}

func (f *fakeMessenger) Send(chatID int64, text string, _ bool, kb *Keyboard) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sends = append(f.sends, sent{chatID, text, kb})
	return nil
}

func (f *fakeMessenger) Edit(chatID int64, _ int, text string, _ bool, kb *Keyboard) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.edits = append(f.edits, sent{chatID, text, kb})
	return nil
}

func (f *fakeMessenger) AnswerCallback(string) error { return nil }

func (f *fakeMessenger) SendDocument(_ int64, name string, data []byte, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.docs = append(f.docs, name+"\n"+string(data))
	return nil
}

func (f *fakeMessenger) lastEdit(t *testing.T) sent {
	t.Helper()
	require.NotEmpty(t, f.edits)
	return f.edits[len(f.edits)-1]
}

func (f *fakeMessenger) lastSend(t *testing.T) sent {
	t.Helper()
	require.NotEmpty(t, f.sends)
	return f.sends[len(f.sends)-1]
}

type fakeUsers struct {
	paid    map[int64]bool
	blocked map[int64]bool
	admins  map[int64]bool
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{paid: map[int64]bool{}, blocked: map[int64]bool{}, admins: map[int64]bool{}}
}

func (f *fakeUsers) Touch(int64) error          { return nil }
func (f *fakeUsers) IsBlocked(id int64) bool    { return f.blocked[id] }
func (f *fakeUsers) IsPaid(id int64) bool       { return f.paid[id] }
func (f *fakeUsers) IsAdmin(id int64) bool      { return f.admins[id] }
func (f *fakeUsers) AddPaidUser(id int64) error { f.paid[id] = true; return nil }
func (f *fakeUsers) BlockUser(id int64) error   { f.blocked[id] = true; return nil }
func (f *fakeUsers) UnblockUser(id int64) error { f.blocked[id] = false; return nil }
func (f *fakeUsers) GetStats() (database.Stats, error) {
	return database.Stats{Total: 3, Paid: int64(len(f.paid))}, nil
}

type fakeAnalyzer struct {
	calls       int
	lastAlgo    league.Algorithm
	lastPaid    bool
	invalidated []string
	err         error
	panic       bool
}

func (f *fakeAnalyzer) Process(_ context.Context, _ string, algo league.Algorithm, paid bool) (*analysis.Result, error) {
	if f.panic {
		panic("analysis exploded")
	}
	f.calls++
	f.lastAlgo = algo
	f.lastPaid = paid
	if f.err != nil {
		return nil, f.err
	}
	if !paid {
		algo = league.AlgoDemo
	}
	return &analysis.Result{Algorithm: algo, Status: analysis.StatusNoMatches, Demo: !paid}, nil
}

func (f *fakeAnalyzer) Invalidate(_ context.Context, sportKey string) error {
	f.invalidated = append(f.invalidated, sportKey)
	return nil
}

type fakeSnapshots struct {
	rows []database.OddsSnapshot
}

func (f *fakeSnapshots) LatestSnapshots(string) ([]database.OddsSnapshot, error) {
	return f.rows, nil
}

type harness struct {
	bot       *Bot
	msg       *fakeMessenger
	users     *fakeUsers
	sessions  *session.MemoryStore
	analyzer  *fakeAnalyzer
	snapshots *fakeSnapshots
}

func newHarness() *harness {
	h := &harness{
		msg:       &fakeMessenger{},
		users:     newFakeUsers(),
		sessions:  session.NewMemoryStore(),
		analyzer:  &fakeAnalyzer{},
		snapshots: &fakeSnapshots{},
	}
	h.bot = NewController(Deps{
		Messenger: h.msg,
		Users:     h.users,
		Sessions:  h.sessions,
		Analyzer:  h.analyzer,
		Snapshots: h.snapshots,
		Payment:   Payment{Address: "0x52908400098527886E0F7030069857D2E4169EE7", Amount: "0.1 ETH", AdminUsername: "odds_admin"},
	})
	return h
}

const (
	user  int64 = 42
	admin int64 = 7
)

// press simulates a button press on a message currently showing text
func (h *harness) press(data, text string) {
	h.bot.HandleCallback(context.Background(), Query{
		ID: "cb", UserID: user, ChatID: user, MessageID: 1, Text: text, Data: data,
	})
}

func (h *harness) pressAs(userID int64, data string) {
	h.bot.HandleCallback(context.Background(), Query{
		ID: "cb", UserID: userID, ChatID: userID, MessageID: 1, Text: textMainMenu, Data: data,
	})
}

func (h *harness) say(userID int64, text string) {
	h.bot.HandleMessage(context.Background(), Message{UserID: userID, ChatID: userID, Text: text})
}

func buttons(kb *Keyboard) []string {
	var out []string
	for _, row := range kb.InlineKeyboard {
		for _, b := range row {
			out = append(out, *b.CallbackData)
		}
	}
	return out
}

func TestParseCallback(t *testing.T) {
	cb, err := ParseCallback("league:epl")
	require.NoError(t, err)
	assert.Equal(t, ActionLeague, cb.Action)
	assert.Equal(t, "epl", cb.Value(0, ""))
	assert.Equal(t, "x", cb.Value(1, "x"))

	cb, err = ParseCallback("help")
	require.NoError(t, err)
	assert.Equal(t, ActionHelp, cb.Action)
	assert.Empty(t, cb.Values)

	_, err = ParseCallback("bogus:1")
	assert.Error(t, err)

	assert.Equal(t, "admin:verify", callbackData(ActionAdmin, "verify"))
}

func TestUnknownActionRendersErrorOnce(t *testing.T) {
	h := newHarness()

	h.press("bogus:x", textMainMenu)
	require.Len(t, h.msg.edits, 1)
	assert.Equal(t, "❌ Unknown action", h.msg.lastEdit(t).text)

	// the message now shows the error, so a second render is skipped
	h.press("bogus:x", h.msg.lastEdit(t).text)
	assert.Len(t, h.msg.edits, 1)
}

func TestInvalidLeagueLeavesSessionUntouched(t *testing.T) {
	h := newHarness()

	h.press("league:mls", textMainMenu)

	assert.Equal(t, "❌ Invalid league", h.msg.lastEdit(t).text)
	_, ok, err := h.sessions.Get(context.Background(), user)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLeagueSelectionGatesAlgorithms(t *testing.T) {
	h := newHarness()

	h.press("league:epl", textSelectLeague)
	e := h.msg.lastEdit(t)
	assert.Contains(t, e.text, "Premier League")
	assert.Equal(t, []string{"algo:demo", "payment:upgrade"}, buttons(e.keyboard))

	sess, ok, err := h.sessions.Get(context.Background(), user)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "epl", sess.League)

	h.users.paid[user] = true
	h.press("league:epl", textSelectLeague)
	got := buttons(h.msg.lastEdit(t).keyboard)
	assert.Contains(t, got, "algo:kelly")
	assert.Contains(t, got, "algo:arb")
	assert.NotContains(t, got, "payment:upgrade")
}

func TestLeagueSelectorLayout(t *testing.T) {
	kb := leagueSelector()
	require.Len(t, kb.InlineKeyboard, 4)
	for _, row := range kb.InlineKeyboard[:3] {
		assert.Len(t, row, 2)
	}
	assert.Equal(t, "menu:main", *kb.InlineKeyboard[3][0].CallbackData)
}

func TestAlgorithmWithoutSession(t *testing.T) {
	h := newHarness()

	h.press("algo:kelly", textMainMenu)

	assert.Equal(t, "❌ Session expired", h.msg.lastEdit(t).text)
	assert.Zero(t, h.analyzer.calls)
}

func TestAlgorithmWithoutLeague(t *testing.T) {
	h := newHarness()
	require.NoError(t, h.sessions.Put(context.Background(), user, session.Session{}))

	h.press("algo:kelly", textMainMenu)

	assert.Equal(t, "❌ No league selected", h.msg.lastEdit(t).text)
}

func TestAlgorithmRunsPipeline(t *testing.T) {
	h := newHarness()
	h.users.paid[user] = true
	require.NoError(t, h.sessions.Put(context.Background(), user, session.Session{League: "epl"}))

	h.press("algo:kelly", textMainMenu)

	require.Len(t, h.msg.edits, 2)
	name := league.DisplayName("epl")
	assert.Equal(t, "⚙️ Processing "+name+"...\nAlgorithm: KELLY", h.msg.edits[0].text)
	final := h.msg.lastEdit(t).text
	assert.True(t, strings.HasPrefix(final, "🏆 "+name+" Results\n📊 Method: KELLY\n\n"), final)
	assert.Equal(t, league.AlgoKelly, h.analyzer.lastAlgo)
	assert.True(t, h.analyzer.lastPaid)
}

func TestUnpaidAlgorithmRunsAsDemo(t *testing.T) {
	h := newHarness()
	require.NoError(t, h.sessions.Put(context.Background(), user, session.Session{League: "epl"}))

	h.press("algo:kelly", textMainMenu)

	assert.False(t, h.analyzer.lastPaid)
	assert.Contains(t, h.msg.lastEdit(t).text, "Method: DEMO")
}

func TestAlgorithmFailure(t *testing.T) {
	h := newHarness()
	h.analyzer.err = errors.New("odds api returned status 401")
	require.NoError(t, h.sessions.Put(context.Background(), user, session.Session{League: "epl"}))

	h.press("algo:value", textMainMenu)

	assert.Equal(t, "❌ Analysis failed: odds api returned status 401", h.msg.lastEdit(t).text)
}

func TestPanicBecomesProcessingError(t *testing.T) {
	h := newHarness()
	h.analyzer.panic = true
	require.NoError(t, h.sessions.Put(context.Background(), user, session.Session{League: "epl"}))

	assert.NotPanics(t, func() { h.press("algo:value", textMainMenu) })
	assert.Equal(t, "❌ Processing error", h.msg.lastEdit(t).text)
}

func TestInvalidToolAndAction(t *testing.T) {
	h := newHarness()

	h.press("tool:chart", textMainMenu)
	assert.Equal(t, "❌ Invalid tool action", h.msg.lastEdit(t).text)

	h.press("action:nuke", textMainMenu)
	assert.Equal(t, "❌ Invalid action", h.msg.lastEdit(t).text)
}

func TestRefreshInvalidatesSelectedLeague(t *testing.T) {
	h := newHarness()
	require.NoError(t, h.sessions.Put(context.Background(), user, session.Session{League: "la_liga"}))

	h.press("action:refresh", textMainMenu)

	assert.Equal(t, []string{"soccer_spain_la_liga"}, h.analyzer.invalidated)
	assert.Equal(t, textRefreshed, h.msg.lastEdit(t).text)
}

func TestExportSendsCSV(t *testing.T) {
	h := newHarness()
	home := 2.1
	h.snapshots.rows = []database.OddsSnapshot{{
		SportKey: "soccer_epl", MatchID: "e1", HomeTeam: "Arsenal", AwayTeam: "Chelsea",
		Bookmaker: "Bet365", Home: &home, TakenAt: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}}

	h.press("tool:export", textMainMenu)
	assert.Equal(t, "❌ No league selected", h.msg.lastEdit(t).text)

	require.NoError(t, h.sessions.Put(context.Background(), user, session.Session{League: "epl"}))
	h.press("tool:export", textMainMenu)

	require.Len(t, h.msg.docs, 1)
	assert.Contains(t, h.msg.docs[0], "epl_20250301_1200.csv")
	assert.Contains(t, h.msg.docs[0], "e1,Arsenal,Chelsea,Bet365,2.10,,,2025-03-01T12:00:00Z")
	assert.Equal(t, textExported, h.msg.lastEdit(t).text)
}

func TestBlockedUserCallbacks(t *testing.T) {
	h := newHarness()
	h.users.blocked[user] = true

	h.press("menu:leagues", textMainMenu)

	assert.Equal(t, "❌ Access denied", h.msg.lastEdit(t).text)
}

func TestAdminGating(t *testing.T) {
	h := newHarness()

	h.pressAs(user, "admin:menu")
	assert.Equal(t, "❌ Unknown action", h.msg.lastEdit(t).text)

	h.users.admins[admin] = true
	h.pressAs(admin, "admin:menu")
	assert.Equal(t, "🛠️ Admin Panel", h.msg.lastEdit(t).text)

	h.pressAs(admin, "admin:stats")
	assert.Contains(t, h.msg.lastEdit(t).text, "👥 Users: 3")
}

func TestPendingAdminAction(t *testing.T) {
	h := newHarness()
	h.users.admins[admin] = true

	h.pressAs(admin, "admin:verify")
	assert.Equal(t, adminPrompts[adminVerify], h.msg.lastEdit(t).text)

	h.say(admin, "not-a-number")
	assert.Equal(t, "❌ Invalid user ID format", h.msg.lastSend(t).text)
	_, pending := h.bot.pending.get(admin)
	assert.True(t, pending, "invalid input keeps the pending action")

	h.say(admin, " 1234 ")
	assert.True(t, h.users.paid[1234])
	_, pending = h.bot.pending.get(admin)
	assert.False(t, pending)

	var notified, confirmed bool
	for _, s := range h.msg.sends {
		if s.chatID == 1234 {
			notified = true
		}
		if s.text == "✅ User 1234 verified" {
			confirmed = true
		}
	}
	assert.True(t, notified)
	assert.True(t, confirmed)
	assert.Equal(t, "🛠️ Admin Panel", h.msg.lastSend(t).text)
}

func TestPlainTextFromNonAdminIgnored(t *testing.T) {
	h := newHarness()

	h.say(user, "1234")

	assert.Empty(t, h.msg.sends)
	assert.False(t, h.users.paid[1234])
}

func TestCommands(t *testing.T) {
	h := newHarness()

	h.say(user, "/start")
	assert.Contains(t, h.msg.lastSend(t).text, "Free tier")

	h.say(user, "/pay")
	assert.Contains(t, h.msg.lastSend(t).text, "0x52908400098527886E0F7030069857D2E4169EE7")

	h.say(user, "/block 99")
	assert.Equal(t, "❌ Admin access required", h.msg.lastSend(t).text)
	assert.False(t, h.users.blocked[99])

	h.users.admins[admin] = true
	h.say(admin, "/block@oddsbot 99")
	assert.True(t, h.users.blocked[99])
	h.say(admin, "/unblock 99")
	assert.False(t, h.users.blocked[99])
	h.say(admin, "/verify")
	assert.Equal(t, "Usage: /verify <user_id>", h.msg.lastSend(t).text)

	h.say(user, "/nope")
	assert.Contains(t, h.msg.lastSend(t).text, "Unknown command")

	h.users.blocked[user] = true
	h.say(user, "/start")
	assert.Equal(t, "❌ Access denied", h.msg.lastSend(t).text)
}
