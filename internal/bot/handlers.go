package bot

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/web3guy0/oddsbot/internal/analysis"
	"github.com/web3guy0/oddsbot/internal/database"
	"github.com/web3guy0/oddsbot/internal/league"
	"github.com/web3guy0/oddsbot/internal/session"
)

const (
	textMainMenu      = "🏠 Main Menu"
	textSelectLeague  = "⚽ Select a league:"
	textRefreshing    = "🔄 Refreshing data..."
	textRefreshed     = "✅ Data refreshed successfully!"
	textExported      = "✅ Data exported successfully!"
	textExportCaption = "📥 Latest odds snapshot"
)

func (b *Bot) handleMenu(ctx context.Context, q *Query, cb Callback) error {
	switch cb.Value(0, "main") {
	case "main":
		return b.edit(q, textMainMenu, false, mainMenu())
	case "leagues":
		return b.edit(q, textSelectLeague, false, leagueSelector())
	case "help":
		return b.showHelp(q)
	case "refresh":
		return b.refresh(ctx, q)
	default:
		b.showError(q, "Invalid menu option")
		return nil
	}
}

func (b *Bot) handleLeague(ctx context.Context, q *Query, cb Callback) error {
	key := cb.Value(0, "")
	if !league.IsValid(key) {
		b.showError(q, "Invalid league")
		return nil
	}

	if err := b.sessions.Put(ctx, q.UserID, session.Session{League: key}); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	text := fmt.Sprintf("✅ Selected: %s\nChoose analysis method:", league.DisplayName(key))
	return b.edit(q, text, false, algorithmSelector(b.users.IsPaid(q.UserID)))
}

func (b *Bot) handleAlgorithm(ctx context.Context, q *Query, cb Callback) error {
	algo, err := league.ParseAlgorithm(cb.Value(0, ""))
	if err != nil {
		b.showError(q, "Invalid algorithm")
		return nil
	}

	sess, ok, err := b.sessions.Get(ctx, q.UserID)
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}
	if !ok {
		b.showError(q, "Session expired")
		return nil
	}
	if sess.League == "" {
		b.showError(q, "No league selected")
		return nil
	}

	sportKey, err := league.APIKey(sess.League)
	if err != nil {
		b.showError(q, "Analysis failed: "+err.Error())
		return nil
	}

	name := league.DisplayName(sess.League)
	progress := fmt.Sprintf("⚙️ Processing %s...\nAlgorithm: %s", name, algo.Title())
	if err := b.editText(q, progress); err != nil {
		log.Warn().Err(err).Msg("Failed to show progress")
	}

	start := time.Now()
	res, err := b.analyzer.Process(ctx, sportKey, algo, b.users.IsPaid(q.UserID))
	if err != nil {
		log.Error().Err(err).
			Str("league", sess.League).
			Str("algorithm", string(algo)).
			Msg("Analysis failed")
		b.showError(q, "Analysis failed: "+err.Error())
		return nil
	}

	log.Info().
		Int64("user_id", q.UserID).
		Str("league", sess.League).
		Str("algorithm", string(res.Algorithm)).
		Dur("took", time.Since(start)).
		Msg("📊 Analysis complete")

	text := fmt.Sprintf("🏆 %s Results\n📊 Method: %s\n\n%s", name, res.Algorithm.Title(), analysis.Format(res))
	return b.edit(q, text, false, mainMenu())
}

func (b *Bot) showHelp(q *Query) error {
	return b.edit(q, helpText, true, helpNavigation())
}

func (b *Bot) handleTool(ctx context.Context, q *Query, cb Callback) error {
	switch cb.Value(0, "") {
	case "wager_guide":
		return b.edit(q, wagerGuideText, true, helpNavigation())
	case "algo_docs":
		return b.edit(q, algorithmDocsText(), true, helpNavigation())
	case "export":
		return b.export(ctx, q)
	default:
		b.showError(q, "Invalid tool action")
		return nil
	}
}

func (b *Bot) handleAction(ctx context.Context, q *Query, cb Callback) error {
	switch cb.Value(0, "") {
	case "refresh":
		return b.refresh(ctx, q)
	default:
		b.showError(q, "Invalid action")
		return nil
	}
}

func (b *Bot) handlePayment(q *Query, cb Callback) error {
	switch cb.Value(0, "") {
	case "upgrade":
		return b.edit(q, b.paymentText(), true, backTo("menu:main"))
	default:
		b.showError(q, "Invalid action")
		return nil
	}
}

// refresh drops the cached odds of the selected league
func (b *Bot) refresh(ctx context.Context, q *Query) error {
	if err := b.editText(q, textRefreshing); err != nil {
		return err
	}

	sess, ok, err := b.sessions.Get(ctx, q.UserID)
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}
	if ok && sess.League != "" {
		sportKey, err := league.APIKey(sess.League)
		if err == nil {
			if err := b.analyzer.Invalidate(ctx, sportKey); err != nil {
				log.Warn().Err(err).Str("sport", sportKey).Msg("Failed to invalidate odds cache")
			}
		}
	}

	return b.edit(q, textRefreshed, false, mainMenu())
}

// export sends the latest stored odds of the selected league as CSV
func (b *Bot) export(ctx context.Context, q *Query) error {
	if b.snapshots == nil {
		b.showError(q, "Export unavailable")
		return nil
	}

	sess, ok, err := b.sessions.Get(ctx, q.UserID)
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}
	if !ok || sess.League == "" {
		b.showError(q, "No league selected")
		return nil
	}
	sportKey, err := league.APIKey(sess.League)
	if err != nil {
		b.showError(q, "Invalid league")
		return nil
	}

	rows, err := b.snapshots.LatestSnapshots(sportKey)
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && len(rows) == 0) {
		b.showError(q, "No odds data to export yet")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load snapshots: %w", err)
	}

	data, err := snapshotsCSV(rows)
	if err != nil {
		return err
	}
	name := fmt.Sprintf("%s_%s.csv", sess.League, rows[0].TakenAt.Format("20060102_1504"))
	if err := b.messenger.SendDocument(q.ChatID, name, data, textExportCaption); err != nil {
		return fmt.Errorf("failed to send export: %w", err)
	}

	return b.edit(q, textExported, false, mainMenu())
}

func snapshotsCSV(rows []database.OddsSnapshot) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"match_id", "home_team", "away_team", "bookmaker", "home", "draw", "away", "taken_at"})
	for _, r := range rows {
		_ = w.Write([]string{
			r.MatchID,
			r.HomeTeam,
			r.AwayTeam,
			r.Bookmaker,
			formatOptional(r.Home),
			formatOptional(r.Draw),
			formatOptional(r.Away),
			r.TakenAt.UTC().Format(time.RFC3339),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to write csv: %w", err)
	}
	return buf.Bytes(), nil
}

func formatOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}
