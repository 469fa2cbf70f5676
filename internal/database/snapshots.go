package database

import (
	"sort"
	"time"

	"github.com/web3guy0/oddsbot/internal/analysis"
	"github.com/web3guy0/oddsbot/internal/odds"
)

// SaveSnapshots stores one row per match and bookmaker, all stamped with takenAt
func (d *Database) SaveSnapshots(sportKey string, matches []odds.Match, takenAt time.Time) error {
	var rows []OddsSnapshot
	for _, m := range matches {
		for _, name := range m.BookmakerNames() {
			p := m.Bookmakers[name]
			rows = append(rows, OddsSnapshot{
				SportKey:  sportKey,
				MatchID:   m.ID,
				HomeTeam:  m.HomeTeam,
				AwayTeam:  m.AwayTeam,
				Bookmaker: name,
				Home:      p.Home,
				Draw:      p.Draw,
				Away:      p.Away,
				TakenAt:   takenAt,
			})
		}
	}
	if len(rows) == 0 {
		return nil
	}
	return d.db.CreateInBatches(rows, 200).Error
}

// LatestSnapshots returns the rows of the most recent snapshot for a sport
func (d *Database) LatestSnapshots(sportKey string) ([]OddsSnapshot, error) {
	var latest OddsSnapshot
	err := d.db.Where("sport_key = ?", sportKey).Order("taken_at DESC").First(&latest).Error
	if err != nil {
		return nil, err
	}

	var rows []OddsSnapshot
	err = d.db.
		Where("sport_key = ? AND taken_at = ?", sportKey, latest.TakenAt).
		Order("home_team, bookmaker").
		Find(&rows).Error
	return rows, err
}

// HomePriceHistory returns, per match, the average home price of each of the
// last `limit` snapshots, oldest first
func (d *Database) HomePriceHistory(sportKey string, limit int) (map[string][]analysis.PricePoint, error) {
	var times []time.Time
	err := d.db.Model(&OddsSnapshot{}).
		Where("sport_key = ?", sportKey).
		Distinct("taken_at").
		Order("taken_at DESC").
		Limit(limit).
		Pluck("taken_at", &times).Error
	if err != nil {
		return nil, err
	}
	if len(times) == 0 {
		return map[string][]analysis.PricePoint{}, nil
	}

	var rows []OddsSnapshot
	err = d.db.
		Where("sport_key = ? AND taken_at IN ? AND home IS NOT NULL", sportKey, times).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	type key struct {
		match string
		at    int64
	}
	type acc struct {
		at  time.Time
		sum float64
		n   int
	}
	buckets := make(map[key]*acc)
	for _, r := range rows {
		k := key{r.MatchID, r.TakenAt.UnixNano()}
		a, ok := buckets[k]
		if !ok {
			a = &acc{at: r.TakenAt}
			buckets[k] = a
		}
		a.sum += *r.Home
		a.n++
	}

	history := make(map[string][]analysis.PricePoint)
	for k, a := range buckets {
		history[k.match] = append(history[k.match], analysis.PricePoint{At: a.at, Home: a.sum / float64(a.n)})
	}
	for id := range history {
		points := history[id]
		sort.Slice(points, func(i, j int) bool { return points[i].At.Before(points[j].At) })
	}
	return history, nil
}
