package odds

import (
	"sort"
	"time"
)

// Prices holds the h2h prices of one bookmaker. A nil price means the
// bookmaker did not quote that outcome.
type Prices struct {
	Home *float64 `json:"home"`
	Draw *float64 `json:"draw"`
	Away *float64 `json:"away"`
}

// Match is the processed form of an Event consumed by the analysis package
type Match struct {
	ID           string            `json:"id"`
	HomeTeam     string            `json:"home_team"`
	AwayTeam     string            `json:"away_team"`
	CommenceTime time.Time         `json:"commence_time"`
	Bookmakers   map[string]Prices `json:"bookmakers"`
}

// Label is "Home vs Away"
func (m Match) Label() string {
	return m.HomeTeam + " vs " + m.AwayTeam
}

// BookmakerNames returns the bookmaker names in sorted order so iteration
// over a match is deterministic.
func (m Match) BookmakerNames() []string {
	names := make([]string, 0, len(m.Bookmakers))
	for name := range m.Bookmakers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Preprocess converts raw events into matches, keeping only the h2h market
func Preprocess(events []Event) []Match {
	matches := make([]Match, 0, len(events))
	for _, ev := range events {
		m := Match{
			ID:           ev.ID,
			HomeTeam:     ev.HomeTeam,
			AwayTeam:     ev.AwayTeam,
			CommenceTime: ev.CommenceTime,
			Bookmakers:   make(map[string]Prices),
		}

		for _, bm := range ev.Bookmakers {
			name := bm.Title
			if name == "" {
				name = bm.Key
			}
			for _, market := range bm.Markets {
				if market.Key != "h2h" {
					continue
				}
				var p Prices
				for _, o := range market.Outcomes {
					price := o.Price
					switch o.Name {
					case ev.HomeTeam:
						p.Home = &price
					case ev.AwayTeam:
						p.Away = &price
					case "Draw":
						p.Draw = &price
					}
				}
				m.Bookmakers[name] = p
			}
		}

		matches = append(matches, m)
	}
	return matches
}

// Price is a convenience for building Prices literals
func Price(v float64) *float64 {
	return &v
}
