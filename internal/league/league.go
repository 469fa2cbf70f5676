// Package league holds the static catalogs the menus are built from: the
// supported football leagues and the analysis algorithms.
package league

import "errors"

// ErrUnknownLeague is returned for keys outside the allow-list
var ErrUnknownLeague = errors.New("unknown league")

// League is one selectable competition
type League struct {
	Key         string
	DisplayName string
	APIKey      string // sport key on The Odds API
}

var leagues = []League{
	{Key: "epl", DisplayName: "🏴󠁧󠁢󠁥󠁮󠁧󠁿 Premier League", APIKey: "soccer_epl"},
	{Key: "la_liga", DisplayName: "🇪🇸 La Liga", APIKey: "soccer_spain_la_liga"},
	{Key: "bundesliga", DisplayName: "🇩🇪 Bundesliga", APIKey: "soccer_germany_bundesliga"},
	{Key: "serie_a", DisplayName: "🇮🇹 Serie A", APIKey: "soccer_italy_serie_a"},
	{Key: "ligue_1", DisplayName: "🇫🇷 Ligue 1", APIKey: "soccer_france_ligue_one"},
	{Key: "champions", DisplayName: "🏆 UCL", APIKey: "soccer_uefa_champions_league"},
}

var byKey = func() map[string]League {
	m := make(map[string]League, len(leagues))
	for _, l := range leagues {
		m[l.Key] = l
	}
	return m
}()

// All returns the leagues in menu order
func All() []League {
	out := make([]League, len(leagues))
	copy(out, leagues)
	return out
}

// IsValid reports whether key is on the allow-list
func IsValid(key string) bool {
	_, ok := byKey[key]
	return ok
}

// DisplayName returns the human name, or the key itself when unknown
func DisplayName(key string) string {
	if l, ok := byKey[key]; ok {
		return l.DisplayName
	}
	return key
}

// APIKey maps an internal league key to The Odds API sport key
func APIKey(key string) (string, error) {
	l, ok := byKey[key]
	if !ok {
		return "", ErrUnknownLeague
	}
	return l.APIKey, nil
}
