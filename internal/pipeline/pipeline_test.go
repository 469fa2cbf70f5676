package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/web3guy0/oddsbot/internal/analysis"
	"github.com/web3guy0/oddsbot/internal/cache"
	"github.com/web3guy0/oddsbot/internal/league"
	"github.com/web3guy0/oddsbot/internal/metrics"
	"github.com/web3guy0/oddsbot/internal/odds"
)

type fakeFetcher struct {
	calls  int
	events []odds.Event
	err    error
}

func (f *fakeFetcher) FetchOdds(_ context.Context, _ string) ([]odds.Event, error) {
	f.calls++
	return f.events, f.err
}

type fakeSnapshots struct {
	saved   int
	history map[string][]analysis.PricePoint
}

func (f *fakeSnapshots) SaveSnapshots(string, []odds.Match, time.Time) error {
	f.saved++
	return nil
}

func (f *fakeSnapshots) HomePriceHistory(string, int) (map[string][]analysis.PricePoint, error) {
	return f.history, nil
}

func sampleEvents() []odds.Event {
	h2h := func(home, draw, away float64) []odds.Market {
		return []odds.Market{{Key: "h2h", Outcomes: []odds.Outcome{
			{Name: "Arsenal", Price: home}, {Name: "Draw", Price: draw}, {Name: "Chelsea", Price: away},
		}}}
	}
	return []odds.Event{{
		ID:       "e1",
		HomeTeam: "Arsenal",
		AwayTeam: "Chelsea",
		Bookmakers: []odds.Bookmaker{
			{Title: "Bet365", Markets: h2h(2.1, 3.4, 3.5)},
			{Title: "Unibet", Markets: h2h(2.0, 3.5, 3.6)},
		},
	}}
}

func newPipeline(f *fakeFetcher, s SnapshotStore) *Pipeline {
	a := analysis.NewAnalyzer(decimal.NewFromInt(1000))
	a.Seed = func() uint64 { return 1 }
	return New(f, cache.NewMemory(time.Hour), s, a, metrics.New(), time.Second)
}

func TestProcessUsesCache(t *testing.T) {
	f := &fakeFetcher{events: sampleEvents()}
	s := &fakeSnapshots{}
	p := newPipeline(f, s)
	ctx := context.Background()

	res, err := p.Process(ctx, "soccer_epl", league.AlgoValue, true)
	require.NoError(t, err)
	require.Len(t, res.Comparisons, 1)

	_, err = p.Process(ctx, "soccer_epl", league.AlgoIPT, true)
	require.NoError(t, err)
	assert.Equal(t, 1, f.calls)
	assert.Equal(t, 1, s.saved, "only fresh fetches are snapshotted")

	require.NoError(t, p.Invalidate(ctx, "soccer_epl"))
	_, err = p.Process(ctx, "soccer_epl", league.AlgoIPT, true)
	require.NoError(t, err)
	assert.Equal(t, 2, f.calls)
}

func TestProcessForcesDemoForUnpaid(t *testing.T) {
	p := newPipeline(&fakeFetcher{events: sampleEvents()}, nil)

	res, err := p.Process(context.Background(), "soccer_epl", league.AlgoKelly, false)
	require.NoError(t, err)
	assert.True(t, res.Demo)
	assert.Equal(t, league.AlgoDemo, res.Algorithm)
}

func TestProcessTrendUsesHistory(t *testing.T) {
	now := time.Now()
	s := &fakeSnapshots{history: map[string][]analysis.PricePoint{
		"e1": {{At: now, Home: 1.9}, {At: now, Home: 2.0}, {At: now, Home: 2.1}},
	}}
	p := newPipeline(&fakeFetcher{events: sampleEvents()}, s)

	res, err := p.Process(context.Background(), "soccer_epl", league.AlgoTrend, true)
	require.NoError(t, err)
	require.Len(t, res.Trends, 1)
	assert.Equal(t, analysis.TrendRising, res.Trends[0].Direction)
}

func TestProcessFetchError(t *testing.T) {
	p := newPipeline(&fakeFetcher{err: errors.New("boom")}, nil)

	_, err := p.Process(context.Background(), "soccer_epl", league.AlgoKelly, true)
	assert.EqualError(t, err, "boom")
}
