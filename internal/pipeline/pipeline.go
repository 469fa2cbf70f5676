// Package pipeline ties fetching, preprocessing, snapshotting and analysis
// into the single call the bot makes when a user picks an algorithm.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/web3guy0/oddsbot/internal/analysis"
	"github.com/web3guy0/oddsbot/internal/cache"
	"github.com/web3guy0/oddsbot/internal/league"
	"github.com/web3guy0/oddsbot/internal/metrics"
	"github.com/web3guy0/oddsbot/internal/odds"
)

// historyDepth is how many snapshots the trend model looks back over
const historyDepth = 20

// Fetcher is the odds source
type Fetcher interface {
	FetchOdds(ctx context.Context, sportKey string) ([]odds.Event, error)
}

// SnapshotStore persists fetched odds for the trend model
type SnapshotStore interface {
	SaveSnapshots(sportKey string, matches []odds.Match, takenAt time.Time) error
	HomePriceHistory(sportKey string, limit int) (map[string][]analysis.PricePoint, error)
}

// Pipeline runs fetch → preprocess → analyse
type Pipeline struct {
	fetcher   Fetcher
	cache     cache.OddsCache
	snapshots SnapshotStore
	analyzer  *analysis.Analyzer
	metrics   *metrics.Metrics
	timeout   time.Duration
	now       func() time.Time
}

// New creates a pipeline. snapshots and m may be nil.
func New(fetcher Fetcher, c cache.OddsCache, snapshots SnapshotStore, analyzer *analysis.Analyzer, m *metrics.Metrics, timeout time.Duration) *Pipeline {
	return &Pipeline{
		fetcher:   fetcher,
		cache:     c,
		snapshots: snapshots,
		analyzer:  analyzer,
		metrics:   m,
		timeout:   timeout,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Process runs one analysis for a sport key. Unpaid users always get the demo.
func (p *Pipeline) Process(ctx context.Context, sportKey string, algo league.Algorithm, paidUser bool) (*analysis.Result, error) {
	if !paidUser {
		algo = league.AlgoDemo
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	res, err := p.process(ctx, sportKey, algo)
	p.record(algo, err)
	return res, err
}

func (p *Pipeline) process(ctx context.Context, sportKey string, algo league.Algorithm) (*analysis.Result, error) {
	matches, err := p.matches(ctx, sportKey)
	if err != nil {
		return nil, err
	}

	var history map[string][]analysis.PricePoint
	if algo == league.AlgoTrend && p.snapshots != nil {
		history, err = p.snapshots.HomePriceHistory(sportKey, historyDepth)
		if err != nil {
			return nil, fmt.Errorf("failed to load odds history: %w", err)
		}
	}

	return p.analyzer.Run(algo, matches, history)
}

// matches returns processed matches, from cache when possible. A fresh fetch
// is snapshotted.
func (p *Pipeline) matches(ctx context.Context, sportKey string) ([]odds.Match, error) {
	events, ok, err := p.cache.Get(ctx, sportKey)
	if err != nil {
		log.Warn().Err(err).Str("sport", sportKey).Msg("Odds cache read failed")
	}
	if ok {
		if p.metrics != nil {
			p.metrics.CacheHits.Inc()
		}
		return odds.Preprocess(events), nil
	}
	if p.metrics != nil {
		p.metrics.CacheMisses.Inc()
	}

	events, err = p.fetcher.FetchOdds(ctx, sportKey)
	if err != nil {
		return nil, err
	}
	if err := p.cache.Set(ctx, sportKey, events); err != nil {
		log.Warn().Err(err).Str("sport", sportKey).Msg("Odds cache write failed")
	}

	matches := odds.Preprocess(events)
	if p.snapshots != nil {
		if err := p.snapshots.SaveSnapshots(sportKey, matches, p.now()); err != nil {
			log.Error().Err(err).Str("sport", sportKey).Msg("Failed to save odds snapshot")
		}
	}
	return matches, nil
}

// Invalidate drops cached odds so the next request refetches
func (p *Pipeline) Invalidate(ctx context.Context, sportKey string) error {
	return p.cache.Delete(ctx, sportKey)
}

func (p *Pipeline) record(algo league.Algorithm, err error) {
	if p.metrics == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	p.metrics.Analyses.WithLabelValues(string(algo), outcome).Inc()
}
