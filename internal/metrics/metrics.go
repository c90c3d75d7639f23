package metrics

import (
	"sync"
	"time"
)

type Metrics struct {
	mu sync.RWMutex

	// Counters
	FeedFetches        int64
	RelayFailures      int64
	ParseFailures      int64
	CacheHits          int64
	CacheMisses        int64
	StaticFallbacks    int64
	SynthesisCalls     int64
	SynthesisFailures  int64
	DeviceFallbacks    int64
	ChunksPlayed       int64
	TranslationsServed int64

	// Timings
	LastFetchTime    time.Duration
	TotalFetchTime   time.Duration
	AverageFetchTime time.Duration
	FetchCount       int64

	// Status
	LastRunTime   time.Time
	LastErrorTime time.Time
	LastError     string
	IsHealthy     bool
}

var Global = &Metrics{IsHealthy: true}

func (m *Metrics) IncrementFeedFetches() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FeedFetches++
}

func (m *Metrics) IncrementRelayFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RelayFailures++
}

func (m *Metrics) IncrementParseFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ParseFailures++
}

func (m *Metrics) IncrementCacheHits() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheHits++
}

func (m *Metrics) IncrementCacheMisses() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheMisses++
}

func (m *Metrics) IncrementStaticFallbacks() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StaticFallbacks++
}

func (m *Metrics) IncrementSynthesisCalls() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SynthesisCalls++
}

func (m *Metrics) IncrementSynthesisFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SynthesisFailures++
}

func (m *Metrics) IncrementDeviceFallbacks() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeviceFallbacks++
}

func (m *Metrics) IncrementChunksPlayed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ChunksPlayed++
}

func (m *Metrics) IncrementTranslationsServed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TranslationsServed++
}

func (m *Metrics) RecordFetchTime(duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.LastFetchTime = duration
	m.TotalFetchTime += duration
	m.FetchCount++

	if m.FetchCount > 0 {
		m.AverageFetchTime = m.TotalFetchTime / time.Duration(m.FetchCount)
	}
}

func (m *Metrics) SetLastRun() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastRunTime = time.Now()
	m.IsHealthy = true
}

func (m *Metrics) SetError(err string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastError = err
	m.LastErrorTime = time.Now()
	m.IsHealthy = false
}

func (m *Metrics) GetStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]interface{}{
		"feed_fetches":          m.FeedFetches,
		"relay_failures":        m.RelayFailures,
		"parse_failures":        m.ParseFailures,
		"cache_hits":            m.CacheHits,
		"cache_misses":          m.CacheMisses,
		"static_fallbacks":      m.StaticFallbacks,
		"synthesis_calls":       m.SynthesisCalls,
		"synthesis_failures":    m.SynthesisFailures,
		"device_fallbacks":      m.DeviceFallbacks,
		"chunks_played":         m.ChunksPlayed,
		"translations_served":   m.TranslationsServed,
		"last_fetch_time_ms":    m.LastFetchTime.Milliseconds(),
		"average_fetch_time_ms": m.AverageFetchTime.Milliseconds(),
		"last_run_time":         m.LastRunTime.Format(time.RFC3339),
		"last_error_time":       m.LastErrorTime.Format(time.RFC3339),
		"last_error":            m.LastError,
		"is_healthy":            m.IsHealthy,
	}
}
