package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// Store is the cache contract shared by the in-process memory store and
// the optional Redis-backed store.
// ⭐ SSOT: 필드별 캐시 접근은 이 인터페이스를 통해서만
type Store interface {
	// Get unmarshals a cached value into dest. Returns false on a miss
	// (absent or stale) — a miss is not an error.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set stores a value with TTL, unconditionally overwriting the prior
	// entry (last-write-wins).
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// Field TTLs. 호출 쿼터가 비싼 필드일수록 길게.
const (
	TTLQuote      = 1 * time.Minute
	TTLCandles    = 1 * time.Hour
	TTLIndicators = 1 * time.Hour
	TTLNews       = 30 * time.Minute
)

// Cache key generators — key = (field-type, ticker)
func QuoteKey(ticker string) string      { return fmt.Sprintf("quote:%s", ticker) }
func CandlesKey(ticker string) string    { return fmt.Sprintf("candles:%s", ticker) }
func NewsKey(ticker string) string       { return fmt.Sprintf("news:%s", ticker) }
func IndicatorsKey(ticker string) string { return fmt.Sprintf("indicators:%s", ticker) }
func RSIKey(ticker string) string        { return fmt.Sprintf("rsi:%s", ticker) }
func MACDKey(ticker string) string       { return fmt.Sprintf("macd:%s", ticker) }
func BBandsKey(ticker string) string     { return fmt.Sprintf("bbands:%s", ticker) }
func SMAKey(ticker string) string        { return fmt.Sprintf("sma:%s", ticker) }

type entry struct {
	data      []byte
	expiresAt time.Time
}

// Memory is a process-scoped Store with an injected clock.
// TTL 경과 후 읽기만 miss로 처리하며 명시적 eviction은 없다 —
// 카디널리티는 워치리스트 크기로 유계.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

// MemoryOption configures a Memory store
type MemoryOption func(*Memory)

// WithClock injects a clock (테스트에서 시간 제어용)
func WithClock(now func() time.Time) MemoryOption {
	return func(m *Memory) {
		m.now = now
	}
}

// NewMemory creates an empty in-process cache
func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{
		entries: make(map[string]entry),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Get implements Store
func (m *Memory) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok || !m.now().Before(e.expiresAt) {
		return false, nil
	}

	if err := json.Unmarshal(e.data, dest); err != nil {
		return false, fmt.Errorf("cache unmarshal failed: %w", err)
	}
	return true, nil
}

// Set implements Store
func (m *Memory) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal failed: %w", err)
	}

	m.mu.Lock()
	m.entries[key] = entry{
		data:      data,
		expiresAt: m.now().Add(ttl),
	}
	m.mu.Unlock()
	return nil
}

// Len returns the number of stored entries, stale included
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
