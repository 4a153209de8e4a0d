package ratelimit

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Gate is a fixed-interval pacing gate for external API calls.
// 모든 프로바이더 호출은 실행 전에 Wait()로 토큰을 얻어야 한다.
// ⭐ SSOT: 호출 페이싱은 이 게이트에서만 — 비즈니스 로직에 sleep 금지
type Gate struct {
	name    string
	limiter *rate.Limiter
}

// NewGate creates a gate that releases one call per interval.
// The first call passes immediately; subsequent calls block until
// the interval has elapsed since the previous release.
func NewGate(name string, interval time.Duration) *Gate {
	return &Gate{
		name:    name,
		limiter: rate.NewLimiter(rate.Every(interval), 1),
	}
}

// Name returns the gate name (로깅용)
func (g *Gate) Name() string {
	return g.name
}

// Wait blocks until a call is allowed or the context is cancelled
func (g *Gate) Wait(ctx context.Context) error {
	return g.limiter.Wait(ctx)
}

// Predefined pacing intervals for external APIs
const (
	// Finnhub: 공식 한도는 넉넉하지만 방어적으로 300ms 간격
	FinnhubInterval = 300 * time.Millisecond

	// Alpha Vantage: 분당 5회 하드 쿼터 — 500ms 간격 + 응답 본문의
	// rate-limit 마커를 소프트 실패로 처리
	AlphaVantageInterval = 500 * time.Millisecond

	// Telegram: 알림 스팸 방지 간격
	TelegramInterval = 500 * time.Millisecond
)
