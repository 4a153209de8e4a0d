package scan

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/quantum-leap/backend/internal/alert"
	"github.com/wonny/quantum-leap/backend/internal/contracts"
	"github.com/wonny/quantum-leap/backend/internal/signals"
	"github.com/wonny/quantum-leap/backend/pkg/logger"
)

// 워치리스트 스캔 오케스트레이터
// ⭐ SSOT: 스캔 사이클 순서와 실패 격리는 여기서만
//
// 종목별 순차 처리 (프로바이더 쿼터 보호):
//  1. 가격 — 실패 시 에러 기록 후 해당 종목 건너뜀
//  2. 최근 뉴스 → 긴급 + 1시간 이내 필터 → 개별 알림
//  3. 종합 신호 산출 → 요약 엔트리 적재
//
// 루프 종료 후 요약 리포트 1건 발송. 어떤 단계의 실패도 스캔 전체를
// 중단시키지 않는다.

const (
	tickerDelay = 300 * time.Millisecond
	alertDelay  = 500 * time.Millisecond

	newsWindow    = 24 * time.Hour
	newsLimit     = 5
	urgencyWindow = time.Hour
)

// MarketData is the slice of the market service the scanner consumes
type MarketData interface {
	Quote(ctx context.Context, ticker string) (*contracts.Quote, error)
	RecentNews(ctx context.Context, ticker string, since time.Time, limit int) ([]contracts.NewsItem, error)
}

// IndicatorSource serves the composite-signal inputs. In
// quota-preserving mode this is the synthetic seed table rather than
// the live indicator provider.
type IndicatorSource interface {
	Indicators(ctx context.Context, ticker string) (*contracts.Indicators, error)
}

// AlertSink receives the outbound alerts
type AlertSink interface {
	NewsAlert(ctx context.Context, item contracts.NewsItem, quote *contracts.Quote) bool
	Summary(ctx context.Context, entries []alert.SignalEntry) bool
}

// Result is the structured outcome of one scan cycle
type Result struct {
	CheckedTickers  int      `json:"checkedTickers"`
	UrgentNewsFound int      `json:"urgentNewsFound"`
	UrgentNewsSent  int      `json:"urgentNewsSent"`
	SignalsSent     bool     `json:"signalsSent"`
	Errors          []string `json:"errors"`
}

// Scanner runs alert scan cycles over a ticker list
type Scanner struct {
	market     MarketData
	indicators IndicatorSource
	alerts     AlertSink
	logger     *logger.Logger

	now         func() time.Time
	tickerDelay time.Duration
	alertDelay  time.Duration
}

// Option configures the scanner
type Option func(*Scanner)

// WithClock injects the time source (tests)
func WithClock(now func() time.Time) Option {
	return func(s *Scanner) { s.now = now }
}

// WithDelays overrides the pacing delays (tests)
func WithDelays(ticker, alert time.Duration) Option {
	return func(s *Scanner) {
		s.tickerDelay = ticker
		s.alertDelay = alert
	}
}

// NewScanner creates a scanner
func NewScanner(market MarketData, indicators IndicatorSource, alerts AlertSink, log *logger.Logger, opts ...Option) *Scanner {
	s := &Scanner{
		market:      market,
		indicators:  indicators,
		alerts:      alerts,
		logger:      log,
		now:         time.Now,
		tickerDelay: tickerDelay,
		alertDelay:  alertDelay,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run executes one scan cycle over the tickers in order
func (s *Scanner) Run(ctx context.Context, tickers []string) Result {
	result := Result{Errors: []string{}}
	scanStart := s.now()
	urgentCutoff := scanStart.Add(-urgencyWindow).Unix()

	var entries []alert.SignalEntry

	for _, ticker := range tickers {
		if ctx.Err() != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("scan aborted: %v", ctx.Err()))
			break
		}

		ticker = contracts.NormalizeTicker(ticker)
		result.CheckedTickers++

		quote, err := s.market.Quote(ctx, ticker)
		if err != nil {
			s.logger.WithFields(map[string]interface{}{
				"ticker": ticker,
				"error":  err.Error(),
			}).Warn("Quote fetch failed, skipping ticker")
			result.Errors = append(result.Errors, fmt.Sprintf("%s: 가격 fetch 실패", ticker))
			continue
		}

		// 뉴스 실패는 신호 산출을 막지 않는다
		items, err := s.market.RecentNews(ctx, ticker, scanStart.Add(-newsWindow), newsLimit)
		if err != nil {
			s.logger.WithFields(map[string]interface{}{
				"ticker": ticker,
				"error":  err.Error(),
			}).Warn("News fetch failed")
			items = nil
		}

		for _, item := range items {
			if !item.IsUrgent || item.Datetime <= urgentCutoff {
				continue
			}
			result.UrgentNewsFound++

			if s.alerts.NewsAlert(ctx, item, quote) {
				result.UrgentNewsSent++
			}
			sleep(ctx, s.alertDelay)
		}

		if indicators, err := s.indicators.Indicators(ctx, ticker); err != nil {
			s.logger.WithFields(map[string]interface{}{
				"ticker": ticker,
				"error":  err.Error(),
			}).Warn("Indicator source failed, no summary entry")
		} else {
			signal := signals.Composite(quote.Price, *indicators)
			entries = append(entries, alert.SignalEntry{
				Ticker:        ticker,
				Overall:       signal.Overall,
				BuyScore:      signal.BuyScore,
				SellScore:     signal.SellScore,
				Price:         quote.Price,
				ChangePercent: quote.ChangePercent,
			})
		}

		sleep(ctx, s.tickerDelay)
	}

	if len(entries) > 0 {
		result.SignalsSent = s.alerts.Summary(ctx, entries)
	}

	s.logger.WithFields(map[string]interface{}{
		"checked":     result.CheckedTickers,
		"urgentFound": result.UrgentNewsFound,
		"urgentSent":  result.UrgentNewsSent,
		"signalsSent": result.SignalsSent,
		"errors":      len(result.Errors),
	}).Info("Scan cycle completed")

	return result
}

// sleep waits for d or until the context is done
func sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
