package market

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/quantum-leap/backend/internal/contracts"
	"github.com/wonny/quantum-leap/backend/internal/news"
	"github.com/wonny/quantum-leap/backend/internal/signals"
	"github.com/wonny/quantum-leap/backend/pkg/cache"
	"github.com/wonny/quantum-leap/backend/pkg/logger"
)

// 필드별 fetch 전략 + 캐시 소유
// ⭐ SSOT: 시장 데이터 조회는 이 서비스를 통해서만
//
// 캐시 TTL은 pkg/cache의 필드별 상수를 따른다. 캐시 miss 시에만
// 프로바이더를 호출하고, fetch 실패 시 stale 데이터 부활은 없다.

const (
	candleWindowDays = 30
	newsWindowDays   = 7
	newsLimit        = 10
)

// Service coordinates providers and the cache per market-data field
type Service struct {
	prices     PriceProvider
	indicators IndicatorProvider
	cache      cache.Store
	logger     *logger.Logger
	now        func() time.Time
}

// ServiceOption configures the service
type ServiceOption func(*Service)

// WithClock injects the time source (tests)
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) { s.now = now }
}

// NewService creates a market data service
func NewService(prices PriceProvider, indicators IndicatorProvider, store cache.Store, log *logger.Logger, opts ...ServiceOption) *Service {
	s := &Service{
		prices:     prices,
		indicators: indicators,
		cache:      store,
		logger:     log,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Quote returns the current price snapshot, cached for one minute
func (s *Service) Quote(ctx context.Context, ticker string) (*contracts.Quote, error) {
	ticker = contracts.NormalizeTicker(ticker)
	key := cache.QuoteKey(ticker)

	var cached contracts.Quote
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
		return &cached, nil
	}

	quote, err := s.prices.Quote(ctx, ticker)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, key, quote, cache.TTLQuote); err != nil {
		s.logger.WithError(err).Warn("Quote cache write failed")
	}
	return quote, nil
}

// Candles returns the 30-day daily candle series ascending by date.
// Primary provider first; on any failure the compact daily series of the
// indicator provider serves as fallback, truncated to the 30 most recent.
func (s *Service) Candles(ctx context.Context, ticker string) ([]contracts.Candle, error) {
	ticker = contracts.NormalizeTicker(ticker)
	key := cache.CandlesKey(ticker)

	var cached []contracts.Candle
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
		return cached, nil
	}

	to := s.now()
	from := to.AddDate(0, 0, -candleWindowDays)

	candles, err := s.prices.Candles(ctx, ticker, from, to)
	if err != nil {
		s.logger.WithFields(map[string]interface{}{
			"ticker": ticker,
			"error":  err.Error(),
		}).Warn("Primary candle fetch failed, falling back to daily series")

		candles, err = s.indicators.DailyCandles(ctx, ticker, candleWindowDays)
		if err != nil {
			return nil, fmt.Errorf("candle fallback failed for %s: %w", ticker, err)
		}
	}

	if err := s.cache.Set(ctx, key, candles, cache.TTLCandles); err != nil {
		s.logger.WithError(err).Warn("Candles cache write failed")
	}
	return candles, nil
}

// News returns up to 10 classified news items from the last 7 days
func (s *Service) News(ctx context.Context, ticker string) ([]contracts.NewsItem, error) {
	ticker = contracts.NormalizeTicker(ticker)
	key := cache.NewsKey(ticker)

	var cached []contracts.NewsItem
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
		return cached, nil
	}

	to := s.now()
	from := to.AddDate(0, 0, -newsWindowDays)

	articles, err := s.prices.CompanyNews(ctx, ticker, from, to, newsLimit)
	if err != nil {
		return nil, err
	}

	items := make([]contracts.NewsItem, 0, len(articles))
	for _, article := range articles {
		items = append(items, news.Classify(ticker, article))
	}

	if err := s.cache.Set(ctx, key, items, cache.TTLNews); err != nil {
		s.logger.WithError(err).Warn("News cache write failed")
	}
	return items, nil
}

// RecentNews returns classified items from the given window, bypassing
// the 7-day cache path — the scanner uses a 1-day window so a 30-minute
// old cache entry must not hide a fresh urgent headline.
func (s *Service) RecentNews(ctx context.Context, ticker string, since time.Time, limit int) ([]contracts.NewsItem, error) {
	ticker = contracts.NormalizeTicker(ticker)

	articles, err := s.prices.CompanyNews(ctx, ticker, since, s.now(), limit)
	if err != nil {
		return nil, err
	}

	items := make([]contracts.NewsItem, 0, len(articles))
	for _, article := range articles {
		items = append(items, news.Classify(ticker, article))
	}
	return items, nil
}

// Indicators assembles the five-indicator composite. Sub-fetches run
// sequentially (the provider gate paces them); each failure is logged
// and leaves its field zero. The partial object is always returned, but
// cached only when the RSI fetch succeeded — RSI presence marks the
// object complete enough to reuse.
func (s *Service) Indicators(ctx context.Context, ticker string) (*contracts.Indicators, error) {
	ticker = contracts.NormalizeTicker(ticker)
	key := cache.IndicatorsKey(ticker)

	var cached contracts.Indicators
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
		return &cached, nil
	}

	result := &contracts.Indicators{}
	rsiOK := false

	if rsi, err := s.indicators.RSI(ctx, ticker); err != nil {
		s.warnIndicator(ticker, "rsi", err)
	} else {
		result.RSI = rsi
		rsiOK = true
	}

	if macd, err := s.indicators.MACD(ctx, ticker); err != nil {
		s.warnIndicator(ticker, "macd", err)
	} else {
		result.MACD = *macd
	}

	if bb, err := s.indicators.BollingerBands(ctx, ticker); err != nil {
		s.warnIndicator(ticker, "bbands", err)
	} else {
		result.BollingerBands = *bb
	}

	for _, period := range []int{20, 50, 200} {
		value, err := s.indicators.SMA(ctx, ticker, period)
		if err != nil {
			s.warnIndicator(ticker, fmt.Sprintf("sma%d", period), err)
			continue
		}
		switch period {
		case 20:
			result.SMA.SMA20 = value
		case 50:
			result.SMA.SMA50 = value
		case 200:
			result.SMA.SMA200 = value
		}
	}

	// 일목균형표는 캔들 시계열에서 자체 유도 (제로 센티널 통과)
	if candles, err := s.Candles(ctx, ticker); err != nil {
		s.warnIndicator(ticker, "ichimoku", err)
	} else {
		result.Ichimoku = signals.Ichimoku(candles)
	}

	if rsiOK {
		if err := s.cache.Set(ctx, key, result, cache.TTLIndicators); err != nil {
			s.logger.WithError(err).Warn("Indicators cache write failed")
		}
	}
	return result, nil
}

func (s *Service) warnIndicator(ticker, field string, err error) {
	s.logger.WithFields(map[string]interface{}{
		"ticker": ticker,
		"field":  field,
		"error":  err.Error(),
	}).Warn("Indicator fetch failed")
}
