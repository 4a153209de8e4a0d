package market

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/wonny/quantum-leap/backend/internal/contracts"
)

// 합성 데이터 프로바이더 — API 키 없는 데모 모드와 쿼터 보존용.
// 시드 기반 의사난수라 같은 티커는 항상 같은 시계열을 받는다.

// mulberry32 is a 32-bit seeded PRNG producing floats in [0, 1)
type mulberry32 struct {
	state uint32
}

func (m *mulberry32) next() float64 {
	m.state += 0x6d2b79f5
	t := (m.state ^ (m.state >> 15)) * (m.state | 1)
	t = (t + (t^(t>>7))*(t|61)) ^ t
	return float64(t^(t>>14)) / 4294967296.0
}

// tickerToSeed hashes a ticker to the generator seed (31x polynomial)
func tickerToSeed(ticker string) uint32 {
	var h uint32
	for _, c := range ticker {
		h = 31*h + uint32(c)
	}
	return h
}

type seedConfig struct {
	basePrice  float64
	volatility float64
	trend      float64
	indicators contracts.Indicators
}

// 7개 시드 종목 — 지표 값은 고정 (BUY/SELL/WATCH 시나리오별 배치)
var seedConfigs = map[string]seedConfig{
	"AISP": {
		basePrice: 3.12, volatility: 0.045, trend: 0.3,
		indicators: contracts.Indicators{
			RSI:            28.5,
			MACD:           contracts.MACDData{MACD: 0.08, Signal: 0.02, Histogram: 0.06},
			BollingerBands: contracts.BollingerBands{Upper: 3.60, Middle: 3.20, Lower: 2.80},
			Ichimoku:       contracts.IchimokuData{Tenkan: 3.15, Kijun: 3.05, SenkouA: 2.95, SenkouB: 2.90},
			SMA:            contracts.SMAData{SMA20: 3.05, SMA50: 3.10, SMA200: 2.85},
		},
	},
	"AXTI": {
		basePrice: 8.25, volatility: 0.030, trend: 0.1,
		indicators: contracts.Indicators{
			RSI:            52.3,
			MACD:           contracts.MACDData{MACD: 0.12, Signal: 0.10, Histogram: 0.02},
			BollingerBands: contracts.BollingerBands{Upper: 9.10, Middle: 8.30, Lower: 7.50},
			Ichimoku:       contracts.IchimokuData{Tenkan: 8.30, Kijun: 8.20, SenkouA: 8.00, SenkouB: 8.15},
			SMA:            contracts.SMAData{SMA20: 8.15, SMA50: 8.05, SMA200: 7.80},
		},
	},
	"BBAI": {
		basePrice: 4.15, volatility: 0.055, trend: -0.4,
		indicators: contracts.Indicators{
			RSI:            74.2,
			MACD:           contracts.MACDData{MACD: -0.15, Signal: -0.05, Histogram: -0.10},
			BollingerBands: contracts.BollingerBands{Upper: 4.50, Middle: 4.10, Lower: 3.70},
			Ichimoku:       contracts.IchimokuData{Tenkan: 3.95, Kijun: 4.10, SenkouA: 4.30, SenkouB: 4.25},
			SMA:            contracts.SMAData{SMA20: 4.20, SMA50: 4.00, SMA200: 4.35},
		},
	},
	"GRRR": {
		basePrice: 12.40, volatility: 0.035, trend: 0.5,
		indicators: contracts.Indicators{
			RSI:            58.7,
			MACD:           contracts.MACDData{MACD: 0.35, Signal: 0.15, Histogram: 0.20},
			BollingerBands: contracts.BollingerBands{Upper: 13.50, Middle: 12.30, Lower: 11.10},
			Ichimoku:       contracts.IchimokuData{Tenkan: 12.50, Kijun: 12.20, SenkouA: 11.80, SenkouB: 11.60},
			SMA:            contracts.SMAData{SMA20: 12.35, SMA50: 12.00, SMA200: 10.50},
		},
	},
	"POET": {
		basePrice: 7.10, volatility: 0.040, trend: -0.1,
		indicators: contracts.Indicators{
			RSI:            45.8,
			MACD:           contracts.MACDData{MACD: -0.05, Signal: -0.08, Histogram: 0.03},
			BollingerBands: contracts.BollingerBands{Upper: 7.90, Middle: 7.15, Lower: 6.40},
			Ichimoku:       contracts.IchimokuData{Tenkan: 7.00, Kijun: 7.10, SenkouA: 7.25, SenkouB: 7.05},
			SMA:            contracts.SMAData{SMA20: 7.05, SMA50: 7.20, SMA200: 6.80},
		},
	},
	"VECO": {
		basePrice: 30.50, volatility: 0.025, trend: 0.2,
		indicators: contracts.Indicators{
			RSI:            61.4,
			MACD:           contracts.MACDData{MACD: 0.45, Signal: 0.40, Histogram: 0.05},
			BollingerBands: contracts.BollingerBands{Upper: 32.80, Middle: 30.20, Lower: 27.60},
			Ichimoku:       contracts.IchimokuData{Tenkan: 30.60, Kijun: 30.00, SenkouA: 29.50, SenkouB: 29.80},
			SMA:            contracts.SMAData{SMA20: 30.40, SMA50: 29.80, SMA200: 28.50},
		},
	},
	"ATOM": {
		basePrice: 10.20, volatility: 0.042, trend: -0.3,
		indicators: contracts.Indicators{
			RSI:            38.1,
			MACD:           contracts.MACDData{MACD: -0.22, Signal: -0.10, Histogram: -0.12},
			BollingerBands: contracts.BollingerBands{Upper: 11.50, Middle: 10.40, Lower: 9.30},
			Ichimoku:       contracts.IchimokuData{Tenkan: 10.00, Kijun: 10.30, SenkouA: 10.60, SenkouB: 10.50},
			SMA:            contracts.SMAData{SMA20: 10.15, SMA50: 10.00, SMA200: 10.80},
		},
	},
}

// Synthetic serves deterministic generated market data for the seed
// tickers. Implements both PriceProvider and IndicatorProvider.
type Synthetic struct {
	now func() time.Time
}

// SyntheticOption configures the provider
type SyntheticOption func(*Synthetic)

// WithSyntheticClock injects the time source (tests)
func WithSyntheticClock(now func() time.Time) SyntheticOption {
	return func(s *Synthetic) { s.now = now }
}

// NewSynthetic creates the synthetic provider
func NewSynthetic(opts ...SyntheticOption) *Synthetic {
	s := &Synthetic{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SeedTickers returns the tickers the provider has data for
func SeedTickers() []string {
	return []string{"AISP", "AXTI", "BBAI", "GRRR", "POET", "VECO", "ATOM"}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// generateCandles builds a 30-day random-walk series: daily trend
// component, seeded noise, and a mean-reversion pull toward basePrice.
func (s *Synthetic) generateCandles(ticker string, cfg seedConfig) []contracts.Candle {
	rand := &mulberry32{state: tickerToSeed(ticker)}
	candles := make([]contracts.Candle, 0, candleWindowDays)

	// 마지막 캔들이 어제 날짜가 되도록 역산
	start := s.now().AddDate(0, 0, -candleWindowDays)

	price := cfg.basePrice * (0.95 + rand.next()*0.1)

	for i := 0; i < candleWindowDays; i++ {
		dailyTrend := cfg.trend * 0.003
		noise := (rand.next() - 0.5) * cfg.volatility * 2
		meanRevert := (cfg.basePrice - price) * 0.02
		change := dailyTrend*price + noise*price + meanRevert

		open := price
		closing := math.Max(0.01, price+change)

		intraHigh := math.Max(open, closing) * (1 + rand.next()*cfg.volatility*0.5)
		intraLow := math.Min(open, closing) * (1 - rand.next()*cfg.volatility*0.5)

		baseVol := 400_000.0
		if cfg.basePrice < 5 {
			baseVol = 2_000_000
		} else if cfg.basePrice < 15 {
			baseVol = 800_000
		}
		volMultiplier := 1 + math.Abs(change/price)*20 + rand.next()*0.6

		candles = append(candles, contracts.Candle{
			Date:   start.AddDate(0, 0, i).Format("2006-01-02"),
			Open:   round2(open),
			High:   round2(intraHigh),
			Low:    round2(intraLow),
			Close:  round2(closing),
			Volume: int64(math.Round(baseVol * volMultiplier)),
		})

		price = closing
	}

	return candles
}

func (s *Synthetic) config(ticker string) (seedConfig, error) {
	cfg, ok := seedConfigs[contracts.NormalizeTicker(ticker)]
	if !ok {
		return seedConfig{}, fmt.Errorf("synthetic: no seed data for %s", ticker)
	}
	return cfg, nil
}

// Quote derives the snapshot from the last two generated candles
func (s *Synthetic) Quote(_ context.Context, ticker string) (*contracts.Quote, error) {
	cfg, err := s.config(ticker)
	if err != nil {
		return nil, err
	}

	candles := s.generateCandles(contracts.NormalizeTicker(ticker), cfg)
	last := candles[len(candles)-1]
	prev := candles[len(candles)-2]

	change := round2(last.Close - prev.Close)
	return &contracts.Quote{
		Price:         last.Close,
		Change:        change,
		ChangePercent: round2(change / prev.Close * 100),
		High:          last.High,
		Low:           last.Low,
		Open:          last.Open,
		PrevClose:     prev.Close,
	}, nil
}

// Candles returns the generated 30-day series (window arguments are
// ignored — the series always covers the trailing month)
func (s *Synthetic) Candles(_ context.Context, ticker string, _, _ time.Time) ([]contracts.Candle, error) {
	cfg, err := s.config(ticker)
	if err != nil {
		return nil, err
	}
	return s.generateCandles(contracts.NormalizeTicker(ticker), cfg), nil
}

// CompanyNews returns an empty feed — the generator has no headlines
func (s *Synthetic) CompanyNews(_ context.Context, ticker string, _, _ time.Time, _ int) ([]contracts.NewsArticle, error) {
	if _, err := s.config(ticker); err != nil {
		return nil, err
	}
	return []contracts.NewsArticle{}, nil
}

// RSI returns the fixed seed value
func (s *Synthetic) RSI(_ context.Context, ticker string) (float64, error) {
	cfg, err := s.config(ticker)
	if err != nil {
		return 0, err
	}
	return cfg.indicators.RSI, nil
}

// MACD returns the fixed seed triple
func (s *Synthetic) MACD(_ context.Context, ticker string) (*contracts.MACDData, error) {
	cfg, err := s.config(ticker)
	if err != nil {
		return nil, err
	}
	macd := cfg.indicators.MACD
	return &macd, nil
}

// BollingerBands returns the fixed seed envelope
func (s *Synthetic) BollingerBands(_ context.Context, ticker string) (*contracts.BollingerBands, error) {
	cfg, err := s.config(ticker)
	if err != nil {
		return nil, err
	}
	bb := cfg.indicators.BollingerBands
	return &bb, nil
}

// SMA returns the fixed seed average for the period
func (s *Synthetic) SMA(_ context.Context, ticker string, period int) (float64, error) {
	cfg, err := s.config(ticker)
	if err != nil {
		return 0, err
	}
	switch period {
	case 20:
		return cfg.indicators.SMA.SMA20, nil
	case 50:
		return cfg.indicators.SMA.SMA50, nil
	case 200:
		return cfg.indicators.SMA.SMA200, nil
	default:
		return 0, fmt.Errorf("synthetic: unsupported SMA period %d", period)
	}
}

// DailyCandles returns the trailing limit candles of the generated series
func (s *Synthetic) DailyCandles(ctx context.Context, ticker string, limit int) ([]contracts.Candle, error) {
	candles, err := s.Candles(ctx, ticker, time.Time{}, time.Time{})
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(candles) > limit {
		candles = candles[len(candles)-limit:]
	}
	return candles, nil
}

// Indicators returns the full fixed seed indicator object for a ticker.
// The scanner uses this directly in quota-preserving mode.
func (s *Synthetic) Indicators(_ context.Context, ticker string) (*contracts.Indicators, error) {
	cfg, err := s.config(ticker)
	if err != nil {
		return nil, err
	}
	indicators := cfg.indicators
	return &indicators, nil
}
