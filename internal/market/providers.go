package market

import (
	"context"
	"time"

	"github.com/wonny/quantum-leap/backend/internal/contracts"
)

// 프로바이더 추상화 — 실거래 API와 합성 데이터 소스가 같은 계약을 따른다

// PriceProvider serves quotes, daily candles, and company news
// (Finnhub or the synthetic generator)
type PriceProvider interface {
	Quote(ctx context.Context, ticker string) (*contracts.Quote, error)
	Candles(ctx context.Context, ticker string, from, to time.Time) ([]contracts.Candle, error)
	CompanyNews(ctx context.Context, ticker string, from, to time.Time, limit int) ([]contracts.NewsArticle, error)
}

// IndicatorProvider serves technical indicators and the daily-series
// candle fallback (Alpha Vantage or the synthetic generator)
type IndicatorProvider interface {
	RSI(ctx context.Context, ticker string) (float64, error)
	MACD(ctx context.Context, ticker string) (*contracts.MACDData, error)
	BollingerBands(ctx context.Context, ticker string) (*contracts.BollingerBands, error)
	SMA(ctx context.Context, ticker string, period int) (float64, error)
	DailyCandles(ctx context.Context, ticker string, limit int) ([]contracts.Candle, error)
}
