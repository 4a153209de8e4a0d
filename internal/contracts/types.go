package contracts

import "strings"

// 워치리스트 모니터링 도메인 타입 정의
// ⭐ SSOT: 시장 데이터/신호 타입은 이 패키지에서만 정의

// NormalizeTicker uppercases a ticker symbol on entry
func NormalizeTicker(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}

// Quote is a point-in-time price snapshot, replaced wholesale on each
// fetch — never merged field by field.
type Quote struct {
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"`
	High          float64 `json:"high"`
	Low           float64 `json:"low"`
	Open          float64 `json:"open"`
	PrevClose     float64 `json:"prevClose"`
}

// Candle is one daily OHLCV bar. A candle series is ordered ascending
// by date and immutable once produced for a fetch cycle.
type Candle struct {
	Date   string  `json:"time"` // YYYY-MM-DD
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

// MACDData holds the MACD line, signal line, and their difference
type MACDData struct {
	MACD      float64 `json:"macd"`
	Signal    float64 `json:"signal"`
	Histogram float64 `json:"histogram"`
}

// BollingerBands is the price envelope (이동평균 ± 변동성 배수)
type BollingerBands struct {
	Upper  float64 `json:"upper"`
	Middle float64 `json:"middle"`
	Lower  float64 `json:"lower"`
}

// IchimokuData holds the cloud components derived from rolling
// high/low midpoints (9/26/52 windows)
type IchimokuData struct {
	Tenkan  float64 `json:"tenkan"`  // 전환선 (9)
	Kijun   float64 `json:"kijun"`   // 기준선 (26)
	SenkouA float64 `json:"senkouA"` // 선행스팬 A
	SenkouB float64 `json:"senkouB"` // 선행스팬 B
}

// IsZero reports the "insufficient data" sentinel — callers must treat
// an all-zero Ichimoku as unavailable, not as a flat market.
func (i IchimokuData) IsZero() bool {
	return i.Tenkan == 0 && i.Kijun == 0 && i.SenkouA == 0 && i.SenkouB == 0
}

// SMAData holds simple moving averages over fixed windows
type SMAData struct {
	SMA20  float64 `json:"sma20"`
	SMA50  float64 `json:"sma50"`
	SMA200 float64 `json:"sma200"`
}

// Indicators is the composite indicator value object. All five
// sub-fields must be present for the object to be cacheable.
type Indicators struct {
	RSI            float64        `json:"rsi"`
	MACD           MACDData       `json:"macd"`
	BollingerBands BollingerBands `json:"bollingerBands"`
	Ichimoku       IchimokuData   `json:"ichimoku"`
	SMA            SMAData        `json:"sma"`
}

// SignalDirection is one indicator's directional call
type SignalDirection string

const (
	SignalBuy     SignalDirection = "BUY"
	SignalSell    SignalDirection = "SELL"
	SignalNeutral SignalDirection = "NEUTRAL"
)

// OverallSignal is the composite classification
type OverallSignal string

const (
	OverallBuy   OverallSignal = "BUY"
	OverallSell  OverallSignal = "SELL"
	OverallWatch OverallSignal = "WATCH"
)

// IndicatorSignal is the atomic classification unit. Weights across the
// five evaluators always sum to exactly 100.
type IndicatorSignal struct {
	Name   string          `json:"name"`
	Weight int             `json:"weight"`
	Signal SignalDirection `json:"signal"`
	Reason string          `json:"reason"`
}

// CompositeSignal is the weighted aggregation of the five indicator
// signals. Derived, never persisted; recomputed on every change.
// Indicators keeps the fixed order RSI, MACD, Bollinger, Ichimoku, SMA.
type CompositeSignal struct {
	Overall    OverallSignal     `json:"overall"`
	BuyScore   int               `json:"buyScore"`
	SellScore  int               `json:"sellScore"`
	Indicators []IndicatorSignal `json:"indicators"`
}

// Sentiment is the keyword-derived polarity of a news item
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// NewsArticle is a raw provider news item, before classification
type NewsArticle struct {
	ID       int64  `json:"id"`
	Headline string `json:"headline"`
	Summary  string `json:"summary"`
	Source   string `json:"source"`
	URL      string `json:"url"`
	Datetime int64  `json:"datetime"` // unix seconds
}

// NewsItem is a classified news article, immutable once classified
type NewsItem struct {
	ID              int64     `json:"id"`
	Ticker          string    `json:"ticker"`
	Headline        string    `json:"headline"`
	Summary         string    `json:"summary"`
	Source          string    `json:"source"`
	URL             string    `json:"url"`
	Datetime        int64     `json:"datetime"` // unix seconds
	Sentiment       Sentiment `json:"sentiment"`
	SentimentScore  int       `json:"sentimentScore"` // 0-100
	IsUrgent        bool      `json:"isUrgent"`
	MatchedKeywords []string  `json:"matchedKeywords"`
}
