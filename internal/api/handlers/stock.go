package handlers

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/wonny/quantum-leap/backend/internal/contracts"
	"github.com/wonny/quantum-leap/backend/internal/market"
	"github.com/wonny/quantum-leap/backend/pkg/cache"
	"github.com/wonny/quantum-leap/backend/pkg/logger"
)

// MarketService is the composite-fetch slice the stock handler uses
type MarketService interface {
	Quote(ctx context.Context, ticker string) (*contracts.Quote, error)
	Candles(ctx context.Context, ticker string) ([]contracts.Candle, error)
	News(ctx context.Context, ticker string) ([]contracts.NewsItem, error)
	Indicators(ctx context.Context, ticker string) (*contracts.Indicators, error)
}

// StockHandler serves per-ticker market data
// ⭐ SSOT: 종목 데이터 API 핸들러는 이 구조체에서만
//
// 개별 지표 타입(rsi/macd/bbands/sma)은 프로바이더를 직접 태우고
// 필드별 키로 캐시한다 — 복합 조회의 "RSI 있어야 캐시" 규칙과 달리
// 타입별 요청은 서로 독립이다.
type StockHandler struct {
	market     MarketService
	indicators market.IndicatorProvider
	cache      cache.Store
	logger     *logger.Logger
}

// NewStockHandler creates a new stock handler
func NewStockHandler(m MarketService, ind market.IndicatorProvider, store cache.Store, log *logger.Logger) *StockHandler {
	return &StockHandler{
		market:     m,
		indicators: ind,
		cache:      store,
		logger:     log,
	}
}

type quoteResponse struct {
	contracts.Quote
	Volume int64 `json:"volume"` // quote 응답에 거래량 없음 — 항상 0
}

// Get dispatches on the type query parameter
// GET /api/stock/{ticker}?type=quote|candles|news|rsi|macd|bbands|sma|indicators
func (h *StockHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ticker := contracts.NormalizeTicker(mux.Vars(r)["ticker"])
	if ticker == "" {
		respondError(w, http.StatusBadRequest, "ticker is required")
		return
	}

	reqType := r.URL.Query().Get("type")
	if reqType == "" {
		reqType = "quote"
	}

	switch reqType {
	case "quote":
		quote, err := h.market.Quote(ctx, ticker)
		if err != nil {
			h.logger.WithError(err).WithField("ticker", ticker).Warn("Quote fetch failed")
			respondError(w, http.StatusBadGateway, "quote failed")
			return
		}
		respondJSON(w, http.StatusOK, quoteResponse{Quote: *quote})

	case "candles":
		candles, err := h.market.Candles(ctx, ticker)
		if err != nil {
			h.logger.WithError(err).WithField("ticker", ticker).Warn("Candle fetch failed")
			respondError(w, http.StatusNotFound, "no candle data")
			return
		}
		respondJSON(w, http.StatusOK, candles)

	case "news":
		items, err := h.market.News(ctx, ticker)
		if err != nil {
			// 뉴스 실패는 빈 목록으로 — 대시보드가 죽을 일은 아니다
			h.logger.WithError(err).WithField("ticker", ticker).Warn("News fetch failed")
			respondJSON(w, http.StatusOK, []contracts.NewsItem{})
			return
		}
		respondJSON(w, http.StatusOK, items)

	case "rsi":
		h.serveRSI(ctx, w, ticker)

	case "macd":
		h.serveMACD(ctx, w, ticker)

	case "bbands":
		h.serveBBands(ctx, w, ticker)

	case "sma":
		h.serveSMA(ctx, w, ticker)

	case "indicators":
		indicators, err := h.market.Indicators(ctx, ticker)
		if err != nil {
			respondError(w, http.StatusBadGateway, "indicators failed")
			return
		}
		respondJSON(w, http.StatusOK, indicators)

	default:
		respondError(w, http.StatusBadRequest, "unknown type: "+reqType)
	}
}

func (h *StockHandler) serveRSI(ctx context.Context, w http.ResponseWriter, ticker string) {
	key := cache.RSIKey(ticker)

	var cached map[string]float64
	if hit, err := h.cache.Get(ctx, key, &cached); err == nil && hit {
		respondJSON(w, http.StatusOK, cached)
		return
	}

	rsi, err := h.indicators.RSI(ctx, ticker)
	if err != nil {
		respondError(w, http.StatusBadGateway, "rsi failed")
		return
	}

	result := map[string]float64{"rsi": rsi}
	h.cacheSet(ctx, key, result)
	respondJSON(w, http.StatusOK, result)
}

func (h *StockHandler) serveMACD(ctx context.Context, w http.ResponseWriter, ticker string) {
	key := cache.MACDKey(ticker)

	var cached contracts.MACDData
	if hit, err := h.cache.Get(ctx, key, &cached); err == nil && hit {
		respondJSON(w, http.StatusOK, cached)
		return
	}

	macd, err := h.indicators.MACD(ctx, ticker)
	if err != nil {
		respondError(w, http.StatusBadGateway, "macd failed")
		return
	}

	h.cacheSet(ctx, key, macd)
	respondJSON(w, http.StatusOK, macd)
}

func (h *StockHandler) serveBBands(ctx context.Context, w http.ResponseWriter, ticker string) {
	key := cache.BBandsKey(ticker)

	var cached contracts.BollingerBands
	if hit, err := h.cache.Get(ctx, key, &cached); err == nil && hit {
		respondJSON(w, http.StatusOK, cached)
		return
	}

	bb, err := h.indicators.BollingerBands(ctx, ticker)
	if err != nil {
		respondError(w, http.StatusBadGateway, "bbands failed")
		return
	}

	h.cacheSet(ctx, key, bb)
	respondJSON(w, http.StatusOK, bb)
}

// serveSMA fetches the three averages sequentially; fetched periods are
// returned even when some fail, mirroring the partial-map behavior of
// the per-period sub-fetches.
func (h *StockHandler) serveSMA(ctx context.Context, w http.ResponseWriter, ticker string) {
	key := cache.SMAKey(ticker)

	var cached map[string]float64
	if hit, err := h.cache.Get(ctx, key, &cached); err == nil && hit {
		respondJSON(w, http.StatusOK, cached)
		return
	}

	result := map[string]float64{}
	for _, period := range []int{20, 50, 200} {
		value, err := h.indicators.SMA(ctx, ticker, period)
		if err != nil {
			h.logger.WithError(err).WithFields(map[string]interface{}{
				"ticker": ticker,
				"period": period,
			}).Warn("SMA fetch failed")
			continue
		}
		switch period {
		case 20:
			result["sma20"] = value
		case 50:
			result["sma50"] = value
		case 200:
			result["sma200"] = value
		}
	}

	h.cacheSet(ctx, key, result)
	respondJSON(w, http.StatusOK, result)
}

func (h *StockHandler) cacheSet(ctx context.Context, key string, value interface{}) {
	if err := h.cache.Set(ctx, key, value, cache.TTLIndicators); err != nil {
		h.logger.WithError(err).Warn("Indicator cache write failed")
	}
}
