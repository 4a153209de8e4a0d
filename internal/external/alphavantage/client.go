package alphavantage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"

	"github.com/wonny/quantum-leap/backend/internal/contracts"
	"github.com/wonny/quantum-leap/backend/pkg/httputil"
	"github.com/wonny/quantum-leap/backend/pkg/logger"
)

// Client handles communication with the Alpha Vantage API
// (기술 지표 + 일봉 폴백 — 프로바이더 B)
// ⭐ SSOT: Alpha Vantage API 호출은 이 클라이언트에서만
//
// 무료 플랜은 분당 5회 제한 — 쿼터 초과 시 HTTP 200에 "Note" 또는
// "Information" 키만 담긴 본문이 온다. 이를 ErrRateLimited 소프트
// 실패로 변환해서 호출자가 부분 결과로 진행할 수 있게 한다.
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
	apiKey     string
}

// ErrRateLimited marks the provider's free-tier quota response
var ErrRateLimited = errors.New("alphavantage: rate limited")

// NewClient creates a new Alpha Vantage client
func NewClient(httpClient *httputil.Client, log *logger.Logger, baseURL, apiKey string) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log,
		baseURL:    baseURL,
		apiKey:     apiKey,
	}
}

// get fetches the function endpoint and decodes the raw body, first
// checking for the rate-limit marker keys.
func (c *Client) get(ctx context.Context, params url.Values) (map[string]json.RawMessage, error) {
	params.Set("apikey", c.apiKey)
	reqURL := fmt.Sprintf("%s/query?%s", c.baseURL, params.Encode())

	var body map[string]json.RawMessage
	if err := c.httpClient.GetJSON(ctx, reqURL, &body); err != nil {
		return nil, fmt.Errorf("alphavantage request failed: %w", err)
	}

	if _, ok := body["Note"]; ok {
		c.logger.WithField("function", params.Get("function")).Warn("Alpha Vantage rate limit hit")
		return nil, ErrRateLimited
	}
	if _, ok := body["Information"]; ok {
		c.logger.WithField("function", params.Get("function")).Warn("Alpha Vantage rate limit hit")
		return nil, ErrRateLimited
	}
	if msg, ok := body["Error Message"]; ok {
		return nil, fmt.Errorf("alphavantage error: %s", string(msg))
	}

	return body, nil
}

// latestEntry returns the values map of the most recent date key in a
// "Technical Analysis: X" block (dates sort lexicographically).
func latestEntry(raw json.RawMessage) (map[string]string, error) {
	var series map[string]map[string]string
	if err := json.Unmarshal(raw, &series); err != nil {
		return nil, fmt.Errorf("alphavantage: malformed series: %w", err)
	}
	if len(series) == 0 {
		return nil, errors.New("alphavantage: empty series")
	}

	latest := ""
	for date := range series {
		if date > latest {
			latest = date
		}
	}
	return series[latest], nil
}

func parseField(entry map[string]string, key string) (float64, error) {
	raw, ok := entry[key]
	if !ok {
		return 0, fmt.Errorf("alphavantage: missing field %q", key)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("alphavantage: bad value for %q: %w", key, err)
	}
	return v, nil
}

// RSI fetches the latest daily RSI(14) close value
func (c *Client) RSI(ctx context.Context, symbol string) (float64, error) {
	params := url.Values{}
	params.Set("function", "RSI")
	params.Set("symbol", symbol)
	params.Set("interval", "daily")
	params.Set("time_period", "14")
	params.Set("series_type", "close")

	body, err := c.get(ctx, params)
	if err != nil {
		return 0, err
	}

	raw, ok := body["Technical Analysis: RSI"]
	if !ok {
		return 0, errors.New("alphavantage: RSI block missing")
	}
	entry, err := latestEntry(raw)
	if err != nil {
		return 0, err
	}
	return parseField(entry, "RSI")
}

// MACD fetches the latest daily MACD(12,26,9) triple
func (c *Client) MACD(ctx context.Context, symbol string) (*contracts.MACDData, error) {
	params := url.Values{}
	params.Set("function", "MACD")
	params.Set("symbol", symbol)
	params.Set("interval", "daily")
	params.Set("series_type", "close")

	body, err := c.get(ctx, params)
	if err != nil {
		return nil, err
	}

	raw, ok := body["Technical Analysis: MACD"]
	if !ok {
		return nil, errors.New("alphavantage: MACD block missing")
	}
	entry, err := latestEntry(raw)
	if err != nil {
		return nil, err
	}

	macd, err := parseField(entry, "MACD")
	if err != nil {
		return nil, err
	}
	signal, err := parseField(entry, "MACD_Signal")
	if err != nil {
		return nil, err
	}
	hist, err := parseField(entry, "MACD_Hist")
	if err != nil {
		return nil, err
	}
	return &contracts.MACDData{MACD: macd, Signal: signal, Histogram: hist}, nil
}

// BollingerBands fetches the latest daily BBANDS(20, 2σ) envelope
func (c *Client) BollingerBands(ctx context.Context, symbol string) (*contracts.BollingerBands, error) {
	params := url.Values{}
	params.Set("function", "BBANDS")
	params.Set("symbol", symbol)
	params.Set("interval", "daily")
	params.Set("time_period", "20")
	params.Set("series_type", "close")

	body, err := c.get(ctx, params)
	if err != nil {
		return nil, err
	}

	raw, ok := body["Technical Analysis: BBANDS"]
	if !ok {
		return nil, errors.New("alphavantage: BBANDS block missing")
	}
	entry, err := latestEntry(raw)
	if err != nil {
		return nil, err
	}

	upper, err := parseField(entry, "Real Upper Band")
	if err != nil {
		return nil, err
	}
	middle, err := parseField(entry, "Real Middle Band")
	if err != nil {
		return nil, err
	}
	lower, err := parseField(entry, "Real Lower Band")
	if err != nil {
		return nil, err
	}
	return &contracts.BollingerBands{Upper: upper, Middle: middle, Lower: lower}, nil
}

// SMA fetches the latest daily simple moving average for the period
func (c *Client) SMA(ctx context.Context, symbol string, period int) (float64, error) {
	params := url.Values{}
	params.Set("function", "SMA")
	params.Set("symbol", symbol)
	params.Set("interval", "daily")
	params.Set("time_period", strconv.Itoa(period))
	params.Set("series_type", "close")

	body, err := c.get(ctx, params)
	if err != nil {
		return 0, err
	}

	raw, ok := body["Technical Analysis: SMA"]
	if !ok {
		return 0, errors.New("alphavantage: SMA block missing")
	}
	entry, err := latestEntry(raw)
	if err != nil {
		return 0, err
	}
	return parseField(entry, "SMA")
}

// dailyBar is one TIME_SERIES_DAILY entry
type dailyBar struct {
	Open   string `json:"1. open"`
	High   string `json:"2. high"`
	Low    string `json:"3. low"`
	Close  string `json:"4. close"`
	Volume string `json:"5. volume"`
}

// DailyCandles fetches the compact daily series (candle fallback path)
// and returns the most recent `limit` bars, ascending by date.
func (c *Client) DailyCandles(ctx context.Context, symbol string, limit int) ([]contracts.Candle, error) {
	params := url.Values{}
	params.Set("function", "TIME_SERIES_DAILY")
	params.Set("symbol", symbol)
	params.Set("outputsize", "compact")

	body, err := c.get(ctx, params)
	if err != nil {
		return nil, err
	}

	raw, ok := body["Time Series (Daily)"]
	if !ok {
		return nil, errors.New("alphavantage: daily series missing")
	}

	var series map[string]dailyBar
	if err := json.Unmarshal(raw, &series); err != nil {
		return nil, fmt.Errorf("alphavantage: malformed daily series: %w", err)
	}
	if len(series) == 0 {
		return nil, errors.New("alphavantage: empty daily series")
	}

	dates := make([]string, 0, len(series))
	for date := range series {
		dates = append(dates, date)
	}
	sort.Strings(dates)
	if limit > 0 && len(dates) > limit {
		dates = dates[len(dates)-limit:]
	}

	candles := make([]contracts.Candle, 0, len(dates))
	for _, date := range dates {
		bar := series[date]
		open, err := strconv.ParseFloat(bar.Open, 64)
		if err != nil {
			return nil, fmt.Errorf("alphavantage: bad open on %s: %w", date, err)
		}
		high, err := strconv.ParseFloat(bar.High, 64)
		if err != nil {
			return nil, fmt.Errorf("alphavantage: bad high on %s: %w", date, err)
		}
		low, err := strconv.ParseFloat(bar.Low, 64)
		if err != nil {
			return nil, fmt.Errorf("alphavantage: bad low on %s: %w", date, err)
		}
		closing, err := strconv.ParseFloat(bar.Close, 64)
		if err != nil {
			return nil, fmt.Errorf("alphavantage: bad close on %s: %w", date, err)
		}
		volume, err := strconv.ParseInt(bar.Volume, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("alphavantage: bad volume on %s: %w", date, err)
		}
		candles = append(candles, contracts.Candle{
			Date:   date,
			Open:   open,
			High:   high,
			Low:    low,
			Close:  closing,
			Volume: volume,
		})
	}

	c.logger.WithFields(map[string]interface{}{
		"symbol": symbol,
		"count":  len(candles),
	}).Debug("Fetched daily candles (fallback)")
	return candles, nil
}
