package alphavantage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/quantum-leap/backend/pkg/httputil"
	"github.com/wonny/quantum-leap/backend/pkg/logger"
)

func newTestClient(serverURL string) *Client {
	log := logger.Nop()
	return NewClient(httputil.New(log).DisableRetry(), log, serverURL, "test-key")
}

func TestRSI(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/query", r.URL.Path)
		assert.Equal(t, "RSI", r.URL.Query().Get("function"))
		assert.Equal(t, "14", r.URL.Query().Get("time_period"))
		w.Write([]byte(`{
			"Technical Analysis: RSI": {
				"2025-08-28": {"RSI": "38.5000"},
				"2025-08-29": {"RSI": "42.5000"}
			}
		}`))
	}))
	defer server.Close()

	rsi, err := newTestClient(server.URL).RSI(context.Background(), "AISP")
	require.NoError(t, err)

	// 최신 날짜 엔트리를 고른다
	assert.Equal(t, 42.5, rsi)
}

func TestRSI_RateLimitNote(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// 쿼터 초과도 HTTP 200으로 온다
		w.Write([]byte(`{"Note": "Thank you for using Alpha Vantage! Our standard API rate limit is 5 requests per minute."}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).RSI(context.Background(), "AISP")
	assert.ErrorIs(t, err, ErrRateLimited)
}

func TestRSI_RateLimitInformation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Information": "API key quota exhausted"}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).RSI(context.Background(), "AISP")
	assert.ErrorIs(t, err, ErrRateLimited)
}

func TestMACD(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "MACD", r.URL.Query().Get("function"))
		w.Write([]byte(`{
			"Technical Analysis: MACD": {
				"2025-08-29": {"MACD": "0.0820", "MACD_Signal": "0.0450", "MACD_Hist": "0.0370"}
			}
		}`))
	}))
	defer server.Close()

	macd, err := newTestClient(server.URL).MACD(context.Background(), "AISP")
	require.NoError(t, err)

	assert.Equal(t, 0.082, macd.MACD)
	assert.Equal(t, 0.045, macd.Signal)
	assert.Equal(t, 0.037, macd.Histogram)
}

func TestBollingerBands(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "BBANDS", r.URL.Query().Get("function"))
		assert.Equal(t, "20", r.URL.Query().Get("time_period"))
		w.Write([]byte(`{
			"Technical Analysis: BBANDS": {
				"2025-08-29": {"Real Upper Band": "3.4500", "Real Middle Band": "3.1000", "Real Lower Band": "2.7500"}
			}
		}`))
	}))
	defer server.Close()

	bb, err := newTestClient(server.URL).BollingerBands(context.Background(), "AISP")
	require.NoError(t, err)

	assert.Equal(t, 3.45, bb.Upper)
	assert.Equal(t, 3.10, bb.Middle)
	assert.Equal(t, 2.75, bb.Lower)
}

func TestSMA(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "SMA", r.URL.Query().Get("function"))
		assert.Equal(t, "200", r.URL.Query().Get("time_period"))
		w.Write([]byte(`{
			"Technical Analysis: SMA": {
				"2025-08-29": {"SMA": "2.8900"}
			}
		}`))
	}))
	defer server.Close()

	sma, err := newTestClient(server.URL).SMA(context.Background(), "AISP", 200)
	require.NoError(t, err)
	assert.Equal(t, 2.89, sma)
}

func TestDailyCandles(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "TIME_SERIES_DAILY", r.URL.Query().Get("function"))
		assert.Equal(t, "compact", r.URL.Query().Get("outputsize"))
		w.Write([]byte(`{
			"Time Series (Daily)": {
				"2025-08-27": {"1. open": "10.0", "2. high": "10.8", "3. low": "9.9", "4. close": "10.5", "5. volume": "1000"},
				"2025-08-29": {"1. open": "10.9", "2. high": "11.3", "3. low": "10.7", "4. close": "11.1", "5. volume": "1500"},
				"2025-08-28": {"1. open": "10.5", "2. high": "11.0", "3. low": "10.3", "4. close": "10.9", "5. volume": "1200"}
			}
		}`))
	}))
	defer server.Close()

	candles, err := newTestClient(server.URL).DailyCandles(context.Background(), "POET", 2)
	require.NoError(t, err)

	// 최근 limit개만, 날짜 오름차순
	require.Len(t, candles, 2)
	assert.Equal(t, "2025-08-28", candles[0].Date)
	assert.Equal(t, "2025-08-29", candles[1].Date)
	assert.Equal(t, 11.1, candles[1].Close)
	assert.Equal(t, int64(1500), candles[1].Volume)
}

func TestDailyCandles_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Note": "rate limit"}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).DailyCandles(context.Background(), "POET", 30)
	assert.ErrorIs(t, err, ErrRateLimited)
}
