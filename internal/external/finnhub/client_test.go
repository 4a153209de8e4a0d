package finnhub

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/quantum-leap/backend/pkg/httputil"
	"github.com/wonny/quantum-leap/backend/pkg/logger"
)

func newTestClient(serverURL string) *Client {
	log := logger.Nop()
	return NewClient(httputil.New(log).DisableRetry(), log, serverURL, "test-key")
}

func TestQuote(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/quote", r.URL.Path)
		assert.Equal(t, "AISP", r.URL.Query().Get("symbol"))
		assert.Equal(t, "test-key", r.URL.Query().Get("token"))
		w.Write([]byte(`{"c":3.12,"d":0.08,"dp":2.63,"h":3.2,"l":3.01,"o":3.05,"pc":3.04}`))
	}))
	defer server.Close()

	quote, err := newTestClient(server.URL).Quote(context.Background(), "AISP")
	require.NoError(t, err)

	assert.Equal(t, 3.12, quote.Price)
	assert.Equal(t, 0.08, quote.Change)
	assert.Equal(t, 2.63, quote.ChangePercent)
	assert.Equal(t, 3.04, quote.PrevClose)
}

func TestQuote_EmptySymbol(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// 미지의 심볼은 전 필드 0으로 온다
		w.Write([]byte(`{"c":0,"d":0,"dp":0,"h":0,"l":0,"o":0,"pc":0}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Quote(context.Background(), "NOPE")
	assert.Error(t, err)
}

func TestCandles(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/stock/candle", r.URL.Path)
		assert.Equal(t, "D", r.URL.Query().Get("resolution"))
		w.Write([]byte(`{
			"s": "ok",
			"t": [1756166400, 1756252800],
			"o": [10.0, 10.5],
			"h": [10.8, 11.0],
			"l": [9.9, 10.3],
			"c": [10.5, 10.9],
			"v": [1000, 1200]
		}`))
	}))
	defer server.Close()

	to := time.Now()
	candles, err := newTestClient(server.URL).Candles(context.Background(), "POET", to.AddDate(0, 0, -30), to)
	require.NoError(t, err)
	require.Len(t, candles, 2)

	assert.Equal(t, "2025-08-26", candles[0].Date)
	assert.Equal(t, 10.5, candles[0].Close)
	assert.Equal(t, "2025-08-27", candles[1].Date)
	assert.Equal(t, int64(1200), candles[1].Volume)
	// ascending by date
	assert.Less(t, candles[0].Date, candles[1].Date)
}

func TestCandles_NoData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"s":"no_data"}`))
	}))
	defer server.Close()

	to := time.Now()
	_, err := newTestClient(server.URL).Candles(context.Background(), "POET", to.AddDate(0, 0, -30), to)
	assert.Error(t, err)
}

func TestCandles_MalformedColumns(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"s":"ok","t":[1,2],"o":[1.0],"h":[1.0,2.0],"l":[1.0,2.0],"c":[1.0,2.0],"v":[1,2]}`))
	}))
	defer server.Close()

	to := time.Now()
	_, err := newTestClient(server.URL).Candles(context.Background(), "POET", to.AddDate(0, 0, -30), to)
	assert.Error(t, err)
}

func TestCompanyNews(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/company-news", r.URL.Path)
		assert.NotEmpty(t, r.URL.Query().Get("from"))
		assert.NotEmpty(t, r.URL.Query().Get("to"))
		w.Write([]byte(`[
			{"id": 101, "headline": "FDA approval granted", "summary": "", "source": "Reuters", "url": "https://example.com/1", "datetime": 1756700000},
			{"id": 102, "headline": "Quarterly update", "summary": "", "source": "", "url": "https://example.com/2", "datetime": 1756600000},
			{"id": 103, "headline": "Old news", "summary": "", "source": "AP", "url": "https://example.com/3", "datetime": 1756500000}
		]`))
	}))
	defer server.Close()

	to := time.Now()
	articles, err := newTestClient(server.URL).CompanyNews(context.Background(), "BBAI", to.AddDate(0, 0, -7), to, 2)
	require.NoError(t, err)

	// capped to limit, provider order kept
	require.Len(t, articles, 2)
	assert.Equal(t, int64(101), articles[0].ID)
	assert.Equal(t, "FDA approval granted", articles[0].Headline)
	assert.Equal(t, int64(102), articles[1].ID)
}
