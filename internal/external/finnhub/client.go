package finnhub

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/wonny/quantum-leap/backend/internal/contracts"
	"github.com/wonny/quantum-leap/backend/pkg/httputil"
	"github.com/wonny/quantum-leap/backend/pkg/logger"
)

// Client handles communication with the Finnhub API
// (가격/캔들/뉴스 — 프로바이더 A)
// ⭐ SSOT: Finnhub API 호출은 이 클라이언트에서만
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
	apiKey     string
}

// NewClient creates a new Finnhub client
func NewClient(httpClient *httputil.Client, log *logger.Logger, baseURL, apiKey string) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log,
		baseURL:    baseURL,
		apiKey:     apiKey,
	}
}

// quoteResponse is Finnhub's /quote schema
type quoteResponse struct {
	Current       float64 `json:"c"`
	Change        float64 `json:"d"`
	ChangePercent float64 `json:"dp"`
	High          float64 `json:"h"`
	Low           float64 `json:"l"`
	Open          float64 `json:"o"`
	PrevClose     float64 `json:"pc"`
}

// Quote fetches the current price snapshot for a symbol
func (c *Client) Quote(ctx context.Context, symbol string) (*contracts.Quote, error) {
	params := url.Values{}
	params.Set("symbol", symbol)

	var resp quoteResponse
	if err := c.httpClient.GetJSON(ctx, c.endpoint("/quote", params), &resp); err != nil {
		return nil, fmt.Errorf("finnhub quote failed: %w", err)
	}

	// Finnhub returns zeros for unknown symbols — no price means no quote
	if resp.Current == 0 {
		return nil, fmt.Errorf("finnhub quote empty for %s", symbol)
	}

	return &contracts.Quote{
		Price:         resp.Current,
		Change:        resp.Change,
		ChangePercent: resp.ChangePercent,
		High:          resp.High,
		Low:           resp.Low,
		Open:          resp.Open,
		PrevClose:     resp.PrevClose,
	}, nil
}

// candleResponse is Finnhub's column-oriented /stock/candle schema
type candleResponse struct {
	Status     string    `json:"s"` // "ok" | "no_data"
	Timestamps []int64   `json:"t"`
	Opens      []float64 `json:"o"`
	Highs      []float64 `json:"h"`
	Lows       []float64 `json:"l"`
	Closes     []float64 `json:"c"`
	Volumes    []int64   `json:"v"`
	Error      string    `json:"error"`
}

// Candles fetches daily candles for the window [from, to], ascending by
// date. A "no_data" status or an embedded error field is a failure —
// the caller falls back to the secondary provider.
func (c *Client) Candles(ctx context.Context, symbol string, from, to time.Time) ([]contracts.Candle, error) {
	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("resolution", "D")
	params.Set("from", fmt.Sprintf("%d", from.Unix()))
	params.Set("to", fmt.Sprintf("%d", to.Unix()))

	var resp candleResponse
	if err := c.httpClient.GetJSON(ctx, c.endpoint("/stock/candle", params), &resp); err != nil {
		return nil, fmt.Errorf("finnhub candles failed: %w", err)
	}

	if resp.Status == "no_data" || resp.Error != "" || len(resp.Timestamps) == 0 {
		return nil, fmt.Errorf("finnhub candles: no data for %s", symbol)
	}

	// Data shape check: 열 길이가 어긋나면 잘못된 응답으로 간주
	n := len(resp.Timestamps)
	if len(resp.Opens) != n || len(resp.Highs) != n || len(resp.Lows) != n ||
		len(resp.Closes) != n || len(resp.Volumes) != n {
		return nil, fmt.Errorf("finnhub candles: malformed response for %s", symbol)
	}

	candles := make([]contracts.Candle, n)
	for i := 0; i < n; i++ {
		candles[i] = contracts.Candle{
			Date:   time.Unix(resp.Timestamps[i], 0).UTC().Format("2006-01-02"),
			Open:   resp.Opens[i],
			High:   resp.Highs[i],
			Low:    resp.Lows[i],
			Close:  resp.Closes[i],
			Volume: resp.Volumes[i],
		}
	}

	c.logger.WithFields(map[string]interface{}{
		"symbol": symbol,
		"count":  len(candles),
	}).Debug("Fetched candles")
	return candles, nil
}

// newsResponse is one Finnhub /company-news entry
type newsResponse struct {
	ID       int64  `json:"id"`
	Headline string `json:"headline"`
	Summary  string `json:"summary"`
	Source   string `json:"source"`
	URL      string `json:"url"`
	Datetime int64  `json:"datetime"`
}

// CompanyNews fetches company news for the date window, newest first as
// delivered by the provider, capped to limit entries.
func (c *Client) CompanyNews(ctx context.Context, symbol string, from, to time.Time, limit int) ([]contracts.NewsArticle, error) {
	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("from", from.Format("2006-01-02"))
	params.Set("to", to.Format("2006-01-02"))

	var resp []newsResponse
	if err := c.httpClient.GetJSON(ctx, c.endpoint("/company-news", params), &resp); err != nil {
		return nil, fmt.Errorf("finnhub news failed: %w", err)
	}

	if limit > 0 && len(resp) > limit {
		resp = resp[:limit]
	}

	articles := make([]contracts.NewsArticle, 0, len(resp))
	for i, item := range resp {
		id := item.ID
		if id == 0 {
			id = int64(i)
		}
		articles = append(articles, contracts.NewsArticle{
			ID:       id,
			Headline: item.Headline,
			Summary:  item.Summary,
			Source:   item.Source,
			URL:      item.URL,
			Datetime: item.Datetime,
		})
	}

	return articles, nil
}

// endpoint builds a full request URL with the API token attached
func (c *Client) endpoint(path string, params url.Values) string {
	params.Set("token", c.apiKey)
	return fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())
}
