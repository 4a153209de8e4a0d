package alert

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/quantum-leap/backend/internal/contracts"
	"github.com/wonny/quantum-leap/backend/internal/external/telegram"
	"github.com/wonny/quantum-leap/backend/pkg/logger"
)

var testNow = time.Date(2026, 2, 19, 12, 0, 0, 0, time.UTC)

func TestTimeAgo(t *testing.T) {
	tests := []struct {
		ago  time.Duration
		want string
	}{
		{30 * time.Second, "방금"},
		{5 * time.Minute, "5분 전"},
		{59 * time.Minute, "59분 전"},
		{2 * time.Hour, "2시간 전"},
		{3 * 24 * time.Hour, "3일 전"},
		{15 * 24 * time.Hour, "2주 전"},
	}

	for _, tt := range tests {
		got := timeAgo(testNow.Add(-tt.ago).Unix(), testNow)
		assert.Equal(t, tt.want, got, "ago=%v", tt.ago)
	}
}

func TestFormatNewsAlert(t *testing.T) {
	item := contracts.NewsItem{
		Ticker:          "AISP",
		Headline:        `Airship AI <wins> "DoD" deal & more`,
		Source:          "Reuters",
		Datetime:        testNow.Add(-2 * time.Hour).Unix(),
		Sentiment:       contracts.SentimentPositive,
		SentimentScore:  85,
		IsUrgent:        true,
		MatchedKeywords: []string{"contract", "wins"},
	}
	quote := &contracts.Quote{Price: 3.12, ChangePercent: 2.6}

	text := FormatNewsAlert(item, quote, testNow)

	assert.Contains(t, text, "🚨 <b>Quantum Leap 긴급 뉴스</b>")
	assert.Contains(t, text, "🟢 <b>AISP</b> — Reuters (2시간 전)")
	// HTML 이스케이프: & → &amp;, 꺾쇠 변환
	assert.Contains(t, text, `"Airship AI &lt;wins&gt; "DoD" deal &amp; more"`)
	assert.Contains(t, text, "감성: 긍정 (85%)")
	assert.Contains(t, text, "키워드: contract, wins")
	assert.Contains(t, text, "💰 현재가: $3.12 (▲2.6%)")
}

func TestFormatNewsAlert_NoQuoteNoKeywords(t *testing.T) {
	item := contracts.NewsItem{
		Ticker:    "BBAI",
		Headline:  "Quiet day",
		Source:    "Unknown",
		Datetime:  testNow.Unix(),
		Sentiment: contracts.SentimentNeutral,
	}

	text := FormatNewsAlert(item, nil, testNow)

	assert.Contains(t, text, "키워드: 없음")
	assert.NotContains(t, text, "현재가")
	assert.Contains(t, text, "🟡 <b>BBAI</b>")
	assert.Contains(t, text, "감성: 중립 (0%)")
}

func TestFormatNewsAlert_NegativeChangeKeepsSign(t *testing.T) {
	item := contracts.NewsItem{
		Ticker:    "ATOM",
		Sentiment: contracts.SentimentNegative,
		Datetime:  testNow.Unix(),
	}
	quote := &contracts.Quote{Price: 10.20, ChangePercent: -1.8}

	text := FormatNewsAlert(item, quote, testNow)
	assert.Contains(t, text, "(▼-1.8%)")
}

func TestFormatSummary_SortAndCounts(t *testing.T) {
	entries := []SignalEntry{
		{Ticker: "POET", Overall: contracts.OverallWatch, BuyScore: 40, Price: 7.10, ChangePercent: -0.5},
		{Ticker: "AISP", Overall: contracts.OverallBuy, BuyScore: 85, Price: 3.12, ChangePercent: 2.6},
		{Ticker: "BBAI", Overall: contracts.OverallSell, SellScore: 85, Price: 4.15, ChangePercent: -3.2},
		{Ticker: "GRRR", Overall: contracts.OverallBuy, BuyScore: 65, Price: 12.40, ChangePercent: 1.1},
	}

	text := FormatSummary(entries)
	lines := strings.Split(text, "\n")

	// BUY 2건(입력 순서 유지) → SELL → WATCH
	assert.Contains(t, lines[2], "AISP")
	assert.Contains(t, lines[3], "GRRR")
	assert.Contains(t, lines[4], "BBAI")
	assert.Contains(t, lines[5], "POET")

	assert.Contains(t, text, "🟢 BUY  <b>AISP</b>  $3.12 (▲2.6%)  점수 85")
	// 요약 라인 등락률은 절대값
	assert.Contains(t, text, "🔴 SELL <b>BBAI</b>  $4.15 (▼3.2%)  점수 85")
	// WATCH는 점수 미표기
	assert.Contains(t, text, "🟡 WAIT <b>POET</b>  $7.10 (▼0.5%)")
	assert.NotContains(t, lines[5], "점수")

	assert.Contains(t, text, "매수 2 | 매도 1 | 관망 1")
}

func TestFormatSummary_Empty(t *testing.T) {
	assert.Equal(t, "", FormatSummary(nil))
}

// fakeSender records sends and fails on demand
type fakeSender struct {
	err   error
	sent  []string
	calls int
}

func (f *fakeSender) Send(_ context.Context, text string) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, text)
	return nil
}

func TestDispatcher_NewsAlert(t *testing.T) {
	sender := &fakeSender{}
	d := NewDispatcher(sender, logger.Nop(), WithClock(func() time.Time { return testNow }))

	ok := d.NewsAlert(context.Background(), contracts.NewsItem{Ticker: "AISP", Datetime: testNow.Unix()}, nil)
	require.True(t, ok)
	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0], "AISP")
}

func TestDispatcher_FailuresAreNonFatal(t *testing.T) {
	d := NewDispatcher(&fakeSender{err: errors.New("network down")}, logger.Nop())
	ok := d.NewsAlert(context.Background(), contracts.NewsItem{Ticker: "AISP"}, nil)
	assert.False(t, ok)

	d = NewDispatcher(&fakeSender{err: telegram.ErrNotConfigured}, logger.Nop())
	ok = d.Summary(context.Background(), []SignalEntry{{Ticker: "AISP", Overall: contracts.OverallBuy, BuyScore: 85}})
	assert.False(t, ok)
}

func TestDispatcher_EmptySummaryNotSent(t *testing.T) {
	sender := &fakeSender{}
	d := NewDispatcher(sender, logger.Nop())

	ok := d.Summary(context.Background(), nil)
	assert.False(t, ok)
	assert.Equal(t, 0, sender.calls)
}
