package alert

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/wonny/quantum-leap/backend/internal/contracts"
)

// 텔레그램 메시지 포맷
// ⭐ SSOT: 알림 본문 레이아웃은 이 파일에서만

const divider = "━━━━━━━━━━━━━━━━━"

// SignalEntry is one watchlist row of the summary report
type SignalEntry struct {
	Ticker        string
	Overall       contracts.OverallSignal
	BuyScore      int
	SellScore     int
	Price         float64
	ChangePercent float64
}

// sentiment presentation maps
func sentimentEmoji(s contracts.Sentiment) string {
	switch s {
	case contracts.SentimentPositive:
		return "🟢"
	case contracts.SentimentNegative:
		return "🔴"
	default:
		return "🟡"
	}
}

func sentimentLabel(s contracts.Sentiment) string {
	switch s {
	case contracts.SentimentPositive:
		return "긍정"
	case contracts.SentimentNegative:
		return "부정"
	default:
		return "중립"
	}
}

// timeAgo renders a unix timestamp relative to now, coarsest unit wins
func timeAgo(unixTimestamp int64, now time.Time) string {
	diff := now.Unix() - unixTimestamp

	switch {
	case diff < 60:
		return "방금"
	case diff < 3600:
		return fmt.Sprintf("%d분 전", diff/60)
	case diff < 86400:
		return fmt.Sprintf("%d시간 전", diff/3600)
	case diff < 604800:
		return fmt.Sprintf("%d일 전", diff/86400)
	default:
		return fmt.Sprintf("%d주 전", diff/604800)
	}
}

// escapeHtml escapes the three characters Telegram's HTML mode rejects
func escapeHtml(text string) string {
	text = strings.ReplaceAll(text, "&", "&amp;")
	text = strings.ReplaceAll(text, "<", "&lt;")
	text = strings.ReplaceAll(text, ">", "&gt;")
	return text
}

// FormatNewsAlert builds the urgent-news message. The price line is
// included only when a quote is available; the raw changePercent keeps
// its sign next to the direction arrow.
func FormatNewsAlert(item contracts.NewsItem, quote *contracts.Quote, now time.Time) string {
	priceInfo := ""
	if quote != nil {
		arrow := "▼"
		if quote.ChangePercent >= 0 {
			arrow = "▲"
		}
		priceInfo = fmt.Sprintf("\n💰 현재가: $%.2f (%s%.1f%%)", quote.Price, arrow, quote.ChangePercent)
	}

	keywords := strings.Join(item.MatchedKeywords, ", ")
	if keywords == "" {
		keywords = "없음"
	}

	return fmt.Sprintf(`🚨 <b>Quantum Leap 긴급 뉴스</b>
%s
%s <b>%s</b> — %s (%s)
"%s"

감성: %s (%d%%)
키워드: %s%s
%s`,
		divider,
		sentimentEmoji(item.Sentiment), item.Ticker, item.Source, timeAgo(item.Datetime, now),
		escapeHtml(item.Headline),
		sentimentLabel(item.Sentiment), item.SentimentScore,
		keywords, priceInfo,
		divider)
}

func signalEmoji(s contracts.OverallSignal) string {
	switch s {
	case contracts.OverallBuy:
		return "🟢"
	case contracts.OverallSell:
		return "🔴"
	default:
		return "🟡"
	}
}

// labels are padded so tickers line up in the report
func signalLabel(s contracts.OverallSignal) string {
	switch s {
	case contracts.OverallBuy:
		return "BUY "
	case contracts.OverallSell:
		return "SELL"
	default:
		return "WAIT"
	}
}

// FormatSummary builds the batched signal report: BUY entries first,
// then SELL, then WATCH, input order preserved within each class. The
// dominant score prints only when positive. Empty input yields "".
func FormatSummary(entries []SignalEntry) string {
	if len(entries) == 0 {
		return ""
	}

	order := map[contracts.OverallSignal]int{
		contracts.OverallBuy:   0,
		contracts.OverallSell:  1,
		contracts.OverallWatch: 2,
	}
	sorted := make([]SignalEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return order[sorted[i].Overall] < order[sorted[j].Overall]
	})

	lines := make([]string, 0, len(sorted))
	buyCount, sellCount := 0, 0
	for _, e := range sorted {
		score := 0
		switch e.Overall {
		case contracts.OverallBuy:
			score = e.BuyScore
			buyCount++
		case contracts.OverallSell:
			score = e.SellScore
			sellCount++
		}

		arrow := "▼"
		if e.ChangePercent >= 0 {
			arrow = "▲"
		}
		scoreStr := ""
		if score > 0 {
			scoreStr = fmt.Sprintf("  점수 %d", score)
		}

		lines = append(lines, fmt.Sprintf("%s %s <b>%s</b>  $%.2f (%s%.1f%%)%s",
			signalEmoji(e.Overall), signalLabel(e.Overall), e.Ticker,
			e.Price, arrow, math.Abs(e.ChangePercent), scoreStr))
	}

	return fmt.Sprintf(`📊 <b>Quantum Leap 신호 리포트</b>
%s
%s
%s
매수 %d | 매도 %d | 관망 %d
⚠️ 투자 판단은 본인 책임입니다.`,
		divider,
		strings.Join(lines, "\n"),
		divider,
		buyCount, sellCount, len(entries)-buyCount-sellCount)
}
