package news

import (
	"math"
	"strings"

	"github.com/wonny/quantum-leap/backend/internal/contracts"
)

// 뉴스 헤드라인+요약 키워드 기반 감성/긴급도 분류
// ⭐ SSOT: 감성 키워드 목록과 판정 규칙은 이 파일에서만

var positiveKeywords = []string{
	"upgrade", "beat", "growth", "revenue up", "contract", "partnership",
	"buy", "outperform", "bullish", "record", "surge", "soar", "breakout",
	"approval", "award", "expansion", "profit", "exceeded", "strong",
	"insider buy", "raised", "positive", "upside", "momentum",
}

var negativeKeywords = []string{
	"downgrade", "miss", "decline", "dilution", "lawsuit", "sell",
	"warning", "layoff", "loss", "debt", "risk", "investigation",
	"insider sell", "cut", "negative", "bearish", "underperform",
	"weak", "delay", "recall", "fraud", "bankruptcy", "default",
}

// 텔레그램 즉시 알림 트리거 키워드 (감성 키워드와 중복 허용)
var urgentKeywords = []string{
	"earnings", "revenue", "FDA", "approval", "contract",
	"insider buy", "insider sell", "upgrade", "downgrade",
	"acquisition", "merger", "SEC", "investigation",
}

// Analysis is the classification of one news text
type Analysis struct {
	Sentiment       contracts.Sentiment
	Score           int // 0-100
	MatchedKeywords []string
	IsUrgent        bool
}

// Analyze classifies headline+summary text. Pure function: substring
// match over the case-folded concatenation, no tokenization — a keyword
// occurring inside another word still counts.
func Analyze(headline, summary string) Analysis {
	text := strings.ToLower(headline + " " + summary)

	matched := []string{}
	positiveCount := 0
	negativeCount := 0

	for _, kw := range positiveKeywords {
		if strings.Contains(text, strings.ToLower(kw)) {
			positiveCount++
			matched = append(matched, kw)
		}
	}

	for _, kw := range negativeKeywords {
		if strings.Contains(text, strings.ToLower(kw)) {
			negativeCount++
			matched = append(matched, kw)
		}
	}

	total := positiveCount + negativeCount

	var score int
	var sentiment contracts.Sentiment

	if total == 0 {
		score = 50
		sentiment = contracts.SentimentNeutral
	} else {
		score = int(math.Round(float64(positiveCount) / float64(total) * 100))
		switch {
		case score >= 60:
			sentiment = contracts.SentimentPositive
		case score <= 40:
			sentiment = contracts.SentimentNegative
		default:
			sentiment = contracts.SentimentNeutral
		}
	}

	// 긴급 여부는 감성과 독립
	isUrgent := false
	for _, kw := range urgentKeywords {
		if strings.Contains(text, strings.ToLower(kw)) {
			isUrgent = true
			break
		}
	}

	return Analysis{
		Sentiment:       sentiment,
		Score:           score,
		MatchedKeywords: matched,
		IsUrgent:        isUrgent,
	}
}

// Classify builds a NewsItem from a raw provider article
func Classify(ticker string, article contracts.NewsArticle) contracts.NewsItem {
	a := Analyze(article.Headline, article.Summary)

	source := article.Source
	if source == "" {
		source = "Unknown"
	}

	return contracts.NewsItem{
		ID:              article.ID,
		Ticker:          ticker,
		Headline:        article.Headline,
		Summary:         article.Summary,
		Source:          source,
		URL:             article.URL,
		Datetime:        article.Datetime,
		Sentiment:       a.Sentiment,
		SentimentScore:  a.Score,
		IsUrgent:        a.IsUrgent,
		MatchedKeywords: a.MatchedKeywords,
	}
}
