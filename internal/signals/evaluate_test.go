package signals

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/quantum-leap/backend/internal/contracts"
)

func TestEvaluateRSI(t *testing.T) {
	tests := []struct {
		name       string
		rsi        float64
		wantSignal contracts.SignalDirection
		wantReason string
	}{
		{"oversold buys", 29.9, contracts.SignalBuy, "RSI 29.9 — 과매도 구간, 반등 가능성"},
		{"overbought sells", 70.1, contracts.SignalSell, "RSI 70.1 — 과매수 구간, 조정 가능성"},
		{"lower neutral band", 35, contracts.SignalNeutral, "RSI 35 — 중립 하단, 매수 관심 구간 접근 중"},
		{"upper neutral band", 65, contracts.SignalNeutral, "RSI 65 — 중립 상단, 과매수 주의 구간 접근 중"},
		{"mid band generic", 50, contracts.SignalNeutral, "RSI 50 — 중립 구간, 방향성 미확정"},
		{"boundary 30 is neutral", 30, contracts.SignalNeutral, "RSI 30 — 중립 하단, 매수 관심 구간 접근 중"},
		{"boundary 70 is neutral", 70, contracts.SignalNeutral, "RSI 70 — 중립 상단, 과매수 주의 구간 접근 중"},
		{"boundary 40 is generic", 40, contracts.SignalNeutral, "RSI 40 — 중립 구간, 방향성 미확정"},
		{"boundary 60 is generic", 60, contracts.SignalNeutral, "RSI 60 — 중립 구간, 방향성 미확정"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EvaluateRSI(tt.rsi)
			assert.Equal(t, tt.wantSignal, got.Signal)
			assert.Equal(t, WeightRSI, got.Weight)
			assert.Equal(t, tt.wantReason, got.Reason)
		})
	}
}

func TestEvaluateMACD(t *testing.T) {
	tests := []struct {
		name       string
		macd       contracts.MACDData
		wantSignal contracts.SignalDirection
		contains   string
	}{
		{
			"golden cross early",
			contracts.MACDData{MACD: 0.08, Signal: 0.02, Histogram: 0.06},
			contracts.SignalBuy, "초기 상승 모멘텀",
		},
		{
			"golden cross strong",
			contracts.MACDData{MACD: 1.2, Signal: 0.5, Histogram: 0.7},
			contracts.SignalBuy, "강한 상승 모멘텀",
		},
		{
			"dead cross early",
			contracts.MACDData{MACD: -0.15, Signal: -0.05, Histogram: -0.10},
			contracts.SignalSell, "초기 하락 모멘텀",
		},
		{
			"dead cross strong",
			contracts.MACDData{MACD: -1.2, Signal: -0.5, Histogram: -0.7},
			contracts.SignalSell, "강한 하락 모멘텀",
		},
		{
			"disagreeing histogram and lines is neutral",
			contracts.MACDData{MACD: -0.05, Signal: -0.08, Histogram: -0.01},
			contracts.SignalNeutral, "교차 직전",
		},
		{
			"zero histogram is neutral",
			contracts.MACDData{MACD: 0.1, Signal: 0.1, Histogram: 0},
			contracts.SignalNeutral, "교차 직전",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EvaluateMACD(tt.macd)
			assert.Equal(t, tt.wantSignal, got.Signal)
			assert.Equal(t, WeightMACD, got.Weight)
			assert.Contains(t, got.Reason, tt.contains)
		})
	}
}

func TestEvaluateBollinger(t *testing.T) {
	bb := contracts.BollingerBands{Upper: 3.60, Middle: 3.20, Lower: 2.80}

	tests := []struct {
		name       string
		price      float64
		wantSignal contracts.SignalDirection
		contains   string
	}{
		{"below lower buys", 2.70, contracts.SignalBuy, "하단밴드($2.80) 하회"},
		{"above upper sells", 3.75, contracts.SignalSell, "상단밴드($3.60) 상회"},
		{"near lower neutral", 2.90, contracts.SignalNeutral, "하단 접근 중, 매수 관심"},
		{"near upper neutral", 3.50, contracts.SignalNeutral, "상단 접근 중, 차익실현 고려"},
		{"mid band neutral", 3.20, contracts.SignalNeutral, "밴드 내 정상 범위"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EvaluateBollinger(tt.price, bb)
			assert.Equal(t, tt.wantSignal, got.Signal)
			assert.Equal(t, WeightBollinger, got.Weight)
			assert.Contains(t, got.Reason, tt.contains)
		})
	}
}

func TestEvaluateBollinger_ZeroWidthBand(t *testing.T) {
	// 폭 0 밴드는 50% 위치로 간주 — 0 나눗셈 없음
	bb := contracts.BollingerBands{Upper: 5, Middle: 5, Lower: 5}
	got := EvaluateBollinger(5, bb)
	assert.Equal(t, contracts.SignalNeutral, got.Signal)
	assert.Contains(t, got.Reason, "밴드 중앙 50% 위치")
}

func TestEvaluateIchimoku(t *testing.T) {
	tests := []struct {
		name       string
		price      float64
		ichimoku   contracts.IchimokuData
		wantSignal contracts.SignalDirection
		contains   string
	}{
		{
			"above cloud with bullish cross",
			3.12,
			contracts.IchimokuData{Tenkan: 3.15, Kijun: 3.05, SenkouA: 2.95, SenkouB: 2.90},
			contracts.SignalBuy, "전환선>기준선 (강세)",
		},
		{
			"above cloud with bearish cross",
			3.12,
			contracts.IchimokuData{Tenkan: 3.00, Kijun: 3.05, SenkouA: 2.95, SenkouB: 2.90},
			contracts.SignalBuy, "전환선<기준선 (주의)",
		},
		{
			"below cloud bearish",
			3.90,
			contracts.IchimokuData{Tenkan: 3.95, Kijun: 4.10, SenkouA: 4.30, SenkouB: 4.25},
			contracts.SignalSell, "전환선<기준선 (약세)",
		},
		{
			"below cloud with rebound hint",
			3.90,
			contracts.IchimokuData{Tenkan: 4.20, Kijun: 4.10, SenkouA: 4.30, SenkouB: 4.25},
			contracts.SignalSell, "전환선>기준선 (반등 조짐)",
		},
		{
			"inside cloud neutral",
			8.05,
			contracts.IchimokuData{Tenkan: 8.30, Kijun: 8.20, SenkouA: 8.00, SenkouB: 8.15},
			contracts.SignalNeutral, "구름 내부",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EvaluateIchimoku(tt.price, tt.ichimoku)
			assert.Equal(t, tt.wantSignal, got.Signal)
			assert.Equal(t, WeightIchimoku, got.Weight)
			assert.Contains(t, got.Reason, tt.contains)
		})
	}
}

func TestEvaluateSMA(t *testing.T) {
	tests := []struct {
		name       string
		price      float64
		sma        contracts.SMAData
		wantSignal contracts.SignalDirection
		contains   string
	}{
		{
			"golden cross with short-term momentum",
			3.12,
			contracts.SMAData{SMA20: 3.05, SMA50: 3.10, SMA200: 2.85},
			contracts.SignalBuy, "단기 모멘텀 양호",
		},
		{
			"golden cross in pullback",
			3.00,
			contracts.SMAData{SMA20: 3.05, SMA50: 3.10, SMA200: 2.85},
			contracts.SignalBuy, "단기 조정 중이나 중기 추세 유지",
		},
		{
			"dead cross accelerating",
			4.10,
			contracts.SMAData{SMA20: 4.20, SMA50: 4.00, SMA200: 4.35},
			contracts.SignalSell, "단기 하락 가속",
		},
		{
			"dead cross with rebound attempt",
			4.30,
			contracts.SMAData{SMA20: 4.20, SMA50: 4.00, SMA200: 4.35},
			contracts.SignalSell, "단기 반등 시도 중이나 중기 약세",
		},
		{
			"exact equality is neutral",
			5.00,
			contracts.SMAData{SMA20: 5.00, SMA50: 5.00, SMA200: 5.00},
			contracts.SignalNeutral, "이동평균 수렴 중",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EvaluateSMA(tt.price, tt.sma)
			assert.Equal(t, tt.wantSignal, got.Signal)
			assert.Equal(t, WeightSMA, got.Weight)
			assert.Contains(t, got.Reason, tt.contains)
		})
	}
}

// AISP seed scenario: RSI BUY(20) + MACD BUY(25) + Ichimoku BUY(25) +
// SMA BUY(15), Bollinger NEUTRAL → buyScore 85 → BUY
func TestComposite_StrongBuy(t *testing.T) {
	indicators := contracts.Indicators{
		RSI:            28.5,
		MACD:           contracts.MACDData{MACD: 0.08, Signal: 0.02, Histogram: 0.06},
		BollingerBands: contracts.BollingerBands{Upper: 3.60, Middle: 3.20, Lower: 2.80},
		Ichimoku:       contracts.IchimokuData{Tenkan: 3.15, Kijun: 3.05, SenkouA: 2.95, SenkouB: 2.90},
		SMA:            contracts.SMAData{SMA20: 3.05, SMA50: 3.10, SMA200: 2.85},
	}

	got := Composite(3.12, indicators)

	assert.Equal(t, contracts.OverallBuy, got.Overall)
	assert.Equal(t, 85, got.BuyScore)
	assert.Equal(t, 0, got.SellScore)

	require.Len(t, got.Indicators, 5)
	names := []string{"RSI(14)", "MACD", "볼린저밴드", "일목균형표", "SMA"}
	for i, s := range got.Indicators {
		assert.Equal(t, names[i], s.Name)
	}
}

// BBAI seed scenario: RSI SELL + MACD SELL + Ichimoku SELL + SMA SELL
func TestComposite_StrongSell(t *testing.T) {
	indicators := contracts.Indicators{
		RSI:            74.2,
		MACD:           contracts.MACDData{MACD: -0.15, Signal: -0.05, Histogram: -0.10},
		BollingerBands: contracts.BollingerBands{Upper: 4.50, Middle: 4.10, Lower: 3.70},
		Ichimoku:       contracts.IchimokuData{Tenkan: 3.95, Kijun: 4.10, SenkouA: 4.30, SenkouB: 4.25},
		SMA:            contracts.SMAData{SMA20: 4.20, SMA50: 4.00, SMA200: 4.35},
	}

	got := Composite(4.15, indicators)

	assert.Equal(t, contracts.OverallSell, got.Overall)
	assert.Equal(t, 0, got.BuyScore)
	assert.Equal(t, 85, got.SellScore)
}

func TestComposite_Watch(t *testing.T) {
	// POET seed: 혼합 신호 — MACD BUY(25) + SMA BUY(15)뿐, 어느 쪽도 60 미달
	indicators := contracts.Indicators{
		RSI:            45.8,
		MACD:           contracts.MACDData{MACD: -0.05, Signal: -0.08, Histogram: 0.03},
		BollingerBands: contracts.BollingerBands{Upper: 7.90, Middle: 7.15, Lower: 6.40},
		Ichimoku:       contracts.IchimokuData{Tenkan: 7.00, Kijun: 7.10, SenkouA: 7.25, SenkouB: 7.05},
		SMA:            contracts.SMAData{SMA20: 7.05, SMA50: 7.20, SMA200: 6.80},
	}

	got := Composite(7.10, indicators)

	assert.Equal(t, contracts.OverallWatch, got.Overall)
	assert.Equal(t, 40, got.BuyScore)
	assert.Equal(t, 0, got.SellScore)
}

func TestComposite_WeightsSumTo100(t *testing.T) {
	got := Composite(10, contracts.Indicators{RSI: 50})

	sum := 0
	neutral := 0
	for _, s := range got.Indicators {
		sum += s.Weight
		if s.Signal == contracts.SignalNeutral {
			neutral += s.Weight
		}
	}
	assert.Equal(t, 100, sum)
	assert.Equal(t, 100, got.BuyScore+got.SellScore+neutral)
}

func TestComposite_Deterministic(t *testing.T) {
	indicators := contracts.Indicators{
		RSI:            45.8,
		MACD:           contracts.MACDData{MACD: -0.05, Signal: -0.08, Histogram: 0.03},
		BollingerBands: contracts.BollingerBands{Upper: 7.90, Middle: 7.15, Lower: 6.40},
		Ichimoku:       contracts.IchimokuData{Tenkan: 7.00, Kijun: 7.10, SenkouA: 7.25, SenkouB: 7.05},
		SMA:            contracts.SMAData{SMA20: 7.05, SMA50: 7.20, SMA200: 6.80},
	}

	first := Composite(7.10, indicators)
	second := Composite(7.10, indicators)
	assert.Equal(t, first, second)
}
