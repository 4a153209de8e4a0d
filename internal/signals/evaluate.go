package signals

import (
	"fmt"
	"math"
	"strconv"

	"github.com/wonny/quantum-leap/backend/internal/contracts"
)

// 5개 기술 지표 신호 판정 엔진
// ⭐ SSOT: 지표별 판정 규칙과 가중치는 이 파일에서만
//
// 가중치 (합계 100):
//   RSI(14)    20
//   MACD       25
//   볼린저밴드  15
//   일목균형표  25
//   SMA        15
//
// 종합: buyScore >= 60 → BUY, sellScore >= 60 → SELL, 그 외 → WATCH

// Evaluator weights — must sum to exactly 100
const (
	WeightRSI       = 20
	WeightMACD      = 25
	WeightBollinger = 15
	WeightIchimoku  = 25
	WeightSMA       = 15
)

// trimFloat prints a float the way JS does: no trailing zeros
func trimFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// round1 rounds to one decimal place
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// round3 rounds to three decimal places
func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// EvaluateRSI judges the RSI(14) value.
// < 30 → BUY (과매도), > 70 → SELL (과매수), 그 외 NEUTRAL
func EvaluateRSI(rsi float64) contracts.IndicatorSignal {
	rounded := trimFloat(round1(rsi))

	sig := contracts.IndicatorSignal{Name: "RSI(14)", Weight: WeightRSI}

	switch {
	case rsi < 30:
		sig.Signal = contracts.SignalBuy
		sig.Reason = fmt.Sprintf("RSI %s — 과매도 구간, 반등 가능성", rounded)
	case rsi > 70:
		sig.Signal = contracts.SignalSell
		sig.Reason = fmt.Sprintf("RSI %s — 과매수 구간, 조정 가능성", rounded)
	case rsi < 40:
		sig.Signal = contracts.SignalNeutral
		sig.Reason = fmt.Sprintf("RSI %s — 중립 하단, 매수 관심 구간 접근 중", rounded)
	case rsi > 60:
		sig.Signal = contracts.SignalNeutral
		sig.Reason = fmt.Sprintf("RSI %s — 중립 상단, 과매수 주의 구간 접근 중", rounded)
	default:
		sig.Signal = contracts.SignalNeutral
		sig.Reason = fmt.Sprintf("RSI %s — 중립 구간, 방향성 미확정", rounded)
	}

	return sig
}

// EvaluateMACD judges crossover state from the MACD histogram and the
// macd/signal line relationship.
func EvaluateMACD(macd contracts.MACDData) contracts.IndicatorSignal {
	histRounded := trimFloat(round3(macd.Histogram))

	sig := contracts.IndicatorSignal{Name: "MACD", Weight: WeightMACD}

	// 골든크로스: MACD선이 시그널선 위로 돌파 (histogram 양수 전환)
	if macd.Histogram > 0 && macd.MACD > macd.Signal {
		strength := "초기"
		if macd.Histogram > 0.5 {
			strength = "강한"
		}
		sig.Signal = contracts.SignalBuy
		sig.Reason = fmt.Sprintf("MACD 골든크로스 (히스토그램 %s) — %s 상승 모멘텀", histRounded, strength)
		return sig
	}

	// 데드크로스: MACD선이 시그널선 아래로 하락 (histogram 음수 전환)
	if macd.Histogram < 0 && macd.MACD < macd.Signal {
		strength := "초기"
		if macd.Histogram < -0.5 {
			strength = "강한"
		}
		sig.Signal = contracts.SignalSell
		sig.Reason = fmt.Sprintf("MACD 데드크로스 (히스토그램 %s) — %s 하락 모멘텀", histRounded, strength)
		return sig
	}

	sig.Signal = contracts.SignalNeutral
	sig.Reason = fmt.Sprintf("MACD 히스토그램 %s — 교차 직전, 방향 전환 대기", histRounded)
	return sig
}

// EvaluateBollinger judges price against the band envelope.
// 가격 < 하단 → BUY, 가격 > 상단 → SELL, 밴드 내부는 위치별 NEUTRAL
func EvaluateBollinger(price float64, bb contracts.BollingerBands) contracts.IndicatorSignal {
	sig := contracts.IndicatorSignal{Name: "볼린저밴드", Weight: WeightBollinger}

	if price < bb.Lower {
		deviation := (bb.Lower - price) / bb.Lower * 100
		sig.Signal = contracts.SignalBuy
		sig.Reason = fmt.Sprintf("가격 $%.2f이 하단밴드($%.2f) 하회 (%.1f%% 이탈) — 반등 기대",
			price, bb.Lower, deviation)
		return sig
	}

	if price > bb.Upper {
		deviation := (price - bb.Upper) / bb.Upper * 100
		sig.Signal = contracts.SignalSell
		sig.Reason = fmt.Sprintf("가격 $%.2f이 상단밴드($%.2f) 상회 (%.1f%% 이탈) — 과열 주의",
			price, bb.Upper, deviation)
		return sig
	}

	// 밴드 내 위치 파악 (0 나눗셈 가드: 폭이 0이면 중앙으로 간주)
	bandWidth := bb.Upper - bb.Lower
	position := 50.0
	if bandWidth > 0 {
		position = (price - bb.Lower) / bandWidth * 100
	}
	posStr := int(math.Round(position))

	sig.Signal = contracts.SignalNeutral
	switch {
	case position < 30:
		sig.Reason = fmt.Sprintf("밴드 하단 %d%% 위치 — 하단 접근 중, 매수 관심", posStr)
	case position > 70:
		sig.Reason = fmt.Sprintf("밴드 상단 %d%% 위치 — 상단 접근 중, 차익실현 고려", posStr)
	default:
		sig.Reason = fmt.Sprintf("밴드 중앙 %d%% 위치 — 밴드 내 정상 범위", posStr)
	}
	return sig
}

// EvaluateIchimoku judges price against the cloud spans.
// 구름 위 → BUY, 구름 아래 → SELL, 구름 내부 → NEUTRAL
func EvaluateIchimoku(price float64, ichimoku contracts.IchimokuData) contracts.IndicatorSignal {
	cloudTop := math.Max(ichimoku.SenkouA, ichimoku.SenkouB)
	cloudBottom := math.Min(ichimoku.SenkouA, ichimoku.SenkouB)

	sig := contracts.IndicatorSignal{Name: "일목균형표", Weight: WeightIchimoku}

	if price > ichimoku.SenkouA && price > ichimoku.SenkouB {
		aboveCloud := (price - cloudTop) / cloudTop * 100
		tenkanCross := "전환선<기준선 (주의)"
		if ichimoku.Tenkan > ichimoku.Kijun {
			tenkanCross = "전환선>기준선 (강세)"
		}
		sig.Signal = contracts.SignalBuy
		sig.Reason = fmt.Sprintf("구름 상단 +%.1f%% 위 — %s, 상승 추세 유지", aboveCloud, tenkanCross)
		return sig
	}

	if price < ichimoku.SenkouA && price < ichimoku.SenkouB {
		belowCloud := (cloudBottom - price) / cloudBottom * 100
		tenkanCross := "전환선>기준선 (반등 조짐)"
		if ichimoku.Tenkan < ichimoku.Kijun {
			tenkanCross = "전환선<기준선 (약세)"
		}
		sig.Signal = contracts.SignalSell
		sig.Reason = fmt.Sprintf("구름 하단 -%.1f%% 아래 — %s, 하락 추세", belowCloud, tenkanCross)
		return sig
	}

	// 구름 내부
	cloudWidth := cloudTop - cloudBottom
	posInCloud := 50
	if cloudWidth > 0 {
		posInCloud = int(math.Round((price - cloudBottom) / cloudWidth * 100))
	}
	sig.Signal = contracts.SignalNeutral
	sig.Reason = fmt.Sprintf("구름 내부 %d%% 위치 — 추세 전환 구간, 돌파 방향 주시", posInCloud)
	return sig
}

// EvaluateSMA judges the 50/200 moving-average cross, qualified by the
// short-term price vs SMA20 relationship.
// 정확한 부동소수점 동치만 NEUTRAL — 원 동작 유지, epsilon 밴드 없음
func EvaluateSMA(price float64, sma contracts.SMAData) contracts.IndicatorSignal {
	gap := (sma.SMA50 - sma.SMA200) / sma.SMA200 * 100

	sig := contracts.IndicatorSignal{Name: "SMA", Weight: WeightSMA}

	if sma.SMA50 > sma.SMA200 {
		momentum := "단기 조정 중이나 중기 추세 유지"
		if price > sma.SMA20 {
			momentum = "단기 모멘텀 양호"
		}
		sig.Signal = contracts.SignalBuy
		sig.Reason = fmt.Sprintf("SMA50($%.2f) > SMA200($%.2f) 골든크로스 (+%.2f%%) — %s",
			sma.SMA50, sma.SMA200, gap, momentum)
		return sig
	}

	if sma.SMA50 < sma.SMA200 {
		momentum := "단기 반등 시도 중이나 중기 약세"
		if price < sma.SMA20 {
			momentum = "단기 하락 가속"
		}
		sig.Signal = contracts.SignalSell
		sig.Reason = fmt.Sprintf("SMA50($%.2f) < SMA200($%.2f) 데드크로스 (%.2f%%) — %s",
			sma.SMA50, sma.SMA200, gap, momentum)
		return sig
	}

	sig.Signal = contracts.SignalNeutral
	sig.Reason = "SMA50 ≈ SMA200 — 이동평균 수렴 중, 큰 방향성 전환 임박 가능"
	return sig
}

// Composite aggregates the five evaluators into one BUY/SELL/WATCH call.
// Output order is fixed: RSI, MACD, Bollinger, Ichimoku, SMA. The BUY
// threshold check strictly precedes the SELL check.
func Composite(price float64, indicators contracts.Indicators) contracts.CompositeSignal {
	evaluated := []contracts.IndicatorSignal{
		EvaluateRSI(indicators.RSI),
		EvaluateMACD(indicators.MACD),
		EvaluateBollinger(price, indicators.BollingerBands),
		EvaluateIchimoku(price, indicators.Ichimoku),
		EvaluateSMA(price, indicators.SMA),
	}

	buyScore := 0
	sellScore := 0
	for _, s := range evaluated {
		switch s.Signal {
		case contracts.SignalBuy:
			buyScore += s.Weight
		case contracts.SignalSell:
			sellScore += s.Weight
		}
	}

	overall := contracts.OverallWatch
	if buyScore >= 60 {
		overall = contracts.OverallBuy
	} else if sellScore >= 60 {
		overall = contracts.OverallSell
	}

	return contracts.CompositeSignal{
		Overall:    overall,
		BuyScore:   buyScore,
		SellScore:  sellScore,
		Indicators: evaluated,
	}
}
