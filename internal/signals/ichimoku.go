package signals

import "github.com/wonny/quantum-leap/backend/internal/contracts"

// 일목균형표 자체 계산 — 지표 프로바이더가 일목균형표를 제공하지 않아
// 캔들 시계열의 구간 고가/저가 중앙값으로 직접 유도한다.

// highLowMid returns (max(high) + min(low)) / 2 over the slice
func highLowMid(candles []contracts.Candle) float64 {
	high := candles[0].High
	low := candles[0].Low
	for _, c := range candles[1:] {
		if c.High > high {
			high = c.High
		}
		if c.Low < low {
			low = c.Low
		}
	}
	return (high + low) / 2
}

// lastN returns the trailing n candles (series is ascending by date)
func lastN(candles []contracts.Candle, n int) []contracts.Candle {
	if len(candles) <= n {
		return candles
	}
	return candles[len(candles)-n:]
}

// Ichimoku derives the cloud components from a daily candle series:
//
//	tenkan  = 구간 고저 중앙값, 최근 9일
//	kijun   = 구간 고저 중앙값, 최근 26일
//	senkouA = (tenkan + kijun) / 2
//	senkouB = 구간 고저 중앙값, 최근 52일 (부족하면 전체 구간)
//
// Fewer than 26 candles yields the all-zero "insufficient data"
// sentinel, never an error.
func Ichimoku(candles []contracts.Candle) contracts.IchimokuData {
	if len(candles) < 26 {
		return contracts.IchimokuData{}
	}

	tenkan := highLowMid(lastN(candles, 9))
	kijun := highLowMid(lastN(candles, 26))

	return contracts.IchimokuData{
		Tenkan:  tenkan,
		Kijun:   kijun,
		SenkouA: (tenkan + kijun) / 2,
		SenkouB: highLowMid(lastN(candles, 52)),
	}
}
