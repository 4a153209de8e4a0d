package signals

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wonny/quantum-leap/backend/internal/contracts"
)

// flatCandles builds n identical candles (ascending dates)
func flatCandles(n int, high, low float64) []contracts.Candle {
	candles := make([]contracts.Candle, n)
	for i := range candles {
		candles[i] = contracts.Candle{
			Date: fmt.Sprintf("2026-01-%02d", i+1),
			High: high,
			Low:  low,
		}
	}
	return candles
}

func TestIchimoku_InsufficientDataSentinel(t *testing.T) {
	for _, n := range []int{0, 1, 25} {
		got := Ichimoku(flatCandles(n, 100, 90))
		assert.True(t, got.IsZero(), "expected sentinel for %d candles", n)
	}
}

func TestIchimoku_FlatSeries(t *testing.T) {
	got := Ichimoku(flatCandles(30, 10, 8))

	assert.Equal(t, 9.0, got.Tenkan)
	assert.Equal(t, 9.0, got.Kijun)
	assert.Equal(t, 9.0, got.SenkouA)
	assert.Equal(t, 9.0, got.SenkouB)
	assert.False(t, got.IsZero())
}

func TestIchimoku_WindowsUseTrailingCandles(t *testing.T) {
	// 30개 캔들: 앞 21개는 고가 20, 최근 9개는 고가 40 — tenkan 창(9)만
	// 최근 스파이크를 온전히 반영한다. 저가는 전 구간 10.
	candles := flatCandles(30, 20, 10)
	for i := 21; i < 30; i++ {
		candles[i].High = 40
	}

	got := Ichimoku(candles)

	// tenkan: (40+10)/2, kijun: 최근 26개에도 스파이크 포함 (40+10)/2
	assert.Equal(t, 25.0, got.Tenkan)
	assert.Equal(t, 25.0, got.Kijun)
	assert.Equal(t, 25.0, got.SenkouA)
	// senkouB: 52 미만이므로 전체 구간 사용
	assert.Equal(t, 25.0, got.SenkouB)
}

func TestIchimoku_SenkouBUses52Window(t *testing.T) {
	// 60개 캔들, 처음 8개만 고가 100 — 52 창 밖이라 senkouB에 미반영
	candles := flatCandles(60, 20, 10)
	for i := 0; i < 8; i++ {
		candles[i].High = 100
	}

	got := Ichimoku(candles)

	assert.Equal(t, 15.0, got.Tenkan)
	assert.Equal(t, 15.0, got.Kijun)
	assert.Equal(t, 15.0, got.SenkouB)
}
