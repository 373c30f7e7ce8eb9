package indicators

import (
	"testing"

	"github.com/fxtools/constrisk/market"
	"github.com/stretchr/testify/assert"
)

func TestHeikinAshi_FirstCandleSeeded(t *testing.T) {
	t.Parallel()

	var ha HeikinAshi
	c := ha.Update(market.Candle{Open: 1.1000, High: 1.1040, Low: 1.0990, Close: 1.1030})

	assert.InDelta(t, (1.1000+1.1030)/2, c.Open, 1e-9)
	assert.InDelta(t, (1.1000+1.1040+1.0990+1.1030)/4, c.Close, 1e-9)
}

func TestHeikinAshi_OpenCarriesForward(t *testing.T) {
	t.Parallel()

	var ha HeikinAshi
	first := ha.Update(market.Candle{Open: 1.1000, High: 1.1040, Low: 1.0990, Close: 1.1030})
	second := ha.Update(market.Candle{Open: 1.1030, High: 1.1060, Low: 1.1020, Close: 1.1050})

	assert.InDelta(t, (first.Open+first.Close)/2, second.Open, 1e-9)
	assert.InDelta(t, (1.1030+1.1060+1.1020+1.1050)/4, second.Close, 1e-9)
}

func TestHeikinAshi_TrendDirection(t *testing.T) {
	t.Parallel()

	var ha HeikinAshi
	// A steady decline produces red synthetic candles (close < open).
	px := 1.2000
	var c market.Candle
	for i := 0; i < 5; i++ {
		c = ha.Update(market.Candle{Open: px, High: px + 0.0005, Low: px - 0.0030, Close: px - 0.0025})
		px -= 0.0025
	}
	assert.Less(t, c.Close, c.Open)

	// And a steady rise flips them green.
	for i := 0; i < 8; i++ {
		c = ha.Update(market.Candle{Open: px, High: px + 0.0030, Low: px - 0.0005, Close: px + 0.0025})
		px += 0.0025
	}
	assert.Greater(t, c.Close, c.Open)
}
