package indicators

import "github.com/fxtools/constrisk/market"

// HeikinAshi synthesizes smoothed candles from a stream of regular bars.
//
//	haClose = (O + H + L + C) / 4
//	haOpen  = (prevHAOpen + prevHAClose) / 2
//
// The first candle seeds haOpen from the bar's own open/close midpoint.
// A green candle (close > open) marks an up wave, red a down wave.
type HeikinAshi struct {
	prevOpen  float64
	prevClose float64
	seeded    bool
}

// Update folds one completed bar in and returns the synthetic candle.
func (h *HeikinAshi) Update(c market.Candle) market.Candle {
	haClose := (c.Open + c.High + c.Low + c.Close) / 4

	var haOpen float64
	if h.seeded {
		haOpen = (h.prevOpen + h.prevClose) / 2
	} else {
		haOpen = (c.Open + c.Close) / 2
		h.seeded = true
	}

	h.prevOpen = haOpen
	h.prevClose = haClose

	ha := market.Candle{
		Open:  haOpen,
		Close: haClose,
		Time:  c.Time,
	}
	if c.High > haOpen {
		ha.High = c.High
	} else {
		ha.High = haOpen
	}
	if ha.High < haClose {
		ha.High = haClose
	}
	if c.Low < haOpen {
		ha.Low = c.Low
	} else {
		ha.Low = haOpen
	}
	if ha.Low > haClose {
		ha.Low = haClose
	}
	return ha
}
