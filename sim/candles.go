package sim

import (
	"time"

	"github.com/fxtools/constrisk/market"
)

// CandleBuilder folds ticks into fixed-interval ask and bid candles. A
// candle completes when the first tick of the next interval arrives, which
// is when the host loop delivers the bar to the strategy.
type CandleBuilder struct {
	Instrument string
	Period     market.Period

	interval time.Duration
	start    time.Time
	ask      market.Candle
	bid      market.Candle
	open     bool
}

func NewCandleBuilder(instrument string, period market.Period) *CandleBuilder {
	return &CandleBuilder{
		Instrument: instrument,
		Period:     period,
		interval:   period.Duration(),
	}
}

// Add merges one tick. When the tick opens a new interval, the completed
// ask/bid candles of the previous interval are returned with done=true.
func (b *CandleBuilder) Add(t market.Tick) (ask, bid market.Candle, done bool) {
	if t.Instrument != b.Instrument || b.interval == 0 {
		return market.Candle{}, market.Candle{}, false
	}

	bucket := t.Time.Truncate(b.interval)

	if !b.open {
		b.begin(bucket, t)
		return market.Candle{}, market.Candle{}, false
	}

	if bucket.After(b.start) {
		ask, bid = b.ask, b.bid
		b.begin(bucket, t)
		return ask, bid, true
	}

	merge(&b.ask, t.Ask)
	merge(&b.bid, t.Bid)
	return market.Candle{}, market.Candle{}, false
}

func (b *CandleBuilder) begin(bucket time.Time, t market.Tick) {
	b.start = bucket
	b.open = true
	b.ask = market.Candle{Open: t.Ask, High: t.Ask, Low: t.Ask, Close: t.Ask, Time: bucket}
	b.bid = market.Candle{Open: t.Bid, High: t.Bid, Low: t.Bid, Close: t.Bid, Time: bucket}
}

func merge(c *market.Candle, px float64) {
	if px > c.High {
		c.High = px
	}
	if px < c.Low {
		c.Low = px
	}
	c.Close = px
}
