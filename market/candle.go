package market

import (
	"fmt"
	"time"
)

// Period identifies a bar timeframe as delivered by the host platform.
type Period string

const (
	OneMin  Period = "M1"
	TenMins Period = "M10"
	OneHour Period = "H1"
	FourHrs Period = "H4"
	Daily   Period = "D1"
)

// Duration returns the bar length, or 0 for an unknown period.
func (p Period) Duration() time.Duration {
	switch p {
	case OneMin:
		return time.Minute
	case TenMins:
		return 10 * time.Minute
	case OneHour:
		return time.Hour
	case FourHrs:
		return 4 * time.Hour
	case Daily:
		return 24 * time.Hour
	}
	return 0
}

// ParsePeriod validates a period token such as "M1" or "H4".
func ParsePeriod(s string) (Period, error) {
	p := Period(s)
	if p.Duration() == 0 {
		return "", fmt.Errorf("unknown period %q", s)
	}
	return p, nil
}

// Candle is one completed OHLC bar.
type Candle struct {
	Open  float64
	High  float64
	Low   float64
	Close float64
	Time  time.Time
}
