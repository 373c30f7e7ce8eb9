package market

import "math"

// InstrumentMeta describes a tradeable currency pair. Prices move in pips:
// a pip is 10^-PipScale in price terms, so EUR/USD (PipScale 4) has a pip
// of 0.0001 while USD/JPY (PipScale 2) has a pip of 0.01.
type InstrumentMeta struct {
	Name      string // "EUR/USD"
	Primary   string // base currency
	Secondary string // quote currency
	PipScale  int
}

// PipValue returns one pip in price terms (quote currency).
func (m InstrumentMeta) PipValue() float64 {
	return math.Pow(10, -float64(m.PipScale))
}

var Instruments = map[string]InstrumentMeta{
	"EUR/USD": {Name: "EUR/USD", Primary: "EUR", Secondary: "USD", PipScale: 4},
	"GBP/USD": {Name: "GBP/USD", Primary: "GBP", Secondary: "USD", PipScale: 4},
	"AUD/USD": {Name: "AUD/USD", Primary: "AUD", Secondary: "USD", PipScale: 4},
	"NZD/USD": {Name: "NZD/USD", Primary: "NZD", Secondary: "USD", PipScale: 4},
	"USD/JPY": {Name: "USD/JPY", Primary: "USD", Secondary: "JPY", PipScale: 2},
	"USD/CHF": {Name: "USD/CHF", Primary: "USD", Secondary: "CHF", PipScale: 4},
	"USD/CAD": {Name: "USD/CAD", Primary: "USD", Secondary: "CAD", PipScale: 4},
	"EUR/GBP": {Name: "EUR/GBP", Primary: "EUR", Secondary: "GBP", PipScale: 4},
	"EUR/JPY": {Name: "EUR/JPY", Primary: "EUR", Secondary: "JPY", PipScale: 2},
	"EUR/CHF": {Name: "EUR/CHF", Primary: "EUR", Secondary: "CHF", PipScale: 4},
	"GBP/JPY": {Name: "GBP/JPY", Primary: "GBP", Secondary: "JPY", PipScale: 2},
	"CHF/JPY": {Name: "CHF/JPY", Primary: "CHF", Secondary: "JPY", PipScale: 2},
}

// Find looks up an instrument by name.
func Find(name string) (InstrumentMeta, bool) {
	m, ok := Instruments[name]
	return m, ok
}

// FromPair looks up the instrument quoted as primary/secondary. It returns
// false when no such pair is listed; callers may then try the inverted pair.
func FromPair(primary, secondary string) (InstrumentMeta, bool) {
	return Find(primary + "/" + secondary)
}
