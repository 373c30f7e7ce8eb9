package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSize_EURUSDWithUSDAccount(t *testing.T) {
	t.Parallel()

	// EUR/USD at 1.1000 ask, 10 USD risk over 50 pips. The conversion rate
	// comes from the inverted pair, so the cross adjustment cancels the
	// entry-price division and one pip per standard lot is worth 10 USD.
	in := Inputs{
		PipValue:     0.0001,
		PairRate:     1.1000,
		AccountRate:  1 / 1.1000,
		CrossAccount: true,
		StopLossPips: 50,
		CurrencyRisk: 10,
	}

	got := Size(in)

	assert.InDelta(t, 10.0, got.AccountPerPip, 1e-9)
	assert.InDelta(t, 2000, got.Units, 1e-6)
	assert.InDelta(t, 0.002, got.Lots, 1e-9)
	assert.False(t, got.Capped)
}

func TestSize_CapDegradesToZero(t *testing.T) {
	t.Parallel()

	in := Inputs{
		PipValue:     0.0001,
		PairRate:     1.1000,
		AccountRate:  1 / 1.1000,
		CrossAccount: true,
		StopLossPips: 50,
		CurrencyRisk: 1000,
	}

	got := Size(in)

	assert.True(t, got.Capped)
	assert.Equal(t, 0.0, got.Lots)
	// Never clamped to the cap.
	assert.NotEqual(t, MaxPositionLots, got.Lots)
	assert.InDelta(t, 0.2, got.Units/1_000_000, 1e-9)
}

func TestSize_HalvedCap(t *testing.T) {
	t.Parallel()

	in := Inputs{
		PipValue:     0.0001,
		PairRate:     1.1000,
		AccountRate:  1 / 1.1000,
		CrossAccount: true,
		StopLossPips: 50,
		CurrencyRisk: 150, // 0.03 lots, over a halved cap but under the full one
		MaxLots:      MaxPositionLots / 2,
	}

	got := Size(in)
	assert.True(t, got.Capped)
	assert.Equal(t, 0.0, got.Lots)
	assert.Equal(t, 0.025, got.MaxLots)
}

func TestSize_MonotoneInRiskAndStop(t *testing.T) {
	t.Parallel()

	base := Inputs{
		PipValue:     0.0001,
		PairRate:     1.2500,
		AccountRate:  1 / 1.2500,
		CrossAccount: true,
		StopLossPips: 40,
		CurrencyRisk: 5,
	}

	prev := 0.0
	for _, cr := range []float64{1, 2, 5, 10, 20} {
		in := base
		in.CurrencyRisk = cr
		got := Size(in)
		assert.Greater(t, got.Units, prev, "units must grow with risk")
		prev = got.Units
	}

	prev = 1e18
	for _, sl := range []float64{10, 20, 40, 80, 160} {
		in := base
		in.StopLossPips = sl
		got := Size(in)
		assert.Less(t, got.Units, prev, "units must shrink as the stop widens")
		prev = got.Units
	}
}

func TestSize_NoCrossAdjustment(t *testing.T) {
	t.Parallel()

	// USD/JPY with a USD account: primary is the account currency, no
	// conversion division.
	in := Inputs{
		PipValue:     0.01,
		PairRate:     150.00,
		AccountRate:  150.00, // must be ignored
		CrossAccount: false,
		StopLossPips: 50,
		CurrencyRisk: 10,
	}

	got := Size(in)

	// perPip = 0.01/150*100000 = 6.6667
	assert.InDelta(t, 6.6667, got.AccountPerPip, 1e-3)
	assert.InDelta(t, 10.0/50*100000/got.AccountPerPip, got.Units, 1e-6)
}
