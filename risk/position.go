package risk

// MaxPositionLots caps the computed position size. A safety feature against
// typos in the risk amount: a size above the cap is degraded to zero, never
// clamped, so the caller can decide not to place the order.
const MaxPositionLots = 0.05

// Lot is one standard lot in base-currency units.
const Lot = 100_000.0

// Inputs carries everything Size needs; callers resolve ticks and exchange
// rates first so sizing itself stays a pure calculation.
type Inputs struct {
	PipValue     float64 // one pip in quote-currency price terms
	PairRate     float64 // side-matched tick of the traded pair
	AccountRate  float64 // account-currency price of the primary currency
	CrossAccount bool    // primary currency differs from account currency
	StopLossPips float64 // must be > 0, validated by the caller
	CurrencyRisk float64 // fixed account-currency risk for the trade
	MaxLots      float64 // 0 means MaxPositionLots
}

type Sizing struct {
	Lots          float64
	Units         float64
	AccountPerPip float64 // account currency per pip per standard lot
	MaxLots       float64
	Capped        bool // size exceeded MaxLots; Lots degraded to 0
}

// Size computes the lot amount whose loss at the stop equals CurrencyRisk.
//
// No rounding is applied here; pip distances are rounded upstream where the
// broker's 0.1 pip granularity requires it.
func Size(in Inputs) Sizing {
	perPip := in.PipValue / in.PairRate * Lot
	if in.CrossAccount {
		perPip /= in.AccountRate
	}

	units := in.CurrencyRisk / in.StopLossPips * Lot / perPip
	lots := units / 1_000_000

	max := in.MaxLots
	if max == 0 {
		max = MaxPositionLots
	}

	s := Sizing{
		Lots:          lots,
		Units:         units,
		AccountPerPip: perPip,
		MaxLots:       max,
	}
	if lots > max {
		s.Capped = true
		s.Lots = 0
	}
	return s
}
