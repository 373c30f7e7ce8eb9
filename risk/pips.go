package risk

import "math"

// RoundPips rounds a pip distance half-up to one decimal pip, the minimum
// broker price granularity.
func RoundPips(pips float64) float64 {
	return math.Floor(pips*10+0.5) / 10
}

// TakeProfitPips scales the stop distance by the reward:risk ratio. The
// result is rounded to 0.1 pip when the scaling leaves a finer remainder.
func TakeProfitPips(stopLossPips, rewardRiskRatio float64) float64 {
	tp := stopLossPips // risk:reward 1:1
	if rewardRiskRatio != 1 {
		tp *= rewardRiskRatio
		if math.Mod(tp, 0.1) != 0 {
			tp = RoundPips(tp)
		}
	}
	return tp
}

// PriceToPips converts an absolute price distance from a reference price
// into pips for the given pip scale.
func PriceToPips(price, reference float64, pipScale int) float64 {
	return math.Abs(price-reference) * math.Pow(10, float64(pipScale))
}
