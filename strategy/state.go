package strategy

import "github.com/fxtools/constrisk/broker"

// Slot tracks one submitted order by label. The label is the only
// correlation key; order snapshots are re-fetched from the platform on
// every callback, never cached here.
type Slot struct {
	Label broker.Label
	Open  bool
}

// RunState is the per-run bookkeeping a tool carries between callbacks.
// Two slots cover the scale-out tool; the single-order tools use slot 0.
type RunState struct {
	Slots           [2]Slot
	TotalProfit     float64
	TotalCommission float64
}

// AnyOpen reports whether any slot still tracks a working order.
func (s *RunState) AnyOpen() bool {
	for _, sl := range s.Slots {
		if sl.Open {
			return true
		}
	}
	return false
}

// SlotByLabel returns the slot tracking label and its 1-based order number,
// or nil when the label belongs to no order of this run.
func (s *RunState) SlotByLabel(label broker.Label) (*Slot, int) {
	if label == "" {
		return nil, 0
	}
	for i := range s.Slots {
		if s.Slots[i].Label == label {
			return &s.Slots[i], i + 1
		}
	}
	return nil, 0
}

// NetProfit is the realized profit after commission.
func (s *RunState) NetProfit() float64 {
	return s.TotalProfit - s.TotalCommission
}
