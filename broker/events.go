package broker

import "fmt"

// EventType identifies an asynchronous platform message.
type EventType int

const (
	OrderFillOK EventType = iota
	OrderCloseOK
	OrderSubmitRejected
	OrderChangedOK
	OrderChangedRejected
	InstrumentStatus
	Calendar
	Notification
)

func (t EventType) String() string {
	switch t {
	case OrderFillOK:
		return "ORDER_FILL_OK"
	case OrderCloseOK:
		return "ORDER_CLOSE_OK"
	case OrderSubmitRejected:
		return "ORDER_SUBMIT_REJECTED"
	case OrderChangedOK:
		return "ORDER_CHANGED_OK"
	case OrderChangedRejected:
		return "ORDER_CHANGED_REJECTED"
	case InstrumentStatus:
		return "INSTRUMENT_STATUS"
	case Calendar:
		return "CALENDAR"
	case Notification:
		return "NOTIFICATION"
	}
	return "UNKNOWN"
}

// Event is one message from the platform's lifecycle feed. Order is nil for
// messages that carry no order.
type Event struct {
	Type  EventType
	Order *Order
	Text  string
}

func (e Event) String() string {
	if e.Order != nil {
		return fmt.Sprintf("%s %s %s", e.Type, e.Order.Label, e.Text)
	}
	return fmt.Sprintf("%s %s", e.Type, e.Text)
}
