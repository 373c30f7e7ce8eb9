package market

import (
	"context"
	"errors"
	"fmt"
)

var ErrInstrumentNotFound = errors.New("instrument not found")

// AccountExchangeRate returns the account-currency price of one unit of the
// pair's primary currency, used to convert per-pip values into account terms.
//
// Resolution order:
//  1. primary == account currency: the traded pair itself carries the rate;
//     its own side-matched tick is returned.
//  2. the synthetic pair account/primary exists: its side-matched tick.
//  3. the inverted pair primary/account exists: the reciprocal of its
//     side-matched tick.
//
// The side matches the order fill side (buy reads ask, sell reads bid) as a
// worst-case pricing convention. No triangulation through a third currency
// is attempted; unresolvable crosses fail with ErrInstrumentNotFound.
func AccountExchangeRate(ctx context.Context, pair InstrumentMeta, accountCurrency string, side Side, src TickSource) (float64, error) {
	if pair.Primary == accountCurrency {
		tick, err := src.GetTick(ctx, pair.Name)
		if err != nil {
			return 0, err
		}
		return tick.ForSide(side), nil
	}

	if conv, ok := FromPair(accountCurrency, pair.Primary); ok {
		tick, err := src.GetTick(ctx, conv.Name)
		if err != nil {
			return 0, err
		}
		return tick.ForSide(side), nil
	}

	// Not quoted directly, try the inverted pair.
	if conv, ok := FromPair(pair.Primary, accountCurrency); ok {
		tick, err := src.GetTick(ctx, conv.Name)
		if err != nil {
			return 0, err
		}
		return 1 / tick.ForSide(side), nil
	}

	return 0, fmt.Errorf("%w: no pair for %s/%s", ErrInstrumentNotFound, accountCurrency, pair.Primary)
}

// ConversionInstrument returns the instrument whose tick feeds
// AccountExchangeRate for the given pair and account currency. Used to
// subscribe the conversion pair alongside the traded one.
func ConversionInstrument(pair InstrumentMeta, accountCurrency string) (InstrumentMeta, bool) {
	if pair.Primary == accountCurrency {
		return pair, true
	}
	if conv, ok := FromPair(accountCurrency, pair.Primary); ok {
		return conv, true
	}
	if conv, ok := FromPair(pair.Primary, accountCurrency); ok {
		return conv, true
	}
	return InstrumentMeta{}, false
}

// QuoteToAccountRate converts a P/L expressed in the pair's quote currency
// into the account currency, reading mid prices from src.
func QuoteToAccountRate(ctx context.Context, pair InstrumentMeta, accountCurrency string, src TickSource) (float64, error) {
	if pair.Secondary == accountCurrency {
		return 1.0, nil
	}

	// USD/JPY with a USD account: mid gives JPY per USD, we want USD per JPY.
	if pair.Primary == accountCurrency {
		tick, err := src.GetTick(ctx, pair.Name)
		if err != nil {
			return 0, err
		}
		return 1 / tick.Mid(), nil
	}

	if conv, ok := FromPair(pair.Secondary, accountCurrency); ok {
		tick, err := src.GetTick(ctx, conv.Name)
		if err != nil {
			return 0, err
		}
		return tick.Mid(), nil
	}
	if conv, ok := FromPair(accountCurrency, pair.Secondary); ok {
		tick, err := src.GetTick(ctx, conv.Name)
		if err != nil {
			return 0, err
		}
		return 1 / tick.Mid(), nil
	}

	return 0, fmt.Errorf("%w: no conversion from %s to %s", ErrInstrumentNotFound, pair.Secondary, accountCurrency)
}
