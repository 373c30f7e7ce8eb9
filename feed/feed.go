// Package feed streams live ticks from a websocket price server into the
// engine. The wire format is one JSON object per message.
package feed

import (
	"context"
	"fmt"
	"time"

	"github.com/gorilla/websocket"

	"github.com/fxtools/constrisk/market"
)

// TickHandler receives each decoded tick. Returning an error stops the run.
type TickHandler func(market.Tick) error

type subscribeMsg struct {
	Op          string   `json:"op"`
	Instruments []string `json:"instruments"`
}

type tickMsg struct {
	Instrument string  `json:"instrument"`
	Bid        float64 `json:"bid"`
	Ask        float64 `json:"ask"`
	TS         int64   `json:"ts"` // unix milliseconds
}

// Client is a websocket tick feed connection.
type Client struct {
	conn *websocket.Conn
}

// Dial connects to the feed endpoint.
func Dial(ctx context.Context, url string) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial feed %s: %w", url, err)
	}
	return &Client{conn: conn}, nil
}

// Subscribe requests tick streams for the given instruments.
func (c *Client) Subscribe(instruments []string) error {
	return c.conn.WriteJSON(subscribeMsg{Op: "subscribe", Instruments: instruments})
}

// Run reads ticks until the context is cancelled, the connection closes or
// the handler returns an error. Messages for unknown instruments are
// dropped.
func (c *Client) Run(ctx context.Context, handler TickHandler) error {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			c.conn.Close()
		case <-done:
		}
	}()

	for {
		var msg tickMsg
		if err := c.conn.ReadJSON(&msg); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("read feed: %w", err)
		}

		if _, ok := market.Find(msg.Instrument); !ok {
			continue
		}
		tick := market.Tick{
			Instrument: msg.Instrument,
			Bid:        msg.Bid,
			Ask:        msg.Ask,
			Time:       time.UnixMilli(msg.TS).UTC(),
		}
		if err := handler(tick); err != nil {
			return err
		}
	}
}

// Close closes the connection.
func (c *Client) Close() error {
	return c.conn.Close()
}
