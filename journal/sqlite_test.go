package journal

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteJournal_RoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "trades.db")
	j, err := NewSQLite(path)
	require.NoError(t, err)
	defer j.Close()

	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	for i, label := range []string{"SELLORDER11700000000000", "SELLORDER21700000000001"} {
		err := j.RecordTrade(TradeRecord{
			RunID:      "run-a",
			Label:      label,
			Instrument: "GBP/USD",
			Command:    "SELL",
			Lots:       0.01,
			OpenPrice:  1.2600,
			ClosePrice: 1.2550,
			OpenTime:   now,
			CloseTime:  now.Add(time.Duration(i+1) * time.Hour),
			Profit:     6.3,
			Commission: 0.4,
			Reason:     "TakeProfit",
		})
		require.NoError(t, err)
	}

	trades, err := j.TradesByRun("run-a")
	require.NoError(t, err)
	require.Len(t, trades, 2)
	assert.Equal(t, "SELLORDER11700000000000", trades[0].Label)
	assert.Equal(t, "SELLORDER21700000000001", trades[1].Label)
	assert.InDelta(t, 6.3, trades[0].Profit, 1e-9)

	trades, err = j.TradesByRun("missing")
	require.NoError(t, err)
	assert.Empty(t, trades)
}
