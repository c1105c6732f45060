package status

import (
	"bytes"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type collector struct {
	mu  sync.Mutex
	got []Status
}

func (c *collector) Update(s Status) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.got = append(c.got, s)
}

func TestTrackerDeliversChangesOnly(t *testing.T) {
	c := &collector{}
	tr := NewTracker(16, c)
	tr.Start()

	tr.Report("ben_graham_agent", "TCS", "Fetching financial metrics")
	tr.Report("ben_graham_agent", "TCS", "Fetching financial metrics")
	tr.Report("ben_graham_agent", "TCS", "Done")
	tr.Report("warren_buffett_agent", "TCS", "Done")
	tr.Stop()

	require.Len(t, c.got, 3)
	assert.Equal(t, "Done", c.got[1].Text)

	snap := tr.Snapshot()
	assert.Equal(t, Status{Agent: "ben_graham_agent", Ticker: "TCS", Text: "Done"}, snap["ben_graham_agent"])
	assert.Len(t, snap, 2)
}

func TestTrackerNeverBlocks(t *testing.T) {
	tr := NewTracker(1)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			tr.Report("agent", fmt.Sprintf("T%d", i), "Scoring")
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Report blocked on a full queue")
	}
	assert.Equal(t, int64(99), tr.Dropped())

	tr.Stop()
	tr.Report("agent", "AFTER", "Done")
	assert.Equal(t, "AFTER", tr.Snapshot()["agent"].Ticker)
}

func TestConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf)
	c.Update(Status{Agent: "ben_graham_agent", Ticker: "INFY", Text: "Done"})
	c.Update(Status{Agent: "warren_buffett_agent", Ticker: "INFY", Text: "Error"})
	c.Update(Status{Agent: "portfolio_manager", Text: "Synthesizing"})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "✓ Ben Graham      [INFY] Done", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "✗ Warren Buffett"))
	assert.Equal(t, "⋯ Portfolio Manager Synthesizing", lines[2])
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Ben Graham", DisplayName("ben_graham_agent"))
	assert.Equal(t, "Warren Buffett", DisplayName("warren_buffett_agent"))
	assert.Equal(t, "Portfolio Manager", DisplayName("portfolio_manager"))
}

func TestStatusDone(t *testing.T) {
	assert.True(t, Status{Text: "Done"}.Done())
	assert.True(t, Status{Text: "Error"}.Done())
	assert.False(t, Status{Text: "Retrying LLM (1)"}.Done())
}
