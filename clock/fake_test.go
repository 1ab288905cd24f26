package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFake_Advance_Moves_Now(t *testing.T) {
	req := require.New(t)
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := Fake(start)

	c.Advance(90 * time.Second)

	req.Equal(start.Add(90*time.Second), c.Now())
}

func TestFake_Ticker_Fires_On_Advance(t *testing.T) {
	req := require.New(t)
	c := Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	ticker := c.NewTicker(time.Minute)
	defer ticker.Stop()

	c.Advance(30 * time.Second)
	select {
	case <-ticker.C:
		req.Fail("ticker fired too early")
	default:
	}

	c.Advance(30 * time.Second)
	select {
	case <-ticker.C:
	default:
		req.Fail("ticker should have fired")
	}
}

func TestFake_Stopped_Ticker_Does_Not_Fire(t *testing.T) {
	req := require.New(t)
	c := Fake(time.Now())
	ticker := c.NewTicker(time.Second)
	ticker.Stop()

	c.Advance(5 * time.Second)

	req.Len(ticker.C, 0)
}
