package clock

import (
	"testing"
	"time"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func TestFakeClock_NowAdvance(t *testing.T) {
	c := Fake(epoch)
	if !c.Now().Equal(epoch) {
		t.Fatalf("Now() = %v, want %v", c.Now(), epoch)
	}
	c.Advance(1500 * time.Millisecond)
	if got, want := c.Now(), epoch.Add(1500*time.Millisecond); !got.Equal(want) {
		t.Errorf("Now() = %v, want %v", got, want)
	}
}

func TestFakeClock_TickerFiresOnDeadline(t *testing.T) {
	c := Fake(epoch)
	ticker := c.NewTicker(time.Second)
	defer ticker.Stop()

	c.Advance(999 * time.Millisecond)
	select {
	case <-ticker.C:
		t.Fatal("ticker fired before its deadline")
	default:
	}

	c.Advance(time.Millisecond)
	select {
	case tick := <-ticker.C:
		if !tick.Equal(epoch.Add(time.Second)) {
			t.Errorf("tick = %v, want %v", tick, epoch.Add(time.Second))
		}
	default:
		t.Fatal("ticker did not fire at its deadline")
	}
}

func TestFakeClock_TickerDropsWhenBehind(t *testing.T) {
	c := Fake(epoch)
	ticker := c.NewTicker(time.Second)

	// Five deadlines crossed, buffer holds one.
	c.Advance(5 * time.Second)
	<-ticker.C
	select {
	case <-ticker.C:
		t.Fatal("expected missed ticks to be dropped")
	default:
	}

	c.Advance(time.Second)
	select {
	case <-ticker.C:
	default:
		t.Fatal("ticker stopped firing after falling behind")
	}
}

func TestFakeClock_StopRemovesTicker(t *testing.T) {
	c := Fake(epoch)
	ticker := c.NewTicker(time.Second)
	if c.TickerCount() != 1 {
		t.Fatalf("TickerCount() = %d, want 1", c.TickerCount())
	}
	ticker.Stop()
	c.Advance(2 * time.Second)
	if c.TickerCount() != 0 {
		t.Errorf("TickerCount() = %d after Stop, want 0", c.TickerCount())
	}
	select {
	case <-ticker.C:
		t.Error("stopped ticker fired")
	default:
	}
}

func TestFakeClock_NewTickerPanicsOnZero(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("NewTicker(0) did not panic")
		}
	}()
	Fake(epoch).NewTicker(0)
}
