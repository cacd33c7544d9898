package util

import (
	"sync"
	"testing"
	"time"
)

func TestStopwatch_PauseResume(t *testing.T) {
	sw := &Stopwatch{}
	if sw.Running() || sw.Elapsed() != 0 {
		t.Fatalf("Expected a stopped, zero stopwatch, got running=%v elapsed=%v", sw.Running(), sw.Elapsed())
	}

	sw.Start()
	sw.Start() // no-op, must not restart the lap
	time.Sleep(5 * time.Millisecond)
	sw.Stop()
	paused := sw.Elapsed()
	if paused < 5*time.Millisecond {
		t.Errorf("Expected at least 5ms elapsed, got %v", paused)
	}

	time.Sleep(5 * time.Millisecond)
	if sw.Elapsed() != paused {
		t.Error("Elapsed time should not increase while stopped")
	}

	sw.Start()
	time.Sleep(5 * time.Millisecond)
	if sw.Elapsed() < paused+5*time.Millisecond {
		t.Errorf("Expected elapsed to resume from %v, got %v", paused, sw.Elapsed())
	}
}

func TestStopwatch_Set(t *testing.T) {
	sw := &Stopwatch{}

	sw.Set(time.Minute)
	if elapsed := sw.Elapsed(); elapsed != time.Minute {
		t.Errorf("Expected 1m after Set, got %v", elapsed)
	}
	if sw.Running() {
		t.Error("Set should not start a stopped stopwatch")
	}

	sw.Set(-time.Second)
	if elapsed := sw.Elapsed(); elapsed != 0 {
		t.Errorf("Expected negative Set to clamp to 0, got %v", elapsed)
	}

	// Set while running keeps running from the new point
	sw.Start()
	sw.Set(time.Hour)
	time.Sleep(5 * time.Millisecond)
	elapsed := sw.Elapsed()
	if elapsed < time.Hour+5*time.Millisecond || elapsed > time.Hour+time.Second {
		t.Errorf("Expected just over 1h after Set while running, got %v", elapsed)
	}
	if !sw.Running() {
		t.Error("Set should not stop a running stopwatch")
	}
}

func TestStopwatch_ResetWhileRunning(t *testing.T) {
	sw := &Stopwatch{}
	sw.Start()
	sw.Set(time.Minute)
	sw.Reset()
	if sw.Running() || sw.Elapsed() != 0 {
		t.Errorf("Expected a stopped, zero stopwatch after Reset, got running=%v elapsed=%v", sw.Running(), sw.Elapsed())
	}
}

// The demo player ticks the stopwatch from its own goroutine while
// bus calls seek and pause it.
func TestStopwatch_ConcurrentUse(t *testing.T) {
	sw := &Stopwatch{}
	var wg sync.WaitGroup
	const iterations = 200

	ops := []func(i int){
		func(int) { sw.Start() },
		func(int) { sw.Stop() },
		func(i int) { sw.Set(time.Duration(i) * time.Millisecond) },
		func(int) {
			if sw.Elapsed() < 0 {
				t.Error("Elapsed time should never be negative")
			}
		},
		func(int) { _ = sw.Running() },
	}
	wg.Add(len(ops))
	for _, op := range ops {
		go func() {
			defer wg.Done()
			for i := 0; i < iterations; i++ {
				op(i)
			}
		}()
	}
	wg.Wait()

	sw.Stop()
	sw.Set(time.Second)
	if sw.Elapsed() != time.Second {
		t.Errorf("Expected 1s after concurrent use, got %v", sw.Elapsed())
	}
}
