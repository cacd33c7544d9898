package util

import (
	"sync"
	"time"
)

// Stopwatch accumulates running time across Start/Stop cycles.
// It is safe for concurrent use.
type Stopwatch struct {
	mu      sync.Mutex
	running bool
	started time.Time
	elapsed time.Duration
}

func (s *Stopwatch) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.started = time.Now()
	s.running = true
}

func (s *Stopwatch) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.elapsed += time.Since(s.started)
	s.running = false
}

func (s *Stopwatch) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *Stopwatch) Elapsed() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.elapsed
	if s.running {
		e += time.Since(s.started)
	}
	return e
}

// Set moves the elapsed time to d, clamped at zero, without changing
// whether the stopwatch is running.
func (s *Stopwatch) Set(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.elapsed = max(d, 0)
	if s.running {
		s.started = time.Now()
	}
}

func (s *Stopwatch) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = false
	s.elapsed = time.Duration(0)
}
