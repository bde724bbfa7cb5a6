package abacus

import (
	"sync"
	"time"
)

// Scheduler runs fn after delay. Hosts with their own event loop usually
// leave the engine without a scheduler and deliver Completion tickets
// themselves.
type Scheduler interface {
	Schedule(delay time.Duration, fn func())
}

// SchedulerFunc adapts a function to the Scheduler interface.
type SchedulerFunc func(delay time.Duration, fn func())

func (f SchedulerFunc) Schedule(delay time.Duration, fn func()) { f(delay, fn) }

// TimerScheduler schedules with time.AfterFunc. A timer is forgotten once
// it fires, so only pending timers are held.
type TimerScheduler struct {
	mu     sync.Mutex
	next   uint64
	timers map[uint64]*time.Timer
}

// Schedule implements Scheduler.
func (s *TimerScheduler) Schedule(delay time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timers == nil {
		s.timers = make(map[uint64]*time.Timer)
	}
	s.next++
	id := s.next
	s.timers[id] = time.AfterFunc(delay, func() {
		s.mu.Lock()
		delete(s.timers, id)
		s.mu.Unlock()
		fn()
	})
}

// Pending returns the number of timers that have not fired or been stopped.
func (s *TimerScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// Stop cancels every pending timer.
func (s *TimerScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.timers {
		t.Stop()
	}
	s.timers = nil
}
