package reader

import "time"

// Cancel stops a scheduled callback. Calling it after the callback ran is a no-op.
type Cancel func()

// Scheduler runs fn once after delay.
type Scheduler interface {
	Schedule(delay time.Duration, fn func()) Cancel
}

// TimerScheduler schedules callbacks on runtime timers.
type TimerScheduler struct{}

// Schedule implements Scheduler with time.AfterFunc.
func (TimerScheduler) Schedule(delay time.Duration, fn func()) Cancel {
	t := time.AfterFunc(delay, fn)
	return func() { t.Stop() }
}
