package governor

import "time"

// Clock abstracts wall-clock access so the refill/wait math can be tested
// without real sleeps: a fake clock can advance Now() by exactly the
// duration a production caller would have slept, making saturation and
// wait-time scenarios deterministic.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

// realClock is the default Clock, backed by the actual wall clock.
type realClock struct{}

func (realClock) Now() time.Time        { return time.Now() }
func (realClock) Sleep(d time.Duration) { time.Sleep(d) }
