package gate

import (
	"math/rand/v2"
	"time"
)

// Timer is a pending delayed transition
type Timer interface {
	Stop() bool
}

// Clock schedules delayed transitions. Production uses the wall clock; tests
// substitute a manual one.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// RealClock returns the wall clock
func RealClock() Clock { return realClock{} }

// Picker returns an index in [0, n)
type Picker func(n int) int

// UniformPicker draws uniformly at random. Repeats are allowed.
func UniformPicker(n int) int {
	return rand.IntN(n)
}
