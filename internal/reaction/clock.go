package reaction

import "time"

// Clock provides the current time.
// Tests swap in a manual clock to control elapsed time.
type Clock interface {
	Now() time.Time
}

// SystemClock is the default Clock backed by time.Now.
var SystemClock Clock = systemClock{}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}
