package mathrender

import "runtime"

// Worker bounds for concurrent rendering.
const (
	MinWorkers = 1
	MaxWorkers = 16
)

// ResolveWorkers determines the rendering concurrency.
// Priority: explicit workers > GOMAXPROCS, capped at MaxWorkers.
func ResolveWorkers(workers int) int {
	if workers > 0 {
		return workers
	}

	n := runtime.GOMAXPROCS(0)
	if n < MinWorkers {
		return MinWorkers
	}
	if n > MaxWorkers {
		return MaxWorkers
	}
	return n
}
