package app

// Observer receives domain events worth counting. The HTTP adapter
// implements it with Prometheus collectors.
type Observer interface {
	ScoreComputed(score float64)
	DDIWarning(kind string)
	VelocityAlert()
	EventsSkipped(kind string, n int)
	GoalComputed(goalMl int)
}

// NopObserver discards every event.
type NopObserver struct{}

func (NopObserver) ScoreComputed(float64)     {}
func (NopObserver) DDIWarning(string)         {}
func (NopObserver) VelocityAlert()            {}
func (NopObserver) EventsSkipped(string, int) {}
func (NopObserver) GoalComputed(int)          {}
