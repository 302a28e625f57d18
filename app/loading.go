package app

import "sync/atomic"

// Loading is raised while a transfer is in flight.
type Loading struct {
	active atomic.Int32
}

func (l *Loading) Start() {
	l.active.Add(1)
}

func (l *Loading) Stop() {
	l.active.Add(-1)
}

func (l *Loading) Active() bool {
	return l.active.Load() > 0
}
