package events

// Signal is a single-slot coalescing notification. Raising it any number of
// times before the consumer takes it yields one delivery.
type Signal struct {
	c chan struct{}
}

func NewSignal() *Signal {
	return &Signal{c: make(chan struct{}, 1)}
}

// Raise posts the signal without blocking. It is safe to call from any
// goroutine.
func (s *Signal) Raise() {
	select {
	case s.c <- struct{}{}:
	default:
	}
}

// Take consumes a pending signal and reports whether there was one.
func (s *Signal) Take() bool {
	select {
	case <-s.c:
		return true
	default:
		return false
	}
}

// C returns the channel that receives when the signal is raised.
func (s *Signal) C() <-chan struct{} { return s.c }
