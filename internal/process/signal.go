package process

import "sync"

// CancellationSignal is a one-way flag shared by every runner of a load cycle.
// Setting it is idempotent and it is never reset; a new load cycle gets a new signal.
type CancellationSignal struct {
	once sync.Once
	done chan struct{}
}

// NewCancellationSignal creates an unset signal.
func NewCancellationSignal() *CancellationSignal {
	return &CancellationSignal{done: make(chan struct{})}
}

// Set raises the signal. Safe to call any number of times from any goroutine.
func (s *CancellationSignal) Set() {
	s.once.Do(func() { close(s.done) })
}

// IsSet reports whether the signal has been raised.
func (s *CancellationSignal) IsSet() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

// Done returns a channel closed once the signal is raised.
func (s *CancellationSignal) Done() <-chan struct{} {
	return s.done
}
