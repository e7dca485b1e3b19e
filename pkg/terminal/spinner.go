package terminal

import (
	"sync"
	"time"
)

// Spinner shows a running background operation such as a scan. It writes nothing when the
// output is not a terminal.
type Spinner struct {
	Frames []string
	FPS    time.Duration
	Stream *Out

	mu   sync.Mutex
	stop chan struct{}
	done chan struct{}
}

func NewDotSpinner(o *Out) *Spinner {
	return &Spinner{
		Frames: []string{"⣾ ", "⣽ ", "⣻ ", "⢿ ", "⡿ ", "⣟ ", "⣯ ", "⣷ "},
		FPS:    time.Second / 10,
		Stream: o,
	}
}

// Spin starts the animation with label after the frame.
func (s *Spinner) Spin(label string) *Spinner {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stop != nil || !s.Stream.isTerminal {
		return s
	}

	s.stop = make(chan struct{})
	s.done = make(chan struct{})

	s.Stream.HideCursor()

	go func(stop, done chan struct{}) {
		defer close(done)

		t := time.NewTicker(s.FPS)
		defer t.Stop()

		for i := 0; ; i++ {
			select {
			case <-stop:
				return
			case <-t.C:
				s.Stream.Printf("\r%s%s", s.Frames[i%len(s.Frames)], label)
			}
		}
	}(s.stop, s.done)

	return s
}

// Stop ends the animation and clears its line. Stopping a spinner that never started is a no-op.
func (s *Spinner) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stop == nil {
		return
	}

	close(s.stop)
	<-s.done
	s.stop, s.done = nil, nil

	s.Stream.Print("\r")
	s.Stream.ClearLine()
	s.Stream.ShowCursor()
}
