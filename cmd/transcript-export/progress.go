package main

import (
	"fmt"
	"io"
	"sync"
)

// stderrProgress shows the current step on one terminal line and clears it
// when the step ends.
type stderrProgress struct {
	w     io.Writer
	mu    sync.Mutex
	shown bool
}

func (p *stderrProgress) Show(label string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.w, "\r\033[K⏳ %s", label)
	p.shown = true
}

func (p *stderrProgress) Hide() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.shown {
		fmt.Fprint(p.w, "\r\033[K")
		p.shown = false
	}
}

// stderrNotifier prints failure messages.
type stderrNotifier struct {
	w io.Writer
}

func (n stderrNotifier) Alert(msg string) {
	fmt.Fprintln(n.w, msg)
}
