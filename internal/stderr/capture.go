//go:build !windows

package stderr

import (
	"os"

	"golang.org/x/sys/unix"
)

// Capture redirects fd 2 into a pipe for as long as it is running.
type Capture struct {
	lines    chan string
	orig     int
	r, w     *os.File
	restored bool
}

// Start redirects stderr. Call it before the audio device is opened.
// On error stderr is left untouched and the program can carry on.
func Start() (*Capture, error) {
	r, w, err := os.Pipe()
	if err != nil {
		return nil, err
	}
	fd := int(os.Stderr.Fd())

	orig, err := unix.Dup(fd)
	if err != nil {
		r.Close()
		w.Close()
		return nil, err
	}
	if err := unix.Dup2(int(w.Fd()), fd); err != nil {
		unix.Close(orig)
		r.Close()
		w.Close()
		return nil, err
	}

	c := &Capture{lines: make(chan string, bufferSize), orig: orig, r: r, w: w}
	go pump(r, c.lines)
	return c, nil
}

// Lines delivers captured lines. It is closed after Stop.
func (c *Capture) Lines() <-chan string {
	return c.lines
}

// WriteOriginal writes to the real stderr, bypassing the capture.
func (c *Capture) WriteOriginal(msg string) {
	_, _ = unix.Write(c.orig, []byte(msg))
}

// Stop restores the original stderr.
func (c *Capture) Stop() {
	if c.restored {
		return
	}
	c.restored = true
	_ = unix.Dup2(c.orig, int(os.Stderr.Fd()))
	_ = unix.Close(c.orig)
	c.w.Close()
	c.r.Close()
}
