//go:build !windows

// Package stderr captures stderr output from C libraries (ALSA, the audio
// backend) that write directly to file descriptor 2, bypassing Go's os.Stderr.
// This prevents raw error messages from corrupting the TUI layout.
package stderr

import (
	"os"
	"sync"
	"syscall"

	"github.com/sirupsen/logrus"
)

// Capture redirects fd 2 into a pipe and forwards every line to a logger.
type Capture struct {
	origStderr int
	pipeRead   *os.File
	pipeWrite  *os.File
	done       chan struct{}
	once       sync.Once
}

// Start begins capturing stderr output.
// Must be called before the audio backend is initialized.
// Returns an error if capture cannot be set up, but the program can continue
// without stderr capture (errors will just go to the original stderr).
// onLine, if not nil, also receives each captured line.
func Start(log logrus.FieldLogger, onLine func(string)) (*Capture, error) {
	r, w, err := os.Pipe()
	if err != nil {
		return nil, err
	}

	origStderr, err := syscall.Dup(int(os.Stderr.Fd()))
	if err != nil {
		r.Close()
		w.Close()
		return nil, err
	}

	if err := syscall.Dup2(int(w.Fd()), int(os.Stderr.Fd())); err != nil {
		syscall.Close(origStderr)
		r.Close()
		w.Close()
		return nil, err
	}

	c := &Capture{
		origStderr: origStderr,
		pipeRead:   r,
		pipeWrite:  w,
		done:       make(chan struct{}),
	}
	go func() {
		defer close(c.done)
		forward(r, log, onLine)
	}()
	return c, nil
}

// WriteOriginal writes directly to the original stderr, bypassing capture.
// Useful for fatal errors that must be visible even if TUI is running.
func (c *Capture) WriteOriginal(msg string) {
	if c == nil {
		_, _ = os.Stderr.WriteString(msg)
		return
	}
	_, _ = syscall.Write(c.origStderr, []byte(msg))
}

// Stop restores the original stderr and waits for pending lines to be logged.
func (c *Capture) Stop() {
	if c == nil {
		return
	}
	c.once.Do(func() {
		_ = syscall.Dup2(c.origStderr, int(os.Stderr.Fd()))
		_ = syscall.Close(c.origStderr)
		c.pipeWrite.Close()
		<-c.done
		c.pipeRead.Close()
	})
}
