package kfmt

import (
	"io"
	"micecore/kernel"
)

var errSinkBusy = &kernel.Error{Module: "kfmt", Message: "sink busy"}

// TryWriter is implemented by sinks guarded by a lock that the interrupted
// context may be holding. TryWrite never waits for that lock; it returns
// false when the sink was busy and nothing was written.
type TryWriter interface {
	TryWrite(p []byte) (int, bool)
}

// TeeWriter duplicates each write to all of its sinks. Unlike io.MultiWriter,
// a failing sink does not prevent the remaining sinks from receiving the
// data: a broken console must not silence the serial line and vice versa.
// Write reports the first error encountered.
type TeeWriter struct {
	sinks []io.Writer
}

// NewTeeWriter returns a TeeWriter for the supplied sinks. Nil sinks are
// skipped. Sinks are written in the order they are supplied.
func NewTeeWriter(sinks ...io.Writer) *TeeWriter {
	tw := &TeeWriter{sinks: make([]io.Writer, 0, len(sinks))}
	for _, s := range sinks {
		if s != nil {
			tw.sinks = append(tw.sinks, s)
		}
	}
	return tw
}

// Write implements io.Writer.
func (tw *TeeWriter) Write(p []byte) (int, error) {
	var firstErr error
	for _, s := range tw.sinks {
		if _, err := s.Write(p); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if firstErr != nil {
		return 0, firstErr
	}
	return len(p), nil
}

// TryWrite implements TryWriter. Busy sinks are skipped; the write succeeds
// if at least one sink accepted the data.
func (tw *TeeWriter) TryWrite(p []byte) (int, bool) {
	var accepted bool
	for _, s := range tw.sinks {
		if ts, ok := s.(TryWriter); ok {
			if _, ok = ts.TryWrite(p); ok {
				accepted = true
			}
			continue
		}

		if _, err := s.Write(p); err == nil {
			accepted = true
		}
	}

	if !accepted {
		return 0, false
	}
	return len(p), true
}

// nonBlockingWriter routes writes through TryWrite when the wrapped sink
// supports it.
type nonBlockingWriter struct {
	w io.Writer
}

// NonBlocking returns a writer that never waits on a lock held by the
// interrupted context: writes to a TryWriter go through TryWrite and fail
// with an error if the sink is busy. Other sinks are written as-is.
//
// The returned wrapper is heap allocated; call NonBlocking while setting up
// a handler, not from the handler itself.
func NonBlocking(w io.Writer) io.Writer {
	if w == nil {
		return nil
	}
	if _, ok := w.(TryWriter); !ok {
		return w
	}
	return &nonBlockingWriter{w: w}
}

func (nb *nonBlockingWriter) Write(p []byte) (int, error) {
	n, ok := nb.w.(TryWriter).TryWrite(p)
	if !ok {
		return n, errSinkBusy
	}
	return n, nil
}
