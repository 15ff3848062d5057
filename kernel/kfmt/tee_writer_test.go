package kfmt

import (
	"bytes"
	"errors"
	"testing"
)

func TestTeeWriter(t *testing.T) {
	var a, b bytes.Buffer
	tw := NewTeeWriter(&a, nil, &b)

	n, err := tw.Write([]byte("EXCEPTION: BREAKPOINT\n"))
	if err != nil {
		t.Fatal(err)
	}

	if exp := len("EXCEPTION: BREAKPOINT\n"); n != exp {
		t.Fatalf("expected to write %d bytes; wrote %d", exp, n)
	}

	if a.String() != b.String() || a.String() != "EXCEPTION: BREAKPOINT\n" {
		t.Fatalf("expected both sinks to receive the data; got %q and %q", a.String(), b.String())
	}
}

func TestTeeWriterKeepsWritingAfterError(t *testing.T) {
	var (
		buf    bytes.Buffer
		expErr = errors.New("console gone")
		tw     = NewTeeWriter(writerThatAlwaysErrors{expErr}, &buf)
	)

	if _, err := tw.Write([]byte("halted")); err != expErr {
		t.Fatalf("expected error %v; got %v", expErr, err)
	}

	if got := buf.String(); got != "halted" {
		t.Fatalf("expected healthy sink to receive the data; got %q", got)
	}
}

// lockedSink models a driver whose lock may be held by interrupted code.
type lockedSink struct {
	bytes.Buffer
	busy bool
}

func (s *lockedSink) TryWrite(p []byte) (int, bool) {
	if s.busy {
		return 0, false
	}
	n, _ := s.Write(p)
	return n, true
}

func TestTeeWriterTryWrite(t *testing.T) {
	specs := []struct {
		descr     string
		busy      bool
		expOK     bool
		expLocked string
	}{
		{"all sinks free", false, true, "halted"},
		{"locked sink busy", true, true, ""},
	}

	for _, spec := range specs {
		t.Run(spec.descr, func(t *testing.T) {
			var (
				serial bytes.Buffer
				cons   = &lockedSink{busy: spec.busy}
				tw     = NewTeeWriter(&serial, cons)
			)

			if _, ok := tw.TryWrite([]byte("halted")); ok != spec.expOK {
				t.Fatalf("expected TryWrite to return %t; got %t", spec.expOK, ok)
			}

			if got := serial.String(); got != "halted" {
				t.Fatalf("expected the free sink to receive the data; got %q", got)
			}

			if got := cons.String(); got != spec.expLocked {
				t.Fatalf("expected the locked sink to receive %q; got %q", spec.expLocked, got)
			}
		})
	}

	busy := &lockedSink{busy: true}
	if _, ok := NewTeeWriter(busy).TryWrite([]byte("x")); ok {
		t.Fatal("expected TryWrite to fail when no sink accepts the data")
	}
}

func TestNonBlocking(t *testing.T) {
	if NonBlocking(nil) != nil {
		t.Fatal("expected NonBlocking(nil) to return nil")
	}

	var buf bytes.Buffer
	if w := NonBlocking(&buf); w != &buf {
		t.Fatal("expected a plain writer to be returned unwrapped")
	}

	sink := &lockedSink{busy: true}
	w := NonBlocking(sink)
	if _, err := w.Write([]byte("x")); err != errSinkBusy {
		t.Fatalf("expected error %v; got %v", errSinkBusy, err)
	}

	sink.busy = false
	if n, err := w.Write([]byte("x")); err != nil || n != 1 || sink.String() != "x" {
		t.Fatalf("expected write to a free sink to succeed; got %d, %v, %q", n, err, sink.String())
	}
}

func TestFatalSink(t *testing.T) {
	defer func() {
		outputSink = nil
		earlyPrintBuffer.Reset()
	}()

	earlyPrintBuffer.Reset()
	Fprintf(FatalSink(), "early")

	var serial bytes.Buffer
	cons := &lockedSink{busy: true}
	SetOutputSink(NewTeeWriter(&serial, cons))

	if got := serial.String(); got != "early" {
		t.Fatalf("expected buffered fatal output to be replayed; got %q", got)
	}

	serial.Reset()
	Fprintf(FatalSink(), "EXCEPTION: %s\n", "DOUBLE FAULT")

	if exp, got := "EXCEPTION: DOUBLE FAULT\n", serial.String(); got != exp {
		t.Fatalf("expected %q on the free sink; got %q", exp, got)
	}

	if got := cons.String(); got != "early" {
		t.Fatalf("expected the busy sink to be skipped; got %q", got)
	}
}
