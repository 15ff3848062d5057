package kfmt

import "io"

// PrefixWriter is an io.Writer that wraps another io.Writer and injects a
// prefix at the beginning of each line. The kernel uses it to tag boot log
// output with the name of the subsystem that produced it (e.g. "[pic] ").
type PrefixWriter struct {
	// A writer where all writes get sent to.
	Sink io.Writer

	// The prefix injected at the beginning of each line.
	Prefix []byte

	bytesAfterPrefix int
}

// Write writes len(p) bytes from p to the underlying data stream and returns
// back the number of bytes written. The PrefixWriter keeps track of the
// beginning of new lines and injects the configured prefix at each new line.
// The injected prefix is not included in the number of written bytes returned
// by this method.
func (w *PrefixWriter) Write(p []byte) (int, error) {
	var (
		written              int
		startIndex, curIndex int
	)

	if w.bytesAfterPrefix == 0 && len(p) != 0 {
		writeTo(w.Sink, w.Prefix)
	}

	for ; curIndex < len(p); curIndex++ {
		if p[curIndex] == '\n' {
			n, err := writeTo(w.Sink, p[startIndex:curIndex+1])
			if curIndex+1 != len(p) {
				writeTo(w.Sink, w.Prefix)
			}
			written += n
			if err != nil {
				return written, err
			}
			w.bytesAfterPrefix = 0
			startIndex = curIndex + 1
		}
	}

	if startIndex < curIndex {
		n, err := writeTo(w.Sink, p[startIndex:curIndex])
		written += n
		w.bytesAfterPrefix = n
		if err != nil {
			return written, err
		}
	}

	return written, nil
}

// NewPrefixWriter returns a PrefixWriter that tags each line written to sink
// with "[module] ".
func NewPrefixWriter(sink io.Writer, module string) *PrefixWriter {
	prefix := make([]byte, 0, len(module)+3)
	prefix = append(prefix, '[')
	prefix = append(prefix, module...)
	prefix = append(prefix, ']', ' ')

	return &PrefixWriter{Sink: sink, Prefix: prefix}
}

// writeTo sends p to w or, while no sink is attached, to the early ring
// buffer.
func writeTo(w io.Writer, p []byte) (int, error) {
	if w == nil {
		return earlyPrintBuffer.Write(p)
	}
	return w.Write(p)
}
