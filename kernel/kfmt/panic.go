package kfmt

import (
	"micecore/kernel"
	"micecore/kernel/cpu"
)

var (
	// cpuHaltFn is mocked by tests and is automatically inlined by the compiler.
	cpuHaltFn = cpu.HaltForever

	errRuntimePanic = &kernel.Error{Module: "rt", Message: "unknown cause"}
)

// Panic outputs the supplied error (if not nil) to the active sink and halts
// the CPU. Calls to Panic never return. The diagnostic goes out through
// FatalSink before the halt so a sink whose lock is held by the interrupted
// code cannot stall it.
func Panic(e interface{}) {
	var err *kernel.Error

	switch t := e.(type) {
	case *kernel.Error:
		err = t
	case string:
		panicString(t)
		return
	case error:
		errRuntimePanic.Message = t.Error()
		err = errRuntimePanic
	}

	w := FatalSink()
	Fprintf(w, "\n-----------------------------------\n")
	if err != nil {
		Fprintf(w, "[%s] unrecoverable error: %s\n", err.Module, err.Message)
	}
	Fprintf(w, "*** kernel panic: system halted ***")
	Fprintf(w, "\n-----------------------------------\n")

	cpuHaltFn()
}

// panicString reports a plain message as a runtime error.
func panicString(msg string) {
	errRuntimePanic.Message = msg
	Panic(errRuntimePanic)
}
