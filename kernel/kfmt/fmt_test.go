package kfmt

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
)

func TestPrintf(t *testing.T) {
	defer func() {
		outputSink = nil
	}()

	// mute vet warnings about malformed printf formatting strings
	printfn := Printf

	specs := []struct {
		fn        func()
		expOutput string
	}{
		{
			func() { printfn("interrupts enabled\n") },
			"interrupts enabled\n",
		},
		// strings and byte slices
		{
			func() { printfn("[%s] unrecoverable error: %s", "gate", "unhandled interrupt") },
			"[gate] unrecoverable error: unhandled interrupt",
		},
		{
			func() { printfn("%s", []byte("[hal] ")) },
			"[hal] ",
		},
		{
			func() { printfn("'%4s' arg with padding", "ABC") },
			"' ABC' arg with padding",
		},
		// unsigned values as used by device and register reports
		{
			func() { printfn("port 0x%x, %d baud", uint16(0x3f8), 38400) },
			"port 0x3f8, 38400 baud",
		},
		{
			func() { printfn("masks: 0x%2x/0x%2x", uint8(0x1), uint8(0xfc)) },
			"masks: 0x01/0xfc",
		},
		{
			func() { printfn("RIP = %16x", uint64(0xbadf00d)) },
			"RIP = 000000000badf00d",
		},
		{
			func() { printfn("text buffer at 0x%x", uintptr(0xb8000)) },
			"text buffer at 0xb8000",
		},
		{
			func() { printfn("vector '%4d'", uint8(33)) },
			"vector '  33'",
		},
		// signed values
		{
			func() { printfn("flushed %d byte(s)", 0) },
			"flushed 0 byte(s)",
		},
		{
			func() { printfn("int arg: %d, %x", int8(-10), int32(-0xbadf00d)) },
			"int arg: -10, -badf00d",
		},
		{
			func() { printfn("int arg with padding: '%10d'", int64(-12345678)) },
			"int arg with padding: ' -12345678'",
		},
		{
			func() { printfn("padding longer than maxBufSize '%128x'", int(-0xbadf00d)) },
			fmt.Sprintf("padding longer than maxBufSize '-%sbadf00d'", strings.Repeat("0", maxBufSize-8)),
		},
		// characters
		{
			func() { printfn("key: %c", byte('a')) },
			"key: a",
		},
		{
			func() { printfn("key: %c%c", 'Z', rune(0x263a)) },
			"key: Z?",
		},
		{
			func() { printfn("not char %c", "foo") },
			`not char %!(WRONGTYPE)`,
		},
		// multiple arguments
		{
			func() { printfn("%%%s%d%c", "foo", 123, 'k') },
			`%foo123k`,
		},
		// errors
		{
			func() { printfn("more args", "foo", "bar") },
			`more args%!(EXTRA)%!(EXTRA)`,
		},
		{
			func() { printfn("missing args %s") },
			`missing args (MISSING)`,
		},
		{
			func() { printfn("unsupported verb %t", true) },
			`unsupported verb %!(NOVERB)%!(EXTRA)`,
		},
		{
			func() { printfn("not int %d", "foo") },
			`not int %!(WRONGTYPE)`,
		},
		{
			func() { printfn("not string %s", 123) },
			`not string %!(WRONGTYPE)`,
		},
	}

	var buf bytes.Buffer
	SetOutputSink(&buf)

	for specIndex, spec := range specs {
		buf.Reset()
		spec.fn()

		if got := buf.String(); got != spec.expOutput {
			t.Errorf("[spec %d] expected to get\n%q\ngot:\n%q", specIndex, spec.expOutput, got)
		}
	}
}

func TestPrintfToRingBuffer(t *testing.T) {
	defer func() {
		outputSink = nil
	}()

	earlyPrintBuffer.Reset()
	SetOutputSink(nil)
	if GetOutputSink() != nil {
		t.Fatal("expected GetOutputSink to return nil while output is buffered")
	}

	exp := "[kmain] booting\n"
	Printf("[%s] booting\n", "kmain")

	var buf bytes.Buffer
	SetOutputSink(&buf)

	if got := buf.String(); got != exp {
		t.Fatalf("expected to get:\n%q\ngot:\n%q", exp, got)
	}

	if GetOutputSink() != &buf {
		t.Fatal("expected GetOutputSink to return the registered sink")
	}
}

func TestFprintf(t *testing.T) {
	var buf bytes.Buffer

	exp := "hello world"
	Fprintf(&buf, exp)

	if got := buf.String(); got != exp {
		t.Fatalf("expected to get:\n%q\ngot:\n%q", exp, got)
	}
}
