package main

import "micecore/kernel/kmain"

// main makes a dummy call to the actual kernel main entrypoint function. It
// is intentionally defined to prevent the Go compiler from optimizing away the
// real kernel code.
//
// The rt0 code that hands control to kmain.Kmain is provided by the boot
// image and is not part of this module.
func main() {
	kmain.Kmain()
}
