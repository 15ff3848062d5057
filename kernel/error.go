// Package kernel contains the types shared by every kernel subsystem.
package kernel

// Error describes a kernel error. Kernel errors are declared as package-level
// pointers to Error values so they can be returned from interrupt context
// without touching the allocator.
type Error struct {
	// The module where the error occurred.
	Module string

	// The error message
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}
