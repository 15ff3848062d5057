package kernel

import "testing"

func TestKernelError(t *testing.T) {
	err := &Error{
		Module:  "pic",
		Message: "controller pair not remapped",
	}

	if err.Error() != err.Message {
		t.Fatalf("expected to err.Error() to return %q; got %q", err.Message, err.Error())
	}

	var asErr error = err
	if asErr.Error() != "controller pair not remapped" {
		t.Fatalf("unexpected message via error interface: %q", asErr.Error())
	}
}
