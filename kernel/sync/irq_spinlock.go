package sync

// InterruptControl groups the CPU primitives that IRQSpinlock uses to mask
// interrupt delivery around its critical sections.
type InterruptControl struct {
	Enabled func() bool
	Disable func()
	Enable  func()
}

// irqControl is a no-op until the boot code binds the real CPU primitives
// via SetInterruptControl.
var irqControl = InterruptControl{
	Enabled: func() bool { return false },
	Disable: func() {},
	Enable:  func() {},
}

// SetInterruptControl binds the interrupt masking primitives used by all
// IRQSpinlock instances and returns the previously active set. It must be
// invoked once during boot, before interrupts are enabled for the first time.
func SetInterruptControl(ctrl InterruptControl) InterruptControl {
	prev := irqControl
	irqControl = ctrl
	return prev
}

// IRQSpinlock is a Spinlock that can be shared between normal-mode code and
// interrupt handlers. Normal-mode code that holds the lock cannot be
// preempted by a handler that wants the same lock because interrupt
// delivery stays masked for the whole critical section.
type IRQSpinlock struct {
	lock Spinlock
}

// Do masks interrupts, acquires the lock and runs fn. The lock is released
// and the interrupt-enable state that was active before the call is restored
// on every exit path out of fn, including panics.
func (l *IRQSpinlock) Do(fn func()) {
	restore := irqControl.Enabled()
	if restore {
		irqControl.Disable()
	}
	l.lock.Acquire()

	defer func() {
		l.lock.Release()
		if restore {
			irqControl.Enable()
		}
	}()

	fn()
}

// TryDo behaves like Do but never waits: if the lock is already held, fn is
// not invoked, the interrupt-enable state is left untouched and TryDo
// returns false. Code that cannot return to the lock owner (fault handlers,
// the panic path) uses TryDo to avoid spinning on a lock held by the
// context it interrupted.
func (l *IRQSpinlock) TryDo(fn func()) bool {
	restore := irqControl.Enabled()
	if restore {
		irqControl.Disable()
	}

	if !l.lock.TryToAcquire() {
		if restore {
			irqControl.Enable()
		}
		return false
	}

	defer func() {
		l.lock.Release()
		if restore {
			irqControl.Enable()
		}
	}()

	fn()
	return true
}

// Held returns true if the lock is currently acquired.
func (l *IRQSpinlock) Held() bool {
	return l.lock.Held()
}
