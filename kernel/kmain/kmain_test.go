package kmain

import (
	"micecore/kernel"
	"micecore/kernel/cpu/cputest"
	"micecore/kernel/driver/video/console"
	"micecore/kernel/hal"
	"micecore/kernel/irq"
	"micecore/kernel/kfmt"
	"micecore/kernel/sync"
	"strings"
	"testing"
	"unsafe"
)

type bootMocks struct {
	calls       []string
	installErr  *kernel.Error
	enableErr   *kernel.Error
	breakpoints int
}

func setupBoot(t *testing.T, m *bootMocks) (cfg Config, cells []uint16, rec *cputest.Recorder, restore func()) {
	noop := sync.InterruptControl{
		Enabled: func() bool { return false },
		Disable: func() {},
		Enable:  func() {},
	}

	origCtrl, origInstall, origEnable, origBreakpoint := interruptControl, installIRQFn, enableIRQFn, breakpointFn
	prevCtrl := sync.SetInterruptControl(noop)

	interruptControl = noop
	installIRQFn = func(*irq.Core) *kernel.Error {
		m.calls = append(m.calls, "install")
		return m.installErr
	}
	enableIRQFn = func(*irq.Core) *kernel.Error {
		m.calls = append(m.calls, "enable")
		return m.enableErr
	}
	breakpointFn = func() {
		m.calls = append(m.calls, "breakpoint")
		m.breakpoints++
	}

	cells = make([]uint16, console.Width*console.Height)
	rec = cputest.NewRecorder()
	rec.Defaults[0x3fd] = 0x20

	cfg = DefaultConfig()
	cfg.FramebufferAddr = uintptr(unsafe.Pointer(&cells[0]))
	cfg.Ports = rec

	return cfg, cells, rec, func() {
		interruptControl, installIRQFn, enableIRQFn, breakpointFn = origCtrl, origInstall, origEnable, origBreakpoint
		sync.SetInterruptControl(prevCtrl)
		kfmt.SetOutputSink(nil)
	}
}

func screenRow(cells []uint16, row int) string {
	var out []byte
	for col := 0; col < console.Width; col++ {
		out = append(out, byte(cells[row*console.Width+col]))
	}
	return strings.TrimRight(string(out), " ")
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.FramebufferAddr != 0xb8000 || cfg.SerialBase != 0x3f8 || cfg.KeyboardPort != 0x60 {
		t.Fatalf("unexpected hardware defaults: %+v", cfg.Config)
	}

	if cfg.PrimaryOffset != 0x20 || cfg.SecondaryOffset != 0x28 || cfg.DoubleFaultIST != 1 {
		t.Fatalf("unexpected interrupt defaults: %+v", cfg.Config)
	}

	if cfg.Banner != "0.0.1 Mice Core OS" {
		t.Fatalf("unexpected banner %q", cfg.Banner)
	}
}

func TestBoot(t *testing.T) {
	var m bootMocks
	cfg, cells, rec, restore := setupBoot(t, &m)
	defer restore()

	if err := boot(cfg); err != nil {
		t.Fatal(err)
	}

	if exp, got := "install,enable,breakpoint", strings.Join(m.calls, ","); got != exp {
		t.Fatalf("expected boot steps %q; got %q", exp, got)
	}

	if exp, got := cfg.Banner, screenRow(cells, 0); got != exp {
		t.Fatalf("expected banner on the first row; got %q", got)
	}

	if got := screenRow(cells, 1); got != "" {
		t.Fatalf("expected second reserved row to be blank; got %q", got)
	}

	if got := screenRow(cells, 2); !strings.HasPrefix(got, "[hal] vga_text_console") {
		t.Fatalf("expected the probe log to start below the reserved rows; got %q", got)
	}

	// ICW1 reached both controllers
	if got := rec.Writes(0x20); len(got) == 0 || got[0] != 0x11 {
		t.Fatalf("expected the primary controller to be remapped; got writes %v", got)
	}

	serialOut := string(rec.Writes(0x3f8))
	for _, exp := range []string{
		cfg.Banner + "\n",
		"[kmain] 4 device drivers active\n",
		"[kmain] interrupt controllers remapped to 0x20/0x28\n",
		"[kmain] interrupts enabled\n",
		"[kmain] breakpoint self-test passed\n",
		"Hello, :)\n",
	} {
		if !strings.Contains(serialOut, exp) {
			t.Errorf("expected serial output to contain %q; got %q", exp, serialOut)
		}
	}
}

func TestBootWithoutSelfTest(t *testing.T) {
	var m bootMocks
	cfg, _, _, restore := setupBoot(t, &m)
	defer restore()

	cfg.BootSelfTest = false
	if err := boot(cfg); err != nil {
		t.Fatal(err)
	}

	if m.breakpoints != 0 {
		t.Fatal("expected no breakpoint when the self-test is disabled")
	}
}

func TestBootErrors(t *testing.T) {
	t.Run("hal failure", func(t *testing.T) {
		var m bootMocks
		cfg, _, _, restore := setupBoot(t, &m)
		defer restore()

		expErr := &kernel.Error{Module: "test", Message: "no console"}
		origInit := halInitFn
		defer func() { halInitFn = origInit }()
		halInitFn = func(hal.Config) (*hal.Devices, *kernel.Error) { return nil, expErr }

		if err := boot(cfg); err != expErr {
			t.Fatalf("expected %v; got %v", expErr, err)
		}
	})

	t.Run("missing interrupt core", func(t *testing.T) {
		var m bootMocks
		cfg, _, _, restore := setupBoot(t, &m)
		defer restore()

		origInit := halInitFn
		defer func() { halInitFn = origInit }()
		halInitFn = func(hal.Config) (*hal.Devices, *kernel.Error) { return &hal.Devices{}, nil }

		if err := boot(cfg); err != errNoIRQCore {
			t.Fatalf("expected %v; got %v", errNoIRQCore, err)
		}
	})

	t.Run("invalid controller offsets", func(t *testing.T) {
		var m bootMocks
		cfg, _, _, restore := setupBoot(t, &m)
		defer restore()

		cfg.SecondaryOffset = cfg.PrimaryOffset
		err := boot(cfg)
		if err == nil || err.Module != "pic" {
			t.Fatalf("expected a pic error; got %v", err)
		}

		if len(m.calls) != 0 {
			t.Fatalf("expected boot to stop before installing handlers; got %v", m.calls)
		}
	})

	t.Run("install failure", func(t *testing.T) {
		m := bootMocks{installErr: &kernel.Error{Module: "test", Message: "lidt"}}
		cfg, _, _, restore := setupBoot(t, &m)
		defer restore()

		if err := boot(cfg); err != m.installErr {
			t.Fatalf("expected %v; got %v", m.installErr, err)
		}

		if exp, got := "install", strings.Join(m.calls, ","); got != exp {
			t.Fatalf("expected boot steps %q; got %q", exp, got)
		}
	})

	t.Run("enable failure", func(t *testing.T) {
		m := bootMocks{enableErr: &kernel.Error{Module: "test", Message: "sti"}}
		cfg, _, _, restore := setupBoot(t, &m)
		defer restore()

		if err := boot(cfg); err != m.enableErr {
			t.Fatalf("expected %v; got %v", m.enableErr, err)
		}

		if m.breakpoints != 0 {
			t.Fatal("expected the self-test to be skipped")
		}
	})
}
