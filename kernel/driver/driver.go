// Package driver defines the contract shared by all device drivers and the
// probe descriptors that the hal package sorts and runs at boot.
package driver

import (
	"io"
	"micecore/kernel"
)

// Driver is an interface implemented by all drivers.
type Driver interface {
	// DriverName returns the name of the driver.
	DriverName() string

	// DriverVersion returns the driver version.
	DriverVersion() (major uint16, minor uint16, patch uint16)

	// DriverInit initializes the device driver. If the driver init code
	// needs to log some output, it can use the supplied io.Writer in
	// conjunction with a call to kfmt.Fprint.
	DriverInit(io.Writer) *kernel.Error
}

// ProbeFn is a function that scans for the presence of a particular
// piece of hardware and returns a driver for it.
type ProbeFn func() Driver

// DetectOrder specifies when each driver's probe function will be invoked
// by the hal package.
type DetectOrder int8

const (
	// DetectOrderEarly specifies that the driver must be probed before
	// anything else. Output sinks use this so that the log of the
	// remaining probes reaches them.
	DetectOrderEarly DetectOrder = -128

	// DetectOrderController is used for interrupt controllers. They must
	// be ready before any driver that raises interrupts.
	DetectOrderController DetectOrder = -64

	// DetectOrderDefault is used by drivers with no ordering requirement.
	DetectOrderDefault DetectOrder = 0

	// DetectOrderLast specifies that the driver must be probed last.
	DetectOrderLast DetectOrder = 127
)

// DriverInfo pairs a probe function with the stage at which it runs.
type DriverInfo struct {
	// Order specifies at which stage of the boot process this driver is
	// probed.
	Order DetectOrder

	// Probe is invoked by the hal to check whether the hardware managed
	// by this driver is present.
	Probe ProbeFn
}

// DriverInfoList is a list of registered drivers that implements
// sort.Interface.
type DriverInfoList []*DriverInfo

// Len returns the length of the driver info list.
func (l DriverInfoList) Len() int { return len(l) }

// Swap exchanges 2 elements in the driver info list.
func (l DriverInfoList) Swap(i, j int) { l[i], l[j] = l[j], l[i] }

// Less compares 2 elements of the driver info list.
func (l DriverInfoList) Less(i, j int) bool { return l[i].Order < l[j].Order }
