// Package fake provides a fake kernel that answers syscalls issued by
// userland driver code under test.
//
// The kernel decodes the same register-level calling convention a real
// kernel uses, keeps the kernel-side state (drivers, allowed buffers,
// subscribed upcalls), and lets tests script and inspect the calls it
// receives.
//
// A Kernel is meant to be driven by a single test goroutine. It is not safe
// for concurrent use.
package fake

import (
	"log"
	"sync"

	"github.com/sarchlab/fakekernel/abi"
)

// Kernel is the fake kernel. Every piece of mutable kernel state lives in a
// single store that is only reachable through access.
type Kernel struct {
	hooks []Hook

	mu     sync.Mutex
	data   *kernelData
	memory *Memory
}

type kernelData struct {
	drivers           map[abi.DriverNumber]*driverData
	allowDB           allowDB
	upcallQueue       []UpcallQueueEntry
	upcallFuncs       map[abi.Register]UpcallFunc
	nextUpcallFuncRef abi.Register
	expectedSyscalls  []ExpectedSyscall
	syscallLog        []SyscallLogEntry
}

// upcallFuncBase is where references handed out by RegisterUpcallFunc start.
// It sits far above the small literal values tests like to pass.
const upcallFuncBase abi.Register = 0x7f00_0000

func newKernelData() *kernelData {
	return &kernelData{
		drivers:           make(map[abi.DriverNumber]*driverData),
		allowDB:           newAllowDB(),
		upcallFuncs:       make(map[abi.Register]UpcallFunc),
		nextUpcallFuncRef: upcallFuncBase,
	}
}

// NewKernel creates a kernel with no drivers and a fresh userland memory.
func NewKernel() *Kernel {
	return MakeBuilder().Build()
}

// access runs fn against the kernel state. It panics if the state is
// already being accessed or if the kernel has been closed.
func (k *Kernel) access(caller string, fn func(d *kernelData)) {
	if !k.mu.TryLock() {
		log.Panicf("%s accessed the fake kernel while it was already in use",
			caller)
	}
	defer k.mu.Unlock()

	if k.data == nil {
		log.Panicf("%s called but no fake kernel exists", caller)
	}

	fn(k.data)
}

// Memory returns the simulated userland memory that allowed buffers refer
// to.
func (k *Kernel) Memory() *Memory {
	return k.memory
}

// Close tears the kernel down. Any later syscall panics.
func (k *Kernel) Close() {
	k.access("Close", func(d *kernelData) {
		k.data = nil
	})
}

// AddDriver registers a driver under the number it reports.
func (k *Kernel) AddDriver(driver Driver) {
	num := driver.ID()
	numUpcalls := driver.NumUpcalls()

	k.access("AddDriver", func(d *kernelData) {
		if _, exists := d.drivers[num]; exists {
			log.Panicf("driver %d registered twice", num)
		}

		d.drivers[num] = &driverData{
			driver:     driver,
			numUpcalls: numUpcalls,
			upcalls:    make(map[abi.SubscribeNumber]Upcall),
		}
	})
}

// AddExpectedSyscall appends an expectation to the end of the
// expected-syscall queue.
func (k *Kernel) AddExpectedSyscall(expected ExpectedSyscall) {
	k.access("AddExpectedSyscall", func(d *kernelData) {
		d.expectedSyscalls = append(d.expectedSyscalls, expected)
	})
}

// RemainingExpectedSyscalls returns the expectations not consumed yet.
func (k *Kernel) RemainingExpectedSyscalls() []ExpectedSyscall {
	var remaining []ExpectedSyscall

	k.access("RemainingExpectedSyscalls", func(d *kernelData) {
		remaining = append(remaining, d.expectedSyscalls...)
	})

	return remaining
}

// ExpectationsMustBeConsumed panics if any expectation was never matched by
// a real call.
func (k *Kernel) ExpectationsMustBeConsumed() {
	remaining := k.RemainingExpectedSyscalls()
	if len(remaining) > 0 {
		log.Panicf("%d expected syscalls were never made, next is %s",
			len(remaining), remaining[0])
	}
}

// SyscallLog returns a copy of every syscall received so far, in order.
func (k *Kernel) SyscallLog() []SyscallLogEntry {
	var entries []SyscallLogEntry

	k.access("SyscallLog", func(d *kernelData) {
		entries = append(entries, d.syscallLog...)
	})

	return entries
}
