package fake

import (
	"fmt"
	"log"

	"github.com/sarchlab/fakekernel/abi"
)

// ExpectedSyscall scripts the next syscall the kernel should receive.
// Expectations are consumed first in, first out. A call that does not
// match the front expectation panics; an empty queue accepts anything.
type ExpectedSyscall interface {
	Class() abi.SyscallClass
	String() string
}

// ExpectedYieldNoWait expects a yield-no-wait. If OverrideReturn is set,
// the yield returns it without delivering an upcall.
type ExpectedYieldNoWait struct {
	OverrideReturn *abi.YieldNoWaitReturn
}

// ExpectedYieldWait expects a yield-wait. If SkipUpcall is set, the yield
// returns without delivering an upcall.
type ExpectedYieldWait struct {
	SkipUpcall bool
}

// ExpectedSubscribe expects a Subscribe. A set SkipWithError makes the call
// fail with it and leaves the slot untouched.
type ExpectedSubscribe struct {
	DriverNumber    abi.DriverNumber
	SubscribeNumber abi.SubscribeNumber
	SkipWithError   abi.ErrorCode
}

// ExpectedCommand expects a Command. If OverrideReturn is set, the call
// returns it instead of what the driver returned.
type ExpectedCommand struct {
	DriverID       abi.DriverNumber
	CommandID      abi.CommandID
	Argument0      uint32
	Argument1      uint32
	OverrideReturn *abi.CommandReturn
}

// ExpectedAllowRO expects a read-only Allow. A set ReturnError makes the
// call fail with it before the driver sees the buffer.
type ExpectedAllowRO struct {
	DriverNumber abi.DriverNumber
	BufferNumber abi.BufferNumber
	ReturnError  abi.ErrorCode
}

// ExpectedAllowRW is the read-write counterpart of ExpectedAllowRO.
type ExpectedAllowRW struct {
	DriverNumber abi.DriverNumber
	BufferNumber abi.BufferNumber
	ReturnError  abi.ErrorCode
}

// ExpectedExit expects an Exit.
type ExpectedExit struct {
	Which          abi.Register
	CompletionCode uint32
}

func (ExpectedYieldNoWait) Class() abi.SyscallClass { return abi.ClassYield }
func (ExpectedYieldWait) Class() abi.SyscallClass   { return abi.ClassYield }
func (ExpectedSubscribe) Class() abi.SyscallClass   { return abi.ClassSubscribe }
func (ExpectedCommand) Class() abi.SyscallClass     { return abi.ClassCommand }
func (ExpectedAllowRO) Class() abi.SyscallClass     { return abi.ClassAllowRo }
func (ExpectedAllowRW) Class() abi.SyscallClass     { return abi.ClassAllowRw }
func (ExpectedExit) Class() abi.SyscallClass        { return abi.ClassExit }

func (e ExpectedYieldNoWait) String() string {
	if e.OverrideReturn == nil {
		return "YieldNoWait"
	}

	return fmt.Sprintf("YieldNoWait{override: %s}", *e.OverrideReturn)
}

func (e ExpectedYieldWait) String() string {
	return fmt.Sprintf("YieldWait{skip upcall: %t}", e.SkipUpcall)
}

func (e ExpectedSubscribe) String() string {
	return fmt.Sprintf("Subscribe{driver: %d, subscribe: %d, error: %s}",
		e.DriverNumber, e.SubscribeNumber, e.SkipWithError.String())
}

func (e ExpectedCommand) String() string {
	override := "None"
	if e.OverrideReturn != nil {
		override = e.OverrideReturn.String()
	}

	return fmt.Sprintf(
		"Command{driver: %d, command: %d, args: %#x, %#x, override: %s}",
		e.DriverID, e.CommandID, e.Argument0, e.Argument1, override)
}

func (e ExpectedAllowRO) String() string {
	return fmt.Sprintf("AllowRO{driver: %d, buffer: %d, error: %s}",
		e.DriverNumber, e.BufferNumber, e.ReturnError.String())
}

func (e ExpectedAllowRW) String() string {
	return fmt.Sprintf("AllowRW{driver: %d, buffer: %d, error: %s}",
		e.DriverNumber, e.BufferNumber, e.ReturnError.String())
}

func (e ExpectedExit) String() string {
	return ExitEntry(e).String()
}

// popExpected takes the front expectation, or nil if there is none.
func (d *kernelData) popExpected() ExpectedSyscall {
	if len(d.expectedSyscalls) == 0 {
		return nil
	}

	e := d.expectedSyscalls[0]
	d.expectedSyscalls[0] = nil
	d.expectedSyscalls = d.expectedSyscalls[1:]

	return e
}

func panicWrongCall(expected ExpectedSyscall, actual SyscallLogEntry) {
	log.Panicf("expected syscall %s but received %s",
		expected, actual)
}

func fieldMustMatch[T comparable](
	field string,
	expected ExpectedSyscall,
	actual SyscallLogEntry,
	want, got T,
) {
	if want != got {
		log.Panicf("expected different %s (expected %v, got %v): "+
			"expected syscall %s but received %s",
			field, want, got, expected, actual)
	}
}
