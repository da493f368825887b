package fake

import (
	"fmt"

	"github.com/sarchlab/fakekernel/abi"
)

// SyscallLogEntry records one syscall the kernel received. The log is kept
// whether or not the call was expected.
type SyscallLogEntry interface {
	Class() abi.SyscallClass
	String() string
}

// YieldNoWaitEntry records a yield-no-wait.
type YieldNoWaitEntry struct{}

// YieldWaitEntry records a yield-wait.
type YieldWaitEntry struct{}

// SubscribeEntry records a Subscribe.
type SubscribeEntry struct {
	DriverNumber    abi.DriverNumber
	SubscribeNumber abi.SubscribeNumber
}

// CommandEntry records a Command.
type CommandEntry struct {
	DriverID  abi.DriverNumber
	CommandID abi.CommandID
	Argument0 uint32
	Argument1 uint32
}

// AllowROEntry records a read-only Allow.
type AllowROEntry struct {
	DriverNumber abi.DriverNumber
	BufferNumber abi.BufferNumber
	Len          abi.Register
}

// AllowRWEntry records a read-write Allow.
type AllowRWEntry struct {
	DriverNumber abi.DriverNumber
	BufferNumber abi.BufferNumber
	Len          abi.Register
}

// ExitEntry records an Exit.
type ExitEntry struct {
	Which          abi.Register
	CompletionCode uint32
}

func (YieldNoWaitEntry) Class() abi.SyscallClass { return abi.ClassYield }
func (YieldWaitEntry) Class() abi.SyscallClass   { return abi.ClassYield }
func (SubscribeEntry) Class() abi.SyscallClass   { return abi.ClassSubscribe }
func (CommandEntry) Class() abi.SyscallClass     { return abi.ClassCommand }
func (AllowROEntry) Class() abi.SyscallClass     { return abi.ClassAllowRo }
func (AllowRWEntry) Class() abi.SyscallClass     { return abi.ClassAllowRw }
func (ExitEntry) Class() abi.SyscallClass        { return abi.ClassExit }

func (YieldNoWaitEntry) String() string { return "YieldNoWait" }
func (YieldWaitEntry) String() string   { return "YieldWait" }

func (e SubscribeEntry) String() string {
	return fmt.Sprintf("Subscribe{driver: %d, subscribe: %d}",
		e.DriverNumber, e.SubscribeNumber)
}

func (e CommandEntry) String() string {
	return fmt.Sprintf("Command{driver: %d, command: %d, args: %#x, %#x}",
		e.DriverID, e.CommandID, e.Argument0, e.Argument1)
}

func (e AllowROEntry) String() string {
	return fmt.Sprintf("AllowRO{driver: %d, buffer: %d, len: %d}",
		e.DriverNumber, e.BufferNumber, e.Len)
}

func (e AllowRWEntry) String() string {
	return fmt.Sprintf("AllowRW{driver: %d, buffer: %d, len: %d}",
		e.DriverNumber, e.BufferNumber, e.Len)
}

func (e ExitEntry) String() string {
	switch e.Which {
	case abi.ExitTerminate:
		return fmt.Sprintf("ExitTerminate{code: %d}", e.CompletionCode)
	case abi.ExitRestart:
		return fmt.Sprintf("ExitRestart{code: %d}", e.CompletionCode)
	default:
		return fmt.Sprintf("Exit(%d){code: %d}", e.Which, e.CompletionCode)
	}
}
