package abi

import "fmt"

// SyscallClass is the syscall number selecting the kind of call.
type SyscallClass uint8

// Syscall classes.
const (
	ClassYield     SyscallClass = 0
	ClassSubscribe SyscallClass = 1
	ClassCommand   SyscallClass = 2
	ClassAllowRw   SyscallClass = 3
	ClassAllowRo   SyscallClass = 4
	ClassMemop     SyscallClass = 5
	ClassExit      SyscallClass = 6
)

var classNames = [...]string{
	ClassYield:     "Yield",
	ClassSubscribe: "Subscribe",
	ClassCommand:   "Command",
	ClassAllowRw:   "Read-Write Allow",
	ClassAllowRo:   "Read-Only Allow",
	ClassMemop:     "Memop",
	ClassExit:      "Exit",
}

func (c SyscallClass) String() string {
	if int(c) < len(classNames) {
		return classNames[c]
	}

	return fmt.Sprintf("SyscallClass(%d)", uint8(c))
}

// Yield identifiers, carried in r0 of a Yield call.
const (
	YieldNoWait Register = 0
	YieldWait   Register = 1
)

// Exit identifiers, carried in r0 of an Exit call.
const (
	ExitTerminate Register = 0
	ExitRestart   Register = 1
)

// YieldNoWaitReturn reports whether a yield-no-wait ran an upcall.
type YieldNoWaitReturn uint8

// Results of yield-no-wait.
const (
	NoUpcall YieldNoWaitReturn = 0
	Upcall   YieldNoWaitReturn = 1
)

func (r YieldNoWaitReturn) String() string {
	switch r {
	case NoUpcall:
		return "NoUpcall"
	case Upcall:
		return "Upcall"
	default:
		return fmt.Sprintf("YieldNoWaitReturn(%d)", uint8(r))
	}
}
