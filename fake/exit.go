package fake

import (
	"fmt"

	"github.com/sarchlab/fakekernel/abi"
)

// ExitCall is the value the kernel panics with when userland exits, since a
// successful Exit never returns. Tests recover it to check the call.
type ExitCall struct {
	Restart        bool
	CompletionCode uint32
}

func (e *ExitCall) Error() string {
	if e.Restart {
		return fmt.Sprintf("process restarted with code %d", e.CompletionCode)
	}

	return fmt.Sprintf("process terminated with code %d", e.CompletionCode)
}

// Exit handles an Exit. It panics with an *ExitCall for terminate and
// restart. An unknown exit number returns NoSupport.
func (k *Kernel) Exit(which, completionCode abi.Register) [4]abi.Register {
	entry := ExitEntry{
		Which:          which,
		CompletionCode: abi.MustUint32(completionCode, "completion code"),
	}

	k.access("Exit", func(d *kernelData) {
		d.syscallLog = append(d.syscallLog, entry)

		switch e := d.popExpected().(type) {
		case nil:
		case ExpectedExit:
			fieldMustMatch("exit number", e, entry, e.Which, entry.Which)
			fieldMustMatch("completion code",
				e, entry, e.CompletionCode, entry.CompletionCode)
		default:
			panicWrongCall(e, entry)
		}
	})

	k.invokeHook(HookPosSyscall, entry, nil)

	switch which {
	case abi.ExitTerminate:
		panic(&ExitCall{CompletionCode: entry.CompletionCode})
	case abi.ExitRestart:
		panic(&ExitCall{Restart: true, CompletionCode: entry.CompletionCode})
	default:
		return abi.CommandFailure(abi.ErrorNoSupport).Registers()
	}
}
