package fake

import (
	"log"

	"github.com/sarchlab/fakekernel/abi"
)

// Syscall dispatches a raw syscall by class, for callers that only speak
// the register convention. For yield-no-wait, r0 of the result holds the
// YieldNoWaitReturn. Memop is not emulated and fails with NoSupport.
func (k *Kernel) Syscall(
	class abi.SyscallClass,
	r0, r1, r2, r3 abi.Register,
) [4]abi.Register {
	switch class {
	case abi.ClassYield:
		return k.rawYield(r0)
	case abi.ClassSubscribe:
		return k.Subscribe(r0, r1, r2, r3)
	case abi.ClassCommand:
		return k.Command(r0, r1, r2, r3)
	case abi.ClassAllowRw:
		return k.AllowRW(r0, r1, r2, r3)
	case abi.ClassAllowRo:
		return k.AllowRO(r0, r1, r2, r3)
	case abi.ClassMemop:
		return abi.CommandFailure(abi.ErrorNoSupport).Registers()
	case abi.ClassExit:
		return k.Exit(r0, r1)
	default:
		log.Panicf("unknown syscall class %d", class)
	}

	return [4]abi.Register{}
}

func (k *Kernel) rawYield(yieldID abi.Register) [4]abi.Register {
	switch yieldID {
	case abi.YieldNoWait:
		return [4]abi.Register{abi.Register(k.YieldNoWait())}
	case abi.YieldWait:
		k.YieldWait()
		return [4]abi.Register{}
	default:
		log.Panicf("unknown yield number %d", yieldID)
	}

	return [4]abi.Register{}
}
