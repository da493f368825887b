package fake

import (
	"log"

	"github.com/sarchlab/fakekernel/abi"
)

type delivery struct {
	entry  UpcallQueueEntry
	upcall Upcall
	fn     UpcallFunc
}

// deliver runs the callback of a delivery taken off the queue. It must be
// called without holding the kernel state, since callbacks are userland
// code and usually make further syscalls.
func (k *Kernel) deliver(dl delivery) {
	if dl.fn != nil {
		dl.fn(dl.entry.Args[0], dl.entry.Args[1], dl.entry.Args[2],
			dl.upcall.Data)
	}

	k.invokeHook(HookPosUpcallDelivered, dl.entry, dl.upcall)
}

func (d *kernelData) takeDelivery() (delivery, bool) {
	entry, upcall, fn, ok := d.popUpcall()

	return delivery{entry: entry, upcall: upcall, fn: fn}, ok
}

// YieldNoWait delivers the next queued upcall, if there is one, and
// reports whether it did.
func (k *Kernel) YieldNoWait() abi.YieldNoWaitReturn {
	entry := YieldNoWaitEntry{}

	var (
		override *abi.YieldNoWaitReturn
		dl       delivery
		found    bool
	)

	k.access("Yield", func(d *kernelData) {
		d.syscallLog = append(d.syscallLog, entry)

		switch e := d.popExpected().(type) {
		case nil:
		case ExpectedYieldNoWait:
			override = e.OverrideReturn
		default:
			panicWrongCall(e, entry)
		}

		if override != nil {
			return
		}

		dl, found = d.takeDelivery()
	})

	k.invokeHook(HookPosSyscall, entry, nil)

	if override != nil {
		return *override
	}

	if !found {
		return abi.NoUpcall
	}

	k.deliver(dl)

	return abi.Upcall
}

// YieldWait delivers the next queued upcall. A real process with nothing
// queued would sleep until an interrupt arrives; the fake kernel has no
// interrupts, so an empty queue is a test bug and panics.
func (k *Kernel) YieldWait() {
	entry := YieldWaitEntry{}

	var (
		skip  bool
		dl    delivery
		found bool
	)

	k.access("Yield", func(d *kernelData) {
		d.syscallLog = append(d.syscallLog, entry)

		switch e := d.popExpected().(type) {
		case nil:
		case ExpectedYieldWait:
			skip = e.SkipUpcall
		default:
			panicWrongCall(e, entry)
		}

		if skip {
			return
		}

		dl, found = d.takeDelivery()
	})

	k.invokeHook(HookPosSyscall, entry, nil)

	if skip {
		return
	}

	if !found {
		log.Panic("yield-wait called with no queued upcall")
	}

	k.deliver(dl)
}
