package fake

import (
	"errors"
	"fmt"
	"log"

	"github.com/sarchlab/fakekernel/abi"
)

// UpcallFunc is a userland callback. The kernel calls it with the three
// arguments the driver scheduled and the data userland subscribed with.
type UpcallFunc func(arg0, arg1, arg2 uint32, data abi.Register)

// Upcall is the content of a subscribe slot.
type Upcall struct {
	Fn   abi.UpcallFn
	Data abi.Register
}

// UpcallID names a subscribe slot independent of what it holds.
type UpcallID struct {
	DriverNumber    abi.DriverNumber
	SubscribeNumber abi.SubscribeNumber
}

func (id UpcallID) String() string {
	return fmt.Sprintf("%d/%d", id.DriverNumber, id.SubscribeNumber)
}

// UpcallQueueEntry is a delivery waiting for userland to yield.
type UpcallQueueEntry struct {
	ID   UpcallID
	Args [3]uint32
}

// Errors returned by ScheduleUpcall.
var (
	ErrNoDriver                = errors.New("no driver with that number")
	ErrTooLargeSubscribeNumber = errors.New("subscribe number too large")
)

// RegisterUpcallFunc gives a userland callback a non-zero reference that
// can be passed to Subscribe.
func (k *Kernel) RegisterUpcallFunc(fn UpcallFunc) abi.Register {
	if fn == nil {
		panic("upcall func must not be nil")
	}

	var ref abi.Register

	k.access("RegisterUpcallFunc", func(d *kernelData) {
		ref = d.nextUpcallFuncRef
		d.nextUpcallFuncRef += 4
		d.upcallFuncs[ref] = fn
	})

	return ref
}

// ScheduleUpcall queues a delivery to a subscribe slot. Drivers call it,
// typically from inside one of their Driver methods.
func (k *Kernel) ScheduleUpcall(
	driverNumber abi.DriverNumber,
	subscribeNumber abi.SubscribeNumber,
	args [3]uint32,
) error {
	entry := UpcallQueueEntry{
		ID: UpcallID{
			DriverNumber:    driverNumber,
			SubscribeNumber: subscribeNumber,
		},
		Args: args,
	}

	var err error

	k.access("ScheduleUpcall", func(d *kernelData) {
		driver, ok := d.drivers[driverNumber]
		if !ok {
			err = fmt.Errorf("schedule upcall %s: %w", entry.ID, ErrNoDriver)
			return
		}

		if subscribeNumber >= driver.numUpcalls {
			err = fmt.Errorf("schedule upcall %s: %w",
				entry.ID, ErrTooLargeSubscribeNumber)
			return
		}

		d.upcallQueue = append(d.upcallQueue, entry)
	})

	if err != nil {
		return err
	}

	k.invokeHook(HookPosUpcallScheduled, entry, nil)

	return nil
}

// PendingUpcalls returns the deliveries still waiting in the queue.
func (k *Kernel) PendingUpcalls() []UpcallQueueEntry {
	var pending []UpcallQueueEntry

	k.access("PendingUpcalls", func(d *kernelData) {
		pending = append(pending, d.upcallQueue...)
	})

	return pending
}

// IsUpcallPending tells if a delivery to the slot is queued.
func (k *Kernel) IsUpcallPending(id UpcallID) bool {
	pending := false

	k.access("IsUpcallPending", func(d *kernelData) {
		for _, e := range d.upcallQueue {
			if e.ID == id {
				pending = true
				return
			}
		}
	})

	return pending
}

// purgeUpcalls drops every queued delivery to the slot.
func (d *kernelData) purgeUpcalls(id UpcallID) {
	kept := d.upcallQueue[:0]
	for _, e := range d.upcallQueue {
		if e.ID != id {
			kept = append(kept, e)
		}
	}

	clear(d.upcallQueue[len(kept):])
	d.upcallQueue = kept
}

// popUpcall takes the next delivery off the queue and resolves the callback
// it should run. The callback is nil if the slot holds no function.
func (d *kernelData) popUpcall() (
	entry UpcallQueueEntry,
	upcall Upcall,
	fn UpcallFunc,
	ok bool,
) {
	if len(d.upcallQueue) == 0 {
		return entry, upcall, nil, false
	}

	entry = d.upcallQueue[0]
	d.upcallQueue = d.upcallQueue[1:]

	if driver, found := d.drivers[entry.ID.DriverNumber]; found {
		upcall = driver.upcalls[entry.ID.SubscribeNumber]
	}

	ref, present := upcall.Fn.Get()
	if !present {
		return entry, upcall, nil, true
	}

	fn, registered := d.upcallFuncs[ref]
	if !registered {
		log.Panicf("upcall %s refers to function %#x, which was never registered",
			entry.ID, uint64(ref))
	}

	return entry, upcall, fn, true
}
