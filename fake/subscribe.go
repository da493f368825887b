package fake

import (
	"github.com/sarchlab/fakekernel/abi"
)

// Subscribe handles a Subscribe. It installs the callback in the slot and
// returns the callback and data that previously occupied it.
//
// A missing driver fails with NoMem rather than NoDevice, as the real
// kernel does.
func (k *Kernel) Subscribe(
	driverNumber, subscribeNumber, upcallFn, data abi.Register,
) [4]abi.Register {
	driverNum := abi.MustUint32(driverNumber, "driver number")
	subscribeNum := abi.MustUint32(subscribeNumber, "subscribe number")
	entry := SubscribeEntry{
		DriverNumber:    driverNum,
		SubscribeNumber: subscribeNum,
	}

	var (
		skipWithError abi.ErrorCode
		numUpcalls    uint32
		driverFound   bool
	)

	k.access("Subscribe", func(d *kernelData) {
		d.syscallLog = append(d.syscallLog, entry)

		switch e := d.popExpected().(type) {
		case nil:
		case ExpectedSubscribe:
			fieldMustMatch("driver number", e, entry, e.DriverNumber, driverNum)
			fieldMustMatch("subscribe number",
				e, entry, e.SubscribeNumber, subscribeNum)
			skipWithError = e.SkipWithError
		default:
			panicWrongCall(e, entry)
		}

		if driverData, ok := d.drivers[driverNum]; ok {
			numUpcalls = driverData.numUpcalls
			driverFound = true
		}
	})

	k.invokeHook(HookPosSyscall, entry, nil)

	failure := func(code abi.ErrorCode) [4]abi.Register {
		return abi.Failure2(code, upcallFn, data)
	}

	if skipWithError.IsSet() {
		return failure(skipWithError)
	}

	if !driverFound {
		return failure(abi.ErrorNoMem)
	}

	if subscribeNum >= numUpcalls {
		return failure(abi.ErrorInvalid)
	}

	upcall := Upcall{
		Fn:   abi.UpcallFnFromRegister(upcallFn),
		Data: data,
	}
	id := UpcallID{DriverNumber: driverNum, SubscribeNumber: subscribeNum}

	var previous Upcall

	k.access("Subscribe completion", func(d *kernelData) {
		// A replaced callback must never see deliveries meant for the old
		// one.
		d.purgeUpcalls(id)

		slots := d.drivers[driverNum].upcalls
		previous = slots[subscribeNum]
		slots[subscribeNum] = upcall
	})

	// r3 is not specified for this variant. A real kernel leaves it alone,
	// so it still holds the data userland passed in.
	return abi.Success2(previous.Fn.Register(), previous.Data, data)
}
