package fake

import (
	"github.com/sarchlab/fakekernel/abi"
)

// Command handles a Command. The driver is called outside the kernel
// state so it may schedule upcalls while it runs.
func (k *Kernel) Command(
	driverID, commandID, argument0, argument1 abi.Register,
) [4]abi.Register {
	entry := CommandEntry{
		DriverID:  abi.MustUint32(driverID, "driver number"),
		CommandID: abi.MustUint32(commandID, "command number"),
		Argument0: abi.MustUint32(argument0, "argument 0"),
		Argument1: abi.MustUint32(argument1, "argument 1"),
	}

	var (
		override *abi.CommandReturn
		driver   Driver
	)

	k.access("Command", func(d *kernelData) {
		d.syscallLog = append(d.syscallLog, entry)

		switch e := d.popExpected().(type) {
		case nil:
		case ExpectedCommand:
			fieldMustMatch("driver number", e, entry, e.DriverID, entry.DriverID)
			fieldMustMatch("command number", e, entry, e.CommandID, entry.CommandID)
			fieldMustMatch("argument 0", e, entry, e.Argument0, entry.Argument0)
			fieldMustMatch("argument 1", e, entry, e.Argument1, entry.Argument1)
			override = e.OverrideReturn
		default:
			panicWrongCall(e, entry)
		}

		if driverData, ok := d.drivers[entry.DriverID]; ok {
			driver = driverData.driver
		}
	})

	k.invokeHook(HookPosSyscall, entry, nil)

	ret := abi.CommandFailure(abi.ErrorNoDevice)
	if driver != nil {
		ret = driver.Command(entry.CommandID, entry.Argument0, entry.Argument1)
	}

	if override != nil {
		ret = *override
	}

	return ret.Registers()
}
