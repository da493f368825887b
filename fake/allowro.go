package fake

import (
	"log"

	"github.com/sarchlab/fakekernel/abi"
)

// AllowRO handles a read-only Allow. The buffer is granted to the driver
// for the duration of the driver call; whatever buffer the driver hands
// back is retired and echoed to userland.
func (k *Kernel) AllowRO(
	driverNumber, bufferNumber, address, length abi.Register,
) [4]abi.Register {
	driverNum := abi.MustUint32(driverNumber, "driver number")
	bufferNum := abi.MustUint32(bufferNumber, "buffer number")
	entry := AllowROEntry{
		DriverNumber: driverNum,
		BufferNumber: bufferNum,
		Len:          length,
	}

	var (
		returnError abi.ErrorCode
		driver      Driver
		buffer      RoAllowBuffer
	)

	k.access("Read-Only Allow", func(d *kernelData) {
		d.syscallLog = append(d.syscallLog, entry)

		switch e := d.popExpected().(type) {
		case nil:
		case ExpectedAllowRO:
			fieldMustMatch("driver number", e, entry, e.DriverNumber, driverNum)
			fieldMustMatch("buffer number", e, entry, e.BufferNumber, bufferNum)

			if e.ReturnError.IsSet() {
				returnError = e.ReturnError
				return
			}
		default:
			panicWrongCall(e, entry)
		}

		driverData, ok := d.drivers[driverNum]
		if !ok {
			returnError = abi.ErrorNoDevice
			return
		}
		driver = driverData.driver

		var err error
		buffer, err = d.allowDB.insertRO(address, length, k.memory)
		if err != nil {
			log.Panicf("Read-Only Allow called with a buffer that cannot be granted: %v",
				err)
		}
	})

	k.invokeHook(HookPosSyscall, entry, nil)

	// The buffer never reached the driver, so userland gets its own
	// address and length back.
	if returnError.IsSet() {
		return abi.Failure2(returnError, address, length)
	}

	bufferOut, err := driver.AllowReadOnly(bufferNum, buffer)
	code := driverErrorCode(driver, err)

	var addressOut, lengthOut abi.Register

	k.access("Read-Only Allow completion", func(d *kernelData) {
		addressOut, lengthOut = d.allowDB.removeRO(bufferOut)
	})

	if code.IsSet() {
		return abi.Failure2(code, addressOut, lengthOut)
	}

	// r3 is not specified for this variant. A real kernel leaves it alone,
	// so it still holds the length userland passed in.
	return abi.Success2(addressOut, lengthOut, length)
}
