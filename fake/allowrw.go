package fake

import (
	"log"

	"github.com/sarchlab/fakekernel/abi"
)

// AllowRW handles a read-write Allow the way AllowRO handles a read-only
// one. Read-write grants only conflict with other read-write grants.
func (k *Kernel) AllowRW(
	driverNumber, bufferNumber, address, length abi.Register,
) [4]abi.Register {
	driverNum := abi.MustUint32(driverNumber, "driver number")
	bufferNum := abi.MustUint32(bufferNumber, "buffer number")
	entry := AllowRWEntry{
		DriverNumber: driverNum,
		BufferNumber: bufferNum,
		Len:          length,
	}

	var (
		returnError abi.ErrorCode
		driver      Driver
		buffer      RwAllowBuffer
	)

	k.access("Read-Write Allow", func(d *kernelData) {
		d.syscallLog = append(d.syscallLog, entry)

		switch e := d.popExpected().(type) {
		case nil:
		case ExpectedAllowRW:
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
		buffer, err = d.allowDB.insertRW(address, length, k.memory)
		if err != nil {
			log.Panicf("Read-Write Allow called with a buffer that cannot be granted: %v",
				err)
		}
	})

	k.invokeHook(HookPosSyscall, entry, nil)

	if returnError.IsSet() {
		return abi.Failure2(returnError, address, length)
	}

	bufferOut, err := driver.AllowReadWrite(bufferNum, buffer)
	code := driverErrorCode(driver, err)

	var addressOut, lengthOut abi.Register

	k.access("Read-Write Allow completion", func(d *kernelData) {
		addressOut, lengthOut = d.allowDB.removeRW(bufferOut)
	})

	if code.IsSet() {
		return abi.Failure2(code, addressOut, lengthOut)
	}

	return abi.Success2(addressOut, lengthOut, length)
}
