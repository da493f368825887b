package fake

import (
	"errors"
	"log"

	"github.com/sarchlab/fakekernel/abi"
)

// Driver is a fake device driver living inside the kernel. The kernel owns
// Subscribe bookkeeping; drivers only declare how many upcall slots they
// have.
type Driver interface {
	// ID returns the driver number the driver is registered under.
	ID() abi.DriverNumber

	// NumUpcalls returns the number of subscribe slots the driver has.
	NumUpcalls() uint32

	// Command handles a Command syscall.
	Command(commandID abi.CommandID, argument0, argument1 uint32) abi.CommandReturn

	// AllowReadOnly receives a newly allowed read-only buffer and returns
	// the buffer userland gets back. On failure it still returns a buffer,
	// usually the one it was given, together with an abi.ErrorCode.
	AllowReadOnly(bufferNumber abi.BufferNumber, buffer RoAllowBuffer) (RoAllowBuffer, error)

	// AllowReadWrite is the read-write counterpart of AllowReadOnly.
	AllowReadWrite(bufferNumber abi.BufferNumber, buffer RwAllowBuffer) (RwAllowBuffer, error)
}

// DriverBase can be embedded by drivers that do not support Allow.
type DriverBase struct{}

// AllowReadOnly rejects the buffer with NoSupport.
func (DriverBase) AllowReadOnly(
	_ abi.BufferNumber,
	buffer RoAllowBuffer,
) (RoAllowBuffer, error) {
	return buffer, abi.ErrorNoSupport
}

// AllowReadWrite rejects the buffer with NoSupport.
func (DriverBase) AllowReadWrite(
	_ abi.BufferNumber,
	buffer RwAllowBuffer,
) (RwAllowBuffer, error) {
	return buffer, abi.ErrorNoSupport
}

type driverData struct {
	driver     Driver
	numUpcalls uint32
	upcalls    map[abi.SubscribeNumber]Upcall
}

// driverErrorCode turns the error a driver returned into the code the
// kernel reports. Drivers may only fail with an abi.ErrorCode.
func driverErrorCode(driver Driver, err error) abi.ErrorCode {
	if err == nil {
		return 0
	}

	var code abi.ErrorCode
	if !errors.As(err, &code) || !code.IsSet() {
		log.Panicf("driver %d failed with %q, which is not a kernel error code",
			driver.ID(), err)
	}

	return code
}
