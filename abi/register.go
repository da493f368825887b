// Package abi defines how syscall arguments and results map onto a fixed
// vector of registers.
package abi

import (
	"log"
	"math"
)

// Register is a register-sized value passed into or returned from a
// syscall.
type Register uintptr

// Identifiers carried in dedicated registers.
type (
	DriverNumber    = uint32
	SubscribeNumber = uint32
	BufferNumber    = uint32
	CommandID       = uint32
)

// MustUint32 converts a register into a 32-bit identifier. A register that
// does not fit can only come from a malformed call, so it panics.
func MustUint32(r Register, what string) uint32 {
	if uint64(r) > math.MaxUint32 {
		log.Panicf("too large %s: %#x", what, uint64(r))
	}

	return uint32(r)
}

// Failure2 encodes a failure that carries two data registers.
func Failure2(code ErrorCode, r2, r3 Register) [4]Register {
	return [4]Register{
		Register(Failure2U32),
		Register(code),
		r2,
		r3,
	}
}

// Success2 encodes a success that carries two data registers. The last
// register is not specified by the calling convention; callers pass
// whatever the kernel would leave behind in it.
func Success2(r1, r2, r3 Register) [4]Register {
	return [4]Register{
		Register(Success2U32),
		r1,
		r2,
		r3,
	}
}
