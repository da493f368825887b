package abi

import "fmt"

// UpcallFn is an optional reference to a userland callback. A zero register
// means no callback. Any other value is taken as a callback reference on
// trust; the calling convention makes the caller responsible for it.
type UpcallFn struct {
	ref     Register
	present bool
}

// NoUpcallFn returns the absent callback.
func NoUpcallFn() UpcallFn {
	return UpcallFn{}
}

// SomeUpcallFn wraps a callback reference. A zero reference cannot be told
// apart from "no callback" and panics.
func SomeUpcallFn(ref Register) UpcallFn {
	if ref == 0 {
		panic("upcall fn reference must not be zero")
	}

	return UpcallFn{ref: ref, present: true}
}

// UpcallFnFromRegister decodes the callback register of a Subscribe call.
func UpcallFnFromRegister(r Register) UpcallFn {
	if r == 0 {
		return NoUpcallFn()
	}

	return SomeUpcallFn(r)
}

// Get returns the reference and whether one is present.
func (f UpcallFn) Get() (Register, bool) {
	return f.ref, f.present
}

// IsNone tells if there is no callback.
func (f UpcallFn) IsNone() bool {
	return !f.present
}

// Register encodes the callback back into a register; no callback is 0.
func (f UpcallFn) Register() Register {
	if !f.present {
		return 0
	}

	return f.ref
}

func (f UpcallFn) String() string {
	if !f.present {
		return "None"
	}

	return fmt.Sprintf("Some(%#x)", uint64(f.ref))
}
