package abi

import "fmt"

// CommandReturn is the result of a Command syscall in register form.
type CommandReturn struct {
	Variant ReturnVariant
	R1      uint32
	R2      uint32
	R3      uint32
}

// CommandSuccess returns a success that carries no data.
func CommandSuccess() CommandReturn {
	return CommandReturn{Variant: Success}
}

// CommandSuccessU32 returns a success that carries one value.
func CommandSuccessU32(v uint32) CommandReturn {
	return CommandReturn{Variant: SuccessU32, R1: v}
}

// CommandSuccess2U32 returns a success that carries two values.
func CommandSuccess2U32(v0, v1 uint32) CommandReturn {
	return CommandReturn{Variant: Success2U32, R1: v0, R2: v1}
}

// CommandSuccess3U32 returns a success that carries three values.
func CommandSuccess3U32(v0, v1, v2 uint32) CommandReturn {
	return CommandReturn{Variant: Success3U32, R1: v0, R2: v1, R3: v2}
}

// CommandSuccessU64 returns a success that carries a 64-bit value split
// low word first.
func CommandSuccessU64(v uint64) CommandReturn {
	return CommandReturn{
		Variant: SuccessU64,
		R1:      uint32(v),
		R2:      uint32(v >> 32),
	}
}

// CommandSuccessU32U64 returns a success that carries a 32-bit value
// followed by a 64-bit value.
func CommandSuccessU32U64(v0 uint32, v1 uint64) CommandReturn {
	return CommandReturn{
		Variant: SuccessU32U64,
		R1:      v0,
		R2:      uint32(v1),
		R3:      uint32(v1 >> 32),
	}
}

// CommandFailure returns a failure that carries only the error code.
func CommandFailure(code ErrorCode) CommandReturn {
	return CommandReturn{Variant: Failure, R1: uint32(code)}
}

// CommandFailureU32 returns a failure that carries one value.
func CommandFailureU32(code ErrorCode, v uint32) CommandReturn {
	return CommandReturn{Variant: FailureU32, R1: uint32(code), R2: v}
}

// CommandFailure2U32 returns a failure that carries two values.
func CommandFailure2U32(code ErrorCode, v0, v1 uint32) CommandReturn {
	return CommandReturn{
		Variant: Failure2U32,
		R1:      uint32(code),
		R2:      v0,
		R3:      v1,
	}
}

// CommandFailureU64 returns a failure that carries a 64-bit value.
func CommandFailureU64(code ErrorCode, v uint64) CommandReturn {
	return CommandReturn{
		Variant: FailureU64,
		R1:      uint32(code),
		R2:      uint32(v),
		R3:      uint32(v >> 32),
	}
}

// IsSuccess tells if the command succeeded.
func (r CommandReturn) IsSuccess() bool {
	return r.Variant.IsSuccess()
}

// ErrorCode returns the error carried by a failure, or zero for a success.
func (r CommandReturn) ErrorCode() ErrorCode {
	if r.IsSuccess() {
		return 0
	}

	return ErrorCode(r.R1)
}

// Registers lays the return out as the four result registers.
func (r CommandReturn) Registers() [4]Register {
	return [4]Register{
		Register(r.Variant),
		Register(r.R1),
		Register(r.R2),
		Register(r.R3),
	}
}

// CommandReturnFromRegisters decodes the four result registers of a
// Command call.
func CommandReturnFromRegisters(regs [4]Register) CommandReturn {
	return CommandReturn{
		Variant: ReturnVariant(MustUint32(regs[0], "return variant")),
		R1:      uint32(regs[1]),
		R2:      uint32(regs[2]),
		R3:      uint32(regs[3]),
	}
}

func (r CommandReturn) String() string {
	return fmt.Sprintf("%s(%#x, %#x, %#x)", r.Variant, r.R1, r.R2, r.R3)
}
