package abi

import "fmt"

// ReturnVariant tags the first result register. It tells whether the call
// succeeded and how the following registers are laid out.
type ReturnVariant uint32

// The return variants defined by the calling convention.
const (
	Failure       ReturnVariant = 0
	FailureU32    ReturnVariant = 1
	Failure2U32   ReturnVariant = 2
	FailureU64    ReturnVariant = 3
	Success       ReturnVariant = 128
	SuccessU32    ReturnVariant = 129
	Success2U32   ReturnVariant = 130
	SuccessU64    ReturnVariant = 131
	Success3U32   ReturnVariant = 132
	SuccessU32U64 ReturnVariant = 133
)

var returnVariantNames = map[ReturnVariant]string{
	Failure:       "Failure",
	FailureU32:    "FailureU32",
	Failure2U32:   "Failure2U32",
	FailureU64:    "FailureU64",
	Success:       "Success",
	SuccessU32:    "SuccessU32",
	Success2U32:   "Success2U32",
	SuccessU64:    "SuccessU64",
	Success3U32:   "Success3U32",
	SuccessU32U64: "SuccessU32U64",
}

// IsSuccess tells if the variant is one of the success variants.
func (v ReturnVariant) IsSuccess() bool {
	return v >= Success
}

func (v ReturnVariant) String() string {
	name, ok := returnVariantNames[v]
	if !ok {
		return fmt.Sprintf("ReturnVariant(%d)", uint32(v))
	}

	return name
}
