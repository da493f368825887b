package abi

import "fmt"

// ErrorCode is the error a kernel reports through the failure variants.
// The zero value is not a valid code and is used to mean "no error".
type ErrorCode uint32

// Error codes understood by userland.
const (
	ErrorFail        ErrorCode = 1
	ErrorBusy        ErrorCode = 2
	ErrorAlready     ErrorCode = 3
	ErrorOff         ErrorCode = 4
	ErrorReserve     ErrorCode = 5
	ErrorInvalid     ErrorCode = 6
	ErrorSize        ErrorCode = 7
	ErrorCancel      ErrorCode = 8
	ErrorNoMem       ErrorCode = 9
	ErrorNoSupport   ErrorCode = 10
	ErrorNoDevice    ErrorCode = 11
	ErrorUninstalled ErrorCode = 12
	ErrorNoAck       ErrorCode = 13
	ErrorBadRVal     ErrorCode = 1024
)

var errorCodeNames = map[ErrorCode]string{
	ErrorFail:        "Fail",
	ErrorBusy:        "Busy",
	ErrorAlready:     "Already",
	ErrorOff:         "Off",
	ErrorReserve:     "Reserve",
	ErrorInvalid:     "Invalid",
	ErrorSize:        "Size",
	ErrorCancel:      "Cancel",
	ErrorNoMem:       "NoMem",
	ErrorNoSupport:   "NoSupport",
	ErrorNoDevice:    "NoDevice",
	ErrorUninstalled: "Uninstalled",
	ErrorNoAck:       "NoAck",
	ErrorBadRVal:     "BadRVal",
}

// IsSet tells if the code carries an error.
func (c ErrorCode) IsSet() bool {
	return c != 0
}

func (c ErrorCode) String() string {
	if c == 0 {
		return "None"
	}

	name, ok := errorCodeNames[c]
	if !ok {
		return fmt.Sprintf("ErrorCode(%d)", uint32(c))
	}

	return name
}

// Error makes ErrorCode usable as a Go error.
func (c ErrorCode) Error() string {
	return "kernel error: " + c.String()
}
