package fake

import (
	"github.com/sarchlab/fakekernel/abi"
	"github.com/sarchlab/fakekernel/datarecording"
)

// SyscallTableName is the table SyscallRecorder writes into.
const SyscallTableName = "syscall_log"

// SyscallRecord is one row of the recorded syscall log. Number holds the
// subscribe, buffer, command, or exit number depending on the class.
// Length keeps the bit pattern of the Allow length register, since SQLite
// integers are signed.
type SyscallRecord struct {
	Seq    uint64
	Class  string
	Driver uint32
	Number uint32
	Arg0   uint32
	Arg1   uint32
	Length int64
}

// SyscallRecorder is a hook that stores every syscall in a data recorder.
type SyscallRecorder struct {
	recorder datarecording.DataRecorder
	seq      uint64
}

// NewSyscallRecorder creates a SyscallRecorder and the table it writes to.
func NewSyscallRecorder(r datarecording.DataRecorder) *SyscallRecorder {
	r.CreateTable(SyscallTableName, SyscallRecord{})

	return &SyscallRecorder{recorder: r}
}

// Func records the syscall.
func (h *SyscallRecorder) Func(ctx HookCtx) {
	if ctx.Pos != HookPosSyscall {
		return
	}

	entry, ok := ctx.Item.(SyscallLogEntry)
	if !ok {
		return
	}

	h.seq++
	h.recorder.InsertData(SyscallTableName, toRecord(h.seq, entry))
}

func toRecord(seq uint64, entry SyscallLogEntry) SyscallRecord {
	r := SyscallRecord{
		Seq:   seq,
		Class: entry.Class().String(),
	}

	switch e := entry.(type) {
	case YieldNoWaitEntry:
		r.Number = uint32(abi.YieldNoWait)
	case YieldWaitEntry:
		r.Number = uint32(abi.YieldWait)
	case SubscribeEntry:
		r.Driver = e.DriverNumber
		r.Number = e.SubscribeNumber
	case CommandEntry:
		r.Driver = e.DriverID
		r.Number = e.CommandID
		r.Arg0 = e.Argument0
		r.Arg1 = e.Argument1
	case AllowROEntry:
		r.Driver = e.DriverNumber
		r.Number = e.BufferNumber
		r.Length = int64(e.Len)
	case AllowRWEntry:
		r.Driver = e.DriverNumber
		r.Number = e.BufferNumber
		r.Length = int64(e.Len)
	case ExitEntry:
		r.Number = uint32(e.Which)
		r.Arg0 = e.CompletionCode
	}

	return r
}
