package fake

import (
	"log"
)

// SyscallLogger is a hook that prints every syscall and upcall delivery.
type SyscallLogger struct {
	*log.Logger
}

// NewSyscallLogger returns a SyscallLogger that writes into the logger.
func NewSyscallLogger(logger *log.Logger) *SyscallLogger {
	return &SyscallLogger{Logger: logger}
}

// Func writes the syscall or upcall into the logger.
func (h *SyscallLogger) Func(ctx HookCtx) {
	switch ctx.Pos {
	case HookPosSyscall:
		entry, ok := ctx.Item.(SyscallLogEntry)
		if !ok {
			return
		}

		h.Printf("syscall %s: %s", entry.Class(), entry)
	case HookPosUpcallScheduled:
		entry := ctx.Item.(UpcallQueueEntry)
		h.Printf("upcall %s scheduled, args %#x", entry.ID, entry.Args)
	case HookPosUpcallDelivered:
		entry := ctx.Item.(UpcallQueueEntry)
		upcall, _ := ctx.Detail.(Upcall)
		h.Printf("upcall %s delivered to %s, args %#x, data %#x",
			entry.ID, upcall.Fn, entry.Args, uint64(upcall.Data))
	}
}
