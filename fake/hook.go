package fake

// HookPos names a point in the kernel's life cycle where hooks run.
type HookPos struct {
	Name string
}

// Hook positions raised by the kernel. Hooks always run after the kernel
// state has been released, so a hook may call back into the kernel.
var (
	// HookPosSyscall fires once a syscall has been logged and matched. Item
	// is the SyscallLogEntry.
	HookPosSyscall = &HookPos{Name: "Syscall"}

	// HookPosUpcallScheduled fires when a driver queues an upcall. Item is
	// the UpcallQueueEntry.
	HookPosUpcallScheduled = &HookPos{Name: "UpcallScheduled"}

	// HookPosUpcallDelivered fires after yield has taken an upcall off the
	// queue and run its callback, if any. Item is the UpcallQueueEntry and
	// Detail is the Upcall it was delivered to.
	HookPosUpcallDelivered = &HookPos{Name: "UpcallDelivered"}
)

// HookCtx is what a hook gets to see when it is invoked.
type HookCtx struct {
	Kernel *Kernel
	Pos    *HookPos
	Item   any
	Detail any
}

// A Hook observes the kernel.
type Hook interface {
	Func(ctx HookCtx)
}

// AcceptHook registers a hook. Hooks are expected to be registered before
// the code under test starts issuing syscalls.
func (k *Kernel) AcceptHook(hook Hook) {
	for _, h := range k.hooks {
		if h == hook {
			panic("duplicated hook")
		}
	}

	k.hooks = append(k.hooks, hook)
}

// NumHooks returns the number of hooks registered.
func (k *Kernel) NumHooks() int {
	return len(k.hooks)
}

func (k *Kernel) invokeHook(pos *HookPos, item, detail any) {
	if len(k.hooks) == 0 {
		return
	}

	ctx := HookCtx{
		Kernel: k,
		Pos:    pos,
		Item:   item,
		Detail: detail,
	}

	for _, h := range k.hooks {
		h.Func(ctx)
	}
}
