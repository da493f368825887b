package fake

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/fakekernel/abi"
)

type collectingHook struct {
	ctxs []HookCtx
}

func (h *collectingHook) Func(ctx HookCtx) {
	h.ctxs = append(h.ctxs, ctx)
}

func (h *collectingHook) at(pos *HookPos) []HookCtx {
	var out []HookCtx

	for _, ctx := range h.ctxs {
		if ctx.Pos == pos {
			out = append(out, ctx)
		}
	}

	return out
}

type upcallCall struct {
	args [3]uint32
	data abi.Register
}

var _ = Describe("Yield", func() {
	var (
		kernel *Kernel
		driver *keepingDriver
		hook   *collectingHook
		calls  []upcallCall
		fn     abi.Register
	)

	BeforeEach(func() {
		driver = newKeepingDriver(1, 2)
		hook = &collectingHook{}
		kernel = MakeBuilder().WithDriver(driver).WithHook(hook).Build()
		driver.kernel = kernel

		calls = nil
		fn = kernel.RegisterUpcallFunc(
			func(arg0, arg1, arg2 uint32, data abi.Register) {
				calls = append(calls, upcallCall{
					args: [3]uint32{arg0, arg1, arg2},
					data: data,
				})
			})
	})

	It("should hand out distinct non-zero function references", func() {
		other := kernel.RegisterUpcallFunc(func(uint32, uint32, uint32, abi.Register) {})

		Expect(fn).NotTo(BeZero())
		Expect(other).NotTo(Equal(fn))
	})

	It("should report no upcall on an empty queue", func() {
		Expect(kernel.YieldNoWait()).To(Equal(abi.NoUpcall))
		Expect(kernel.SyscallLog()).To(Equal([]SyscallLogEntry{
			YieldNoWaitEntry{},
		}))
	})

	It("should deliver upcalls in the order they were scheduled", func() {
		kernel.Subscribe(1, 0, fn, 10)
		kernel.Subscribe(1, 1, fn, 11)
		Expect(kernel.ScheduleUpcall(1, 1, [3]uint32{1, 2, 3})).To(Succeed())
		Expect(kernel.ScheduleUpcall(1, 0, [3]uint32{4, 5, 6})).To(Succeed())

		Expect(kernel.YieldNoWait()).To(Equal(abi.Upcall))
		kernel.YieldWait()
		Expect(kernel.YieldNoWait()).To(Equal(abi.NoUpcall))

		Expect(calls).To(Equal([]upcallCall{
			{args: [3]uint32{1, 2, 3}, data: 11},
			{args: [3]uint32{4, 5, 6}, data: 10},
		}))
	})

	It("should let the callback make syscalls", func() {
		var inner [4]abi.Register
		ref := kernel.RegisterUpcallFunc(
			func(arg0, _, _ uint32, _ abi.Register) {
				inner = kernel.Command(1, 1, abi.Register(arg0+1), 0)
			})
		kernel.Subscribe(1, 0, ref, 0)
		kernel.Command(1, 1, 1, 0)

		kernel.YieldWait()

		Expect(inner).To(Equal(abi.CommandSuccess().Registers()))
		Expect(kernel.PendingUpcalls()).To(Equal([]UpcallQueueEntry{
			{ID: UpcallID{1, 0}, Args: [3]uint32{2, 0, 0}},
		}))
	})

	It("should consume an upcall to an empty slot without running anything", func() {
		Expect(kernel.ScheduleUpcall(1, 0, [3]uint32{})).To(Succeed())

		Expect(kernel.YieldNoWait()).To(Equal(abi.Upcall))
		Expect(calls).To(BeEmpty())
		Expect(kernel.PendingUpcalls()).To(BeEmpty())

		delivered := hook.at(HookPosUpcallDelivered)
		Expect(delivered).To(HaveLen(1))
		Expect(delivered[0].Detail).To(Equal(Upcall{}))
	})

	It("should panic when yield-wait has nothing to deliver", func() {
		Expect(func() { kernel.YieldWait() }).
			To(PanicWith("yield-wait called with no queued upcall"))
	})

	It("should panic on a callback that was never registered", func() {
		kernel.Subscribe(1, 0, 0x1000, 0)
		Expect(kernel.ScheduleUpcall(1, 0, [3]uint32{})).To(Succeed())

		Expect(func() { kernel.YieldNoWait() }).
			To(PanicWith(ContainSubstring("0x1000, which was never registered")))
	})

	It("should return the override without delivering", func() {
		kernel.Subscribe(1, 0, fn, 0)
		Expect(kernel.ScheduleUpcall(1, 0, [3]uint32{})).To(Succeed())
		override := abi.NoUpcall
		kernel.AddExpectedSyscall(ExpectedYieldNoWait{OverrideReturn: &override})

		Expect(kernel.YieldNoWait()).To(Equal(abi.NoUpcall))
		Expect(calls).To(BeEmpty())
		Expect(kernel.IsUpcallPending(UpcallID{1, 0})).To(BeTrue())
	})

	It("should deliver when a yield-no-wait expectation has no override", func() {
		kernel.Subscribe(1, 0, fn, 0)
		Expect(kernel.ScheduleUpcall(1, 0, [3]uint32{})).To(Succeed())
		kernel.AddExpectedSyscall(ExpectedYieldNoWait{})

		Expect(kernel.YieldNoWait()).To(Equal(abi.Upcall))
		Expect(calls).To(HaveLen(1))
	})

	It("should skip the upcall when told to", func() {
		kernel.AddExpectedSyscall(ExpectedYieldWait{SkipUpcall: true})

		kernel.YieldWait()

		Expect(kernel.SyscallLog()).To(Equal([]SyscallLogEntry{
			YieldWaitEntry{},
		}))
	})

	It("should not accept a yield-wait for a yield-no-wait", func() {
		kernel.AddExpectedSyscall(ExpectedYieldWait{})

		Expect(func() { kernel.YieldNoWait() }).
			To(PanicWith(
				"expected syscall YieldWait{skip upcall: false} but received YieldNoWait"))
	})

	It("should tell hooks about scheduled and delivered upcalls", func() {
		kernel.Subscribe(1, 0, fn, 3)
		Expect(kernel.ScheduleUpcall(1, 0, [3]uint32{7})).To(Succeed())
		kernel.YieldWait()

		entry := UpcallQueueEntry{ID: UpcallID{1, 0}, Args: [3]uint32{7}}
		scheduled := hook.at(HookPosUpcallScheduled)
		Expect(scheduled).To(HaveLen(1))
		Expect(scheduled[0].Item).To(Equal(entry))

		delivered := hook.at(HookPosUpcallDelivered)
		Expect(delivered).To(HaveLen(1))
		Expect(delivered[0].Item).To(Equal(entry))
		Expect(delivered[0].Detail).To(Equal(Upcall{
			Fn:   abi.SomeUpcallFn(fn),
			Data: 3,
		}))
		Expect(delivered[0].Kernel).To(BeIdenticalTo(kernel))
	})

	It("should refuse upcalls for unknown drivers and slots", func() {
		Expect(kernel.ScheduleUpcall(2, 0, [3]uint32{})).
			To(MatchError(ErrNoDriver))
		Expect(kernel.ScheduleUpcall(1, 2, [3]uint32{})).
			To(MatchError(ErrTooLargeSubscribeNumber))
		Expect(kernel.PendingUpcalls()).To(BeEmpty())
	})
})
