package fake

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/sarchlab/fakekernel/abi"
)

var _ = Describe("Kernel", func() {
	var (
		mockCtrl *gomock.Controller
		kernel   *Kernel
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		kernel = NewKernel()
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should panic on re-entrant access", func() {
		Expect(func() {
			kernel.access("outer", func(*kernelData) {
				kernel.access("inner", func(*kernelData) {})
			})
		}).To(PanicWith(ContainSubstring("inner accessed the fake kernel")))

		Expect(kernel.SyscallLog()).To(BeEmpty())
	})

	It("should panic when used after close", func() {
		kernel.Close()

		Expect(func() { kernel.Subscribe(1, 0, 0, 0) }).
			To(PanicWith("Subscribe called but no fake kernel exists"))
		Expect(func() { kernel.AllowRO(1, 0, 0, 0) }).
			To(PanicWith("Read-Only Allow called but no fake kernel exists"))
	})

	It("should panic when a driver number is registered twice", func() {
		kernel.AddDriver(plainDriver{id: 3})

		Expect(func() { kernel.AddDriver(plainDriver{id: 3}) }).
			To(PanicWith(ContainSubstring("driver 3 registered twice")))
	})

	It("should ask the driver for its number and slot count once", func() {
		driver := NewMockDriver(mockCtrl)
		driver.EXPECT().ID().Return(abi.DriverNumber(5))
		driver.EXPECT().NumUpcalls().Return(uint32(1))

		kernel.AddDriver(driver)

		ret := kernel.Subscribe(5, 0, 0x1000, 0)
		Expect(abi.ReturnVariant(ret[0])).To(Equal(abi.Success2U32))
	})

	It("should build with drivers and hooks", func() {
		hook := NewMockHook(mockCtrl)
		hook.EXPECT().Func(gomock.Any()).Times(1)

		kernel = MakeBuilder().
			WithDriver(plainDriver{id: 1, numUpcalls: 1}).
			WithHook(hook).
			Build()

		ret := kernel.Command(1, 0, 0, 0)
		Expect(abi.ReturnVariant(ret[0])).To(Equal(abi.Success))
		Expect(kernel.NumHooks()).To(Equal(1))
	})

	It("should not share driver lists between builders", func() {
		base := MakeBuilder().WithDriver(plainDriver{id: 1})
		a := base.WithDriver(plainDriver{id: 2})
		b := base.WithDriver(plainDriver{id: 3})

		Expect(a.drivers[1].ID()).To(BeEquivalentTo(2))
		Expect(b.drivers[1].ID()).To(BeEquivalentTo(3))
	})

	It("should panic on duplicated hooks", func() {
		hook := NewMockHook(mockCtrl)
		kernel.AcceptHook(hook)

		Expect(func() { kernel.AcceptHook(hook) }).To(Panic())
	})

	It("should report unconsumed expectations", func() {
		kernel.AddExpectedSyscall(ExpectedSubscribe{DriverNumber: 1})

		Expect(kernel.RemainingExpectedSyscalls()).To(HaveLen(1))
		Expect(kernel.ExpectationsMustBeConsumed).
			To(PanicWith(ContainSubstring("1 expected syscalls were never made")))

		kernel.AddDriver(plainDriver{id: 1, numUpcalls: 1})
		kernel.Subscribe(1, 0, 0, 0)

		Expect(kernel.ExpectationsMustBeConsumed).NotTo(Panic())
	})
})
