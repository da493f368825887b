package fake

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/fakekernel/abi"
)

var _ = Describe("Read-Write Allow", func() {
	var (
		kernel *Kernel
		driver *keepingDriver
	)

	BeforeEach(func() {
		driver = newKeepingDriver(1, 0)
		kernel = MakeBuilder().WithDriver(driver).Build()
	})

	It("should fail with NoDevice for an unknown driver", func() {
		ret := kernel.AllowRW(9, 0, 0x100, 4)

		Expect(ret).To(Equal(abi.Failure2(abi.ErrorNoDevice, 0x100, 4)))
	})

	It("should log the full length register", func() {
		huge := ^abi.Register(0)

		ret := kernel.AllowRW(9, 0, 0x100, huge)

		Expect(ret).To(Equal(abi.Failure2(abi.ErrorNoDevice, 0x100, huge)))
		Expect(kernel.SyscallLog()).To(Equal([]SyscallLogEntry{
			AllowRWEntry{DriverNumber: 9, Len: huge},
		}))
	})

	It("should grant a buffer ending at the top of the address space", func() {
		address := ^abi.Register(0) - 0xf

		Expect(kernel.AllowRW(1, 0, address, 0x10)).
			To(Equal(abi.Success2(0, 0, 0x10)))
		Expect(kernel.AllowRW(1, 0, 0, 0)).
			To(Equal(abi.Success2(address, 0x10, 0)))
	})

	It("should let the driver write into userland memory", func() {
		data := make([]byte, 4)
		addr := kernel.Memory().Map(data)

		ret := kernel.AllowRW(1, 0, addr, 4)
		Expect(ret).To(Equal(abi.Success2(0, 0, 4)))

		copy(driver.rw[0].Bytes(), "ping")
		Expect(string(data)).To(Equal("ping"))

		ret = kernel.AllowRW(1, 0, 0, 0)
		Expect(ret).To(Equal(abi.Success2(addr, 4, 0)))
	})

	It("should give no view of unmapped buffers", func() {
		kernel.AllowRW(1, 0, 0x100, 4)

		Expect(driver.rw[0].Bytes()).To(BeNil())
	})

	It("should not check read-write buffers against read-only ones", func() {
		Expect(kernel.AllowRO(1, 0, 0x100, 8)).
			To(Equal(abi.Success2(0, 0, 8)))
		Expect(kernel.AllowRW(1, 0, 0x100, 8)).
			To(Equal(abi.Success2(0, 0, 8)))

		Expect(func() { kernel.AllowRW(1, 1, 0x104, 2) }).
			To(PanicWith(ContainSubstring("Read-Write Allow called with a buffer")))
	})

	It("should inject the expected error", func() {
		kernel.AddExpectedSyscall(ExpectedAllowRW{
			DriverNumber: 1,
			BufferNumber: 0,
			ReturnError:  abi.ErrorSize,
		})

		Expect(kernel.AllowRW(1, 0, 0x100, 4)).
			To(Equal(abi.Failure2(abi.ErrorSize, 0x100, 4)))
		Expect(driver.rw).To(BeEmpty())
	})

	It("should panic when the expected driver number differs", func() {
		kernel.AddExpectedSyscall(ExpectedAllowRW{DriverNumber: 2})

		Expect(func() { kernel.AllowRW(1, 0, 0x100, 4) }).
			To(PanicWith(ContainSubstring(
				"expected different driver number (expected 2, got 1)")))
	})
})
