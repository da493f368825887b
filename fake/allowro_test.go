package fake

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/sarchlab/fakekernel/abi"
)

var _ = Describe("Read-Only Allow", func() {
	var (
		mockCtrl *gomock.Controller
		kernel   *Kernel
		driver   *MockDriver
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		driver = NewMockDriver(mockCtrl)
		driver.EXPECT().ID().Return(abi.DriverNumber(1)).AnyTimes()
		driver.EXPECT().NumUpcalls().Return(uint32(0)).AnyTimes()

		kernel = MakeBuilder().WithDriver(driver).Build()
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should fail with NoDevice for an unknown driver", func() {
		ret := kernel.AllowRO(2, 0, 0x100, 4)

		Expect(ret).To(Equal(abi.Failure2(abi.ErrorNoDevice, 0x100, 4)))
		Expect(kernel.SyscallLog()).To(Equal([]SyscallLogEntry{
			AllowROEntry{DriverNumber: 2, BufferNumber: 0, Len: 4},
		}))
	})

	It("should hand the buffer to the driver and echo it back", func() {
		data := []byte("abcd")
		addr := kernel.Memory().Map(data)

		driver.EXPECT().
			AllowReadOnly(abi.BufferNumber(3), gomock.Any()).
			DoAndReturn(func(
				_ abi.BufferNumber,
				buf RoAllowBuffer,
			) (RoAllowBuffer, error) {
				Expect(buf.Address()).To(Equal(addr))
				Expect(buf.Len()).To(Equal(4))
				Expect(buf.Bytes()).To(Equal([]byte("abcd")))

				return buf, nil
			})

		ret := kernel.AllowRO(1, 3, addr, 4)

		Expect(ret).To(Equal(abi.Success2(addr, 4, 4)))
	})

	It("should return the previously allowed buffer", func() {
		keeping := newKeepingDriver(2, 0)
		kernel.AddDriver(keeping)

		ret := kernel.AllowRO(2, 0, 0x100, 8)
		Expect(ret).To(Equal(abi.Success2(0, 0, 8)))

		ret = kernel.AllowRO(2, 0, 0x200, 4)
		Expect(ret).To(Equal(abi.Success2(0x100, 8, 4)))
	})

	It("should panic when buffers overlap while both are allowed", func() {
		keeping := newKeepingDriver(2, 0)
		kernel.AddDriver(keeping)

		kernel.AllowRO(2, 0, 0x100, 8)

		Expect(func() { kernel.AllowRO(2, 1, 0x104, 8) }).
			To(PanicWith(ContainSubstring("overlaps already-allowed buffer")))
	})

	It("should allow a range again after it is returned", func() {
		keeping := newKeepingDriver(2, 0)
		kernel.AddDriver(keeping)

		kernel.AllowRO(2, 0, 0x100, 8)
		kernel.AllowRO(2, 0, 0, 0)

		ret := kernel.AllowRO(2, 1, 0x104, 8)
		Expect(ret).To(Equal(abi.Success2(0, 0, 8)))
	})

	It("should report driver errors with the returned buffer", func() {
		driver.EXPECT().
			AllowReadOnly(gomock.Any(), gomock.Any()).
			DoAndReturn(func(
				_ abi.BufferNumber,
				buf RoAllowBuffer,
			) (RoAllowBuffer, error) {
				return buf, abi.ErrorNoSupport
			})

		ret := kernel.AllowRO(1, 0, 0x100, 4)

		Expect(ret).To(Equal(abi.Failure2(abi.ErrorNoSupport, 0x100, 4)))
	})

	It("should fail with NoSupport through DriverBase", func() {
		kernel.AddDriver(plainDriver{id: 7})

		ret := kernel.AllowRO(7, 0, 0x100, 4)

		Expect(ret).To(Equal(abi.Failure2(abi.ErrorNoSupport, 0x100, 4)))
	})

	It("should panic when the driver fails with a foreign error", func() {
		driver.EXPECT().
			AllowReadOnly(gomock.Any(), gomock.Any()).
			DoAndReturn(func(
				_ abi.BufferNumber,
				buf RoAllowBuffer,
			) (RoAllowBuffer, error) {
				return buf, errors.New("boom")
			})

		Expect(func() { kernel.AllowRO(1, 0, 0x100, 4) }).
			To(PanicWith(ContainSubstring("not a kernel error code")))
	})

	It("should inject the expected error without calling the driver", func() {
		kernel.AddExpectedSyscall(ExpectedAllowRO{
			DriverNumber: 1,
			BufferNumber: 2,
			ReturnError:  abi.ErrorBusy,
		})

		ret := kernel.AllowRO(1, 2, 0x100, 4)

		Expect(ret).To(Equal(abi.Failure2(abi.ErrorBusy, 0x100, 4)))
		Expect(kernel.RemainingExpectedSyscalls()).To(BeEmpty())

		// Nothing was granted, so the same range is still free.
		driver.EXPECT().
			AllowReadOnly(gomock.Any(), gomock.Any()).
			DoAndReturn(func(
				_ abi.BufferNumber,
				buf RoAllowBuffer,
			) (RoAllowBuffer, error) {
				return buf, nil
			})
		Expect(kernel.AllowRO(1, 2, 0x100, 4)).
			To(Equal(abi.Success2(0x100, 4, 4)))
	})

	It("should panic when the expected buffer number differs", func() {
		kernel.AddExpectedSyscall(ExpectedAllowRO{
			DriverNumber: 1,
			BufferNumber: 2,
		})

		Expect(func() { kernel.AllowRO(1, 3, 0x100, 4) }).
			To(PanicWith(ContainSubstring("expected different buffer number")))
	})

	It("should panic when a different syscall is expected", func() {
		kernel.AddExpectedSyscall(ExpectedAllowRW{DriverNumber: 1})

		Expect(func() { kernel.AllowRO(1, 0, 0x100, 4) }).
			To(PanicWith(
				"expected syscall AllowRW{driver: 1, buffer: 0, error: None} " +
					"but received AllowRO{driver: 1, buffer: 0, len: 4}"))
	})
})
