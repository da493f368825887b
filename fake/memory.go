package fake

import (
	"errors"
	"fmt"

	"github.com/google/btree"

	"github.com/sarchlab/fakekernel/abi"
)

const (
	pageSize   abi.Register = 0x1000
	memoryBase abi.Register = 0x2000_0000
)

// ErrUnmapped is returned when an address range is not backed by memory.
var ErrUnmapped = errors.New("address range is not mapped")

type region struct {
	base abi.Register
	data []byte
}

func (r region) last() abi.Register {
	return r.base + abi.Register(len(r.data)) - 1
}

// Memory is a simulated userland address space. Test code maps byte
// slices into it and passes the returned addresses to Allow, the way a
// process passes pointers to the kernel.
type Memory struct {
	regions *btree.BTreeG[region]
	next    abi.Register
}

// NewMemory creates an empty address space.
func NewMemory() *Memory {
	return &Memory{
		regions: btree.NewG(8, func(a, b region) bool {
			return a.base < b.base
		}),
		next: memoryBase,
	}
}

// Map places data at a fresh page-aligned address and returns it. The
// memory keeps referring to data, so writes through a read-write grant are
// visible in the caller's slice.
func (m *Memory) Map(data []byte) abi.Register {
	base := m.next
	m.regions.ReplaceOrInsert(region{base: base, data: data})

	// Leave an unmapped guard page between regions.
	size := (abi.Register(len(data)) + pageSize - 1) &^ (pageSize - 1)
	m.next = base + size + pageSize

	return base
}

// Unmap removes the region starting at addr.
func (m *Memory) Unmap(addr abi.Register) error {
	if _, found := m.regions.Delete(region{base: addr}); !found {
		return fmt.Errorf("unmap %#x: %w", uint64(addr), ErrUnmapped)
	}

	return nil
}

// Slice returns the bytes backing [addr, addr+length). The range must lie
// within a single mapped region. A zero-length range always succeeds.
func (m *Memory) Slice(addr, length abi.Register) ([]byte, error) {
	if length == 0 {
		return []byte{}, nil
	}

	last := addr + length - 1
	if last < addr {
		return nil, fmt.Errorf("range %#x+%#x wraps: %w",
			uint64(addr), uint64(length), ErrUnmapped)
	}

	var found region
	var ok bool
	m.regions.DescendLessOrEqual(region{base: addr}, func(r region) bool {
		found, ok = r, true
		return false
	})

	if !ok || len(found.data) == 0 || last > found.last() {
		return nil, fmt.Errorf("range %#x+%#x: %w",
			uint64(addr), uint64(length), ErrUnmapped)
	}

	offset := addr - found.base

	return found.data[offset : offset+length : offset+length], nil
}
