package fake

import (
	"bytes"
	"fmt"
	"log"

	"github.com/google/btree"

	"github.com/sarchlab/fakekernel/abi"
)

// grant is one outstanding allowed range. The zero id belongs to the null
// buffer, which is never stored.
type grant struct {
	id      uint64
	address abi.Register
	length  abi.Register
}

// last is the address of the final byte. It is only meaningful for
// non-empty grants.
func (g grant) last() abi.Register {
	return g.address + g.length - 1
}

// grantSet tracks the outstanding grants of one access mode. Non-empty
// grants are kept ordered by address so an overlap check only has to look
// at the closest grant below the end of the new range.
type grantSet struct {
	byAddress   *btree.BTreeG[grant]
	outstanding map[uint64]grant
}

func newGrantSet() grantSet {
	return grantSet{
		byAddress: btree.NewG(8, func(a, b grant) bool {
			return a.address < b.address
		}),
		outstanding: make(map[uint64]grant),
	}
}

type overlapError struct {
	inserted, existing grant
}

func (e *overlapError) Error() string {
	return fmt.Sprintf("buffer %#x+%#x overlaps already-allowed buffer %#x+%#x",
		uint64(e.inserted.address), uint64(e.inserted.length),
		uint64(e.existing.address), uint64(e.existing.length))
}

func (s *grantSet) insert(g grant) error {
	if g.length == 0 {
		s.outstanding[g.id] = g
		return nil
	}

	if g.last() < g.address {
		return fmt.Errorf("buffer %#x+%#x wraps around the address space",
			uint64(g.address), uint64(g.length))
	}

	var conflict *grant
	s.byAddress.DescendLessOrEqual(grant{address: g.last()},
		func(existing grant) bool {
			if existing.last() >= g.address {
				conflict = &existing
			}
			return false
		})

	if conflict != nil {
		return &overlapError{inserted: g, existing: *conflict}
	}

	s.byAddress.ReplaceOrInsert(g)
	s.outstanding[g.id] = g

	return nil
}

func (s *grantSet) remove(id uint64) (grant, bool) {
	g, ok := s.outstanding[id]
	if !ok {
		return grant{}, false
	}

	delete(s.outstanding, id)
	if g.length > 0 {
		s.byAddress.Delete(g)
	}

	return g, true
}

// allowDB is the buffer grant database. Read-only and read-write grants
// live in separate namespaces and are only checked against their own kind.
type allowDB struct {
	ro     grantSet
	rw     grantSet
	nextID uint64
}

func newAllowDB() allowDB {
	return allowDB{
		ro: newGrantSet(),
		rw: newGrantSet(),
	}
}

func (db *allowDB) newGrant(address, length abi.Register) grant {
	db.nextID++
	return grant{id: db.nextID, address: address, length: length}
}

func (db *allowDB) insertRO(
	address, length abi.Register,
	mem *Memory,
) (RoAllowBuffer, error) {
	g := db.newGrant(address, length)
	if err := db.ro.insert(g); err != nil {
		return RoAllowBuffer{}, err
	}

	return RoAllowBuffer{grant: g, memory: mem}, nil
}

func (db *allowDB) insertRW(
	address, length abi.Register,
	mem *Memory,
) (RwAllowBuffer, error) {
	g := db.newGrant(address, length)
	if err := db.rw.insert(g); err != nil {
		return RwAllowBuffer{}, err
	}

	return RwAllowBuffer{grant: g, memory: mem}, nil
}

func (db *allowDB) removeRO(buf RoAllowBuffer) (abi.Register, abi.Register) {
	if buf.grant.id == 0 {
		return buf.grant.address, buf.grant.length
	}

	g, ok := db.ro.remove(buf.grant.id)
	if !ok {
		log.Panicf("read-only buffer %#x+%#x returned but it is not allowed",
			uint64(buf.grant.address), uint64(buf.grant.length))
	}

	return g.address, g.length
}

func (db *allowDB) removeRW(buf RwAllowBuffer) (abi.Register, abi.Register) {
	if buf.grant.id == 0 {
		return buf.grant.address, buf.grant.length
	}

	g, ok := db.rw.remove(buf.grant.id)
	if !ok {
		log.Panicf("read-write buffer %#x+%#x returned but it is not allowed",
			uint64(buf.grant.address), uint64(buf.grant.length))
	}

	return g.address, g.length
}

// RoAllowBuffer is a read-only buffer userland has shared with the kernel.
// Drivers receive it from Allow and hand back the buffer they release. The
// zero value is the null buffer.
type RoAllowBuffer struct {
	grant  grant
	memory *Memory
}

// Address returns the userland address of the buffer.
func (b RoAllowBuffer) Address() abi.Register {
	return b.grant.address
}

// Len returns the length of the buffer.
func (b RoAllowBuffer) Len() int {
	return int(b.grant.length)
}

// Bytes returns a copy of the buffer contents. It returns nil if the
// buffer is not backed by mapped memory.
func (b RoAllowBuffer) Bytes() []byte {
	if b.memory == nil {
		return nil
	}

	data, err := b.memory.Slice(b.grant.address, b.grant.length)
	if err != nil {
		return nil
	}

	return bytes.Clone(data)
}

// RwAllowBuffer is a read-write buffer userland has shared with the
// kernel. The zero value is the null buffer.
type RwAllowBuffer struct {
	grant  grant
	memory *Memory
}

// Address returns the userland address of the buffer.
func (b RwAllowBuffer) Address() abi.Register {
	return b.grant.address
}

// Len returns the length of the buffer.
func (b RwAllowBuffer) Len() int {
	return int(b.grant.length)
}

// Bytes returns the userland memory behind the buffer. Writes are visible
// to userland. It returns nil if the buffer is not backed by mapped memory.
func (b RwAllowBuffer) Bytes() []byte {
	if b.memory == nil {
		return nil
	}

	data, err := b.memory.Slice(b.grant.address, b.grant.length)
	if err != nil {
		return nil
	}

	return data
}
