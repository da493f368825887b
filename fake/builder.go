package fake

import "log"

// Builder can build kernels.
type Builder struct {
	drivers []Driver
	hooks   []Hook
	memory  *Memory
	logger  *log.Logger
}

// MakeBuilder creates a builder with default parameters.
func MakeBuilder() Builder {
	return Builder{}
}

// WithDriver adds a driver that the kernel registers when built.
func (b Builder) WithDriver(d Driver) Builder {
	b.drivers = append(b.drivers[:len(b.drivers):len(b.drivers)], d)
	return b
}

// WithHook adds a hook to the kernel.
func (b Builder) WithHook(h Hook) Builder {
	b.hooks = append(b.hooks[:len(b.hooks):len(b.hooks)], h)
	return b
}

// WithMemory sets the userland memory allowed buffers are resolved in.
func (b Builder) WithMemory(m *Memory) Builder {
	b.memory = m
	return b
}

// WithLogger makes the kernel print every syscall and upcall delivery to
// the logger.
func (b Builder) WithLogger(l *log.Logger) Builder {
	b.logger = l
	return b
}

// Build creates the kernel.
func (b Builder) Build() *Kernel {
	k := &Kernel{
		data:   newKernelData(),
		memory: b.memory,
	}

	if k.memory == nil {
		k.memory = NewMemory()
	}

	for _, d := range b.drivers {
		k.AddDriver(d)
	}

	if b.logger != nil {
		k.AcceptHook(NewSyscallLogger(b.logger))
	}

	for _, h := range b.hooks {
		k.AcceptHook(h)
	}

	return k
}
