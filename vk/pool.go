package vk

import (
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/forge"
)

// CommandPool enforces the fixed budget the pool was created with: Allocate
// fails once capacity primary buffers are outstanding. Allocate and Free are
// safe for concurrent use; recording on the buffers themselves is not.
type CommandPool struct {
	Handle core1_0.CommandPool

	driver   core1_0.CoreDeviceDriver
	capacity int

	mu        sync.Mutex
	allocated int
}

func (b *Backend) CreateCommandPool(device forge.Device, queues forge.QueueGroup, capacity int) (forge.CommandPool, error) {
	dev := device.(*Device)

	pool, _, err := dev.Driver.CreateCommandPool(nil, core1_0.CommandPoolCreateInfo{
		QueueFamilyIndex: queues.FamilyIndex(),
	})
	if err != nil {
		return nil, errors.Wrap(err, "creating command pool")
	}

	return &CommandPool{Handle: pool, driver: dev.Driver, capacity: capacity}, nil
}

func (p *CommandPool) Capacity() int {
	return p.capacity
}

// Allocate hands out count primary command buffers from the pool's budget.
func (p *CommandPool) Allocate(count int) ([]core1_0.CommandBuffer, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.allocated+count > p.capacity {
		return nil, errors.Errorf("command pool exhausted: %d of %d buffers in use, %d more requested",
			p.allocated, p.capacity, count)
	}

	buffers, _, err := p.driver.AllocateCommandBuffers(core1_0.CommandBufferAllocateInfo{
		CommandPool:        p.Handle,
		Level:              core1_0.CommandBufferLevelPrimary,
		CommandBufferCount: count,
	})
	if err != nil {
		return nil, errors.Wrap(err, "allocating command buffers")
	}

	p.allocated += count
	return buffers, nil
}

// Free returns buffers to the pool's budget.
func (p *CommandPool) Free(buffers ...core1_0.CommandBuffer) {
	if len(buffers) == 0 {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.driver.FreeCommandBuffers(buffers...)
	p.allocated -= len(buffers)
	if p.allocated < 0 {
		p.allocated = 0
	}
}

func (p *CommandPool) Destroy() {
	p.driver.DestroyCommandPool(p.Handle, nil)
}
