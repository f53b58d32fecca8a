package vk

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/forge"
)

type Semaphore struct {
	Handle core1_0.Semaphore
	driver core1_0.CoreDeviceDriver
}

func (s *Semaphore) Destroy() {
	s.driver.DestroySemaphore(s.Handle, nil)
}

type Fence struct {
	Handle core1_0.Fence
	driver core1_0.CoreDeviceDriver
}

func (f *Fence) Destroy() {
	f.driver.DestroyFence(f.Handle, nil)
}

func (b *Backend) CreateSemaphore(device forge.Device) (forge.Semaphore, error) {
	dev := device.(*Device)

	semaphore, _, err := dev.Driver.CreateSemaphore(nil, core1_0.SemaphoreCreateInfo{})
	if err != nil {
		return nil, errors.Wrap(err, "creating semaphore")
	}
	return &Semaphore{Handle: semaphore, driver: dev.Driver}, nil
}

func (b *Backend) CreateFence(device forge.Device, signaled bool) (forge.Fence, error) {
	dev := device.(*Device)

	info := core1_0.FenceCreateInfo{}
	if signaled {
		info.Flags = core1_0.FenceCreateSignaled
	}

	fence, _, err := dev.Driver.CreateFence(nil, info)
	if err != nil {
		return nil, errors.Wrap(err, "creating fence")
	}
	return &Fence{Handle: fence, driver: dev.Driver}, nil
}
