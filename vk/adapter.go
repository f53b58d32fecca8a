package vk

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/forge"
)

// Adapter wraps one physical device.
type Adapter struct {
	Handle   core1_0.PhysicalDevice
	instance *Instance
}

func (b *Backend) EnumerateAdapters(instance forge.Instance) ([]forge.Adapter, error) {
	inst := instance.(*Instance)

	devices, _, err := inst.Driver.EnumeratePhysicalDevices()
	if err != nil {
		return nil, errors.Wrap(err, "enumerating physical devices")
	}

	adapters := make([]forge.Adapter, 0, len(devices))
	for _, device := range devices {
		adapters = append(adapters, &Adapter{Handle: device, instance: inst})
	}
	return adapters, nil
}

func (a *Adapter) QueueFamilies() []forge.QueueFamily {
	props := a.instance.Driver.GetPhysicalDeviceQueueFamilyProperties(a.Handle)

	families := make([]forge.QueueFamily, 0, len(props))
	for i, p := range props {
		families = append(families, &QueueFamily{
			index:   i,
			flags:   p.QueueFlags,
			adapter: a,
		})
	}
	return families
}

// QueueFamily describes one queue family on its adapter.
type QueueFamily struct {
	index   int
	flags   core1_0.QueueFlags
	adapter *Adapter
}

func (f *QueueFamily) Index() int {
	return f.index
}

func (f *QueueFamily) SupportsGraphics() bool {
	return f.flags&core1_0.QueueGraphics != 0
}

func (f *QueueFamily) SupportsPresent(surface forge.Surface) (bool, error) {
	surf := surface.(*Surface)

	supported, _, err := surf.ext.GetPhysicalDeviceSurfaceSupport(surf.Handle, f.adapter.Handle, f.index)
	if err != nil {
		return false, errors.Wrap(err, "querying presentation support")
	}
	return supported, nil
}
