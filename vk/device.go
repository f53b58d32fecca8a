package vk

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/khr_portability_subset"
	"github.com/vkngwrapper/extensions/v3/khr_swapchain"
	"github.com/vkngwrapper/forge"
)

// Device owns the logical device driver, its swapchain extension, and the
// pipeline cache all its pipelines compile through.
type Device struct {
	Driver     core1_0.CoreDeviceDriver
	Swapchains khr_swapchain.ExtensionDriver

	cache core1_0.PipelineCache
}

// QueueGroup carries the queues opened on one family.
type QueueGroup struct {
	Family int
	Queues []core1_0.Queue
}

func (g *QueueGroup) FamilyIndex() int {
	return g.Family
}

// OpenDevice creates a logical device with one queue on the given family,
// the swapchain extension, and, where the driver asks for it, portability
// subset support for MoltenVK and friends.
func (b *Backend) OpenDevice(adapter forge.Adapter, family forge.QueueFamily) (forge.Device, forge.QueueGroup, error) {
	ad := adapter.(*Adapter)

	properties, err := ad.instance.Driver.GetPhysicalDeviceProperties(ad.Handle)
	if err != nil {
		return nil, nil, errors.Wrap(err, "querying device properties")
	}

	extensionNames := []string{khr_swapchain.ExtensionName}

	extensions, _, err := ad.instance.Driver.EnumerateDeviceExtensionProperties(ad.Handle)
	if err != nil {
		return nil, nil, errors.Wrap(err, "enumerating device extensions")
	}
	_, portability := extensions[khr_portability_subset.ExtensionName]
	if portability {
		extensionNames = append(extensionNames, khr_portability_subset.ExtensionName)
	}

	deviceDriver, _, err := ad.instance.Driver.CreateDevice(ad.Handle, nil, core1_0.DeviceCreateInfo{
		QueueCreateInfos: []core1_0.DeviceQueueCreateInfo{
			{
				QueueFamilyIndex: family.Index(),
				QueuePriorities:  []float32{1.0},
			},
		},
		EnabledFeatures:       &core1_0.PhysicalDeviceFeatures{},
		EnabledExtensionNames: extensionNames,
	})
	if err != nil {
		return nil, nil, errors.Wrap(err, "creating logical device")
	}

	device := &Device{
		Driver:     deviceDriver,
		Swapchains: khr_swapchain.CreateExtensionDriverFromCoreDriver(deviceDriver),
	}

	if err := device.primeCache(b.opts.PipelineCacheData, properties); err != nil {
		deviceDriver.DestroyDevice(nil)
		return nil, nil, err
	}

	queues := &QueueGroup{
		Family: family.Index(),
		Queues: []core1_0.Queue{deviceDriver.GetQueue(family.Index(), 0)},
	}

	forge.Logger().Info("device opened",
		"name", properties.DeviceName,
		"vendorID", properties.VendorID,
		"deviceID", properties.DeviceID,
		"queueFamily", family.Index(),
		"portability", portability)
	return device, queues, nil
}

func (d *Device) Destroy() {
	if d.cache.Initialized() {
		d.Driver.DestroyPipelineCache(d.cache, nil)
		d.cache = core1_0.PipelineCache{}
	}

	d.Driver.DestroyDevice(nil)
}
