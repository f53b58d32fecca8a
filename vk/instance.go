package vk

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v3"
	"github.com/vkngwrapper/core/v3/common"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/ext_debug_utils"
	"github.com/vkngwrapper/extensions/v3/khr_portability_enumeration"
	"github.com/vkngwrapper/extensions/v3/khr_surface"
	"github.com/vkngwrapper/forge"
)

const validationLayer = "VK_LAYER_KHRONOS_validation"

// Instance wraps the instance-level drivers. When validation is enabled the
// debug messenger lives and dies with it.
type Instance struct {
	Driver   core1_0.CoreInstanceDriver
	Surfaces khr_surface.ExtensionDriver

	debugDriver ext_debug_utils.ExtensionDriver
	messenger   ext_debug_utils.DebugUtilsMessenger
}

// CreateInstance loads the system Vulkan driver and creates an instance.
// The instance exists before any window does, so it enables khr_surface
// plus every platform surface extension the driver offers; the one the
// window actually needs is then already in place.
func (b *Backend) CreateInstance(appName string, appVersion common.Version) (forge.Instance, error) {
	globalDriver, err := core.CreateSystemDriver()
	if err != nil {
		return nil, errors.Wrap(err, "loading vulkan driver")
	}

	info := core1_0.InstanceCreateInfo{
		ApplicationName:    appName,
		ApplicationVersion: appVersion,
		EngineName:         "forge",
		EngineVersion:      common.CreateVersion(1, 0, 0),
		APIVersion:         common.Vulkan1_2,
	}

	extensions, _, err := globalDriver.AvailableExtensions()
	if err != nil {
		return nil, errors.Wrap(err, "querying instance extensions")
	}

	_, hasSurface := extensions[khr_surface.ExtensionName]
	if !hasSurface {
		return nil, errors.Errorf("driver does not support %s", khr_surface.ExtensionName)
	}
	info.EnabledExtensionNames = append(info.EnabledExtensionNames, khr_surface.ExtensionName)
	for name := range extensions {
		if name != khr_surface.ExtensionName && strings.HasSuffix(name, "_surface") {
			info.EnabledExtensionNames = append(info.EnabledExtensionNames, name)
		}
	}

	_, enumerationSupported := extensions[khr_portability_enumeration.ExtensionName]
	if enumerationSupported {
		info.EnabledExtensionNames = append(info.EnabledExtensionNames, khr_portability_enumeration.ExtensionName)
		info.Flags |= khr_portability_enumeration.InstanceCreateEnumeratePortability
	}

	if b.opts.Validation {
		layers, _, err := globalDriver.AvailableLayers()
		if err != nil {
			return nil, errors.Wrap(err, "querying instance layers")
		}

		_, hasValidation := layers[validationLayer]
		if !hasValidation {
			return nil, errors.Errorf("validation requested but %s is not installed", validationLayer)
		}
		info.EnabledLayerNames = append(info.EnabledLayerNames, validationLayer)
		info.EnabledExtensionNames = append(info.EnabledExtensionNames, ext_debug_utils.ExtensionName)

		// Covers instance creation itself, before the messenger exists.
		info.Next = debugMessengerOptions()
	}

	instanceDriver, _, err := globalDriver.CreateInstance(nil, info)
	if err != nil {
		return nil, errors.Wrap(err, "creating vulkan instance")
	}

	instance := &Instance{
		Driver:   instanceDriver,
		Surfaces: khr_surface.CreateExtensionDriverFromCoreDriver(instanceDriver),
	}

	if b.opts.Validation {
		instance.debugDriver = ext_debug_utils.CreateExtensionDriverFromCoreDriver(instanceDriver)
		instance.messenger, _, err = instance.debugDriver.CreateDebugUtilsMessenger(nil, debugMessengerOptions())
		if err != nil {
			instanceDriver.DestroyInstance(nil)
			return nil, errors.Wrap(err, "creating debug messenger")
		}
	}

	return instance, nil
}

func (i *Instance) Destroy() {
	if i.messenger.Initialized() {
		i.debugDriver.DestroyDebugUtilsMessenger(i.messenger, nil)
		i.messenger = ext_debug_utils.DebugUtilsMessenger{}
	}

	i.Driver.DestroyInstance(nil)
}

func debugMessengerOptions() ext_debug_utils.DebugUtilsMessengerCreateInfo {
	return ext_debug_utils.DebugUtilsMessengerCreateInfo{
		MessageSeverity: ext_debug_utils.SeverityError | ext_debug_utils.SeverityWarning,
		MessageType:     ext_debug_utils.TypeGeneral | ext_debug_utils.TypeValidation | ext_debug_utils.TypePerformance,
		UserCallback:    logValidation,
	}
}

func logValidation(msgType ext_debug_utils.DebugUtilsMessageTypeFlags, severity ext_debug_utils.DebugUtilsMessageSeverityFlags, data *ext_debug_utils.DebugUtilsMessengerCallbackData) bool {
	forge.Logger().Warn("validation message",
		"severity", severity,
		"type", msgType,
		"message", data.Message)
	return false
}
