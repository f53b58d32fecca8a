package vk

import (
	"bytes"
	"encoding/binary"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/vkngwrapper/core/v3/common"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/forge"
)

// primeCache creates the device's pipeline cache, seeded with serialized
// data from a previous run when that data still matches the adapter. Data
// failing any header check is dropped with a warning; the cache then starts
// empty. Never handing mismatched blobs to the driver avoids undefined
// loader behavior on stale caches.
func (d *Device) primeCache(data []byte, properties *core1_0.PhysicalDeviceProperties) error {
	if len(data) > 0 && !cacheUsable(data, properties) {
		data = nil
	}

	cache, _, err := d.Driver.CreatePipelineCache(nil, core1_0.PipelineCacheCreateInfo{
		InitialData: data,
	})
	if err != nil {
		return errors.Wrap(err, "creating pipeline cache")
	}

	d.cache = cache
	return nil
}

// cacheUsable validates the serialized cache header against the adapter.
//
// The header layout is fixed by Vulkan:
//
// Offset    Size            Meaning
// ------    ------------    ---------------------------------------------
//      0               4    length in bytes of the entire header, written
//                           as a stream of bytes, least significant first
//      4               4    a PipelineCacheHeaderVersion value
//      8               4    the adapter's vendor ID
//     12               4    the adapter's device ID
//     16    VK_UUID_SIZE    the adapter's pipeline cache UUID
func cacheUsable(data []byte, properties *core1_0.PhysicalDeviceProperties) bool {
	var (
		headerLength  uint32
		headerVersion common.PipelineCacheHeaderVersion
		vendorID      uint32
		deviceID      uint32
		cacheUUID     uuid.UUID
	)

	reader := bytes.NewReader(data)
	fields := []interface{}{&headerLength, &headerVersion, &vendorID, &deviceID, &cacheUUID}
	for _, field := range fields {
		if err := binary.Read(reader, common.ByteOrder, field); err != nil {
			forge.Logger().Warn("rejecting pipeline cache data: truncated header", "size", len(data))
			return false
		}
	}

	if headerLength == 0 {
		forge.Logger().Warn("rejecting pipeline cache data: zero header length")
		return false
	}
	if headerVersion != common.PipelineCacheHeaderVersion1 {
		forge.Logger().Warn("rejecting pipeline cache data: unsupported header version",
			"version", headerVersion)
		return false
	}
	if vendorID != properties.VendorID {
		forge.Logger().Warn("rejecting pipeline cache data: vendor ID mismatch",
			"cache", vendorID, "driver", properties.VendorID)
		return false
	}
	if deviceID != properties.DeviceID {
		forge.Logger().Warn("rejecting pipeline cache data: device ID mismatch",
			"cache", deviceID, "driver", properties.DeviceID)
		return false
	}
	if cacheUUID != properties.PipelineCacheUUID {
		forge.Logger().Warn("rejecting pipeline cache data: cache UUID mismatch",
			"cache", cacheUUID.String(), "driver", properties.PipelineCacheUUID.String())
		return false
	}

	return true
}
