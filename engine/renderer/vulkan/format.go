package vulkan

import (
	"github.com/cockroachdb/errors"
	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/prism/engine/core"
	"github.com/spaghettifunk/prism/engine/renderer/metadata"
)

var vulkanFormats = [metadata.FormatCount]vk.Format{
	metadata.FormatUndefined:         vk.FormatUndefined,
	metadata.FormatR8Unorm:           vk.FormatR8Unorm,
	metadata.FormatR8Snorm:           vk.FormatR8Snorm,
	metadata.FormatR8Uint:            vk.FormatR8Uint,
	metadata.FormatR8Sint:            vk.FormatR8Sint,
	metadata.FormatR8Srgb:            vk.FormatR8Srgb,
	metadata.FormatR8G8Unorm:         vk.FormatR8g8Unorm,
	metadata.FormatR8G8Snorm:         vk.FormatR8g8Snorm,
	metadata.FormatR8G8Uint:          vk.FormatR8g8Uint,
	metadata.FormatR8G8Sint:          vk.FormatR8g8Sint,
	metadata.FormatR8G8Srgb:          vk.FormatR8g8Srgb,
	metadata.FormatR8G8B8Unorm:       vk.FormatR8g8b8Unorm,
	metadata.FormatR8G8B8Snorm:       vk.FormatR8g8b8Snorm,
	metadata.FormatR8G8B8Uint:        vk.FormatR8g8b8Uint,
	metadata.FormatR8G8B8Sint:        vk.FormatR8g8b8Sint,
	metadata.FormatR8G8B8Srgb:        vk.FormatR8g8b8Srgb,
	metadata.FormatB8G8R8Unorm:       vk.FormatB8g8r8Unorm,
	metadata.FormatB8G8R8Srgb:        vk.FormatB8g8r8Srgb,
	metadata.FormatR8G8B8A8Unorm:     vk.FormatR8g8b8a8Unorm,
	metadata.FormatR8G8B8A8Snorm:     vk.FormatR8g8b8a8Snorm,
	metadata.FormatR8G8B8A8Uint:      vk.FormatR8g8b8a8Uint,
	metadata.FormatR8G8B8A8Sint:      vk.FormatR8g8b8a8Sint,
	metadata.FormatR8G8B8A8Srgb:      vk.FormatR8g8b8a8Srgb,
	metadata.FormatB8G8R8A8Unorm:     vk.FormatB8g8r8a8Unorm,
	metadata.FormatB8G8R8A8Srgb:      vk.FormatB8g8r8a8Srgb,
	metadata.FormatR16Unorm:          vk.FormatR16Unorm,
	metadata.FormatR16Snorm:          vk.FormatR16Snorm,
	metadata.FormatR16Uint:           vk.FormatR16Uint,
	metadata.FormatR16Sint:           vk.FormatR16Sint,
	metadata.FormatR16Float:          vk.FormatR16Sfloat,
	metadata.FormatR16G16Unorm:       vk.FormatR16g16Unorm,
	metadata.FormatR16G16Snorm:       vk.FormatR16g16Snorm,
	metadata.FormatR16G16Uint:        vk.FormatR16g16Uint,
	metadata.FormatR16G16Sint:        vk.FormatR16g16Sint,
	metadata.FormatR16G16Float:       vk.FormatR16g16Sfloat,
	metadata.FormatR16G16B16Unorm:    vk.FormatR16g16b16Unorm,
	metadata.FormatR16G16B16Snorm:    vk.FormatR16g16b16Snorm,
	metadata.FormatR16G16B16Uint:     vk.FormatR16g16b16Uint,
	metadata.FormatR16G16B16Sint:     vk.FormatR16g16b16Sint,
	metadata.FormatR16G16B16Float:    vk.FormatR16g16b16Sfloat,
	metadata.FormatR16G16B16A16Unorm: vk.FormatR16g16b16a16Unorm,
	metadata.FormatR16G16B16A16Snorm: vk.FormatR16g16b16a16Snorm,
	metadata.FormatR16G16B16A16Uint:  vk.FormatR16g16b16a16Uint,
	metadata.FormatR16G16B16A16Sint:  vk.FormatR16g16b16a16Sint,
	metadata.FormatR16G16B16A16Float: vk.FormatR16g16b16a16Sfloat,
	metadata.FormatR32Uint:           vk.FormatR32Uint,
	metadata.FormatR32Sint:           vk.FormatR32Sint,
	metadata.FormatR32Float:          vk.FormatR32Sfloat,
	metadata.FormatR32G32Uint:        vk.FormatR32g32Uint,
	metadata.FormatR32G32Sint:        vk.FormatR32g32Sint,
	metadata.FormatR32G32Float:       vk.FormatR32g32Sfloat,
	metadata.FormatR32G32B32Uint:     vk.FormatR32g32b32Uint,
	metadata.FormatR32G32B32Sint:     vk.FormatR32g32b32Sint,
	metadata.FormatR32G32B32Float:    vk.FormatR32g32b32Sfloat,
	metadata.FormatR32G32B32A32Uint:  vk.FormatR32g32b32a32Uint,
	metadata.FormatR32G32B32A32Sint:  vk.FormatR32g32b32a32Sint,
	metadata.FormatR32G32B32A32Float: vk.FormatR32g32b32a32Sfloat,
	// packed formats list components from the most significant bit
	metadata.FormatR10G10B10A2Unorm: vk.FormatA2b10g10r10UnormPack32,
	metadata.FormatR11G11B10Float:   vk.FormatB10g11r11UfloatPack32,
	metadata.FormatD16Unorm:         vk.FormatD16Unorm,
	metadata.FormatD32Float:         vk.FormatD32Sfloat,
	metadata.FormatS8Uint:           vk.FormatS8Uint,
	metadata.FormatD16UnormS8Uint:   vk.FormatD16UnormS8Uint,
	metadata.FormatD24UnormS8Uint:   vk.FormatD24UnormS8Uint,
	metadata.FormatD32FloatS8Uint:   vk.FormatD32SfloatS8Uint,
	metadata.FormatBC1RgbUnorm:      vk.FormatBc1RgbUnormBlock,
	metadata.FormatBC1RgbSrgb:       vk.FormatBc1RgbSrgbBlock,
	metadata.FormatBC1RgbaUnorm:     vk.FormatBc1RgbaUnormBlock,
	metadata.FormatBC1RgbaSrgb:      vk.FormatBc1RgbaSrgbBlock,
	metadata.FormatBC2Unorm:         vk.FormatBc2UnormBlock,
	metadata.FormatBC2Srgb:          vk.FormatBc2SrgbBlock,
	metadata.FormatBC3Unorm:         vk.FormatBc3UnormBlock,
	metadata.FormatBC3Srgb:          vk.FormatBc3SrgbBlock,
	metadata.FormatBC4Unorm:         vk.FormatBc4UnormBlock,
	metadata.FormatBC4Snorm:         vk.FormatBc4SnormBlock,
	metadata.FormatBC5Unorm:         vk.FormatBc5UnormBlock,
	metadata.FormatBC5Snorm:         vk.FormatBc5SnormBlock,
	metadata.FormatBC6HUfloat:       vk.FormatBc6hUfloatBlock,
	metadata.FormatBC6HSfloat:       vk.FormatBc6hSfloatBlock,
	metadata.FormatBC7Unorm:         vk.FormatBc7UnormBlock,
	metadata.FormatBC7Srgb:          vk.FormatBc7SrgbBlock,
}

// VulkanFormat translates a registry format. FormatUndefined and values
// outside the registry fail with core.ErrInvalidCreateArgument.
func VulkanFormat(format metadata.Format) (vk.Format, error) {
	if format <= metadata.FormatUndefined || format >= metadata.FormatCount {
		return vk.FormatUndefined, errors.Wrapf(core.ErrInvalidCreateArgument, "no vulkan format for %s", format)
	}
	return vulkanFormats[format], nil
}

func VulkanIndexType(indexType metadata.IndexType) (vk.IndexType, error) {
	switch indexType {
	case metadata.IndexTypeUint8:
		return indexTypeUint8, nil
	case metadata.IndexTypeUint16:
		return vk.IndexTypeUint16, nil
	case metadata.IndexTypeUint32:
		return vk.IndexTypeUint32, nil
	}
	return 0, errors.Wrapf(core.ErrIndexTypeMismatch, "no vulkan index type for %s", indexType)
}

func VulkanTopology(topology metadata.PrimitiveTopology) (vk.PrimitiveTopology, error) {
	switch topology {
	case metadata.PrimitiveTopologyTriangleList:
		return vk.PrimitiveTopologyTriangleList, nil
	case metadata.PrimitiveTopologyTriangleStrip:
		return vk.PrimitiveTopologyTriangleStrip, nil
	case metadata.PrimitiveTopologyTriangleFan:
		return vk.PrimitiveTopologyTriangleFan, nil
	case metadata.PrimitiveTopologyPointList:
		return vk.PrimitiveTopologyPointList, nil
	case metadata.PrimitiveTopologyLineList:
		return vk.PrimitiveTopologyLineList, nil
	case metadata.PrimitiveTopologyLineStrip:
		return vk.PrimitiveTopologyLineStrip, nil
	}
	return 0, errors.Wrapf(core.ErrInvalidCreateArgument, "unknown primitive topology %d", uint32(topology))
}
