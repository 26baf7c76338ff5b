package metadata

import "fmt"

// Format identifies a texel or vertex attribute data format.
type Format int32

type FormatDataType int32

const (
	FormatDataTypeUndefined FormatDataType = iota
	FormatDataTypeUnorm
	FormatDataTypeSnorm
	FormatDataTypeUint
	FormatDataTypeSint
	FormatDataTypeFloat
	FormatDataTypeSrgb
)

type FormatAspect int32

const (
	FormatAspectUndefined    FormatAspect = 0x0
	FormatAspectColor        FormatAspect = 0x1
	FormatAspectDepth        FormatAspect = 0x2
	FormatAspectStencil      FormatAspect = 0x4
	FormatAspectDepthStencil FormatAspect = FormatAspectDepth | FormatAspectStencil
)

type FormatLayout int32

const (
	/** @brief Components are laid out one after the other, each BytesPerComponent wide. */
	FormatLayoutLinear FormatLayout = iota
	/** @brief Components share a single packed word. */
	FormatLayoutPacked
	/** @brief Texels are stored in blocks of BlockWidth x BlockWidth. */
	FormatLayoutCompressed
)

type FormatComponent int32

const (
	FormatComponentRed     FormatComponent = 0x1
	FormatComponentGreen   FormatComponent = 0x2
	FormatComponentBlue    FormatComponent = 0x4
	FormatComponentAlpha   FormatComponent = 0x8
	FormatComponentDepth   FormatComponent = 0x10
	FormatComponentStencil FormatComponent = 0x20
)

/**
 * @brief Describes the byte layout of a format.
 */
type FormatDesc struct {
	Name     string
	DataType FormatDataType
	Aspect   FormatAspect
	/** @brief Size of a texel, or of a whole block for compressed formats. */
	BytesPerTexel uint32
	/** @brief 1 for uncompressed formats. */
	BlockWidth uint32
	/** @brief -1 for packed and compressed formats. */
	BytesPerComponent int32
	Layout            FormatLayout
	Components        FormatComponent
	/** @brief Byte offset of the R, G, B and A components, -1 when absent or not addressable. */
	ComponentOffsets [4]int8
}

const (
	FormatUndefined Format = iota
	FormatR8Unorm
	FormatR8Snorm
	FormatR8Uint
	FormatR8Sint
	FormatR8Srgb
	FormatR8G8Unorm
	FormatR8G8Snorm
	FormatR8G8Uint
	FormatR8G8Sint
	FormatR8G8Srgb
	FormatR8G8B8Unorm
	FormatR8G8B8Snorm
	FormatR8G8B8Uint
	FormatR8G8B8Sint
	FormatR8G8B8Srgb
	FormatB8G8R8Unorm
	FormatB8G8R8Srgb
	FormatR8G8B8A8Unorm
	FormatR8G8B8A8Snorm
	FormatR8G8B8A8Uint
	FormatR8G8B8A8Sint
	FormatR8G8B8A8Srgb
	FormatB8G8R8A8Unorm
	FormatB8G8R8A8Srgb
	FormatR16Unorm
	FormatR16Snorm
	FormatR16Uint
	FormatR16Sint
	FormatR16Float
	FormatR16G16Unorm
	FormatR16G16Snorm
	FormatR16G16Uint
	FormatR16G16Sint
	FormatR16G16Float
	FormatR16G16B16Unorm
	FormatR16G16B16Snorm
	FormatR16G16B16Uint
	FormatR16G16B16Sint
	FormatR16G16B16Float
	FormatR16G16B16A16Unorm
	FormatR16G16B16A16Snorm
	FormatR16G16B16A16Uint
	FormatR16G16B16A16Sint
	FormatR16G16B16A16Float
	FormatR32Uint
	FormatR32Sint
	FormatR32Float
	FormatR32G32Uint
	FormatR32G32Sint
	FormatR32G32Float
	FormatR32G32B32Uint
	FormatR32G32B32Sint
	FormatR32G32B32Float
	FormatR32G32B32A32Uint
	FormatR32G32B32A32Sint
	FormatR32G32B32A32Float
	FormatR10G10B10A2Unorm
	FormatR11G11B10Float
	FormatD16Unorm
	FormatD32Float
	FormatS8Uint
	FormatD16UnormS8Uint
	FormatD24UnormS8Uint
	FormatD32FloatS8Uint
	FormatBC1RgbUnorm
	FormatBC1RgbSrgb
	FormatBC1RgbaUnorm
	FormatBC1RgbaSrgb
	FormatBC2Unorm
	FormatBC2Srgb
	FormatBC3Unorm
	FormatBC3Srgb
	FormatBC4Unorm
	FormatBC4Snorm
	FormatBC5Unorm
	FormatBC5Snorm
	FormatBC6HUfloat
	FormatBC6HSfloat
	FormatBC7Unorm
	FormatBC7Srgb

	// FormatCount is the number of entries in the format table.
	FormatCount
)

var formatDescs = [FormatCount]FormatDesc{
	FormatR8Unorm:           {"R8_UNORM", FormatDataTypeUnorm, FormatAspectColor, 1, 1, 1, FormatLayoutLinear, FormatComponentRed, [4]int8{0, -1, -1, -1}},
	FormatR8Snorm:           {"R8_SNORM", FormatDataTypeSnorm, FormatAspectColor, 1, 1, 1, FormatLayoutLinear, FormatComponentRed, [4]int8{0, -1, -1, -1}},
	FormatR8Uint:            {"R8_UINT", FormatDataTypeUint, FormatAspectColor, 1, 1, 1, FormatLayoutLinear, FormatComponentRed, [4]int8{0, -1, -1, -1}},
	FormatR8Sint:            {"R8_SINT", FormatDataTypeSint, FormatAspectColor, 1, 1, 1, FormatLayoutLinear, FormatComponentRed, [4]int8{0, -1, -1, -1}},
	FormatR8Srgb:            {"R8_SRGB", FormatDataTypeSrgb, FormatAspectColor, 1, 1, 1, FormatLayoutLinear, FormatComponentRed, [4]int8{0, -1, -1, -1}},
	FormatR8G8Unorm:         {"R8G8_UNORM", FormatDataTypeUnorm, FormatAspectColor, 2, 1, 1, FormatLayoutLinear, FormatComponentRed | FormatComponentGreen, [4]int8{0, 1, -1, -1}},
	FormatR8G8Snorm:         {"R8G8_SNORM", FormatDataTypeSnorm, FormatAspectColor, 2, 1, 1, FormatLayoutLinear, FormatComponentRed | FormatComponentGreen, [4]int8{0, 1, -1, -1}},
	FormatR8G8Uint:          {"R8G8_UINT", FormatDataTypeUint, FormatAspectColor, 2, 1, 1, FormatLayoutLinear, FormatComponentRed | FormatComponentGreen, [4]int8{0, 1, -1, -1}},
	FormatR8G8Sint:          {"R8G8_SINT", FormatDataTypeSint, FormatAspectColor, 2, 1, 1, FormatLayoutLinear, FormatComponentRed | FormatComponentGreen, [4]int8{0, 1, -1, -1}},
	FormatR8G8Srgb:          {"R8G8_SRGB", FormatDataTypeSrgb, FormatAspectColor, 2, 1, 1, FormatLayoutLinear, FormatComponentRed | FormatComponentGreen, [4]int8{0, 1, -1, -1}},
	FormatR8G8B8Unorm:       {"R8G8B8_UNORM", FormatDataTypeUnorm, FormatAspectColor, 3, 1, 1, FormatLayoutLinear, FormatComponentRed | FormatComponentGreen | FormatComponentBlue, [4]int8{0, 1, 2, -1}},
	FormatR8G8B8Snorm:       {"R8G8B8_SNORM", FormatDataTypeSnorm, FormatAspectColor, 3, 1, 1, FormatLayoutLinear, FormatComponentRed | FormatComponentGreen | FormatComponentBlue, [4]int8{0, 1, 2, -1}},
	FormatR8G8B8Uint:        {"R8G8B8_UINT", FormatDataTypeUint, FormatAspectColor, 3, 1, 1, FormatLayoutLinear, FormatComponentRed | FormatComponentGreen | FormatComponentBlue, [4]int8{0, 1, 2, -1}},
	FormatR8G8B8Sint:        {"R8G8B8_SINT", FormatDataTypeSint, FormatAspectColor, 3, 1, 1, FormatLayoutLinear, FormatComponentRed | FormatComponentGreen | FormatComponentBlue, [4]int8{0, 1, 2, -1}},
	FormatR8G8B8Srgb:        {"R8G8B8_SRGB", FormatDataTypeSrgb, FormatAspectColor, 3, 1, 1, FormatLayoutLinear, FormatComponentRed | FormatComponentGreen | FormatComponentBlue, [4]int8{0, 1, 2, -1}},
	FormatB8G8R8Unorm:       {"B8G8R8_UNORM", FormatDataTypeUnorm, FormatAspectColor, 3, 1, 1, FormatLayoutLinear, FormatComponentRed | FormatComponentGreen | FormatComponentBlue, [4]int8{2, 1, 0, -1}},
	FormatB8G8R8Srgb:        {"B8G8R8_SRGB", FormatDataTypeSrgb, FormatAspectColor, 3, 1, 1, FormatLayoutLinear, FormatComponentRed | FormatComponentGreen | FormatComponentBlue, [4]int8{2, 1, 0, -1}},
	FormatR8G8B8A8Unorm:     {"R8G8B8A8_UNORM", FormatDataTypeUnorm, FormatAspectColor, 4, 1, 1, FormatLayoutLinear, FormatComponentRed | FormatComponentGreen | FormatComponentBlue | FormatComponentAlpha, [4]int8{0, 1, 2, 3}},
	FormatR8G8B8A8Snorm:     {"R8G8B8A8_SNORM", FormatDataTypeSnorm, FormatAspectColor, 4, 1, 1, FormatLayoutLinear, FormatComponentRed | FormatComponentGreen | FormatComponentBlue | FormatComponentAlpha, [4]int8{0, 1, 2, 3}},
	FormatR8G8B8A8Uint:      {"R8G8B8A8_UINT", FormatDataTypeUint, FormatAspectColor, 4, 1, 1, FormatLayoutLinear, FormatComponentRed | FormatComponentGreen | FormatComponentBlue | FormatComponentAlpha, [4]int8{0, 1, 2, 3}},
	FormatR8G8B8A8Sint:      {"R8G8B8A8_SINT", FormatDataTypeSint, FormatAspectColor, 4, 1, 1, FormatLayoutLinear, FormatComponentRed | FormatComponentGreen | FormatComponentBlue | FormatComponentAlpha, [4]int8{0, 1, 2, 3}},
	FormatR8G8B8A8Srgb:      {"R8G8B8A8_SRGB", FormatDataTypeSrgb, FormatAspectColor, 4, 1, 1, FormatLayoutLinear, FormatComponentRed | FormatComponentGreen | FormatComponentBlue | FormatComponentAlpha, [4]int8{0, 1, 2, 3}},
	FormatB8G8R8A8Unorm:     {"B8G8R8A8_UNORM", FormatDataTypeUnorm, FormatAspectColor, 4, 1, 1, FormatLayoutLinear, FormatComponentRed | FormatComponentGreen | FormatComponentBlue | FormatComponentAlpha, [4]int8{2, 1, 0, 3}},
	FormatB8G8R8A8Srgb:      {"B8G8R8A8_SRGB", FormatDataTypeSrgb, FormatAspectColor, 4, 1, 1, FormatLayoutLinear, FormatComponentRed | FormatComponentGreen | FormatComponentBlue | FormatComponentAlpha, [4]int8{2, 1, 0, 3}},
	FormatR16Unorm:          {"R16_UNORM", FormatDataTypeUnorm, FormatAspectColor, 2, 1, 2, FormatLayoutLinear, FormatComponentRed, [4]int8{0, -1, -1, -1}},
	FormatR16Snorm:          {"R16_SNORM", FormatDataTypeSnorm, FormatAspectColor, 2, 1, 2, FormatLayoutLinear, FormatComponentRed, [4]int8{0, -1, -1, -1}},
	FormatR16Uint:           {"R16_UINT", FormatDataTypeUint, FormatAspectColor, 2, 1, 2, FormatLayoutLinear, FormatComponentRed, [4]int8{0, -1, -1, -1}},
	FormatR16Sint:           {"R16_SINT", FormatDataTypeSint, FormatAspectColor, 2, 1, 2, FormatLayoutLinear, FormatComponentRed, [4]int8{0, -1, -1, -1}},
	FormatR16Float:          {"R16_FLOAT", FormatDataTypeFloat, FormatAspectColor, 2, 1, 2, FormatLayoutLinear, FormatComponentRed, [4]int8{0, -1, -1, -1}},
	FormatR16G16Unorm:       {"R16G16_UNORM", FormatDataTypeUnorm, FormatAspectColor, 4, 1, 2, FormatLayoutLinear, FormatComponentRed | FormatComponentGreen, [4]int8{0, 2, -1, -1}},
	FormatR16G16Snorm:       {"R16G16_SNORM", FormatDataTypeSnorm, FormatAspectColor, 4, 1, 2, FormatLayoutLinear, FormatComponentRed | FormatComponentGreen, [4]int8{0, 2, -1, -1}},
	FormatR16G16Uint:        {"R16G16_UINT", FormatDataTypeUint, FormatAspectColor, 4, 1, 2, FormatLayoutLinear, FormatComponentRed | FormatComponentGreen, [4]int8{0, 2, -1, -1}},
	FormatR16G16Sint:        {"R16G16_SINT", FormatDataTypeSint, FormatAspectColor, 4, 1, 2, FormatLayoutLinear, FormatComponentRed | FormatComponentGreen, [4]int8{0, 2, -1, -1}},
	FormatR16G16Float:       {"R16G16_FLOAT", FormatDataTypeFloat, FormatAspectColor, 4, 1, 2, FormatLayoutLinear, FormatComponentRed | FormatComponentGreen, [4]int8{0, 2, -1, -1}},
	FormatR16G16B16Unorm:    {"R16G16B16_UNORM", FormatDataTypeUnorm, FormatAspectColor, 6, 1, 2, FormatLayoutLinear, FormatComponentRed | FormatComponentGreen | FormatComponentBlue, [4]int8{0, 2, 4, -1}},
	FormatR16G16B16Snorm:    {"R16G16B16_SNORM", FormatDataTypeSnorm, FormatAspectColor, 6, 1, 2, FormatLayoutLinear, FormatComponentRed | FormatComponentGreen | FormatComponentBlue, [4]int8{0, 2, 4, -1}},
	FormatR16G16B16Uint:     {"R16G16B16_UINT", FormatDataTypeUint, FormatAspectColor, 6, 1, 2, FormatLayoutLinear, FormatComponentRed | FormatComponentGreen | FormatComponentBlue, [4]int8{0, 2, 4, -1}},
	FormatR16G16B16Sint:     {"R16G16B16_SINT", FormatDataTypeSint, FormatAspectColor, 6, 1, 2, FormatLayoutLinear, FormatComponentRed | FormatComponentGreen | FormatComponentBlue, [4]int8{0, 2, 4, -1}},
	FormatR16G16B16Float:    {"R16G16B16_FLOAT", FormatDataTypeFloat, FormatAspectColor, 6, 1, 2, FormatLayoutLinear, FormatComponentRed | FormatComponentGreen | FormatComponentBlue, [4]int8{0, 2, 4, -1}},
	FormatR16G16B16A16Unorm: {"R16G16B16A16_UNORM", FormatDataTypeUnorm, FormatAspectColor, 8, 1, 2, FormatLayoutLinear, FormatComponentRed | FormatComponentGreen | FormatComponentBlue | FormatComponentAlpha, [4]int8{0, 2, 4, 6}},
	FormatR16G16B16A16Snorm: {"R16G16B16A16_SNORM", FormatDataTypeSnorm, FormatAspectColor, 8, 1, 2, FormatLayoutLinear, FormatComponentRed | FormatComponentGreen | FormatComponentBlue | FormatComponentAlpha, [4]int8{0, 2, 4, 6}},
	FormatR16G16B16A16Uint:  {"R16G16B16A16_UINT", FormatDataTypeUint, FormatAspectColor, 8, 1, 2, FormatLayoutLinear, FormatComponentRed | FormatComponentGreen | FormatComponentBlue | FormatComponentAlpha, [4]int8{0, 2, 4, 6}},
	FormatR16G16B16A16Sint:  {"R16G16B16A16_SINT", FormatDataTypeSint, FormatAspectColor, 8, 1, 2, FormatLayoutLinear, FormatComponentRed | FormatComponentGreen | FormatComponentBlue | FormatComponentAlpha, [4]int8{0, 2, 4, 6}},
	FormatR16G16B16A16Float: {"R16G16B16A16_FLOAT", FormatDataTypeFloat, FormatAspectColor, 8, 1, 2, FormatLayoutLinear, FormatComponentRed | FormatComponentGreen | FormatComponentBlue | FormatComponentAlpha, [4]int8{0, 2, 4, 6}},
	FormatR32Uint:           {"R32_UINT", FormatDataTypeUint, FormatAspectColor, 4, 1, 4, FormatLayoutLinear, FormatComponentRed, [4]int8{0, -1, -1, -1}},
	FormatR32Sint:           {"R32_SINT", FormatDataTypeSint, FormatAspectColor, 4, 1, 4, FormatLayoutLinear, FormatComponentRed, [4]int8{0, -1, -1, -1}},
	FormatR32Float:          {"R32_FLOAT", FormatDataTypeFloat, FormatAspectColor, 4, 1, 4, FormatLayoutLinear, FormatComponentRed, [4]int8{0, -1, -1, -1}},
	FormatR32G32Uint:        {"R32G32_UINT", FormatDataTypeUint, FormatAspectColor, 8, 1, 4, FormatLayoutLinear, FormatComponentRed | FormatComponentGreen, [4]int8{0, 4, -1, -1}},
	FormatR32G32Sint:        {"R32G32_SINT", FormatDataTypeSint, FormatAspectColor, 8, 1, 4, FormatLayoutLinear, FormatComponentRed | FormatComponentGreen, [4]int8{0, 4, -1, -1}},
	FormatR32G32Float:       {"R32G32_FLOAT", FormatDataTypeFloat, FormatAspectColor, 8, 1, 4, FormatLayoutLinear, FormatComponentRed | FormatComponentGreen, [4]int8{0, 4, -1, -1}},
	FormatR32G32B32Uint:     {"R32G32B32_UINT", FormatDataTypeUint, FormatAspectColor, 12, 1, 4, FormatLayoutLinear, FormatComponentRed | FormatComponentGreen | FormatComponentBlue, [4]int8{0, 4, 8, -1}},
	FormatR32G32B32Sint:     {"R32G32B32_SINT", FormatDataTypeSint, FormatAspectColor, 12, 1, 4, FormatLayoutLinear, FormatComponentRed | FormatComponentGreen | FormatComponentBlue, [4]int8{0, 4, 8, -1}},
	FormatR32G32B32Float:    {"R32G32B32_FLOAT", FormatDataTypeFloat, FormatAspectColor, 12, 1, 4, FormatLayoutLinear, FormatComponentRed | FormatComponentGreen | FormatComponentBlue, [4]int8{0, 4, 8, -1}},
	FormatR32G32B32A32Uint:  {"R32G32B32A32_UINT", FormatDataTypeUint, FormatAspectColor, 16, 1, 4, FormatLayoutLinear, FormatComponentRed | FormatComponentGreen | FormatComponentBlue | FormatComponentAlpha, [4]int8{0, 4, 8, 12}},
	FormatR32G32B32A32Sint:  {"R32G32B32A32_SINT", FormatDataTypeSint, FormatAspectColor, 16, 1, 4, FormatLayoutLinear, FormatComponentRed | FormatComponentGreen | FormatComponentBlue | FormatComponentAlpha, [4]int8{0, 4, 8, 12}},
	FormatR32G32B32A32Float: {"R32G32B32A32_FLOAT", FormatDataTypeFloat, FormatAspectColor, 16, 1, 4, FormatLayoutLinear, FormatComponentRed | FormatComponentGreen | FormatComponentBlue | FormatComponentAlpha, [4]int8{0, 4, 8, 12}},
	FormatR10G10B10A2Unorm:  {"R10G10B10A2_UNORM", FormatDataTypeUnorm, FormatAspectColor, 4, 1, -1, FormatLayoutPacked, FormatComponentRed | FormatComponentGreen | FormatComponentBlue | FormatComponentAlpha, [4]int8{-1, -1, -1, -1}},
	FormatR11G11B10Float:    {"R11G11B10_FLOAT", FormatDataTypeFloat, FormatAspectColor, 4, 1, -1, FormatLayoutPacked, FormatComponentRed | FormatComponentGreen | FormatComponentBlue, [4]int8{-1, -1, -1, -1}},
	FormatD16Unorm:          {"D16_UNORM", FormatDataTypeUnorm, FormatAspectDepth, 2, 1, 2, FormatLayoutLinear, FormatComponentDepth, [4]int8{0, -1, -1, -1}},
	FormatD32Float:          {"D32_FLOAT", FormatDataTypeFloat, FormatAspectDepth, 4, 1, 4, FormatLayoutLinear, FormatComponentDepth, [4]int8{0, -1, -1, -1}},
	FormatS8Uint:            {"S8_UINT", FormatDataTypeUint, FormatAspectStencil, 1, 1, 1, FormatLayoutLinear, FormatComponentStencil, [4]int8{0, -1, -1, -1}},
	FormatD16UnormS8Uint:    {"D16_UNORM_S8_UINT", FormatDataTypeUnorm, FormatAspectDepthStencil, 3, 1, -1, FormatLayoutPacked, FormatComponentDepth | FormatComponentStencil, [4]int8{-1, -1, -1, -1}},
	FormatD24UnormS8Uint:    {"D24_UNORM_S8_UINT", FormatDataTypeUnorm, FormatAspectDepthStencil, 4, 1, -1, FormatLayoutPacked, FormatComponentDepth | FormatComponentStencil, [4]int8{-1, -1, -1, -1}},
	FormatD32FloatS8Uint:    {"D32_FLOAT_S8_UINT", FormatDataTypeFloat, FormatAspectDepthStencil, 8, 1, -1, FormatLayoutPacked, FormatComponentDepth | FormatComponentStencil, [4]int8{-1, -1, -1, -1}},
	FormatBC1RgbUnorm:       {"BC1_RGB_UNORM", FormatDataTypeUnorm, FormatAspectColor, 8, 4, -1, FormatLayoutCompressed, FormatComponentRed | FormatComponentGreen | FormatComponentBlue, [4]int8{-1, -1, -1, -1}},
	FormatBC1RgbSrgb:        {"BC1_RGB_SRGB", FormatDataTypeSrgb, FormatAspectColor, 8, 4, -1, FormatLayoutCompressed, FormatComponentRed | FormatComponentGreen | FormatComponentBlue, [4]int8{-1, -1, -1, -1}},
	FormatBC1RgbaUnorm:      {"BC1_RGBA_UNORM", FormatDataTypeUnorm, FormatAspectColor, 8, 4, -1, FormatLayoutCompressed, FormatComponentRed | FormatComponentGreen | FormatComponentBlue | FormatComponentAlpha, [4]int8{-1, -1, -1, -1}},
	FormatBC1RgbaSrgb:       {"BC1_RGBA_SRGB", FormatDataTypeSrgb, FormatAspectColor, 8, 4, -1, FormatLayoutCompressed, FormatComponentRed | FormatComponentGreen | FormatComponentBlue | FormatComponentAlpha, [4]int8{-1, -1, -1, -1}},
	FormatBC2Unorm:          {"BC2_UNORM", FormatDataTypeUnorm, FormatAspectColor, 16, 4, -1, FormatLayoutCompressed, FormatComponentRed | FormatComponentGreen | FormatComponentBlue | FormatComponentAlpha, [4]int8{-1, -1, -1, -1}},
	FormatBC2Srgb:           {"BC2_SRGB", FormatDataTypeSrgb, FormatAspectColor, 16, 4, -1, FormatLayoutCompressed, FormatComponentRed | FormatComponentGreen | FormatComponentBlue | FormatComponentAlpha, [4]int8{-1, -1, -1, -1}},
	FormatBC3Unorm:          {"BC3_UNORM", FormatDataTypeUnorm, FormatAspectColor, 16, 4, -1, FormatLayoutCompressed, FormatComponentRed | FormatComponentGreen | FormatComponentBlue | FormatComponentAlpha, [4]int8{-1, -1, -1, -1}},
	FormatBC3Srgb:           {"BC3_SRGB", FormatDataTypeSrgb, FormatAspectColor, 16, 4, -1, FormatLayoutCompressed, FormatComponentRed | FormatComponentGreen | FormatComponentBlue | FormatComponentAlpha, [4]int8{-1, -1, -1, -1}},
	FormatBC4Unorm:          {"BC4_UNORM", FormatDataTypeUnorm, FormatAspectColor, 8, 4, -1, FormatLayoutCompressed, FormatComponentRed, [4]int8{-1, -1, -1, -1}},
	FormatBC4Snorm:          {"BC4_SNORM", FormatDataTypeSnorm, FormatAspectColor, 8, 4, -1, FormatLayoutCompressed, FormatComponentRed, [4]int8{-1, -1, -1, -1}},
	FormatBC5Unorm:          {"BC5_UNORM", FormatDataTypeUnorm, FormatAspectColor, 16, 4, -1, FormatLayoutCompressed, FormatComponentRed | FormatComponentGreen, [4]int8{-1, -1, -1, -1}},
	FormatBC5Snorm:          {"BC5_SNORM", FormatDataTypeSnorm, FormatAspectColor, 16, 4, -1, FormatLayoutCompressed, FormatComponentRed | FormatComponentGreen, [4]int8{-1, -1, -1, -1}},
	FormatBC6HUfloat:        {"BC6H_UFLOAT", FormatDataTypeFloat, FormatAspectColor, 16, 4, -1, FormatLayoutCompressed, FormatComponentRed | FormatComponentGreen | FormatComponentBlue, [4]int8{-1, -1, -1, -1}},
	FormatBC6HSfloat:        {"BC6H_SFLOAT", FormatDataTypeFloat, FormatAspectColor, 16, 4, -1, FormatLayoutCompressed, FormatComponentRed | FormatComponentGreen | FormatComponentBlue, [4]int8{-1, -1, -1, -1}},
	FormatBC7Unorm:          {"BC7_UNORM", FormatDataTypeUnorm, FormatAspectColor, 16, 4, -1, FormatLayoutCompressed, FormatComponentRed | FormatComponentGreen | FormatComponentBlue | FormatComponentAlpha, [4]int8{-1, -1, -1, -1}},
	FormatBC7Srgb:           {"BC7_SRGB", FormatDataTypeSrgb, FormatAspectColor, 16, 4, -1, FormatLayoutCompressed, FormatComponentRed | FormatComponentGreen | FormatComponentBlue | FormatComponentAlpha, [4]int8{-1, -1, -1, -1}},
}

// GetFormatDescription returns the layout of format. It panics on
// FormatUndefined or on a value outside the table.
func GetFormatDescription(format Format) *FormatDesc {
	if format <= FormatUndefined || format >= FormatCount {
		panic(fmt.Sprintf("GetFormatDescription: invalid format %d", format))
	}
	return &formatDescs[format]
}

func (f Format) String() string {
	if f <= FormatUndefined || f >= FormatCount {
		return "UNDEFINED"
	}
	return formatDescs[f].Name
}

// Size returns the number of bytes of one texel (or block).
func (f Format) Size() uint32 {
	return GetFormatDescription(f).BytesPerTexel
}

func (f Format) IsCompressed() bool {
	return GetFormatDescription(f).Layout == FormatLayoutCompressed
}

func (f Format) IsDepth() bool {
	return GetFormatDescription(f).Aspect&FormatAspectDepth != 0
}

func (f Format) IsStencil() bool {
	return GetFormatDescription(f).Aspect&FormatAspectStencil != 0
}

// ComponentCount returns the number of color, depth or stencil channels.
func (f Format) ComponentCount() int {
	c := GetFormatDescription(f).Components
	n := 0
	for c != 0 {
		n += int(c & 1)
		c >>= 1
	}
	return n
}
