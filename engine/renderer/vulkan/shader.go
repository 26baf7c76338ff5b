package vulkan

import (
	"encoding/binary"
	"os"

	"github.com/cockroachdb/errors"
	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/prism/engine/core"
)

const spirvMagic uint32 = 0x07230203

type VulkanShaderStage struct {
	Module vk.ShaderModule
	Stage  vk.ShaderStageFlagBits
}

// spirvWords decodes a little endian SPIR-V binary.
func spirvWords(code []byte) ([]uint32, error) {
	if len(code) == 0 || len(code)%4 != 0 {
		return nil, errors.Wrapf(core.ErrLoadFailed, "spir-v size %d is not a positive multiple of 4", len(code))
	}
	words := make([]uint32, len(code)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(code[i*4:])
	}
	if words[0] != spirvMagic {
		return nil, errors.Wrapf(core.ErrLoadFailed, "bad spir-v magic 0x%08x", words[0])
	}
	return words, nil
}

func NewShaderStage(context *VulkanContext, code []byte, stage vk.ShaderStageFlagBits) (*VulkanShaderStage, error) {
	words, err := spirvWords(code)
	if err != nil {
		return nil, err
	}
	createInfo := vk.ShaderModuleCreateInfo{
		SType:    vk.StructureTypeShaderModuleCreateInfo,
		CodeSize: uint64(len(code)),
		PCode:    words,
	}
	var module vk.ShaderModule
	if err := resultError(vk.CreateShaderModule(context.Device.LogicalDevice, &createInfo, context.Allocator, &module), "vkCreateShaderModule"); err != nil {
		core.LogError(err.Error())
		return nil, err
	}
	return &VulkanShaderStage{Module: module, Stage: stage}, nil
}

// LoadShaderStage reads a compiled shader from disk.
func LoadShaderStage(context *VulkanContext, path string, stage vk.ShaderStageFlagBits) (*VulkanShaderStage, error) {
	code, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "shader %s", path), core.ErrLoadFailed)
	}
	s, err := NewShaderStage(context, code, stage)
	if err != nil {
		return nil, errors.Wrapf(err, "shader %s", path)
	}
	return s, nil
}

func (s *VulkanShaderStage) CreateInfo() vk.PipelineShaderStageCreateInfo {
	return vk.PipelineShaderStageCreateInfo{
		SType:  vk.StructureTypePipelineShaderStageCreateInfo,
		Stage:  s.Stage,
		Module: s.Module,
		PName:  VulkanSafeString("main"),
	}
}

func (s *VulkanShaderStage) Destroy(context *VulkanContext) {
	if s.Module != nil {
		vk.DestroyShaderModule(context.Device.LogicalDevice, s.Module, context.Allocator)
		s.Module = nil
	}
}
