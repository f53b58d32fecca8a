package vk

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/forge"
)

type RenderPass struct {
	Handle core1_0.RenderPass
	driver core1_0.CoreDeviceDriver
}

func (r *RenderPass) Destroy() {
	r.driver.DestroyRenderPass(r.Handle, nil)
}

type PipelineLayout struct {
	Handle core1_0.PipelineLayout
	driver core1_0.CoreDeviceDriver
}

func (l *PipelineLayout) Destroy() {
	l.driver.DestroyPipelineLayout(l.Handle, nil)
}

type ShaderModule struct {
	Handle core1_0.ShaderModule
	driver core1_0.CoreDeviceDriver
}

func (m *ShaderModule) Destroy() {
	m.driver.DestroyShaderModule(m.Handle, nil)
}

type Pipeline struct {
	Handle core1_0.Pipeline
	driver core1_0.CoreDeviceDriver
}

func (p *Pipeline) Destroy() {
	p.driver.DestroyPipeline(p.Handle, nil)
}

func (b *Backend) CreateRenderPass(device forge.Device, info core1_0.RenderPassCreateInfo) (forge.RenderPass, error) {
	dev := device.(*Device)

	pass, _, err := dev.Driver.CreateRenderPass(nil, info)
	if err != nil {
		return nil, errors.Wrap(err, "creating render pass")
	}
	return &RenderPass{Handle: pass, driver: dev.Driver}, nil
}

// CreatePipelineLayout creates an empty layout: no descriptor sets, no push
// constants.
func (b *Backend) CreatePipelineLayout(device forge.Device) (forge.PipelineLayout, error) {
	dev := device.(*Device)

	layout, _, err := dev.Driver.CreatePipelineLayout(nil, core1_0.PipelineLayoutCreateInfo{})
	if err != nil {
		return nil, errors.Wrap(err, "creating pipeline layout")
	}
	return &PipelineLayout{Handle: layout, driver: dev.Driver}, nil
}

func (b *Backend) CreateShaderModule(device forge.Device, code []byte) (forge.ShaderModule, error) {
	dev := device.(*Device)

	words, err := spirvWords(code)
	if err != nil {
		return nil, err
	}

	module, _, err := dev.Driver.CreateShaderModule(nil, core1_0.ShaderModuleCreateInfo{
		Code: words,
	})
	if err != nil {
		return nil, errors.Wrap(err, "creating shader module")
	}
	return &ShaderModule{Handle: module, driver: dev.Driver}, nil
}

// spirvWords repacks raw SPIR-V bytes into the little-endian words the
// driver consumes.
func spirvWords(code []byte) ([]uint32, error) {
	if len(code) == 0 {
		return nil, errors.New("empty shader bytecode")
	}
	if len(code)%4 != 0 {
		return nil, errors.Errorf("shader bytecode length %d is not a multiple of 4", len(code))
	}

	words := make([]uint32, len(code)/4)
	for i := 0; i < len(words); i++ {
		byteIndex := i * 4
		words[i] |= uint32(code[byteIndex])
		words[i] |= uint32(code[byteIndex+1]) << 8
		words[i] |= uint32(code[byteIndex+2]) << 16
		words[i] |= uint32(code[byteIndex+3]) << 24
	}
	return words, nil
}

// CreatePipeline assembles one graphics pipeline around the config's shader
// stages. Vertex input is empty (geometry comes from the shaders), viewport
// and scissor are static at the config extent, and both shader stages enter
// at main. Compilation goes through the device's pipeline cache.
func (b *Backend) CreatePipeline(device forge.Device, config forge.PipelineConfig) (forge.Pipeline, error) {
	dev := device.(*Device)
	vert := config.VertexShader.(*ShaderModule)
	frag := config.FragmentShader.(*ShaderModule)
	layout := config.Layout.(*PipelineLayout)
	pass := config.Pass.(*RenderPass)

	var cache *core1_0.PipelineCache
	if dev.cache.Initialized() {
		cache = &dev.cache
	}

	pipelines, _, err := dev.Driver.CreateGraphicsPipelines(cache, nil, core1_0.GraphicsPipelineCreateInfo{
		Stages: []core1_0.PipelineShaderStageCreateInfo{
			{
				Stage:  core1_0.StageVertex,
				Module: vert.Handle,
				Name:   "main",
			},
			{
				Stage:  core1_0.StageFragment,
				Module: frag.Handle,
				Name:   "main",
			},
		},
		VertexInputState: &core1_0.PipelineVertexInputStateCreateInfo{},
		InputAssemblyState: &core1_0.PipelineInputAssemblyStateCreateInfo{
			Topology:               config.Topology,
			PrimitiveRestartEnable: false,
		},
		ViewportState: &core1_0.PipelineViewportStateCreateInfo{
			Viewports: []core1_0.Viewport{
				{
					X:        0,
					Y:        0,
					Width:    float32(config.Extent.Width),
					Height:   float32(config.Extent.Height),
					MinDepth: 0,
					MaxDepth: 1,
				},
			},
			Scissors: []core1_0.Rect2D{
				{
					Offset: core1_0.Offset2D{X: 0, Y: 0},
					Extent: config.Extent,
				},
			},
		},
		RasterizationState: &core1_0.PipelineRasterizationStateCreateInfo{
			DepthClampEnable:        false,
			RasterizerDiscardEnable: false,

			PolygonMode: config.PolygonMode,
			CullMode:    config.CullMode,
			FrontFace:   config.FrontFace,

			DepthBiasEnable: false,
			LineWidth:       1.0,
		},
		MultisampleState: &core1_0.PipelineMultisampleStateCreateInfo{
			SampleShadingEnable:  false,
			RasterizationSamples: core1_0.Samples1,
			MinSampleShading:     1.0,
		},
		ColorBlendState: &core1_0.PipelineColorBlendStateCreateInfo{
			LogicOpEnabled: false,
			LogicOp:        core1_0.LogicOpCopy,
			Attachments: []core1_0.PipelineColorBlendAttachmentState{
				config.Blend,
			},
		},
		Layout:     layout.Handle,
		RenderPass: pass.Handle,
		Subpass:    config.Subpass,

		BasePipelineIndex: -1,
	})
	if err != nil {
		return nil, errors.Wrap(err, "creating graphics pipeline")
	}

	return &Pipeline{Handle: pipelines[0], driver: dev.Driver}, nil
}
