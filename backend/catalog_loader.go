package backend

import (
	"github.com/cogentcore/webgpu/wgpu"

	"github.com/FishAndRips/magellanicus/pipeline"
	"github.com/FishAndRips/magellanicus/rendererr"
)

// frameBindGroupLayout is set 0: the per-frame MVP uniform, shared by
// every pipeline kind (spec §4.3 "Descriptor set slot convention").
func frameBindGroupLayout(device *wgpu.Device) (*wgpu.BindGroupLayout, error) {
	return device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "set0:frame",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex,
				Buffer: wgpu.BufferBindingLayout{
					Type: wgpu.BufferBindingTypeUniform,
				},
			},
		},
	})
}

func textureMaterialBindGroupLayout(device *wgpu.Device, label string) (*wgpu.BindGroupLayout, error) {
	return device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: label,
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageFragment,
				Sampler:    wgpu.SamplerBindingLayout{Type: wgpu.SamplerBindingTypeFiltering},
			},
			{
				Binding:    1,
				Visibility: wgpu.ShaderStageFragment,
				Texture: wgpu.TextureBindingLayout{
					SampleType:    wgpu.TextureSampleTypeFloat,
					ViewDimension: wgpu.TextureViewDimension2D,
				},
			},
		},
	})
}

func colorMaterialBindGroupLayout(device *wgpu.Device) (*wgpu.BindGroupLayout, error) {
	return device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "set1:color",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageFragment,
				Buffer: wgpu.BufferBindingLayout{
					Type: wgpu.BufferBindingTypeUniform,
				},
			},
		},
	})
}

// modelVertexLayouts is the 3-buffer vertex layout every SimpleTexture
// variant is built with: position/normal/binormal/tangent, diffuse
// texcoord, lightmap texcoord (spec §4.4 step g, grounded on
// asset.ModelVertex / asset.TexCoord).
func modelVertexLayouts() []wgpu.VertexBufferLayout {
	return []wgpu.VertexBufferLayout{
		{
			ArrayStride: 12 * 4, // [3]float32 x4 fields
			StepMode:    wgpu.VertexStepModeVertex,
			Attributes: []wgpu.VertexAttribute{
				{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
				{Format: wgpu.VertexFormatFloat32x3, Offset: 12, ShaderLocation: 1},
				{Format: wgpu.VertexFormatFloat32x3, Offset: 24, ShaderLocation: 2},
				{Format: wgpu.VertexFormatFloat32x3, Offset: 36, ShaderLocation: 3},
			},
		},
		{
			ArrayStride: 2 * 4,
			StepMode:    wgpu.VertexStepModeVertex,
			Attributes: []wgpu.VertexAttribute{
				{Format: wgpu.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 4},
			},
		},
		{
			ArrayStride: 2 * 4,
			StepMode:    wgpu.VertexStepModeVertex,
			Attributes: []wgpu.VertexAttribute{
				{Format: wgpu.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 5},
			},
		},
	}
}

// loadCatalog builds the closed pipeline catalog against the backend's
// chosen color format and DepthFormat (spec §4.2 step 9).
func (b *Backend) loadCatalog() error {
	frameLayout, err := frameBindGroupLayout(b.device)
	if err != nil {
		return rendererr.GraphicsAPIErrorf(backendName, err, "failed to create frame bind group layout")
	}
	materialTextureLayout, err := textureMaterialBindGroupLayout(b.device, "set1:material-texture")
	if err != nil {
		return rendererr.GraphicsAPIErrorf(backendName, err, "failed to create material bind group layout")
	}
	lightmapLayout, err := textureMaterialBindGroupLayout(b.device, "set2:lightmap")
	if err != nil {
		return rendererr.GraphicsAPIErrorf(backendName, err, "failed to create lightmap bind group layout")
	}
	colorLayout, err := colorMaterialBindGroupLayout(b.device)
	if err != nil {
		return rendererr.GraphicsAPIErrorf(backendName, err, "failed to create color bind group layout")
	}

	b.frameLayout = frameLayout
	b.materialLayout = materialTextureLayout
	b.lightmapLayout = lightmapLayout
	b.colorLayout = colorLayout

	for _, kind := range pipeline.AllKinds {
		p := pipeline.NewPipeline(kind, pipeline.WithSampleCount(b.sampleCount))
		var rp *wgpu.RenderPipeline
		switch kind {
		case pipeline.KindSimpleTextureOpaque, pipeline.KindSimpleTextureTransparent:
			rp, err = b.buildSimpleTexturePipeline(kind, kind.CullMode(), frameLayout, materialTextureLayout, lightmapLayout)
		case pipeline.KindColorBox:
			rp, err = b.buildColorBoxPipeline(frameLayout, colorLayout)
		}
		if err != nil {
			return rendererr.GraphicsAPIErrorf(backendName, err, "failed to build pipeline %s", kind)
		}
		p.SetRenderPipeline(rp)
		b.catalog.Register(p)

		// KindSimpleTextureOpaque gets a second, cull-disabled pipeline
		// object so a shader can opt out of back-face culling (spec
		// §4.4 step g); wgpu bakes cull mode into the pipeline rather
		// than taking it as per-draw dynamic state.
		if kind == pipeline.KindSimpleTextureOpaque {
			rpNoCull, err := b.buildSimpleTexturePipeline(kind, wgpu.CullModeNone, frameLayout, materialTextureLayout, lightmapLayout)
			if err != nil {
				return rendererr.GraphicsAPIErrorf(backendName, err, "failed to build cull-disabled pipeline %s", kind)
			}
			pNoCull := pipeline.NewPipeline(kind, pipeline.WithSampleCount(b.sampleCount), pipeline.WithCullMode(wgpu.CullModeNone))
			pNoCull.SetRenderPipeline(rpNoCull)
			b.catalog.RegisterCullDisabled(pNoCull)
		}
	}
	return nil
}

func (b *Backend) buildSimpleTexturePipeline(kind pipeline.Kind, cullMode wgpu.CullMode, frameLayout, materialLayout, lightmapLayout *wgpu.BindGroupLayout) (*wgpu.RenderPipeline, error) {
	module, err := b.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "simple_texture",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: simpleTextureWGSL},
	})
	if err != nil {
		return nil, err
	}

	layout, err := b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "simple_texture layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{frameLayout, materialLayout, lightmapLayout},
	})
	if err != nil {
		return nil, err
	}

	depthMode := kind.DepthAccessMode()
	var blend *wgpu.BlendState
	if kind.IsTransparent() {
		blend = &wgpu.BlendState{
			Color: wgpu.BlendComponent{SrcFactor: wgpu.BlendFactorSrcAlpha, DstFactor: wgpu.BlendFactorOne, Operation: wgpu.BlendOperationAdd},
			Alpha: wgpu.BlendComponent{SrcFactor: wgpu.BlendFactorOne, DstFactor: wgpu.BlendFactorOne, Operation: wgpu.BlendOperationAdd},
		}
	}

	return b.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  kind.String(),
		Layout: layout,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: "vs_main",
			Buffers:    modelVertexLayouts(),
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{
				{
					Format:    b.surfaceFormat,
					Blend:     blend,
					WriteMask: wgpu.ColorWriteMaskAll,
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCW,
			CullMode:  cullMode,
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:            DepthFormat,
			DepthWriteEnabled: depthMode.WriteEnabled(),
			DepthCompare:      depthMode.CompareFunction(),
		},
		Multisample: wgpu.MultisampleState{Count: b.sampleCount, Mask: 0xFFFFFFFF},
	})
}

func (b *Backend) buildColorBoxPipeline(frameLayout, colorLayout *wgpu.BindGroupLayout) (*wgpu.RenderPipeline, error) {
	module, err := b.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "color_box",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: colorBoxWGSL},
	})
	if err != nil {
		return nil, err
	}

	layout, err := b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "color_box layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{frameLayout, colorLayout},
	})
	if err != nil {
		return nil, err
	}

	depthMode := pipeline.NoDepth
	return b.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "ColorBox",
		Layout: layout,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: "vs_main",
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{
				{
					Format:    b.surfaceFormat,
					WriteMask: wgpu.ColorWriteMaskAll,
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCW,
			CullMode:  wgpu.CullModeNone,
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:            DepthFormat,
			DepthWriteEnabled: depthMode.WriteEnabled(),
			DepthCompare:      depthMode.CompareFunction(),
		},
		Multisample: wgpu.MultisampleState{Count: b.sampleCount, Mask: 0xFFFFFFFF},
	})
}

// createSolidColorView builds a 1x1 RGBA8 texture view filled with
// rgba, used for the backend's default-white fallback (spec §4.2 step
// 10, §4.6 "falls back to the default 1x1 white texture").
func (b *Backend) createSolidColorView(rgba [4]byte) (*wgpu.TextureView, error) {
	texture, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "fallback",
		Size:          wgpu.Extent3D{Width: 1, Height: 1, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatRGBA8Unorm,
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, rendererr.GraphicsAPIErrorf(backendName, err, "failed to create fallback texture")
	}
	b.queue.WriteTexture(
		&wgpu.ImageCopyTexture{Texture: texture},
		rgba[:],
		&wgpu.TextureDataLayout{BytesPerRow: 4, RowsPerImage: 1},
		&wgpu.Extent3D{Width: 1, Height: 1, DepthOrArrayLayers: 1},
	)
	view, err := texture.CreateView(nil)
	if err != nil {
		texture.Release()
		return nil, rendererr.GraphicsAPIErrorf(backendName, err, "failed to create fallback texture view")
	}
	return view, nil
}
