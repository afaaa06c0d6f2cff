package tilepass

import (
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/tilepass/tilepass/shaders"
)

// TilePassConfig configures the pipeline targets. Zero values fall back to
// the defaults the surface-owning caller most commonly renders into.
type TilePassConfig struct {
	ColorFormat wgpu.TextureFormat
	DepthFormat wgpu.TextureFormat
	SampleCount uint32
	Logger      Logger
}

// TilePass draws layered, depth-biased tile quads with picking-override and
// highlight compositing. It owns the pipeline and the three bind group
// layouts; buffers, textures and the render pass itself stay with the caller.
//
// Bind groups are split by update frequency: group 0 changes per frame,
// group 1 per material swap, group 2 per picking-mode toggle. Each can be
// rebuilt without touching the other two.
type TilePass struct {
	pipeline       *wgpu.RenderPipeline
	frameLayout    *wgpu.BindGroupLayout
	materialLayout *wgpu.BindGroupLayout
	pickingLayout  *wgpu.BindGroupLayout
	device         *wgpu.Device
	log            Logger
}

// NewTilePass compiles the tile shader and builds the render pipeline against
// the given target formats.
func NewTilePass(device *wgpu.Device, cfg TilePassConfig) (*TilePass, error) {
	if cfg.ColorFormat == wgpu.TextureFormatUndefined {
		cfg.ColorFormat = wgpu.TextureFormatBGRA8UnormSrgb
	}
	if cfg.DepthFormat == wgpu.TextureFormatUndefined {
		cfg.DepthFormat = wgpu.TextureFormatDepth32Float
	}
	if cfg.SampleCount == 0 {
		cfg.SampleCount = 1
	}
	log := cfg.Logger
	if log == nil {
		log = NewNopLogger()
	}

	shaderModule, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "TileShader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shaders.TileWGSL},
	})
	if err != nil {
		return nil, err
	}
	defer shaderModule.Release()

	// Group 0: frame uniform, vertex stage only.
	frameLayout, err := device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "TileFrameBGL",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: uint64(unsafe.Sizeof(FrameUniform{})),
				},
			},
		},
	})
	if err != nil {
		return nil, err
	}

	// Group 1: layer array texture + sampler, bound together.
	materialLayout, err := device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "TileMaterialBGL",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageFragment,
				Texture: wgpu.TextureBindingLayout{
					SampleType:    wgpu.TextureSampleTypeFloat,
					ViewDimension: wgpu.TextureViewDimension2DArray,
					Multisampled:  false,
				},
			},
			{
				Binding:    1,
				Visibility: wgpu.ShaderStageFragment,
				Sampler: wgpu.SamplerBindingLayout{
					Type: wgpu.SamplerBindingTypeFiltering,
				},
			},
		},
	})
	if err != nil {
		return nil, err
	}

	// Group 2: the process-wide picking flag.
	pickingLayout, err := device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "TilePickingBGL",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageFragment,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: uint64(unsafe.Sizeof(PickingUniform{})),
				},
			},
		},
	})
	if err != nil {
		return nil, err
	}

	pipelineLayout, err := device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		BindGroupLayouts: []*wgpu.BindGroupLayout{
			frameLayout,
			materialLayout,
			pickingLayout,
		},
	})
	if err != nil {
		return nil, err
	}

	pipeline, err := device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "TilePipeline",
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     shaderModule,
			EntryPoint: "vs_main",
			Buffers:    []wgpu.VertexBufferLayout{TileVertexLayout()},
		},
		Fragment: &wgpu.FragmentState{
			Module:     shaderModule,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{
				{
					Format:    cfg.ColorFormat,
					WriteMask: wgpu.ColorWriteMaskAll,
					Blend: &wgpu.BlendState{
						Color: wgpu.BlendComponent{
							Operation: wgpu.BlendOperationAdd,
							SrcFactor: wgpu.BlendFactorSrcAlpha,
							DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
						},
						Alpha: wgpu.BlendComponent{
							Operation: wgpu.BlendOperationAdd,
							SrcFactor: wgpu.BlendFactorOne,
							DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
						},
					},
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:            cfg.DepthFormat,
			DepthWriteEnabled: true,
			DepthCompare:      wgpu.CompareFunctionLessEqual,
			StencilFront: wgpu.StencilFaceState{
				Compare:     wgpu.CompareFunctionAlways,
				FailOp:      wgpu.StencilOperationKeep,
				DepthFailOp: wgpu.StencilOperationKeep,
				PassOp:      wgpu.StencilOperationKeep,
			},
			StencilBack: wgpu.StencilFaceState{
				Compare:     wgpu.CompareFunctionAlways,
				FailOp:      wgpu.StencilOperationKeep,
				DepthFailOp: wgpu.StencilOperationKeep,
				PassOp:      wgpu.StencilOperationKeep,
			},
			StencilReadMask:  0xFFFFFFFF,
			StencilWriteMask: 0xFFFFFFFF,
		},
		Multisample: wgpu.MultisampleState{
			Count: cfg.SampleCount,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, err
	}

	log.Debugf("tile pipeline created (color=%v depth=%v)", cfg.ColorFormat, cfg.DepthFormat)

	return &TilePass{
		pipeline:       pipeline,
		frameLayout:    frameLayout,
		materialLayout: materialLayout,
		pickingLayout:  pickingLayout,
		device:         device,
		log:            log,
	}, nil
}

// CreateFrameBuffer creates the group 0 uniform buffer with its initial
// transforms. Update it later with UpdateFrameBuffer.
func (p *TilePass) CreateFrameBuffer(frame FrameUniform) (*wgpu.Buffer, error) {
	return p.device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "Tile Frame Uniform",
		Contents: frame.Bytes(),
		Usage:    wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
}

// UpdateFrameBuffer rewrites the frame transforms in place. Must not race
// with a submitted draw that reads the buffer; submission ordering is the
// caller's responsibility.
func (p *TilePass) UpdateFrameBuffer(queue *wgpu.Queue, buf *wgpu.Buffer, frame FrameUniform) error {
	return queue.WriteBuffer(buf, 0, frame.Bytes())
}

// CreatePickingBuffer creates the group 2 uniform buffer.
func (p *TilePass) CreatePickingBuffer(enabled bool) (*wgpu.Buffer, error) {
	u := pickingUniform(enabled)
	return p.device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "Tile Picking Uniform",
		Contents: u.Bytes(),
		Usage:    wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
}

// UpdatePickingBuffer flips the global picking flag, typically right before
// an off-screen picking pass and back after it.
func (p *TilePass) UpdatePickingBuffer(queue *wgpu.Queue, buf *wgpu.Buffer, enabled bool) error {
	u := pickingUniform(enabled)
	return queue.WriteBuffer(buf, 0, u.Bytes())
}

func pickingUniform(enabled bool) PickingUniform {
	var u PickingUniform
	if enabled {
		u.Enabled = 1
	}
	return u
}

// CreateFrameBindGroup binds a frame uniform buffer as group 0.
func (p *TilePass) CreateFrameBindGroup(buf *wgpu.Buffer) (*wgpu.BindGroup, error) {
	return p.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "TileFrameBG",
		Layout: p.frameLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: buf, Size: wgpu.WholeSize},
		},
	})
}

// CreateMaterialBindGroup binds a layer array view and its sampler as
// group 1.
func (p *TilePass) CreateMaterialBindGroup(view *wgpu.TextureView, sampler *wgpu.Sampler) (*wgpu.BindGroup, error) {
	return p.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "TileMaterialBG",
		Layout: p.materialLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: view, Size: wgpu.WholeSize},
			{Binding: 1, Sampler: sampler, Size: wgpu.WholeSize},
		},
	})
}

// CreatePickingBindGroup binds a picking uniform buffer as group 2.
func (p *TilePass) CreatePickingBindGroup(buf *wgpu.Buffer) (*wgpu.BindGroup, error) {
	return p.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "TilePickingBG",
		Layout: p.pickingLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: buf, Size: wgpu.WholeSize},
		},
	})
}

// Draw records the pass into an already begun render pass encoder: pipeline,
// the three bind groups, vertex/index buffers, one indexed draw.
func (p *TilePass) Draw(rp *wgpu.RenderPassEncoder, frameBG, materialBG, pickingBG *wgpu.BindGroup, vertexBuf, indexBuf *wgpu.Buffer, indexCount uint32) {
	rp.SetPipeline(p.pipeline)
	rp.SetBindGroup(0, frameBG, nil)
	rp.SetBindGroup(1, materialBG, nil)
	rp.SetBindGroup(2, pickingBG, nil)
	rp.SetVertexBuffer(0, vertexBuf, 0, wgpu.WholeSize)
	rp.SetIndexBuffer(indexBuf, wgpu.IndexFormatUint16, 0, wgpu.WholeSize)
	rp.DrawIndexed(indexCount, 1, 0, 0, 0)
}

// Release frees the pipeline and layouts. Bind groups and buffers created
// through the pass are released by their owners.
func (p *TilePass) Release() {
	p.pipeline.Release()
	p.frameLayout.Release()
	p.materialLayout.Release()
	p.pickingLayout.Release()
}
