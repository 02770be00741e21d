package pipeline

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/mood/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// ErrMissingEntryPoint is returned by Descriptor when a stage shader has no entry point for its stage.
var ErrMissingEntryPoint = errors.New("missing shader entry point")

// pipeline is the implementation of the Pipeline interface.
// It holds the render state a pipeline is created from and the created GPU pipeline.
type pipeline struct {
	// pipelineKey is the unique identifier for this pipeline, used as the label prefix
	pipelineKey string

	// vertexShader and fragmentShader may be the same Shader when both stages live in one module.
	vertexShader, fragmentShader shader.Shader

	bindGroupLayouts []*wgpu.BindGroupLayout

	// renderPipeline is nil until the backend registers the pipeline
	renderPipeline *wgpu.RenderPipeline

	depthTestEnabled  bool
	depthWriteEnabled bool
	depthCompare      wgpu.CompareFunction
	blendEnabled      bool
	cullMode          wgpu.CullMode
	topology          wgpu.PrimitiveTopology
	frontFace         wgpu.FrontFace
	writeMask         wgpu.ColorWriteMask
	blendState        *wgpu.BlendState
}

// Pipeline describes a render pipeline with no vertex buffers: the stage shaders, the bind group
// layouts in group order, and the fixed-function state. The GPU pipeline is attached once a
// backend has created it.
type Pipeline interface {
	// PipelineKey returns the unique key associated with this pipeline.
	//
	// Returns:
	//   - string: the unique key for this pipeline
	PipelineKey() string

	// Shader retrieves the shader for a stage.
	//
	// Parameters:
	//   - shaderType: ShaderTypeVertex or ShaderTypeFragment
	//
	// Returns:
	//   - shader.Shader: the stage shader, or nil if not set
	Shader(shaderType shader.ShaderType) shader.Shader

	// BindGroupLayouts returns the layouts bound at groups 0..n-1.
	//
	// Returns:
	//   - []*wgpu.BindGroupLayout: the pipeline's bind group layouts
	BindGroupLayouts() []*wgpu.BindGroupLayout

	// RenderPipeline returns the created GPU pipeline.
	//
	// Returns:
	//   - *wgpu.RenderPipeline: the pipeline, or nil before registration
	RenderPipeline() *wgpu.RenderPipeline

	// SetRenderPipeline attaches the created GPU pipeline.
	//
	// Parameters:
	//   - p: the WebGPU render pipeline to set
	SetRenderPipeline(p *wgpu.RenderPipeline)

	// DepthTestEnabled returns whether fragments are tested against the depth target.
	DepthTestEnabled() bool

	// DepthWriteEnabled returns whether fragments write the depth target.
	DepthWriteEnabled() bool

	// DepthCompare returns the depth comparison, CompareFunctionAlways when depth testing is off.
	DepthCompare() wgpu.CompareFunction

	// CullMode returns the face culling mode.
	CullMode() wgpu.CullMode

	// Topology returns the primitive topology.
	Topology() wgpu.PrimitiveTopology

	// FrontFace returns the front face winding order.
	FrontFace() wgpu.FrontFace

	// WriteMask returns the colour target write mask.
	WriteMask() wgpu.ColorWriteMask

	// BlendState returns the blend state, or nil when blending is disabled.
	BlendState() *wgpu.BlendState

	// Descriptor assembles the wgpu descriptor for creating this pipeline.
	//
	// Parameters:
	//   - vertexModule: the compiled module of the vertex shader
	//   - fragmentModule: the compiled module of the fragment shader
	//   - layout: the pipeline layout built from BindGroupLayouts
	//   - colorFormat: the format of the colour target
	//   - depthFormat: the format of the depth target
	//
	// Returns:
	//   - *wgpu.RenderPipelineDescriptor: the descriptor
	//   - error: ErrMissingEntryPoint if a stage shader is unset or has no entry point
	Descriptor(vertexModule, fragmentModule *wgpu.ShaderModule, layout *wgpu.PipelineLayout, colorFormat, depthFormat wgpu.TextureFormat) (*wgpu.RenderPipelineDescriptor, error)

	// Release frees the GPU pipeline if one is attached.
	Release()
}

var _ Pipeline = &pipeline{}

// NewPipeline creates a render Pipeline. Defaults: depth test and write on with Less, no culling,
// counter-clockwise triangle lists, all channels written, blending off.
//
// Parameters:
//   - pipelineKey: the unique key for this pipeline
//   - opts: a variadic list of PipelineBuilderOption functions to configure the pipeline
//
// Returns:
//   - Pipeline: a new Pipeline with the specified configuration
func NewPipeline(pipelineKey string, opts ...PipelineBuilderOption) Pipeline {
	p := &pipeline{
		pipelineKey:       pipelineKey,
		depthTestEnabled:  true,
		depthWriteEnabled: true,
		depthCompare:      wgpu.CompareFunctionLess,
		blendEnabled:      false,
		cullMode:          wgpu.CullModeNone,
		topology:          wgpu.PrimitiveTopologyTriangleList,
		frontFace:         wgpu.FrontFaceCCW,
		writeMask:         wgpu.ColorWriteMaskAll,
		blendState: &wgpu.BlendState{
			Color: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorSrcAlpha,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				Operation: wgpu.BlendOperationAdd,
			},
			Alpha: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorOne,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				Operation: wgpu.BlendOperationAdd,
			},
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *pipeline) PipelineKey() string {
	return p.pipelineKey
}

func (p *pipeline) Shader(shaderType shader.ShaderType) shader.Shader {
	switch shaderType {
	case shader.ShaderTypeVertex:
		return p.vertexShader
	case shader.ShaderTypeFragment:
		return p.fragmentShader
	default:
		return nil
	}
}

func (p *pipeline) BindGroupLayouts() []*wgpu.BindGroupLayout {
	return p.bindGroupLayouts
}

func (p *pipeline) RenderPipeline() *wgpu.RenderPipeline {
	return p.renderPipeline
}

func (p *pipeline) SetRenderPipeline(rp *wgpu.RenderPipeline) {
	p.renderPipeline = rp
}

func (p *pipeline) DepthTestEnabled() bool {
	return p.depthTestEnabled
}

func (p *pipeline) DepthWriteEnabled() bool {
	return p.depthWriteEnabled
}

func (p *pipeline) DepthCompare() wgpu.CompareFunction {
	if !p.depthTestEnabled {
		return wgpu.CompareFunctionAlways
	}
	return p.depthCompare
}

func (p *pipeline) CullMode() wgpu.CullMode {
	return p.cullMode
}

func (p *pipeline) Topology() wgpu.PrimitiveTopology {
	return p.topology
}

func (p *pipeline) FrontFace() wgpu.FrontFace {
	return p.frontFace
}

func (p *pipeline) WriteMask() wgpu.ColorWriteMask {
	return p.writeMask
}

func (p *pipeline) BlendState() *wgpu.BlendState {
	if !p.blendEnabled {
		return nil
	}
	return p.blendState
}

func (p *pipeline) Descriptor(vertexModule, fragmentModule *wgpu.ShaderModule, layout *wgpu.PipelineLayout, colorFormat, depthFormat wgpu.TextureFormat) (*wgpu.RenderPipelineDescriptor, error) {
	vertexEntry, err := p.entryPoint(shader.ShaderTypeVertex)
	if err != nil {
		return nil, err
	}
	fragmentEntry, err := p.entryPoint(shader.ShaderTypeFragment)
	if err != nil {
		return nil, err
	}

	return &wgpu.RenderPipelineDescriptor{
		Label:  p.pipelineKey + " Render Pipeline",
		Layout: layout,
		Vertex: wgpu.VertexState{
			Module:     vertexModule,
			EntryPoint: vertexEntry,
		},
		Fragment: &wgpu.FragmentState{
			Module:     fragmentModule,
			EntryPoint: fragmentEntry,
			Targets: []wgpu.ColorTargetState{
				{
					Format:    colorFormat,
					Blend:     p.BlendState(),
					WriteMask: p.writeMask,
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  p.topology,
			FrontFace: p.frontFace,
			CullMode:  p.cullMode,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:            depthFormat,
			DepthWriteEnabled: p.depthWriteEnabled,
			DepthCompare:      p.DepthCompare(),
			StencilFront: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
			StencilBack: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
		},
	}, nil
}

func (p *pipeline) entryPoint(stage shader.ShaderType) (string, error) {
	s := p.Shader(stage)
	if s == nil {
		return "", fmt.Errorf("%w: pipeline %s has no stage %d shader", ErrMissingEntryPoint, p.pipelineKey, stage)
	}
	entry := s.EntryPoint(stage)
	if entry == "" {
		return "", fmt.Errorf("%w: shader %s has no stage %d entry point", ErrMissingEntryPoint, s.Key(), stage)
	}
	return entry, nil
}

func (p *pipeline) Release() {
	if p.renderPipeline != nil {
		p.renderPipeline.Release()
		p.renderPipeline = nil
	}
}
