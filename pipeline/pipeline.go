// Package pipeline implements the renderer's closed pipeline catalog
// (spec §4.3): a fixed enumeration of pipeline kinds, each bound to one
// of four depth access modes, a vertex layout, and a descriptor-set
// layout.
package pipeline

import "github.com/cogentcore/webgpu/wgpu"

// DepthAccessMode is one of the four fixed depth-test/write
// combinations a pipeline kind is built with.
type DepthAccessMode int

const (
	// DepthWrite is the first pass per geometry: compare <=, write
	// depth. Populates the depth buffer for later passes.
	DepthWrite DepthAccessMode = iota
	// DepthReadOnly is an overlay pass that must match a prior surface
	// exactly: compare ==, no write.
	DepthReadOnly
	// DepthReadOnlyTransparent is a transparent overlay that must
	// respect occluders but never write depth: compare <=, no write.
	DepthReadOnlyTransparent
	// NoDepth is a full-screen 2D overlay with no depth interaction at
	// all: compare always, no write.
	NoDepth
)

func (m DepthAccessMode) String() string {
	switch m {
	case DepthWrite:
		return "DepthWrite"
	case DepthReadOnly:
		return "DepthReadOnly"
	case DepthReadOnlyTransparent:
		return "DepthReadOnlyTransparent"
	case NoDepth:
		return "NoDepth"
	default:
		return "Unknown"
	}
}

// CompareFunction returns the wgpu depth compare function for this
// mode, per the depth access matrix (spec §4.3).
func (m DepthAccessMode) CompareFunction() wgpu.CompareFunction {
	switch m {
	case DepthWrite, DepthReadOnlyTransparent:
		return wgpu.CompareFunctionLessEqual
	case DepthReadOnly:
		return wgpu.CompareFunctionEqual
	case NoDepth:
		return wgpu.CompareFunctionAlways
	default:
		return wgpu.CompareFunctionAlways
	}
}

// WriteEnabled reports whether this mode writes depth. Only
// DepthWrite does.
func (m DepthAccessMode) WriteEnabled() bool {
	return m == DepthWrite
}

// Kind identifies one entry of the closed pipeline kind enumeration.
type Kind int

const (
	// KindSimpleTextureOpaque is opaque 3D geometry with an optional
	// lightmap sample, depth-write, back-face cull.
	KindSimpleTextureOpaque Kind = iota
	// KindSimpleTextureTransparent is the transparent 3D geometry
	// variant: additive blend, depth-read-only, no cull.
	KindSimpleTextureTransparent
	// KindColorBox is a solid-color 2D overlay with no depth
	// interaction: the sky fog box and split-screen bars.
	KindColorBox
)

func (k Kind) String() string {
	switch k {
	case KindSimpleTextureOpaque:
		return "SimpleTextureOpaque"
	case KindSimpleTextureTransparent:
		return "SimpleTextureTransparent"
	case KindColorBox:
		return "ColorBox"
	default:
		return "Unknown"
	}
}

// IsTransparent reports whether draws using this kind belong in the
// transparent pass (spec §4.4 step f).
func (k Kind) IsTransparent() bool {
	return k == KindSimpleTextureTransparent
}

// DepthAccessMode returns the fixed depth access mode for this kind.
func (k Kind) DepthAccessMode() DepthAccessMode {
	switch k {
	case KindSimpleTextureOpaque:
		return DepthWrite
	case KindSimpleTextureTransparent:
		return DepthReadOnlyTransparent
	case KindColorBox:
		return NoDepth
	default:
		return DepthWrite
	}
}

// CullMode returns the fixed cull mode for this kind: back-face for
// opaque 3D geometry, none for transparent overlays and 2D boxes
// (spec §4.3 "Rasterization").
func (k Kind) CullMode() wgpu.CullMode {
	switch k {
	case KindSimpleTextureOpaque:
		return wgpu.CullModeBack
	default:
		return wgpu.CullModeNone
	}
}

// pipeline is the unexported implementation of Pipeline.
type pipeline struct {
	kind        Kind
	cullMode    wgpu.CullMode
	sampleCount uint32

	renderPipeline *wgpu.RenderPipeline
}

// Pipeline is one loaded, GPU-resident entry of the catalog.
type Pipeline interface {
	Kind() Kind
	DepthAccessMode() DepthAccessMode
	CullMode() wgpu.CullMode
	IsTransparent() bool
	SampleCount() uint32

	RenderPipeline() *wgpu.RenderPipeline
	SetRenderPipeline(rp *wgpu.RenderPipeline)

	Release()
}

var _ Pipeline = &pipeline{}

// PipelineOption configures a Pipeline during construction.
type PipelineOption func(*pipeline)

// WithSampleCount sets the MSAA sample count this pipeline was built
// against; defaults to 1 (spec §4.3 "sample count is build-time
// configurable").
func WithSampleCount(n uint32) PipelineOption {
	return func(p *pipeline) { p.sampleCount = n }
}

// WithCullMode overrides the cull mode this pipeline was built with,
// defaulting to kind.CullMode(). Used to register a cull-disabled
// variant of KindSimpleTextureOpaque alongside the default, since a
// shader may opt out of back-face culling (spec §4.4 step g "sets
// cull mode") but wgpu bakes cull mode into the pipeline object rather
// than taking it as per-draw dynamic state.
func WithCullMode(mode wgpu.CullMode) PipelineOption {
	return func(p *pipeline) { p.cullMode = mode }
}

// NewPipeline constructs a catalog entry for kind.
func NewPipeline(kind Kind, opts ...PipelineOption) Pipeline {
	p := &pipeline{kind: kind, cullMode: kind.CullMode(), sampleCount: 1}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *pipeline) Kind() Kind                         { return p.kind }
func (p *pipeline) DepthAccessMode() DepthAccessMode    { return p.kind.DepthAccessMode() }
func (p *pipeline) CullMode() wgpu.CullMode             { return p.cullMode }
func (p *pipeline) IsTransparent() bool                 { return p.kind.IsTransparent() }
func (p *pipeline) SampleCount() uint32                 { return p.sampleCount }
func (p *pipeline) RenderPipeline() *wgpu.RenderPipeline { return p.renderPipeline }

func (p *pipeline) SetRenderPipeline(rp *wgpu.RenderPipeline) {
	p.renderPipeline = rp
}

func (p *pipeline) Release() {
	if p.renderPipeline != nil {
		p.renderPipeline.Release()
		p.renderPipeline = nil
	}
}
