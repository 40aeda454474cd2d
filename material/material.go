// Package material implements per-shader-kind GPU material bindings
// (spec §4.6): one small struct per loaded shader holding its image
// view and sampler (or solid-color uniform), able to emit the draw
// commands for one indexed geometry.
package material

import (
	"github.com/cogentcore/webgpu/wgpu"

	"github.com/FishAndRips/magellanicus/asset"
	"github.com/FishAndRips/magellanicus/bindgroup"
	"github.com/FishAndRips/magellanicus/pipeline"
)

// PipelineKindFor maps a shader kind to the pipeline kind it draws
// with (spec §4.6, §3 GLOSSARY "Shader").
func PipelineKindFor(kind asset.ShaderKind) pipeline.Kind {
	if kind.IsTransparent() {
		return pipeline.KindSimpleTextureTransparent
	}
	return pipeline.KindSimpleTextureOpaque
}

// material is the unexported implementation of Material.
type material struct {
	shaderKind    asset.ShaderKind
	pipelineKey   pipeline.Kind
	cullBackfaces bool
	provider      bindgroup.Provider
}

// Material is one loaded shader's GPU-resident material binding. The
// registry's Shader carries only the declarative shader data; Material
// is the backend-built counterpart holding set-1 GPU resources.
type Material interface {
	ShaderKind() asset.ShaderKind
	PipelineKind() pipeline.Kind
	Provider() bindgroup.Provider
	SetProvider(p bindgroup.Provider)

	// GenerateCommands binds this material's pipeline from catalog,
	// binds its set-1 descriptor, and issues an indexed draw of
	// indexCount indices against pass. The caller is responsible for
	// having already bound the set-0 frame descriptor, the set-2
	// lightmap descriptor, and the vertex/index buffers (spec §4.4
	// step g).
	GenerateCommands(pass *wgpu.RenderPassEncoder, catalog pipeline.Catalog, indexCount uint32)

	Release()
}

var _ Material = &material{}

// MaterialOption configures a Material during construction.
type MaterialOption func(*material)

// WithCullBackfaces overrides whether this material's draws cull back
// faces. Defaults to true, matching the pipeline catalog's default
// opaque pipeline variant; a shader that sets
// asset.Shader.DisableBackfaceCulling passes false here to draw with
// the catalog's cull-disabled pipeline variant instead (spec §4.4 step
// g "sets cull mode").
func WithCullBackfaces(enabled bool) MaterialOption {
	return func(m *material) { m.cullBackfaces = enabled }
}

// NewMaterial constructs a Material for the given shader kind.
func NewMaterial(shaderKind asset.ShaderKind, opts ...MaterialOption) Material {
	m := &material{
		shaderKind:    shaderKind,
		pipelineKey:   PipelineKindFor(shaderKind),
		cullBackfaces: true,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *material) ShaderKind() asset.ShaderKind     { return m.shaderKind }
func (m *material) PipelineKind() pipeline.Kind      { return m.pipelineKey }
func (m *material) Provider() bindgroup.Provider     { return m.provider }
func (m *material) SetProvider(p bindgroup.Provider) { m.provider = p }

func (m *material) GenerateCommands(pass *wgpu.RenderPassEncoder, catalog pipeline.Catalog, indexCount uint32) {
	var pl pipeline.Pipeline
	if m.cullBackfaces {
		pl = catalog.Pipeline(m.pipelineKey)
	} else {
		pl = catalog.PipelineCullDisabled(m.pipelineKey)
	}
	pass.SetPipeline(pl.RenderPipeline())
	if m.provider != nil && m.provider.BindGroup() != nil {
		pass.SetBindGroup(1, m.provider.BindGroup(), nil)
	}
	pass.DrawIndexed(indexCount, 1, 0, 0, 0)
}

func (m *material) Release() {
	if m.provider != nil {
		m.provider.Release()
		m.provider = nil
	}
}
