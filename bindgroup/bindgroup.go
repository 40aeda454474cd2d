// Package bindgroup adapts the renderer's descriptor-set convention
// (spec §4.3 "Descriptor set slots") into a GPU-resource holder: one
// Provider per descriptor set instance, filled by the renderer with
// objects created on the GPU backend's device, released through
// Provider.Release, and consumed by materials and the frame composer
// for draw-time binding.
package bindgroup

import "github.com/cogentcore/webgpu/wgpu"

// Set identifies which of the renderer's three descriptor set slots a
// Provider fills.
type Set int

const (
	// SetFrame is set 0: the per-frame MVP uniform, shared by every
	// draw within a viewport.
	SetFrame Set = iota
	// SetMaterial is set 1: the per-material base texture and sampler.
	SetMaterial
	// SetLightmap is set 2: the lightmap texture and sampler for one
	// lightmap sub-bitmap index, rebound when the bound lightmap
	// sub-bitmap changes between consecutive draws, and on every draw in
	// fullbright mode (spec §4.4 step 6c).
	SetLightmap
)

func (s Set) String() string {
	switch s {
	case SetFrame:
		return "Frame"
	case SetMaterial:
		return "Material"
	case SetLightmap:
		return "Lightmap"
	default:
		return "Unknown"
	}
}

// provider is the unexported implementation of Provider.
type provider struct {
	label string
	set   Set

	bindGroup       *wgpu.BindGroup
	bindGroupLayout *wgpu.BindGroupLayout
	buffers         map[int]*wgpu.Buffer
	textureViews    map[int]*wgpu.TextureView
	samplers        map[int]*wgpu.Sampler
}

// Provider holds the GPU resources backing one descriptor set
// instance. The underlying wgpu objects are created through the GPU
// backend and registered here; Release frees every object registered
// with the provider. Materials and the frame composer only read them
// at draw time.
type Provider interface {
	Release()

	Label() string
	Set() Set

	BindGroup() *wgpu.BindGroup
	BindGroupLayout() *wgpu.BindGroupLayout
	Buffer(binding int) *wgpu.Buffer
	Buffers() map[int]*wgpu.Buffer
	TextureView(binding int) *wgpu.TextureView
	TextureViews() map[int]*wgpu.TextureView
	Sampler(binding int) *wgpu.Sampler
	Samplers() map[int]*wgpu.Sampler

	SetBindGroup(bg *wgpu.BindGroup)
	SetBindGroupLayout(bgl *wgpu.BindGroupLayout)
	SetBuffer(binding int, buf *wgpu.Buffer)
	SetTextureView(binding int, tv *wgpu.TextureView)
	SetSampler(binding int, s *wgpu.Sampler)
}

var _ Provider = &provider{}

// ProviderOption configures a Provider during construction.
type ProviderOption func(*provider)

// WithBuffer seeds a buffer for a binding at construction time.
func WithBuffer(binding int, buf *wgpu.Buffer) ProviderOption {
	return func(p *provider) { p.buffers[binding] = buf }
}

// WithTextureView seeds a texture view for a binding at construction time.
func WithTextureView(binding int, tv *wgpu.TextureView) ProviderOption {
	return func(p *provider) { p.textureViews[binding] = tv }
}

// WithSampler seeds a sampler for a binding at construction time.
func WithSampler(binding int, s *wgpu.Sampler) ProviderOption {
	return func(p *provider) { p.samplers[binding] = s }
}

// NewProvider creates a Provider for the given descriptor set slot.
func NewProvider(label string, set Set, opts ...ProviderOption) Provider {
	p := &provider{
		label:        label,
		set:          set,
		buffers:      make(map[int]*wgpu.Buffer),
		textureViews: make(map[int]*wgpu.TextureView),
		samplers:     make(map[int]*wgpu.Sampler),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *provider) Label() string { return p.label }
func (p *provider) Set() Set      { return p.set }

func (p *provider) BindGroup() *wgpu.BindGroup             { return p.bindGroup }
func (p *provider) BindGroupLayout() *wgpu.BindGroupLayout { return p.bindGroupLayout }
func (p *provider) Buffer(binding int) *wgpu.Buffer        { return p.buffers[binding] }
func (p *provider) Buffers() map[int]*wgpu.Buffer          { return p.buffers }
func (p *provider) TextureView(binding int) *wgpu.TextureView {
	return p.textureViews[binding]
}
func (p *provider) TextureViews() map[int]*wgpu.TextureView { return p.textureViews }
func (p *provider) Sampler(binding int) *wgpu.Sampler       { return p.samplers[binding] }
func (p *provider) Samplers() map[int]*wgpu.Sampler         { return p.samplers }

func (p *provider) SetBindGroup(bg *wgpu.BindGroup)             { p.bindGroup = bg }
func (p *provider) SetBindGroupLayout(bgl *wgpu.BindGroupLayout) { p.bindGroupLayout = bgl }

func (p *provider) SetBuffer(binding int, buf *wgpu.Buffer) {
	if p.buffers == nil {
		p.buffers = make(map[int]*wgpu.Buffer)
	}
	p.buffers[binding] = buf
}

func (p *provider) SetTextureView(binding int, tv *wgpu.TextureView) {
	if p.textureViews == nil {
		p.textureViews = make(map[int]*wgpu.TextureView)
	}
	p.textureViews[binding] = tv
}

func (p *provider) SetSampler(binding int, s *wgpu.Sampler) {
	if p.samplers == nil {
		p.samplers = make(map[int]*wgpu.Sampler)
	}
	p.samplers[binding] = s
}

// Release releases every GPU resource this provider holds and clears
// its handles. Safe to call more than once.
func (p *provider) Release() {
	for i, tv := range p.textureViews {
		if tv != nil {
			tv.Release()
			delete(p.textureViews, i)
		}
	}
	for i, s := range p.samplers {
		if s != nil {
			s.Release()
			delete(p.samplers, i)
		}
	}
	for i, buf := range p.buffers {
		if buf != nil {
			buf.Release()
			delete(p.buffers, i)
		}
	}
	if p.bindGroup != nil {
		p.bindGroup.Release()
		p.bindGroup = nil
	}
	if p.bindGroupLayout != nil {
		p.bindGroupLayout.Release()
		p.bindGroupLayout = nil
	}
}
