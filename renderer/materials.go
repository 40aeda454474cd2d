package renderer

import (
	"github.com/cogentcore/webgpu/wgpu"

	"github.com/FishAndRips/magellanicus/asset"
	"github.com/FishAndRips/magellanicus/bindgroup"
	"github.com/FishAndRips/magellanicus/material"
	"github.com/FishAndRips/magellanicus/rendererr"
)

// buildMaterial builds the set-1 material bind group for a newly
// registered shader and caches it under its path (spec §4.6). Called
// with r.mu already held.
func (r *renderer) buildMaterial(path string) error {
	shader, ok := r.registry.Shader(path)
	if !ok {
		panic("renderer: buildMaterial called for unregistered shader " + path)
	}

	m := material.NewMaterial(shader.Kind, material.WithCullBackfaces(!shader.DisableBackfaceCulling))

	view, eligible := r.resolveBaseBitmapView(shader.BaseBitmapPath)
	if !eligible {
		view = r.gpu.DefaultWhiteView()
	}

	sampler := r.gpu.DefaultSampler()
	var ownedSampler *wgpu.Sampler
	if !shader.Kind.IsTransparent() && r.anisotropicFiltering > 0 {
		s, err := r.gpu.CreateSampler(&wgpu.SamplerDescriptor{
			Label:         path + " sampler",
			AddressModeU:  wgpu.AddressModeRepeat,
			AddressModeV:  wgpu.AddressModeRepeat,
			AddressModeW:  wgpu.AddressModeRepeat,
			MagFilter:     wgpu.FilterModeLinear,
			MinFilter:     wgpu.FilterModeLinear,
			MipmapFilter:  wgpu.MipmapFilterModeLinear,
			MaxAnisotropy: uint16(r.anisotropicFiltering),
		})
		if err != nil {
			return rendererr.GraphicsAPIErrorf("Vulkan", err, "shader %q: failed to create anisotropic sampler", path)
		}
		sampler = s
		ownedSampler = s
	}

	bg, err := r.gpu.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  path + " material",
		Layout: r.gpu.MaterialBindGroupLayout(),
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Sampler: sampler},
			{Binding: 1, TextureView: view},
		},
	})
	if err != nil {
		if ownedSampler != nil {
			ownedSampler.Release()
		}
		return rendererr.GraphicsAPIErrorf("Vulkan", err, "shader %q: failed to create material bind group", path)
	}

	provider := bindgroup.NewProvider(path, bindgroup.SetMaterial)
	provider.SetBindGroup(bg)
	if ownedSampler != nil {
		// Only a sampler this material created itself is registered
		// for release; the base texture view and the default sampler
		// are borrowed from the bitmap registry and the backend, and
		// must outlive this one material.
		provider.SetSampler(0, ownedSampler)
	}
	m.SetProvider(provider)
	r.materials[path] = m
	return nil
}

// resolveBaseBitmapView returns the bitmap view a material should
// bind for path, and whether path names an eligible 2D single-layer
// bitmap at all (spec §4.6 "falls back to the default 1×1 white
// texture" when it is not).
func (r *renderer) resolveBaseBitmapView(path string) (*wgpu.TextureView, bool) {
	if path == asset.FallbackWhiteBitmapPath {
		return nil, false
	}
	bmp, ok := r.registry.Bitmap(path)
	if !ok {
		return nil, false
	}
	if len(bmp.SubBitmaps) != 1 || bmp.SubBitmaps[0].Kind != asset.BitmapKind2D {
		return nil, false
	}
	view, ok := r.gpu.BitmapView(bmp, 0)
	if !ok {
		return nil, false
	}
	return view, true
}

// buildLightmapProviders builds one set-2 bind group per distinct
// lightmap sub-bitmap index the newly current BSP's geometries
// reference (spec §4.4 step g "rebind the lightmap descriptor").
// Called with r.mu already held.
func (r *renderer) buildLightmapProviders(bsp *asset.BSP) error {
	if bsp.LightmapBitmapPath == nil {
		return nil
	}
	lightmapBitmap, ok := r.registry.Bitmap(*bsp.LightmapBitmapPath)
	if !ok {
		return nil
	}

	seen := make(map[int]bool)
	for _, g := range bsp.Geometries() {
		if g.LightmapSubBitmap == nil || seen[*g.LightmapSubBitmap] {
			continue
		}
		seen[*g.LightmapSubBitmap] = true

		view, ok := r.gpu.BitmapView(lightmapBitmap, *g.LightmapSubBitmap)
		if !ok {
			continue
		}
		bg, err := r.gpu.CreateBindGroup(&wgpu.BindGroupDescriptor{
			Label:  "lightmap",
			Layout: r.gpu.LightmapBindGroupLayout(),
			Entries: []wgpu.BindGroupEntry{
				{Binding: 0, Sampler: r.gpu.DefaultSampler()},
				{Binding: 1, TextureView: view},
			},
		})
		if err != nil {
			return rendererr.GraphicsAPIErrorf("Vulkan", err, "failed to build lightmap bind group for index %d", *g.LightmapSubBitmap)
		}
		provider := bindgroup.NewProvider("lightmap", bindgroup.SetLightmap)
		provider.SetBindGroup(bg)
		r.lightmapProviders[*g.LightmapSubBitmap] = provider
	}
	return nil
}

func (r *renderer) releaseLightmapProviders() {
	for idx, p := range r.lightmapProviders {
		p.Release()
		delete(r.lightmapProviders, idx)
	}
}

// buildFallbackLightmapProvider builds the permanent no-lightmap /
// fullbright set-2 bind group bound to the backend's default white
// texture, used whenever a geometry has no lightmap or fullbright mode
// is forced (spec §4.4 step g).
func (r *renderer) buildFallbackLightmapProvider() (bindgroup.Provider, error) {
	bg, err := r.gpu.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "no lightmap",
		Layout: r.gpu.LightmapBindGroupLayout(),
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Sampler: r.gpu.DefaultSampler()},
			{Binding: 1, TextureView: r.gpu.DefaultWhiteView()},
		},
	})
	if err != nil {
		return nil, rendererr.GraphicsAPIErrorf("Vulkan", err, "failed to build fallback lightmap bind group")
	}
	provider := bindgroup.NewProvider("no lightmap", bindgroup.SetLightmap)
	provider.SetBindGroup(bg)
	return provider, nil
}

// lightmapProviderFor resolves which set-2 provider a draw with the
// given declared lightmap index should bind, honoring fullbright mode
// (spec §4.4 step g).
func (r *renderer) lightmapProviderFor(idx *int) bindgroup.Provider {
	if r.fullbright || idx == nil {
		return r.noLightmapProvider
	}
	if p, ok := r.lightmapProviders[*idx]; ok {
		return p
	}
	return r.noLightmapProvider
}
