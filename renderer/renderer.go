// Package renderer wires the asset registry, the GPU backend, the
// pipeline catalog, and the per-frame composer into the renderer's
// top-level entry point (spec §6 "Library API").
package renderer

import (
	"sync"

	"github.com/FishAndRips/magellanicus/asset"
	"github.com/FishAndRips/magellanicus/backend"
	"github.com/FishAndRips/magellanicus/bindgroup"
	"github.com/FishAndRips/magellanicus/internal/rendererlog"
	"github.com/FishAndRips/magellanicus/material"
	"github.com/FishAndRips/magellanicus/rendererr"
	"github.com/FishAndRips/magellanicus/viewport"
)

// Resolution is the backbuffer size a Renderer is constructed or
// rebuilt against.
type Resolution struct {
	Width, Height uint32
}

// renderer is the unexported implementation of Renderer.
type renderer struct {
	mu sync.Mutex

	registry asset.Registry
	gpu      *backend.Backend

	viewports []viewport.Viewport

	materials map[string]material.Material

	lightmapProviders  map[int]bindgroup.Provider
	noLightmapProvider bindgroup.Provider

	framePool *uniformPool
	colorPool *uniformPool

	anisotropicFiltering float32
	fullbright           bool
	vsync                bool
	sampleCount          uint32
}

// Renderer is the top-level renderer: the asset registry plus the
// per-frame composer driving the GPU backend (spec §6).
type Renderer interface {
	AddBitmap(path string, p asset.AddBitmapParameter) error
	AddShader(path string, p asset.AddShaderParameter) error
	AddGeometry(path string, p asset.AddGeometryParameter) error
	AddSky(path string, p asset.AddSkyParameter) error
	AddBSP(path string, p asset.AddBSPParameter) error

	SetCurrentBSP(path string) error
	Reset()

	// SetViewports replaces the renderer's configured viewports.
	// len(viewports) must be in [1,4] (spec §6 "number_of_viewports").
	SetViewports(viewports []viewport.Viewport) error

	// SetCamera updates the camera of the viewport at index.
	SetCamera(index int, cam viewport.Camera) error

	// SetFullbright forces every lightmap bind to the no-lightmap
	// fallback regardless of a geometry's declared lightmap index
	// (spec §4.4 step g "or the camera is in fullbright mode").
	SetFullbright(enabled bool)

	// RebuildSwapchain reconfigures the backend's swapchain at a new
	// resolution (spec §6 "rebuild_swapchain").
	RebuildSwapchain(res Resolution) error

	// DrawFrame renders one frame. false means the swapchain is out of
	// date and must be rebuilt before the next call (spec §6
	// "draw_frame").
	DrawFrame() (bool, error)

	Release()
}

var _ Renderer = &renderer{}

// RendererBuilderOption configures optional renderer construction
// parameters (spec §2 "Configuration").
type RendererBuilderOption func(*renderer)

// WithVsync selects FIFO (true) or Immediate (false) present mode
// preference (spec §4.2 step 7).
func WithVsync(enabled bool) RendererBuilderOption {
	return func(r *renderer) { r.vsync = enabled }
}

// WithSampleCount sets the MSAA sample count pipelines are built with
// (spec §4.3 "sample count is build-time configurable").
func WithSampleCount(n uint32) RendererBuilderOption {
	return func(r *renderer) {
		if n == 0 {
			n = 1
		}
		r.sampleCount = n
	}
}

// WithAnisotropicFiltering sets the anisotropy level applied to
// opaque-shader material samplers (spec §9 "Anisotropic filtering").
// A level <= 0 disables it (the default).
func WithAnisotropicFiltering(level float32) RendererBuilderOption {
	return func(r *renderer) { r.anisotropicFiltering = level }
}

// New constructs a Renderer against windowHandle at res, with
// viewportCount viewports (1-4), and builds the GPU backend, pipeline
// catalog, and asset registry behind it (spec §4.2 "Initialization",
// §6 "new").
func New(res Resolution, viewportCount int, windowHandle *backend.SurfaceSource, opts ...RendererBuilderOption) (Renderer, error) {
	if windowHandle == nil {
		panic("renderer: New requires a non-nil window handle")
	}
	if viewportCount < 1 || viewportCount > 4 {
		return nil, rendererr.InvalidDataf("viewport count %d is out of range [1,4]", viewportCount)
	}

	r := &renderer{
		materials:         make(map[string]material.Material),
		lightmapProviders: make(map[int]bindgroup.Provider),
		sampleCount:       1,
		vsync:             true,
	}
	for _, opt := range opts {
		opt(r)
	}

	gpu, err := backend.New(windowHandle, res.Width, res.Height, backend.WithVsync(r.vsync), backend.WithSampleCount(r.sampleCount))
	if err != nil {
		return nil, err
	}
	r.gpu = gpu
	r.registry = asset.NewRegistry(gpu)
	r.viewports = defaultViewports(viewportCount)

	r.framePool = newUniformPool(gpu, gpu.FrameBindGroupLayout(), "frame mvp", 64)
	r.colorPool = newUniformPool(gpu, gpu.ColorBindGroupLayout(), "color box", 16)

	white, err := r.buildFallbackLightmapProvider()
	if err != nil {
		gpu.Release()
		return nil, err
	}
	r.noLightmapProvider = white

	rendererlog.Logger().Info("renderer constructed", "width", res.Width, "height", res.Height, "viewports", viewportCount)
	return r, nil
}

// defaultViewports builds the standard split-screen layout for n
// viewports, consistent with the §4.5 bar placement rules: 1 viewport
// fills the screen, 2 splits top/bottom, 3 is one full-width viewport
// over two bottom-half viewports, 4 is an even quadrant split.
func defaultViewports(n int) []viewport.Viewport {
	full := func(x, y, w, h float32) viewport.Viewport {
		return viewport.Viewport{RelX: x, RelY: y, RelWidth: w, RelHeight: h, Camera: viewport.DefaultCamera()}
	}
	switch n {
	case 1:
		return []viewport.Viewport{full(0, 0, 1, 1)}
	case 2:
		return []viewport.Viewport{full(0, 0, 1, 0.5), full(0, 0.5, 1, 0.5)}
	case 3:
		return []viewport.Viewport{full(0, 0, 1, 0.5), full(0, 0.5, 0.5, 0.5), full(0.5, 0.5, 0.5, 0.5)}
	default:
		return []viewport.Viewport{full(0, 0, 0.5, 0.5), full(0.5, 0, 0.5, 0.5), full(0, 0.5, 0.5, 0.5), full(0.5, 0.5, 0.5, 0.5)}
	}
}

func (r *renderer) AddBitmap(path string, p asset.AddBitmapParameter) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.registry.AddBitmap(path, p)
}

func (r *renderer) AddShader(path string, p asset.AddShaderParameter) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.registry.AddShader(path, p); err != nil {
		return err
	}
	if err := r.buildMaterial(path); err != nil {
		// Keep the registry all-or-nothing: a shader with no material
		// counterpart would otherwise be silently skipped by later BSP
		// draws instead of surfacing this error to the caller.
		r.registry.RemoveShader(path)
		return err
	}
	return nil
}

func (r *renderer) AddGeometry(path string, p asset.AddGeometryParameter) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.registry.AddGeometry(path, p)
}

func (r *renderer) AddSky(path string, p asset.AddSkyParameter) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.registry.AddSky(path, p)
}

func (r *renderer) AddBSP(path string, p asset.AddBSPParameter) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.registry.AddBSP(path, p)
}

func (r *renderer) SetCurrentBSP(path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.registry.SetCurrentBSP(path); err != nil {
		return err
	}
	r.releaseLightmapProviders()
	if path == "" {
		return nil
	}
	bsp, _, _ := r.registry.CurrentBSP()
	return r.buildLightmapProviders(bsp)
}

func (r *renderer) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.registry.Reset()
	r.releaseLightmapProviders()
	for path, m := range r.materials {
		m.Release()
		delete(r.materials, path)
	}
}

func (r *renderer) SetViewports(viewports []viewport.Viewport) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(viewports) < 1 || len(viewports) > 4 {
		return rendererr.InvalidDataf("viewport count %d is out of range [1,4]", len(viewports))
	}
	r.viewports = viewports
	return nil
}

func (r *renderer) SetCamera(index int, cam viewport.Camera) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if index < 0 || index >= len(r.viewports) {
		return rendererr.InvalidDataf("viewport index %d is out of range for %d viewports", index, len(r.viewports))
	}
	r.viewports[index].Camera = cam
	return nil
}

func (r *renderer) SetFullbright(enabled bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fullbright = enabled
}

func (r *renderer) RebuildSwapchain(res Resolution) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.gpu.Rebuild(res.Width, res.Height)
}

func (r *renderer) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.registry.Reset()
	for _, m := range r.materials {
		m.Release()
	}
	r.releaseLightmapProviders()
	if r.noLightmapProvider != nil {
		r.noLightmapProvider.Release()
	}
	if r.framePool != nil {
		r.framePool.release()
	}
	if r.colorPool != nil {
		r.colorPool.release()
	}
	r.gpu.Release()
}
