// Package backend implements the GPU backend (spec §4.2): instance,
// surface, and device/queue construction, swapchain configuration and
// rebuild, and the low-level per-frame draw primitives the frame
// composer drives. It also implements asset.Uploader, bridging the
// asset registry's validated data model to GPU-resident textures and
// buffers.
package backend

import (
	"sync"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/FishAndRips/magellanicus/internal/rendererlog"
	"github.com/FishAndRips/magellanicus/pipeline"
	"github.com/FishAndRips/magellanicus/rendererr"
)

const backendName = "Vulkan"

// DepthFormat is the fixed 32-bit float depth format every pipeline
// and swapchain-attached depth view is built against (spec §4.2 step
// 9, §4.4 step 2).
const DepthFormat = wgpu.TextureFormatDepth32Float

// Backend owns the GPU instance, adapter, device, queue, surface, and
// swapchain-dependent resources (depth view, pipeline catalog,
// default sampler and fallback texture). Exactly one Backend exists
// per renderer instance.
type Backend struct {
	mu sync.Mutex

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue
	surface  *wgpu.Surface

	surfaceFormat wgpu.TextureFormat
	width, height uint32

	depthTexture *wgpu.Texture
	depthView    *wgpu.TextureView

	vsync       bool
	sampleCount uint32
	msaaTexture *wgpu.Texture
	msaaView    *wgpu.TextureView

	catalog pipeline.Catalog

	frameLayout    *wgpu.BindGroupLayout
	materialLayout *wgpu.BindGroupLayout
	lightmapLayout *wgpu.BindGroupLayout
	colorLayout    *wgpu.BindGroupLayout

	defaultSampler   *wgpu.Sampler
	defaultWhiteView *wgpu.TextureView

	frameEncoder *wgpu.CommandEncoder
	framePass    *wgpu.RenderPassEncoder
	frameSurface *wgpu.Texture
	frameView    *wgpu.TextureView
}

// SurfaceSource describes the host window surface the backend targets
// (spec §4.2 step 1 "platform surface handle").
type SurfaceSource = wgpu.SurfaceDescriptor

// Option configures a Backend during construction.
type Option func(*Backend)

// WithVsync selects the present mode: FIFO when enabled, Immediate
// when disabled (spec §4.2 step 7 "FIFO if vsync requested else
// Immediate"). Defaults to enabled.
func WithVsync(enabled bool) Option {
	return func(b *Backend) { b.vsync = enabled }
}

// WithSampleCount sets the MSAA sample count the swapchain's color and
// depth attachments, and every pipeline in the catalog, are built
// against (spec §4.3 "sample count is build-time configurable").
// Defaults to 1 (no MSAA).
func WithSampleCount(n uint32) Option {
	return func(b *Backend) {
		if n == 0 {
			n = 1
		}
		b.sampleCount = n
	}
}

// New constructs a Backend: instance, surface, adapter (scored by
// device kind), device and queue, swapchain configuration at
// width/height, and the pipeline catalog loaded against the chosen
// color format and DepthFormat. Any step's failure aborts construction
// with a GraphicsAPIError (spec §4.2 "Failure mode"); there is no
// partial-init state returned to the caller.
func New(source *SurfaceSource, width, height uint32, opts ...Option) (*Backend, error) {
	instance := wgpu.CreateInstance(nil)

	surface := instance.CreateSurface(source)
	if surface == nil {
		instance.Release()
		return nil, rendererr.GraphicsAPIErrorf(backendName, nil, "failed to create presentation surface")
	}

	adapter, err := selectAdapter(instance, surface)
	if err != nil {
		surface.Release()
		instance.Release()
		return nil, rendererr.GraphicsAPIErrorf(backendName, err, "no suitable adapter")
	}

	limits := wgpu.DefaultLimits()
	limits.MaxBindGroups = 8
	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label:          "renderer device",
		RequiredLimits: &wgpu.RequiredLimits{Limits: limits},
	})
	if err != nil {
		adapter.Release()
		surface.Release()
		instance.Release()
		return nil, rendererr.GraphicsAPIErrorf(backendName, err, "device request failed")
	}

	b := &Backend{
		instance:    instance,
		adapter:     adapter,
		device:      device,
		queue:       device.GetQueue(),
		surface:     surface,
		catalog:     pipeline.NewCatalog(),
		vsync:       true,
		sampleCount: 1,
	}
	for _, opt := range opts {
		opt(b)
	}

	if err := b.configureSurface(width, height); err != nil {
		b.Release()
		return nil, err
	}

	if err := b.loadCatalog(); err != nil {
		b.Release()
		return nil, err
	}

	sampler, err := device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:        "default sampler",
		AddressModeU: wgpu.AddressModeRepeat,
		AddressModeV: wgpu.AddressModeRepeat,
		AddressModeW: wgpu.AddressModeRepeat,
		MagFilter:    wgpu.FilterModeLinear,
		MinFilter:    wgpu.FilterModeLinear,
		MaxAnisotropy: 1,
	})
	if err != nil {
		b.Release()
		return nil, rendererr.GraphicsAPIErrorf(backendName, err, "failed to create default sampler")
	}
	b.defaultSampler = sampler

	whiteView, err := b.createSolidColorView([4]byte{0xFF, 0xFF, 0xFF, 0xFF})
	if err != nil {
		b.Release()
		return nil, err
	}
	b.defaultWhiteView = whiteView

	rendererlog.Logger().Info("gpu backend initialized", "width", width, "height", height, "format", b.surfaceFormat)
	return b, nil
}

// deviceTypeScore orders wgpu.AdapterType by the spec's tie-break:
// Discrete > Integrated > Virtual > CPU (spec §4.2 step "device
// selection"). wgpu-native does not distinguish a "virtual GPU" type
// from its generic Unknown bucket, so Unknown is scored where the
// spec's Virtual tier would sit.
func deviceTypeScore(t wgpu.AdapterType) int {
	switch t {
	case wgpu.AdapterTypeDiscreteGPU:
		return 3
	case wgpu.AdapterTypeIntegratedGPU:
		return 2
	case wgpu.AdapterTypeUnknown:
		return 1
	case wgpu.AdapterTypeCPU:
		return 0
	default:
		return 0
	}
}

func selectAdapter(instance *wgpu.Instance, surface *wgpu.Surface) (*wgpu.Adapter, error) {
	candidates := instance.EnumerateAdapters(&wgpu.InstanceEnumerateAdapterOptions{})
	if len(candidates) == 0 {
		adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{CompatibleSurface: surface})
		if err != nil {
			return nil, err
		}
		return adapter, nil
	}

	best := candidates[0]
	bestScore := -1
	for _, c := range candidates {
		info, err := c.GetInfo()
		score := 0
		if err == nil {
			score = deviceTypeScore(info.AdapterType)
		}
		if score > bestScore {
			best = c
			bestScore = score
		}
	}
	return best, nil
}

// presentModeFor selects the present mode per spec §4.2 step 7: FIFO
// if vsync is requested, else Immediate.
func presentModeFor(vsync bool) wgpu.PresentMode {
	if vsync {
		return wgpu.PresentModeFifo
	}
	return wgpu.PresentModeImmediate
}

// configureSurface configures (or reconfigures) the swapchain at the
// given extent and rebuilds the depth view to match (spec §4.2 step
// "swapchain build", "Swapchain rebuild").
func (b *Backend) configureSurface(width, height uint32) error {
	capabilities := b.surface.GetCapabilities(b.adapter)
	if len(capabilities.Formats) == 0 {
		return rendererr.GraphicsAPIErrorf(backendName, nil, "surface reports no supported formats")
	}
	b.surfaceFormat = capabilities.Formats[0]

	presentMode := presentModeFor(b.vsync)

	alphaMode := wgpu.CompositeAlphaModeOpaque
	if len(capabilities.AlphaModes) > 0 {
		alphaMode = capabilities.AlphaModes[0]
	}

	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      b.surfaceFormat,
		Width:       width,
		Height:      height,
		PresentMode: presentMode,
		AlphaMode:   alphaMode,
	})
	b.width, b.height = width, height

	if b.depthView != nil {
		b.depthView.Release()
		b.depthView = nil
	}
	if b.depthTexture != nil {
		b.depthTexture.Release()
		b.depthTexture = nil
	}

	depthTexture, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "depth",
		Size:          wgpu.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   b.sampleCount,
		Dimension:     wgpu.TextureDimension2D,
		Format:        DepthFormat,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		return rendererr.GraphicsAPIErrorf(backendName, err, "failed to create depth texture")
	}
	depthView, err := depthTexture.CreateView(nil)
	if err != nil {
		depthTexture.Release()
		return rendererr.GraphicsAPIErrorf(backendName, err, "failed to create depth view")
	}
	b.depthTexture = depthTexture
	b.depthView = depthView

	if b.msaaView != nil {
		b.msaaView.Release()
		b.msaaView = nil
	}
	if b.msaaTexture != nil {
		b.msaaTexture.Release()
		b.msaaTexture = nil
	}

	if b.sampleCount > 1 {
		msaaTexture, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
			Label:         "msaa color",
			Size:          wgpu.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1},
			MipLevelCount: 1,
			SampleCount:   b.sampleCount,
			Dimension:     wgpu.TextureDimension2D,
			Format:        b.surfaceFormat,
			Usage:         wgpu.TextureUsageRenderAttachment,
		})
		if err != nil {
			return rendererr.GraphicsAPIErrorf(backendName, err, "failed to create msaa color texture")
		}
		msaaView, err := msaaTexture.CreateView(nil)
		if err != nil {
			msaaTexture.Release()
			return rendererr.GraphicsAPIErrorf(backendName, err, "failed to create msaa color view")
		}
		b.msaaTexture = msaaTexture
		b.msaaView = msaaView
	}
	return nil
}

// Rebuild reconfigures the swapchain and depth view at a new extent,
// preserving every other surface setting (spec §4.2 "Swapchain
// rebuild"). Pipelines are resolution-independent and are not
// reloaded.
func (b *Backend) Rebuild(width, height uint32) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.configureSurface(width, height)
}

// SurfaceFormat returns the chosen swapchain color format.
func (b *Backend) SurfaceFormat() wgpu.TextureFormat { return b.surfaceFormat }

// Extent returns the current swapchain width and height.
func (b *Backend) Extent() (uint32, uint32) { return b.width, b.height }

// Catalog returns the loaded pipeline catalog.
func (b *Backend) Catalog() pipeline.Catalog { return b.catalog }

// Device returns the GPU device, for resource construction by
// adjoining packages (materials, viewports).
func (b *Backend) Device() *wgpu.Device { return b.device }

// Queue returns the GPU queue.
func (b *Backend) Queue() *wgpu.Queue { return b.queue }

// DefaultSampler returns the backend's linear-repeat fallback sampler
// (spec §4.2 step 10).
func (b *Backend) DefaultSampler() *wgpu.Sampler { return b.defaultSampler }

// DefaultWhiteView returns the backend's 1x1 white texture view, used
// whenever a material's bitmap dependency falls back (spec §4.6).
func (b *Backend) DefaultWhiteView() *wgpu.TextureView { return b.defaultWhiteView }

// FrameBindGroupLayout returns the shared set-0 (MVP/per-frame) layout.
func (b *Backend) FrameBindGroupLayout() *wgpu.BindGroupLayout { return b.frameLayout }

// MaterialBindGroupLayout returns the shared set-1 texture-material layout.
func (b *Backend) MaterialBindGroupLayout() *wgpu.BindGroupLayout { return b.materialLayout }

// LightmapBindGroupLayout returns the shared set-2 lightmap layout.
func (b *Backend) LightmapBindGroupLayout() *wgpu.BindGroupLayout { return b.lightmapLayout }

// ColorBindGroupLayout returns the shared set-1 solid-color layout used
// by the ColorBox pipeline.
func (b *Backend) ColorBindGroupLayout() *wgpu.BindGroupLayout { return b.colorLayout }

// CreateBindGroup is a thin convenience wrapper so adjoining packages
// (renderer) can build set-1/set-2 descriptor sets without reaching
// into backend-private resource types.
func (b *Backend) CreateBindGroup(desc *wgpu.BindGroupDescriptor) (*wgpu.BindGroup, error) {
	return b.device.CreateBindGroup(desc)
}

// CreateBuffer is a thin convenience wrapper for adjoining packages
// that need to create their own small uniform buffers (e.g. the
// per-frame MVP uniform, the ColorBox solid-color uniform).
func (b *Backend) CreateBuffer(desc *wgpu.BufferDescriptor) (*wgpu.Buffer, error) {
	return b.device.CreateBuffer(desc)
}

// CreateSampler is a thin convenience wrapper so callers can build a
// custom-anisotropy sampler for opaque-shader materials (spec §9
// "Anisotropic filtering").
func (b *Backend) CreateSampler(desc *wgpu.SamplerDescriptor) (*wgpu.Sampler, error) {
	return b.device.CreateSampler(desc)
}

// Release releases every GPU resource the backend owns.
func (b *Backend) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.catalog != nil {
		b.catalog.Release()
	}
	for _, l := range []*wgpu.BindGroupLayout{b.frameLayout, b.materialLayout, b.lightmapLayout, b.colorLayout} {
		if l != nil {
			l.Release()
		}
	}
	b.frameLayout, b.materialLayout, b.lightmapLayout, b.colorLayout = nil, nil, nil, nil
	if b.defaultSampler != nil {
		b.defaultSampler.Release()
		b.defaultSampler = nil
	}
	if b.defaultWhiteView != nil {
		b.defaultWhiteView.Release()
		b.defaultWhiteView = nil
	}
	if b.depthView != nil {
		b.depthView.Release()
		b.depthView = nil
	}
	if b.depthTexture != nil {
		b.depthTexture.Release()
		b.depthTexture = nil
	}
	if b.msaaView != nil {
		b.msaaView.Release()
		b.msaaView = nil
	}
	if b.msaaTexture != nil {
		b.msaaTexture.Release()
		b.msaaTexture = nil
	}
	if b.queue != nil {
		b.queue.Release()
		b.queue = nil
	}
	if b.device != nil {
		b.device.Release()
		b.device = nil
	}
	if b.adapter != nil {
		b.adapter.Release()
		b.adapter = nil
	}
	if b.surface != nil {
		b.surface.Release()
		b.surface = nil
	}
	if b.instance != nil {
		b.instance.Release()
		b.instance = nil
	}
}
