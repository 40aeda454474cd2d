package asset

import "sync"

// Uploader builds the GPU-resident form of a newly validated asset and
// attaches it via the asset's SetGPUHandle method. It is implemented
// by the GPU backend; the registry depends only on this interface so
// the data model never imports GPU-specific types.
type Uploader interface {
	UploadBitmap(path string, b *Bitmap) error
	UploadGeometry(path string, g *Geometry) error
	UploadBSP(path string, b *BSP) error

	ReleaseBitmap(b *Bitmap)
	ReleaseGeometry(g *Geometry)
	ReleaseBSP(b *BSP)
}

// registry is the private implementation backing Registry.
type registry struct {
	mu sync.Mutex

	uploader Uploader

	bitmaps    map[string]*Bitmap
	shaders    map[string]*Shader
	geometries map[string]*Geometry
	skies      map[string]*Sky
	bsps       map[string]*BSP

	currentBSP string // "" means none
}

// Registry is the asset registry: five path-keyed mappings (bitmaps,
// shaders, geometries, skies, BSPs) plus the current-BSP weak
// reference, with synchronous, exhaustive, all-or-nothing validation
// on every insert (spec §4.1).
type Registry interface {
	AddBitmap(path string, p AddBitmapParameter) error
	AddShader(path string, p AddShaderParameter) error
	AddGeometry(path string, p AddGeometryParameter) error
	AddSky(path string, p AddSkyParameter) error
	AddBSP(path string, p AddBSPParameter) error

	// RemoveShader drops a shader inserted via AddShader. It is a no-op
	// if path is not a loaded shader. Used by callers that build
	// out-of-band state (e.g. a GPU material) alongside a shader
	// insertion and must roll the shader back if that later step fails,
	// keeping the overall operation all-or-nothing.
	RemoveShader(path string)

	SetCurrentBSP(path string) error // "" unloads
	CurrentBSP() (*BSP, string, bool)

	Bitmap(path string) (*Bitmap, bool)
	Shader(path string) (*Shader, bool)
	Geometry(path string) (*Geometry, bool)
	Sky(path string) (*Sky, bool)
	BSP(path string) (*BSP, bool)

	Reset()
}

var _ Registry = &registry{}

// NewRegistry constructs an empty Registry backed by uploader for GPU
// residency construction.
//
// Parameters:
//   - uploader: builds and releases the GPU-resident form of assets;
//     must not be nil
func NewRegistry(uploader Uploader) Registry {
	if uploader == nil {
		panic("asset: NewRegistry requires a non-nil Uploader")
	}
	return &registry{
		uploader:   uploader,
		bitmaps:    make(map[string]*Bitmap),
		shaders:    make(map[string]*Shader),
		geometries: make(map[string]*Geometry),
		skies:      make(map[string]*Sky),
		bsps:       make(map[string]*BSP),
	}
}

// anyKeyTaken reports whether path is already a key in any of the five
// mappings — the registry is single-namespace for insertion checks
// (spec §4.1).
func (r *registry) anyKeyTaken(path string) bool {
	if _, ok := r.bitmaps[path]; ok {
		return true
	}
	if _, ok := r.shaders[path]; ok {
		return true
	}
	if _, ok := r.geometries[path]; ok {
		return true
	}
	if _, ok := r.skies[path]; ok {
		return true
	}
	if _, ok := r.bsps[path]; ok {
		return true
	}
	return false
}

func (r *registry) AddBitmap(path string, p AddBitmapParameter) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.anyKeyTaken(path) {
		return alreadyExistsf("%q already exists", path)
	}
	if err := p.validate(); err != nil {
		return err
	}

	b := newBitmap(p)
	if err := r.uploader.UploadBitmap(path, b); err != nil {
		return err
	}
	r.bitmaps[path] = b
	return nil
}

func (r *registry) AddShader(path string, p AddShaderParameter) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.anyKeyTaken(path) {
		return alreadyExistsf("%q already exists", path)
	}

	basePath := p.BaseBitmapPath
	if basePath == "" {
		basePath = FallbackWhiteBitmapPath
	}
	if basePath != FallbackWhiteBitmapPath {
		if _, ok := r.bitmaps[basePath]; !ok {
			return invalidDataf("shader %q base bitmap %q is not loaded", path, basePath)
		}
	}

	s := newShader(p)
	r.shaders[path] = s
	return nil
}

func (r *registry) RemoveShader(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.shaders, path)
}

func (r *registry) AddGeometry(path string, p AddGeometryParameter) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.anyKeyTaken(path) {
		return alreadyExistsf("%q already exists", path)
	}
	if _, ok := r.shaders[p.ShaderPath]; !ok {
		return invalidDataf("geometry %q shader %q is not loaded", path, p.ShaderPath)
	}
	if err := validateVertexParity(p.Vertices, p.TexCoords, p.LightmapTexCoords); err != nil {
		return err
	}

	g := newGeometry(p)
	if err := r.uploader.UploadGeometry(path, g); err != nil {
		return err
	}
	r.geometries[path] = g
	return nil
}

func (r *registry) AddSky(path string, p AddSkyParameter) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.anyKeyTaken(path) {
		return alreadyExistsf("%q already exists", path)
	}
	if p.BitmapPath != nil {
		if _, ok := r.bitmaps[*p.BitmapPath]; !ok {
			return invalidDataf("sky %q bitmap %q is not loaded", path, *p.BitmapPath)
		}
	}
	if p.ModelPath != nil {
		return invalidDataf("sky %q references a model (%q), but model assets are out of scope for this renderer", path, *p.ModelPath)
	}

	r.skies[path] = newSky(p)
	return nil
}

func (r *registry) AddBSP(path string, p AddBSPParameter) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.anyKeyTaken(path) {
		return alreadyExistsf("%q already exists", path)
	}
	if err := r.validateBSPParameter(path, p); err != nil {
		return err
	}

	b := newBSP(p)
	if err := r.uploader.UploadBSP(path, b); err != nil {
		return err
	}
	r.bsps[path] = b
	return nil
}

func (r *registry) validateBSPParameter(path string, p AddBSPParameter) error {
	var lightmapSubBitmapCount int
	if p.LightmapBitmapPath != nil {
		bmp, ok := r.bitmaps[*p.LightmapBitmapPath]
		if !ok {
			return invalidDataf("bsp %q lightmap bitmap %q is not loaded", path, *p.LightmapBitmapPath)
		}
		lightmapSubBitmapCount = len(bmp.SubBitmaps)
	}

	for si, set := range p.LightmapSets {
		if set.LightmapIndex != nil {
			if p.LightmapBitmapPath == nil {
				return invalidDataf("bsp %q lightmap set %d carries a lightmap index but no lightmap bitmap is set", path, si)
			}
			if *set.LightmapIndex < 0 || *set.LightmapIndex >= lightmapSubBitmapCount {
				return invalidDataf("bsp %q lightmap set %d index %d is out of range for %d sub-bitmaps", path, si, *set.LightmapIndex, lightmapSubBitmapCount)
			}
		}
		for mi, mat := range set.Materials {
			if _, ok := r.shaders[mat.ShaderPath]; !ok {
				return invalidDataf("bsp %q lightmap set %d material %d shader %q is not loaded", path, si, mi, mat.ShaderPath)
			}
			if err := validateVertexParity(mat.Vertices, mat.TexCoords, mat.LightmapTexCoords); err != nil {
				return invalidDataf("bsp %q lightmap set %d material %d: %v", path, si, mi, err)
			}
		}
	}
	return nil
}

func (r *registry) SetCurrentBSP(path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if path == "" {
		r.currentBSP = ""
		return nil
	}
	if _, ok := r.bsps[path]; !ok {
		return notFoundf("%q is not a loaded BSP", path)
	}
	r.currentBSP = path
	return nil
}

func (r *registry) CurrentBSP() (*BSP, string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.currentBSP == "" {
		return nil, "", false
	}
	return r.bsps[r.currentBSP], r.currentBSP, true
}

func (r *registry) Bitmap(path string) (*Bitmap, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bitmaps[path]
	return b, ok
}

func (r *registry) Shader(path string) (*Shader, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.shaders[path]
	return s, ok
}

func (r *registry) Geometry(path string) (*Geometry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.geometries[path]
	return g, ok
}

func (r *registry) Sky(path string) (*Sky, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.skies[path]
	return s, ok
}

func (r *registry) BSP(path string) (*BSP, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bsps[path]
	return b, ok
}

// Reset drops all assets and clears the current BSP; infallible (spec
// §4.1). GPU resources are released through the uploader before the
// maps are cleared.
func (r *registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, b := range r.bitmaps {
		r.uploader.ReleaseBitmap(b)
	}
	for _, g := range r.geometries {
		r.uploader.ReleaseGeometry(g)
	}
	for _, b := range r.bsps {
		r.uploader.ReleaseBSP(b)
	}

	r.bitmaps = make(map[string]*Bitmap)
	r.shaders = make(map[string]*Shader)
	r.geometries = make(map[string]*Geometry)
	r.skies = make(map[string]*Sky)
	r.bsps = make(map[string]*BSP)
	r.currentBSP = ""
}
