package asset

// ModelVertex is one vertex of a Geometry's vertex buffer: position
// plus the TBN basis used for normal-mapped shading.
type ModelVertex struct {
	Position [3]float32
	Normal   [3]float32
	Binormal [3]float32
	Tangent  [3]float32
}

// TexCoord is a single UV pair, used for both the diffuse and the
// (optional) lightmap texture coordinate buffers.
type TexCoord struct {
	U, V float32
}

// Triangle is one triangle-list index triple.
type Triangle struct {
	A, B, C uint16
}

// Geometry is a draw unit: a vertex buffer, a parallel texcoord
// buffer, an optional parallel lightmap-texcoord buffer, an index
// buffer, an optional lightmap sub-bitmap index, and the shader to
// apply.
type Geometry struct {
	Vertices           []ModelVertex
	TexCoords          []TexCoord
	LightmapTexCoords  []TexCoord // nil if this geometry has no lightmap UVs
	Indices            []Triangle
	LightmapSubBitmap  *int // nil if unlit / no lightmap bound
	ShaderPath         string

	// gpu holds the backend-assigned vertex/index buffers.
	gpu any
}

// GPUHandle returns the backend-assigned GPU-resident form of this
// geometry, or nil if none has been attached yet.
func (g *Geometry) GPUHandle() any {
	return g.gpu
}

// SetGPUHandle attaches the backend-assigned GPU-resident form.
func (g *Geometry) SetGPUHandle(h any) {
	g.gpu = h
}

// AddGeometryParameter is the caller-supplied description of a
// standalone geometry asset inserted via Registry.AddGeometry.
type AddGeometryParameter struct {
	Vertices          []ModelVertex
	TexCoords         []TexCoord
	LightmapTexCoords []TexCoord
	Indices           []Triangle
	LightmapSubBitmap *int
	ShaderPath        string
}

// validateVertexParity checks the lightmap-parity invariant (spec §8
// property 5) and the texcoord/vertex length consistency required by
// both AddGeometry and BSP material construction.
func validateVertexParity(vertices []ModelVertex, texCoords, lightmapTexCoords []TexCoord) error {
	if len(texCoords) != len(vertices) {
		return invalidDataf("texture coordinate buffer length %d does not match vertex buffer length %d", len(texCoords), len(vertices))
	}
	if lightmapTexCoords != nil && len(lightmapTexCoords) != len(vertices) {
		return invalidDataf("lightmap texture coordinate buffer length %d does not match vertex buffer length %d", len(lightmapTexCoords), len(vertices))
	}
	return nil
}

func newGeometry(p AddGeometryParameter) *Geometry {
	return &Geometry{
		Vertices:          p.Vertices,
		TexCoords:         p.TexCoords,
		LightmapTexCoords: p.LightmapTexCoords,
		Indices:           p.Indices,
		LightmapSubBitmap: p.LightmapSubBitmap,
		ShaderPath:        p.ShaderPath,
	}
}
