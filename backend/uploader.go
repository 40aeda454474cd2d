package backend

import (
	"github.com/cogentcore/webgpu/wgpu"

	"github.com/FishAndRips/magellanicus/asset"
	"github.com/FishAndRips/magellanicus/common"
	"github.com/FishAndRips/magellanicus/pixelformat"
	"github.com/FishAndRips/magellanicus/rendererr"
)

var _ asset.Uploader = &Backend{}

// bitmapGPU is the GPU-resident form of an asset.Bitmap: one texture
// and view per sub-bitmap, in SubBitmaps order.
type bitmapGPU struct {
	textures []*wgpu.Texture
	views    []*wgpu.TextureView
}

// geometryGPU is the GPU-resident form of an asset.Geometry: a vertex
// buffer (ModelVertex), a diffuse texcoord buffer, an optional
// lightmap texcoord buffer, and an index buffer (spec §4.4 step g
// vertex-buffer binding convention).
type geometryGPU struct {
	vertexBuffer   *wgpu.Buffer
	texCoordBuffer *wgpu.Buffer
	lightmapBuffer *wgpu.Buffer // nil if the geometry has no lightmap UVs
	indexBuffer    *wgpu.Buffer
	indexCount     uint32
}

func textureDimensionFor(kind asset.BitmapKind) wgpu.TextureDimension {
	if kind == asset.BitmapKind3D {
		return wgpu.TextureDimension3D
	}
	return wgpu.TextureDimension2D
}

// UploadBitmap builds one GPU texture per sub-bitmap, writing each mip
// level's already-validated pixel data (spec §8 property 4 guarantees
// the byte lengths line up with the format's block layout).
func (b *Backend) UploadBitmap(path string, bmp *asset.Bitmap) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	gpu := &bitmapGPU{}
	for i, sb := range bmp.SubBitmaps {
		layers := uint32(1)
		depth := uint32(1)
		switch sb.Kind {
		case asset.BitmapKindCubemap:
			layers = 6
		case asset.BitmapKind3D:
			depth = sb.Depth
			if depth == 0 {
				depth = 1
			}
		}

		format := textureFormatFor(sb.Format)
		mipCount := sb.MipCount
		if mipCount < 1 {
			mipCount = 1
		}

		tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
			Label: "bitmap",
			Usage: wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
			Size: wgpu.Extent3D{
				Width:              sb.Width,
				Height:             sb.Height,
				DepthOrArrayLayers: depth * layers,
			},
			Dimension:     textureDimensionFor(sb.Kind),
			Format:        format,
			MipLevelCount: uint32(mipCount),
			SampleCount:   1,
		})
		if err != nil {
			gpu.release()
			return rendererr.GraphicsAPIErrorf(backendName, err, "bitmap %q sub-bitmap %d: failed to create texture", path, i)
		}
		gpu.textures = append(gpu.textures, tex)

		if err := writeSubBitmap(b.queue, tex, sb, mipCount); err != nil {
			gpu.release()
			return rendererr.GraphicsAPIErrorf(backendName, err, "bitmap %q sub-bitmap %d: failed to write pixel data", path, i)
		}

		dimension := wgpu.TextureViewDimension2D
		if sb.Kind == asset.BitmapKindCubemap {
			dimension = wgpu.TextureViewDimensionCube
		} else if sb.Kind == asset.BitmapKind3D {
			dimension = wgpu.TextureViewDimension3D
		}
		view, err := tex.CreateView(&wgpu.TextureViewDescriptor{
			Format:    format,
			Dimension: dimension,
		})
		if err != nil {
			gpu.release()
			return rendererr.GraphicsAPIErrorf(backendName, err, "bitmap %q sub-bitmap %d: failed to create view", path, i)
		}
		gpu.views = append(gpu.views, view)
	}

	bmp.SetGPUHandle(gpu)
	return nil
}

// writeSubBitmap uploads every mip level of a sub-bitmap, computing
// each level's byte offset and extent the same way
// pixelformat.ExpectedPixelLength validates the total (spec §8
// property 4). R5G6B5/A1R5G5B5/A4R4G4B4 are packed 16-bit formats with
// no native wgpu equivalent; textureFormatFor maps them to RGBA8, so
// their packed texel data is expanded here before the write.
func writeSubBitmap(queue *wgpu.Queue, tex *wgpu.Texture, sb asset.SubBitmap, mipCount int) error {
	expand := needsPacked16Expansion(sb.Format)

	offset := 0
	for level := 0; level < mipCount; level++ {
		w, h := pixelformat.MipExtent(sb.Width, sb.Height, level)
		blockCount := sb.Format.BlockCount(w, h)
		levelBytes := blockCount * sb.Format.BytesPerBlock()
		if offset+levelBytes > len(sb.Pixels) {
			return rendererr.InvalidDataf("mip level %d exceeds available pixel data", level)
		}

		data := sb.Pixels[offset : offset+levelBytes]
		bytesPerRow := uint32(0)
		if expand {
			data = expandPacked16ToRGBA8(data, sb.Format, w, h)
			bytesPerRow = w * 4
		} else {
			blocksWide := (int(w) + blockDimFor(sb.Format) - 1) / blockDimFor(sb.Format)
			if blocksWide < 1 {
				blocksWide = 1
			}
			bytesPerRow = uint32(blocksWide * sb.Format.BytesPerBlock())
		}

		queue.WriteTexture(
			&wgpu.ImageCopyTexture{Texture: tex, MipLevel: uint32(level), Aspect: wgpu.TextureAspectAll},
			data,
			&wgpu.TextureDataLayout{BytesPerRow: bytesPerRow, RowsPerImage: h},
			&wgpu.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
		)
		offset += levelBytes
	}
	return nil
}

// needsPacked16Expansion reports whether f is one of the packed
// 16-bit formats wgpu has no native texture format for, requiring
// expandPacked16ToRGBA8 before upload.
func needsPacked16Expansion(f pixelformat.Format) bool {
	switch f {
	case pixelformat.R5G6B5, pixelformat.A1R5G5B5, pixelformat.A4R4G4B4:
		return true
	default:
		return false
	}
}

// expandPacked16ToRGBA8 unpacks a little-endian uint16-per-texel
// packed buffer (R5G6B5, A1R5G5B5, or A4R4G4B4) into 4-bytes/texel
// RGBA8 data, scaling each channel to the 0-255 range.
func expandPacked16ToRGBA8(pixels []byte, format pixelformat.Format, width, height uint32) []byte {
	texelCount := int(width) * int(height)
	out := make([]byte, texelCount*4)
	for i := 0; i < texelCount; i++ {
		lo, hi := pixels[i*2], pixels[i*2+1]
		v := uint16(lo) | uint16(hi)<<8

		var r, g, b, a byte
		switch format {
		case pixelformat.R5G6B5:
			r = scaleChannel(uint32(v>>11)&0x1F, 31)
			g = scaleChannel(uint32(v>>5)&0x3F, 63)
			b = scaleChannel(uint32(v)&0x1F, 31)
			a = 0xFF
		case pixelformat.A1R5G5B5:
			a = scaleChannel(uint32(v>>15)&0x1, 1)
			r = scaleChannel(uint32(v>>10)&0x1F, 31)
			g = scaleChannel(uint32(v>>5)&0x1F, 31)
			b = scaleChannel(uint32(v)&0x1F, 31)
		case pixelformat.A4R4G4B4:
			a = scaleChannel(uint32(v>>12)&0xF, 15)
			r = scaleChannel(uint32(v>>8)&0xF, 15)
			g = scaleChannel(uint32(v>>4)&0xF, 15)
			b = scaleChannel(uint32(v)&0xF, 15)
		}
		out[i*4+0] = r
		out[i*4+1] = g
		out[i*4+2] = b
		out[i*4+3] = a
	}
	return out
}

// scaleChannel scales a v-bit channel value (max maxVal) to the 0-255
// range.
func scaleChannel(v, maxVal uint32) byte {
	return byte(v * 255 / maxVal)
}

// blockDimFor mirrors pixelformat's private block-dimension lookup
// (4 for the block-compressed formats, 1 otherwise) so the row pitch
// computed here matches ExpectedPixelLength's layout exactly.
func blockDimFor(f pixelformat.Format) int {
	if isBlockCompressed(f) {
		return 4
	}
	return 1
}

func (g *bitmapGPU) release() {
	for _, v := range g.views {
		if v != nil {
			v.Release()
		}
	}
	for _, t := range g.textures {
		if t != nil {
			t.Release()
		}
	}
}

// ReleaseBitmap releases every sub-bitmap's GPU texture and view.
func (b *Backend) ReleaseBitmap(bmp *asset.Bitmap) {
	if gpu, ok := bmp.GPUHandle().(*bitmapGPU); ok && gpu != nil {
		gpu.release()
	}
}

// UploadGeometry builds the vertex, texcoord, optional lightmap
// texcoord, and index buffers for a standalone geometry asset.
func (b *Backend) UploadGeometry(path string, g *asset.Geometry) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	gpu, err := b.buildGeometryGPU(path, g)
	if err != nil {
		return err
	}
	g.SetGPUHandle(gpu)
	return nil
}

func (b *Backend) buildGeometryGPU(path string, g *asset.Geometry) (*geometryGPU, error) {
	gpu := &geometryGPU{indexCount: uint32(len(g.Indices) * 3)}

	vertexData := common.SliceToBytes(g.Vertices)
	vbuf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "geometry vertex", Size: uint64(len(vertexData)),
		Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, rendererr.GraphicsAPIErrorf(backendName, err, "geometry %q: failed to create vertex buffer", path)
	}
	b.queue.WriteBuffer(vbuf, 0, vertexData)
	gpu.vertexBuffer = vbuf

	texData := common.SliceToBytes(g.TexCoords)
	tbuf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "geometry texcoord", Size: uint64(len(texData)),
		Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		gpu.release()
		return nil, rendererr.GraphicsAPIErrorf(backendName, err, "geometry %q: failed to create texcoord buffer", path)
	}
	b.queue.WriteBuffer(tbuf, 0, texData)
	gpu.texCoordBuffer = tbuf

	if g.LightmapTexCoords != nil {
		lmData := common.SliceToBytes(g.LightmapTexCoords)
		lbuf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: "geometry lightmap texcoord", Size: uint64(len(lmData)),
			Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			gpu.release()
			return nil, rendererr.GraphicsAPIErrorf(backendName, err, "geometry %q: failed to create lightmap texcoord buffer", path)
		}
		b.queue.WriteBuffer(lbuf, 0, lmData)
		gpu.lightmapBuffer = lbuf
	}

	indexData := common.SliceToBytes(g.Indices)
	ibuf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "geometry index", Size: uint64(len(indexData)),
		Usage: wgpu.BufferUsageIndex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		gpu.release()
		return nil, rendererr.GraphicsAPIErrorf(backendName, err, "geometry %q: failed to create index buffer", path)
	}
	b.queue.WriteBuffer(ibuf, 0, indexData)
	gpu.indexBuffer = ibuf

	return gpu, nil
}

func (g *geometryGPU) release() {
	if g.vertexBuffer != nil {
		g.vertexBuffer.Release()
	}
	if g.texCoordBuffer != nil {
		g.texCoordBuffer.Release()
	}
	if g.lightmapBuffer != nil {
		g.lightmapBuffer.Release()
	}
	if g.indexBuffer != nil {
		g.indexBuffer.Release()
	}
}

// ReleaseGeometry releases a standalone geometry's GPU buffers.
func (b *Backend) ReleaseGeometry(g *asset.Geometry) {
	if gpu, ok := g.GPUHandle().(*geometryGPU); ok && gpu != nil {
		gpu.release()
	}
}

// UploadBSP builds the vertex/texcoord/index buffers for every
// flattened BSPGeometry in draw order (spec §4.1 "BSP"). Geometries()
// shares the BSP's backing array, so attaching a handle to an indexed
// element mutates the BSP in place.
func (b *Backend) UploadBSP(path string, bsp *asset.BSP) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	geometries := bsp.Geometries()
	built := make([]*geometryGPU, 0, len(geometries))
	for i := range geometries {
		gpu, err := b.buildGeometryGPU(path, &geometries[i].Geometry)
		if err != nil {
			for _, done := range built {
				done.release()
			}
			return err
		}
		geometries[i].Geometry.SetGPUHandle(gpu)
		built = append(built, gpu)
	}
	return nil
}

// ReleaseBSP releases every flattened geometry's GPU buffers.
func (b *Backend) ReleaseBSP(bsp *asset.BSP) {
	for _, g := range bsp.Geometries() {
		if gpu, ok := g.GPUHandle().(*geometryGPU); ok && gpu != nil {
			gpu.release()
		}
	}
}

// BitmapView returns the GPU texture view backend built for a
// bitmap's sub-bitmap index, or false if the bitmap carries no GPU
// handle or the index is out of range. The returned view is borrowed:
// it is owned by the bitmap's upload and is released only through
// ReleaseBitmap, never by a caller that binds it into a material.
func (b *Backend) BitmapView(bmp *asset.Bitmap, subBitmapIndex int) (*wgpu.TextureView, bool) {
	gpu, ok := bmp.GPUHandle().(*bitmapGPU)
	if !ok || gpu == nil || subBitmapIndex < 0 || subBitmapIndex >= len(gpu.views) {
		return nil, false
	}
	return gpu.views[subBitmapIndex], true
}

// GeometryBuffers returns the GPU vertex/texcoord/lightmap-texcoord/
// index buffers backend built for a geometry, plus its index count.
// The lightmap texcoord buffer is nil if the geometry has none. All
// returned buffers are borrowed: owned by the geometry's upload.
func (b *Backend) GeometryBuffers(g *asset.Geometry) (vertex, texCoord, lightmapTexCoord, index *wgpu.Buffer, indexCount uint32, ok bool) {
	gpu, isOk := g.GPUHandle().(*geometryGPU)
	if !isOk || gpu == nil {
		return nil, nil, nil, nil, 0, false
	}
	return gpu.vertexBuffer, gpu.texCoordBuffer, gpu.lightmapBuffer, gpu.indexBuffer, gpu.indexCount, true
}
