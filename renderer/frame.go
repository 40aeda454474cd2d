package renderer

import (
	"errors"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/FishAndRips/magellanicus/asset"
	"github.com/FishAndRips/magellanicus/common"
	"github.com/FishAndRips/magellanicus/material"
	"github.com/FishAndRips/magellanicus/mathutil"
	"github.com/FishAndRips/magellanicus/pipeline"
	"github.com/FishAndRips/magellanicus/rendererr"
	"github.com/FishAndRips/magellanicus/viewport"
)

// barThicknessLogical is the fixed logical-pixel thickness of a
// split-screen separator bar before resolution scaling (spec §4.5).
const barThicknessLogical = 2

// drawable pairs a flattened BSP geometry with its resolved material,
// so the opaque/transparent partition (spec §4.4 step f) can be built
// once per viewport without repeated registry lookups.
type drawable struct {
	geom *asset.Geometry
	mat  material.Material
}

// DrawFrame implements the frame composer's entry point (spec §4.4).
func (r *renderer) DrawFrame() (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.gpu.BeginFrame(wgpu.Color{R: 0, G: 0, B: 0, A: 1}); err != nil {
		if errors.Is(err, rendererr.SwapchainOutOfDateErr) {
			return false, nil
		}
		return false, err
	}

	r.framePool.reset()
	r.colorPool.reset()

	pass := r.gpu.Pass()
	catalog := r.gpu.Catalog()
	width, height := r.gpu.Extent()

	bsp, _, hasBSP := r.registry.CurrentBSP()
	var opaque, transparent []drawable
	if hasBSP {
		opaque, transparent = r.collectDrawables(bsp)
	}

	for _, vp := range r.viewports {
		rect := vp.AbsoluteRect(width, height)
		pass.SetViewport(float32(rect.X), float32(rect.Y), float32(rect.Width), float32(rect.Height), 0, 1)
		pass.SetScissorRect(rect.X, rect.Y, rect.Width, rect.Height)

		if hasBSP {
			if cluster := bsp.FindCluster(vp.Camera.Position); cluster != nil && cluster.SkyPath != nil {
				if sky, ok := r.registry.Sky(*cluster.SkyPath); ok {
					if err := r.drawColorBox(pass, catalog, sky.FogColorOutdoor, 1); err != nil {
						r.gpu.EndFrame()
						r.gpu.Present()
						return false, err
					}
				}
			}
		}

		view, projection := vp.ViewProjection(rect)
		mvp := mathutil.Mul(projection, view)
		frameBG, err := r.framePool.acquire(common.SliceToBytes(mvp[:]))
		if err != nil {
			r.gpu.EndFrame()
			r.gpu.Present()
			return false, err
		}
		pass.SetBindGroup(0, frameBG, nil)

		r.drawGeometries(pass, catalog, opaque)
		r.drawGeometries(pass, catalog, transparent)
	}

	if len(r.viewports) > 1 {
		if err := r.drawSplitScreenBars(pass, catalog, width, height); err != nil {
			r.gpu.EndFrame()
			r.gpu.Present()
			return false, err
		}
	}

	if err := r.gpu.EndFrame(); err != nil {
		r.gpu.Present()
		return false, err
	}
	r.gpu.Present()
	return true, nil
}

// collectDrawables resolves every flattened BSP geometry to its
// loaded material and partitions the result into opaque and
// transparent draw lists, preserving BSP draw order within each (spec
// §4.4 step f). A geometry whose shader was never registered as a
// material is silently skipped — the registry guarantees the shader
// path resolves, but the renderer only builds a Material once
// AddShader has run.
func (r *renderer) collectDrawables(bsp *asset.BSP) (opaque, transparent []drawable) {
	geoms := bsp.Geometries()
	for i := range geoms {
		g := &geoms[i].Geometry
		m, ok := r.materials[g.ShaderPath]
		if !ok {
			continue
		}
		d := drawable{geom: g, mat: m}
		if m.PipelineKind().IsTransparent() {
			transparent = append(transparent, d)
		} else {
			opaque = append(opaque, d)
		}
	}
	return opaque, transparent
}

// drawGeometries issues the indexed draws for one partition (opaque or
// transparent), rebinding the set-2 lightmap descriptor whenever the
// desired lightmap index changes or the camera is in fullbright mode
// (spec §4.4 step g).
func (r *renderer) drawGeometries(pass *wgpu.RenderPassEncoder, catalog pipeline.Catalog, geometries []drawable) {
	var boundLightmap *int
	bound := false

	for _, d := range geometries {
		wantLightmap := d.geom.LightmapSubBitmap
		if !bound || r.fullbright || !sameLightmapIndex(boundLightmap, wantLightmap) {
			provider := r.lightmapProviderFor(wantLightmap)
			if provider != nil && provider.BindGroup() != nil {
				pass.SetBindGroup(2, provider.BindGroup(), nil)
			}
			boundLightmap = wantLightmap
			bound = true
		}

		vertex, texCoord, lightmapTexCoord, index, indexCount, ok := r.gpu.GeometryBuffers(d.geom)
		if !ok {
			continue
		}
		pass.SetVertexBuffer(0, vertex, 0, wgpu.WholeSize)
		pass.SetVertexBuffer(1, texCoord, 0, wgpu.WholeSize)
		if lightmapTexCoord != nil {
			pass.SetVertexBuffer(2, lightmapTexCoord, 0, wgpu.WholeSize)
		} else {
			// No lightmap UVs: bind the diffuse texcoord buffer a
			// second time so the pipeline's third vertex binding
			// remains satisfied (spec §4.4 step g).
			pass.SetVertexBuffer(2, texCoord, 0, wgpu.WholeSize)
		}
		pass.SetIndexBuffer(index, wgpu.IndexFormatUint16, 0, wgpu.WholeSize)

		d.mat.GenerateCommands(pass, catalog, indexCount)
	}
}

// drawColorBox draws one full-current-viewport-rect ColorBox in the
// given solid color, using an identity MVP and relying on the
// already-set viewport/scissor to target the intended screen
// rectangle (spec §4.4 step d).
func (r *renderer) drawColorBox(pass *wgpu.RenderPassEncoder, catalog pipeline.Catalog, color [3]float32, alpha float32) error {
	identity := mathutil.Identity()
	frameBG, err := r.framePool.acquire(common.SliceToBytes(identity[:]))
	if err != nil {
		return err
	}
	colorData := [4]float32{color[0], color[1], color[2], alpha}
	colorBG, err := r.colorPool.acquire(common.SliceToBytes(colorData[:]))
	if err != nil {
		return err
	}

	p := catalog.Pipeline(pipeline.KindColorBox)
	pass.SetPipeline(p.RenderPipeline())
	pass.SetBindGroup(0, frameBG, nil)
	pass.SetBindGroup(1, colorBG, nil)
	pass.Draw(3, 1, 0, 0)
	return nil
}

// drawSplitScreenBars draws the black separator bars between
// viewports (spec §4.5): a full-width horizontal bar centered at
// y=0.5, and — for more than 2 viewports — a vertical bar at x=0.5
// that is half-height for exactly 3 viewports or full-height for 4.
func (r *renderer) drawSplitScreenBars(pass *wgpu.RenderPassEncoder, catalog pipeline.Catalog, width, height uint32) error {
	scale := float32(1)
	if s := minf(float32(width)/640, float32(height)/480); s > scale {
		scale = s
	}
	thickness := uint32(barThicknessLogical * scale)
	if thickness < 1 {
		thickness = 1
	}

	black := [3]float32{0, 0, 0}

	horizontal := viewport.Rect{
		X:      0,
		Y:      height/2 - thickness/2,
		Width:  width,
		Height: thickness,
	}
	pass.SetViewport(float32(horizontal.X), float32(horizontal.Y), float32(horizontal.Width), float32(horizontal.Height), 0, 1)
	pass.SetScissorRect(horizontal.X, horizontal.Y, horizontal.Width, horizontal.Height)
	if err := r.drawColorBox(pass, catalog, black, 1); err != nil {
		return err
	}

	if len(r.viewports) <= 2 {
		return nil
	}

	var vertical viewport.Rect
	if len(r.viewports) == 3 {
		vertical = viewport.Rect{
			X:      width/2 - thickness/2,
			Y:      height / 2,
			Width:  thickness,
			Height: height - height/2,
		}
	} else {
		vertical = viewport.Rect{
			X:      width/2 - thickness/2,
			Y:      0,
			Width:  thickness,
			Height: height,
		}
	}
	pass.SetViewport(float32(vertical.X), float32(vertical.Y), float32(vertical.Width), float32(vertical.Height), 0, 1)
	pass.SetScissorRect(vertical.X, vertical.Y, vertical.Width, vertical.Height)
	return r.drawColorBox(pass, catalog, black, 1)
}

func sameLightmapIndex(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func minf(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}
