package renderer

import (
	"github.com/cogentcore/webgpu/wgpu"

	"github.com/FishAndRips/magellanicus/backend"
	"github.com/FishAndRips/magellanicus/rendererr"
)

// poolItem is one permanent uniform buffer + bind group pair belonging
// to a uniformPool.
type poolItem struct {
	buffer    *wgpu.Buffer
	bindGroup *wgpu.BindGroup
}

// uniformPool hands out per-draw transient uniform bind groups within
// a frame (the set-0 MVP uniform, the ColorBox set-1 color uniform).
// Because a frame's draws are all recorded before the single end-of-
// frame Submit, two draws that reused the same buffer would both see
// whichever value was written last — so every draw within one frame
// needs its own buffer. Rather than allocate/free one per draw, items
// are grown once and kept permanently, reused call-for-call; the
// command buffer's own lifetime already keeps them alive for the
// submission that references them (spec §5 "GPU memory lifetime").
type uniformPool struct {
	gpu    *backend.Backend
	layout *wgpu.BindGroupLayout
	label  string
	size   uint64

	items []poolItem
	next  int
}

func newUniformPool(gpu *backend.Backend, layout *wgpu.BindGroupLayout, label string, size uint64) *uniformPool {
	return &uniformPool{gpu: gpu, layout: layout, label: label, size: size}
}

// reset returns every item in the pool to the free list for a new
// frame; called once at the start of DrawFrame.
func (p *uniformPool) reset() {
	p.next = 0
}

// acquire returns the bind group for the next free item, having
// written data into its uniform buffer.
func (p *uniformPool) acquire(data []byte) (*wgpu.BindGroup, error) {
	if p.next >= len(p.items) {
		item, err := p.grow()
		if err != nil {
			return nil, err
		}
		p.items = append(p.items, item)
	}
	item := p.items[p.next]
	p.next++
	p.gpu.Queue().WriteBuffer(item.buffer, 0, data)
	return item.bindGroup, nil
}

func (p *uniformPool) grow() (poolItem, error) {
	buf, err := p.gpu.CreateBuffer(&wgpu.BufferDescriptor{
		Label: p.label,
		Size:  p.size,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return poolItem{}, rendererr.GraphicsAPIErrorf("Vulkan", err, "%s: failed to create uniform buffer", p.label)
	}
	bg, err := p.gpu.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  p.label,
		Layout: p.layout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: buf, Size: wgpu.WholeSize},
		},
	})
	if err != nil {
		buf.Release()
		return poolItem{}, rendererr.GraphicsAPIErrorf("Vulkan", err, "%s: failed to create bind group", p.label)
	}
	return poolItem{buffer: buf, bindGroup: bg}, nil
}

func (p *uniformPool) release() {
	for _, item := range p.items {
		if item.bindGroup != nil {
			item.bindGroup.Release()
		}
		if item.buffer != nil {
			item.buffer.Release()
		}
	}
	p.items = nil
	p.next = 0
}
