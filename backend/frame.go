package backend

import (
	"github.com/cogentcore/webgpu/wgpu"

	"github.com/FishAndRips/magellanicus/rendererr"
)

// BeginFrame acquires the next swapchain image and opens a command
// encoder and render pass against it, clearing the color attachment to
// clearColor and the depth attachment to 1.0 (spec §4.4 step 1-2). A
// failed acquire is reported as SwapchainOutOfDate: the caller is
// expected to call Rebuild and retry (spec §4.2 "Swapchain rebuild").
func (b *Backend) BeginFrame(clearColor wgpu.Color) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frameSurface != nil {
		return rendererr.InvalidDataf("BeginFrame called while a previous frame is still open")
	}

	surfaceTexture, err := b.surface.GetCurrentTexture()
	if err != nil {
		return rendererr.SwapchainOutOfDateErr
	}

	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		surfaceTexture.Release()
		return rendererr.GraphicsAPIErrorf(backendName, err, "failed to create swapchain texture view")
	}

	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		view.Release()
		surfaceTexture.Release()
		return rendererr.GraphicsAPIErrorf(backendName, err, "failed to create command encoder")
	}

	colorAttachment := wgpu.RenderPassColorAttachment{
		View:       view,
		LoadOp:     wgpu.LoadOpClear,
		StoreOp:    wgpu.StoreOpStore,
		ClearValue: clearColor,
	}
	if b.sampleCount > 1 {
		// swapchain views are always sample-count 1; render into the
		// MSAA texture and resolve into the swapchain view on end
		// (spec §4.3 "sample count is build-time configurable").
		colorAttachment.View = b.msaaView
		colorAttachment.ResolveTarget = view
		colorAttachment.StoreOp = wgpu.StoreOpDiscard
	}

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments:       []wgpu.RenderPassColorAttachment{colorAttachment},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:              b.depthView,
			DepthLoadOp:       wgpu.LoadOpClear,
			DepthStoreOp:      wgpu.StoreOpStore,
			DepthClearValue:   1.0,
			DepthReadOnly:     false,
		},
	})

	b.frameEncoder = encoder
	b.framePass = pass
	b.frameSurface = surfaceTexture
	b.frameView = view
	return nil
}

// Pass returns the currently open render pass encoder, or nil if no
// frame is open. The frame composer issues its per-viewport scissor
// and set-0 bind group calls, and each material's draw commands,
// directly against this pass (spec §4.4 steps 3-6).
func (b *Backend) Pass() *wgpu.RenderPassEncoder {
	return b.framePass
}

// EndFrame closes the render pass, submits the command buffer, and
// releases the encoder. The swapchain image itself is released by
// Present, not here, so a failed submit still leaves the acquired
// image in a defined state.
func (b *Backend) EndFrame() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.framePass == nil {
		return rendererr.InvalidDataf("EndFrame called with no open frame")
	}
	b.framePass.End()

	commandBuffer, err := b.frameEncoder.Finish(nil)
	b.frameEncoder.Release()
	b.frameEncoder = nil
	b.framePass = nil
	if err != nil {
		return rendererr.GraphicsAPIErrorf(backendName, err, "failed to finish command encoder")
	}

	b.queue.Submit(commandBuffer)
	commandBuffer.Release()
	return nil
}

// Present presents the acquired swapchain image and releases the
// frame's view and surface texture (spec §4.4 step 7). A no-op if no
// frame is currently acquired.
func (b *Backend) Present() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frameSurface == nil {
		return
	}
	b.surface.Present()

	b.frameView.Release()
	b.frameView = nil
	b.frameSurface.Release()
	b.frameSurface = nil
}
