// Package viewport implements the frame composer's per-viewport state
// (spec §4.4 step 4): a relative screen rectangle paired with a
// camera, used to derive an absolute backbuffer sub-rectangle and a
// left-handed view/projection matrix pair each frame.
package viewport

import "github.com/FishAndRips/magellanicus/mathutil"

// near and far are the fixed clip plane distances every viewport's
// projection matrix is built with (spec §4.4 step 4b).
const (
	near = 0.05
	far  = 2250.0
)

// up is the fixed world-up vector the spec's look-to view matrix is
// built with (spec §4.4 step 4c).
var up = [3]float32{0, 0, -1}

// Camera is the position, forward direction, and field of view driving
// one viewport's view/projection matrices, grounded on
// player_viewport.rs's Camera struct.
type Camera struct {
	// FovY is the vertical field of view in radians.
	FovY float32
	// Position is the camera's world-space position.
	Position [3]float32
	// Forward is the camera's world-space facing direction. Unlike a
	// look-at target, this is a direction, not a point (spec §4.4 step
	// 4c "look-to view matrix").
	Forward [3]float32
}

// DefaultCamera matches the original format's default: a 56-degree
// vertical FoV, positioned at the origin, facing along +Y.
func DefaultCamera() Camera {
	return Camera{
		FovY:     56.0 * (3.14159265 / 180.0),
		Position: [3]float32{0, 0, 0},
		Forward:  [3]float32{0, 1, 0},
	}
}

// Rect is an absolute pixel sub-rectangle of the backbuffer.
type Rect struct {
	X, Y, Width, Height uint32
}

// Viewport is one of the renderer's 1-4 configured viewports: a
// relative screen rectangle plus the camera drawing into it.
type Viewport struct {
	// RelX, RelY, RelWidth, RelHeight are each in [0, 1], expressing
	// this viewport's rectangle as a fraction of the backbuffer.
	RelX, RelY, RelWidth, RelHeight float32

	Camera Camera
}

// Default returns a full-backbuffer viewport with a default camera,
// matching player_viewport.rs's Default impl.
func Default() Viewport {
	return Viewport{
		RelX: 0, RelY: 0, RelWidth: 1, RelHeight: 1,
		Camera: DefaultCamera(),
	}
}

// AbsoluteRect computes this viewport's pixel sub-rectangle of a
// backbufferWidth x backbufferHeight swapchain image (spec §4.4 step
// 4a).
func (v Viewport) AbsoluteRect(backbufferWidth, backbufferHeight uint32) Rect {
	return Rect{
		X:      uint32(v.RelX * float32(backbufferWidth)),
		Y:      uint32(v.RelY * float32(backbufferHeight)),
		Width:  uint32(v.RelWidth * float32(backbufferWidth)),
		Height: uint32(v.RelHeight * float32(backbufferHeight)),
	}
}

// ViewProjection builds this viewport's left-handed view and
// projection matrices for the given pixel rectangle's aspect ratio
// (spec §4.4 steps 4b-4c).
func (v Viewport) ViewProjection(rect Rect) (view, projection mathutil.Mat4) {
	aspect := float32(1)
	if rect.Height > 0 {
		aspect = float32(rect.Width) / float32(rect.Height)
	}
	projection = mathutil.PerspectiveLH(v.Camera.FovY, aspect, near, far)
	view = mathutil.LookToLH(
		v.Camera.Position[0], v.Camera.Position[1], v.Camera.Position[2],
		v.Camera.Forward[0], v.Camera.Forward[1], v.Camera.Forward[2],
		up[0], up[1], up[2],
	)
	return view, projection
}
