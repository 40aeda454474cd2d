package viewport

import "testing"

func TestDefault_FullBackbuffer(t *testing.T) {
	v := Default()
	rect := v.AbsoluteRect(640, 480)
	if rect.X != 0 || rect.Y != 0 || rect.Width != 640 || rect.Height != 480 {
		t.Fatalf("unexpected rect: %+v", rect)
	}
}

func TestAbsoluteRect_QuadrantSplit(t *testing.T) {
	v := Viewport{RelX: 0.5, RelY: 0.5, RelWidth: 0.5, RelHeight: 0.5, Camera: DefaultCamera()}
	rect := v.AbsoluteRect(640, 480)
	if rect.X != 320 || rect.Y != 240 || rect.Width != 320 || rect.Height != 240 {
		t.Fatalf("unexpected rect: %+v", rect)
	}
}

func TestViewProjection_AspectFromRect(t *testing.T) {
	v := Default()
	_, proj := v.ViewProjection(Rect{Width: 800, Height: 600})
	want := float32(800) / float32(600)
	// proj[0] = f/aspect, proj[5] = f; dividing recovers aspect.
	got := proj[5] / proj[0]
	if diff := got - want; diff > 1e-3 || diff < -1e-3 {
		t.Fatalf("aspect mismatch: got %v want %v", got, want)
	}
}

func TestViewProjection_ZeroHeightFallsBackToUnitAspect(t *testing.T) {
	v := Default()
	view, proj := v.ViewProjection(Rect{Width: 100, Height: 0})
	if proj[0] != proj[5] {
		t.Fatalf("expected unit aspect fallback, got proj[0]=%v proj[5]=%v", proj[0], proj[5])
	}
	if view[15] != 1 {
		t.Fatalf("expected valid view matrix, got %+v", view)
	}
}
