package renderer

import "testing"

func TestDefaultViewports_Count(t *testing.T) {
	for n := 1; n <= 4; n++ {
		if got := len(defaultViewports(n)); got != n {
			t.Errorf("defaultViewports(%d) returned %d viewports, want %d", n, got, n)
		}
	}
}

func TestDefaultViewports_CoverFullBackbuffer(t *testing.T) {
	for n := 1; n <= 4; n++ {
		var covered float32
		for _, vp := range defaultViewports(n) {
			covered += vp.RelWidth * vp.RelHeight
		}
		if covered < 0.999 || covered > 1.001 {
			t.Errorf("defaultViewports(%d) covers %.4f of the backbuffer, want 1.0", n, covered)
		}
	}
}

func TestDefaultViewports_ThreeIsFullWidthOverSplitBottom(t *testing.T) {
	vps := defaultViewports(3)
	top := vps[0]
	if top.RelX != 0 || top.RelY != 0 || top.RelWidth != 1 || top.RelHeight != 0.5 {
		t.Errorf("first of 3 viewports = %+v, want a full-width top half", top)
	}
	bottomLeft, bottomRight := vps[1], vps[2]
	if bottomLeft.RelY != 0.5 || bottomRight.RelY != 0.5 {
		t.Error("the remaining two viewports must both start at y=0.5")
	}
	if bottomLeft.RelX == bottomRight.RelX {
		t.Error("the two bottom viewports must occupy distinct horizontal halves")
	}
}

func TestSameLightmapIndex(t *testing.T) {
	a, b := 3, 3
	c := 4
	tests := []struct {
		name string
		a, b *int
		want bool
	}{
		{"both nil", nil, nil, true},
		{"one nil", nil, &a, false},
		{"equal values", &a, &b, true},
		{"different values", &a, &c, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sameLightmapIndex(tt.a, tt.b); got != tt.want {
				t.Errorf("sameLightmapIndex() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMinf(t *testing.T) {
	if got := minf(1.5, 2.5); got != 1.5 {
		t.Errorf("minf(1.5, 2.5) = %v, want 1.5", got)
	}
	if got := minf(3, 2); got != 2 {
		t.Errorf("minf(3, 2) = %v, want 2", got)
	}
}
