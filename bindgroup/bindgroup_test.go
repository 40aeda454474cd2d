package bindgroup

import "testing"

func TestProvider_LabelAndSet(t *testing.T) {
	p := NewProvider("material:rock", SetMaterial)
	if got := p.Label(); got != "material:rock" {
		t.Errorf("Label() = %q, want %q", got, "material:rock")
	}
	if got := p.Set(); got != SetMaterial {
		t.Errorf("Set() = %s, want %s", got, SetMaterial)
	}
}

func TestProvider_SetBufferOnNilMap(t *testing.T) {
	p := &provider{}
	p.SetBuffer(0, nil)
	if _, ok := p.buffers[0]; !ok {
		t.Error("SetBuffer() on a provider with a nil buffer map did not lazily initialize it")
	}
}

func TestProvider_ReleaseIsIdempotent(t *testing.T) {
	p := NewProvider("frame", SetFrame)
	p.Release()
	p.Release()
	if p.BindGroup() != nil || p.BindGroupLayout() != nil {
		t.Error("Release() left stale handles after being called twice")
	}
}

func TestSet_String(t *testing.T) {
	tests := []struct {
		set  Set
		want string
	}{
		{SetFrame, "Frame"},
		{SetMaterial, "Material"},
		{SetLightmap, "Lightmap"},
		{Set(99), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.set.String(); got != tt.want {
			t.Errorf("Set(%d).String() = %q, want %q", tt.set, got, tt.want)
		}
	}
}
