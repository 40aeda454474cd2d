package pipeline

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
)

func TestDepthAccessMode_CompareFunction(t *testing.T) {
	tests := []struct {
		mode DepthAccessMode
		want wgpu.CompareFunction
	}{
		{DepthWrite, wgpu.CompareFunctionLessEqual},
		{DepthReadOnly, wgpu.CompareFunctionEqual},
		{DepthReadOnlyTransparent, wgpu.CompareFunctionLessEqual},
		{NoDepth, wgpu.CompareFunctionAlways},
	}
	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			if got := tt.mode.CompareFunction(); got != tt.want {
				t.Errorf("CompareFunction() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDepthAccessMode_WriteEnabled(t *testing.T) {
	tests := []struct {
		mode DepthAccessMode
		want bool
	}{
		{DepthWrite, true},
		{DepthReadOnly, false},
		{DepthReadOnlyTransparent, false},
		{NoDepth, false},
	}
	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			if got := tt.mode.WriteEnabled(); got != tt.want {
				t.Errorf("WriteEnabled() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestKind_DepthAccessMode(t *testing.T) {
	tests := []struct {
		kind Kind
		want DepthAccessMode
	}{
		{KindSimpleTextureOpaque, DepthWrite},
		{KindSimpleTextureTransparent, DepthReadOnlyTransparent},
		{KindColorBox, NoDepth},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			if got := tt.kind.DepthAccessMode(); got != tt.want {
				t.Errorf("DepthAccessMode() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestKind_IsTransparent(t *testing.T) {
	tests := []struct {
		kind Kind
		want bool
	}{
		{KindSimpleTextureOpaque, false},
		{KindSimpleTextureTransparent, true},
		{KindColorBox, false},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			if got := tt.kind.IsTransparent(); got != tt.want {
				t.Errorf("IsTransparent() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestKind_CullMode(t *testing.T) {
	tests := []struct {
		kind Kind
		want wgpu.CullMode
	}{
		{KindSimpleTextureOpaque, wgpu.CullModeBack},
		{KindSimpleTextureTransparent, wgpu.CullModeNone},
		{KindColorBox, wgpu.CullModeNone},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			if got := tt.kind.CullMode(); got != tt.want {
				t.Errorf("CullMode() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewPipeline_DefaultSampleCount(t *testing.T) {
	p := NewPipeline(KindColorBox)
	if got := p.SampleCount(); got != 1 {
		t.Errorf("SampleCount() = %d, want 1", got)
	}
}

func TestNewPipeline_WithSampleCount(t *testing.T) {
	p := NewPipeline(KindColorBox, WithSampleCount(4))
	if got := p.SampleCount(); got != 4 {
		t.Errorf("SampleCount() = %d, want 4", got)
	}
}

func TestNewPipeline_DefaultCullMode(t *testing.T) {
	p := NewPipeline(KindSimpleTextureOpaque)
	if got := p.CullMode(); got != wgpu.CullModeBack {
		t.Errorf("CullMode() = %v, want CullModeBack", got)
	}
}

func TestNewPipeline_WithCullMode(t *testing.T) {
	p := NewPipeline(KindSimpleTextureOpaque, WithCullMode(wgpu.CullModeNone))
	if got := p.CullMode(); got != wgpu.CullModeNone {
		t.Errorf("CullMode() = %v, want CullModeNone", got)
	}
}
