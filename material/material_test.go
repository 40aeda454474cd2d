package material

import (
	"testing"

	"github.com/FishAndRips/magellanicus/asset"
	"github.com/FishAndRips/magellanicus/pipeline"
)

func TestPipelineKindFor(t *testing.T) {
	tests := []struct {
		kind asset.ShaderKind
		want pipeline.Kind
	}{
		{asset.ShaderKindEnvironment, pipeline.KindSimpleTextureOpaque},
		{asset.ShaderKindModel, pipeline.KindSimpleTextureOpaque},
		{asset.ShaderKindTransparentChicago, pipeline.KindSimpleTextureTransparent},
		{asset.ShaderKindTransparentGeneric, pipeline.KindSimpleTextureTransparent},
		{asset.ShaderKindTransparentGlass, pipeline.KindSimpleTextureTransparent},
		{asset.ShaderKindTransparentMeter, pipeline.KindSimpleTextureTransparent},
		{asset.ShaderKindTransparentPlasma, pipeline.KindSimpleTextureTransparent},
		{asset.ShaderKindTransparentWater, pipeline.KindSimpleTextureTransparent},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			if got := PipelineKindFor(tt.kind); got != tt.want {
				t.Errorf("PipelineKindFor(%v) = %v, want %v", tt.kind, got, tt.want)
			}
		})
	}
}

func TestNewMaterial_DefaultsToCullBackfaces(t *testing.T) {
	m := NewMaterial(asset.ShaderKindEnvironment)
	mat, ok := m.(*material)
	if !ok || !mat.cullBackfaces {
		t.Error("NewMaterial() default should cull back faces")
	}
}

func TestMaterial_WithCullBackfacesFalse(t *testing.T) {
	m := NewMaterial(asset.ShaderKindEnvironment, WithCullBackfaces(false))
	mat, ok := m.(*material)
	if !ok || mat.cullBackfaces {
		t.Error("WithCullBackfaces(false) did not disable back-face culling on the material")
	}
}

func TestNewMaterial_TracksShaderAndPipelineKind(t *testing.T) {
	m := NewMaterial(asset.ShaderKindTransparentWater)
	if m.ShaderKind() != asset.ShaderKindTransparentWater {
		t.Errorf("ShaderKind() = %v, want TransparentWater", m.ShaderKind())
	}
	if m.PipelineKind() != pipeline.KindSimpleTextureTransparent {
		t.Errorf("PipelineKind() = %v, want KindSimpleTextureTransparent", m.PipelineKind())
	}
	if m.Provider() != nil {
		t.Error("Provider() should be nil before SetProvider is called")
	}
}

func TestMaterial_Release_IsSafeWithoutProvider(t *testing.T) {
	m := NewMaterial(asset.ShaderKindEnvironment)
	m.Release() // must not panic when no provider was ever set
}
