package pipeline

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
)

func TestCatalog_RegisterAndFetch(t *testing.T) {
	c := NewCatalog()
	p := NewPipeline(KindColorBox)
	c.Register(p)

	got := c.Pipeline(KindColorBox)
	if got != p {
		t.Error("Pipeline() did not return the registered pipeline")
	}
}

func TestCatalog_PipelineMissingKindPanics(t *testing.T) {
	c := NewCatalog()
	defer func() {
		if recover() == nil {
			t.Error("Pipeline() on an unregistered kind did not panic")
		}
	}()
	c.Pipeline(KindSimpleTextureOpaque)
}

func TestCatalog_AllKindsCanBeRegistered(t *testing.T) {
	c := NewCatalog()
	for _, k := range AllKinds {
		c.Register(NewPipeline(k))
	}
	for _, k := range AllKinds {
		if c.Pipeline(k).Kind() != k {
			t.Errorf("Pipeline(%s).Kind() mismatch", k)
		}
	}
}

func TestCatalog_PipelineCullDisabled_FallsBackWithoutOverride(t *testing.T) {
	c := NewCatalog()
	p := NewPipeline(KindSimpleTextureOpaque)
	c.Register(p)

	if got := c.PipelineCullDisabled(KindSimpleTextureOpaque); got != p {
		t.Error("PipelineCullDisabled() without a registered override did not fall back to Pipeline()")
	}
}

func TestCatalog_PipelineCullDisabled_ReturnsRegisteredOverride(t *testing.T) {
	c := NewCatalog()
	c.Register(NewPipeline(KindSimpleTextureOpaque))
	override := NewPipeline(KindSimpleTextureOpaque, WithCullMode(wgpu.CullModeNone))
	c.RegisterCullDisabled(override)

	if got := c.PipelineCullDisabled(KindSimpleTextureOpaque); got != override {
		t.Error("PipelineCullDisabled() did not return the registered override")
	}
	if got := c.Pipeline(KindSimpleTextureOpaque).CullMode(); got != wgpu.CullModeBack {
		t.Error("RegisterCullDisabled() mutated the default pipeline's cull mode")
	}
}
