package asset

import (
	"testing"

	"github.com/FishAndRips/magellanicus/pixelformat"
	"github.com/FishAndRips/magellanicus/rendererr"
)

// nopUploader satisfies Uploader without touching any GPU state; it
// lets registry tests exercise validation logic in isolation.
type nopUploader struct{}

func (u *nopUploader) UploadBitmap(string, *Bitmap) error     { return nil }
func (u *nopUploader) UploadGeometry(string, *Geometry) error { return nil }
func (u *nopUploader) UploadBSP(string, *BSP) error            { return nil }
func (u *nopUploader) ReleaseBitmap(*Bitmap)                   {}
func (u *nopUploader) ReleaseGeometry(*Geometry)                {}
func (u *nopUploader) ReleaseBSP(*BSP)                          {}

func newTestRegistry() *registry {
	return NewRegistry(&nopUploader{}).(*registry)
}

func minimalBitmapParam() AddBitmapParameter {
	return AddBitmapParameter{
		SubBitmaps: []SubBitmap{
			{
				Format:   pixelformat.A8,
				Kind:     BitmapKind2D,
				Width:    2,
				Height:   2,
				MipCount: 1,
				Pixels:   []byte{0x00, 0x55, 0xAA, 0xFF},
			},
		},
	}
}

func errKind(t *testing.T, err error) rendererr.Kind {
	t.Helper()
	re, ok := err.(*rendererr.Error)
	if !ok {
		t.Fatalf("error %v is not a *rendererr.Error", err)
	}
	return re.Kind
}

func TestRegistry_AddBitmap(t *testing.T) {
	r := newTestRegistry()

	if err := r.AddBitmap("b", minimalBitmapParam()); err != nil {
		t.Fatalf("AddBitmap() first insert = %v, want nil", err)
	}

	err := r.AddBitmap("b", minimalBitmapParam())
	if err == nil {
		t.Fatal("AddBitmap() second insert = nil, want AlreadyExists")
	}
	if kind := errKind(t, err); kind != rendererr.AlreadyExists {
		t.Errorf("AddBitmap() duplicate error kind = %s, want AlreadyExists", kind)
	}
}

func TestRegistry_AddBitmap_PixelLengthMismatch(t *testing.T) {
	r := newTestRegistry()
	p := minimalBitmapParam()
	p.SubBitmaps[0].Pixels = []byte{0x00, 0x55} // too short

	err := r.AddBitmap("b", p)
	if err == nil {
		t.Fatal("AddBitmap() with mismatched pixel length = nil, want InvalidData")
	}
	if kind := errKind(t, err); kind != rendererr.InvalidData {
		t.Errorf("error kind = %s, want InvalidData", kind)
	}
	if _, ok := r.bitmaps["b"]; ok {
		t.Error("AddBitmap() left a partial insertion after InvalidData")
	}
}

func TestRegistry_AddShader_MissingDependency(t *testing.T) {
	r := newTestRegistry()

	err := r.AddShader("s", AddShaderParameter{Kind: ShaderKindEnvironment, BaseBitmapPath: "missing"})
	if err == nil {
		t.Fatal("AddShader() with missing base bitmap = nil, want InvalidData")
	}
	if kind := errKind(t, err); kind != rendererr.InvalidData {
		t.Errorf("error kind = %s, want InvalidData", kind)
	}
	if _, ok := r.shaders["s"]; ok {
		t.Error("AddShader() left a partial insertion after InvalidData")
	}
}

func TestRegistry_AddShader_FallsBackToDefaultWhite(t *testing.T) {
	r := newTestRegistry()

	if err := r.AddShader("s", AddShaderParameter{Kind: ShaderKindEnvironment}); err != nil {
		t.Fatalf("AddShader() with no base bitmap = %v, want nil (falls back to default white)", err)
	}
	got, ok := r.shaders["s"]
	if !ok {
		t.Fatal("AddShader() did not insert shader")
	}
	if got.BaseBitmapPath != FallbackWhiteBitmapPath {
		t.Errorf("BaseBitmapPath = %q, want %q", got.BaseBitmapPath, FallbackWhiteBitmapPath)
	}
}

func TestRegistry_RemoveShader(t *testing.T) {
	r := newTestRegistry()

	if err := r.AddShader("s", AddShaderParameter{Kind: ShaderKindEnvironment}); err != nil {
		t.Fatalf("AddShader() = %v, want nil", err)
	}
	r.RemoveShader("s")
	if _, ok := r.Shader("s"); ok {
		t.Error("RemoveShader() left the shader in place")
	}

	// Removing an already-absent path must not panic.
	r.RemoveShader("s")
	r.RemoveShader("never-added")
}

func TestRegistry_AddBSP_LightmapIndexOutOfRange(t *testing.T) {
	r := newTestRegistry()
	if err := r.AddBitmap("b", minimalBitmapParam()); err != nil {
		t.Fatalf("AddBitmap() = %v, want nil", err)
	}
	if err := r.AddShader("s", AddShaderParameter{Kind: ShaderKindEnvironment, BaseBitmapPath: "b"}); err != nil {
		t.Fatalf("AddShader() = %v, want nil", err)
	}

	idx := 5
	err := r.AddBSP("m", AddBSPParameter{
		LightmapBitmapPath: ptr("b"),
		LightmapSets: []LightmapSet{
			{
				LightmapIndex: &idx,
				Materials: []BSPMaterialParameter{
					{ShaderPath: "s"},
				},
			},
		},
	})
	if err == nil {
		t.Fatal("AddBSP() with out-of-range lightmap index = nil, want InvalidData")
	}
	if kind := errKind(t, err); kind != rendererr.InvalidData {
		t.Errorf("error kind = %s, want InvalidData", kind)
	}
}

func TestRegistry_SetCurrentBSP_NotFound(t *testing.T) {
	r := newTestRegistry()
	err := r.SetCurrentBSP("nope")
	if err == nil {
		t.Fatal("SetCurrentBSP() on unloaded path = nil, want NotFound")
	}
	if kind := errKind(t, err); kind != rendererr.NotFound {
		t.Errorf("error kind = %s, want NotFound", kind)
	}
}

func TestRegistry_IdempotentReset(t *testing.T) {
	r := newTestRegistry()
	if err := r.AddBitmap("b", minimalBitmapParam()); err != nil {
		t.Fatalf("AddBitmap() = %v, want nil", err)
	}

	r.Reset()
	r.Reset()

	if len(r.bitmaps) != 0 || len(r.shaders) != 0 || len(r.geometries) != 0 || len(r.skies) != 0 || len(r.bsps) != 0 {
		t.Error("Reset() twice left a non-empty registry")
	}
	if r.currentBSP != "" {
		t.Error("Reset() did not clear current BSP")
	}
}

func ptr[T any](v T) *T { return &v }
