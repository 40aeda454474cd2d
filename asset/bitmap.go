package asset

import "github.com/FishAndRips/magellanicus/pixelformat"

// BitmapKind distinguishes how a sub-bitmap's texel data should be
// interpreted by the GPU backend.
type BitmapKind int

const (
	// BitmapKind2D is a flat 2D texture.
	BitmapKind2D BitmapKind = iota
	// BitmapKind3D is a volume texture with a declared depth.
	BitmapKind3D
	// BitmapKindCubemap is a six-face cubemap.
	BitmapKindCubemap
)

// SubBitmap is one mip-chained image within a Bitmap's texture group.
type SubBitmap struct {
	Format   pixelformat.Format
	Kind     BitmapKind
	Width    uint32
	Height   uint32
	Depth    uint32 // only meaningful for BitmapKind3D
	MipCount int
	Pixels   []byte
}

// SpriteFrame is one entry of a Sprites sequence: a sub-bitmap index
// plus its normalized rectangle within that sub-bitmap.
type SpriteFrame struct {
	SubBitmapIndex int
	Top            float32
	Left           float32
	Bottom         float32
	Right          float32
}

// BitmapRange is a Bitmap-range sequence: a contiguous run of
// sub-bitmap indices, used for animation frames.
type BitmapRange struct {
	FirstSubBitmapIndex int
	Count                int
}

// Sequence is a named grouping of a bitmap's sub-bitmaps. Exactly one
// of Sprites or Range is set.
type Sequence struct {
	Sprites []SpriteFrame
	Range   *BitmapRange
}

// Bitmap is a texture group: one or more sub-bitmaps plus the
// sequences that name groupings of them. The registry is the sole
// owner; dependents (Shaders, BSP lightmap references) hold only the
// registry path.
type Bitmap struct {
	SubBitmaps []SubBitmap
	Sequences  []Sequence

	// gpu holds whatever GPU-resident form the backend built for this
	// bitmap (texture views, samplers). Only the backend dereferences
	// its concrete type; the registry treats it as opaque.
	gpu any
}

// GPUHandle returns the backend-assigned GPU-resident form of this
// bitmap, or nil if none has been attached yet.
func (b *Bitmap) GPUHandle() any {
	return b.gpu
}

// SetGPUHandle attaches the backend-assigned GPU-resident form. Called
// exactly once, by the Uploader, while the registry inserts the bitmap.
func (b *Bitmap) SetGPUHandle(h any) {
	b.gpu = h
}

// AddBitmapParameter is the caller-supplied description of a bitmap to
// insert via Registry.AddBitmap.
type AddBitmapParameter struct {
	SubBitmaps []SubBitmap
	Sequences  []Sequence
}

// validate checks the pixel-length invariant (spec §8 property 4) and
// the sequence index-range invariant (spec §3 "Bitmap").
func (p AddBitmapParameter) validate() error {
	if len(p.SubBitmaps) == 0 {
		return invalidDataf("bitmap must have at least one sub-bitmap")
	}
	for i, sb := range p.SubBitmaps {
		want := pixelformat.ExpectedPixelLength(sb.Format, sb.Width, sb.Height, sb.MipCount)
		if len(sb.Pixels) != want {
			return invalidDataf("sub-bitmap %d: pixel data length %d does not match expected %d for format %s, %dx%d, %d mips", i, len(sb.Pixels), want, sb.Format, sb.Width, sb.Height, sb.MipCount)
		}
	}
	for si, seq := range p.Sequences {
		switch {
		case seq.Range != nil:
			last := seq.Range.FirstSubBitmapIndex + seq.Range.Count - 1
			if seq.Range.FirstSubBitmapIndex < 0 || seq.Range.Count < 1 || last >= len(p.SubBitmaps) {
				return invalidDataf("sequence %d: bitmap-range [%d, %d) out of bounds for %d sub-bitmaps", si, seq.Range.FirstSubBitmapIndex, seq.Range.FirstSubBitmapIndex+seq.Range.Count, len(p.SubBitmaps))
			}
		default:
			for fi, frame := range seq.Sprites {
				if frame.SubBitmapIndex < 0 || frame.SubBitmapIndex >= len(p.SubBitmaps) {
					return invalidDataf("sequence %d: sprite frame %d references sub-bitmap index %d, out of range for %d sub-bitmaps", si, fi, frame.SubBitmapIndex, len(p.SubBitmaps))
				}
			}
		}
	}
	return nil
}

func newBitmap(p AddBitmapParameter) *Bitmap {
	return &Bitmap{
		SubBitmaps: p.SubBitmaps,
		Sequences:  p.Sequences,
	}
}
