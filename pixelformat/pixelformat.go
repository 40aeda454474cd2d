// Package pixelformat describes the fixed set of pixel formats a
// sub-bitmap may carry and the arithmetic needed to validate a
// sub-bitmap's encoded pixel length against its declared resolution
// and mip count.
package pixelformat

// Format is one of the sub-bitmap pixel encodings the registry accepts.
type Format int

const (
	A8 Format = iota
	Y8
	AY8
	A8Y8
	R5G6B5
	A1R5G5B5
	A4R4G4B4
	X8R8G8B8
	A8R8G8B8
	DXT1
	DXT3
	DXT5
	P8
	BC7
)

func (f Format) String() string {
	switch f {
	case A8:
		return "A8"
	case Y8:
		return "Y8"
	case AY8:
		return "AY8"
	case A8Y8:
		return "A8Y8"
	case R5G6B5:
		return "R5G6B5"
	case A1R5G5B5:
		return "A1R5G5B5"
	case A4R4G4B4:
		return "A4R4G4B4"
	case X8R8G8B8:
		return "X8R8G8B8"
	case A8R8G8B8:
		return "A8R8G8B8"
	case DXT1:
		return "DXT1"
	case DXT3:
		return "DXT3"
	case DXT5:
		return "DXT5"
	case P8:
		return "P8"
	case BC7:
		return "BC7"
	default:
		return "Unknown"
	}
}

// blockDim is the side length, in pixels, of one compression block for
// block-compressed formats. Uncompressed formats use a 1x1 "block".
func (f Format) blockDim() int {
	switch f {
	case DXT1, DXT3, DXT5, BC7:
		return 4
	default:
		return 1
	}
}

// BytesPerBlock returns the encoded size of one block of this format:
// one texel for uncompressed formats, one 4x4 tile for block-compressed
// formats.
func (f Format) BytesPerBlock() int {
	switch f {
	case A8, Y8, P8:
		return 1
	case AY8, A8Y8, R5G6B5, A1R5G5B5, A4R4G4B4:
		return 2
	case X8R8G8B8, A8R8G8B8:
		return 4
	case DXT1:
		return 8
	case DXT3, DXT5, BC7:
		return 16
	default:
		return 0
	}
}

// BlockCount returns the number of blocks needed to cover a width x
// height image in this format, rounding partial blocks up.
func (f Format) BlockCount(width, height uint32) int {
	dim := f.blockDim()
	blocksWide := (int(width) + dim - 1) / dim
	blocksHigh := (int(height) + dim - 1) / dim
	if blocksWide < 1 {
		blocksWide = 1
	}
	if blocksHigh < 1 {
		blocksHigh = 1
	}
	return blocksWide * blocksHigh
}

// MipExtent halves width and height for mip level i (0 = base level),
// clamping each axis to a minimum of 1.
func MipExtent(width, height uint32, level int) (uint32, uint32) {
	w, h := width, height
	for i := 0; i < level; i++ {
		if w > 1 {
			w /= 2
		}
		if h > 1 {
			h /= 2
		}
	}
	return w, h
}

// ExpectedPixelLength computes Σ block_count(mip_i) · bytes_per_block
// across mipCount mip levels of a width x height image in format f, per
// the pixel-data layout invariant (spec §6, testable property 4).
func ExpectedPixelLength(f Format, width, height uint32, mipCount int) int {
	if mipCount < 1 {
		mipCount = 1
	}
	total := 0
	bytesPerBlock := f.BytesPerBlock()
	for level := 0; level < mipCount; level++ {
		w, h := MipExtent(width, height, level)
		total += f.BlockCount(w, h) * bytesPerBlock
	}
	return total
}
