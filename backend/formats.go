package backend

import (
	"github.com/cogentcore/webgpu/wgpu"

	"github.com/FishAndRips/magellanicus/pixelformat"
)

// textureFormatFor maps a sub-bitmap's declared pixel format to the
// wgpu texture format its GPU-resident texture is created with.
func textureFormatFor(f pixelformat.Format) wgpu.TextureFormat {
	switch f {
	case pixelformat.A8, pixelformat.Y8, pixelformat.P8:
		return wgpu.TextureFormatR8Unorm
	case pixelformat.AY8, pixelformat.A8Y8:
		return wgpu.TextureFormatRG8Unorm
	case pixelformat.R5G6B5, pixelformat.A1R5G5B5, pixelformat.A4R4G4B4:
		// No native 16-bit packed RGB wgpu format; expandPacked16ToRGBA8
		// unpacks these to RGBA8 in writeSubBitmap before upload.
		return wgpu.TextureFormatRGBA8Unorm
	case pixelformat.X8R8G8B8, pixelformat.A8R8G8B8:
		return wgpu.TextureFormatBGRA8Unorm
	case pixelformat.DXT1:
		return wgpu.TextureFormatBC1RGBAUnorm
	case pixelformat.DXT3:
		return wgpu.TextureFormatBC2RGBAUnorm
	case pixelformat.DXT5:
		return wgpu.TextureFormatBC3RGBAUnorm
	case pixelformat.BC7:
		return wgpu.TextureFormatBC7RGBAUnorm
	default:
		return wgpu.TextureFormatRGBA8Unorm
	}
}

// isBlockCompressed reports whether f uploads as a block-compressed
// wgpu texture format, which WriteTexture lays out by compressed block
// rather than by texel.
func isBlockCompressed(f pixelformat.Format) bool {
	switch f {
	case pixelformat.DXT1, pixelformat.DXT3, pixelformat.DXT5, pixelformat.BC7:
		return true
	default:
		return false
	}
}
