package backend

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/FishAndRips/magellanicus/pixelformat"
)

func TestDeviceTypeScore_TieBreakOrder(t *testing.T) {
	tests := []struct {
		name string
		kind wgpu.AdapterType
		want int
	}{
		{"discrete", wgpu.AdapterTypeDiscreteGPU, 3},
		{"integrated", wgpu.AdapterTypeIntegratedGPU, 2},
		{"unknown stands in for virtual", wgpu.AdapterTypeUnknown, 1},
		{"cpu", wgpu.AdapterTypeCPU, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := deviceTypeScore(tt.kind); got != tt.want {
				t.Errorf("deviceTypeScore(%v) = %d, want %d", tt.kind, got, tt.want)
			}
		})
	}

	if deviceTypeScore(wgpu.AdapterTypeDiscreteGPU) <= deviceTypeScore(wgpu.AdapterTypeIntegratedGPU) {
		t.Error("discrete GPU must outrank integrated GPU")
	}
	if deviceTypeScore(wgpu.AdapterTypeIntegratedGPU) <= deviceTypeScore(wgpu.AdapterTypeUnknown) {
		t.Error("integrated GPU must outrank the virtual-GPU stand-in")
	}
	if deviceTypeScore(wgpu.AdapterTypeUnknown) <= deviceTypeScore(wgpu.AdapterTypeCPU) {
		t.Error("virtual-GPU stand-in must outrank CPU")
	}
}

func TestBlockDimFor(t *testing.T) {
	if got := blockDimFor(pixelformat.A8); got != 1 {
		t.Errorf("blockDimFor(A8) = %d, want 1", got)
	}
	if got := blockDimFor(pixelformat.DXT1); got != 4 {
		t.Errorf("blockDimFor(DXT1) = %d, want 4", got)
	}
}

func TestPresentModeFor(t *testing.T) {
	if got := presentModeFor(true); got != wgpu.PresentModeFifo {
		t.Errorf("presentModeFor(true) = %v, want PresentModeFifo", got)
	}
	if got := presentModeFor(false); got != wgpu.PresentModeImmediate {
		t.Errorf("presentModeFor(false) = %v, want PresentModeImmediate", got)
	}
}

func TestNeedsPacked16Expansion(t *testing.T) {
	tests := []struct {
		format pixelformat.Format
		want   bool
	}{
		{pixelformat.R5G6B5, true},
		{pixelformat.A1R5G5B5, true},
		{pixelformat.A4R4G4B4, true},
		{pixelformat.A8, false},
		{pixelformat.DXT1, false},
	}
	for _, tt := range tests {
		if got := needsPacked16Expansion(tt.format); got != tt.want {
			t.Errorf("needsPacked16Expansion(%v) = %v, want %v", tt.format, got, tt.want)
		}
	}
}

func TestExpandPacked16ToRGBA8_R5G6B5(t *testing.T) {
	// Pure red: R=31, G=0, B=0 -> bits 15-11 set.
	v := uint16(0x1F) << 11
	pixels := []byte{byte(v), byte(v >> 8)}

	got := expandPacked16ToRGBA8(pixels, pixelformat.R5G6B5, 1, 1)
	want := []byte{255, 0, 0, 255}
	if len(got) != 4 || got[0] != want[0] || got[1] != want[1] || got[2] != want[2] || got[3] != want[3] {
		t.Errorf("expandPacked16ToRGBA8(pure red R5G6B5) = %v, want %v", got, want)
	}
}

func TestExpandPacked16ToRGBA8_A1R5G5B5(t *testing.T) {
	// Alpha set, pure blue: bit15=1, B=31.
	v := uint16(1)<<15 | uint16(0x1F)
	pixels := []byte{byte(v), byte(v >> 8)}

	got := expandPacked16ToRGBA8(pixels, pixelformat.A1R5G5B5, 1, 1)
	want := []byte{0, 0, 255, 255}
	if len(got) != 4 || got[0] != want[0] || got[1] != want[1] || got[2] != want[2] || got[3] != want[3] {
		t.Errorf("expandPacked16ToRGBA8(A1R5G5B5) = %v, want %v", got, want)
	}
}

func TestExpandPacked16ToRGBA8_A4R4G4B4_Transparent(t *testing.T) {
	// Zero alpha nibble, pure green.
	v := uint16(0xF) << 4
	pixels := []byte{byte(v), byte(v >> 8)}

	got := expandPacked16ToRGBA8(pixels, pixelformat.A4R4G4B4, 1, 1)
	want := []byte{0, 255, 0, 0}
	if len(got) != 4 || got[0] != want[0] || got[1] != want[1] || got[2] != want[2] || got[3] != want[3] {
		t.Errorf("expandPacked16ToRGBA8(A4R4G4B4 transparent) = %v, want %v", got, want)
	}
}
