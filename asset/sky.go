package asset

// Sky is fog parameters plus an optional model reference. The model
// itself is out of core scope (spec §3 "Sky"): the registry holds no
// model assets, so AddSky rejects any non-nil ModelPath with
// InvalidData. A non-nil BitmapPath must name a loaded bitmap.
type Sky struct {
	FogColorIndoor  [3]float32
	FogColorOutdoor [3]float32
	FogDensity      float32
	ModelPath       *string
	BitmapPath      *string
}

// AddSkyParameter is the caller-supplied description of a sky inserted
// via Registry.AddSky.
type AddSkyParameter struct {
	FogColorIndoor  [3]float32
	FogColorOutdoor [3]float32
	FogDensity      float32
	ModelPath       *string
	BitmapPath      *string
}

func newSky(p AddSkyParameter) *Sky {
	return &Sky{
		FogColorIndoor:  p.FogColorIndoor,
		FogColorOutdoor: p.FogColorOutdoor,
		FogDensity:      p.FogDensity,
		ModelPath:       p.ModelPath,
		BitmapPath:      p.BitmapPath,
	}
}
