package asset

// ShaderKind is the tagged union discriminant over shader behavior.
// Each kind maps to exactly one pipeline kind and transparency flag in
// the material package (spec §4.6, design note "dynamic dispatch over
// shader kinds").
type ShaderKind int

const (
	ShaderKindEnvironment ShaderKind = iota
	ShaderKindModel
	ShaderKindTransparentChicago
	ShaderKindTransparentGeneric
	ShaderKindTransparentGlass
	ShaderKindTransparentMeter
	ShaderKindTransparentPlasma
	ShaderKindTransparentWater
)

func (k ShaderKind) String() string {
	switch k {
	case ShaderKindEnvironment:
		return "Environment"
	case ShaderKindModel:
		return "Model"
	case ShaderKindTransparentChicago:
		return "TransparentChicago"
	case ShaderKindTransparentGeneric:
		return "TransparentGeneric"
	case ShaderKindTransparentGlass:
		return "TransparentGlass"
	case ShaderKindTransparentMeter:
		return "TransparentMeter"
	case ShaderKindTransparentPlasma:
		return "TransparentPlasma"
	case ShaderKindTransparentWater:
		return "TransparentWater"
	default:
		return "Unknown"
	}
}

// IsTransparent reports whether this shader kind belongs to the
// transparent pass (everything except Environment and Model).
func (k ShaderKind) IsTransparent() bool {
	return k != ShaderKindEnvironment && k != ShaderKindModel
}

// FallbackWhiteBitmapPath is substituted for a shader's base bitmap
// dependency when the caller does not supply one (spec §3 "Shader").
// It is always resolvable: the GPU backend owns a default 1x1 white
// image independent of anything in the registry.
const FallbackWhiteBitmapPath = "ui/shell/bitmaps/white"

// Shader is a tagged union over shader kind. It carries the minimum
// data every kind needs: the base diffuse bitmap dependency and the
// kind-specific flags driving pipeline selection and transparency.
type Shader struct {
	Kind                   ShaderKind
	BaseBitmapPath         string
	DisableBackfaceCulling bool // ignored for transparent kinds, which never cull
}

// AddShaderParameter is the caller-supplied description of a shader to
// insert via Registry.AddShader.
type AddShaderParameter struct {
	Kind                   ShaderKind
	BaseBitmapPath         string // optional; empty means FallbackWhiteBitmapPath
	DisableBackfaceCulling bool
}

func newShader(p AddShaderParameter) *Shader {
	path := p.BaseBitmapPath
	if path == "" {
		path = FallbackWhiteBitmapPath
	}
	return &Shader{
		Kind:                   p.Kind,
		BaseBitmapPath:         path,
		DisableBackfaceCulling: p.DisableBackfaceCulling,
	}
}
