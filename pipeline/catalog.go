package pipeline

// AllKinds is the closed enumeration of pipeline kinds the catalog
// loads at backend init (spec §4.3).
var AllKinds = []Kind{
	KindSimpleTextureOpaque,
	KindSimpleTextureTransparent,
	KindColorBox,
}

// catalog holds one loaded Pipeline per kind, plus an optional
// cull-disabled override variant for kinds a shader can opt out of
// back-face culling on.
type catalog struct {
	pipelines    map[Kind]Pipeline
	cullDisabled map[Kind]Pipeline
}

// Catalog is the renderer's pipeline catalog: every kind in AllKinds
// is loaded exactly once against the backend's chosen color format and
// a 32-bit float depth format (spec §4.2 step 9).
type Catalog interface {
	// Pipeline returns the loaded pipeline for kind. Panics if kind was
	// never registered — every Kind in AllKinds must be registered
	// before the catalog is used, so a miss here is a backend
	// construction bug, not a caller error.
	Pipeline(kind Kind) Pipeline

	// PipelineCullDisabled returns the cull-disabled override pipeline
	// registered for kind via RegisterCullDisabled, falling back to
	// Pipeline(kind) if no override was registered. wgpu bakes cull
	// mode into the pipeline object, so a shader opting out of
	// back-face culling (spec §4.4 step g) needs a second pipeline
	// object rather than a per-draw state change.
	PipelineCullDisabled(kind Kind) Pipeline

	// Register installs p under its own Kind, replacing any existing
	// entry for that kind.
	Register(p Pipeline)

	// RegisterCullDisabled installs p as the cull-disabled override for
	// its own Kind, replacing any existing override for that kind.
	RegisterCullDisabled(p Pipeline)

	// Release releases every loaded pipeline.
	Release()
}

var _ Catalog = &catalog{}

// NewCatalog constructs an empty Catalog.
func NewCatalog() Catalog {
	return &catalog{
		pipelines:    make(map[Kind]Pipeline),
		cullDisabled: make(map[Kind]Pipeline),
	}
}

func (c *catalog) Pipeline(kind Kind) Pipeline {
	p, ok := c.pipelines[kind]
	if !ok {
		panic("pipeline: catalog has no entry for kind " + kind.String())
	}
	return p
}

func (c *catalog) PipelineCullDisabled(kind Kind) Pipeline {
	if p, ok := c.cullDisabled[kind]; ok {
		return p
	}
	return c.Pipeline(kind)
}

func (c *catalog) Register(p Pipeline) {
	c.pipelines[p.Kind()] = p
}

func (c *catalog) RegisterCullDisabled(p Pipeline) {
	c.cullDisabled[p.Kind()] = p
}

func (c *catalog) Release() {
	for k, p := range c.pipelines {
		p.Release()
		delete(c.pipelines, k)
	}
	for k, p := range c.cullDisabled {
		p.Release()
		delete(c.cullDisabled, k)
	}
}
