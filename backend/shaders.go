package backend

// simpleTextureWGSL implements the SimpleTexture pipeline kind: opaque
// and transparent 3D geometry with an optional lightmap sample (spec
// §4.3 "Pipeline kinds"). The vertex buffer layout mirrors
// asset.ModelVertex, asset.TexCoord (diffuse), and asset.TexCoord
// (lightmap) bound as three separate per-vertex buffers, matching the
// frame composer's draw-time binding convention (spec §4.4 step g).
const simpleTextureWGSL = `
struct FrameUniform {
    mvp: mat4x4<f32>,
};
@group(0) @binding(0) var<uniform> frame: FrameUniform;

@group(1) @binding(0) var materialSampler: sampler;
@group(1) @binding(1) var materialTexture: texture_2d<f32>;

@group(2) @binding(0) var lightmapSampler: sampler;
@group(2) @binding(1) var lightmapTexture: texture_2d<f32>;

struct VertexInput {
    @location(0) position: vec3<f32>,
    @location(1) normal: vec3<f32>,
    @location(2) binormal: vec3<f32>,
    @location(3) tangent: vec3<f32>,
    @location(4) texcoord: vec2<f32>,
    @location(5) lightmap_texcoord: vec2<f32>,
};

struct VertexOutput {
    @builtin(position) position: vec4<f32>,
    @location(0) texcoord: vec2<f32>,
    @location(1) lightmap_texcoord: vec2<f32>,
};

@vertex
fn vs_main(in: VertexInput) -> VertexOutput {
    var out: VertexOutput;
    out.position = frame.mvp * vec4<f32>(in.position, 1.0);
    out.texcoord = in.texcoord;
    out.lightmap_texcoord = in.lightmap_texcoord;
    return out;
}

@fragment
fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
    let base = textureSample(materialTexture, materialSampler, in.texcoord);
    let lightmap = textureSample(lightmapTexture, lightmapSampler, in.lightmap_texcoord);
    return vec4<f32>(base.rgb * lightmap.rgb, base.a);
}
`

// colorBoxWGSL implements the ColorBox pipeline kind: a full-viewport
// or screen-rect solid color, used for the sky/fog background box and
// the split-screen separator bars (spec §4.3, §4.5). It draws a single
// oversized triangle rather than a dedicated vertex buffer; the
// composer binds an identity set-0 MVP and selects the target screen
// rectangle with the pass's viewport and scissor rect.
const colorBoxWGSL = `
struct FrameUniform {
    mvp: mat4x4<f32>,
};
@group(0) @binding(0) var<uniform> frame: FrameUniform;

struct MaterialUniform {
    color: vec4<f32>,
};
@group(1) @binding(0) var<uniform> material: MaterialUniform;

struct VertexOutput {
    @builtin(position) position: vec4<f32>,
};

@vertex
fn vs_main(@builtin(vertex_index) index: u32) -> VertexOutput {
    var positions = array<vec2<f32>, 3>(
        vec2<f32>(-1.0, -1.0),
        vec2<f32>(3.0, -1.0),
        vec2<f32>(-1.0, 3.0),
    );
    var out: VertexOutput;
    out.position = frame.mvp * vec4<f32>(positions[index], 0.0, 1.0);
    return out;
}

@fragment
fn fs_main() -> @location(0) vec4<f32> {
    return material.color;
}
`
