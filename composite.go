package tilepass

import (
	"github.com/go-gl/mathgl/mgl32"
)

// AlphaCutoff is the alpha below which a sampled texel is discarded instead
// of blended. Near-zero rather than exact zero so texels dirtied by filtering
// still count as transparent. A sampled alpha exactly at the cutoff is kept.
const AlphaCutoff float32 = 0.0001

// FragmentInput mirrors the WGSL VertexOutput: the interpolated values one
// fragment receives. Layer and the two flags are flat attributes, every
// vertex of a quad contributes the same value.
type FragmentInput struct {
	ClipPosition    mgl32.Vec4
	TexCoord        mgl32.Vec2
	Layer           uint32
	PickingColor    Color
	PickingOverride bool
	Highlight       bool
	HighlightColor  Color
}

// TextureSampler reads one texel from a layered texture. TextureArrayData is
// the in-memory implementation; tests may substitute their own.
type TextureSampler interface {
	Sample(uv mgl32.Vec2, layer uint32) Color
}

// CompositeMode is the three-way outcome of the per-fragment decision chain,
// resolved once from the global picking flag and the instance flags.
type CompositeMode int

const (
	// CompositeBase outputs the sampled texel unchanged.
	CompositeBase CompositeMode = iota
	// CompositePicking replaces the output with the instance picking color.
	CompositePicking
	// CompositeHighlight tints the sampled texel with the highlight color.
	CompositeHighlight
)

// TransformVertex is the CPU rendition of vs_main: object space through model
// and camera into clip space, with the depth bias added to clip-space z after
// projection. Biasing after projection keeps x/y untouched, which is the
// whole point of the bias. All shading attributes are forwarded verbatim.
func TransformVertex(frame FrameUniform, v TileVertex) FragmentInput {
	world := frame.ModelTransform.Mul4x1(mgl32.Vec4{v.Position[0], v.Position[1], v.Position[2], 1})
	clip := frame.CameraView.Mul4x1(world)
	clip[2] += v.DepthBias

	return FragmentInput{
		ClipPosition:    clip,
		TexCoord:        mgl32.Vec2{v.TexCoord[0], v.TexCoord[1]},
		Layer:           v.Layer,
		PickingColor:    colorFromArray(v.PickingColor),
		PickingOverride: v.PickingOverride != 0,
		Highlight:       v.Highlight != 0,
		HighlightColor:  colorFromArray(v.HighlightColor),
	}
}

// ResolveMode decides which compositing branch a fragment takes. Picking
// needs both the global flag and the instance flag; when it wins it fully
// shadows the highlight.
func ResolveMode(pickingEnabled bool, in FragmentInput) CompositeMode {
	if pickingEnabled && in.PickingOverride {
		return CompositePicking
	}
	if in.Highlight {
		return CompositeHighlight
	}
	return CompositeBase
}

// ShadeFragment is the CPU rendition of fs_main. It samples the texture array
// at the fragment's layer and coordinate and returns the composited color.
// The second return is false when the fragment is discarded; a discard is a
// normal outcome for fully transparent texels, not an error.
func ShadeFragment(pickingEnabled bool, tex TextureSampler, in FragmentInput) (Color, bool) {
	baseColor := tex.Sample(in.TexCoord, in.Layer)
	if baseColor.A < AlphaCutoff {
		return Color{}, false
	}

	switch ResolveMode(pickingEnabled, in) {
	case CompositePicking:
		return in.PickingColor, true
	case CompositeHighlight:
		hl := in.HighlightColor
		return Color{
			R: mixf(baseColor.R, baseColor.R+hl.R*hl.A, hl.A),
			G: mixf(baseColor.G, baseColor.G+hl.G*hl.A, hl.A),
			B: mixf(baseColor.B, baseColor.B+hl.B*hl.A, hl.A),
			A: baseColor.A,
		}, true
	default:
		return baseColor, true
	}
}

// mixf is WGSL mix: linear blend of a toward b by t.
func mixf(a, b, t float32) float32 {
	return a + (b-a)*t
}
