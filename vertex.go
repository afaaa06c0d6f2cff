package tilepass

import (
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

// TileVertex matches the WGSL VertexInput, one record per vertex of a tile
// quad. The four vertices of one quad carry identical layer, picking and
// highlight values; AppendTile enforces that at the geometry boundary.
type TileVertex struct {
	Position        [3]float32
	TexCoord        [2]float32
	Layer           uint32
	DepthBias       float32
	PickingColor    [4]float32
	PickingOverride uint32
	Highlight       uint32
	HighlightColor  [4]float32
}

// FrameUniform matches the WGSL FrameUniform block (group 0): object to
// world, then world to clip. Updated at most once per draw submission.
type FrameUniform struct {
	ModelTransform mgl32.Mat4
	CameraView     mgl32.Mat4
}

// PickingUniform matches the WGSL PickingUniform block (group 2). Enabled is
// non-zero while a picking pass is being rendered. Padded to the 16-byte
// uniform buffer alignment.
type PickingUniform struct {
	Enabled uint32
	_       [3]uint32
}

// TileVertexLayout returns the vertex buffer layout for TileVertex. Location
// order is part of the shader contract and must not be rearranged.
func TileVertexLayout() wgpu.VertexBufferLayout {
	return wgpu.VertexBufferLayout{
		ArrayStride: uint64(unsafe.Sizeof(TileVertex{})),
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{
				Format:         wgpu.VertexFormatFloat32x3,
				Offset:         uint64(unsafe.Offsetof(TileVertex{}.Position)),
				ShaderLocation: 0,
			},
			{
				Format:         wgpu.VertexFormatFloat32x2,
				Offset:         uint64(unsafe.Offsetof(TileVertex{}.TexCoord)),
				ShaderLocation: 1,
			},
			{
				Format:         wgpu.VertexFormatUint32,
				Offset:         uint64(unsafe.Offsetof(TileVertex{}.Layer)),
				ShaderLocation: 2,
			},
			{
				Format:         wgpu.VertexFormatFloat32,
				Offset:         uint64(unsafe.Offsetof(TileVertex{}.DepthBias)),
				ShaderLocation: 3,
			},
			{
				Format:         wgpu.VertexFormatFloat32x4,
				Offset:         uint64(unsafe.Offsetof(TileVertex{}.PickingColor)),
				ShaderLocation: 4,
			},
			{
				Format:         wgpu.VertexFormatUint32,
				Offset:         uint64(unsafe.Offsetof(TileVertex{}.PickingOverride)),
				ShaderLocation: 5,
			},
			{
				Format:         wgpu.VertexFormatUint32,
				Offset:         uint64(unsafe.Offsetof(TileVertex{}.Highlight)),
				ShaderLocation: 6,
			},
			{
				Format:         wgpu.VertexFormatFloat32x4,
				Offset:         uint64(unsafe.Offsetof(TileVertex{}.HighlightColor)),
				ShaderLocation: 7,
			},
		},
	}
}

// Bytes views the uniform as raw bytes for queue.WriteBuffer. The struct is
// plain float32 data laid out exactly as the WGSL block.
func (u *FrameUniform) Bytes() []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(u)), unsafe.Sizeof(*u))
}

func (u *PickingUniform) Bytes() []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(u)), unsafe.Sizeof(*u))
}
