package tilepass

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// DepthBiasStep is the clip-space z increment between adjacent stacking
// ranks. Small enough to never cross real depth differences, large enough to
// win a tie deterministically.
const DepthBiasStep float32 = 0.00001

// Tile describes one cell of a tile grid: its grid position, elevation rank,
// layer slice, and per-instance picking/highlight state.
type Tile struct {
	Col             int32
	Row             int32
	Elevation       int32
	Layer           uint32
	PickingColor    Color
	PickingOverride bool
	Highlight       bool
	HighlightColor  Color
}

// StackDepthBias computes the draw-order bias for a tile: grids render back
// to front by grid depth, and within a grid higher elevations win ties.
func StackDepthBias(gridDepth, elevation int32) float32 {
	return float32(gridDepth*100-elevation*10) * DepthBiasStep
}

// AppendTile expands one tile into four TileVertex records and six indices
// and appends them. All four vertices carry identical layer, picking and
// highlight values; this is where flat-per-instance attributes are
// deduplicated, the shader downstream simply assumes they agree.
//
// uvMin/uvMax span the tile's rectangle inside its layer slice, y-down.
func AppendTile(vertices []TileVertex, indices []uint16, tile Tile, tileSize float32, depthBias float32, uvMin, uvMax [2]float32) ([]TileVertex, []uint16) {
	x0 := float32(tile.Col) * tileSize
	y0 := float32(tile.Row) * tileSize
	x1 := x0 + tileSize
	y1 := y0 + tileSize
	z := float32(tile.Elevation) / 100.0

	base := uint16(len(vertices))
	corners := [4][3]float32{
		{x0, y0, z},
		{x0, y1, z},
		{x1, y1, z},
		{x1, y0, z},
	}
	uvs := [4][2]float32{
		{uvMin[0], uvMin[1]},
		{uvMin[0], uvMax[1]},
		{uvMax[0], uvMax[1]},
		{uvMax[0], uvMin[1]},
	}
	for i := 0; i < 4; i++ {
		vertices = append(vertices, TileVertex{
			Position:        corners[i],
			TexCoord:        uvs[i],
			Layer:           tile.Layer,
			DepthBias:       depthBias,
			PickingColor:    tile.PickingColor.Array(),
			PickingOverride: boolUint(tile.PickingOverride),
			Highlight:       boolUint(tile.Highlight),
			HighlightColor:  tile.HighlightColor.Array(),
		})
	}
	indices = append(indices, base, base+1, base+2, base, base+2, base+3)
	return vertices, indices
}

func boolUint(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}

// CreateTileBuffers uploads expanded tile geometry as vertex and index
// buffers ready for TilePass.Draw.
func CreateTileBuffers(device *wgpu.Device, vertices []TileVertex, indices []uint16) (vertexBuf, indexBuf *wgpu.Buffer, err error) {
	vertexBuf, err = device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "Tile Vertex Buffer",
		Contents: wgpu.ToBytes(vertices),
		Usage:    wgpu.BufferUsageVertex,
	})
	if err != nil {
		return nil, nil, err
	}
	indexBuf, err = device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "Tile Index Buffer",
		Contents: wgpu.ToBytes(indices),
		Usage:    wgpu.BufferUsageIndex,
	})
	if err != nil {
		vertexBuf.Release()
		return nil, nil, err
	}
	return vertexBuf, indexBuf, nil
}
