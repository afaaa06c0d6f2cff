package tilepass

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendTile_SharedInstanceAttributes(t *testing.T) {
	tile := Tile{
		Col:             2,
		Row:             3,
		Elevation:       5,
		Layer:           9,
		PickingColor:    NewColorRGB(10, 20, 30),
		PickingOverride: true,
		Highlight:       true,
		HighlightColor:  Color{R: 1, G: 1, B: 0, A: 0.25},
	}

	vertices, indices := AppendTile(nil, nil, tile, 16, 0.002, [2]float32{0.0, 0.0}, [2]float32{0.5, 0.5})
	require.Len(t, vertices, 4)
	require.Len(t, indices, 6)

	// Every vertex of the quad carries the same per-instance values.
	for _, v := range vertices {
		assert.Equal(t, uint32(9), v.Layer)
		assert.Equal(t, float32(0.002), v.DepthBias)
		assert.Equal(t, tile.PickingColor.Array(), v.PickingColor)
		assert.Equal(t, uint32(1), v.PickingOverride)
		assert.Equal(t, uint32(1), v.Highlight)
		assert.Equal(t, tile.HighlightColor.Array(), v.HighlightColor)
		assert.Equal(t, float32(0.05), v.Position[2])
	}

	assert.Equal(t, []uint16{0, 1, 2, 0, 2, 3}, indices)

	// Quad corners span the tile cell.
	assert.Equal(t, [3]float32{32, 48, 0.05}, vertices[0].Position)
	assert.Equal(t, [3]float32{32, 64, 0.05}, vertices[1].Position)
	assert.Equal(t, [3]float32{48, 64, 0.05}, vertices[2].Position)
	assert.Equal(t, [3]float32{48, 48, 0.05}, vertices[3].Position)

	// UVs track the corners, y-down.
	assert.Equal(t, [2]float32{0, 0}, vertices[0].TexCoord)
	assert.Equal(t, [2]float32{0, 0.5}, vertices[1].TexCoord)
	assert.Equal(t, [2]float32{0.5, 0.5}, vertices[2].TexCoord)
	assert.Equal(t, [2]float32{0.5, 0}, vertices[3].TexCoord)
}

func TestAppendTile_IndexStride(t *testing.T) {
	var vertices []TileVertex
	var indices []uint16
	for i := int32(0); i < 3; i++ {
		vertices, indices = AppendTile(vertices, indices, Tile{Col: i}, 8, 0, [2]float32{0, 0}, [2]float32{1, 1})
	}

	require.Len(t, vertices, 12)
	require.Len(t, indices, 18)
	assert.Equal(t, []uint16{4, 5, 6, 4, 6, 7}, indices[6:12])
	assert.Equal(t, []uint16{8, 9, 10, 8, 10, 11}, indices[12:18])
}

func TestStackDepthBias(t *testing.T) {
	assert.Equal(t, float32(0), StackDepthBias(0, 0))
	assert.InDelta(t, 0.001, StackDepthBias(1, 0), 1e-9)
	assert.InDelta(t, 0.0009, StackDepthBias(1, 1), 1e-9)

	// Higher elevation on the same grid biases closer, lower grid depth
	// biases closer overall.
	assert.Less(t, StackDepthBias(1, 2), StackDepthBias(1, 1))
	assert.Less(t, StackDepthBias(1, 0), StackDepthBias(2, 0))
}
