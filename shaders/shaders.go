package shaders

import (
	_ "embed"
)

//go:embed tile.wgsl
var TileWGSL string
