package tilepass

import (
	"testing"
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"
)

func TestTileVertexLayout_MatchesStruct(t *testing.T) {
	layout := TileVertexLayout()

	if layout.ArrayStride != uint64(unsafe.Sizeof(TileVertex{})) {
		t.Errorf("stride %d does not match struct size %d", layout.ArrayStride, unsafe.Sizeof(TileVertex{}))
	}
	if len(layout.Attributes) != 8 {
		t.Fatalf("expected 8 attributes, got %d", len(layout.Attributes))
	}

	// Shader locations follow declaration order, no gaps.
	for i, attr := range layout.Attributes {
		if attr.ShaderLocation != uint32(i) {
			t.Errorf("attribute %d has shader location %d", i, attr.ShaderLocation)
		}
	}

	// Attributes cover the struct contiguously.
	sizes := map[wgpu.VertexFormat]uint64{
		wgpu.VertexFormatFloat32:   4,
		wgpu.VertexFormatFloat32x2: 8,
		wgpu.VertexFormatFloat32x3: 12,
		wgpu.VertexFormatFloat32x4: 16,
		wgpu.VertexFormatUint32:    4,
	}
	var offset uint64
	for i, attr := range layout.Attributes {
		if attr.Offset != offset {
			t.Errorf("attribute %d at offset %d, expected %d", i, attr.Offset, offset)
		}
		size, ok := sizes[attr.Format]
		if !ok {
			t.Fatalf("attribute %d has unexpected format %v", i, attr.Format)
		}
		offset += size
	}
	if offset != layout.ArrayStride {
		t.Errorf("attributes cover %d bytes, stride is %d", offset, layout.ArrayStride)
	}
}

func TestUniformSizes(t *testing.T) {
	// Two mat4x4<f32>, contiguous.
	if size := unsafe.Sizeof(FrameUniform{}); size != 128 {
		t.Errorf("FrameUniform is %d bytes, want 128", size)
	}
	// One u32 flag padded to uniform alignment.
	if size := unsafe.Sizeof(PickingUniform{}); size != 16 {
		t.Errorf("PickingUniform is %d bytes, want 16", size)
	}
}

func TestUniformBytes(t *testing.T) {
	u := PickingUniform{Enabled: 1}
	b := u.Bytes()
	if len(b) != 16 {
		t.Fatalf("expected 16 bytes, got %d", len(b))
	}
	if b[0] != 1 {
		t.Errorf("enabled flag not at byte 0: % x", b[:4])
	}
	for _, pad := range b[4:] {
		if pad != 0 {
			t.Errorf("padding not zeroed: % x", b)
			break
		}
	}
}
