package tilepass

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// readbackRowBytes covers one BGRA8 pixel padded to the 256-byte row
// alignment texture-to-buffer copies require.
const readbackRowBytes = 256

// ReadPixelColor copies the pixel at (x, y) out of a rendered BGRA8 texture
// and decodes it. Used after an off-screen picking pass to find the color
// under the cursor; it blocks until the GPU copy and mapping complete.
//
// The texture must have been created with CopySrc usage.
func ReadPixelColor(device *wgpu.Device, queue *wgpu.Queue, texture *wgpu.Texture, x, y uint32) (Color, error) {
	pixelBuf, err := device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Pick Pixel Buffer",
		Size:  readbackRowBytes,
		Usage: wgpu.BufferUsageMapRead | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return Color{}, err
	}
	defer pixelBuf.Release()

	encoder, err := device.CreateCommandEncoder(&wgpu.CommandEncoderDescriptor{
		Label: "Pick Readback Encoder",
	})
	if err != nil {
		return Color{}, err
	}
	defer encoder.Release()

	encoder.CopyTextureToBuffer(
		&wgpu.ImageCopyTexture{
			Texture:  texture,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{X: x, Y: y, Z: 0},
			Aspect:   wgpu.TextureAspectAll,
		},
		&wgpu.ImageCopyBuffer{
			Buffer: pixelBuf,
			Layout: wgpu.TextureDataLayout{
				Offset:       0,
				BytesPerRow:  readbackRowBytes,
				RowsPerImage: 1,
			},
		},
		&wgpu.Extent3D{Width: 1, Height: 1, DepthOrArrayLayers: 1},
	)

	cmd, err := encoder.Finish(nil)
	if err != nil {
		return Color{}, err
	}
	defer cmd.Release()
	queue.Submit(cmd)

	mapped := false
	mapOK := false
	pixelBuf.MapAsync(wgpu.MapModeRead, 0, readbackRowBytes, func(status wgpu.BufferMapAsyncStatus) {
		mapped = true
		mapOK = status == wgpu.BufferMapAsyncStatusSuccess
	})
	for !mapped {
		device.Poll(true, nil)
	}
	if !mapOK {
		return Color{}, fmt.Errorf("pick pixel buffer mapping failed")
	}

	data := pixelBuf.GetMappedRange(0, 4)
	// BGRA byte order in the render target.
	c := NewColorRGB(data[2], data[1], data[0])
	pixelBuf.Unmap()
	return c, nil
}

// PickInstance reads the picking-pass pixel under (x, y) and resolves it to
// the instance registered for that color. The ok result is false when the
// cursor is over the background or an unregistered color.
func PickInstance(device *wgpu.Device, queue *wgpu.Queue, texture *wgpu.Texture, x, y uint32, reg *PickingRegistry) (InstanceId, bool, error) {
	c, err := ReadPixelColor(device, queue, texture, x, y)
	if err != nil {
		return "", false, err
	}
	id, ok := reg.Resolve(c)
	return id, ok, nil
}
