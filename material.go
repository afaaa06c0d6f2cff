package tilepass

import (
	"fmt"
	"image"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/draw"
)

const texelBytes = 4 // RGBA8

// TextureArrayData holds the texel content of a layered texture: a stack of
// same-sized RGBA8 slices addressed by layer index. It backs both the GPU
// upload and the CPU reference sampler.
type TextureArrayData struct {
	Width  uint32
	Height uint32
	Texels [][]uint8 // one RGBA8 plane per layer
}

// NewTextureArrayData converts image slices into a texture array. The first
// slice fixes the array extent; any slice with a different size is rescaled
// to it with nearest-neighbor filtering so tile pixels stay crisp.
func NewTextureArrayData(slices []image.Image) (*TextureArrayData, error) {
	if len(slices) == 0 {
		return nil, fmt.Errorf("texture array needs at least one slice")
	}

	bounds := slices[0].Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	data := &TextureArrayData{
		Width:  uint32(width),
		Height: uint32(height),
		Texels: make([][]uint8, 0, len(slices)),
	}
	for _, slice := range slices {
		rgba := image.NewRGBA(image.Rect(0, 0, width, height))
		if slice.Bounds().Dx() == width && slice.Bounds().Dy() == height {
			draw.Draw(rgba, rgba.Bounds(), slice, slice.Bounds().Min, draw.Src)
		} else {
			draw.NearestNeighbor.Scale(rgba, rgba.Bounds(), slice, slice.Bounds(), draw.Src, nil)
		}
		data.Texels = append(data.Texels, rgba.Pix)
	}
	return data, nil
}

// Layers returns the number of slices in the array.
func (d *TextureArrayData) Layers() uint32 {
	return uint32(len(d.Texels))
}

// Sample reads the texel at uv from the given slice with nearest filtering
// and clamp-to-edge addressing. Layer must address a valid slice; that is the
// caller's contract, exactly as it is on the GPU side.
func (d *TextureArrayData) Sample(uv mgl32.Vec2, layer uint32) Color {
	x := clampTexel(uv.X(), d.Width)
	y := clampTexel(uv.Y(), d.Height)
	plane := d.Texels[layer]
	i := (y*int(d.Width) + x) * texelBytes
	return Color{
		R: float32(plane[i]) / 255.0,
		G: float32(plane[i+1]) / 255.0,
		B: float32(plane[i+2]) / 255.0,
		A: float32(plane[i+3]) / 255.0,
	}
}

func clampTexel(coord float32, size uint32) int {
	t := int(coord * float32(size))
	if t < 0 {
		return 0
	}
	if t >= int(size) {
		return int(size) - 1
	}
	return t
}

// BuildTextureArray uploads the slices as a texture_2d_array and returns its
// view, ready to bind at group 1 binding 0. All slices are written in one
// WriteTexture call since the planes are contiguous per layer.
func BuildTextureArray(device *wgpu.Device, queue *wgpu.Queue, data *TextureArrayData) (*wgpu.TextureView, error) {
	extent := wgpu.Extent3D{
		Width:              data.Width,
		Height:             data.Height,
		DepthOrArrayLayers: data.Layers(),
	}
	texture, err := device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "Tile Layer Array",
		Size:          extent,
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatRGBA8Unorm,
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, err
	}
	defer texture.Release()

	view, err := texture.CreateView(&wgpu.TextureViewDescriptor{
		Label:           "Tile Layer Array View",
		Format:          wgpu.TextureFormatRGBA8Unorm,
		Dimension:       wgpu.TextureViewDimension2DArray,
		MipLevelCount:   1,
		ArrayLayerCount: data.Layers(),
		Aspect:          wgpu.TextureAspectAll,
	})
	if err != nil {
		return nil, err
	}

	texels := make([]uint8, 0, int(data.Width)*int(data.Height)*texelBytes*len(data.Texels))
	for _, plane := range data.Texels {
		texels = append(texels, plane...)
	}
	err = queue.WriteTexture(
		texture.AsImageCopy(),
		texels,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  data.Width * texelBytes,
			RowsPerImage: data.Height,
		},
		&extent,
	)
	if err != nil {
		view.Release()
		return nil, err
	}
	return view, nil
}

// NewTileSampler creates the sampler bound with the layer array: nearest
// filtering and clamp-to-edge, tiles are never meant to bleed into their
// atlas neighbors.
func NewTileSampler(device *wgpu.Device) (*wgpu.Sampler, error) {
	return device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         "Tile Sampler",
		AddressModeU:  wgpu.AddressModeClampToEdge,
		AddressModeV:  wgpu.AddressModeClampToEdge,
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MagFilter:     wgpu.FilterModeNearest,
		MinFilter:     wgpu.FilterModeNearest,
		MipmapFilter:  wgpu.MipmapFilterModeNearest,
		LodMinClamp:   0,
		LodMaxClamp:   1,
		Compare:       wgpu.CompareFunctionUndefined,
		MaxAnisotropy: 1,
	})
}
