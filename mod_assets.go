package fpsproto

import (
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/google/uuid"
	"golang.org/x/image/draw"
)

type AssetId string

type TextureFormat uint32

const (
	TextureFormatR8Uint     TextureFormat = 0x00000003
	TextureFormatRGBA8Unorm TextureFormat = 0x00000012
)

// AssetServer owns CPU-side meshes and textures. Renderers upload them lazily and re-upload
// when version changes.
type AssetServer struct {
	meshes   map[AssetId]*MeshAsset
	textures map[AssetId]*TextureAsset
}

type AssetServerModule struct{}

// Vertex is the layout of every mesh. Tagged fields become vertex attributes in order.
type Vertex struct {
	Position [3]float32 `gpu:"layout" format:"float3" location:"0"`
	Normal   [3]float32 `gpu:"layout" format:"float3" location:"1"`
	UV       [2]float32 `gpu:"layout" format:"float2" location:"2"`
}

type MeshAsset struct {
	version  uint
	Vertices []Vertex
	Indices  []uint16
}

type TextureAsset struct {
	version uint
	Texels  []uint8
	Width   uint32
	Height  uint32
	Format  TextureFormat
}

func NewAssetServer() *AssetServer {
	return &AssetServer{
		meshes:   make(map[AssetId]*MeshAsset),
		textures: make(map[AssetId]*TextureAsset),
	}
}

func (AssetServerModule) Install(app *App, cmd *Commands) {
	app.addResources(NewAssetServer())
}

func (server *AssetServer) LoadMesh(vertices []Vertex, indices []uint16) AssetId {
	id := makeAssetId()
	server.meshes[id] = &MeshAsset{
		Vertices: vertices,
		Indices:  indices,
	}
	return id
}

func (server *AssetServer) Mesh(id AssetId) (*MeshAsset, bool) {
	m, ok := server.meshes[id]
	return m, ok
}

func (server *AssetServer) CreateTexture(texels []uint8, texWidth uint32, texHeight uint32, format TextureFormat) AssetId {
	id := makeAssetId()
	server.textures[id] = &TextureAsset{
		Texels: texels,
		Width:  texWidth,
		Height: texHeight,
		Format: format,
	}
	return id
}

// ReplaceTexture swaps the texels of an existing texture and bumps its version.
func (server *AssetServer) ReplaceTexture(id AssetId, img *image.RGBA) error {
	tx, ok := server.textures[id]
	if !ok {
		return fmt.Errorf("texture %s not found", id)
	}
	b := img.Bounds()
	tx.Texels = img.Pix
	tx.Width = uint32(b.Dx())
	tx.Height = uint32(b.Dy())
	tx.Format = TextureFormatRGBA8Unorm
	tx.version++
	return nil
}

func (server *AssetServer) Texture(id AssetId) (*TextureAsset, bool) {
	t, ok := server.textures[id]
	return t, ok
}

func (server *AssetServer) CreateTextureFromImage(img *image.RGBA) AssetId {
	b := img.Bounds()
	return server.CreateTexture(img.Pix, uint32(b.Dx()), uint32(b.Dy()), TextureFormatRGBA8Unorm)
}

// LoadTexture decodes a PNG file into an RGBA texture.
func (server *AssetServer) LoadTexture(filename string) (AssetId, error) {
	img, err := decodePNG(filename)
	if err != nil {
		return "", err
	}
	return server.CreateTextureFromImage(img), nil
}

func decodePNG(filename string) (*image.RGBA, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open texture: %w", err)
	}
	defer file.Close()

	img, err := png.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filename, err)
	}
	return toRGBA(img), nil
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Bounds().Min == (image.Point{}) {
		return rgba
	}
	bounds := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	return rgba
}

// ResizeImage scales img to width x height with Catmull-Rom filtering.
func ResizeImage(img image.Image, width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

// LoadCrosshair loads the crosshair PNG scaled to size pixels. A missing or unreadable file falls
// back to the procedural crosshair; the error is returned alongside for logging.
func (server *AssetServer) LoadCrosshair(filename string, size int) (AssetId, error) {
	img, err := decodePNG(filename)
	if err != nil {
		return server.CreateTextureFromImage(CrosshairImage(size)), err
	}
	if b := img.Bounds(); b.Dx() != size || b.Dy() != size {
		img = ResizeImage(img, size, size)
	}
	return server.CreateTextureFromImage(img), nil
}

func makeAssetId() AssetId {
	return AssetId(uuid.NewString())
}
