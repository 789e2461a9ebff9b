package fpsproto

import (
	"image"
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
)

// MaxPlaneSubdivisions keeps plane vertex counts inside uint16 indices.
const MaxPlaneSubdivisions = 254

type cuboidFace struct {
	normal, u, v mgl32.Vec3
}

// u x v == normal, so the corners below wind counter-clockwise seen from outside.
var cuboidFaces = []cuboidFace{
	{normal: mgl32.Vec3{1, 0, 0}, u: mgl32.Vec3{0, 0, -1}, v: mgl32.Vec3{0, 1, 0}},
	{normal: mgl32.Vec3{-1, 0, 0}, u: mgl32.Vec3{0, 0, 1}, v: mgl32.Vec3{0, 1, 0}},
	{normal: mgl32.Vec3{0, 1, 0}, u: mgl32.Vec3{1, 0, 0}, v: mgl32.Vec3{0, 0, -1}},
	{normal: mgl32.Vec3{0, -1, 0}, u: mgl32.Vec3{1, 0, 0}, v: mgl32.Vec3{0, 0, 1}},
	{normal: mgl32.Vec3{0, 0, 1}, u: mgl32.Vec3{1, 0, 0}, v: mgl32.Vec3{0, 1, 0}},
	{normal: mgl32.Vec3{0, 0, -1}, u: mgl32.Vec3{-1, 0, 0}, v: mgl32.Vec3{0, 1, 0}},
}

// CuboidMesh builds an axis-aligned box of the given full size centered on the origin.
func CuboidMesh(sizeX, sizeY, sizeZ float32) ([]Vertex, []uint16) {
	half := mgl32.Vec3{sizeX / 2, sizeY / 2, sizeZ / 2}
	corners := [4][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}

	vertices := make([]Vertex, 0, 24)
	indices := make([]uint16, 0, 36)
	for _, f := range cuboidFaces {
		base := uint16(len(vertices))
		for _, c := range corners {
			p := f.normal.Add(f.u.Mul(c[0])).Add(f.v.Mul(c[1]))
			vertices = append(vertices, Vertex{
				Position: [3]float32{p.X() * half.X(), p.Y() * half.Y(), p.Z() * half.Z()},
				Normal:   f.normal,
				UV:       [2]float32{(c[0] + 1) / 2, (1 - c[1]) / 2},
			})
		}
		indices = append(indices, base, base+1, base+2, base, base+2, base+3)
	}
	return vertices, indices
}

// PlaneMesh builds a ground plane in XZ facing +Y, split into subdivisions^2 quads.
func PlaneMesh(width, depth float32, subdivisions int) ([]Vertex, []uint16) {
	subdivisions = max(1, min(subdivisions, MaxPlaneSubdivisions))
	n := subdivisions + 1

	vertices := make([]Vertex, 0, n*n)
	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			u := float32(i) / float32(subdivisions)
			v := float32(j) / float32(subdivisions)
			vertices = append(vertices, Vertex{
				Position: [3]float32{-width/2 + width*u, 0, depth/2 - depth*v},
				Normal:   [3]float32{0, 1, 0},
				UV:       [2]float32{u, 1 - v},
			})
		}
	}

	indices := make([]uint16, 0, subdivisions*subdivisions*6)
	for j := 0; j < subdivisions; j++ {
		for i := 0; i < subdivisions; i++ {
			a := uint16(j*n + i)
			b := a + 1
			c := uint16((j+1)*n + i + 1)
			d := c - 1
			indices = append(indices, a, b, c, a, c, d)
		}
	}
	return vertices, indices
}

func (server *AssetServer) CreateCuboidMesh(sizeX, sizeY, sizeZ float32) AssetId {
	return server.LoadMesh(CuboidMesh(sizeX, sizeY, sizeZ))
}

func (server *AssetServer) CreatePlaneMesh(width, depth float32, subdivisions int) AssetId {
	return server.LoadMesh(PlaneMesh(width, depth, subdivisions))
}

// CrosshairImage draws a white plus sign with a dark outline and an open center.
func CrosshairImage(size int) *image.RGBA {
	size = max(size, 4)
	img := image.NewRGBA(image.Rect(0, 0, size, size))

	c := size / 2
	thickness := max(1, size/16)
	gap := max(1, size/8)
	arm := size/2 - 1

	inArm := func(x, y int) bool {
		dx, dy := abs(x-c), abs(y-c)
		horizontal := dy < thickness && dx >= gap && dx <= arm
		vertical := dx < thickness && dy >= gap && dy <= arm
		return horizontal || vertical
	}

	fill := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	outline := color.RGBA{A: 200}
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if inArm(x, y) {
				img.SetRGBA(x, y, fill)
				continue
			}
			if inArm(x-1, y) || inArm(x+1, y) || inArm(x, y-1) || inArm(x, y+1) {
				img.SetRGBA(x, y, outline)
			}
		}
	}
	return img
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
