package fpsproto

import (
	"github.com/go-gl/mathgl/mgl32"
)

type UiAlign int

const (
	AlignCenter UiAlign = iota
	AlignTopLeft
)

// UiImage draws a texture at its native pixel size inside a box covering WidthPercent x
// HeightPercent of the window, centered on the window. Align places the image within the box.
type UiImage struct {
	Texture       AssetId
	WidthPercent  float32
	HeightPercent float32
	Align         UiAlign
	Margin        float32 // pixels, for non-centered alignments
	Layers        RenderLayers
}

// onOverlay reports whether the image belongs to the screen-space overlay. Images without layers
// default to it.
func (img UiImage) onOverlay() bool {
	return img.Layers == 0 || img.Layers.Intersects(Layers(CursorRenderLayer))
}

// ScreenRect returns the image corners in normalized device coordinates (Y up).
func (img UiImage) ScreenRect(texWidth, texHeight uint32, windowWidth, windowHeight int) (lo, hi mgl32.Vec2) {
	ww, wh := float32(windowWidth), float32(windowHeight)
	if ww <= 0 || wh <= 0 {
		return mgl32.Vec2{}, mgl32.Vec2{}
	}
	boxW := ww * img.WidthPercent / 100
	boxH := wh * img.HeightPercent / 100
	boxX := (ww - boxW) / 2
	boxY := (wh - boxH) / 2

	w, h := float32(texWidth), float32(texHeight)
	var x, y float32 // top-left in pixels, Y down
	switch img.Align {
	case AlignTopLeft:
		x = boxX + img.Margin
		y = boxY + img.Margin
	default:
		x = boxX + (boxW-w)/2
		y = boxY + (boxH-h)/2
	}

	toNdc := func(px, py float32) mgl32.Vec2 {
		return mgl32.Vec2{px/ww*2 - 1, 1 - py/wh*2}
	}
	topLeft := toNdc(x, y)
	bottomRight := toNdc(x+w, y+h)
	return mgl32.Vec2{topLeft.X(), bottomRight.Y()}, mgl32.Vec2{bottomRight.X(), topLeft.Y()}
}

// CrosshairModule spawns a full-window node with the crosshair centered in it.
type CrosshairModule struct {
	Path string
	Size int
}

func (m CrosshairModule) Install(app *App, cmd *Commands) {
	assets, ok := Resource[AssetServer](app)
	if !ok {
		panic("CrosshairModule needs AssetServerModule installed first")
	}
	size := m.Size
	if size <= 0 {
		size = 32
	}

	texture, err := assets.LoadCrosshair(m.Path, size)
	if err != nil {
		app.Logger().Warnf("crosshair: %v, using the built-in one", err)
	}

	cmd.AddEntity(&UiImage{
		Texture:       texture,
		WidthPercent:  100,
		HeightPercent: 100,
		Align:         AlignCenter,
		Layers:        Layers(CursorRenderLayer),
	})
}
