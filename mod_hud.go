package fpsproto

import (
	"fmt"
	"image"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/gekko3d/fpsproto/controller"
)

// DebugHudModule shows the player's position and heading in the top-left corner.
type DebugHudModule struct {
	FontSize float64
}

type debugHud struct {
	face    font.Face
	texture AssetId
	text    string
}

func NewTextFace(size float64) (font.Face, error) {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create face: %w", err)
	}
	return face, nil
}

// RenderText rasterizes a single line of white text on a transparent background.
func RenderText(face font.Face, text string) *image.RGBA {
	metrics := face.Metrics()
	width := font.MeasureString(face, text).Ceil() + 4
	height := metrics.Height.Ceil() + 4

	img := image.NewRGBA(image.Rect(0, 0, max(width, 1), height))
	d := font.Drawer{
		Dst:  img,
		Src:  image.White,
		Face: face,
		Dot:  fixed.P(2, 2+metrics.Ascent.Ceil()),
	}
	d.DrawString(text)
	return img
}

func (m DebugHudModule) Install(app *App, cmd *Commands) {
	assets, ok := Resource[AssetServer](app)
	if !ok {
		panic("DebugHudModule needs AssetServerModule installed first")
	}
	size := m.FontSize
	if size <= 0 {
		size = 14
	}
	face, err := NewTextFace(size)
	if err != nil {
		app.Logger().Errorf("debug hud disabled: %v", err)
		return
	}

	hud := &debugHud{face: face}
	hud.texture = assets.CreateTextureFromImage(RenderText(face, hud.text))
	cmd.AddResources(hud)
	cmd.AddEntity(&UiImage{
		Texture:       hud.texture,
		WidthPercent:  100,
		HeightPercent: 100,
		Align:         AlignTopLeft,
		Margin:        8,
		Layers:        Layers(CursorRenderLayer),
	})

	app.UseSystem(
		System(debugHudSystem).
			InStage(PostUpdate),
	)
}

func debugHudText(cmd *Commands) string {
	p, err := SinglePlayer(cmd)
	if err != nil {
		return err.Error()
	}
	e := controller.EulerFromQuat(p.Transform.Rotation)
	pos := p.Transform.Position
	return fmt.Sprintf("pos %.1f %.1f %.1f  yaw %.0f  pitch %.0f",
		pos.X(), pos.Y(), pos.Z(), mgl32.RadToDeg(e.Yaw), mgl32.RadToDeg(e.Pitch))
}

func debugHudSystem(cmd *Commands, hud *debugHud, assets *AssetServer) {
	text := debugHudText(cmd)
	if text == hud.text {
		return
	}
	hud.text = text
	if err := assets.ReplaceTexture(hud.texture, RenderText(hud.face, text)); err != nil {
		cmd.Logger().Warnf("debug hud: %v", err)
	}
}
