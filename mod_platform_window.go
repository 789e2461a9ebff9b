package fpsproto

import (
	"github.com/go-gl/glfw/v3.3/glfw"
)

// PlatformWindowModule ensures a single shared GLFW window (WindowState) is created
// and made available as a resource for the renderer and input modules.
// Install is idempotent: if a WindowState resource already exists, it is reused.
type PlatformWindowModule struct {
	Width        int
	Height       int
	Title        string
	CaptureMouse bool
}

// NewPlatformWindow creates a module that provides a shared WindowState resource.
// If Width/Height are zero, sensible defaults are used.
func NewPlatformWindow(width, height int, title string) *PlatformWindowModule {
	if width <= 0 {
		width = 1280
	}
	if height <= 0 {
		height = 720
	}
	if title == "" {
		title = "fpsproto"
	}
	return &PlatformWindowModule{
		Width:  width,
		Height: height,
		Title:  title,
	}
}

func (m PlatformWindowModule) Install(app *App, cmd *Commands) {
	if _, ok := Resource[WindowState](app); !ok {
		ws := createWindowState(m.Width, m.Height, m.Title)
		app.addResources(ws)
		app.UseSystem(
			System(windowShutdownSystem).
				InStage(Finale),
		)
	}
	if input, ok := Resource[Input](app); ok && m.CaptureMouse {
		input.MouseCaptured = true
	}

	app.UseSystem(
		System(windowCloseSystem).
			InStage(PreUpdate),
	)
}

// windowCloseSystem exits on Escape or when the window was closed.
func windowCloseSystem(cmd *Commands, input *Input) {
	if input.JustPressed[KeyEscape] {
		cmd.Logger().Infof("escape pressed, exiting")
		cmd.Exit()
		return
	}
	if ws, ok := Resource[WindowState](cmd.app); ok && ws.windowGlfw != nil && ws.windowGlfw.ShouldClose() {
		cmd.Logger().Infof("window closed, exiting")
		cmd.Exit()
	}
}

func windowShutdownSystem(cmd *Commands, ws *WindowState) {
	if !cmd.app.ExitRequested() || ws.windowGlfw == nil {
		return
	}
	ws.windowGlfw.Destroy()
	ws.windowGlfw = nil
	glfw.Terminate()
}
