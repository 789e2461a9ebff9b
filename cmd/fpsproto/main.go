package main

import (
	"flag"
	"log"
	"runtime"

	"github.com/gekko3d/fpsproto"
)

func init() {
	// glfw and the surface must stay on the main thread
	runtime.LockOSThread()
}

func main() {
	configPath := flag.String("config", "", "Path to a YAML config (defaults are used when empty)")
	debug := flag.Bool("debug", false, "Enable debug logging and the debug HUD")
	flag.Parse()

	cfg := fpsproto.DefaultConfig()
	if *configPath != "" {
		loaded, err := fpsproto.LoadConfig(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = loaded
	}
	if *debug {
		cfg.Logging.Debug = true
	}

	bindings, err := cfg.KeyBindings()
	if err != nil {
		log.Fatalf("Invalid key bindings: %v", err)
	}

	scene := fpsproto.DefaultScene()
	scene.Player.Sensitivity = cfg.Sensitivity()
	scene.Player.MoveSpeed = cfg.Controls.MoveSpeed

	modules := []fpsproto.Module{
		fpsproto.LoggingModule{Prefix: cfg.Logging.Prefix, Debug: cfg.Logging.Debug},
		fpsproto.TimeModule{},
		fpsproto.InputModule{},
		fpsproto.PlatformWindowModule{
			Width:        cfg.Window.Width,
			Height:       cfg.Window.Height,
			Title:        cfg.Window.Title,
			CaptureMouse: cfg.Window.CaptureMouse,
		},
		fpsproto.AssetServerModule{},
		fpsproto.HierarchyModule{},
		fpsproto.SceneModule{Scene: scene},
		fpsproto.PlayerModule{Bindings: bindings},
		fpsproto.KeyboardLogModule{},
		fpsproto.CrosshairModule{Path: cfg.Assets.Crosshair, Size: cfg.Assets.CrosshairSize},
	}
	if cfg.Logging.Debug {
		modules = append(modules, fpsproto.DebugHudModule{FontSize: 16})
	}
	modules = append(modules, fpsproto.RenderModule{})

	fpsproto.NewApp().
		UseModules(modules...).
		Run()
}
