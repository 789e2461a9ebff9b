package fpsproto

import (
	"reflect"
)

type Module interface {
	Install(app *App, cmd *Commands)
}

// NewApp returns an empty app with the default stages.
func NewApp() *App {
	ecs := MakeEcs()
	app := &App{
		systems:   make(map[string][]systemFn),
		resources: make(map[reflect.Type]any),
		ecs:       &ecs,
	}
	for _, stage := range defaultStages {
		app.stages = append(app.stages, stage)
		app.initStage(stage)
	}
	return app
}

// UseModules installs modules immediately, in order. Entities they spawn are flushed
// before UseModules returns.
func (app *App) UseModules(modules ...Module) *App {
	commands := app.Commands()
	for _, module := range modules {
		module.Install(app, commands)
	}
	app.FlushCommands()
	return app
}
