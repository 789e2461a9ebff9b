package fpsproto

// KeyboardLogModule logs every key press edge.
type KeyboardLogModule struct{}

func (KeyboardLogModule) Install(app *App, cmd *Commands) {
	app.UseSystem(
		System(keyboardEventsSystem).
			InStage(Update),
	)
}

func keyboardEventsSystem(cmd *Commands, input *Input) {
	logger := cmd.Logger()
	for key, pressed := range input.JustPressed {
		if pressed {
			logger.Infof("%s was just pressed", KeyName(key))
		}
	}
}
