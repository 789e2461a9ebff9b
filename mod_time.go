package fpsproto

import (
	"time"
)

// MaxFrameDelta bounds Time.Dt so a stalled frame (window drag, debugger) does not teleport the player.
const MaxFrameDelta = 250 * time.Millisecond

type Time struct {
	Time time.Time
	Dt   time.Duration
}

// Seconds is Dt in seconds.
func (t *Time) Seconds() float32 {
	return float32(t.Dt.Seconds())
}

func (t *Time) advance(now time.Time) {
	dt := now.Sub(t.Time)
	switch {
	case dt < 0:
		dt = 0
	case dt > MaxFrameDelta:
		dt = MaxFrameDelta
	}
	t.Dt = dt
	t.Time = now
}

type TimeModule struct {
}

func (mod TimeModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(&Time{
		Time: time.Now(),
		Dt:   0,
	})
	app.UseSystem(
		System(timeSystem).
			InStage(Prelude),
	)
}

func timeSystem(timeResource *Time) {
	timeResource.advance(time.Now())
}
