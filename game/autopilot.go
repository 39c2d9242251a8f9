package game

import "math"

// Autopilot steers the player without a human: it walks onto the play box of
// the menus and lines the player up with the hole of the incoming wall.
// It plays well enough to score, not perfectly.
func Autopilot(g *Game) Controls {
	player := g.Player()
	center := player.Box.Center

	switch g.Mode() {
	case ModeMenu, ModeEndScreen:
		return steerX(center.X(), g.cfg.Menu.Offset, player.Velocity.X(), g.cfg.Player.StrafeImpulse)
	case ModeGamePlay:
		hole, ok := g.Hole()
		if !ok {
			return Controls{}
		}
		if controls := steerX(center.X(), hole.X(), player.Velocity.X(), g.cfg.Player.StrafeImpulse); controls != (Controls{}) {
			return controls
		}

		// Hold jump until the apex of the flight reaches the hole
		dy := hole.Y() - center.Y()
		vy := player.Velocity.Y()
		if dy > 0 && (vy <= 0 || vy*vy < 2*g.cfg.Physics.Gravity*dy) {
			return Controls{Jump: true}
		}
	}

	return Controls{}
}

// steerX accelerates toward the target, and releases every control (which
// stops the player) once aligned or when going fast enough to overshoot
func steerX(from, to, velocity, impulse float64) Controls {
	dx := to - from
	if math.Abs(dx) <= impulse {
		return Controls{}
	}
	if dx*velocity > 0 && math.Abs(velocity) >= 2*math.Abs(dx) {
		return Controls{}
	}
	// +X is left of the player
	if dx > 0 {
		return Controls{Left: true}
	}

	return Controls{Right: true}
}
