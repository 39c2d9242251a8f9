// Package game implements the rules of breach: the player cube dodges walls of
// boxes by slipping through their single hole.
package game

import (
	"fmt"
	"math/rand"

	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/akmonengine/breach"
	"github.com/akmonengine/breach/actor"
	"github.com/akmonengine/breach/internal/config"
)

// ID is the game identifier used by score storage
const ID = "breach"

// Mode is the current screen of the game.
type Mode uint8

const (
	ModeMenu Mode = iota
	ModeGamePlay
	ModeEndScreen
)

func (m Mode) String() string {
	switch m {
	case ModeMenu:
		return "menu"
	case ModeGamePlay:
		return "gameplay"
	case ModeEndScreen:
		return "end screen"
	default:
		return "unknown"
	}
}

// Target indices in World.Targets, on the menu and end screens
const (
	targetPlay   = 0 // start, or play again
	targetScores = 1
)

// Controls are the inputs held during one frame.
// Horizontal moves and jump are exclusive, in this priority order.
type Controls struct {
	Left      bool
	Right     bool
	Jump      bool
	SpinLeft  bool
	SpinRight bool
}

// ScoreRecorder persists the score of a finished round.
type ScoreRecorder interface {
	SaveScore(gameID string, score int, seed int64) (int64, error)
}

// Game holds the whole state of a session.
type Game struct {
	cfg      config.Config
	logger   *log.Logger
	recorder ScoreRecorder

	seed int64
	rng  *rand.Rand

	World  breach.World
	Bounds Bounds

	mode  Mode
	score int
	frame uint64
	hole  mgl64.Vec3

	start, scores, playAgain actor.Box
	scoresSelected           bool
}

// New creates a game on the menu screen. The seed drives wall generation:
// two games with the same seed and inputs play out the same.
// logger and recorder may be nil.
func New(cfg config.Config, seed int64, logger *log.Logger, recorder ScoreRecorder) (*Game, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.Default()
	}

	g := &Game{
		cfg:      cfg,
		logger:   logger,
		recorder: recorder,
		seed:     seed,
		rng:      rand.New(rand.NewSource(seed)),
		Bounds:   GenerateBounds(cfg),
	}

	menuHalf := mgl64.Vec3{cfg.Menu.HalfSize, cfg.Menu.HalfSize, cfg.Menu.HalfSize}
	menuY := cfg.Physics.FloorHeight + cfg.Menu.HalfSize
	g.start = actor.NewBox(mgl64.Vec3{cfg.Menu.Offset, menuY, 0}, menuHalf)
	g.scores = actor.NewBox(mgl64.Vec3{-cfg.Menu.Offset, menuY, 0}, menuHalf)
	g.playAgain = actor.NewBox(mgl64.Vec3{cfg.Menu.Offset, menuY, 0}, menuHalf)

	playerHalf := mgl64.Vec3{cfg.Player.HalfSize, cfg.Player.HalfSize, cfg.Player.HalfSize}
	g.World = breach.World{
		Player:   actor.NewRigidBody(actor.NewBox(g.spawn(), playerHalf), cfg.Player.MaxSpeed),
		Floor:    g.Bounds.Floor,
		Bounds:   []actor.Plane{g.Bounds.Top, g.Bounds.Left, g.Bounds.Right},
		Gravity:  mgl64.Vec3{0, -cfg.Physics.Gravity, 0},
		Friction: cfg.Physics.Friction,
		Events:   breach.NewEvents(),
	}
	if cfg.Broadphase.Enabled {
		g.World.SpatialGrid = breach.NewSpatialGrid(cfg.Broadphase.CellSize, cfg.Broadphase.NumCells)
	}
	g.World.Events.Subscribe(breach.CONTACT_ENTER, g.onContactEnter)

	if err := g.enterMenu(); err != nil {
		return nil, err
	}
	if err := g.World.Validate(); err != nil {
		return nil, err
	}

	return g, nil
}

func (g *Game) Mode() Mode {
	return g.mode
}

// Score is the number of walls passed in the current (or last) round
func (g *Game) Score() int {
	return g.score
}

func (g *Game) Seed() int64 {
	return g.seed
}

func (g *Game) Frame() uint64 {
	return g.frame
}

func (g *Game) Player() *actor.RigidBody {
	return g.World.Player
}

// Hole returns the center of the missing slot of the current wall, false
// outside of gameplay
func (g *Game) Hole() (mgl64.Vec3, bool) {
	if g.mode != ModeGamePlay || len(g.World.Wall) == 0 {
		return mgl64.Vec3{}, false
	}

	hole := g.hole
	hole[2] = g.World.Wall[0].Center.Z()

	return hole, true
}

// ScoresSelected reports whether the player touched the scores box since the
// last screen change
func (g *Game) ScoresSelected() bool {
	return g.scoresSelected
}

// Update runs one frame: controls, physics step, then the game rules on the
// contacts of the frame.
func (g *Game) Update(controls Controls) error {
	g.applyControls(controls)

	contacts, err := g.World.Step(g.cfg.Physics.DT)
	if err != nil {
		return fmt.Errorf("frame %d: %w", g.frame, err)
	}
	g.frame++

	switch g.mode {
	case ModeMenu, ModeEndScreen:
		for _, c := range contacts.PlayerTarget {
			if c.B == targetPlay {
				return g.startRound()
			}
		}
	case ModeGamePlay:
		if len(contacts.PlayerWall) > 0 {
			return g.gameOver()
		}
		if g.wallPassed() {
			g.score++
			g.logger.Debug("wall passed", "score", g.score, "frame", g.frame)
			return g.spawnWall()
		}
	}

	return nil
}

// applyControls turns held inputs into velocity impulses, refused when the
// player would leave the bounds. Without any move input the player stops
// horizontally and keeps falling.
func (g *Game) applyControls(controls Controls) {
	player := g.World.Player
	strafe := mgl64.Vec3{g.cfg.Player.StrafeImpulse, 0, 0}
	jump := mgl64.Vec3{0, g.cfg.Player.JumpImpulse, 0}

	switch {
	case controls.Left && g.canMove(strafe):
		player.AddImpulse(strafe)
	case controls.Right && g.canMove(strafe.Mul(-1)):
		player.AddImpulse(strafe.Mul(-1))
	case controls.Jump && g.canMove(jump):
		player.AddImpulse(jump)
	default:
		player.Velocity = mgl64.Vec3{0, player.Velocity.Y(), 0}
	}

	switch {
	case controls.SpinLeft:
		player.AngularVelocity = mgl64.Vec3{0, g.cfg.Player.SpinSpeed, 0}
	case controls.SpinRight:
		player.AngularVelocity = mgl64.Vec3{0, -g.cfg.Player.SpinSpeed, 0}
	default:
		player.AngularVelocity = mgl64.Vec3{}
	}
}

func (g *Game) canMove(delta mgl64.Vec3) bool {
	box := g.World.Player.Box
	box.Translate(delta)

	return g.Bounds.Contains(box)
}

// wallPassed reports whether every wall box is behind the player
func (g *Game) wallPassed() bool {
	if len(g.World.Wall) == 0 {
		return false
	}

	axis := mgl64.Vec3{0, 0, 1}
	player := g.World.Player.Box
	limit := player.ProjectCenter(axis) - player.ProjectedRadius(axis) - g.cfg.Wall.PassDistance
	for _, box := range g.World.Wall {
		if box.ProjectCenter(axis)+box.ProjectedRadius(axis) >= limit {
			return false
		}
	}

	return true
}

func (g *Game) spawn() mgl64.Vec3 {
	return mgl64.Vec3{0, g.cfg.Physics.FloorHeight + g.cfg.Player.HalfSize, 0}
}

func (g *Game) spawnWall() error {
	wall := GenerateWall(g.rng, g.cfg)
	if err := g.World.SetWall(wall.Boxes, wall.Velocities); err != nil {
		return fmt.Errorf("game: cannot spawn wall: %w", err)
	}
	g.hole = wall.Hole

	return nil
}

func (g *Game) setMode(mode Mode) {
	g.logger.Info("mode changed", "from", g.mode, "to", mode, "frame", g.frame)
	g.mode = mode
	g.scoresSelected = false
	g.World.Player.Reset(g.spawn())
}

func (g *Game) enterMenu() error {
	g.mode = ModeMenu
	g.World.Targets = []actor.Box{g.start, g.scores}

	return g.World.SetWall(nil, nil)
}

func (g *Game) startRound() error {
	g.setMode(ModeGamePlay)
	g.score = 0
	g.World.Targets = nil
	g.World.WallGravity = false
	g.World.WallSelfCollision = false
	g.World.ResolvePlayerWall = false

	return g.spawnWall()
}

// gameOver blows the wall away from the player, records the score and shows
// the end screen. Debris then falls and piles up on the floor.
func (g *Game) gameOver() error {
	center := g.World.Player.Box.Center
	for i := range g.World.Wall {
		push := g.World.Wall[i].Center.Sub(center).Mul(g.cfg.Wall.ExplosionFactor)
		g.World.WallVelocities[i] = g.World.WallVelocities[i].Add(push)
	}
	g.World.WallGravity = true
	g.World.WallSelfCollision = true
	g.World.ResolvePlayerWall = true

	g.logger.Info("wall hit", "score", g.score, "frame", g.frame)

	g.setMode(ModeEndScreen)
	g.World.Targets = []actor.Box{g.playAgain, g.scores}

	if g.recorder != nil {
		if _, err := g.recorder.SaveScore(ID, g.score, g.seed); err != nil {
			return fmt.Errorf("game: cannot record score: %w", err)
		}
	}

	return nil
}

func (g *Game) onContactEnter(event breach.Event) {
	enter, ok := event.(breach.ContactEnterEvent)
	if !ok || enter.Relation != breach.RelationPlayerTarget || enter.B != targetScores {
		return
	}
	if g.mode == ModeGamePlay {
		return
	}

	g.scoresSelected = true
	g.logger.Info("scores selected", "mode", g.mode)
}
