package main

import (
	"fmt"
	"image/color"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/reverie/common"
	"github.com/milk9111/reverie/ecs"
	"github.com/milk9111/reverie/ecs/component"
	"github.com/milk9111/reverie/ecs/system"
	"github.com/milk9111/reverie/prefabs"
)

const (
	defaultWidth  = 960
	defaultHeight = 540
)

// Game is the debug viewer: it steps one Session per frame and draws the
// physics bounds of everything in it from the side.
type Game struct {
	logger  *slog.Logger
	debug   bool
	bundle  prefabs.Bundle
	policy  system.DeathPolicy
	session *system.Session
	watcher *prefabs.Watcher

	width, height int
	camera        *camera
	colors        palette

	frames   int
	paused   bool
	gameOver bool
	quit     bool
	pauseUI  *ebitenui.UI
	overUI   *ebitenui.UI
}

func NewGame(b prefabs.Bundle, logger *slog.Logger, debug bool) (*Game, error) {
	g := &Game{
		logger: logger,
		debug:  debug,
		width:  b.Game.Window.Width,
		height: b.Game.Window.Height,
	}
	if g.width <= 0 || g.height <= 0 {
		g.width, g.height = defaultWidth, defaultHeight
	}
	g.apply(b)
	g.policy = system.LoadPolicy(b.Game.DeathScript, logger)
	if err := g.restartWith(0); err != nil {
		return nil, err
	}
	g.pauseUI = NewPauseUI(g)
	g.overUI = NewGameOverUI(g)

	w, err := prefabs.NewWatcher(logger, prefabs.DiskDir, filepath.Join(prefabs.DiskDir, "scripts"))
	if err != nil {
		logger.Warn("game: hot reload disabled", "err", err)
	} else {
		g.watcher = w
	}
	return g, nil
}

// apply takes the view settings from a freshly loaded bundle.
func (g *Game) apply(b prefabs.Bundle) {
	g.bundle = b
	g.camera = newCamera(b.Game.Camera, g.width, g.height)
	colors, err := newPalette(b.Game.Colors)
	if err != nil {
		g.logger.Warn("game: palette", "err", err)
	}
	g.colors = colors
}

// restartWith builds a new session, seeding the player's death count.
func (g *Game) restartWith(deaths int) error {
	sess, err := system.NewSession(g.bundle, g.policy, g.logger)
	if err != nil {
		return err
	}
	sess.SetDeaths(deaths)
	g.session = sess
	if pos, ok := g.playerPosition(); ok {
		g.camera.snap(pos)
	}
	return nil
}

// restart is the menu action: a fresh run with no deaths counted.
func (g *Game) restart() {
	if err := g.restartWith(0); err != nil {
		g.logger.Error("game: restart", "err", err)
		return
	}
	g.paused = false
	g.gameOver = false
}

func (g *Game) Close() error {
	if g.watcher == nil {
		return nil
	}
	return g.watcher.Close()
}

func (g *Game) Update() error {
	if g.quit {
		return ebiten.Termination
	}
	g.frames++
	g.reload()

	if inpututil.IsKeyJustPressed(ebiten.KeyP) && !g.gameOver {
		g.paused = !g.paused
	}
	if g.gameOver {
		g.overUI.Update()
		return nil
	}
	if g.paused {
		g.pauseUI.Update()
		return nil
	}

	g.session.SetInput(readInput())
	dt := 1.0 / float64(ebiten.TPS())
	reset := false
	for _, evt := range g.session.Step(dt) {
		switch evt.Type {
		case ecs.EventLevelReset:
			reset = true
		case ecs.EventGameOver:
			g.gameOver = true
		case ecs.EventStateChange, ecs.EventPickup, ecs.EventRespawn:
			g.logger.Debug(string(evt.Type), "entity", evt.Entity, "detail", evt.Detail)
		}
	}
	if reset && !g.gameOver {
		if err := g.restartWith(g.session.Deaths()); err != nil {
			return fmt.Errorf("game: reset: %w", err)
		}
	}
	if pos, ok := g.playerPosition(); ok {
		g.camera.follow(pos, dt)
	}
	return nil
}

// readInput maps the keyboard onto the side view: left/right move along X,
// up/down along depth. X swings the current staff attack, 1-3 pick one.
func readInput() component.PlayerInput {
	var in component.PlayerInput
	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		in.MoveX--
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		in.MoveX++
	}
	if ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		in.MoveZ++
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		in.MoveZ--
	}
	in.Jump = inpututil.IsKeyJustPressed(ebiten.KeySpace)
	in.Attack = inpututil.IsKeyJustPressed(ebiten.KeyX)
	for i, key := range []ebiten.Key{ebiten.Key1, ebiten.Key2, ebiten.Key3} {
		if inpututil.IsKeyJustPressed(key) {
			in.Attack = true
			in.Variant = i + 1
		}
	}
	in.Interact = ebiten.IsKeyPressed(ebiten.KeyE)
	return in
}

// reload drains the watcher and rebuilds whatever changed. Spec edits
// rebuild the level; script edits only swap the death policy.
func (g *Game) reload() {
	if g.watcher == nil {
		return
	}
	specs, scripts := false, false
drain:
	for {
		select {
		case ch, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			if modTime, found := prefabs.ModTime(ch.Name); found {
				g.logger.Info("game: changed", "file", ch.Name, "modified", modTime)
			}
			switch ch.Kind {
			case prefabs.ChangeSpec:
				specs = true
			case prefabs.ChangeScript:
				scripts = true
			}
		case err, ok := <-g.watcher.Errors:
			if ok {
				g.logger.Warn("game: watch", "err", err)
			}
		default:
			break drain
		}
	}

	if scripts {
		g.policy = system.LoadPolicy(g.bundle.Game.DeathScript, g.logger)
		g.session.Pipeline.SetDeathPolicy(g.policy)
	}
	if !specs {
		return
	}
	b, err := prefabs.LoadAll(g.logger)
	if err != nil {
		g.logger.Error("game: reload", "err", err)
		return
	}
	g.apply(b)
	if err := g.restartWith(g.session.Deaths()); err != nil {
		g.logger.Error("game: reload", "err", err)
		return
	}
	g.logger.Info("game: reloaded", "level", g.session.Level.Name)
}

func (g *Game) playerPosition() (common.Vec3, bool) {
	tr, ok := ecs.Get(g.session.World, g.session.Level.Player, component.TransformComponent.Kind())
	if !ok {
		return common.Vec3{}, false
	}
	return tr.Frame.WorldPosition(), true
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(g.colors.background)
	g.drawWorld(screen)
	g.drawHUD(screen)

	switch {
	case g.gameOver:
		g.overUI.Draw(screen)
	case g.paused:
		g.pauseUI.Draw(screen)
	}
}

func (g *Game) drawWorld(screen *ebiten.Image) {
	s := g.session
	pw := s.World.PhysicsWorld()
	body := func(e ecs.Entity, role ecs.ShapeRole, clr color.Color, fill bool) {
		bb, ok := pw.Bounds(e, role)
		if !ok {
			return
		}
		if fill {
			g.camera.fillBB(screen, bb, clr)
		} else {
			g.camera.strokeBB(screen, bb, clr)
		}
	}

	for _, e := range s.Level.Islands {
		body(e, ecs.RoleSolid, g.colors.island, true)
	}
	for _, e := range s.Level.Platforms {
		body(e, ecs.RoleSolid, g.colors.platform, true)
	}
	for _, e := range s.Level.Hazards {
		body(e, ecs.RoleSensor, g.colors.hazard, false)
	}
	for _, e := range s.Level.PowerUps {
		pu, ok := ecs.Get(s.World, e, component.PowerUpComponent.Kind())
		if !ok || !pu.Item.Available() {
			continue
		}
		g.camera.dot(screen, pu.Item.Position(), 0.3, g.colors.powerup)
	}
	for _, e := range s.Level.Enemies {
		body(e, ecs.RoleActor, g.colors.enemy, true)
		if !g.debug {
			continue
		}
		if en, ok := ecs.Get(s.World, e, component.EnemyComponent.Kind()); ok {
			if pos, ok := pw.Position(e); ok {
				g.camera.label(screen, pos.Add(common.V3(0, 2, 0)), en.Agent.State().String())
			}
		}
	}
	for _, e := range s.Level.Boxes {
		body(e, ecs.RoleSensor, g.colors.platform, false)
	}
	for _, e := range s.Level.Staffs {
		if tr, ok := ecs.Get(s.World, e, component.TransformComponent.Kind()); ok {
			g.camera.dot(screen, tr.Frame.WorldPosition().Add(common.V3(0, 0.5, 0)), 0.2, g.colors.powerup)
		}
	}
	ecs.ForEach2(s.World, component.CarryableComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, _ *component.Carryable, tr *component.Transform) {
		g.camera.dot(screen, tr.Frame.WorldPosition().Add(common.V3(0, 0.3, 0)), 0.3, g.colors.hazard)
	})
	ecs.ForEach(s.World, component.ProjectileComponent.Kind(), func(e ecs.Entity, _ *component.Projectile) {
		body(e, ecs.RoleSensor, g.colors.powerup, true)
	})
	body(s.Level.Player, ecs.RoleActor, g.colors.player, true)
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	if h, ok := g.session.PlayerHealth(); ok {
		drawHearts(screen, h.Pool.Hearts(h.PerHeart), g.colors.player)
	}
	status := []string{g.session.Level.Name, fmt.Sprintf("deaths %d", g.session.Deaths())}
	if g.paused {
		status = append(status, "paused")
	}
	drawText(screen, strings.Join(status, "  "), 12, 34, g.colors.hazard)
	if g.debug {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Frames: %d    FPS: %.2f", g.frames, ebiten.ActualFPS()), 12, g.height-20)
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return float64(g.width), float64(g.height)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
