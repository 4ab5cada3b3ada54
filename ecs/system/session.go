package system

import (
	"fmt"
	"log/slog"

	"github.com/milk9111/reverie/ecs"
	"github.com/milk9111/reverie/ecs/component"
	"github.com/milk9111/reverie/ecs/entity"
	"github.com/milk9111/reverie/prefabs"
)

// Session is one playthrough of a level: the world, what was built into it
// and the pipeline driving it. A level reset is a new Session.
type Session struct {
	World    *ecs.World
	Level    *entity.Level
	Pipeline *Pipeline
}

// NewSession builds a fresh world from b. Pieces of the level that fail to
// build are logged and skipped; a level without a player is an error.
func NewSession(b prefabs.Bundle, policy DeathPolicy, logger *slog.Logger) (*Session, error) {
	if logger == nil {
		logger = slog.Default()
	}
	w := ecs.NewWorld()
	w.SetLogger(logger)
	w.SetPhysicsWorld(ecs.NewPhysicsWorld(logger))

	lvl, err := entity.LoadLevel(w, b)
	if lvl == nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	if err != nil {
		logger.Warn("session: level built with errors", "level", lvl.Name, "err", err)
	}
	return &Session{
		World:    w,
		Level:    lvl,
		Pipeline: NewPipeline(w, b.Game.FixedStep, policy),
	}, nil
}

// LoadPolicy compiles the named death script. A script that fails to load
// leaves the built-in defaults in charge.
func LoadPolicy(name string, logger *slog.Logger) DeathPolicy {
	if logger == nil {
		logger = slog.Default()
	}
	if name == "" {
		name = prefabs.DefaultDeathScript
	}
	policy, err := prefabs.LoadDeathPolicy(name)
	if err != nil {
		logger.Warn("session: death policy", "script", name, "err", err)
		return nil
	}
	return policy
}

func (s *Session) player() (*component.Player, bool) {
	if s == nil || s.World == nil || s.Level == nil {
		return nil, false
	}
	return ecs.Get(s.World, s.Level.Player, component.PlayerComponent.Kind())
}

// SetInput hands the player this tick's input.
func (s *Session) SetInput(in component.PlayerInput) {
	if p, ok := s.player(); ok {
		p.Input = in
	}
}

// Step advances the session and returns the events it raised.
func (s *Session) Step(dt float64) []ecs.Event {
	if s == nil {
		return nil
	}
	return s.Pipeline.Step(dt)
}

// PlayerHealth returns the player's health component, if the player is
// still around.
func (s *Session) PlayerHealth() (*component.Health, bool) {
	if s == nil || s.World == nil || s.Level == nil {
		return nil, false
	}
	return ecs.Get(s.World, s.Level.Player, component.HealthComponent.Kind())
}

// Deaths is how many times the player has died in this session.
func (s *Session) Deaths() int {
	if p, ok := s.player(); ok {
		return p.Deaths
	}
	return 0
}

// SetDeaths seeds the player's death count, so a reset level keeps counting
// toward game over.
func (s *Session) SetDeaths(n int) {
	if p, ok := s.player(); ok && n >= 0 {
		p.Deaths = n
	}
}
