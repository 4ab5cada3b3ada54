package prefabs

import (
	"fmt"
	"log/slog"
)

// Bundle is every spec a level needs.
type Bundle struct {
	Game      GameSpec
	Player    PlayerSpec
	Enemy     EnemySpec
	Platforms PlatformsSpec
	PowerUps  PowerUpsSpec
	Staff     StaffSpec
	Level     LevelSpec
}

// LoadAll reads the game spec and everything it refers to. Specs that fail
// validation are still returned; the problems are logged as warnings.
func LoadAll(logger *slog.Logger) (Bundle, error) {
	if logger == nil {
		logger = slog.Default()
	}
	var (
		b   Bundle
		err error
	)
	if b.Game, err = LoadSpec[GameSpec]("game.yaml"); err != nil {
		return Bundle{}, err
	}
	level := b.Game.Level
	if level == "" {
		level = "level.yaml"
	}
	if b.Player, err = LoadSpec[PlayerSpec]("player.yaml"); err != nil {
		return Bundle{}, err
	}
	if b.Enemy, err = LoadSpec[EnemySpec]("enemy.yaml"); err != nil {
		return Bundle{}, err
	}
	if b.Platforms, err = LoadSpec[PlatformsSpec]("platforms.yaml"); err != nil {
		return Bundle{}, err
	}
	if b.PowerUps, err = LoadSpec[PowerUpsSpec]("powerups.yaml"); err != nil {
		return Bundle{}, err
	}
	if b.Staff, err = LoadSpec[StaffSpec]("staff.yaml"); err != nil {
		return Bundle{}, err
	}
	if b.Level, err = LoadSpec[LevelSpec](level); err != nil {
		return Bundle{}, fmt.Errorf("prefabs: level %s: %w", level, err)
	}

	for name, v := range map[string]interface{ Validate() error }{
		"game":      b.Game,
		"player":    b.Player,
		"enemy":     b.Enemy,
		"platforms": b.Platforms,
		"staff":     b.Staff,
		"level":     b.Level,
	} {
		if err := v.Validate(); err != nil {
			logger.Warn("prefabs: validate", "spec", name, "err", err)
		}
	}
	return b, nil
}
