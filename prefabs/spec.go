package prefabs

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

var ErrInvalidSpec = errors.New("prefabs: invalid spec")

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

type Vec3Spec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

type ColliderSpec struct {
	Width   float64 `yaml:"width"`
	Height  float64 `yaml:"height"`
	OffsetX float64 `yaml:"offset_x"`
	OffsetY float64 `yaml:"offset_y"`
}

type HealthSpec struct {
	Max             float64 `yaml:"max"`
	Invulnerability float64 `yaml:"invulnerability"`
	PerHeart        float64 `yaml:"per_heart"`
}

type GameSpec struct {
	Name          string      `yaml:"name"`
	FixedStep     float64     `yaml:"fixed_step"`
	RiderStrategy string      `yaml:"rider_strategy"`
	DeathScript   string      `yaml:"death_script"`
	Window        WindowSpec  `yaml:"window"`
	Camera        CameraSpec  `yaml:"camera"`
	Sim           SimSpec     `yaml:"sim"`
	Level         string      `yaml:"level"`
	Colors        ColorScheme `yaml:"colors"`
}

type WindowSpec struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

// CameraSpec maps world units to screen pixels for the side view.
type CameraSpec struct {
	PixelsPerUnit float64 `yaml:"pixels_per_unit"`
	Smoothness    float64 `yaml:"smoothness"`
}

// SimSpec is the scripted run used by the headless runner.
type SimSpec struct {
	Duration float64       `yaml:"duration"`
	Step     float64       `yaml:"step"`
	Script   []SimStepSpec `yaml:"script"`
}

// SimStepSpec holds the player input from At seconds until the next step.
type SimStepSpec struct {
	At       float64 `yaml:"at"`
	MoveX    float64 `yaml:"move_x"`
	MoveZ    float64 `yaml:"move_z"`
	Jump     bool    `yaml:"jump"`
	Attack   bool    `yaml:"attack"`
	Variant  int     `yaml:"variant"`
	Interact bool    `yaml:"interact"`
}

type ColorScheme struct {
	Background string `yaml:"background"`
	Island     string `yaml:"island"`
	Platform   string `yaml:"platform"`
	Player     string `yaml:"player"`
	Enemy      string `yaml:"enemy"`
	Hazard     string `yaml:"hazard"`
	PowerUp    string `yaml:"powerup"`
}

func (s GameSpec) Validate() error {
	var errs []error
	if s.FixedStep < 0 {
		errs = append(errs, fmt.Errorf("%w: game: negative fixed_step %v", ErrInvalidSpec, s.FixedStep))
	}
	if s.Window.Width < 0 || s.Window.Height < 0 {
		errs = append(errs, fmt.Errorf("%w: game: negative window size", ErrInvalidSpec))
	}
	if s.Sim.Step < 0 || s.Sim.Duration < 0 {
		errs = append(errs, fmt.Errorf("%w: game: negative sim timing", ErrInvalidSpec))
	}
	return errors.Join(errs...)
}

type PlayerSpec struct {
	Name       string             `yaml:"name"`
	Tag        string             `yaml:"tag"`
	Gravity    float64            `yaml:"gravity"`
	Stats      map[string]float64 `yaml:"stats"`
	Health     HealthSpec         `yaml:"health"`
	Collider   ColliderSpec       `yaml:"collider"`
	Checkpoint CheckpointSpec     `yaml:"checkpoint"`
}

type CheckpointSpec struct {
	KillY          float64 `yaml:"kill_y"`
	RespawnHeight  float64 `yaml:"respawn_height"`
	Grace          float64 `yaml:"grace"`
	IslandCooldown float64 `yaml:"island_cooldown"`
	MinNormalY     float64 `yaml:"min_normal_y"`
}

func (s PlayerSpec) Validate() error {
	var errs []error
	if s.Health.Max <= 0 {
		errs = append(errs, fmt.Errorf("%w: player: health.max %v must be positive", ErrInvalidSpec, s.Health.Max))
	}
	if s.Collider.Width <= 0 || s.Collider.Height <= 0 {
		errs = append(errs, fmt.Errorf("%w: player: collider must have a size", ErrInvalidSpec))
	}
	return errors.Join(errs...)
}

// StaffSpec is the weapon the player picks up. Each attack fires one
// projectile whose damage multiplies the wielder's attack_damage stat.
type StaffSpec struct {
	Name           string            `yaml:"name"`
	InteractRadius float64           `yaml:"interact_radius"`
	Cooldown       float64           `yaml:"cooldown"`
	Windup         float64           `yaml:"windup"`
	Projectile     ProjectileSpec    `yaml:"projectile"`
	Attacks        []StaffAttackSpec `yaml:"attacks"`
}

type ProjectileSpec struct {
	Lifetime    float64 `yaml:"lifetime"`
	Radius      float64 `yaml:"radius"`
	SpawnHeight float64 `yaml:"spawn_height"`
}

type StaffAttackSpec struct {
	Name   string  `yaml:"name"`
	Speed  float64 `yaml:"speed"`
	Damage float64 `yaml:"damage"`
}

func (s StaffSpec) Validate() error {
	var errs []error
	if len(s.Attacks) == 0 {
		errs = append(errs, fmt.Errorf("%w: staff %s: no attacks", ErrInvalidSpec, s.Name))
	}
	for i, a := range s.Attacks {
		if a.Speed <= 0 || a.Damage <= 0 {
			errs = append(errs, fmt.Errorf("%w: staff %s: attack %d needs a speed and damage", ErrInvalidSpec, s.Name, i+1))
		}
	}
	if s.Cooldown < 0 || s.Windup < 0 {
		errs = append(errs, fmt.Errorf("%w: staff %s: negative timing", ErrInvalidSpec, s.Name))
	}
	if s.Projectile.Lifetime <= 0 || s.Projectile.Radius <= 0 {
		errs = append(errs, fmt.Errorf("%w: staff %s: projectile needs a lifetime and radius", ErrInvalidSpec, s.Name))
	}
	return errors.Join(errs...)
}

type EnemySpec struct {
	Name             string       `yaml:"name"`
	ContactDamage    float64      `yaml:"contact_damage"`
	StoppingDistance float64      `yaml:"stopping_distance"`
	Health           HealthSpec   `yaml:"health"`
	Pursuit          PursuitSpec  `yaml:"pursuit"`
	Collider         ColliderSpec `yaml:"collider"`
}

type PursuitSpec struct {
	DetectionRadius  float64 `yaml:"detection_radius"`
	AttackRadius     float64 `yaml:"attack_radius"`
	WalkSpeed        float64 `yaml:"walk_speed"`
	ChaseSpeed       float64 `yaml:"chase_speed"`
	AttackCooldown   float64 `yaml:"attack_cooldown"`
	AttackDuration   float64 `yaml:"attack_duration"`
	HysteresisMargin float64 `yaml:"hysteresis_margin"`
	PathSlack        float64 `yaml:"path_slack"`
	FallbackRadius   float64 `yaml:"fallback_radius"`
	TurnRate         float64 `yaml:"turn_rate"`
}

func (s EnemySpec) Validate() error {
	var errs []error
	if s.Health.Max <= 0 {
		errs = append(errs, fmt.Errorf("%w: enemy %s: health.max %v must be positive", ErrInvalidSpec, s.Name, s.Health.Max))
	}
	if s.ContactDamage < 0 {
		errs = append(errs, fmt.Errorf("%w: enemy %s: negative contact_damage", ErrInvalidSpec, s.Name))
	}
	if s.Collider.Width <= 0 || s.Collider.Height <= 0 {
		errs = append(errs, fmt.Errorf("%w: enemy %s: collider must have a size", ErrInvalidSpec, s.Name))
	}
	return errors.Join(errs...)
}

type PlatformsSpec struct {
	Platforms []PlatformSpec `yaml:"platforms"`
}

// PlatformSpec describes one moving platform. Direction is a preset name
// ("up", "right", ...) unless Vector is set.
type PlatformSpec struct {
	Name       string    `yaml:"name"`
	Position   Vec3Spec  `yaml:"position"`
	Direction  string    `yaml:"direction"`
	Vector     *Vec3Spec `yaml:"vector"`
	Distance   float64   `yaml:"distance"`
	TravelTime float64   `yaml:"travel_time"`
	WaitAtA    float64   `yaml:"wait_at_a"`
	WaitAtB    float64   `yaml:"wait_at_b"`
	Start      string    `yaml:"start"`
	FixedStep  bool      `yaml:"fixed_step"`
	Strategy   string    `yaml:"strategy"`
	Width      float64   `yaml:"width"`
	Height     float64   `yaml:"height"`
}

func (s PlatformsSpec) Validate() error {
	var errs []error
	seen := map[string]bool{}
	for i, p := range s.Platforms {
		if p.Name == "" {
			errs = append(errs, fmt.Errorf("%w: platform %d has no name", ErrInvalidSpec, i))
		} else if seen[p.Name] {
			errs = append(errs, fmt.Errorf("%w: duplicate platform %q", ErrInvalidSpec, p.Name))
		}
		seen[p.Name] = true
		if p.Width <= 0 || p.Height <= 0 {
			errs = append(errs, fmt.Errorf("%w: platform %q must have a size", ErrInvalidSpec, p.Name))
		}
	}
	return errors.Join(errs...)
}

type PowerUpsSpec struct {
	PowerUps map[string]PowerUpSpec `yaml:"powerups"`
}

type PowerUpSpec struct {
	Kind            string  `yaml:"kind"`
	Amount          float64 `yaml:"amount"`
	Ticks           int     `yaml:"ticks"`
	Interval        float64 `yaml:"interval"`
	Duration        float64 `yaml:"duration"`
	Multiplier      float64 `yaml:"multiplier"`
	Stat            string  `yaml:"stat"`
	PickupRadius    float64 `yaml:"pickup_radius"`
	RespawnDelay    float64 `yaml:"respawn_delay"`
	RequireInteract bool    `yaml:"require_interact"`
}

type LevelSpec struct {
	Name        string             `yaml:"name"`
	PlayerSpawn Vec3Spec           `yaml:"player_spawn"`
	NavGrid     NavGridSpec        `yaml:"nav_grid"`
	Islands     []IslandSpec       `yaml:"islands"`
	Enemies     []EnemySpawnSpec   `yaml:"enemies"`
	PowerUps    []PowerUpSpawnSpec `yaml:"powerups"`
	Hazards     []HazardSpec       `yaml:"hazards"`
	Staffs      []ItemSpawnSpec    `yaml:"staffs"`
	Boxes       []BoxSpec          `yaml:"boxes"`
}

type NavGridSpec struct {
	Origin   Vec3Spec `yaml:"origin"`
	CellSize float64  `yaml:"cell_size"`
	Width    int      `yaml:"width"`
	Depth    int      `yaml:"depth"`
	MaxNodes int      `yaml:"max_nodes"`
	// Blocked lists cells as [x, z] pairs.
	Blocked [][2]int `yaml:"blocked"`
}

// IslandSpec is a static piece of ground. Checkpoint islands save the
// player's respawn point when landed on.
type IslandSpec struct {
	Name       string   `yaml:"name"`
	Position   Vec3Spec `yaml:"position"`
	Width      float64  `yaml:"width"`
	Height     float64  `yaml:"height"`
	Checkpoint bool     `yaml:"checkpoint"`
}

// EnemySpawnSpec places an enemy. Overrides is decoded over the enemy
// spec, so a spawn can retune any field.
type EnemySpawnSpec struct {
	Name      string         `yaml:"name"`
	Position  Vec3Spec       `yaml:"position"`
	Overrides map[string]any `yaml:"overrides"`
}

type PowerUpSpawnSpec struct {
	Name     string   `yaml:"name"`
	Type     string   `yaml:"type"`
	Position Vec3Spec `yaml:"position"`
}

type ItemSpawnSpec struct {
	Name     string   `yaml:"name"`
	Position Vec3Spec `yaml:"position"`
}

// BoxSpec is a closed crate. Opening it reveals a chicken the player can
// carry.
type BoxSpec struct {
	Name           string    `yaml:"name"`
	Position       Vec3Spec  `yaml:"position"`
	Width          float64   `yaml:"width"`
	Height         float64   `yaml:"height"`
	InteractRadius float64   `yaml:"interact_radius"`
	Chicken        CarrySpec `yaml:"chicken"`
}

type CarrySpec struct {
	PickupRadius float64 `yaml:"pickup_radius"`
	CarryHeight  float64 `yaml:"carry_height"`
}

type HazardSpec struct {
	Name     string   `yaml:"name"`
	Position Vec3Spec `yaml:"position"`
	Width    float64  `yaml:"width"`
	Height   float64  `yaml:"height"`
	Damage   float64  `yaml:"damage"`
	Kill     bool     `yaml:"kill"`
}

func (s LevelSpec) Validate() error {
	var errs []error
	if s.NavGrid.CellSize <= 0 || s.NavGrid.Width <= 0 || s.NavGrid.Depth <= 0 {
		errs = append(errs, fmt.Errorf("%w: level %s: nav grid needs a cell size and extent", ErrInvalidSpec, s.Name))
	}
	for _, is := range s.Islands {
		if is.Width <= 0 || is.Height <= 0 {
			errs = append(errs, fmt.Errorf("%w: level %s: island %q must have a size", ErrInvalidSpec, s.Name, is.Name))
		}
	}
	for _, h := range s.Hazards {
		if !h.Kill && h.Damage <= 0 {
			errs = append(errs, fmt.Errorf("%w: level %s: hazard %q deals no damage", ErrInvalidSpec, s.Name, h.Name))
		}
	}
	for _, b := range s.Boxes {
		if b.Width <= 0 || b.Height <= 0 {
			errs = append(errs, fmt.Errorf("%w: level %s: box %q must have a size", ErrInvalidSpec, s.Name, b.Name))
		}
	}
	return errors.Join(errs...)
}
