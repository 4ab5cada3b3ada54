package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/milk9111/reverie/ecs"
	"github.com/milk9111/reverie/ecs/component"
	"github.com/milk9111/reverie/ecs/system"
	"github.com/milk9111/reverie/prefabs"
)

func main() {
	duration := flag.Float64("duration", 0, "seconds to simulate (0 uses game.yaml)")
	step := flag.Float64("step", 0, "seconds per tick (0 uses game.yaml)")
	debug := flag.Bool("debug", false, "log at debug level")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	flag.Parse()

	logger, err := newLogger(*logLevel, *debug)
	if err != nil {
		log.Fatal(err)
	}
	slog.SetDefault(logger)

	sum, err := run(logger, *duration, *step)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Print(sum)
}

func newLogger(level string, debug bool) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("reverie-sim: log level %q: %w", level, err)
	}
	if debug {
		lvl = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})), nil
}

type summary struct {
	level    string
	elapsed  float64
	ticks    int
	resets   int
	gameOver bool
	deaths   int
	health   float64
	counts   map[ecs.EventType]int
	states   []string
}

func (s summary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "level %s: %.2fs in %d ticks\n", s.level, s.elapsed, s.ticks)
	fmt.Fprintf(&b, "  player: deaths=%d health=%.1f resets=%d game_over=%t\n", s.deaths, s.health, s.resets, s.gameOver)
	types := make([]string, 0, len(s.counts))
	for t := range s.counts {
		types = append(types, string(t))
	}
	sort.Strings(types)
	for _, t := range types {
		fmt.Fprintf(&b, "  %-12s %d\n", t, s.counts[ecs.EventType(t)])
	}
	if len(s.states) > 0 {
		fmt.Fprintf(&b, "  pursuit: %s\n", strings.Join(s.states, " "))
	}
	return b.String()
}

func run(logger *slog.Logger, duration, step float64) (summary, error) {
	b, err := prefabs.LoadAll(logger)
	if err != nil {
		return summary{}, err
	}
	if duration <= 0 {
		duration = b.Game.Sim.Duration
	}
	if step <= 0 {
		step = b.Game.Sim.Step
	}
	if step <= 0 {
		step = 1.0 / 60.0
	}

	policy := system.LoadPolicy(b.Game.DeathScript, logger)
	sess, err := system.NewSession(b, policy, logger)
	if err != nil {
		return summary{}, err
	}

	sum := summary{level: sess.Level.Name, counts: map[ecs.EventType]int{}}
	// Script time restarts with each reset level.
	levelStart := 0.0
	for t := 0.0; t < duration && !sum.gameOver; t += step {
		in := b.Game.Sim.InputAt(t - levelStart)
		sess.SetInput(component.PlayerInput{
			MoveX:    in.MoveX,
			MoveZ:    in.MoveZ,
			Jump:     in.Jump,
			Attack:   in.Attack,
			Variant:  in.Variant,
			Interact: in.Interact,
		})
		reset := false
		for _, evt := range sess.Step(step) {
			sum.counts[evt.Type]++
			logEvent(logger, evt)
			switch evt.Type {
			case ecs.EventStateChange:
				sum.states = append(sum.states, evt.Detail)
			case ecs.EventLevelReset:
				reset = true
			case ecs.EventGameOver:
				sum.gameOver = true
			}
		}
		sum.ticks++
		sum.elapsed = t + step
		sum.deaths = sess.Deaths()
		if reset && !sum.gameOver {
			deaths := sess.Deaths()
			if sess, err = system.NewSession(b, policy, logger); err != nil {
				return sum, err
			}
			sess.SetDeaths(deaths)
			sum.resets++
			levelStart = t + step
		}
	}
	if h, ok := sess.PlayerHealth(); ok {
		sum.health = h.Pool.Current()
	}
	return sum, nil
}

func logEvent(logger *slog.Logger, evt ecs.Event) {
	switch evt.Type {
	case ecs.EventStateChange:
		logger.Info("pursuit", "entity", evt.Entity, "state", evt.Detail, "t", evt.Time)
	case ecs.EventDamage:
		logger.Info("damage", "entity", evt.Entity, "source", evt.Source, "amount", evt.Amount, "detail", evt.Detail, "t", evt.Time)
	case ecs.EventDeath:
		logger.Info("death", "entity", evt.Entity, "t", evt.Time)
	case ecs.EventPickup:
		logger.Info("pickup", "entity", evt.Entity, "kind", evt.Detail, "t", evt.Time)
	case ecs.EventInteract:
		logger.Info("interact", "entity", evt.Entity, "with", evt.Detail, "t", evt.Time)
	case ecs.EventRespawn:
		logger.Info("respawn", "entity", evt.Entity, "pos", evt.Position, "t", evt.Time)
	case ecs.EventLevelReset, ecs.EventGameOver:
		logger.Info(string(evt.Type), "deaths", evt.Amount, "t", evt.Time)
	default:
		logger.Debug(string(evt.Type), "entity", evt.Entity, "t", evt.Time)
	}
}
