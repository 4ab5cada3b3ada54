package prefabs

import (
	"errors"
	"fmt"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
)

const DefaultDeathScript = "death_policy.tengo"

var ErrDeathPolicy = errors.New("prefabs: death policy")

var deathActions = map[string]bool{
	"reset":     true,
	"game_over": true,
	"destroy":   true,
}

// DeathPolicy runs a tengo script that picks what happens after a death.
// The script reads is_player and deaths and sets action and delay.
type DeathPolicy struct {
	name     string
	compiled *tengo.Compiled
}

// LoadDeathPolicy compiles the named script from prefabs/scripts.
func LoadDeathPolicy(name string) (*DeathPolicy, error) {
	if strings.TrimSpace(name) == "" {
		name = DefaultDeathScript
	}
	src, err := LoadScript(name)
	if err != nil {
		return nil, fmt.Errorf("prefabs: load script %s: %w", name, err)
	}
	return NewDeathPolicy(name, src)
}

func NewDeathPolicy(name string, src []byte) (*DeathPolicy, error) {
	script := tengo.NewScript(src)
	_ = script.Add("is_player", false)
	_ = script.Add("deaths", 0)
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("prefabs: compile %s: %w", name, err)
	}
	return &DeathPolicy{name: name, compiled: compiled}, nil
}

func (p *DeathPolicy) Name() string {
	if p == nil {
		return ""
	}
	return p.name
}

// Decide runs the script for one death.
func (p *DeathPolicy) Decide(player bool, deaths int) (string, float64, error) {
	if p == nil || p.compiled == nil {
		return "", 0, fmt.Errorf("%w: not loaded", ErrDeathPolicy)
	}
	if err := p.compiled.Set("is_player", player); err != nil {
		return "", 0, fmt.Errorf("%w: %s: set is_player: %v", ErrDeathPolicy, p.name, err)
	}
	if err := p.compiled.Set("deaths", deaths); err != nil {
		return "", 0, fmt.Errorf("%w: %s: set deaths: %v", ErrDeathPolicy, p.name, err)
	}
	if err := p.compiled.Run(); err != nil {
		return "", 0, fmt.Errorf("%w: %s: run: %v", ErrDeathPolicy, p.name, err)
	}
	if !p.compiled.IsDefined("action") {
		return "", 0, fmt.Errorf("%w: %s: action not set", ErrDeathPolicy, p.name)
	}
	action := strings.TrimSpace(p.compiled.Get("action").String())
	if !deathActions[action] {
		return "", 0, fmt.Errorf("%w: %s: unknown action %q", ErrDeathPolicy, p.name, action)
	}
	delay := 0.0
	if p.compiled.IsDefined("delay") {
		delay = p.compiled.Get("delay").Float()
	}
	return action, delay, nil
}
