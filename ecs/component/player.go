package component

import core "github.com/milk9111/reverie/component"

// PlayerInput is what the player asked for this tick. The viewer fills it
// from the keyboard and the headless runner from a script. Attack fires the
// staff; Variant picks attack 1..3 first, zero keeps the current one.
type PlayerInput struct {
	MoveX    float64
	MoveZ    float64
	Jump     bool
	Attack   bool
	Variant  int
	Interact bool
}

// Player is the controllable character. InteractPressed is true only on the
// tick interact went down; InteractHeld remembers the previous tick.
type Player struct {
	Input           PlayerInput
	AttackQueued    bool
	InteractPressed bool
	InteractHeld    bool
	Token           *core.CancelToken
	Deaths          int
}

var PlayerComponent = NewComponent[Player]()
