package component

import core "github.com/milk9111/reverie/component"

// Enemy is a pursuing enemy. PendingAttacks counts attacks the pursuit
// agent started since combat last ran. AttackReach is how far those attacks
// land from the enemy's position.
type Enemy struct {
	Name           string
	Agent          *core.PursuitAgent
	Nav            *core.NavAgent
	Animator       *core.AnimationParams
	Token          *core.CancelToken
	ContactDamage  float64
	AttackReach    float64
	PendingAttacks int
	LastState      core.PursuitState
}

var EnemyComponent = NewComponent[Enemy]()
