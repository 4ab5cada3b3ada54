package component

import core "github.com/milk9111/reverie/component"

type Health struct {
	Pool *core.HealthPool
	// PerHeart is how many points one HUD heart shows. Zero hides hearts.
	PerHeart float64
}

var HealthComponent = NewComponent[Health]()

type Stats struct {
	Block *core.StatBlock
}

var StatsComponent = NewComponent[Stats]()
