package component

type PlayerTag struct{}

var PlayerTagComponent = NewComponent[PlayerTag]()

type EnemyTag struct{}

var EnemyTagComponent = NewComponent[EnemyTag]()

// Tag is the scene tag used for lookups such as "Player".
type Tag struct {
	Name string
}

var TagComponent = NewComponent[Tag]()

// Dead marks an entity whose health ran out. At is the clock time of death.
type Dead struct {
	At float64
}

var DeadComponent = NewComponent[Dead]()
