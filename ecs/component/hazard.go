package component

// Hazard hurts actors touching its sensor. Kill ignores invulnerability.
type Hazard struct {
	Damage float64
	Kill   bool
}

var HazardComponent = NewComponent[Hazard]()
