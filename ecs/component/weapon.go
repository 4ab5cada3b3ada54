package component

// StaffAttack is one attack variant: the projectile speed and a multiplier
// on the wielder's attack_damage stat.
type StaffAttack struct {
	Name   string
	Speed  float64
	Damage float64
}

// Weapon is the staff the player has equipped. Without one the player
// cannot attack. Selected indexes Attacks; Casting is set between the
// attack press and the projectile launch.
type Weapon struct {
	Name        string
	Attacks     []StaffAttack
	Selected    int
	Cooldown    float64
	Windup      float64
	Lifetime    float64
	Radius      float64
	SpawnHeight float64
	LastFire    float64
	Casting     bool
}

var WeaponComponent = NewComponent[Weapon]()

// StaffPickup is a staff lying in the level, waiting to be equipped.
type StaffPickup struct {
	Name           string
	InteractRadius float64
	Weapon         Weapon
}

var StaffPickupComponent = NewComponent[StaffPickup]()
