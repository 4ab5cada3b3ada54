package component

import core "github.com/milk9111/reverie/component"

type PowerUp struct {
	Name string
	Item *core.PowerUp
}

var PowerUpComponent = NewComponent[PowerUp]()
