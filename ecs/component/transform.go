package component

import core "github.com/milk9111/reverie/component"

// Transform places an entity in the world. The frame may be parented to a
// platform while riding.
type Transform struct {
	Frame *core.Frame
}

var TransformComponent = NewComponent[Transform]()
