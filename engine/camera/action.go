package camera

// Action is a mouse-drag style camera manipulation.
type Action int

const (
	ActionNone Action = iota
	// ActionRotateV rotates the free camera about the lookat point.
	ActionRotateV
	// ActionRotateH rotates the free camera about the lookat point.
	ActionRotateH
	// ActionMoveV pans the lookat point in the view plane.
	ActionMoveV
	// ActionMoveH pans the lookat point across the horizontal plane.
	ActionMoveH
	// ActionZoom moves the camera toward or away from the lookat point.
	ActionZoom
)

func (a Action) String() string {
	switch a {
	case ActionRotateV:
		return "rotate-v"
	case ActionRotateH:
		return "rotate-h"
	case ActionMoveV:
		return "move-v"
	case ActionMoveH:
		return "move-h"
	case ActionZoom:
		return "zoom"
	default:
		return "none"
	}
}

// Motion is one queued pointer-driven camera adjustment. Deltas are fractions of the
// window height.
type Motion struct {
	Action Action
	DX, DY float32
}
