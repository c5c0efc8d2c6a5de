package core

// Action represents a semantic game action, abstracted from physical key presses.
type Action int

const (
	ActionNone     Action = iota
	ActionLeft            // A, Left arrow
	ActionRight           // D, Right arrow
	ActionJump            // Space, W, Up arrow
	ActionConfirm         // Enter - start run, accept prompt
	ActionBack            // B, Escape - decline prompt, back to menu
	ActionPrevSkin        // [ - previous skin in the menu
	ActionNextSkin        // ] - next skin in the menu
	ActionBoost           // X - buy the shield boost
	ActionQuit            // Q, Ctrl+C
	ActionPause           // P
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionJump:
		return "Jump"
	case ActionConfirm:
		return "Confirm"
	case ActionBack:
		return "Back"
	case ActionPrevSkin:
		return "PrevSkin"
	case ActionNextSkin:
		return "NextSkin"
	case ActionBoost:
		return "Boost"
	case ActionQuit:
		return "Quit"
	case ActionPause:
		return "Pause"
	default:
		return "Unknown"
	}
}

// Intent is the per-step input snapshot consumed by the simulation.
type Intent struct {
	Left  bool
	Right bool
	// JumpBuffer is the number of steps a jump press stays consumable.
	JumpBuffer float64
}

// Jumping reports whether a buffered jump is pending.
func (in Intent) Jumping() bool {
	return in.JumpBuffer > 0
}

// IntentBuffer turns discrete key presses into held intents.
// Terminals only report key presses (with auto-repeat), never releases, so a
// direction stays held for holdSteps after its last press.
type IntentBuffer struct {
	holdSteps  float64
	jumpSteps  float64
	left       float64
	right      float64
	jumpBuffer float64
}

// NewIntentBuffer creates a buffer with the given hold and jump windows in steps.
func NewIntentBuffer(holdSteps, jumpSteps float64) *IntentBuffer {
	return &IntentBuffer{holdSteps: holdSteps, jumpSteps: jumpSteps}
}

// Press records a key press mapped to an action. Non-movement actions are ignored.
func (b *IntentBuffer) Press(a Action) {
	switch a {
	case ActionLeft:
		b.left = b.holdSteps
		b.right = 0
	case ActionRight:
		b.right = b.holdSteps
		b.left = 0
	case ActionJump:
		b.jumpBuffer = b.jumpSteps
	}
}

// Snapshot returns the intent for the current step.
func (b *IntentBuffer) Snapshot() Intent {
	return Intent{
		Left:       b.left > 0,
		Right:      b.right > 0,
		JumpBuffer: b.jumpBuffer,
	}
}

// ConsumeJump clears a pending jump once the simulation has used it.
func (b *IntentBuffer) ConsumeJump() {
	b.jumpBuffer = 0
}

// Tick ages all held intents by dt steps.
func (b *IntentBuffer) Tick(dt float64) {
	b.left = decay(b.left, dt)
	b.right = decay(b.right, dt)
	b.jumpBuffer = decay(b.jumpBuffer, dt)
}

// Reset releases every held intent.
func (b *IntentBuffer) Reset() {
	b.left, b.right, b.jumpBuffer = 0, 0, 0
}

func decay(v, dt float64) float64 {
	v -= dt
	if v < 0 {
		return 0
	}
	return v
}
