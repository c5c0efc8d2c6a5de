package sim

// EventKind tags an Event.
type EventKind uint8

const (
	EventNone EventKind = iota
	// Player physics, at most one per step.
	EventJump
	EventDoubleJump
	EventTrail
	EventThrust
	EventCurrency
	EventPower
	// Run level.
	EventStomp
	EventShieldBlock
	EventSafetyBounce
	EventDeath
	EventRevivePrompt
	EventRevived
	EventLoopSecured
	EventNewBest
	EventStory
	EventAchievement
	EventGameOver
	EventRunStarted
	EventRemoteDied
	EventRemoteRevived
	EventPeerLost
)

var eventNames = [...]string{
	EventNone:          "none",
	EventJump:          "jump",
	EventDoubleJump:    "double_jump",
	EventTrail:         "trail",
	EventThrust:        "thrust",
	EventCurrency:      "currency",
	EventPower:         "power",
	EventStomp:         "stomp",
	EventShieldBlock:   "shield_block",
	EventSafetyBounce:  "safety_bounce",
	EventDeath:         "death",
	EventRevivePrompt:  "revive_prompt",
	EventRevived:       "revived",
	EventLoopSecured:   "loop_secured",
	EventNewBest:       "new_best",
	EventStory:         "story",
	EventAchievement:   "achievement",
	EventGameOver:      "game_over",
	EventRunStarted:    "run_started",
	EventRemoteDied:    "remote_died",
	EventRemoteRevived: "remote_revived",
	EventPeerLost:      "peer_lost",
}

func (k EventKind) String() string {
	if int(k) < len(eventNames) {
		return eventNames[k]
	}
	return "unknown"
}

// Event is the single channel through which the simulation reports effects.
// Only the fields relevant to Kind are set.
type Event struct {
	Kind        EventKind
	X, Y        float64       // Where it happened
	Power       PowerKind     // EventPower
	Text        string        // EventStory, EventLoopSecured, EventAchievement
	Achievement AchievementID // EventAchievement
	CanRevive   bool          // EventDeath
}

// priority orders physics events when several happen in one step.
func (k EventKind) priority() int {
	switch k {
	case EventCurrency, EventPower:
		return 4
	case EventJump, EventDoubleJump:
		return 3
	case EventThrust:
		return 2
	case EventTrail:
		return 1
	default:
		return 0
	}
}
