package geneng

// StepKind tags the variant a HistoryStep holds. We use a tagged struct
// rather than an interface-per-variant hierarchy, since history steps are a
// closed, small set of shapes replayed in a single hot loop.
type StepKind uint8

const (
	// StepGet: visited a location, collected an item.
	StepGet StepKind = iota
	// StepHybrid: traversed a hybrid exit that also collects a location.
	StepHybrid
	// StepExit: moved along a world exit.
	StepExit
	// StepMoveLocal: moved within an area (no world exit involved).
	StepMoveLocal
	// StepWarp: used a warp.
	StepWarp
	// StepActivate: performed a non-location action.
	StepActivate
)

func (k StepKind) String() string {
	switch k {
	case StepGet:
		return "Get"
	case StepHybrid:
		return "Hybrid"
	case StepExit:
		return "Exit"
	case StepMoveLocal:
		return "MoveLocal"
	case StepWarp:
		return "Warp"
	case StepActivate:
		return "Activate"
	default:
		return "Unknown"
	}
}

// HistoryStep is one recorded action in a route. Only the fields relevant
// to Kind are populated; the rest are zero.
type HistoryStep struct {
	Kind StepKind

	Item     ItemID     // StepGet, StepHybrid
	Loc      LocationID // StepGet
	Exit     ExitID     // StepHybrid, StepExit
	Spot     SpotID     // StepMoveLocal, StepWarp
	Action   ActionID   // StepActivate
}

// Get builds a StepGet history step.
func Get(item ItemID, loc LocationID) HistoryStep {
	return HistoryStep{Kind: StepGet, Item: item, Loc: loc}
}

// Hybrid builds a StepHybrid history step.
func Hybrid(item ItemID, exit ExitID) HistoryStep {
	return HistoryStep{Kind: StepHybrid, Item: item, Exit: exit}
}

// Exit builds a StepExit history step.
func Exit(exit ExitID) HistoryStep {
	return HistoryStep{Kind: StepExit, Exit: exit}
}

// MoveLocal builds a StepMoveLocal history step.
func MoveLocal(spot SpotID) HistoryStep {
	return HistoryStep{Kind: StepMoveLocal, Spot: spot}
}

// Warp builds a StepWarp history step.
func Warp(spot SpotID) HistoryStep {
	return HistoryStep{Kind: StepWarp, Spot: spot}
}

// Activate builds a StepActivate history step.
func Activate(action ActionID) HistoryStep {
	return HistoryStep{Kind: StepActivate, Action: action}
}

// IsCollecting reports whether the step collects a location (Get or
// Hybrid), used by the solution collector to build the "locations
// sequence" key.
func (s HistoryStep) IsCollecting() bool {
	return s.Kind == StepGet || s.Kind == StepHybrid
}

// EncodeHistoryStep appends s's binary form to dst: a kind byte followed by
// its five ID fields, each length-prefixed so the unused ones (always "")
// cost four bytes rather than needing a variant-specific layout.
func EncodeHistoryStep(dst []byte, s HistoryStep) []byte {
	dst = append(dst, byte(s.Kind))
	dst = PutBytes(dst, []byte(s.Item))
	dst = PutBytes(dst, []byte(s.Loc))
	dst = PutBytes(dst, []byte(s.Exit))
	dst = PutBytes(dst, []byte(s.Spot))
	dst = PutBytes(dst, []byte(s.Action))
	return dst
}

// DecodeHistoryStep is the inverse of EncodeHistoryStep.
func DecodeHistoryStep(r *Reader) (HistoryStep, error) {
	var s HistoryStep
	kind, err := r.Byte()
	if err != nil {
		return s, err
	}
	s.Kind = StepKind(kind)
	item, err := r.String()
	if err != nil {
		return s, err
	}
	loc, err := r.String()
	if err != nil {
		return s, err
	}
	exit, err := r.String()
	if err != nil {
		return s, err
	}
	spot, err := r.String()
	if err != nil {
		return s, err
	}
	action, err := r.String()
	if err != nil {
		return s, err
	}
	s.Item = ItemID(item)
	s.Loc = LocationID(loc)
	s.Exit = ExitID(exit)
	s.Spot = SpotID(spot)
	s.Action = ActionID(action)
	return s, nil
}
