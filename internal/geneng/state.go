package geneng

// State is the capability contract the engine uses to read and replay a
// game state. It is opaque, cloneable, equality-comparable, and hashable
// only through its serialized byte form (Encode).
//
// Concrete implementations live under internal/world (and its subpackages,
// one per game) and are never assumed by any package outside internal/world.
// Every other package (condensed graph, Steiner scorer, state DB, queue,
// scheduler) is written solely against this interface.
type State interface {
	// Has reports whether the state currently holds item.
	Has(item ItemID) bool
	// Count returns the held quantity of item (for stackable/counted items).
	Count(item ItemID) int
	// Position returns the spot the state's agent currently occupies.
	Position() SpotID
	// Visited reports whether loc has already been collected.
	Visited(loc LocationID) bool
	// Todo reports whether loc is still outstanding and reachable-in-principle.
	Todo(loc LocationID) bool
	// CountVisits returns the number of required visits completed so far:
	// the "progress" dimension of Score.
	CountVisits() int
	// Clone returns a deep, independent copy.
	Clone() State
	// Equal reports whether two states are identical for dedup purposes.
	Equal(other State) bool
	// Encode returns a fixed-width byte serialization suitable for use as a
	// state DB key; its length must be constant across all states of a
	// given concrete type.
	Encode() []byte
}

// Replayer applies one HistoryStep to a State, mutating it in place and
// returning the elapsed-time cost of the step, or an error if step cannot
// legally be applied from the state's current position.
//
// Replay is deterministic: replaying the same step from equal states always
// produces equal resulting states and identical costs.
type Replayer interface {
	Replay(step HistoryStep) (costMillis uint32, err error)
}
