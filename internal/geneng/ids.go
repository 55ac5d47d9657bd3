package geneng

// ItemID, LocationID, SpotID, ExitID, WarpID, ActionID, and CommunityID are
// opaque, comparable, game-specific identifiers. They are plain strings
// (rather than a closed enum of concrete types) because the world graph
// itself is a declarative, external collaborator. The engine never
// interprets the contents of an ID, only compares and sorts them.
type (
	ItemID      string
	LocationID  string
	SpotID      string
	ExitID      string
	WarpID      string
	ActionID    string
	CommunityID string
	// CanonID groups locations that are interchangeable for planning
	// purposes: reaching any one location sharing a CanonID counts the
	// same as reaching any other for scoring purposes.
	CanonID string
)
