package observer

import (
	"strings"

	"github.com/arrowroute/analyzer/internal/geneng"
	"github.com/arrowroute/analyzer/internal/matchertrie"
)

// StateReader adapts a live geneng.State to matchertrie.PropertyReader,
// using the same "pos" / "item:<id>" / "visited:<loc>" property naming
// scheme Observer.ToVec emits, so a trie built from recorded solutions can
// be queried against any in-flight search state.
type StateReader struct {
	State geneng.State
}

// ReadProperty implements matchertrie.PropertyReader.
func (r StateReader) ReadProperty(p matchertrie.Property) (uint64, bool) {
	name := string(p)
	switch {
	case p == posProperty:
		return hashSpot(r.State.Position()), true
	case strings.HasPrefix(name, "item:"):
		return uint64(r.State.Count(geneng.ItemID(name[len("item:"):]))), true
	case strings.HasPrefix(name, "visited:"):
		if r.State.Visited(geneng.LocationID(name[len("visited:"):])) {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}
