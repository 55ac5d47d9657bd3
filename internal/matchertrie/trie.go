package matchertrie

// SuffixRef names a known winning suffix by which solution it came from and
// where, within that solution's history, the suffix begins.
type SuffixRef struct {
	SolutionID  string
	SuffixStart int
}

// Trie is the matcher trie: insert an observation path ending in a
// SuffixRef during solution collection, and look one up against a live
// state during search to find candidate winning suffixes worth replaying.
//
// The root matcher should be a partitionable (exact or masked) property,
// since the root is the trie's only entry point and a predicate root
// would force evaluating every inserted compare observation on every
// lookup; this package does not enforce that itself (it is a property of
// what the observer chooses to insert first), but callers should honor it.
type Trie struct {
	root *Node
}

// New returns an empty trie.
func New() *Trie {
	return &Trie{root: newNode()}
}

// Insert records path as a sequence of observations terminating in value:
// every observation but the last is inserted to produce/find the next
// node; the last is recorded via addValue so the path can terminate here
// even if a longer path sharing this prefix also exists.
func (t *Trie) Insert(path []Observation, value SuffixRef) error {
	if len(path) == 0 {
		return t.root.addValue(Observation{}, value)
	}
	node := t.root
	for _, obs := range path[:len(path)-1] {
		next, err := node.insert(obs)
		if err != nil {
			return err
		}
		node = next
	}
	return node.addValue(path[len(path)-1], value)
}

// Lookup descends the trie against r, collecting every value reachable
// through a matching branch at any depth.
func (t *Trie) Lookup(r PropertyReader) []SuffixRef {
	var out []SuffixRef
	t.root.lookup(r, &out)
	return out
}

// Clear empties the trie in place, used by the scheduler's periodic
// clean-and-rebuild pass.
func (t *Trie) Clear() {
	t.root.clear()
}
