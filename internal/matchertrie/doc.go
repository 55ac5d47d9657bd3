// Package matchertrie implements the observation-indexed matcher trie: a
// recursive structure mapping minimal sets of state observations to known
// winning suffixes, so the search can short-circuit onto a previously
// found solution the moment a state matches.
//
// Every trie node owns one matcher per distinct property observed at that
// depth, each dispatching on a discrete key (an exact value, a masked
// value, or a boolean predicate result) to a child node and/or terminal
// values, unified behind one map-keyed matcherSlot and a single uint64
// dispatch key regardless of which of the three the property uses.
package matchertrie
