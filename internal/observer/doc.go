// Package observer implements the observer: given a winning route, it
// walks the route backward, at each step recording the minimal set of
// state properties that step actually depended on, and emits the
// accumulated observation list for insertion into the matcher trie.
package observer
