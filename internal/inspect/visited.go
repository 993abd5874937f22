package inspect

// visitState tracks the walk lifecycle of a single namespace.
type visitState int

const (
	stateUnvisited visitState = iota
	stateInProgress
	stateDone
)

// visitedSet owns the per-run reachability state: which namespace
// identities have been walked and which canonical path each was first
// reached under. It is created at the start of a build and discarded with
// it, never persisted or shared.
type visitedSet struct {
	states map[string]visitState
	paths  map[string]string
}

func newVisitedSet() *visitedSet {
	return &visitedSet{
		states: make(map[string]visitState),
		paths:  make(map[string]string),
	}
}

// Begin marks the namespace as entered. The first caller wins the
// canonical path; every later caller gets fresh=false and the assigned
// path. A namespace still in progress also reports fresh=false, which is
// what turns a live cycle into an alias edge instead of recursion.
func (v *visitedSet) Begin(identity, path string) (canonical string, fresh bool) {
	if v.states[identity] != stateUnvisited {
		return v.paths[identity], false
	}
	v.states[identity] = stateInProgress
	v.paths[identity] = path
	return path, true
}

// Finish moves the namespace from in-progress to done.
func (v *visitedSet) Finish(identity string) {
	v.states[identity] = stateDone
}

// CanonicalPath returns the path assigned to an identity, if any.
func (v *visitedSet) CanonicalPath(identity string) (string, bool) {
	p, ok := v.paths[identity]
	return p, ok
}
