package sample

import (
	"github.com/arrowroute/analyzer/internal/geneng"
	"github.com/arrowroute/analyzer/internal/world"
)

// Replay applies step to s, mutating it in place, per geneng.Replayer.
func (s *State) Replay(step geneng.HistoryStep) (uint32, error) {
	w := s.w
	switch step.Kind {
	case geneng.StepGet:
		loc := step.Loc
		if w.locSpot[loc] != s.spot {
			return 0, ErrNotAtSpot
		}
		s.applyGet(w, step.Item, loc)
		return 0, nil

	case geneng.StepExit:
		for _, e := range w.exits[s.spot] {
			if e.ID != step.Exit {
				continue
			}
			if !s.satisfies(e) {
				return 0, ErrMissingCapability
			}
			s.spot = e.To
			if e.Hybrid {
				s.applyGet(w, e.Item, e.Loc)
			}
			return e.CostMS, nil
		}
		return 0, ErrUnknownStep

	case geneng.StepHybrid:
		for _, e := range w.exits[s.spot] {
			if e.ID != step.Exit || !e.Hybrid {
				continue
			}
			if !s.satisfies(e) {
				return 0, ErrMissingCapability
			}
			s.spot = e.To
			s.applyGet(w, e.Item, e.Loc)
			return e.CostMS, nil
		}
		return 0, ErrUnknownStep

	case geneng.StepWarp:
		for _, wp := range w.warps {
			if wp.To != step.Spot {
				continue
			}
			if wp.Requirement != "" && !s.Has(wp.Requirement) {
				return 0, ErrMissingCapability
			}
			s.spot = wp.To
			return wp.CostMS, nil
		}
		return 0, ErrUnknownStep

	case geneng.StepMoveLocal:
		if !w.SameArea(s.spot, step.Spot) {
			return 0, ErrMissingCapability
		}
		s.spot = step.Spot
		return MoveLocalCostMS, nil

	case geneng.StepActivate:
		return 0, ErrUnknownStep

	default:
		return 0, ErrUnknownStep
	}
}

// satisfies reports whether s currently holds e's required movement
// capability (if any) and every exit requirement it always gates on.
func (s *State) satisfies(e world.Exit) bool {
	if e.Movement != "" && !s.Has(e.Movement) {
		return false
	}
	for _, req := range e.Reqs {
		if !s.heldExitReq(req) {
			return false
		}
	}
	return true
}

// heldExitReq treats an exit requirement as "satisfied" when the named
// exit ID also appears as an item the state holds. The sample world
// reuses ItemID-shaped tokens for exit gating flags, since it has no
// richer requirement language of its own.
func (s *State) heldExitReq(req geneng.ExitID) bool {
	return s.Has(geneng.ItemID(req))
}
