package geneng

// MaxHistoryLen bounds the "recent history" list carried by a Wrapper.
// Older steps are dropped from the front once the bound is reached; the
// full route is always recoverable from the state DB's backpointer chain,
// so truncating the in-flight copy costs nothing but memory.
const MaxHistoryLen = 64

// Wrapper is the context wrapper that flows through the queue: a State
// plus elapsed time, time-since-last-visit, and an optional bounded recent
// history.
type Wrapper struct {
	State          State
	Elapsed        uint32
	TimeSinceVisit uint32
	History        []HistoryStep
}

// NewWrapper constructs the initial wrapper for a fresh search, with zeroed
// timers and empty history.
func NewWrapper(s State) Wrapper {
	return Wrapper{State: s}
}

// Clone returns a deep copy whose State and History slice are independent
// of the receiver's.
func (w Wrapper) Clone() Wrapper {
	out := Wrapper{
		State:          w.State.Clone(),
		Elapsed:        w.Elapsed,
		TimeSinceVisit: w.TimeSinceVisit,
	}
	if len(w.History) > 0 {
		out.History = append([]HistoryStep(nil), w.History...)
	}
	return out
}

// WithHistory returns a copy of w with step appended, truncating the front
// of the history once MaxHistoryLen is exceeded.
func (w Wrapper) WithHistory(step HistoryStep) Wrapper {
	out := w
	hist := make([]HistoryStep, 0, len(w.History)+1)
	hist = append(hist, w.History...)
	hist = append(hist, step)
	if len(hist) > MaxHistoryLen {
		hist = hist[len(hist)-MaxHistoryLen:]
	}
	out.History = hist
	return out
}

// BestTimes extracts the BestTimes projection of this wrapper, given a
// precomputed estimated-remaining value (the caller is expected to have
// queried the Steiner scorer already; Wrapper itself performs no scoring).
func (w Wrapper) BestTimes(estimatedRemaining uint64) BestTimes {
	return BestTimes{
		Elapsed:            w.Elapsed,
		TimeSinceVisit:     w.TimeSinceVisit,
		EstimatedRemaining: estimatedRemaining,
	}
}

// StateDecoder reconstructs a State from the bytes its own Encode()
// produced. State is opaque and game-specific, so decoding it is not a
// capability of the State interface itself; it is supplied by whichever
// World produced the original state (internal/world.World.DecodeState).
type StateDecoder func([]byte) (State, error)

// EncodeWrapper appends w's full binary form to dst: elapsed,
// time-since-visit, the history list, then the state's own length-prefixed
// Encode() bytes. This is the form persisted to the queue's cold tier, the
// only place a Wrapper needs to survive outside process memory.
func EncodeWrapper(dst []byte, w Wrapper) []byte {
	dst = PutUint32(dst, w.Elapsed)
	dst = PutUint32(dst, w.TimeSinceVisit)
	dst = PutUint32(dst, uint32(len(w.History)))
	for _, step := range w.History {
		dst = EncodeHistoryStep(dst, step)
	}
	dst = PutBytes(dst, w.State.Encode())
	return dst
}

// DecodeWrapper is the inverse of EncodeWrapper, given the decoder for
// whichever World produced the encoded state.
func DecodeWrapper(r *Reader, decode StateDecoder) (Wrapper, error) {
	var w Wrapper
	elapsed, err := r.Uint32()
	if err != nil {
		return w, err
	}
	tsv, err := r.Uint32()
	if err != nil {
		return w, err
	}
	n, err := r.Uint32()
	if err != nil {
		return w, err
	}
	history := make([]HistoryStep, 0, n)
	for i := uint32(0); i < n; i++ {
		step, err := DecodeHistoryStep(r)
		if err != nil {
			return w, err
		}
		history = append(history, step)
	}
	stateBytes, err := r.Bytes()
	if err != nil {
		return w, err
	}
	state, err := decode(stateBytes)
	if err != nil {
		return w, err
	}
	w.Elapsed = elapsed
	w.TimeSinceVisit = tsv
	w.State = state
	if len(history) > 0 {
		w.History = history
	}
	return w, nil
}
