package store

import (
	"encoding/json"
	"fmt"
	"sort"
)

// GradeProbability is one predicted grade for a charge. On the wire it
// is a [label, probability] pair, matching the oracle's response
// format.
type GradeProbability struct {
	Grade       string
	Probability float64
}

// MarshalJSON encodes the prediction as a two-element array.
func (g GradeProbability) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{g.Grade, g.Probability})
}

// UnmarshalJSON decodes a [label, probability] pair.
func (g *GradeProbability) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("grade probability must be a [label, probability] pair, got %d elements", len(pair))
	}
	if err := json.Unmarshal(pair[0], &g.Grade); err != nil {
		return fmt.Errorf("invalid grade label: %w", err)
	}
	if err := json.Unmarshal(pair[1], &g.Probability); err != nil {
		return fmt.Errorf("invalid probability: %w", err)
	}
	return nil
}

// SortedByProbability returns a new list ordered by descending
// probability. Ordering for display is the consumer's policy, so the
// slice itself stores predictions exactly as the oracle returned them.
func (gs GradeProbabilities) SortedByProbability() GradeProbabilities {
	out := make(GradeProbabilities, len(gs))
	copy(out, gs)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Probability > out[j].Probability
	})
	return out
}

// gradesReducer maintains the charge-id to predicted-grades mapping.
// A late response for a charge simply overwrites the entry; there is no
// request cancellation, so a stale prediction can land after a newer
// one. That hazard is inherited behavior, not corrected here.
func gradesReducer(state GradesState, action Action) GradesState {
	a, ok := action.(GuessGradeSucceeded)
	if !ok {
		return state
	}

	newState := make(GradesState, len(state)+1)
	for id, probs := range state {
		newState[id] = probs
	}
	newState[a.ChargeID] = a.GradeProbabilities
	return newState
}
