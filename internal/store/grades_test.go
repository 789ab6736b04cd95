package store

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestGuessGradeSucceeded(t *testing.T) {
	state := GradesState{}

	first := GradeProbabilities{{Grade: "M1", Probability: 0.6}, {Grade: "M2", Probability: 0.3}}
	state = gradesReducer(state, GuessGradeSucceeded{ChargeID: "c1", GradeProbabilities: first})

	if !reflect.DeepEqual(state["c1"], first) {
		t.Errorf("predictions = %#v, want %#v", state["c1"], first)
	}

	// A later response overwrites the entry wholesale.
	second := GradeProbabilities{{Grade: "F3", Probability: 0.9}}
	next := gradesReducer(state, GuessGradeSucceeded{ChargeID: "c1", GradeProbabilities: second})

	if !reflect.DeepEqual(next["c1"], second) {
		t.Errorf("predictions = %#v, want overwrite", next["c1"])
	}
	if !reflect.DeepEqual(state["c1"], first) {
		t.Error("previous state was mutated")
	}
}

func TestGradesReducerIgnoresOtherActions(t *testing.T) {
	state := GradesState{"c1": {{Grade: "M1", Probability: 0.5}}}

	next := gradesReducer(state, ToggleEditing{CaseID: "x"})

	if reflect.ValueOf(state).Pointer() != reflect.ValueOf(next).Pointer() {
		t.Error("unrelated actions must return the same state reference")
	}
}

func TestSortedByProbability(t *testing.T) {
	probs := GradeProbabilities{
		{Grade: "M2", Probability: 0.2},
		{Grade: "F3", Probability: 0.7},
		{Grade: "M1", Probability: 0.5},
	}

	sorted := probs.SortedByProbability()

	want := GradeProbabilities{
		{Grade: "F3", Probability: 0.7},
		{Grade: "M1", Probability: 0.5},
		{Grade: "M2", Probability: 0.2},
	}
	if !reflect.DeepEqual(sorted, want) {
		t.Errorf("sorted = %#v, want %#v", sorted, want)
	}
	// The stored order is untouched.
	if probs[0].Grade != "M2" {
		t.Error("sorting must not reorder the slice in place")
	}
}

func TestGradeProbabilityJSONPairs(t *testing.T) {
	raw := []byte(`[["M1", 0.6], ["M2", 0.25]]`)

	var probs GradeProbabilities
	if err := json.Unmarshal(raw, &probs); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	want := GradeProbabilities{{Grade: "M1", Probability: 0.6}, {Grade: "M2", Probability: 0.25}}
	if !reflect.DeepEqual(probs, want) {
		t.Errorf("probs = %#v, want %#v", probs, want)
	}

	out, err := json.Marshal(probs)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(out) != `[["M1",0.6],["M2",0.25]]` {
		t.Errorf("marshaled = %s", out)
	}
}

func TestGradeProbabilityRejectsMalformedPair(t *testing.T) {
	var p GradeProbability
	if err := json.Unmarshal([]byte(`["M1"]`), &p); err == nil {
		t.Error("expected an error for a one-element pair")
	}
	if err := json.Unmarshal([]byte(`["M1", "high"]`), &p); err == nil {
		t.Error("expected an error for a non-numeric probability")
	}
}
